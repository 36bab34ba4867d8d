package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/user/domain"
	"github.com/tassot/tassot/internal/user/repository"
	"github.com/tassot/tassot/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(t *testing.T) domain.Service {
	t.Helper()
	conn := dbtest.Open(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(conn, repository.NewRepository(conn), node, zap.NewNop())
}

func TestUpsertBySubject(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	created, err := svc.UpsertBySubject(ctx, domain.UpsertRequest{
		SubjectID:   "auth0|abc",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.Onboarded)

	// same subject refreshes the row instead of creating a second one
	refreshed, err := svc.UpsertBySubject(ctx, domain.UpsertRequest{
		SubjectID:   "auth0|abc",
		Email:       "alice@new.example.com",
		DisplayName: "Alice Liddell",
		PhotoURL:    "https://cdn.example.com/alice.png",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, refreshed.ID)
	assert.Equal(t, "alice@new.example.com", refreshed.Email)
	assert.Equal(t, "Alice Liddell", refreshed.DisplayName)
	assert.Equal(t, "https://cdn.example.com/alice.png", refreshed.PhotoURL)

	// empty fields in a later login never blank out stored values
	again, err := svc.UpsertBySubject(ctx, domain.UpsertRequest{
		SubjectID: "auth0|abc",
		Email:     "alice@new.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", again.DisplayName)

	_, err = svc.UpsertBySubject(ctx, domain.UpsertRequest{SubjectID: "", Email: "x@y.z"})
	assert.ErrorIs(t, err, domain.ErrInvalidSubject)

	_, err = svc.UpsertBySubject(ctx, domain.UpsertRequest{SubjectID: "auth0|def", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUpdateProfileMergesSettings(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.UpsertBySubject(ctx, domain.UpsertRequest{
		SubjectID:   "auth0|abc",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, user.ID, domain.UpdateProfileRequest{
		Settings: map[string]any{"theme": "dark", "locale": "en"},
	})
	require.NoError(t, err)

	name := "A."
	updated, err := svc.UpdateProfile(ctx, user.ID, domain.UpdateProfileRequest{
		DisplayName: &name,
		Settings:    map[string]any{"theme": "light"},
	})
	require.NoError(t, err)
	assert.Equal(t, "A.", updated.DisplayName)
	assert.Equal(t, "light", updated.Settings["theme"])
	// keys absent from the patch survive
	assert.Equal(t, "en", updated.Settings["locale"])

	fetched, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "light", fetched.Settings["theme"])
	assert.Equal(t, "en", fetched.Settings["locale"])
}

func TestCompleteOnboarding(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.UpsertBySubject(ctx, domain.UpsertRequest{
		SubjectID: "auth0|abc",
		Email:     "alice@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.CompleteOnboarding(ctx, user.ID))
	// idempotent
	require.NoError(t, svc.CompleteOnboarding(ctx, user.ID))

	fetched, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Onboarded)

	err = svc.CompleteOnboarding(ctx, snowflake.ID(0))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
