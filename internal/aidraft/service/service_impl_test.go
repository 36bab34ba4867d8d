package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/aidraft/domain"
	boardrepository "github.com/tassot/tassot/internal/board/repository"
	boardservice "github.com/tassot/tassot/internal/board/service"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
	projectrepository "github.com/tassot/tassot/internal/project/repository"
	projectservice "github.com/tassot/tassot/internal/project/service"
	"github.com/tassot/tassot/internal/providers/ai"
	taskrepository "github.com/tassot/tassot/internal/task/repository"
	taskservice "github.com/tassot/tassot/internal/task/service"
	"github.com/tassot/tassot/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type activityRecorder struct{}

func (activityRecorder) Record(ctx context.Context, entry activitydomain.Entry) {}

func (activityRecorder) List(ctx context.Context, req activitydomain.ListRequest) (activitydomain.ListResponse, error) {
	return activitydomain.ListResponse{}, nil
}

type stubDrafter struct {
	name        string
	description string
	deadline    string
	err         error

	requests []ai.DraftRequest
}

func (s *stubDrafter) TaskName(ctx context.Context, req ai.DraftRequest) (string, error) {
	s.requests = append(s.requests, req)
	return s.name, s.err
}

func (s *stubDrafter) TaskDescription(ctx context.Context, req ai.DraftRequest) (string, error) {
	s.requests = append(s.requests, req)
	return s.description, s.err
}

func (s *stubDrafter) TaskDeadline(ctx context.Context, req ai.DraftRequest) (string, error) {
	s.requests = append(s.requests, req)
	return s.deadline, nil
}

func newDraftFixture(t *testing.T, drafter ai.Drafter) (domain.Service, snowflake.ID, *projectdomain.Project) {
	t.Helper()
	conn := dbtest.Open(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	recorder := activityRecorder{}

	owner := node.Generate()
	err = conn.Exec(
		`INSERT INTO users (id, subject_id, email, display_name) VALUES (?, ?, 'owner@example.com', 'Owner')`,
		owner, "sub-"+owner.String(),
	).Error
	require.NoError(t, err)

	projectSvc := projectservice.NewService(conn, projectrepository.NewRepository(conn), node, recorder, zap.NewNop())
	project, err := projectSvc.Create(context.Background(), owner, projectdomain.CreateProjectRequest{Name: "Launch", Key: "LNCH"})
	require.NoError(t, err)

	boardSvc := boardservice.NewService(conn, boardrepository.NewRepository(conn), node, recorder, zap.NewNop())
	taskSvc := taskservice.NewService(conn, taskrepository.NewRepository(conn), node, recorder, zap.NewNop())

	return NewService(drafter, boardSvc, taskSvc, zap.NewNop()), owner, project
}

func TestClampDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// valid future dates pass through
	got := clampDeadline("2026-03-10", domain.ComplexitySimple, now)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), got)

	got = clampDeadline("2026-03-10T08:30:00Z", domain.ComplexityComplex, now)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC), got)

	// past, garbage, and empty all fall back by complexity
	assert.Equal(t, now.Add(3*24*time.Hour), clampDeadline("2020-01-01", domain.ComplexitySimple, now))
	assert.Equal(t, now.Add(7*24*time.Hour), clampDeadline("soon", domain.ComplexityMedium, now))
	assert.Equal(t, now.Add(14*24*time.Hour), clampDeadline("", domain.ComplexityComplex, now))

	// unknown complexity behaves as medium
	assert.Equal(t, now.Add(7*24*time.Hour), clampDeadline("", domain.Complexity("Huge"), now))
}

func TestCreateTaskPersistsIntoFirstBoard(t *testing.T) {
	drafter := &stubDrafter{
		name:        "Ship onboarding email",
		description: "Write and schedule the welcome sequence.",
		deadline:    "2020-01-01",
	}
	svc, owner, project := newDraftFixture(t, drafter)

	before := time.Now().UTC()
	task, err := svc.CreateTask(context.Background(), owner, project, domain.CreateRequest{
		Prompt:     "onboarding email",
		Complexity: domain.ComplexitySimple,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ship onboarding email", task.Name)
	assert.Equal(t, "Write and schedule the welcome sequence.", task.Description)
	assert.Equal(t, "LNCH-1", task.Key)
	// first board by position is "To Do"
	assert.Equal(t, "To Do", task.Status)

	// past provider date falls back to the simple offset
	require.NotNil(t, task.Deadline)
	assert.WithinDuration(t, before.Add(3*24*time.Hour), *task.Deadline, 5*time.Second)
}

func TestCreateTaskValidation(t *testing.T) {
	drafter := &stubDrafter{name: "x", description: "y"}
	svc, owner, project := newDraftFixture(t, drafter)

	_, err := svc.CreateTask(context.Background(), owner, project, domain.CreateRequest{Prompt: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)

	drafter.err = errors.New("provider down")
	_, err = svc.CreateTask(context.Background(), owner, project, domain.CreateRequest{Prompt: "anything"})
	assert.ErrorIs(t, err, domain.ErrDraftFailed)
}

func TestDraftNameCarriesProjectPreferences(t *testing.T) {
	drafter := &stubDrafter{name: "named"}
	svc, _, project := newDraftFixture(t, drafter)

	project.Settings = map[string]any{
		"project_details": map[string]any{
			"ai_preferences": map[string]any{
				"tone": "terse",
				"overrides": map[string]any{
					"task_name": map[string]any{"style": "imperative"},
				},
			},
		},
	}

	name, err := svc.DraftName(context.Background(), project, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "named", name)

	require.Len(t, drafter.requests, 1)
	assert.Equal(t, map[string]string{"tone": "terse", "style": "imperative"}, drafter.requests[0].Preferences)
	assert.Equal(t, "Launch", drafter.requests[0].ProjectName)
}
