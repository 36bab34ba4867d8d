package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/project/domain"
	"github.com/tassot/tassot/internal/project/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memberFixture struct {
	svc     domain.Service
	conn    *gorm.DB
	project *domain.Project
	owner   snowflake.ID
	editor  snowflake.ID
	user    snowflake.ID
}

func newMemberFixture(t *testing.T) *memberFixture {
	t.Helper()
	svc, conn, node, _ := newTestService(t)
	repo := repository.NewRepository(conn)

	owner := seedUser(t, conn, node, "owner@example.com")
	editor := seedUser(t, conn, node, "editor@example.com")
	user := seedUser(t, conn, node, "user@example.com")

	project, err := svc.Create(context.Background(), owner, domain.CreateProjectRequest{Name: "Launch", Key: "LNCH"})
	require.NoError(t, err)

	for memberID, role := range map[snowflake.ID]domain.Role{
		editor: domain.RoleEditor,
		user:   domain.RoleUser,
	} {
		err = repo.CreateMember(context.Background(), domain.ProjectMember{
			ID:        node.Generate(),
			ProjectID: project.ID,
			UserID:    memberID,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	return &memberFixture{svc: svc, conn: conn, project: project, owner: owner, editor: editor, user: user}
}

func (f *memberFixture) roleOf(t *testing.T, userID snowflake.ID) string {
	t.Helper()
	var role string
	err := f.conn.Raw(`SELECT role FROM project_members WHERE project_id = ? AND user_id = ?`, f.project.ID, userID).Scan(&role).Error
	require.NoError(t, err)
	return role
}

func TestUpdateMemberRoleAuthorization(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	// plain members cannot change roles
	err := f.svc.UpdateMemberRole(ctx, f.user, f.project.ID, f.editor, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// nobody can target themselves
	err = f.svc.UpdateMemberRole(ctx, f.owner, f.project.ID, f.owner, domain.RoleEditor)
	assert.ErrorIs(t, err, domain.ErrCannotTargetSelf)

	// unknown roles are rejected before any lookup
	err = f.svc.UpdateMemberRole(ctx, f.owner, f.project.ID, f.user, domain.Role("admin"))
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	// editors may not promote to owner
	err = f.svc.UpdateMemberRole(ctx, f.editor, f.project.ID, f.user, domain.RoleOwner)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// editors may not touch the owner's membership
	err = f.svc.UpdateMemberRole(ctx, f.editor, f.project.ID, f.owner, domain.RoleEditor)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// editors may adjust non-owner roles
	err = f.svc.UpdateMemberRole(ctx, f.editor, f.project.ID, f.user, domain.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, "editor", f.roleOf(t, f.user))

	// targets outside the project are 404s
	f2 := newMemberFixture(t)
	outsider := seedUser(t, f2.conn, mustNode(t), "outsider@example.com")
	err = f2.svc.UpdateMemberRole(ctx, f2.owner, f2.project.ID, outsider, domain.RoleEditor)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	return node
}

func TestOwnershipTransfer(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	err := f.svc.UpdateMemberRole(ctx, f.owner, f.project.ID, f.editor, domain.RoleOwner)
	require.NoError(t, err)

	// all three legs of the transfer must have landed
	var ownerID snowflake.ID
	err = f.conn.Raw(`SELECT owner_id FROM projects WHERE id = ?`, f.project.ID).Scan(&ownerID).Error
	require.NoError(t, err)
	assert.Equal(t, f.editor, ownerID)
	assert.Equal(t, "editor", f.roleOf(t, f.owner))
	assert.Equal(t, "owner", f.roleOf(t, f.editor))

	// the demoted owner can no longer transfer ownership
	err = f.svc.UpdateMemberRole(ctx, f.owner, f.project.ID, f.user, domain.RoleOwner)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRemoveMember(t *testing.T) {
	f := newMemberFixture(t)
	ctx := context.Background()

	// only the owner removes members
	err := f.svc.RemoveMember(ctx, f.editor, f.project.ID, f.user)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// and never themselves
	err = f.svc.RemoveMember(ctx, f.owner, f.project.ID, f.owner)
	assert.ErrorIs(t, err, domain.ErrCannotTargetSelf)

	require.NoError(t, f.svc.RemoveMember(ctx, f.owner, f.project.ID, f.user))

	err = f.svc.RemoveMember(ctx, f.owner, f.project.ID, f.user)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	members, err := f.svc.ListMembers(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
