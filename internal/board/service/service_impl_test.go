package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/board/domain"
	"github.com/tassot/tassot/internal/board/repository"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
	projectrepository "github.com/tassot/tassot/internal/project/repository"
	projectservice "github.com/tassot/tassot/internal/project/service"
	"github.com/tassot/tassot/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type activityRecorder struct {
	entries []activitydomain.Entry
}

func (a *activityRecorder) Record(ctx context.Context, entry activitydomain.Entry) {
	a.entries = append(a.entries, entry)
}

func (a *activityRecorder) List(ctx context.Context, req activitydomain.ListRequest) (activitydomain.ListResponse, error) {
	return activitydomain.ListResponse{}, nil
}

type boardFixture struct {
	svc      domain.Service
	conn     *gorm.DB
	node     *snowflake.Node
	recorder *activityRecorder
	owner    snowflake.ID
	project  *projectdomain.Project
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()
	conn := dbtest.Open(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	recorder := &activityRecorder{}

	owner := node.Generate()
	err = conn.Exec(
		`INSERT INTO users (id, subject_id, email, display_name) VALUES (?, ?, 'owner@example.com', 'Owner')`,
		owner, "sub-"+owner.String(),
	).Error
	require.NoError(t, err)

	projectSvc := projectservice.NewService(conn, projectrepository.NewRepository(conn), node, recorder, zap.NewNop())
	project, err := projectSvc.Create(context.Background(), owner, projectdomain.CreateProjectRequest{Name: "Launch", Key: "LNCH"})
	require.NoError(t, err)
	recorder.entries = nil

	return &boardFixture{
		svc:      NewService(conn, repository.NewRepository(conn), node, recorder, zap.NewNop()),
		conn:     conn,
		node:     node,
		recorder: recorder,
		owner:    owner,
		project:  project,
	}
}

func TestCreateBoardAppendsAtNextPosition(t *testing.T) {
	f := newBoardFixture(t)

	board, err := f.svc.Create(context.Background(), f.owner, f.project.ID, domain.CreateBoardRequest{Name: "Blocked"})
	require.NoError(t, err)
	// three default boards occupy 0..2
	assert.Equal(t, 3, board.Position)

	boards, err := f.svc.List(context.Background(), f.project.ID)
	require.NoError(t, err)
	require.Len(t, boards, 4)
	assert.Equal(t, "Blocked", boards[3].Name)
}

func TestCreateBoardValidation(t *testing.T) {
	f := newBoardFixture(t)

	_, err := f.svc.Create(context.Background(), f.owner, f.project.ID, domain.CreateBoardRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(context.Background(), f.owner, f.project.ID, domain.CreateBoardRequest{Name: "Blocked", Color: "red"})
	assert.ErrorIs(t, err, domain.ErrInvalidColor)

	_, err = f.svc.Create(context.Background(), f.owner, f.project.ID, domain.CreateBoardRequest{Name: "Blocked", Color: "#AbCdEf"})
	assert.NoError(t, err)
}

func TestUpdateBoardLogsPerField(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()

	board, err := f.svc.Create(ctx, f.owner, f.project.ID, domain.CreateBoardRequest{Name: "Blocked", Color: "#fff"})
	require.NoError(t, err)
	f.recorder.entries = nil

	// at least one field is required
	_, err = f.svc.Update(ctx, f.owner, f.project.ID, board.ID, domain.UpdateBoardRequest{})
	assert.Error(t, err)

	name := "On Hold"
	color := "#000"
	updated, err := f.svc.Update(ctx, f.owner, f.project.ID, board.ID, domain.UpdateBoardRequest{Name: &name, Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "On Hold", updated.Name)
	assert.Equal(t, "#000", updated.Color)

	require.Len(t, f.recorder.entries, 2)
	fields := []string{
		f.recorder.entries[0].ChangeData["field"].(string),
		f.recorder.entries[1].ChangeData["field"].(string),
	}
	assert.ElementsMatch(t, []string{"name", "color"}, fields)
}

func TestDeleteBoard(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()

	board, err := f.svc.Create(ctx, f.owner, f.project.ID, domain.CreateBoardRequest{Name: "Blocked"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.owner, f.project.ID, board.ID))

	_, err = f.svc.Get(ctx, f.project.ID, board.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.svc.Delete(ctx, f.owner, f.project.ID, board.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
