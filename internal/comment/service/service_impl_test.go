package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/comment/domain"
	"github.com/tassot/tassot/internal/comment/repository"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
	projectrepository "github.com/tassot/tassot/internal/project/repository"
	projectservice "github.com/tassot/tassot/internal/project/service"
	taskdomain "github.com/tassot/tassot/internal/task/domain"
	taskrepository "github.com/tassot/tassot/internal/task/repository"
	taskservice "github.com/tassot/tassot/internal/task/service"
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

type commentFixture struct {
	svc    domain.Service
	conn   *gorm.DB
	node   *snowflake.Node
	author snowflake.ID
	task   snowflake.ID
	task2  snowflake.ID
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	conn := dbtest.Open(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	recorder := &activityRecorder{}
	ctx := context.Background()

	author := node.Generate()
	err = conn.Exec(
		`INSERT INTO users (id, subject_id, email, display_name) VALUES (?, ?, 'author@example.com', 'Author')`,
		author, "sub-"+author.String(),
	).Error
	require.NoError(t, err)

	projectSvc := projectservice.NewService(conn, projectrepository.NewRepository(conn), node, recorder, zap.NewNop())
	project, err := projectSvc.Create(ctx, author, projectdomain.CreateProjectRequest{Name: "Launch", Key: "LNCH"})
	require.NoError(t, err)

	var boardID snowflake.ID
	require.NoError(t, conn.Raw(`SELECT id FROM boards WHERE project_id = ? ORDER BY position LIMIT 1`, project.ID).Scan(&boardID).Error)

	taskSvc := taskservice.NewService(conn, taskrepository.NewRepository(conn), node, recorder, zap.NewNop())
	task, err := taskSvc.Create(ctx, author, project.ID, boardID, taskdomain.CreateTaskRequest{Name: "discussion"})
	require.NoError(t, err)
	task2, err := taskSvc.Create(ctx, author, project.ID, boardID, taskdomain.CreateTaskRequest{Name: "other"})
	require.NoError(t, err)

	return &commentFixture{
		svc:    NewService(repository.NewRepository(conn), taskSvc, node, recorder, zap.NewNop()),
		conn:   conn,
		node:   node,
		author: author,
		task:   task.ID,
		task2:  task2.ID,
	}
}

func TestThreadOrderIsDepthFirstChronological(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	c1, err := f.svc.Create(ctx, f.author, f.task, domain.CreateCommentRequest{Content: "C1"})
	require.NoError(t, err)
	// an unrelated root created between C1 and its replies must not split the branch
	_, err = f.svc.Create(ctx, f.author, f.task, domain.CreateCommentRequest{Content: "other root"})
	require.NoError(t, err)
	c2, err := f.svc.Create(ctx, f.author, f.task, domain.CreateCommentRequest{Content: "C2", ParentID: &c1.ID})
	require.NoError(t, err)
	c3, err := f.svc.Create(ctx, f.author, f.task, domain.CreateCommentRequest{Content: "C3", ParentID: &c2.ID})
	require.NoError(t, err)
	_ = c3

	thread, err := f.svc.ListThread(ctx, f.task)
	require.NoError(t, err)
	require.Len(t, thread, 4)

	contents := make([]string, 0, len(thread))
	depths := make([]int, 0, len(thread))
	for _, item := range thread {
		contents = append(contents, item.Content)
		depths = append(depths, item.Depth)
	}
	assert.Equal(t, []string{"C1", "C2", "C3", "other root"}, contents)
	assert.Equal(t, []int{1, 2, 3, 1}, depths)
}

func TestCreateCommentValidation(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.author, f.task, domain.CreateCommentRequest{Content: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)

	missing := f.node.Generate()
	_, err = f.svc.Create(ctx, f.author, f.task, domain.CreateCommentRequest{Content: "reply", ParentID: &missing})
	assert.ErrorIs(t, err, domain.ErrParentNotFound)

	// a parent on another task is rejected
	other, err := f.svc.Create(ctx, f.author, f.task2, domain.CreateCommentRequest{Content: "elsewhere"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.author, f.task, domain.CreateCommentRequest{Content: "reply", ParentID: &other.ID})
	assert.ErrorIs(t, err, domain.ErrParentMismatch)
}
