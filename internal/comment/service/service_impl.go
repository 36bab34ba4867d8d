package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/comment/domain"
	taskdomain "github.com/tassot/tassot/internal/task/domain"
	"go.uber.org/zap"
)

type service struct {
	repo     domain.Repository
	tasks    taskdomain.Service
	genID    *snowflake.Node
	activity activitydomain.Service
	log      *zap.Logger
}

func NewService(repo domain.Repository, tasks taskdomain.Service, genID *snowflake.Node, activity activitydomain.Service, log *zap.Logger) domain.Service {
	return &service{
		repo:     repo,
		tasks:    tasks,
		genID:    genID,
		activity: activity,
		log:      log.Named("comment.service"),
	}
}

func (s *service) Create(ctx context.Context, authorID, taskID snowflake.ID, req domain.CreateCommentRequest) (*domain.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	if req.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.TaskID != taskID {
			return nil, domain.ErrParentMismatch
		}
	}

	comment := domain.Comment{
		ID:        s.genID.Generate(),
		TaskID:    taskID,
		UserID:    authorID,
		Content:   content,
		ParentID:  req.ParentID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if projectID, err := s.tasks.ResolveProject(ctx, taskID); err == nil {
		s.activity.Record(ctx, activitydomain.Entry{
			ProjectID:           projectID,
			UserID:              authorID,
			EntityType:          "comment",
			EntityID:            comment.ID,
			ActionType:          "create",
			SecondaryEntityType: "task",
			SecondaryEntityID:   taskID,
		})
	}
	return &comment, nil
}

func (s *service) ListThread(ctx context.Context, taskID snowflake.ID) ([]domain.ThreadItem, error) {
	rows, err := s.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	// rows arrive chronological; link children under parents and walk
	// depth-first so each branch stays contiguous
	children := make(map[snowflake.ID][]*domain.ThreadItem, len(rows))
	var roots []*domain.ThreadItem
	for i := range rows {
		row := &rows[i]
		if row.ParentID == nil {
			roots = append(roots, row)
			continue
		}
		children[*row.ParentID] = append(children[*row.ParentID], row)
	}

	out := make([]domain.ThreadItem, 0, len(rows))
	var walk func(item *domain.ThreadItem, depth int)
	walk = func(item *domain.ThreadItem, depth int) {
		item.Depth = depth
		out = append(out, *item)
		for _, child := range children[item.ID] {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 1)
	}
	return out, nil
}
