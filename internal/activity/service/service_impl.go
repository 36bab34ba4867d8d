package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const queueSize = 256

// Service appends audit rows through an in-process queue. A failed or dropped
// write never propagates to the caller.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository

	queue chan domain.Activity

	closeOnce sync.Once
	done      chan struct{}
}

func New(db *gorm.DB, log *zap.Logger, genID *snowflake.Node, repo domain.Repository) *Service {
	s := &Service{
		db:    db,
		log:   log.Named("activity.service"),
		genID: genID,
		repo:  repo,
		queue: make(chan domain.Activity, queueSize),
		done:  make(chan struct{}),
	}
	go s.consume()
	return s
}

// Close stops accepting entries and drains the queue.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	<-s.done
}

func (s *Service) consume() {
	defer close(s.done)
	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
			s.log.Error("failed to write activity",
				zap.String("action_type", entry.ActionType),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (s *Service) Record(ctx context.Context, entry domain.Entry) {
	_ = ctx

	if entry.ProjectID == 0 || entry.UserID == 0 ||
		strings.TrimSpace(entry.EntityType) == "" || entry.EntityID == 0 ||
		strings.TrimSpace(entry.ActionType) == "" {
		s.log.Error("activity entry missing required fields",
			zap.String("entity_type", entry.EntityType),
			zap.String("action_type", entry.ActionType),
		)
		return
	}

	payload := datatypes.JSONMap{}
	for key, value := range entry.ChangeData {
		if key == "" {
			continue
		}
		payload[key] = value
	}

	row := domain.Activity{
		ID:         s.genID.Generate(),
		ProjectID:  entry.ProjectID,
		UserID:     entry.UserID,
		EntityType: strings.TrimSpace(entry.EntityType),
		EntityID:   entry.EntityID,
		ActionType: strings.TrimSpace(entry.ActionType),
		ChangeData: payload,
		CreatedAt:  time.Now().UTC(),
	}
	if secondary := strings.TrimSpace(entry.SecondaryEntityType); secondary != "" {
		row.SecondaryEntityType = &secondary
	}
	if entry.SecondaryEntityID != 0 {
		id := entry.SecondaryEntityID
		row.SecondaryEntityID = &id
	}

	select {
	case s.queue <- row:
	default:
		s.log.Warn("activity queue full, dropping entry",
			zap.String("action_type", row.ActionType),
		)
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	if req.ProjectID == 0 {
		return domain.ListResponse{}, domain.ErrInvalidProject
	}

	var cursor *domain.ActivityCursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return domain.ListResponse{}, domain.ErrInvalidPageToken
		}
		cursor = &domain.ActivityCursor{ID: id, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 250 {
		pageSize = 250
	}

	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		ProjectID:  req.ProjectID,
		EntityType: req.EntityType,
		ActionType: req.ActionType,
		Cursor:     cursor,
		Limit:      pageSize,
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(item *domain.Activity) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	activities := make([]domain.Activity, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		activities = append(activities, *item)
	}

	resp := domain.ListResponse{Activities: activities}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
