package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/board/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var colorPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{3}){1,2}$`)

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	genID    *snowflake.Node
	activity activitydomain.Service
	log      *zap.Logger
}

func NewService(db *gorm.DB, repo domain.Repository, genID *snowflake.Node, activity activitydomain.Service, log *zap.Logger) domain.Service {
	return &service{
		db:       db,
		repo:     repo,
		genID:    genID,
		activity: activity,
		log:      log.Named("board.service"),
	}
}

func (s *service) Create(ctx context.Context, actorID, projectID snowflake.ID, req domain.CreateBoardRequest) (*domain.Board, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	color := strings.TrimSpace(req.Color)
	if color != "" && !colorPattern.MatchString(color) {
		return nil, domain.ErrInvalidColor
	}

	maxPosition, err := s.repo.MaxPosition(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	board := domain.Board{
		ID:        s.genID.Generate(),
		ProjectID: projectID,
		Name:      name,
		Color:     color,
		Position:  maxPosition + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, board); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:  projectID,
		UserID:     actorID,
		EntityType: "board",
		EntityID:   board.ID,
		ActionType: "create",
		ChangeData: map[string]any{"name": name},
	})
	return &board, nil
}

func (s *service) Update(ctx context.Context, actorID, projectID, boardID snowflake.ID, req domain.UpdateBoardRequest) (*domain.Board, error) {
	if req.Name == nil && req.Color == nil {
		return nil, domain.ErrInvalidName
	}

	board, err := s.repo.FindByID(ctx, projectID, boardID)
	if err != nil {
		return nil, err
	}

	type fieldChange struct {
		field string
		from  string
		to    string
	}
	var changes []fieldChange

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		if name != board.Name {
			changes = append(changes, fieldChange{"name", board.Name, name})
			board.Name = name
		}
	}
	if req.Color != nil {
		color := strings.TrimSpace(*req.Color)
		if !colorPattern.MatchString(color) {
			return nil, domain.ErrInvalidColor
		}
		if color != board.Color {
			changes = append(changes, fieldChange{"color", board.Color, color})
			board.Color = color
		}
	}

	if len(changes) == 0 {
		return board, nil
	}

	board.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, board); err != nil {
		return nil, err
	}

	for _, change := range changes {
		s.activity.Record(ctx, activitydomain.Entry{
			ProjectID:  projectID,
			UserID:     actorID,
			EntityType: "board",
			EntityID:   board.ID,
			ActionType: "update",
			ChangeData: map[string]any{"field": change.field, "from": change.from, "to": change.to},
		})
	}
	return board, nil
}

func (s *service) Delete(ctx context.Context, actorID, projectID, boardID snowflake.ID) error {
	// read first so the audit row can carry the name
	board, err := s.repo.FindByID(ctx, projectID, boardID)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, projectID, boardID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:  projectID,
		UserID:     actorID,
		EntityType: "board",
		EntityID:   board.ID,
		ActionType: "delete",
		ChangeData: map[string]any{"name": board.Name},
	})
	return nil
}

func (s *service) List(ctx context.Context, projectID snowflake.ID) ([]domain.Board, error) {
	return s.repo.ListByProject(ctx, projectID)
}

func (s *service) Get(ctx context.Context, projectID, boardID snowflake.ID) (*domain.Board, error) {
	return s.repo.FindByID(ctx, projectID, boardID)
}
