package service

import (
	"context"
	"crypto/rand"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/project/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var projectKeyPattern = regexp.MustCompile(`^[A-Z]{3,4}$`)

// DefaultBoardNames are created, in order, for every new project.
var DefaultBoardNames = []string{"To Do", "In Progress", "Done"}

const urlSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const urlSuffixLength = 8

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
		log:      log.Named("project.service"),
	}
}

func (s *service) Create(ctx context.Context, ownerID snowflake.ID, req domain.CreateProjectRequest) (*domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	key := strings.TrimSpace(req.Key)
	if !projectKeyPattern.MatchString(key) {
		return nil, domain.ErrInvalidKey
	}

	now := time.Now().UTC()
	projectID := s.genID.Generate()
	project := domain.Project{
		ID:        projectID,
		URL:       slug.Make(name) + "-" + randomSuffix(urlSuffixLength),
		Key:       key,
		Name:      name,
		OwnerID:   ownerID,
		Settings:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateProject(ctx, project); err != nil {
			return err
		}

		member := domain.ProjectMember{
			ID:        s.genID.Generate(),
			ProjectID: projectID,
			UserID:    ownerID,
			Role:      domain.RoleOwner,
			CreatedAt: now,
		}
		if err := repo.CreateMember(ctx, member); err != nil {
			return err
		}

		boards := make([]domain.DefaultBoard, 0, len(DefaultBoardNames))
		for position, boardName := range DefaultBoardNames {
			boards = append(boards, domain.DefaultBoard{
				ID:        s.genID.Generate(),
				ProjectID: projectID,
				Name:      boardName,
				Position:  position,
				CreatedAt: now,
			})
		}
		return repo.CreateBoards(ctx, boards)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:  projectID,
		UserID:     ownerID,
		EntityType: "project",
		EntityID:   projectID,
		ActionType: "create",
		ChangeData: map[string]any{"name": name, "key": key},
	})

	return &project, nil
}

func (s *service) GetByURL(ctx context.Context, url string) (*domain.Project, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByURL(ctx, url)
}

func (s *service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.ProjectListItem, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Edit(ctx context.Context, actorID snowflake.ID, url string, req domain.EditProjectRequest) (*domain.Project, error) {
	project, err := s.repo.FindByURL(ctx, strings.TrimSpace(url))
	if err != nil {
		return nil, err
	}

	type fieldChange struct {
		field string
		from  any
		to    any
	}
	var changes []fieldChange

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		if name != project.Name {
			changes = append(changes, fieldChange{"name", project.Name, name})
			project.Name = name
		}
	}
	if req.Key != nil {
		key := strings.TrimSpace(*req.Key)
		if !projectKeyPattern.MatchString(key) {
			return nil, domain.ErrInvalidKey
		}
		if key != project.Key {
			changes = append(changes, fieldChange{"key", project.Key, key})
			project.Key = key
		}
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description != project.Description {
			changes = append(changes, fieldChange{"description", project.Description, description})
			project.Description = description
		}
	}
	if len(req.Details) > 0 {
		if err := domain.ValidateProjectDetails(req.Details); err != nil {
			return nil, err
		}
		if project.Settings == nil {
			project.Settings = datatypes.JSONMap{}
		}
		details, _ := project.Settings["project_details"].(map[string]any)
		if details == nil {
			details = map[string]any{}
		}
		for key, value := range req.Details {
			details[key] = value
		}
		project.Settings["project_details"] = details
		changes = append(changes, fieldChange{field: "details"})
	}

	if len(changes) == 0 {
		return project, nil
	}

	project.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, err
	}

	// one audit entry per changed field
	for _, change := range changes {
		data := map[string]any{"field": change.field}
		if change.field == "name" || change.field == "key" {
			data["from"] = change.from
			data["to"] = change.to
		}
		s.activity.Record(ctx, activitydomain.Entry{
			ProjectID:  project.ID,
			UserID:     actorID,
			EntityType: "project",
			EntityID:   project.ID,
			ActionType: "update",
			ChangeData: data,
		})
	}

	return project, nil
}

func (s *service) Delete(ctx context.Context, actorID snowflake.ID, url string) error {
	project, err := s.repo.FindByURL(ctx, strings.TrimSpace(url))
	if err != nil {
		return err
	}

	affected, err := s.repo.DeleteByURL(ctx, project.URL)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:  project.ID,
		UserID:     actorID,
		EntityType: "project",
		EntityID:   project.ID,
		ActionType: "delete",
		ChangeData: map[string]any{"name": project.Name, "key": project.Key},
	})
	return nil
}

func (s *service) Pin(ctx context.Context, userID, projectID snowflake.ID, pinned bool) error {
	if _, err := s.repo.FindMember(ctx, projectID, userID); err != nil {
		return err
	}
	return s.repo.UpdateMemberPin(ctx, projectID, userID, pinned)
}

func (s *service) UpdateOrder(ctx context.Context, userID snowflake.ID, order []domain.ProjectOrder) error {
	if len(order) == 0 {
		return nil
	}

	projectIDs := make([]snowflake.ID, 0, len(order))
	seen := make(map[snowflake.ID]bool, len(order))
	for _, item := range order {
		if item.ProjectID == 0 || seen[item.ProjectID] {
			return domain.ErrNotMember
		}
		seen[item.ProjectID] = true
		projectIDs = append(projectIDs, item.ProjectID)
	}

	// the whole batch is rejected when any reference is not the caller's
	count, err := s.repo.CountMemberships(ctx, userID, projectIDs)
	if err != nil {
		return err
	}
	if count != int64(len(projectIDs)) {
		return domain.ErrNotMember
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, item := range order {
			if err := repo.UpdateMemberSortOrder(ctx, item.ProjectID, userID, item.SortOrder); err != nil {
				return err
			}
		}
		return nil
	})
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = urlSuffixAlphabet[int(b)%len(urlSuffixAlphabet)]
	}
	return string(buf)
}
