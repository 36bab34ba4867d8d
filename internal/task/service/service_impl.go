package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/task/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

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
		log:      log.Named("task.service"),
	}
}

func (s *service) Create(ctx context.Context, actorID, projectID, boardID snowflake.ID, req domain.CreateTaskRequest) (*domain.TaskWithAssignees, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	assigneeIDs := dedupe(req.AssigneeIDs)
	now := time.Now().UTC()
	task := domain.Task{
		ID:          s.genID.Generate(),
		ProjectID:   projectID,
		BoardID:     boardID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Deadline:    req.Deadline,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		status, err := repo.BoardName(ctx, projectID, boardID)
		if err != nil {
			return err
		}
		task.Status = status

		projectKey, n, err := repo.AllocateKey(ctx, projectID)
		if err != nil {
			return err
		}
		task.Key = fmt.Sprintf("%s-%d", projectKey, n)

		if err := repo.Create(ctx, task); err != nil {
			return err
		}
		return repo.InsertAssignees(ctx, task.ID, assigneeIDs)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:           projectID,
		UserID:              actorID,
		EntityType:          "task",
		EntityID:            task.ID,
		ActionType:          "create",
		SecondaryEntityType: "board",
		SecondaryEntityID:   boardID,
		ChangeData:          map[string]any{"key": task.Key, "name": task.Name},
	})

	return s.withAssignees(ctx, &task)
}

func (s *service) Update(ctx context.Context, actorID, projectID, taskID snowflake.ID, req domain.UpdateTaskRequest) (*domain.TaskWithAssignees, error) {
	task, err := s.repo.FindByID(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	var entries []activitydomain.Entry
	fieldEntry := func(action string, data map[string]any) {
		entries = append(entries, activitydomain.Entry{
			ProjectID:  projectID,
			UserID:     actorID,
			EntityType: "task",
			EntityID:   task.ID,
			ActionType: action,
			ChangeData: data,
		})
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		if name != task.Name {
			fields["name"] = name
			fieldEntry("update", map[string]any{"field": "name", "from": task.Name, "to": name})
			task.Name = name
		}
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description != task.Description {
			fields["description"] = description
			// content is not audited, only the fact it changed
			fieldEntry("update", map[string]any{"field": "description"})
			task.Description = description
		}
	}
	if req.SetDeadline && !deadlineEqual(task.Deadline, req.Deadline) {
		fields["deadline"] = req.Deadline
		fieldEntry("update", map[string]any{
			"field": "deadline",
			"from":  formatDeadline(task.Deadline),
			"to":    formatDeadline(req.Deadline),
		})
		task.Deadline = req.Deadline
	}
	if req.BoardID != nil && *req.BoardID != task.BoardID {
		status, err := s.repo.BoardName(ctx, projectID, *req.BoardID)
		if err != nil {
			return nil, err
		}
		fields["board_id"] = *req.BoardID
		fields["status"] = status
		entries = append(entries, activitydomain.Entry{
			ProjectID:           projectID,
			UserID:              actorID,
			EntityType:          "task",
			EntityID:            task.ID,
			ActionType:          "move",
			SecondaryEntityType: "board",
			SecondaryEntityID:   *req.BoardID,
			ChangeData:          map[string]any{"from": task.Status, "to": status},
		})
		task.BoardID = *req.BoardID
		task.Status = status
	}

	var replaceAssignees []snowflake.ID
	if req.AssigneeIDs != nil {
		current, err := s.repo.ListAssigneeIDs(ctx, taskID)
		if err != nil {
			return nil, err
		}
		next := dedupe(*req.AssigneeIDs)
		added, removed := diffIDs(current, next)
		for _, userID := range added {
			entries = append(entries, activitydomain.Entry{
				ProjectID:           projectID,
				UserID:              actorID,
				EntityType:          "task",
				EntityID:            task.ID,
				ActionType:          "assign",
				SecondaryEntityType: "user",
				SecondaryEntityID:   userID,
			})
		}
		for _, userID := range removed {
			entries = append(entries, activitydomain.Entry{
				ProjectID:           projectID,
				UserID:              actorID,
				EntityType:          "task",
				EntityID:            task.ID,
				ActionType:          "unassign",
				SecondaryEntityType: "user",
				SecondaryEntityID:   userID,
			})
		}
		if len(added) > 0 || len(removed) > 0 {
			replaceAssignees = next
		}
	}

	if len(fields) == 0 && replaceAssignees == nil {
		return s.withAssignees(ctx, task)
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, taskID, fields); err != nil {
			return err
		}
		if replaceAssignees != nil {
			// full replace; the diff above exists for logging only
			if err := repo.DeleteAssignees(ctx, taskID); err != nil {
				return err
			}
			return repo.InsertAssignees(ctx, taskID, replaceAssignees)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		s.activity.Record(ctx, entry)
	}
	return s.withAssignees(ctx, task)
}

func (s *service) Delete(ctx context.Context, actorID, projectID, taskID snowflake.ID) error {
	// read first so the audit row can carry key and name
	task, err := s.repo.FindByID(ctx, projectID, taskID)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:  projectID,
		UserID:     actorID,
		EntityType: "task",
		EntityID:   task.ID,
		ActionType: "delete",
		ChangeData: map[string]any{"key": task.Key, "name": task.Name},
	})
	return nil
}

func (s *service) Get(ctx context.Context, projectID, taskID snowflake.ID) (*domain.TaskWithAssignees, error) {
	task, err := s.repo.FindByID(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	return s.withAssignees(ctx, task)
}

func (s *service) ListByProject(ctx context.Context, projectID snowflake.ID) ([]domain.TaskWithAssignees, error) {
	tasks, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	taskIDs := make([]snowflake.ID, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
	}
	rows, err := s.repo.ListAssignees(ctx, taskIDs)
	if err != nil {
		return nil, err
	}
	byTask := make(map[snowflake.ID][]domain.AssigneeItem, len(tasks))
	for _, row := range rows {
		byTask[row.TaskID] = append(byTask[row.TaskID], row.AssigneeItem)
	}

	out := make([]domain.TaskWithAssignees, 0, len(tasks))
	for _, task := range tasks {
		assignees := byTask[task.ID]
		if assignees == nil {
			assignees = []domain.AssigneeItem{}
		}
		out = append(out, domain.TaskWithAssignees{Task: task, Assignees: assignees})
	}
	return out, nil
}

func (s *service) ResolveProject(ctx context.Context, taskID snowflake.ID) (snowflake.ID, error) {
	return s.repo.ProjectOf(ctx, taskID)
}

func (s *service) withAssignees(ctx context.Context, task *domain.Task) (*domain.TaskWithAssignees, error) {
	rows, err := s.repo.ListAssignees(ctx, []snowflake.ID{task.ID})
	if err != nil {
		return nil, err
	}
	assignees := make([]domain.AssigneeItem, 0, len(rows))
	for _, row := range rows {
		assignees = append(assignees, row.AssigneeItem)
	}
	return &domain.TaskWithAssignees{Task: *task, Assignees: assignees}, nil
}

func dedupe(ids []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]bool, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func diffIDs(current, next []snowflake.ID) (added, removed []snowflake.ID) {
	currentSet := make(map[snowflake.ID]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	nextSet := make(map[snowflake.ID]bool, len(next))
	for _, id := range next {
		nextSet[id] = true
		if !currentSet[id] {
			added = append(added, id)
		}
	}
	for _, id := range current {
		if !nextSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func deadlineEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func formatDeadline(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
