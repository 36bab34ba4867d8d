package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/aidraft/domain"
	boarddomain "github.com/tassot/tassot/internal/board/domain"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
	"github.com/tassot/tassot/internal/providers/ai"
	taskdomain "github.com/tassot/tassot/internal/task/domain"
	"go.uber.org/zap"
)

var fallbackOffsets = map[domain.Complexity]time.Duration{
	domain.ComplexitySimple:  3 * 24 * time.Hour,
	domain.ComplexityMedium:  7 * 24 * time.Hour,
	domain.ComplexityComplex: 14 * 24 * time.Hour,
}

type service struct {
	drafter ai.Drafter
	boards  boarddomain.Service
	tasks   taskdomain.Service
	log     *zap.Logger
}

func NewService(drafter ai.Drafter, boards boarddomain.Service, tasks taskdomain.Service, log *zap.Logger) domain.Service {
	return &service{
		drafter: drafter,
		boards:  boards,
		tasks:   tasks,
		log:     log.Named("aidraft.service"),
	}
}

func (s *service) DraftName(ctx context.Context, project *projectdomain.Project, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.ErrEmptyPrompt
	}

	name, err := s.drafter.TaskName(ctx, draftRequest(project, prompt, "task_name"))
	if err != nil || name == "" {
		s.log.Error("task name draft failed", zap.Error(err))
		return "", domain.ErrDraftFailed
	}
	return name, nil
}

func (s *service) DraftDescription(ctx context.Context, project *projectdomain.Project, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.ErrEmptyPrompt
	}

	description, err := s.drafter.TaskDescription(ctx, draftRequest(project, prompt, "task_description"))
	if err != nil || description == "" {
		s.log.Error("task description draft failed", zap.Error(err))
		return "", domain.ErrDraftFailed
	}
	return description, nil
}

func (s *service) CreateTask(ctx context.Context, actorID snowflake.ID, project *projectdomain.Project, req domain.CreateRequest) (*taskdomain.TaskWithAssignees, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}

	name, err := s.DraftName(ctx, project, prompt)
	if err != nil {
		return nil, err
	}
	description, err := s.DraftDescription(ctx, project, prompt)
	if err != nil {
		return nil, err
	}

	rawDeadline, err := s.drafter.TaskDeadline(ctx, draftRequest(project, prompt, ""))
	if err != nil {
		s.log.Warn("task deadline draft failed, using fallback", zap.Error(err))
	}
	deadline := clampDeadline(rawDeadline, req.Complexity, time.Now().UTC())

	boards, err := s.boards.List(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return nil, domain.ErrNoBoards
	}

	return s.tasks.Create(ctx, actorID, project.ID, boards[0].ID, taskdomain.CreateTaskRequest{
		Name:        name,
		Description: description,
		Deadline:    &deadline,
	})
}

// clampDeadline parses the provider's ISO date and rejects anything not in
// the future, falling back to a complexity-based offset.
func clampDeadline(raw string, complexity domain.Complexity, now time.Time) time.Time {
	offset, ok := fallbackOffsets[complexity]
	if !ok {
		offset = fallbackOffsets[domain.ComplexityMedium]
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.Add(offset)
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", raw)
	}
	if err != nil || !parsed.After(now) {
		return now.Add(offset)
	}
	return parsed.UTC()
}

func draftRequest(project *projectdomain.Project, prompt, field string) ai.DraftRequest {
	return ai.DraftRequest{
		Prompt:      prompt,
		ProjectName: project.Name,
		Preferences: preferencesFor(project, field),
	}
}

// preferencesFor flattens the project's ai_preferences, applying the
// per-field override block on top of the base values.
func preferencesFor(project *projectdomain.Project, field string) map[string]string {
	if project.Settings == nil {
		return nil
	}
	details, _ := project.Settings["project_details"].(map[string]any)
	if details == nil {
		return nil
	}
	prefs, _ := details["ai_preferences"].(map[string]any)
	if prefs == nil {
		return nil
	}

	out := map[string]string{}
	for key, value := range prefs {
		if key == "overrides" {
			continue
		}
		if str, ok := value.(string); ok {
			out[key] = str
		}
	}
	if field != "" {
		if overrides, ok := prefs["overrides"].(map[string]any); ok {
			if fieldPrefs, ok := overrides[field].(map[string]any); ok {
				for key, value := range fieldPrefs {
					if str, ok := value.(string); ok {
						out[key] = str
					}
				}
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
