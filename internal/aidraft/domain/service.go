package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
	taskdomain "github.com/tassot/tassot/internal/task/domain"
)

// Complexity buckets drive the fallback deadline offset when the provider
// returns an unusable date.
type Complexity string

const (
	ComplexitySimple  Complexity = "Simple"
	ComplexityMedium  Complexity = "Medium"
	ComplexityComplex Complexity = "Complex"
)

type Service interface {
	DraftName(ctx context.Context, project *projectdomain.Project, prompt string) (string, error)
	DraftDescription(ctx context.Context, project *projectdomain.Project, prompt string) (string, error)

	// CreateTask drafts name, description and deadline from the prompt and
	// persists the task into the project's first board.
	CreateTask(ctx context.Context, actorID snowflake.ID, project *projectdomain.Project, req CreateRequest) (*taskdomain.TaskWithAssignees, error)
}

type CreateRequest struct {
	Prompt     string
	Complexity Complexity
}

var (
	ErrEmptyPrompt = errors.New("empty_prompt")
	ErrDraftFailed = errors.New("ai_draft_failed")
	ErrNoBoards    = errors.New("project_has_no_boards")
)
