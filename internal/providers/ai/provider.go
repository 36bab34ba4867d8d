package ai

import "context"

// DraftRequest carries the free-text prompt plus the project's style
// preferences, flattened for the upstream provider.
type DraftRequest struct {
	Prompt      string            `json:"prompt"`
	ProjectName string            `json:"project_name"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Drafter generates plain-text task fields. TaskDeadline returns an ISO
// date string; validating and clamping it is the caller's job.
type Drafter interface {
	TaskName(ctx context.Context, req DraftRequest) (string, error)
	TaskDescription(ctx context.Context, req DraftRequest) (string, error)
	TaskDeadline(ctx context.Context, req DraftRequest) (string, error)
}
