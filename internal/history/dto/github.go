package dto

import "time"

// WorkflowRun is the subset of a GitHub Actions run the collector needs.
type WorkflowRun struct {
	ID           int64     `json:"id"`
	RunNumber    int       `json:"run_number"`
	Event        string    `json:"event"`
	Status       string    `json:"status"`
	Conclusion   string    `json:"conclusion"`
	RunStartedAt time.Time `json:"run_started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WorkflowRunsResponse is the body of the list-workflow-runs endpoint.
type WorkflowRunsResponse struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// GistFile is one file of a gist.
type GistFile struct {
	Filename  string `json:"filename,omitempty"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
}

// Gist is the subset of the gist resource the collector reads and patches.
type Gist struct {
	ID    string              `json:"id,omitempty"`
	Files map[string]GistFile `json:"files"`
}
