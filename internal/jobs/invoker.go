// Package jobs drives the launch, status and log-retrieval lifecycle of job
// runs on the automation controller. The controller is the source of truth;
// no job state is held locally beyond the identifier the caller keeps.
package jobs

import (
	"context"
	"strings"

	"aapmcp/internal/controller"
	"aapmcp/internal/extravars"
	"aapmcp/pkg/logging"
)

// Remote job states this server knows about. Unknown values pass through
// verbatim so new controller states never break status queries.
const (
	StatusPending    = "pending"
	StatusWaiting    = "waiting"
	StatusRunning    = "running"
	StatusSuccessful = "successful"
	StatusFailed     = "failed"
	StatusError      = "error"
	StatusCanceled   = "canceled"
)

// Launcher is the slice of the controller client the invoker depends on.
type Launcher interface {
	Launch(ctx context.Context, templateID int, extraVars map[string]interface{}) (*controller.LaunchResponse, error)
	GetJob(ctx context.Context, jobID int) (*controller.JobRun, error)
	GetJobStdout(ctx context.Context, jobID int) (string, error)
}

// LaunchResult is what a launch call hands back to the tool layer. The job
// runs on; the caller polls with the job ID.
type LaunchResult struct {
	JobID      int    `json:"job_id"`
	Status     string `json:"status"`
	TemplateID int    `json:"template_id"`
	URL        string `json:"url,omitempty"`
	JobType    string `json:"job_type,omitempty"`
}

// StatusResult is a point-in-time view of one job.
type StatusResult struct {
	JobID    int     `json:"job_id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Started  *string `json:"started"`
	Finished *string `json:"finished"`
	Elapsed  float64 `json:"elapsed"`
	Template int     `json:"job_template"`
	Playbook string  `json:"playbook,omitempty"`
}

// LogsResult bundles a job's stdout with derived metadata so the caller
// needs only one tool call.
type LogsResult struct {
	JobID     int     `json:"job_id"`
	JobName   string  `json:"job_name"`
	JobStatus string  `json:"job_status"`
	Started   *string `json:"started"`
	Finished  *string `json:"finished"`
	Stdout    string  `json:"stdout_content"`
	LogLength int     `json:"log_length"`
	LogLines  int     `json:"log_lines"`
}

// Invoker launches templates and polls the resulting jobs.
type Invoker struct {
	client Launcher
}

// NewInvoker creates an invoker backed by the given controller client.
func NewInvoker(client Launcher) *Invoker {
	return &Invoker{client: client}
}

// Launch normalizes rawExtraVars, starts a job from the template and returns
// immediately with the new job identifier. Validation failures surface
// before any network call is made.
func (inv *Invoker) Launch(ctx context.Context, templateID int, rawExtraVars string) (*LaunchResult, error) {
	vars, err := extravars.Normalize(rawExtraVars)
	if err != nil {
		return nil, err
	}

	launched, err := inv.client.Launch(ctx, templateID, vars)
	if err != nil {
		logging.Error("Invoker", err, "Failed to launch job template %d", templateID)
		return nil, err
	}

	return &LaunchResult{
		JobID:      launched.Job,
		Status:     "launched",
		TemplateID: templateID,
		URL:        launched.URL,
		JobType:    launched.JobType,
	}, nil
}

// Status fetches the current state of one job. The remote status string is
// normalized onto the known vocabulary; unknown values pass through as-is.
func (inv *Invoker) Status(ctx context.Context, jobID int) (*StatusResult, error) {
	run, err := inv.client.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		JobID:    run.ID,
		Name:     run.Name,
		Status:   mapStatus(run.Status),
		Started:  run.Started,
		Finished: run.Finished,
		Elapsed:  run.Elapsed,
		Template: run.JobTemplate,
		Playbook: run.Playbook,
	}, nil
}

// Logs fetches the job's stdout and the metadata around it in one combined
// result. An empty stdout body is a valid outcome, not an error.
func (inv *Invoker) Logs(ctx context.Context, jobID int) (*LogsResult, error) {
	run, err := inv.client.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	stdout, err := inv.client.GetJobStdout(ctx, jobID)
	if err != nil {
		return nil, err
	}

	lines := 0
	if stdout != "" {
		lines = len(strings.Split(strings.TrimRight(stdout, "\n"), "\n"))
	}

	return &LogsResult{
		JobID:     jobID,
		JobName:   run.Name,
		JobStatus: mapStatus(run.Status),
		Started:   run.Started,
		Finished:  run.Finished,
		Stdout:    stdout,
		LogLength: len(stdout),
		LogLines:  lines,
	}, nil
}

// mapStatus folds case variance of the known states; anything else passes
// through verbatim for forward compatibility.
func mapStatus(remote string) string {
	switch strings.ToLower(remote) {
	case StatusPending:
		return StatusPending
	case StatusWaiting:
		return StatusWaiting
	case StatusRunning:
		return StatusRunning
	case StatusSuccessful:
		return StatusSuccessful
	case StatusFailed:
		return StatusFailed
	case StatusError:
		return StatusError
	case StatusCanceled:
		return StatusCanceled
	default:
		return remote
	}
}

// Finished reports whether a status string names a terminal state.
func Finished(status string) bool {
	switch status {
	case StatusSuccessful, StatusFailed, StatusError, StatusCanceled:
		return true
	default:
		return false
	}
}
