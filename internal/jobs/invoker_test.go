package jobs

import (
	"context"
	"testing"

	"aapmcp/internal/controller"
	"aapmcp/internal/extravars"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLauncher records calls and returns scripted responses.
type fakeLauncher struct {
	launchCalls int
	lastVars    map[string]interface{}
	launchResp  *controller.LaunchResponse
	launchErr   error

	job    *controller.JobRun
	jobErr error

	stdout    string
	stdoutErr error
}

func (f *fakeLauncher) Launch(ctx context.Context, templateID int, extraVars map[string]interface{}) (*controller.LaunchResponse, error) {
	f.launchCalls++
	f.lastVars = extraVars
	return f.launchResp, f.launchErr
}

func (f *fakeLauncher) GetJob(ctx context.Context, jobID int) (*controller.JobRun, error) {
	return f.job, f.jobErr
}

func (f *fakeLauncher) GetJobStdout(ctx context.Context, jobID int) (string, error) {
	return f.stdout, f.stdoutErr
}

func TestLaunch(t *testing.T) {
	fake := &fakeLauncher{
		launchResp: &controller.LaunchResponse{Job: 1001, URL: "/jobs/1001/", JobType: "run"},
	}
	inv := NewInvoker(fake)

	result, err := inv.Launch(context.Background(), 42, `{"k":"v"}`)
	require.NoError(t, err)

	assert.Equal(t, 1001, result.JobID)
	assert.Equal(t, "launched", result.Status)
	assert.Equal(t, 42, result.TemplateID)
	assert.Equal(t, "v", fake.lastVars["k"])
}

func TestLaunch_ContaminatedVarsNormalized(t *testing.T) {
	fake := &fakeLauncher{launchResp: &controller.LaunchResponse{Job: 7}}
	inv := NewInvoker(fake)

	_, err := inv.Launch(context.Background(), 1, `[object Object]{"k":"v"}`)
	require.NoError(t, err)
	assert.Equal(t, "v", fake.lastVars["k"])
}

func TestLaunch_InvalidVarsFailBeforeNetwork(t *testing.T) {
	fake := &fakeLauncher{launchResp: &controller.LaunchResponse{Job: 7}}
	inv := NewInvoker(fake)

	_, err := inv.Launch(context.Background(), 1, `{k: 'v'}`)
	require.Error(t, err)
	assert.True(t, extravars.IsValidation(err))
	assert.Zero(t, fake.launchCalls, "no launch call may happen on validation failure")
}

func TestStatus_MapsKnownStates(t *testing.T) {
	tests := []struct {
		remote   string
		expected string
	}{
		{"running", StatusRunning},
		{"Successful", StatusSuccessful},
		{"FAILED", StatusFailed},
		{"canceled", StatusCanceled},
		{"never_heard_of_it", "never_heard_of_it"}, // forward compatibility
	}

	for _, test := range tests {
		fake := &fakeLauncher{job: &controller.JobRun{ID: 5, Status: test.remote}}
		inv := NewInvoker(fake)

		result, err := inv.Status(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, test.expected, result.Status, "remote status %q", test.remote)
	}
}

func TestStatus_NotFoundPropagates(t *testing.T) {
	fake := &fakeLauncher{jobErr: &controller.NotFoundError{Resource: "job", ID: 9}}
	inv := NewInvoker(fake)

	_, err := inv.Status(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, controller.IsNotFound(err))
}

func TestLogs(t *testing.T) {
	started := "2026-08-25T10:00:00Z"
	fake := &fakeLauncher{
		job:    &controller.JobRun{ID: 5, Name: "Deploy App", Status: "successful", Started: &started},
		stdout: "PLAY [all]\nok: [host1]\n",
	}
	inv := NewInvoker(fake)

	result, err := inv.Logs(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 5, result.JobID)
	assert.Equal(t, "Deploy App", result.JobName)
	assert.Equal(t, StatusSuccessful, result.JobStatus)
	assert.Equal(t, len(fake.stdout), result.LogLength)
	assert.Equal(t, 2, result.LogLines)
}

func TestLogs_EmptyStdoutIsValid(t *testing.T) {
	fake := &fakeLauncher{job: &controller.JobRun{ID: 5, Status: "pending"}}
	inv := NewInvoker(fake)

	result, err := inv.Logs(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, result.Stdout)
	assert.Zero(t, result.LogLength)
	assert.Zero(t, result.LogLines)
}

func TestFinished(t *testing.T) {
	assert.True(t, Finished(StatusSuccessful))
	assert.True(t, Finished(StatusFailed))
	assert.True(t, Finished(StatusError))
	assert.True(t, Finished(StatusCanceled))
	assert.False(t, Finished(StatusRunning))
	assert.False(t, Finished(StatusPending))
	assert.False(t, Finished("mystery"))
}
