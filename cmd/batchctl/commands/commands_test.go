package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/batchrest/am"
	"github.com/teranos/batchrest/batch"
	batchtest "github.com/teranos/batchrest/internal/testing"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	am.Reset()
	os.Exit(m.Run())
}

// run executes batchctl with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestJobStart(t *testing.T) {
	srv := batchtest.CreateTestServer(t)
	srv.Respond(http.MethodPost, "/api/jobs/payroll/start", http.StatusOK,
		`{"executionId":42,"jobName":"payroll","jobInstanceId":7,"batchStatus":"STARTING","createTime":1760832000000}`)

	out, err := run(t, "job", "start", "payroll",
		"-p", "date=2026-10-19", "--params", "note='month end' date=ignored",
		"--url", srv.URL+"/api", "-o", "json")
	require.NoError(t, err)

	var exec batch.JobExecution
	require.NoError(t, json.Unmarshal([]byte(out), &exec))
	assert.Equal(t, int64(42), exec.ExecutionID)
	assert.Equal(t, batch.StatusStarting, exec.BatchStatus)

	q := srv.LastRequest(t).Query
	assert.Equal(t, "2026-10-19", q.Get("date"), "-p wins over --params")
	assert.Equal(t, "month end", q.Get("note"))
}

func TestExecutionLsTable(t *testing.T) {
	srv := batchtest.CreateTestServer(t)
	srv.Respond(http.MethodGet, "/api/jobexecutions", http.StatusOK,
		`[{"executionId":42,"jobName":"payroll","jobInstanceId":7,"batchStatus":"COMPLETED","exitStatus":"COMPLETED"}]`)

	out, err := run(t, "execution", "ls", "--count", "5", "--url", srv.URL+"/api")
	require.NoError(t, err)
	assert.Contains(t, out, "EXECUTION ID")
	assert.Contains(t, out, "payroll")
	assert.Contains(t, out, "COMPLETED")
	assert.Equal(t, "5", srv.LastRequest(t).Query.Get("count"))
}

func TestExecutionStepsYAML(t *testing.T) {
	srv := batchtest.CreateTestServer(t)
	srv.Respond(http.MethodGet, "/api/jobexecutions/42/stepexecutions", http.StatusOK,
		`[{"stepExecutionId":100,"stepName":"load","batchStatus":"COMPLETED","startTime":1760832000000}]`)

	out, err := run(t, "execution", "steps", "42", "--url", srv.URL+"/api", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "stepName: load")
	assert.Contains(t, out, "startTime: 1760832000000")
}

func TestExecutionRejectsBadID(t *testing.T) {
	_, err := run(t, "execution", "get", "abc", "--url", "http://localhost:8080/api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution id must be a positive number")
}

func TestStopMessage(t *testing.T) {
	srv := batchtest.CreateTestServer(t)
	srv.Respond(http.MethodPost, "/api/jobexecutions/42/stop", http.StatusOK, "")

	out, err := run(t, "execution", "stop", "42", "--url", srv.URL+"/api")
	require.NoError(t, err)
	assert.Contains(t, out, "Stop requested for job execution 42")
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := batchtest.CreateTestServer(t)
	srv.Respond(http.MethodGet, "/api/jobs", http.StatusInternalServerError, "internal error")

	_, err := run(t, "job", "ls", "--url", srv.URL+"/api")
	require.Error(t, err)
	se, ok := batch.AsServerError(err)
	require.True(t, ok)
	assert.Equal(t, "internal error", se.Body)
}

func TestScheduleCreateDryRun(t *testing.T) {
	out, err := run(t, "schedule", "create", "--job", "payroll", "--interval", "15m", "-p", "dept=R&D", "--dry-run", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"jobName":"payroll","jobExecutionId":0,"jobParameters":{"dept":"R&D"},"initialDelay":0,"afterDelay":0,"interval":15,"persistent":false}`,
		out)
}

func TestScheduleCreateExecution(t *testing.T) {
	srv := batchtest.CreateTestServer(t)
	srv.Respond(http.MethodPost, "/api/jobexecutions/42/schedule", http.StatusOK,
		`{"id":"5","status":"SCHEDULED","jobScheduleConfig":{"jobExecutionId":42,"initialDelay":0,"afterDelay":60,"interval":0,"persistent":true}}`)

	out, err := run(t, "schedule", "create", "--execution", "42", "--after-delay", "1h", "--persistent", "--url", srv.URL+"/api")
	require.NoError(t, err)
	assert.Contains(t, out, "execution 42")
	assert.Contains(t, out, "SCHEDULED")

	assert.JSONEq(t,
		`{"jobExecutionId":42,"initialDelay":0,"afterDelay":60,"interval":0,"persistent":true}`,
		string(srv.LastRequest(t).Body))
}

func TestScheduleCreateCombinedMechanisms(t *testing.T) {
	out, err := run(t, "schedule", "create", "--job", "payroll", "--interval", "15m", "--cron", "@daily", "--dry-run", "-o", "json")
	require.NoError(t, err)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.EqualValues(t, 15, cfg["interval"])
	assert.Contains(t, cfg, "scheduleExpression")
}

func TestScheduleCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no target", []string{"--interval", "15m"}},
		{"two targets", []string{"--job", "payroll", "--execution", "42"}},
		{"seconds delay", []string{"--job", "payroll", "--initial-delay", "90s"}},
		{"bad cron", []string{"--job", "payroll", "--cron", "@every 5m"}},
		{"bad start", []string{"--job", "payroll", "--cron", "@daily", "--start", "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"schedule", "create", "--dry-run"}, tt.args...)
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestScheduleCancel(t *testing.T) {
	srv := batchtest.CreateTestServer(t)
	srv.Respond(http.MethodPost, "/api/jobschedules/5/cancel", http.StatusOK, `true`)
	srv.Respond(http.MethodPost, "/api/jobschedules/6/cancel", http.StatusOK, `false`)

	out, err := run(t, "schedule", "cancel", "5", "--url", srv.URL+"/api")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule 5 cancelled")

	_, err = run(t, "schedule", "cancel", "6", "--url", srv.URL+"/api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not cancelled")
}

func TestScheduleNext(t *testing.T) {
	out, err := run(t, "schedule", "next", "CRON_TZ=UTC 30 2 * * MON-FRI",
		"--after", "2026-10-23T12:00:00Z", "--count", "2", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"n":1,"time":"2026-10-26T02:30:00Z"},
		{"n":2,"time":"2026-10-27T02:30:00Z"}
	]`, out)
}

func TestScheduleNextStopsAtEnd(t *testing.T) {
	out, err := run(t, "schedule", "next", "CRON_TZ=UTC @daily",
		"--after", "2026-10-19T12:00:00Z", "--end", "2026-10-21T00:00:00Z", "--count", "5", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"n":1,"time":"2026-10-20T00:00:00Z"},
		{"n":2,"time":"2026-10-21T00:00:00Z"}
	]`, out)
}

func TestUnsupportedOutput(t *testing.T) {
	_, err := run(t, "version", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}
