package batch

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/batchrest/errors"
	"github.com/teranos/batchrest/schedule"
)

func TestStartJob(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodPost, "/api/jobs/payroll/start", http.StatusOK,
		`{"executionId":42,"jobName":"payroll","jobInstanceId":7,"batchStatus":"STARTING","createTime":1760832000000}`)

	exec, err := c.StartJob(context.Background(), "payroll", map[string]string{"date": "2026-10-19", "dept": "R&D"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), exec.ExecutionID)
	assert.Equal(t, StatusStarting, exec.BatchStatus)
	assert.Equal(t, time.UnixMilli(1760832000000).UTC(), exec.CreateTime.Time)
	assert.True(t, exec.EndTime.IsZero())

	req := srv.LastRequest(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/jobs/payroll/start", req.Path)
	assert.Equal(t, "2026-10-19", req.Query.Get("date"))
	assert.Equal(t, "R&D", req.Query.Get("dept"))
	assert.Empty(t, req.Body)
}

func TestRestartOperations(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodPost, "/api/jobexecutions/42/restart", http.StatusOK, `{"executionId":43}`)
	srv.Respond(http.MethodPost, "/api/jobs/payroll/restart", http.StatusOK, `{"executionId":44}`)

	exec, err := c.RestartJobExecution(context.Background(), 42, map[string]string{"retry": "true"})
	require.NoError(t, err)
	assert.Equal(t, int64(43), exec.ExecutionID)
	assert.Equal(t, "true", srv.LastRequest(t).Query.Get("retry"))

	exec, err = c.RestartJob(context.Background(), "payroll", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(44), exec.ExecutionID)
	assert.Empty(t, srv.LastRequest(t).Query)
}

func TestJobInstancesQuery(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodGet, "/api/jobinstances", http.StatusOK,
		`[{"instanceId":7,"jobName":"payroll","numberOfJobExecutions":2,"latestJobExecutionId":43}]`)

	instances, err := c.JobInstances(context.Background(), "payroll", 0, 20)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, int64(43), instances[0].LatestJobExecutionID)

	q := srv.LastRequest(t).Query
	assert.Equal(t, "payroll", q.Get("jobName"))
	assert.Equal(t, "0", q.Get("start"))
	assert.Equal(t, "20", q.Get("count"))

	_, err = c.JobInstances(context.Background(), "", 20, 20)
	require.NoError(t, err)
	q = srv.LastRequest(t).Query
	assert.False(t, q.Has("jobName"))
	assert.Equal(t, "20", q.Get("start"))
}

func TestJobExecutionsQuery(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodGet, "/api/jobexecutions", http.StatusOK, `[{"executionId":1},{"executionId":2}]`)

	execs, err := c.JobExecutions(context.Background(), ExecutionQuery{Count: 10})
	require.NoError(t, err)
	assert.Len(t, execs, 2)
	q := srv.LastRequest(t).Query
	assert.Equal(t, "10", q.Get("count"))
	assert.False(t, q.Has("jobExecutionId1"))
	assert.False(t, q.Has("jobInstanceId"))

	_, err = c.JobExecutions(context.Background(), ExecutionQuery{JobExecutionID1: 5, JobInstanceID: 2})
	require.NoError(t, err)
	q = srv.LastRequest(t).Query
	assert.Equal(t, "5", q.Get("jobExecutionId1"))
	assert.Equal(t, "2", q.Get("jobInstanceId"))
	assert.False(t, q.Has("count"))
}

func TestRunningJobExecutions(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodGet, "/api/jobexecutions/running", http.StatusOK, `[{"executionId":3,"batchStatus":"STARTED"}]`)

	execs, err := c.RunningJobExecutions(context.Background(), "payroll")
	require.NoError(t, err)
	require.Len(t, execs, 1)
	assert.False(t, execs[0].BatchStatus.IsTerminal())
	assert.Equal(t, "payroll", srv.LastRequest(t).Query.Get("jobName"))
}

func TestStopAndAbandon(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodPost, "/api/jobexecutions/3/stop", http.StatusOK, "")
	srv.Respond(http.MethodPost, "/api/jobexecutions/3/abandon", http.StatusOK, "")

	require.NoError(t, c.StopJobExecution(context.Background(), 3))
	require.NoError(t, c.AbandonJobExecution(context.Background(), 3))

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/api/jobexecutions/3/stop", reqs[0].Path)
	assert.Equal(t, "/api/jobexecutions/3/abandon", reqs[1].Path)
}

func TestStepExecutions(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodGet, "/api/jobexecutions/42/stepexecutions", http.StatusOK,
		`[{"stepExecutionId":100,"stepName":"load","batchStatus":"COMPLETED","metrics":[{"type":"READ_COUNT","value":12}]},
		  {"stepExecutionId":101,"stepName":"report","batchStatus":"FAILED"}]`)
	srv.Respond(http.MethodGet, "/api/jobexecutions/42/stepexecutions/100", http.StatusOK,
		`{"stepExecutionId":100,"stepName":"load","batchStatus":"COMPLETED","startTime":"2026-10-19T02:30:00Z"}`)

	steps, err := c.StepExecutions(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "load", steps[0].StepName)
	assert.Equal(t, int64(12), steps[0].Metric("READ_COUNT"))
	assert.Zero(t, steps[0].Metric("WRITE_COUNT"))
	assert.Equal(t, StatusFailed, steps[1].BatchStatus)

	step, err := c.StepExecution(context.Background(), 42, 100)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 2, 30, 0, 0, time.UTC), step.StartTime.Time)
}

func TestJobSchedules(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodGet, "/api/jobschedules", http.StatusOK,
		`[{"id":"1","status":"SCHEDULED","jobScheduleConfig":{"jobName":"payroll","jobExecutionId":0,"initialDelay":0,"afterDelay":0,"interval":15,"persistent":false}}]`)
	srv.Respond(http.MethodGet, "/api/jobschedules/1", http.StatusOK,
		`{"id":"1","status":"DONE","jobExecutionIds":[42,43],"jobScheduleConfig":{"jobExecutionId":42,"initialDelay":5}}`)
	srv.Respond(http.MethodPost, "/api/jobschedules/1/cancel", http.StatusOK, `true`)

	list, err := c.JobSchedules(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ScheduleScheduled, list[0].Status)
	assert.Equal(t, "payroll", list[0].JobScheduleConfig.JobName())
	assert.Equal(t, 15*time.Minute, list[0].JobScheduleConfig.Interval())

	one, err := c.JobSchedule(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, ScheduleDone, one.Status)
	assert.Equal(t, []int64{42, 43}, one.JobExecutionIDs)
	assert.Equal(t, 5*time.Minute, one.JobScheduleConfig.InitialDelay())

	cancelled, err := c.CancelJobSchedule(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, cancelled)
}

func TestScheduleTargetsJob(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodPost, "/api/jobs/payroll/schedule", http.StatusOK,
		`{"id":"9","status":"SCHEDULED","jobScheduleConfig":{"jobName":"payroll","jobExecutionId":0,"jobParameters":{"date":"2026-10-19"},"initialDelay":0,"afterDelay":0,"interval":15,"persistent":false}}`)

	cfg, err := schedule.ForJob("payroll").Param("date", "2026-10-19").Interval(15 * time.Minute).Build()
	require.NoError(t, err)

	js, err := c.Schedule(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "9", js.ID)
	assert.True(t, cfg.Equal(&js.JobScheduleConfig))

	req := srv.LastRequest(t)
	assert.Equal(t, "/api/jobs/payroll/schedule", req.Path)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.JSONEq(t,
		`{"jobName":"payroll","jobExecutionId":0,"jobParameters":{"date":"2026-10-19"},"initialDelay":0,"afterDelay":0,"interval":15,"persistent":false}`,
		string(req.Body))
}

func TestScheduleTargetsExecution(t *testing.T) {
	c, srv := newServerClient(t)
	srv.Respond(http.MethodPost, "/api/jobexecutions/42/schedule", http.StatusOK,
		`{"id":"10","status":"SCHEDULED","jobScheduleConfig":{"jobExecutionId":42,"initialDelay":0,"afterDelay":30,"interval":0,"persistent":true}}`)

	cfg, err := schedule.ForExecution(42).AfterDelay(30 * time.Minute).Persistent(true).Build()
	require.NoError(t, err)

	js, err := c.Schedule(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "10", js.ID)

	req := srv.LastRequest(t)
	assert.Equal(t, "/api/jobexecutions/42/schedule", req.Path)
	assert.JSONEq(t,
		`{"jobExecutionId":42,"initialDelay":0,"afterDelay":30,"interval":0,"persistent":true}`,
		string(req.Body))
}

func TestScheduleNilConfig(t *testing.T) {
	spy := &spyDoer{}
	c, err := NewClient(Config{BaseURL: "http://batch.internal/api", HTTPClient: spy})
	require.NoError(t, err)

	_, err = c.Schedule(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Zero(t, spy.count())
}

func TestEveryOperationSurfacesServerError(t *testing.T) {
	c, srv := newServerClient(t)
	cfg, err := schedule.ForJob("payroll").Build()
	require.NoError(t, err)

	routesToFail := []struct{ method, path string }{
		{http.MethodPost, "/api/jobs/payroll/start"},
		{http.MethodPost, "/api/jobs/payroll/restart"},
		{http.MethodPost, "/api/jobs/payroll/schedule"},
		{http.MethodGet, "/api/jobs"},
		{http.MethodGet, "/api/jobinstances"},
		{http.MethodGet, "/api/jobexecutions"},
		{http.MethodGet, "/api/jobexecutions/running"},
		{http.MethodGet, "/api/jobexecutions/1"},
		{http.MethodPost, "/api/jobexecutions/1/restart"},
		{http.MethodPost, "/api/jobexecutions/1/stop"},
		{http.MethodPost, "/api/jobexecutions/1/abandon"},
		{http.MethodGet, "/api/jobexecutions/1/stepexecutions"},
		{http.MethodGet, "/api/jobexecutions/1/stepexecutions/2"},
		{http.MethodGet, "/api/jobschedules"},
		{http.MethodGet, "/api/jobschedules/s1"},
		{http.MethodPost, "/api/jobschedules/s1/cancel"},
	}
	for _, r := range routesToFail {
		srv.Respond(r.method, r.path, http.StatusInternalServerError, "internal error")
	}

	ctx := context.Background()
	calls := map[string]func() error{
		"StartJob":             func() error { _, err := c.StartJob(ctx, "payroll", nil); return err },
		"RestartJob":           func() error { _, err := c.RestartJob(ctx, "payroll", nil); return err },
		"Schedule":             func() error { _, err := c.Schedule(ctx, cfg); return err },
		"Jobs":                 func() error { _, err := c.Jobs(ctx); return err },
		"JobInstances":         func() error { _, err := c.JobInstances(ctx, "", 0, 10); return err },
		"JobExecutions":        func() error { _, err := c.JobExecutions(ctx, ExecutionQuery{}); return err },
		"RunningJobExecutions": func() error { _, err := c.RunningJobExecutions(ctx, ""); return err },
		"JobExecution":         func() error { _, err := c.JobExecution(ctx, 1); return err },
		"RestartJobExecution":  func() error { _, err := c.RestartJobExecution(ctx, 1, nil); return err },
		"StopJobExecution":     func() error { return c.StopJobExecution(ctx, 1) },
		"AbandonJobExecution":  func() error { return c.AbandonJobExecution(ctx, 1) },
		"StepExecutions":       func() error { _, err := c.StepExecutions(ctx, 1); return err },
		"StepExecution":        func() error { _, err := c.StepExecution(ctx, 1, 2); return err },
		"JobSchedules":         func() error { _, err := c.JobSchedules(ctx); return err },
		"JobSchedule":          func() error { _, err := c.JobSchedule(ctx, "s1"); return err },
		"CancelJobSchedule":    func() error { _, err := c.CancelJobSchedule(ctx, "s1"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			se, ok := AsServerError(err)
			require.True(t, ok, "expected ServerError, got %v", err)
			assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
			assert.Equal(t, "internal error", se.Body)
		})
	}
	assert.Len(t, srv.Requests(), len(routesToFail))
}
