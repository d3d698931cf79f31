package batch

import (
	"context"
	"strconv"

	"github.com/teranos/batchrest/errors"
	"github.com/teranos/batchrest/schedule"
)

// StartJob starts the job defined by jobXmlName. params are forwarded as
// job parameters (query parameters).
func (c *Client) StartJob(ctx context.Context, jobXmlName string, params map[string]string) (*JobExecution, error) {
	var out JobExecution
	if err := c.Call(ctx, OpStartJob, map[string]string{ParamJobXMLName: jobXmlName}, params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestartJobExecution restarts a failed or stopped execution.
func (c *Client) RestartJobExecution(ctx context.Context, jobExecutionID int64, params map[string]string) (*JobExecution, error) {
	var out JobExecution
	if err := c.Call(ctx, OpRestartJobExecution, executionParams(jobExecutionID), params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestartJob restarts the most recent execution of the named job.
func (c *Client) RestartJob(ctx context.Context, jobXmlName string, params map[string]string) (*JobExecution, error) {
	var out JobExecution
	if err := c.Call(ctx, OpRestartJob, map[string]string{ParamJobXMLName: jobXmlName}, params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Jobs lists the jobs known to the server.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	var out []Job
	if err := c.Call(ctx, OpListJobs, nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JobInstances pages through the instances of a job. An empty jobName
// leaves the filter to the server.
func (c *Client) JobInstances(ctx context.Context, jobName string, start, count int) ([]JobInstance, error) {
	query := map[string]string{
		"start": strconv.Itoa(start),
		"count": strconv.Itoa(count),
	}
	if jobName != "" {
		query["jobName"] = jobName
	}

	var out []JobInstance
	if err := c.Call(ctx, OpListJobInstances, nil, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExecutionQuery filters JobExecutions. Zero values are omitted.
type ExecutionQuery struct {
	Count int
	// JobExecutionID1 anchors the listing at this execution; JobInstanceID
	// narrows it to one instance and is only sent together with it.
	JobExecutionID1 int64
	JobInstanceID   int64
}

func (q ExecutionQuery) params() map[string]string {
	p := make(map[string]string)
	if q.JobExecutionID1 > 0 {
		p["jobExecutionId1"] = strconv.FormatInt(q.JobExecutionID1, 10)
		p["jobInstanceId"] = strconv.FormatInt(q.JobInstanceID, 10)
	}
	if q.Count > 0 {
		p["count"] = strconv.Itoa(q.Count)
	}
	return p
}

// JobExecutions lists recent executions.
func (c *Client) JobExecutions(ctx context.Context, q ExecutionQuery) ([]JobExecution, error) {
	var out []JobExecution
	if err := c.Call(ctx, OpListJobExecutions, nil, q.params(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RunningJobExecutions lists the running executions of a job.
func (c *Client) RunningJobExecutions(ctx context.Context, jobName string) ([]JobExecution, error) {
	var query map[string]string
	if jobName != "" {
		query = map[string]string{"jobName": jobName}
	}

	var out []JobExecution
	if err := c.Call(ctx, OpRunningExecutions, nil, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JobExecution fetches one execution.
func (c *Client) JobExecution(ctx context.Context, jobExecutionID int64) (*JobExecution, error) {
	var out JobExecution
	if err := c.Call(ctx, OpGetJobExecution, executionParams(jobExecutionID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StopJobExecution asks the server to stop a running execution.
func (c *Client) StopJobExecution(ctx context.Context, jobExecutionID int64) error {
	return c.Call(ctx, OpStopJobExecution, executionParams(jobExecutionID), nil, nil, nil)
}

// AbandonJobExecution marks a finished execution as never restartable.
func (c *Client) AbandonJobExecution(ctx context.Context, jobExecutionID int64) error {
	return c.Call(ctx, OpAbandonJobExecution, executionParams(jobExecutionID), nil, nil, nil)
}

// StepExecutions lists the steps of an execution in server order.
func (c *Client) StepExecutions(ctx context.Context, jobExecutionID int64) ([]StepExecution, error) {
	var out []StepExecution
	if err := c.Call(ctx, OpGetStepExecutions, executionParams(jobExecutionID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StepExecution fetches one step of an execution.
func (c *Client) StepExecution(ctx context.Context, jobExecutionID, stepExecutionID int64) (*StepExecution, error) {
	params := executionParams(jobExecutionID)
	params[ParamStepExecutionID] = idParam(stepExecutionID)

	var out StepExecution
	if err := c.Call(ctx, OpGetStepExecution, params, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JobSchedule fetches one schedule.
func (c *Client) JobSchedule(ctx context.Context, scheduleID string) (*JobSchedule, error) {
	var out JobSchedule
	if err := c.Call(ctx, OpGetJobSchedule, map[string]string{ParamScheduleID: scheduleID}, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JobSchedules lists all schedules.
func (c *Client) JobSchedules(ctx context.Context) ([]JobSchedule, error) {
	var out []JobSchedule
	if err := c.Call(ctx, OpGetJobSchedules, nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelJobSchedule cancels a schedule and reports the server's answer.
func (c *Client) CancelJobSchedule(ctx context.Context, scheduleID string) (bool, error) {
	var out bool
	if err := c.Call(ctx, OpCancelJobSchedule, map[string]string{ParamScheduleID: scheduleID}, nil, nil, &out); err != nil {
		return false, err
	}
	return out, nil
}

// Schedule creates a schedule. A config naming a job starts that job;
// otherwise it re-runs the config's job execution.
func (c *Client) Schedule(ctx context.Context, cfg *schedule.Config) (*JobSchedule, error) {
	if cfg == nil {
		return nil, errors.NewInvalidRequestError("schedule config is nil")
	}

	op, params := OpScheduleJobExecution, executionParams(cfg.JobExecutionID())
	if cfg.JobName() != "" {
		op, params = OpScheduleJob, map[string]string{ParamJobXMLName: cfg.JobName()}
	}

	var out JobSchedule
	if err := c.Call(ctx, op, params, nil, cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func executionParams(jobExecutionID int64) map[string]string {
	return map[string]string{ParamJobExecutionID: idParam(jobExecutionID)}
}

// idParam leaves non-positive ids unbound so template resolution rejects them.
func idParam(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
