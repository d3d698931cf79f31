package batch

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/teranos/batchrest/errors"
	"github.com/teranos/batchrest/schedule"
)

// BatchStatus is the server-reported state of an execution or step.
type BatchStatus string

const (
	StatusStarting  BatchStatus = "STARTING"
	StatusStarted   BatchStatus = "STARTED"
	StatusStopping  BatchStatus = "STOPPING"
	StatusStopped   BatchStatus = "STOPPED"
	StatusFailed    BatchStatus = "FAILED"
	StatusCompleted BatchStatus = "COMPLETED"
	StatusAbandoned BatchStatus = "ABANDONED"
)

// IsTerminal reports whether the status can no longer change on its own.
func (s BatchStatus) IsTerminal() bool {
	switch s {
	case StatusStopped, StatusFailed, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// ScheduleStatus is the server-reported state of a schedule.
type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "SCHEDULED"
	ScheduleCancelled ScheduleStatus = "CANCELLED"
	ScheduleDone      ScheduleStatus = "DONE"
	ScheduleUnknown   ScheduleStatus = "UNKNOWN"
)

// Job summarizes a job known to the server.
type Job struct {
	JobName                      string `json:"jobName"`
	NumberOfJobInstances         int    `json:"numberOfJobInstances"`
	NumberOfRunningJobExecutions int    `json:"numberOfRunningJobExecutions"`
}

// JobInstance groups the executions of one logical job run across restarts.
type JobInstance struct {
	Href                  string `json:"href,omitempty"`
	InstanceID            int64  `json:"instanceId"`
	JobName               string `json:"jobName"`
	NumberOfJobExecutions int    `json:"numberOfJobExecutions"`
	LatestJobExecutionID  int64  `json:"latestJobExecutionId"`
}

// JobExecution is one attempt of a job instance.
type JobExecution struct {
	Href            string            `json:"href,omitempty"`
	ExecutionID     int64             `json:"executionId"`
	JobName         string            `json:"jobName"`
	JobInstanceID   int64             `json:"jobInstanceId"`
	BatchStatus     BatchStatus       `json:"batchStatus"`
	ExitStatus      string            `json:"exitStatus"`
	CreateTime      Time              `json:"createTime"`
	StartTime       Time              `json:"startTime"`
	EndTime         Time              `json:"endTime"`
	LastUpdatedTime Time              `json:"lastUpdatedTime"`
	JobParameters   map[string]string `json:"jobParameters,omitempty"`
}

// Metric is one step metric such as READ_COUNT or COMMIT_COUNT.
type Metric struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

// StepExecution is one step within a job execution.
type StepExecution struct {
	StepExecutionID int64       `json:"stepExecutionId"`
	StepName        string      `json:"stepName"`
	BatchStatus     BatchStatus `json:"batchStatus"`
	ExitStatus      string      `json:"exitStatus"`
	StartTime       Time        `json:"startTime"`
	EndTime         Time        `json:"endTime"`
	Metrics         []Metric    `json:"metrics,omitempty"`
}

// Metric returns the value of the named metric, or 0.
func (s StepExecution) Metric(metricType string) int64 {
	for _, m := range s.Metrics {
		if m.Type == metricType {
			return m.Value
		}
	}
	return 0
}

// JobSchedule is a server-side trigger created from a schedule.Config.
type JobSchedule struct {
	ID                string          `json:"id"`
	JobScheduleConfig schedule.Config `json:"jobScheduleConfig"`
	CreateTime        Time            `json:"createTime"`
	Status            ScheduleStatus  `json:"status"`
	JobExecutionIDs   []int64         `json:"jobExecutionIds,omitempty"`
}

// Time is a server timestamp. It decodes epoch milliseconds (the service
// default) or RFC 3339 strings, and encodes as epoch milliseconds.
type Time struct {
	time.Time
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "invalid timestamp")
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return errors.Wrapf(err, "invalid timestamp %q", s)
		}
		t.Time = parsed
		return nil
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid timestamp %s", data)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}
