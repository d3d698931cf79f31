package schedule

import (
	"encoding/json"
	"time"

	"github.com/teranos/batchrest/errors"
)

// configWire is the JSON shape the batch service reads and writes.
type configWire struct {
	JobName            string            `json:"jobName,omitempty"`
	JobExecutionID     int64             `json:"jobExecutionId"`
	JobParameters      map[string]string `json:"jobParameters,omitempty"`
	ScheduleExpression *Expression       `json:"scheduleExpression,omitempty"`
	InitialDelay       int64             `json:"initialDelay"`
	AfterDelay         int64             `json:"afterDelay"`
	Interval           int64             `json:"interval"`
	Persistent         bool              `json:"persistent"`
}

// MarshalJSON encodes delays as whole TimeUnit counts.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(configWire{
		JobName:            c.jobName,
		JobExecutionID:     c.jobExecutionID,
		JobParameters:      c.jobParameters,
		ScheduleExpression: c.expression,
		InitialDelay:       int64(c.initialDelay / TimeUnit),
		AfterDelay:         int64(c.afterDelay / TimeUnit),
		Interval:           int64(c.interval / TimeUnit),
		Persistent:         c.persistent,
	})
}

// UnmarshalJSON decodes a config echoed back by the service (for example
// inside a JobSchedule). Values are taken as-is without builder validation.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w configWire
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, "failed to decode schedule config")
	}
	*c = Config{
		jobName:        w.JobName,
		jobExecutionID: w.JobExecutionID,
		jobParameters:  copyParams(w.JobParameters),
		expression:     w.ScheduleExpression,
		initialDelay:   time.Duration(w.InitialDelay) * TimeUnit,
		afterDelay:     time.Duration(w.AfterDelay) * TimeUnit,
		interval:       time.Duration(w.Interval) * TimeUnit,
		persistent:     w.Persistent,
	}
	return nil
}

type expressionWire struct {
	Second     string `json:"second,omitempty"`
	Minute     string `json:"minute,omitempty"`
	Hour       string `json:"hour,omitempty"`
	DayOfMonth string `json:"dayOfMonth,omitempty"`
	Month      string `json:"month,omitempty"`
	DayOfWeek  string `json:"dayOfWeek,omitempty"`
	Year       string `json:"year,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	Start      *int64 `json:"start,omitempty"` // epoch milliseconds
	End        *int64 `json:"end,omitempty"`   // epoch milliseconds
}

func (e Expression) MarshalJSON() ([]byte, error) {
	return json.Marshal(expressionWire{
		Second:     e.Second,
		Minute:     e.Minute,
		Hour:       e.Hour,
		DayOfMonth: e.DayOfMonth,
		Month:      e.Month,
		DayOfWeek:  e.DayOfWeek,
		Year:       e.Year,
		Timezone:   e.Timezone,
		Start:      toMillis(e.Start),
		End:        toMillis(e.End),
	})
}

func (e *Expression) UnmarshalJSON(data []byte) error {
	var w expressionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, "failed to decode schedule expression")
	}
	*e = Expression{
		Second:     w.Second,
		Minute:     w.Minute,
		Hour:       w.Hour,
		DayOfMonth: w.DayOfMonth,
		Month:      w.Month,
		DayOfWeek:  w.DayOfWeek,
		Year:       w.Year,
		Timezone:   w.Timezone,
		Start:      fromMillis(w.Start),
		End:        fromMillis(w.End),
	}
	return nil
}

func toMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func fromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
