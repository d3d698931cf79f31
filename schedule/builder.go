package schedule

import (
	"time"

	"github.com/teranos/batchrest/errors"
)

// Builder assembles a Config. Setters record the first error they hit and
// Build reports it; a Builder is not safe for concurrent use.
type Builder struct {
	cfg Config
	err error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// ForJob returns a builder that starts the named job.
func ForJob(jobName string) *Builder {
	return NewBuilder().JobName(jobName)
}

// ForExecution returns a builder that re-runs the given job execution.
func ForExecution(jobExecutionID int64) *Builder {
	return NewBuilder().JobExecutionID(jobExecutionID)
}

func (b *Builder) JobName(name string) *Builder {
	b.cfg.jobName = name
	return b
}

func (b *Builder) JobExecutionID(id int64) *Builder {
	b.cfg.jobExecutionID = id
	return b
}

// Param sets one job parameter.
func (b *Builder) Param(key, value string) *Builder {
	if b.cfg.jobParameters == nil {
		b.cfg.jobParameters = make(map[string]string)
	}
	b.cfg.jobParameters[key] = value
	return b
}

// Params merges params into the job parameters. The map is copied.
func (b *Builder) Params(params map[string]string) *Builder {
	for k, v := range params {
		b.Param(k, v)
	}
	return b
}

// Expression sets the calendar expression. The value is copied.
func (b *Builder) Expression(e *Expression) *Builder {
	if e == nil {
		b.cfg.expression = nil
		return b
	}
	c := e.clone()
	b.cfg.expression = &c
	return b
}

// Cron parses spec with ParseCron and sets the result as the expression.
func (b *Builder) Cron(spec string) *Builder {
	e, err := ParseCron(spec)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.cfg.expression = e
	return b
}

func (b *Builder) InitialDelay(d time.Duration) *Builder {
	b.cfg.initialDelay = d
	return b
}

func (b *Builder) AfterDelay(d time.Duration) *Builder {
	b.cfg.afterDelay = d
	return b
}

func (b *Builder) Interval(d time.Duration) *Builder {
	b.cfg.interval = d
	return b
}

func (b *Builder) Persistent(persistent bool) *Builder {
	b.cfg.persistent = persistent
	return b
}

// Build validates the accumulated settings and returns a new Config.
// The builder may be reused afterwards without affecting the result.
//
// Expression, interval and after delay may be combined; the service uses the
// first one set in that order.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	c := b.cfg
	switch {
	case c.jobName == "" && c.jobExecutionID == 0:
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("schedule needs a job name or a job execution id"),
			"use schedule.ForJob(name) or schedule.ForExecution(id)")
	case c.jobName != "" && c.jobExecutionID != 0:
		return nil, errors.NewInvalidRequestError("schedule cannot target both job %q and job execution %d", c.jobName, c.jobExecutionID)
	case c.jobExecutionID < 0:
		return nil, errors.NewInvalidRequestError("job execution id must be positive, got %d", c.jobExecutionID)
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"initial delay", c.initialDelay},
		{"after delay", c.afterDelay},
		{"interval", c.interval},
	}
	for _, dur := range durations {
		if err := validateDuration(dur.name, dur.d); err != nil {
			return nil, err
		}
	}

	c.jobParameters = copyParams(c.jobParameters)
	if c.expression != nil {
		e := c.expression.clone()
		c.expression = &e
	}
	return &c, nil
}

func validateDuration(name string, d time.Duration) error {
	if d < 0 {
		return errors.NewInvalidRequestError("%s must not be negative, got %s", name, d)
	}
	if d%TimeUnit != 0 {
		return errors.WithHintf(
			errors.NewInvalidRequestError("%s %s is not a whole number of %s", name, d, TimeUnit),
			"the batch service counts delays in units of %s", TimeUnit)
	}
	return nil
}
