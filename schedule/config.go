package schedule

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"time"
)

// TimeUnit is the unit the batch service uses for initialDelay, afterDelay
// and interval. The JBeret schedule executor counts all three in minutes.
const TimeUnit = time.Minute

// Config is an immutable scheduling intent. Build one with NewBuilder,
// ForJob or ForExecution; the zero value targets nothing and is not useful.
type Config struct {
	jobName        string
	jobExecutionID int64
	jobParameters  map[string]string
	expression     *Expression
	initialDelay   time.Duration
	afterDelay     time.Duration
	interval       time.Duration
	persistent     bool
}

// JobName returns the job to start, or "" when the config targets an execution.
func (c *Config) JobName() string { return c.jobName }

// JobExecutionID returns the execution to re-run, or 0 when the config targets a job name.
func (c *Config) JobExecutionID() int64 { return c.jobExecutionID }

// JobParameters returns a copy of the job parameters (nil when none were set).
func (c *Config) JobParameters() map[string]string { return copyParams(c.jobParameters) }

// Expression returns a copy of the calendar expression, or nil.
func (c *Config) Expression() *Expression {
	if c.expression == nil {
		return nil
	}
	e := c.expression.clone()
	return &e
}

func (c *Config) InitialDelay() time.Duration { return c.initialDelay }
func (c *Config) AfterDelay() time.Duration   { return c.afterDelay }
func (c *Config) Interval() time.Duration     { return c.interval }

// Persistent reports whether the schedule should survive a server restart.
func (c *Config) Persistent() bool { return c.persistent }

// TargetsJob reports whether the config starts a job by name rather than
// re-running an execution.
func (c *Config) TargetsJob() bool { return c.jobName != "" }

// IsRepeating reports whether the schedule fires more than once.
func (c *Config) IsRepeating() bool {
	return c.afterDelay > 0 || c.interval > 0 || c.expression != nil
}

// Equal compares every field. Absent and empty parameter maps are equal.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.jobName != other.jobName ||
		c.jobExecutionID != other.jobExecutionID ||
		c.initialDelay != other.initialDelay ||
		c.afterDelay != other.afterDelay ||
		c.interval != other.interval ||
		c.persistent != other.persistent {
		return false
	}
	if len(c.jobParameters) != len(other.jobParameters) {
		return false
	}
	for k, v := range c.jobParameters {
		if ov, ok := other.jobParameters[k]; !ok || ov != v {
			return false
		}
	}
	if (c.expression == nil) != (other.expression == nil) {
		return false
	}
	return c.expression == nil || c.expression.Equal(*other.expression)
}

// Hash returns a stable FNV-64a hash of the config. Equal configs hash identically.
func (c *Config) Hash() uint64 {
	h := fnv.New64a()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	write(c.jobName)
	write(strconv.FormatInt(c.jobExecutionID, 10))
	for _, k := range sortedKeys(c.jobParameters) {
		write(k)
		write(c.jobParameters[k])
	}
	write("|")
	if c.expression != nil {
		write(c.expression.canonical())
	}
	write(strconv.FormatInt(int64(c.initialDelay), 10))
	write(strconv.FormatInt(int64(c.afterDelay), 10))
	write(strconv.FormatInt(int64(c.interval), 10))
	write(strconv.FormatBool(c.persistent))
	return h.Sum64()
}

func (c *Config) String() string {
	expr := "<none>"
	if c.expression != nil {
		expr = c.expression.String()
	}
	return fmt.Sprintf("ScheduleConfig{jobName=%q, jobExecutionId=%d, jobParameters=%v, initialDelay=%s, afterDelay=%s, interval=%s, persistent=%t, scheduleExpression=%s}",
		c.jobName, c.jobExecutionID, c.jobParameters, c.initialDelay, c.afterDelay, c.interval, c.persistent, expr)
}

func copyParams(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
