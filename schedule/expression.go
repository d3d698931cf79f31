package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/teranos/batchrest/errors"
)

// Expression is a calendar-style recurrence rule in the EJB timer format the
// batch service understands. Empty fields take the service defaults: "0" for
// Second, Minute and Hour, "*" for the rest.
type Expression struct {
	Second     string
	Minute     string
	Hour       string
	DayOfMonth string
	Month      string
	DayOfWeek  string
	Year       string
	Timezone   string
	Start      *time.Time // first instant the expression may fire (inclusive)
	End        *time.Time // last instant the expression may fire (inclusive)
}

// Six-field cron with mandatory seconds; ParseCron normalizes input to it.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

var descriptors = map[string][6]string{
	"@yearly":   {"0", "0", "0", "1", "1", "*"},
	"@annually": {"0", "0", "0", "1", "1", "*"},
	"@monthly":  {"0", "0", "0", "1", "*", "*"},
	"@weekly":   {"0", "0", "0", "*", "*", "0"},
	"@daily":    {"0", "0", "0", "*", "*", "*"},
	"@midnight": {"0", "0", "0", "*", "*", "*"},
	"@hourly":   {"0", "0", "*", "*", "*", "*"},
}

// ParseCron converts cron text into an Expression. Accepted forms:
//
//	"30 2 * * MON-FRI"           five fields, seconds default to 0
//	"0 30 2 * * MON-FRI"         six fields with seconds
//	"@daily"                     predefined descriptors (not @every)
//	"CRON_TZ=Europe/Oslo @daily" optional timezone prefix (TZ= also works)
func ParseCron(spec string) (*Expression, error) {
	text := strings.TrimSpace(spec)
	if text == "" {
		return nil, errors.NewInvalidRequestError("empty cron expression")
	}

	var timezone string
	if strings.HasPrefix(text, "CRON_TZ=") || strings.HasPrefix(text, "TZ=") {
		end := strings.IndexAny(text, " \t")
		if end == -1 {
			return nil, errors.NewInvalidRequestError("cron expression %q has a timezone but no schedule", spec)
		}
		timezone = text[strings.Index(text, "=")+1 : end]
		if _, err := time.LoadLocation(timezone); err != nil {
			return nil, errors.WrapInvalidRequest(err, "unknown cron timezone")
		}
		text = strings.TrimSpace(text[end:])
	}

	var fields [6]string
	switch {
	case strings.HasPrefix(text, "@every"):
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("cron expression %q is a fixed delay, not a calendar rule", spec),
			"use Builder.Interval for fixed-rate schedules")
	case strings.HasPrefix(text, "@"):
		d, ok := descriptors[text]
		if !ok {
			return nil, errors.NewInvalidRequestError("unknown cron descriptor %q", text)
		}
		fields = d
	default:
		parts := strings.Fields(text)
		switch len(parts) {
		case 5:
			fields = [6]string{"0", parts[0], parts[1], parts[2], parts[3], parts[4]}
		case 6:
			copy(fields[:], parts)
		default:
			return nil, errors.NewInvalidRequestError("cron expression %q has %d fields, want 5 or 6", spec, len(parts))
		}
	}

	if _, err := cronParser.Parse(strings.Join(fields[:], " ")); err != nil {
		return nil, errors.WrapInvalidRequest(err, "invalid cron expression")
	}

	return &Expression{
		Second:     fields[0],
		Minute:     fields[1],
		Hour:       fields[2],
		DayOfMonth: fields[3],
		Month:      fields[4],
		DayOfWeek:  fields[5],
		Year:       "*",
		Timezone:   timezone,
	}, nil
}

// Cron renders the expression as six-field cron text, prefixed with
// CRON_TZ= when a timezone is set. Year, Start and End are not representable.
func (e Expression) Cron() string {
	text := strings.Join(e.fields(), " ")
	if e.Timezone != "" {
		return "CRON_TZ=" + e.Timezone + " " + text
	}
	return text
}

// Next returns the first activation strictly after the given time, honouring
// Start and End. It fails for expressions restricted to specific years and
// with errors.ErrNotFound when no activation remains.
func (e Expression) Next(after time.Time) (time.Time, error) {
	if year := orDefault(e.Year, "*"); year != "*" {
		return time.Time{}, errors.NewInvalidRequestError("year %q cannot be previewed", year)
	}

	sched, err := cronParser.Parse(e.Cron())
	if err != nil {
		return time.Time{}, errors.WrapInvalidRequest(err, "invalid calendar expression")
	}

	from := after
	if e.Start != nil && from.Before(*e.Start) {
		from = e.Start.Add(-time.Nanosecond)
	}

	next := sched.Next(from)
	if next.IsZero() || (e.End != nil && next.After(*e.End)) {
		return time.Time{}, errors.Wrapf(errors.ErrNotFound, "no activation of %q after %s", e.Cron(), after.Format(time.RFC3339))
	}
	return next, nil
}

// Equal compares every field; Start and End are compared as instants.
func (e Expression) Equal(other Expression) bool {
	return e.Second == other.Second &&
		e.Minute == other.Minute &&
		e.Hour == other.Hour &&
		e.DayOfMonth == other.DayOfMonth &&
		e.Month == other.Month &&
		e.DayOfWeek == other.DayOfWeek &&
		e.Year == other.Year &&
		e.Timezone == other.Timezone &&
		timesEqual(e.Start, other.Start) &&
		timesEqual(e.End, other.End)
}

func (e Expression) String() string {
	s := e.Cron()
	if year := orDefault(e.Year, "*"); year != "*" {
		s += " year=" + year
	}
	if e.Start != nil {
		s += " start=" + e.Start.Format(time.RFC3339)
	}
	if e.End != nil {
		s += " end=" + e.End.Format(time.RFC3339)
	}
	return s
}

func (e Expression) fields() []string {
	return []string{
		orDefault(e.Second, "0"),
		orDefault(e.Minute, "0"),
		orDefault(e.Hour, "0"),
		orDefault(e.DayOfMonth, "*"),
		orDefault(e.Month, "*"),
		orDefault(e.DayOfWeek, "*"),
	}
}

// canonical is the raw field encoding used for hashing.
func (e Expression) canonical() string {
	parts := []string{e.Second, e.Minute, e.Hour, e.DayOfMonth, e.Month, e.DayOfWeek, e.Year, e.Timezone}
	for _, t := range []*time.Time{e.Start, e.End} {
		if t == nil {
			parts = append(parts, "-")
			continue
		}
		parts = append(parts, strconv.FormatInt(t.UnixNano(), 10))
	}
	return strings.Join(parts, "\x1f")
}

func (e Expression) clone() Expression {
	c := e
	if e.Start != nil {
		s := *e.Start
		c.Start = &s
	}
	if e.End != nil {
		end := *e.End
		c.End = &end
	}
	return c
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
