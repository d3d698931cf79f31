// Package schedule describes when a batch job should be started or restarted
// by the remote batch service.
//
// A Config is an immutable value built with a Builder. It targets either a job
// by name (a fresh start) or a prior job execution by id (a re-run), and it is
// either a single trigger or a repeating one:
//
//	cfg, err := schedule.ForJob("payroll").
//	    Param("region", "emea").
//	    InitialDelay(10 * time.Minute).
//	    Interval(24 * time.Hour).
//	    Build()
//
// Repetition comes from exactly one of Interval (fixed rate), AfterDelay
// (fixed delay after each run) or a calendar Expression:
//
//	cfg, err := schedule.ForExecution(42).Cron("0 30 2 * * MON-FRI").Build()
//
// Delays travel over the wire as whole multiples of TimeUnit.
package schedule
