package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/batchrest/batch"
	"github.com/teranos/batchrest/errors"
	"github.com/teranos/batchrest/logger"
	"github.com/teranos/batchrest/schedule"
)

var scheduleHeader = []string{"ID", "STATUS", "TARGET", "TRIGGER", "PERSISTENT", "CREATED", "EXECUTIONS"}

func scheduleRow(s batch.JobSchedule) []string {
	cfg := &s.JobScheduleConfig
	execs := make([]string, 0, len(s.JobExecutionIDs))
	for _, id := range s.JobExecutionIDs {
		execs = append(execs, strconv.FormatInt(id, 10))
	}
	return []string{
		orDash(s.ID), orDash(string(s.Status)), describeTarget(cfg), describeTrigger(cfg),
		strconv.FormatBool(cfg.Persistent()), formatTime(s.CreateTime), orDash(strings.Join(execs, ",")),
	}
}

func describeTarget(cfg *schedule.Config) string {
	if cfg.TargetsJob() {
		return "job " + cfg.JobName()
	}
	return "execution " + formatID(cfg.JobExecutionID())
}

func describeTrigger(cfg *schedule.Config) string {
	var parts []string
	if d := cfg.InitialDelay(); d > 0 {
		parts = append(parts, "after "+formatDuration(d))
	}
	switch {
	case cfg.Expression() != nil:
		parts = append(parts, "cron "+cfg.Expression().String())
	case cfg.Interval() > 0:
		parts = append(parts, "every "+formatDuration(cfg.Interval()))
	case cfg.AfterDelay() > 0:
		parts = append(parts, "then every "+formatDuration(cfg.AfterDelay())+" after completion")
	}
	if len(parts) == 0 {
		return "once"
	}
	return strings.Join(parts, ", ")
}

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Create, list and cancel job schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Schedule a job or a job execution",
		Long: `Schedule a job (--job) or a re-run of a job execution (--execution).

Delays are counted in whole minutes by the server. When more than one of
--cron, --interval and --after-delay is given the server uses the first.

Examples:
  batchctl schedule create --job payroll --initial-delay 10m
  batchctl schedule create --job payroll --interval 15m -p dept=R&D
  batchctl schedule create --job payroll --cron "CRON_TZ=Europe/Oslo 30 2 * * MON-FRI"
  batchctl schedule create --execution 42 --after-delay 1h --persistent --dry-run`,
		Args: cobra.NoArgs,
		RunE: runScheduleCreate,
	}
	create.Flags().String("job", "", "Job XML name to start")
	create.Flags().Int64("execution", 0, "Job execution id to restart")
	addParamFlags(create)
	create.Flags().String("cron", "", "Cron expression (5 or 6 fields, optional CRON_TZ= prefix)")
	create.Flags().String("start", "", "First instant the cron expression may fire (RFC 3339)")
	create.Flags().String("end", "", "Last instant the cron expression may fire (RFC 3339)")
	create.Flags().Duration("initial-delay", 0, "Delay before the first run")
	create.Flags().Duration("after-delay", 0, "Delay between the end of one run and the next")
	create.Flags().Duration("interval", 0, "Fixed interval between runs")
	create.Flags().Bool("persistent", false, "Keep the schedule across server restarts")
	create.Flags().Bool("dry-run", false, "Print the schedule config without sending it")

	get := &cobra.Command{
		Use:   "get <schedule-id>",
		Short: "Show one schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, client, err := printerAndClient(cmd)
			if err != nil {
				return err
			}
			s, err := client.JobSchedule(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return p.print(s, scheduleHeader, [][]string{scheduleRow(*s)})
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, client, err := printerAndClient(cmd)
			if err != nil {
				return err
			}
			list, err := client.JobSchedules(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, s := range list {
				rows = append(rows, scheduleRow(s))
			}
			return p.print(list, scheduleHeader, rows)
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel <schedule-id>",
		Short: "Cancel a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, client, err := printerAndClient(cmd)
			if err != nil {
				return err
			}
			cancelled, err := client.CancelJobSchedule(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !cancelled {
				return errors.Newf("schedule %s was not cancelled", args[0])
			}
			return p.message("Schedule %s cancelled", args[0])
		},
	}

	next := &cobra.Command{
		Use:   "next <cron-expression>",
		Short: "Preview the next activations of a cron expression",
		Long: `Compute upcoming activations locally, without contacting the server.

Examples:
  batchctl schedule next "30 2 * * MON-FRI"
  batchctl schedule next "CRON_TZ=UTC @daily" --count 3 --after 2026-10-19T00:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: runScheduleNext,
	}
	next.Flags().Int("count", 5, "Number of activations")
	next.Flags().String("after", "", "Start from this instant (RFC 3339, default now)")
	next.Flags().String("start", "", "First instant the expression may fire (RFC 3339)")
	next.Flags().String("end", "", "Last instant the expression may fire (RFC 3339)")

	cmd.AddCommand(create, get, ls, cancel, next)
	return cmd
}

func printerAndClient(cmd *cobra.Command) (*printer, *batch.Client, error) {
	p, err := newPrinter(cmd)
	if err != nil {
		return nil, nil, err
	}
	client, err := newClient(cmd)
	if err != nil {
		return nil, nil, err
	}
	return p, client, nil
}

// buildScheduleConfig turns create flags into a validated config.
func buildScheduleConfig(cmd *cobra.Command) (*schedule.Config, error) {
	flags := cmd.Flags()
	job, _ := flags.GetString("job")
	execution, _ := flags.GetInt64("execution")
	cronSpec, _ := flags.GetString("cron")
	initialDelay, _ := flags.GetDuration("initial-delay")
	afterDelay, _ := flags.GetDuration("after-delay")
	interval, _ := flags.GetDuration("interval")
	persistent, _ := flags.GetBool("persistent")

	params, err := paramsFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	b := schedule.NewBuilder().
		JobName(job).
		JobExecutionID(execution).
		Params(params).
		InitialDelay(initialDelay).
		AfterDelay(afterDelay).
		Interval(interval).
		Persistent(persistent)

	if cronSpec != "" {
		expr, err := expressionFromFlags(cmd, cronSpec)
		if err != nil {
			return nil, err
		}
		b.Expression(expr)
	}
	return b.Build()
}

// expressionFromFlags parses spec and applies --start and --end.
func expressionFromFlags(cmd *cobra.Command, spec string) (*schedule.Expression, error) {
	expr, err := schedule.ParseCron(spec)
	if err != nil {
		return nil, err
	}
	if expr.Start, err = timeFlag(cmd, "start"); err != nil {
		return nil, err
	}
	if expr.End, err = timeFlag(cmd, "end"); err != nil {
		return nil, err
	}
	return expr, nil
}

func timeFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, errors.WrapInvalidRequest(err, "--"+name+" must be RFC 3339")
	}
	return &t, nil
}

func runScheduleCreate(cmd *cobra.Command, args []string) error {
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	cfg, err := buildScheduleConfig(cmd)
	if err != nil {
		return err
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		row := []string{describeTarget(cfg), describeTrigger(cfg), strconv.FormatBool(cfg.Persistent())}
		return p.print(cfg, []string{"TARGET", "TRIGGER", "PERSISTENT"}, [][]string{row})
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	s, err := client.Schedule(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	logger.Infow("Schedule created", logger.FieldScheduleID, s.ID, "config", cfg.String())
	return p.print(s, scheduleHeader, [][]string{scheduleRow(*s)})
}

// activation is one previewed firing time.
type activation struct {
	N    int       `json:"n"`
	Time time.Time `json:"time"`
}

func runScheduleNext(cmd *cobra.Command, args []string) error {
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	expr, err := expressionFromFlags(cmd, args[0])
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt("count")
	if count <= 0 {
		return errors.NewInvalidRequestError("--count must be positive, got %d", count)
	}
	after := time.Now()
	if t, err := timeFlag(cmd, "after"); err != nil {
		return err
	} else if t != nil {
		after = *t
	}

	var list []activation
	for len(list) < count {
		next, err := expr.Next(after)
		if errors.IsNotFoundError(err) {
			break
		}
		if err != nil {
			return err
		}
		list = append(list, activation{N: len(list) + 1, Time: next})
		after = next
	}

	rows := make([][]string, 0, len(list))
	for _, a := range list {
		rows = append(rows, []string{strconv.Itoa(a.N), a.Time.Format(time.RFC3339)})
	}
	return p.print(list, []string{"#", "ACTIVATION"}, rows)
}
