package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/batchrest/batch"
)

var executionHeader = []string{"EXECUTION ID", "JOB NAME", "INSTANCE", "STATUS", "EXIT STATUS", "STARTED", "ENDED"}

func executionRow(e batch.JobExecution) []string {
	return []string{
		formatID(e.ExecutionID), orDash(e.JobName), formatID(e.JobInstanceID),
		orDash(string(e.BatchStatus)), orDash(e.ExitStatus),
		formatTime(e.StartTime), formatTime(e.EndTime),
	}
}

func executionRows(execs []batch.JobExecution) [][]string {
	rows := make([][]string, 0, len(execs))
	for _, e := range execs {
		rows = append(rows, executionRow(e))
	}
	return rows
}

var stepHeader = []string{"STEP ID", "STEP NAME", "STATUS", "EXIT STATUS", "STARTED", "ENDED", "READ", "WRITE", "COMMIT"}

func stepRow(s batch.StepExecution) []string {
	return []string{
		formatID(s.StepExecutionID), orDash(s.StepName),
		orDash(string(s.BatchStatus)), orDash(s.ExitStatus),
		formatTime(s.StartTime), formatTime(s.EndTime),
		strconv.FormatInt(s.Metric("READ_COUNT"), 10),
		strconv.FormatInt(s.Metric("WRITE_COUNT"), 10),
		strconv.FormatInt(s.Metric("COMMIT_COUNT"), 10),
	}
}

func newExecutionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "execution",
		Aliases: []string{"exec"},
		Short:   "Inspect, restart, stop and abandon job executions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	get := &cobra.Command{
		Use:   "get <execution-id>",
		Short: "Show one job execution",
		Args:  cobra.ExactArgs(1),
		RunE: withExecutionID(func(cmd *cobra.Command, c *batch.Client, p *printer, id int64, args []string) error {
			exec, err := c.JobExecution(cmd.Context(), id)
			if err != nil {
				return err
			}
			return p.print(exec, executionHeader, [][]string{executionRow(*exec)})
		}),
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List recent job executions",
		Long: `List recent job executions.

--from lists executions of the same instance as the given execution and
needs --instance.

Examples:
  batchctl execution ls --count 50
  batchctl execution ls --from 42 --instance 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			from, _ := cmd.Flags().GetInt64("from")
			instance, _ := cmd.Flags().GetInt64("instance")

			p, err := newPrinter(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			execs, err := client.JobExecutions(cmd.Context(), batch.ExecutionQuery{
				Count:           count,
				JobExecutionID1: from,
				JobInstanceID:   instance,
			})
			if err != nil {
				return err
			}
			return p.print(execs, executionHeader, executionRows(execs))
		},
	}
	ls.Flags().Int("count", 0, "Maximum number of executions (0 = server default)")
	ls.Flags().Int64("from", 0, "Anchor execution id")
	ls.Flags().Int64("instance", 0, "Job instance id, used with --from")

	running := &cobra.Command{
		Use:   "running",
		Short: "List running job executions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobName, _ := cmd.Flags().GetString("job")

			p, err := newPrinter(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			execs, err := client.RunningJobExecutions(cmd.Context(), jobName)
			if err != nil {
				return err
			}
			return p.print(execs, executionHeader, executionRows(execs))
		},
	}
	running.Flags().String("job", "", "Only executions of this job")

	restart := &cobra.Command{
		Use:   "restart <execution-id>",
		Short: "Restart a failed or stopped job execution",
		Args:  cobra.ExactArgs(1),
		RunE: withExecutionID(func(cmd *cobra.Command, c *batch.Client, p *printer, id int64, args []string) error {
			params, err := paramsFromFlags(cmd)
			if err != nil {
				return err
			}
			exec, err := c.RestartJobExecution(cmd.Context(), id, params)
			if err != nil {
				return err
			}
			return p.print(exec, executionHeader, [][]string{executionRow(*exec)})
		}),
	}
	addParamFlags(restart)

	stop := &cobra.Command{
		Use:   "stop <execution-id>",
		Short: "Stop a running job execution",
		Args:  cobra.ExactArgs(1),
		RunE: withExecutionID(func(cmd *cobra.Command, c *batch.Client, p *printer, id int64, args []string) error {
			if err := c.StopJobExecution(cmd.Context(), id); err != nil {
				return err
			}
			return p.message("Stop requested for job execution %d", id)
		}),
	}

	abandon := &cobra.Command{
		Use:   "abandon <execution-id>",
		Short: "Abandon a job execution so it can never be restarted",
		Args:  cobra.ExactArgs(1),
		RunE: withExecutionID(func(cmd *cobra.Command, c *batch.Client, p *printer, id int64, args []string) error {
			if err := c.AbandonJobExecution(cmd.Context(), id); err != nil {
				return err
			}
			return p.message("Job execution %d abandoned", id)
		}),
	}

	steps := &cobra.Command{
		Use:   "steps <execution-id>",
		Short: "List the step executions of a job execution",
		Args:  cobra.ExactArgs(1),
		RunE: withExecutionID(func(cmd *cobra.Command, c *batch.Client, p *printer, id int64, args []string) error {
			list, err := c.StepExecutions(cmd.Context(), id)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, s := range list {
				rows = append(rows, stepRow(s))
			}
			return p.print(list, stepHeader, rows)
		}),
	}

	step := &cobra.Command{
		Use:   "step <execution-id> <step-execution-id>",
		Short: "Show one step execution",
		Args:  cobra.ExactArgs(2),
		RunE: withExecutionID(func(cmd *cobra.Command, c *batch.Client, p *printer, id int64, args []string) error {
			stepID, err := parseID("step execution id", args[1])
			if err != nil {
				return err
			}
			s, err := c.StepExecution(cmd.Context(), id, stepID)
			if err != nil {
				return err
			}
			return p.print(s, stepHeader, [][]string{stepRow(*s)})
		}),
	}

	cmd.AddCommand(get, ls, running, restart, stop, abandon, steps, step)
	return cmd
}

type executionRunFunc func(cmd *cobra.Command, c *batch.Client, p *printer, id int64, args []string) error

// withExecutionID parses args[0] as an execution id and sets up the client
// and printer before calling run.
func withExecutionID(run executionRunFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID("execution id", args[0])
		if err != nil {
			return err
		}
		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		return run(cmd, client, p, id, args)
	}
}
