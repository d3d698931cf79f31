package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/batchrest/batch"
	"github.com/teranos/batchrest/logger"
)

func newJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Start, restart and list jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	start := &cobra.Command{
		Use:   "start <job-xml-name>",
		Short: "Start a job",
		Long: `Start a new instance of the job defined by <job-xml-name>.

Examples:
  batchctl job start payroll
  batchctl job start payroll -p date=2026-10-19 -p dept=R&D
  batchctl job start payroll --params "date=2026-10-19 note='month end'"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := paramsFromFlags(cmd)
			if err != nil {
				return err
			}
			return runJobCall(cmd, func(c *batch.Client) (*batch.JobExecution, error) {
				return c.StartJob(cmd.Context(), args[0], params)
			})
		},
	}
	addParamFlags(start)

	restart := &cobra.Command{
		Use:   "restart <job-xml-name>",
		Short: "Restart the most recent execution of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := paramsFromFlags(cmd)
			if err != nil {
				return err
			}
			return runJobCall(cmd, func(c *batch.Client) (*batch.JobExecution, error) {
				return c.RestartJob(cmd.Context(), args[0], params)
			})
		},
	}
	addParamFlags(restart)

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List jobs known to the server",
		Args:  cobra.NoArgs,
		RunE:  runJobLs,
	}

	cmd.AddCommand(start, restart, ls)
	return cmd
}

// runJobCall prints the execution returned by a start or restart call.
func runJobCall(cmd *cobra.Command, call func(*batch.Client) (*batch.JobExecution, error)) error {
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	exec, err := call(client)
	if err != nil {
		return err
	}
	logger.Infow("Job execution created", logger.FieldJobName, exec.JobName, logger.FieldJobExecutionID, exec.ExecutionID)
	return p.print(exec, executionHeader, [][]string{executionRow(*exec)})
}

func runJobLs(cmd *cobra.Command, args []string) error {
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	jobs, err := client.Jobs(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{j.JobName, strconv.Itoa(j.NumberOfJobInstances), strconv.Itoa(j.NumberOfRunningJobExecutions)})
	}
	return p.print(jobs, []string{"JOB NAME", "INSTANCES", "RUNNING"}, rows)
}

func newInstanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instance",
		Short: "List job instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List job instances",
		Long: `List job instances, optionally for one job.

Examples:
  batchctl instance ls --job payroll
  batchctl instance ls --start 20 --count 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobName, _ := cmd.Flags().GetString("job")
			start, _ := cmd.Flags().GetInt("start")
			count, _ := cmd.Flags().GetInt("count")

			p, err := newPrinter(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			instances, err := client.JobInstances(cmd.Context(), jobName, start, count)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(instances))
			for _, in := range instances {
				rows = append(rows, []string{
					formatID(in.InstanceID), in.JobName,
					strconv.Itoa(in.NumberOfJobExecutions), formatID(in.LatestJobExecutionID),
				})
			}
			return p.print(instances, []string{"INSTANCE ID", "JOB NAME", "EXECUTIONS", "LATEST EXECUTION"}, rows)
		},
	}
	ls.Flags().String("job", "", "Only instances of this job")
	ls.Flags().Int("start", 0, "Offset of the first instance")
	ls.Flags().Int("count", 20, "Maximum number of instances")

	cmd.AddCommand(ls)
	return cmd
}
