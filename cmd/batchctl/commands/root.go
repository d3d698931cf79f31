// Package commands implements the batchctl command tree.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/batchrest/am"
	"github.com/teranos/batchrest/errors"
	"github.com/teranos/batchrest/logger"
)

// NewRootCmd builds the batchctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "batchctl",
		Short: "Operate batch jobs through the batch REST API",
		Long: `batchctl - start, inspect and schedule batch jobs over REST.

Available commands:
  job        - Start, restart and list jobs
  instance   - List job instances
  execution  - Inspect, restart, stop and abandon job executions
  schedule   - Create, list and cancel job schedules
  am         - Show and validate batchctl configuration ("I am")
  version    - Show version information

Examples:
  batchctl job start payroll -p date=2026-10-19
  batchctl execution steps 42
  batchctl schedule create --job payroll --cron "0 2 * * MON-FRI"
  batchctl schedule ls --output yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			jsonLogs := false
			if cfg, err := am.Load(); err == nil {
				jsonLogs = cfg.Log.JSON
			}
			if err := logger.Initialize(jsonLogs, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
	}

	root.PersistentFlags().String("url", "", "Batch REST API base URL (overrides server.base_url)")
	root.PersistentFlags().StringP("output", "o", formatTable, "Output format: table, json, yaml")
	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	root.AddCommand(newJobCmd())
	root.AddCommand(newInstanceCmd())
	root.AddCommand(newExecutionCmd())
	root.AddCommand(newScheduleCmd())
	root.AddCommand(newAmCmd())
	root.AddCommand(newVersionCmd())

	return root
}
