package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/batchrest/am"
	"github.com/teranos/batchrest/batch"
	"github.com/teranos/batchrest/errors"
	"github.com/teranos/batchrest/logger"
)

// newClient builds a batch client from configuration and the --url flag.
func newClient(cmd *cobra.Command) (*batch.Client, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	effective := *cfg
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		effective.Server.BaseURL = url
	}
	if err := effective.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	logger.Infow("Using batch service", logger.FieldURL, effective.Server.BaseURL, "timeout", effective.Timeout())
	return batch.NewClient(batch.Config{
		BaseURL:           effective.Server.BaseURL,
		Timeout:           effective.Timeout(),
		BlockPrivateIP:    effective.Client.BlockPrivateIP,
		MaxRedirects:      effective.Client.MaxRedirects,
		RequestsPerSecond: effective.Client.RequestsPerSecond,
		Burst:             effective.Client.Burst,
		UserAgent:         effective.Client.UserAgent,
		Logger:            logger.ComponentLogger("batch.client"),
		LogBodies:         logger.ShouldLogBodies(verbosity),
	})
}

// parseID parses a positive numeric id argument.
func parseID(name, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidRequestError("%s must be a positive number, got %q", name, arg)
	}
	return id, nil
}
