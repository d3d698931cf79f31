package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/batchrest/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show batchctl version information",
		Long:  `Display version, build time, commit hash, and platform information for the batchctl binary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd)
			if err != nil {
				return err
			}
			info := version.Get()
			if p.format == formatTable {
				return p.message("%s", info.String())
			}
			return p.print(info, nil, nil)
		},
	}
}
