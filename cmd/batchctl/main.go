package main

import (
	"fmt"
	"os"

	"github.com/teranos/batchrest/cmd/batchctl/commands"
	"github.com/teranos/batchrest/errors"
	"github.com/teranos/batchrest/logger"
)

func main() {
	defer logger.Cleanup()

	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
