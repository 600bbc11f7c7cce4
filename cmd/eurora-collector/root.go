// Command eurora-collector is the Timeline Collector daemon: it drives the
// Focus Tracker, hosts the Browser Bridge gRPC server, selects strategies,
// and serves the assembled activity timeline to local consumers.
//
// Structured as a cobra root command with subcommands, mirroring the
// teacher's api/cmd/helix/root.go (NewRootCmd/Execute shape).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "eurora-collector",
		Short: "Eurora activity-capture collector",
		Long:  "Drives focus tracking, strategy selection, and the browser bridge that together assemble Eurora's activity timeline.",
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
