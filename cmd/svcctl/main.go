// Command svcctl exposes the library's process, service, and lock-file
// operations for shell use.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svcctl",
		Short: "Coordinate child processes, OS services, and file locks",

		// Errors are printed once by main; usage noise on runtime
		// failures helps nobody.
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newRunCmd(),
		newLockCmd(),
		newServiceCmd(),
	)
	return cmd
}
