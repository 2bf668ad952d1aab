package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/svcctl"
)

func newRunCmd() *cobra.Command {
	var (
		timeout time.Duration
		dir     string
		expect  int
	)

	cmd := &cobra.Command{
		Use:   "run [flags] -- <executable> [args...]",
		Short: "Run a command under a watchdog and forward its output",
		Long: `Run spawns the given command, streams its output, and waits for it to
exit. With --timeout the process is killed when the budget runs out. The
command's exit code is checked against --expect; a mismatch is an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := svcctl.Spawn(svcctl.ProcessSpec{
				Path:     args[0],
				Args:     args[1:],
				Dir:      dir,
				Timeout:  timeout,
				OnStdout: func(line string) { fmt.Fprintln(os.Stdout, line) },
				OnStderr: func(line string) { fmt.Fprintln(os.Stderr, line) },
			})
			if err != nil {
				return err
			}
			defer p.Close()

			err = p.WaitExitCode(cmd.Context(), expect)
			if errors.Is(err, svcctl.ErrUnexpectedExitCode) {
				if code, ok := p.ExitCode(); ok {
					return fmt.Errorf("exit code %d, expected %d", code, expect)
				}
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "kill the process after this duration (0 disables the watchdog)")
	cmd.Flags().StringVar(&dir, "dir", "", "working directory for the process")
	cmd.Flags().IntVar(&expect, "expect", 0, "exit code treated as success")

	return cmd
}
