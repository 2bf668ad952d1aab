package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/svcctl"
)

func newLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Inspect and manage pid lock files",
	}
	cmd.AddCommand(
		newLockAcquireCmd(),
		newLockReleaseCmd(),
		newLockOwnerCmd(),
	)
	return cmd
}

func newLockAcquireCmd() *cobra.Command {
	var (
		wait    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "acquire <path>",
		Short: "Acquire a lock file, writing this process's pid",
		Long: `Acquire claims the lock file for the calling process. Without --wait the
command fails immediately when the lock is held; with --wait it blocks,
reclaiming the lock if its owner has died.

Note that the lock is released when this command exits, so acquire is
mostly useful for probing and for wrapping short critical sections in
shell scripts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lock := svcctl.NewLockFile(args[0], svcctl.LockConfig{})
			if !wait {
				return lock.Lock()
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return lock.Wait(ctx, true)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "block until the lock is available")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up waiting after this duration (0 waits forever)")

	return cmd
}

func newLockReleaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release <path>",
		Short: "Remove a lock file regardless of owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return svcctl.NewLockFile(args[0], svcctl.LockConfig{}).Release()
		},
	}
}

func newLockOwnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owner <path>",
		Short: "Print the pid of the lock's live owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := svcctl.NewLockFile(args[0], svcctl.LockConfig{}).OwningProcess()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pid)
			return nil
		},
	}
}
