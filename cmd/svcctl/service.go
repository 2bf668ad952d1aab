package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/svcctl"
)

// serviceFlags are shared by every service subcommand.
type serviceFlags struct {
	storePath string
	toolPath  string
	timeout   time.Duration
}

func (f *serviceFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.storePath, "store", "svcctl.db", "path to the service configuration database")
	cmd.PersistentFlags().StringVar(&f.toolPath, "tool", "sc", "service-manager control command")
	cmd.PersistentFlags().DurationVar(&f.timeout, "timeout", time.Minute, "budget for waiting on status transitions")
}

// withDeps opens the configuration store, builds the service dependencies,
// and runs fn, closing the store afterwards.
func (f *serviceFlags) withDeps(cmd *cobra.Command, fn func(deps svcctl.ServiceDeps) error) error {
	store, err := svcctl.OpenConfigStore(cmd.Context(), f.storePath, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	tool := &svcctl.ControlTool{Path: f.toolPath}
	return fn(svcctl.ServiceDeps{
		Manager: &svcctl.ToolManager{Tool: tool},
		Store:   store,
		Tool:    tool,
	})
}

func newServiceCmd() *cobra.Command {
	flags := &serviceFlags{}

	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage OS services through the service manager's control tool",
	}
	flags.register(cmd)
	cmd.AddCommand(
		newServiceStatusCmd(flags),
		newServiceStartCmd(flags),
		newServiceStopCmd(flags),
		newServiceCreateCmd(flags),
		newServiceDeleteCmd(flags),
	)
	return cmd
}

func newServiceStatusCmd(flags *serviceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status <name>",
		Short: "Print the service's current status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withDeps(cmd, func(deps svcctl.ServiceDeps) error {
				svc, err := svcctl.OpenService(cmd.Context(), args[0], deps)
				if err != nil {
					return err
				}
				status, err := svc.Status(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), status)
				return nil
			})
		},
	}
}

func newServiceStartCmd(flags *serviceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "start <name>",
		Short: "Start the service and wait until it is running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withDeps(cmd, func(deps svcctl.ServiceDeps) error {
				svc, err := svcctl.OpenService(cmd.Context(), args[0], deps)
				if err != nil {
					return err
				}
				return svc.Start(cmd.Context(), flags.timeout)
			})
		},
	}
}

func newServiceStopCmd(flags *serviceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <name>",
		Short: "Stop the service and wait until it is stopped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withDeps(cmd, func(deps svcctl.ServiceDeps) error {
				svc, err := svcctl.OpenService(cmd.Context(), args[0], deps)
				if err != nil {
					return err
				}
				return svc.Stop(cmd.Context(), flags.timeout)
			})
		},
	}
}

func newServiceCreateCmd(flags *serviceFlags) *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "create <name> <image>",
		Short: "Register a new service with the given image",
		Long: `Create registers the service with the service manager and stores its
image. The image is the executable path followed by its arguments; quote
the whole thing as one shell argument:

    svcctl service create agent '"C:\Program Files\svc\agent.exe" run'

Requires administrative privileges.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := svcctl.ParseImagePath(args[1])
			if err != nil {
				return err
			}
			return flags.withDeps(cmd, func(deps svcctl.ServiceDeps) error {
				svc, err := svcctl.CreateService(cmd.Context(), args[0], image, deps)
				if err != nil {
					return err
				}
				if displayName == "" {
					return nil
				}
				return svc.SetDisplayName(cmd.Context(), displayName)
			})
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "human-readable service name")

	return cmd
}

func newServiceDeleteCmd(flags *serviceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Unregister the service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withDeps(cmd, func(deps svcctl.ServiceDeps) error {
				svc, err := svcctl.OpenService(cmd.Context(), args[0], deps)
				if err != nil {
					return err
				}
				return svc.Delete(cmd.Context())
			})
		},
	}
}
