// Package cli implements opsctl, the operator command line for the dashboard.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the opsctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "opsctl",
		Short:         "opsctl renders, redacts and administers MSP dashboard exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRenderCmd(),
		newRedactCmd(),
		newMigrateCmd(),
		newCreateUserCmd(),
	)
	return root
}

// Execute runs opsctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
