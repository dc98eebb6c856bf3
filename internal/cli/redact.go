package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spec-kit/msp-dashboard/internal/redact"
)

func newRedactCmd() *cobra.Command {
	var report bool
	cmd := &cobra.Command{
		Use:   "redact",
		Short: "Scrub credentials from stdin and write the result to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			result := redact.Scan(string(in))
			if _, err := io.WriteString(cmd.OutOrStdout(), result.Text); err != nil {
				return err
			}
			if report {
				stderr := cmd.ErrOrStderr()
				for _, label := range redact.Rules() {
					if n := result.Counts[label]; n > 0 {
						fmt.Fprintf(stderr, "%s: %d\n", label, n)
					}
				}
				if n := result.Counts["timeout"]; n > 0 {
					fmt.Fprintf(stderr, "timeout: %d\n", n)
				}
				fmt.Fprintf(stderr, "total: %d\n", result.Total)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&report, "report", false, "print per-rule match counts to stderr")
	return cmd
}
