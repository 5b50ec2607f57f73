package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoocto/clientgen/internal/preflight"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <spec>",
		Short: "Validate an API document without generating anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading spec file: %w", err)
			}

			findings, err := preflight.Validate(data)
			if err != nil {
				return fmt.Errorf("validating %s: %w", args[0], err)
			}
			if len(findings) == 0 {
				cmd.Printf("%s is valid\n", args[0])
				return nil
			}
			for _, f := range findings {
				cmd.PrintErrf("validation: %s\n", f)
			}
			return fmt.Errorf("%s: %d validation finding(s)", args[0], len(findings))
		},
	}
	return cmd
}
