// Package cli wires the clientgen commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the clientgen command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "clientgen",
		Short: "Generate strongly typed API clients from OpenAPI and Swagger documents",
		Long: `clientgen reads an API document (Swagger 2.0, OpenAPI 3.0/3.1/3.2),
resolves its schemas into a typed model graph, and emits a Go client.

Unknown versions, unmappable types, and composition conflicts degrade to
warnings instead of aborting; pass --strict to turn warnings into failures.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCommand())
	root.AddCommand(newValidateCommand())

	return root
}
