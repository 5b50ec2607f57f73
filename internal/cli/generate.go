package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/autoocto/clientgen/internal/codegen"
	"github.com/autoocto/clientgen/internal/config"
	"github.com/autoocto/clientgen/internal/loader"
	"github.com/autoocto/clientgen/internal/preflight"
	"github.com/autoocto/clientgen/internal/render"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a typed client from an API document",
		RunE:  runGenerate,
	}
	config.BindFlags(cmd)
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.Spec)
	if err != nil {
		return fmt.Errorf("reading spec file: %w", err)
	}

	if cfg.Validate {
		findings, err := preflight.Validate(data)
		if err != nil {
			return fmt.Errorf("validating %s: %w", cfg.Spec, err)
		}
		for _, f := range findings {
			cmd.PrintErrf("validation: %s\n", f)
		}
		if len(findings) > 0 && cfg.Strict {
			return fmt.Errorf("validation reported %d finding(s)", len(findings))
		}
	}

	doc, err := loader.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", cfg.Spec, err)
	}

	result, err := codegen.New().Run(doc)
	if err != nil {
		return err
	}

	render.SortWarnings(result.Warnings)
	for _, w := range result.Warnings {
		cmd.PrintErrf("warning: %s\n", w)
	}
	if len(result.Warnings) > 0 && cfg.Strict {
		return fmt.Errorf("generation produced %d warning(s)", len(result.Warnings))
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		if title, ok := doc.Lookup("#/info/title"); ok {
			serviceName, _ = title.(string)
		}
	}

	files, err := render.Client(result, render.Options{
		Package:     cfg.Package,
		ServiceName: serviceName,
		TemplateDir: cfg.Templates.Dir,
	})
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		for _, f := range files {
			cmd.Printf("--- %s ---\n%s\n", f.Name, f.Content)
		}
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(cfg.OutputDir, f.Name)
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		cmd.Printf("wrote %s\n", path)
	}
	return nil
}
