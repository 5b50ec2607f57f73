package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Spec        string         `koanf:"spec"`
	OutputDir   string         `koanf:"output-dir"`
	Package     string         `koanf:"package"`
	ServiceName string         `koanf:"service-name"`
	Validate    bool           `koanf:"validate"`
	Strict      bool           `koanf:"strict"`
	Templates   TemplateConfig `koanf:"templates"`
}

type TemplateConfig struct {
	Dir string `koanf:"dir"`
}

// BindFlags binds the shared generation flags to a command.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("config", "c", "", "Config file path (default: clientgen.yaml)")
	flags.StringP("spec", "s", "", "API spec file path (YAML or JSON)")
	flags.StringP("output-dir", "o", "", "Output directory for the generated client")
	flags.StringP("package", "p", "", "Package name for the generated client")
	flags.String("service-name", "", "Service name used for the client type (default: derived from the spec title)")
	flags.String("templates", "", "Custom templates directory")
	flags.Bool("validate", false, "Validate the document before generating")
	flags.Bool("strict", false, "Treat accumulated warnings as failures")
	flags.Bool("dry-run", false, "Print output without writing files")
}

// Load merges the config file (flag path, else clientgen.yaml when present)
// with command-line flags; flags win.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		if _, err := os.Stat("clientgen.yaml"); err == nil {
			configFile = "clientgen.yaml"
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Package == "" {
		cfg.Package = "client"
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	if v := getString("spec"); v != "" {
		m["spec"] = v
	}
	if v := getString("output-dir"); v != "" {
		m["output-dir"] = v
	}
	if v := getString("package"); v != "" {
		m["package"] = v
	}
	if v := getString("service-name"); v != "" {
		m["service-name"] = v
	}
	if v := getString("templates"); v != "" {
		m["templates.dir"] = v
	}
	if cmd.Flags().Changed("validate") {
		m["validate"], _ = cmd.Flags().GetBool("validate")
	}
	if cmd.Flags().Changed("strict") {
		m["strict"], _ = cmd.Flags().GetBool("strict")
	}

	return m
}

// Check validates the loaded configuration.
func (c *Config) Check() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}
