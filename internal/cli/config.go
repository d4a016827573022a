package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/qfilter/internal/model"
)

func newConfigCmd(o *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage qfilter configuration",
		Long: `Manage qfilter configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (QFILTER_*, e.g. QFILTER_SERVER_ADDR)
3. Config file (~/.qfilter/config.yaml)
4. Defaults`,
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the effective configuration after merging defaults, config file, env vars and flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(o.cfg)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	var initPath string
	var force bool
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration file",
		Long:  `Create a default configuration file at ~/.qfilter/config.yaml with all available options.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := initPath
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("error finding home directory: %w", err)
				}
				path = filepath.Join(home, ".qfilter", "config.yaml")
			}
			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", path)
			return nil
		},
	}
	configInitCmd.Flags().StringVar(&initPath, "path", "", "write to this path instead of ~/.qfilter/config.yaml")
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	return configCmd
}

const configHeader = `# qfilter configuration file
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (QFILTER_*, nested keys joined by "_")
#   3. This config file
#   4. Built-in defaults

`

// writeDefaultConfig writes the documented default configuration to path
func writeDefaultConfig(path string, force bool) (err error) {
	if _, statErr := os.Stat(path); statErr == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	if _, err := f.WriteString(configHeader); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}
