package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates ~/.edupredict/config.yaml (or $EDUPREDICT_HOME/config.yaml) with
default values. The environment is not written to the file.`,
		Example: `  # Create configuration
  edupredict config init

  # Create configuration for a remote backend, overwriting an existing file
  edupredict config init --base-url https://edupredict.example.edu --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, baseURL, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL to write instead of the default")

	return cmd
}

func initConfig(cmd *cobra.Command, baseURL string, force bool) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}

	if !force {
		_, statErr := os.Stat(path)
		if statErr == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(statErr) {
			return fmt.Errorf("cannot access config path %s: %w", path, statErr)
		}
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	cfg := config.Default(dir)
	if baseURL != "" {
		if err = cfg.Set("api.base_url", baseURL); err != nil {
			return fmt.Errorf("invalid --base-url: %w", err)
		}
	}
	if err = cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())
	return nil
}
