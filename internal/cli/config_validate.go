package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var (
		verbose bool
		remote  bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file and environment for syntax and semantic correctness.

This includes:
- YAML syntax and environment overrides
- API base URL and timeout
- Page size range and output format
- With --remote, the backend's /health version against the supported range`,
		Example: `  # Validate current configuration
  edupredict config validate

  # Also check the backend is reachable and compatible
  edupredict config validate --remote --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose, remote)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")
	cmd.Flags().BoolVar(&remote, "remote", false, "also check the backend version")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose, remote bool) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if remote {
		a, appErr := newApp(cmd)
		if appErr != nil {
			return appErr
		}
		h, checkErr := a.client.CheckCompatibility(cmd.Context())
		if checkErr != nil {
			return fmt.Errorf("backend check failed: %w", checkErr)
		}
		cmd.Printf("Backend %s is %s (version %s)\n", a.client.BaseURL(), orDash(h.Status), orDash(h.Version))
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}
	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  API base URL: %s\n", cfg.API.BaseURL)
	cmd.Printf("  API timeout: %s\n", cfg.API.Timeout.Round(time.Millisecond))
	cmd.Printf("  Page size: %d\n", cfg.Pagination.PageSize)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", orDash(cfg.Logging.File))
	if cfg.Logging.Audit.Enabled {
		cmd.Printf("  Audit log: %s\n", cfg.Logging.Audit.File)
	} else {
		cmd.Println("  Audit log: disabled")
	}
	cmd.Printf("  Session file: %s\n", cfg.Session.File)
}
