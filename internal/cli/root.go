package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/config"
	"github.com/edupredict/edupredict/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// Persistent flag names.
const (
	flagDebug  = "debug"
	flagOutput = "output"
	flagAPIURL = "api-url"
	flagConfig = "config"
)

// NewRootCmd creates the root Cobra command for the edupredict CLI.
// It loads configuration, wires up logging, tracing and audit logging, and
// registers every subcommand.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "edupredict",
		Short:         "EduPredict administration CLI",
		Long:          "edupredict: browse and manage students, roles, academic data and logs of an EduPredict backend",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyConfigFlags(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool(flagDebug, false, "enable debug logging to stderr")
	cmd.PersistentFlags().StringP(flagOutput, "o", "", "output format: table, json or ndjson (default from config)")
	cmd.PersistentFlags().String(flagAPIURL, "", "EduPredict API base URL (overrides config and environment)")
	cmd.PersistentFlags().String(flagConfig, "", "YAML file whose sections override the config file")

	cmd.AddCommand(
		newLoginCmd(), newLogoutCmd(), newWhoamiCmd(),
		newStudentsCmd(), newRolesCmd(), newResourcesCmd(), newLogsCmd(),
		newAttendanceCmd(), newFinancialCmd(), newAnalyticsCmd(),
		newOverviewCmd(), newConfigCmd(), newVersionCmd(),
	)

	return cmd
}

// applyConfigFlags layers --config and --api-url over the global config.
func applyConfigFlags(cmd *cobra.Command) error {
	cfg := config.GetGlobalConfig()

	if path, _ := cmd.Flags().GetString(flagConfig); path != "" {
		if err := config.ShallowMergeYAML(cfg, path); err != nil {
			return fmt.Errorf("applying --config: %w", err)
		}
	}

	if cmd.Flags().Changed(flagAPIURL) {
		raw, _ := cmd.Flags().GetString(flagAPIURL)
		cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(raw), "/")
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --%s: %w", flagAPIURL, err)
		}
	}
	return nil
}

const rootCmdExample = `  # Sign in (the password is prompted for)
  edupredict login --username admin

  # List the second page of students at high risk, best grades first
  edupredict students list --page 2 --filter risk=high --sort grade:desc

  # Browse students interactively
  edupredict students list --interactive

  # Show one student's dashboard
  edupredict students show 42

  # Assign a role
  edupredict roles assign 42 Profesor

  # Create a subject
  edupredict resources create materias --set nombre="Cálculo I" --set ciclo_materia=1

  # Students below the attendance threshold
  edupredict attendance critical --filter severity=severe

  # What if attendance improved by 20%?
  edupredict analytics simulate --target asistencia_promedio --factor 1.2

  # Recent activity as JSON lines
  edupredict logs activity --output ndjson

  # Point the CLI at another backend
  edupredict config set api.base_url https://edupredict.example.edu`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
