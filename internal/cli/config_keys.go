package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/config"
)

// loadConfigFile reads the config file without the environment so that set
// never persists environment overrides.
func loadConfigFile() (*config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	return config.LoadFile(path)
}

// NewConfigSetCmd creates the config set command.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  edupredict config set api.base_url https://edupredict.example.edu
  edupredict config set pagination.page_size 25
  edupredict config set logging.audit.enabled true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "config set", map[string]string{"key": args[0], "value": args[1]})

			cfg, err := loadConfigFile()
			if err != nil {
				return audit.finish(ctx, 0, err)
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return audit.finish(ctx, 0, err)
			}
			if err = audit.finish(ctx, 1, cfg.Save()); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			value, _ := cfg.Get(args[0])
			cmd.Printf("%s = %s\n", args[0], value)
			return nil
		},
	}
}

// NewConfigGetCmd creates the config get command. The value includes
// environment overrides.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Print a configuration value",
		Example: `  edupredict config get api.base_url`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return fmt.Errorf("%w (keys: %v)", err, config.Keys())
			}
			cmd.Println(value)
			return nil
		},
	}
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			values := config.GetGlobalConfig().List()
			return renderValue(cmd.OutOrStdout(), format, values, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
				for _, k := range config.Keys() {
					fmt.Fprintf(tw, "%s\t%s\n", k, values[k])
				}
				return tw.Flush()
			})
		},
	}
}
