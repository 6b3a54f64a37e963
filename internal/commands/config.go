package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/careerpilot/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure careerpilot settings.

Subcommands print or change single settings without the menu.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.TUI.RunConfig()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := deps.config()
				if err != nil {
					return err
				}
				return printConfig(deps, cfg)
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting and save it",
			Long:  "Change one setting and save it.\n\nKeys: " + strings.Join(config.SettableKeys(), ", "),
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := deps.LoadConfig()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if err := cfg.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := deps.SaveConfig(cfg); err != nil {
					return err
				}
				fmt.Fprintln(deps.Err, successStyle.Render(fmt.Sprintf("✓ %s = %s", args[0], args[1])))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(deps.Out, path)
				return nil
			},
		},
	)

	return cmd
}

// printConfig writes cfg as JSON and reports which secrets are set without
// printing them
func printConfig(deps *Dependencies, cfg config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(deps.Out, string(data))

	secret := func(v string) string {
		if v == "" {
			return "not set"
		}
		return "set"
	}
	fmt.Fprintf(deps.Err, "GEMINI_API_KEY: %s\n", secret(cfg.Server.GeminiAPIKey))
	fmt.Fprintf(deps.Err, "DATABASE_URL: %s\n", secret(cfg.Server.DatabaseURL))
	return nil
}
