// Package commands provides CLI commands for careerpilot.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	apiURLFlag  string
	verboseFlag bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd creates the careerpilot command tree over deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:   "careerpilot",
		Short: "AI career co-pilot: build your profile, then tailor CVs and cover letters",
		Long: `careerpilot talks to the career co-pilot API. A short conversation
builds your profile; after that, paste a job description to get a tailored
CV or cover letter, copy it, or save it as text or PDF.

Examples:
  careerpilot                            Start the interactive co-pilot
  careerpilot chat --plain               Build the profile in line mode
  careerpilot generate cv -j job.txt     Generate a CV for a job description
  cat job.txt | careerpilot generate cover-letter --raw
  careerpilot pdf -f cv.md -o cv.pdf     Render text to PDF via the API
  careerpilot serve                      Run the co-pilot API locally
  careerpilot config set api_url http://localhost:8000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "careerpilot %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChatTUI(deps)
		},
	}

	root.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Base URL of the co-pilot API (default from config)")
	root.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Print request diagnostics to stderr")
	root.Flags().BoolP("version", "v", false, "Show version and exit")

	root.AddCommand(
		NewChatCmd(deps),
		NewGenerateCmd(deps),
		NewPDFCmd(deps),
		NewConfigCmd(deps),
		NewServeCmd(deps),
	)
	return root
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}
