package commands

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/careerpilot/internal/advisor"
	"github.com/diogo/careerpilot/internal/llm"
	"github.com/diogo/careerpilot/internal/pdf"
	"github.com/diogo/careerpilot/internal/profile"
	"github.com/diogo/careerpilot/internal/server"
)

// NewServeCmd creates the serve command
func NewServeCmd(deps *Dependencies) *cobra.Command {
	var (
		port       string
		chromePath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the co-pilot API",
		Long: `Run the co-pilot API: profile chat, CV and cover letter generation, and
PDF rendering.

Requires GEMINI_API_KEY. Profiles are stored in SQLite under the config
directory unless DATABASE_URL points at Postgres or profile_store says
otherwise. PDF rendering needs a local Chrome or Chromium.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.config()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if chromePath == "" {
				chromePath = os.Getenv("CHROME_PATH")
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(deps.Err, &slog.HandlerOptions{Level: level}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := profile.Open(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open profile store: %w", err)
			}
			defer store.Close()

			model, err := llm.NewGeminiClient(ctx, cfg.Server.GeminiAPIKey, llm.WithModel(cfg.Server.GeminiModel))
			if err != nil {
				return fmt.Errorf("failed to configure Gemini: %w", err)
			}
			defer model.Close()

			adv := advisor.New(model, store,
				advisor.WithUserName(cfg.Server.UserName),
				advisor.WithLogger(logger),
			)
			renderer := pdf.NewChromeRenderer(pdf.WithExecPath(chromePath))

			srv := server.New(adv, renderer,
				server.WithLogger(logger),
				server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
			)

			logger.Info("starting careerpilot API",
				"version", Version,
				"model", model.Model(),
				"profile_store", profile.Kind(store),
			)
			return srv.ListenAndServe(ctx, net.JoinHostPort("", cfg.Server.Port))
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from config or PORT)")
	cmd.Flags().StringVar(&chromePath, "chrome", "", "Chrome or Chromium executable for PDF rendering (default: auto-detect, or CHROME_PATH)")
	return cmd
}
