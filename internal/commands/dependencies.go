package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/diogo/careerpilot/internal/api"
	"github.com/diogo/careerpilot/internal/config"
	"github.com/diogo/careerpilot/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.CopilotClientInterface, opts tui.Options) error
	RunConfig() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the API client for the resolved configuration.
	NewClient func(cfg config.Config) (api.CopilotClientInterface, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// LoadConfig and SaveConfig read and write the config file.
	LoadConfig func() (config.Config, error)
	SaveConfig func(config.Config) error

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.CopilotClientInterface, opts tui.Options) error {
	return tui.Run(client, opts)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:  newAPIClient,
		TUI:        &DefaultTUI{},
		LoadConfig: config.Load,
		SaveConfig: config.SaveConfig,
		Clipboard:  clipboard.WriteAll,
		In:         os.Stdin,
		Out:        os.Stdout,
		Err:        os.Stderr,
	}
}

// newAPIClient is the production NewClient
func newAPIClient(cfg config.Config) (api.CopilotClientInterface, error) {
	client, err := api.NewClient(
		api.WithBaseURL(cfg.APIURL),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithVerbose(cfg.Verbose),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// config loads the configuration and applies the global flags on top
func (d *Dependencies) config() (config.Config, error) {
	cfg, err := d.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if apiURLFlag != "" {
		cfg.APIURL = strings.TrimRight(apiURLFlag, "/")
	}
	if verboseFlag {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// client resolves the config and builds a client from it
func (d *Dependencies) client() (config.Config, api.CopilotClientInterface, error) {
	cfg, err := d.config()
	if err != nil {
		return cfg, nil, err
	}
	if cfg.Verbose {
		fmt.Fprintf(d.Err, "[verbose] API: %s\n", cfg.APIURL)
	}

	client, err := d.NewClient(cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to create client: %w", err)
	}
	return cfg, client, nil
}
