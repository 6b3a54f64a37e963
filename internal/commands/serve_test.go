package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/diogo/careerpilot/internal/config"
	"github.com/diogo/careerpilot/internal/llm"
)

func TestServeCommand_RequiresAPIKey(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Server.GeminiAPIKey = ""

	err := env.run("serve", "--port", "0")
	if !errors.Is(err, llm.ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestServeCommand_BadProfileStore(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Server.GeminiAPIKey = "key"
	env.cfg.Server.ProfileStore = config.StorePostgres

	err := env.run("serve")
	if err == nil || !strings.Contains(err.Error(), "failed to open profile store") {
		t.Errorf("err = %v", err)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	cmd := NewServeCmd(NewDependencies())
	for _, name := range []string{"port", "chrome"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag %s not found", name)
		}
	}
	if cmd.Flags().ShorthandLookup("p") == nil {
		t.Error("port should have the -p shorthand")
	}
}
