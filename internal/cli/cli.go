package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/thenoetrevino/opsboard/internal/app"
	"github.com/thenoetrevino/opsboard/internal/cli/styles"
	"github.com/thenoetrevino/opsboard/internal/config"
	"github.com/thenoetrevino/opsboard/internal/logging"
	"github.com/thenoetrevino/opsboard/internal/testutil"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config

	logCloser io.Closer
	owned     bool
}

// GetCLIFromContext returns the CLI for a command.
// Tests inject an app through the command context; otherwise the app is
// built from the user's configuration and closed by Close.
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if ctx != nil {
		if testApp, ok := ctx.Value(testutil.TestAppKey).(*app.App); ok && testApp != nil {
			return &CLI{App: testApp, Config: config.Default()}, nil
		}
	}
	return NewCLI(ctx)
}

// NewCLI loads configuration, starts logging and opens the application
func NewCLI(ctx context.Context) (*CLI, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	closer, err := logging.Init(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	styles.Init(cfg.Theme)

	application, err := app.Open(ctx, cfg)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &CLI{
		App:       application,
		Config:    cfg,
		logCloser: closer,
		owned:     true,
	}, nil
}

// Close cleans up CLI resources. Injected apps are left open for their owner.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	err := c.App.Close()
	if c.logCloser != nil {
		if cerr := c.logCloser.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
