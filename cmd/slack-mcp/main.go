// Command slack-mcp serves the Slack vacation status tool over MCP.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slack-mcp/internal/boundary"
	"slack-mcp/internal/config"
	"slack-mcp/internal/directory"
	"slack-mcp/internal/logger"
	"slack-mcp/internal/tracking"
	"slack-mcp/internal/vacation"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "slack-mcp",
		Short:        "MCP server that checks Slack users' vacation status",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.Version = version
	root.AddCommand(newServeCmd(), newCheckCmd())
	return root
}

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	tracker  tracking.Tracker
	boundary *boundary.Boundary
	checker  *vacation.Checker
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		return nil, err
	}

	tracker, err := tracking.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnw("Error tracking disabled", "error", err)
		tracker = tracking.Noop{}
	}

	dir := directory.New(cfg.Slack.APIURL, cfg.Slack.BotToken, nil)
	dir.Limiter = directory.NewLimiter(cfg.Slack.RatePerMinute)

	return &app{
		cfg:      cfg,
		log:      log,
		tracker:  tracker,
		boundary: boundary.New(log, tracker),
		checker:  vacation.NewChecker(dir, log),
	}, nil
}
