package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"

	"github.com/slok/tasklist/internal/config"
	"github.com/slok/tasklist/internal/session"
	"github.com/slok/tasklist/internal/web"
)

// ServeCommand runs the task list web application.
type ServeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	listen     string
	sessionTTL time.Duration
}

// NewServeCommand returns the serve command.
func NewServeCommand(rootCmd *RootCommand, app *kingpin.Application) *ServeCommand {
	c := &ServeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("serve", "Run the task list web application.")
	c.Cmd.Flag("listen", "Address to listen on (default: :8080).").StringVar(&c.listen)
	c.Cmd.Flag("session-ttl", "How long an idle browser session is kept (default: 24h).").DurationVar(&c.sessionTTL)

	return c
}

func (c ServeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ServeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cfg, err := c.rootCmd.Config(config.Config{
		Listen:     c.listen,
		SessionTTL: c.sessionTTL,
	})
	if err != nil {
		return err
	}

	repo, closeRepo, err := newRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	sessions, err := session.NewManager(session.ManagerConfig{
		TTL:    cfg.SessionTTL,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create session manager: %w", err)
	}

	srv, err := web.NewServer(web.ServerConfig{
		ListenAddr: cfg.Listen,
		Repository: repo,
		Sessions:   sessions,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create web server: %w", err)
	}

	logger.Infof("serving tasks from %s storage", cfg.Storage)

	// Web server and session sweeper stop together.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group
	g.Add(
		func() error { return srv.Run(ctx) },
		func(_ error) { cancel() },
	)
	g.Add(
		func() error { return sessions.Run(ctx) },
		func(_ error) { cancel() },
	)

	return g.Run()
}
