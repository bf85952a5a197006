package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/denoseu/dn-house/internal/server"
)

// shutdownTimeout bounds how long in-flight requests may finish after a
// stop signal.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command that runs the site.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the website",
		Long: `Run the website: home, letter form, guestbook, photo menu and upload page.

Guestbook entries and photos live in the backend at api.base_url. The menu
page draws from the backend photo list when menu.source is "backend" and from
demo data otherwise. Stop with Ctrl+C; in-flight requests get a few seconds to
finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// newServer wires the site server from the configuration.
func (c *CLI) newServer(ctx context.Context, noCache bool) (*server.Server, func() error, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, nil, err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize runner: %w", err)
	}

	menu := c.Config.PipelineOptions()
	menu.Logger = c.Logger
	srv, err := server.New(server.Config{
		Addr:           c.Config.Server.Addr,
		AllowedOrigins: c.Config.Server.AllowedOrigins,
		RequestTimeout: c.Config.Server.RequestTimeout,
		Menu:           menu,
	}, client.Guestbook(), client.Photos(), runner, c.Logger)
	if err != nil {
		runner.Close()
		return nil, nil, err
	}
	return srv, runner.Close, nil
}

// runServe starts the server and shuts it down when ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	srv, closeRunner, err := c.newServer(ctx, noCache)
	if err != nil {
		return err
	}
	defer closeRunner()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	c.Logger.Info("backend", "url", c.Config.API.BaseURL, "menu", c.Config.Menu.Source)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
