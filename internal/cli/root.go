package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/denoseu/dn-house/internal/config"
	"github.com/denoseu/dn-house/pkg/buildinfo"
	"github.com/denoseu/dn-house/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Logging:
//   - Default: log.level from the config (info unless changed)
//   - With --verbose (-v): debug level, plus debug lines for every backend
//     request, cache lookup and placement run
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dnhouse",
		Short: "dn-house serves our little website and its photo menu",
		Long: `dn-house is the home of our couple website: a letter form, a guestbook,
a photo menu of scattered postcards and polaroids, and a photo upload page.

The same binary serves the site, talks to the guestbook and photo backend,
and renders or explores the photo menu from the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/dn-house/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.guestbookCommand())
	root.AddCommand(c.photosCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and configures logging before any command
// runs.
func (c *CLI) setup(cmd *cobra.Command) error {
	path, err := c.resolveConfigPath()
	if err != nil {
		c.Logger.Debug("no config path", "error", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = log.DebugLevel
		observability.NewLogHooks(c.Logger).Install()
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// resolveConfigPath returns --config or the default location.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}
