package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/denoseu/dn-house/pkg/pipeline"
)

// defaultOutputBase is the output path without extension when -o is unset.
const defaultOutputBase = "menu"

// layoutCommand creates the layout command that places the photo menu and
// writes it to disk.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   menuFlags
		formats string
		output  string
		render  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Place the photo menu and write it as SVG, JSON, PNG or PDF",
		Long: `Place the photo menu and write it to disk.

Cards come from embedded demo data (--source demo) or from the backend photo
list (--source backend). Each card is dropped at a random spot that keeps a
buffer to every card already placed; cards that find no spot are skipped.
The same seed always produces the same menu.

PNG and PDF output need rsvg-convert on PATH.

Photo lists and placed canvases are cached locally for faster subsequent runs.`,
		Example: `  dnhouse layout
  dnhouse layout --seed 7 -f svg,json -o menu
  dnhouse layout -s backend --count 20 -f png --scale 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.menuOptions(cmd, &flags)
			opts.Formats = parseFormats(formats)
			if cmd.Flags().Changed("background") {
				opts.Background = render.Background
			}
			opts.ShowBounds = render.ShowBounds
			opts.Scale = render.Scale
			return c.runLayout(cmd.Context(), cmd.ErrOrStderr(), opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "output formats, comma separated: svg, json, png, pdf")
	cmd.Flags().StringVarP(&output, "output", "o", defaultOutputBase, "output path without extension")
	cmd.Flags().StringVar(&render.Background, "background", "", "canvas background color (default from config)")
	cmd.Flags().BoolVar(&render.ShowBounds, "bounds", false, "outline each card's collision box")
	cmd.Flags().Float64Var(&render.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

// runLayout runs the pipeline and writes one file per requested format.
func (c *CLI) runLayout(ctx context.Context, status io.Writer, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, status, fmt.Sprintf("Placing %s menu...", opts.Source))
	restore := followMenu(spinner)
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	restore()
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d of %d cards", result.Stats.Placed, result.Stats.Items))

	printSuccess("Menu placed")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Placed, result.Stats.Skipped, result.CacheInfo.LayoutHit)
	if result.Stats.Skipped > 0 && !opts.GridFallback {
		printNewline()
		printWarning("%d cards found no free spot", result.Stats.Skipped)
		printNextStep("Place the rest on a grid", "dnhouse layout --grid")
	}
	return nil
}

// writeArtifacts writes artifacts to base.<format> in format order and
// returns the written paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if base == "" {
		base = defaultOutputBase
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
