package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"masterclass/schemagraph/internal/config"
	"masterclass/schemagraph/internal/graph"
	"masterclass/schemagraph/internal/layout"
	"masterclass/schemagraph/internal/logging"
	"masterclass/schemagraph/internal/render"
	"masterclass/schemagraph/internal/schema"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates the schemagraph command. Without a subcommand it draws
// the configured schema catalog.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "schemagraph",
		Short: "Draw database schema diagrams with a force-directed layout",
		Long: `schemagraph lays out the tables of a built-in schema catalog with a
spring model and draws them with their foreign-key references.

With no arguments the default catalog is shown in the platform image viewer,
or written to schema.png when no display is available.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
			if err := config.LoadDotEnv(cwd); err != nil {
				return err
			}
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = logging.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE:          runDraw,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./schemagraph.yaml)")
	pf.String("schema", config.DefaultSchema, "Schema catalog to draw")
	pf.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	pf.String("log-format", config.DefaultLogFormat, "Log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("schema", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return schema.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	f := rootCmd.Flags()
	f.StringP("output", "o", "", "Write the diagram to this file instead of displaying it")
	f.String("format", "", "Output format (png|svg|dot|json|db), default from the file extension")
	f.Bool("display", false, "Open the diagram in the image viewer (default when no --output is given)")
	f.Bool("fallback", true, "Write schema.png when no display is available")
	f.Uint64("seed", 0, "Layout seed for reproducible diagrams")
	f.Int("iterations", config.DefaultIterations, "Spring layout iterations")
	f.Float64("spacing", config.DefaultSpacing, "Ideal distance between tables (0 picks 1/sqrt(n))")

	style := config.DefaultStyle()
	f.String("node-color", style.NodeColor, "Node fill colour (name or #rrggbb)")
	f.Float64("node-size", style.NodeSize, "Node area in points²")
	f.Float64("font-size", style.FontSize, "Label font size in points")
	f.String("font-weight", style.FontWeight, "Label font weight (normal|bold)")
	f.String("edge-color", style.EdgeColor, "Reference colour (name or #rrggbb)")
	f.Float64("arrow-size", style.ArrowSize, "Arrowhead size in points")
	f.String("title", "", "Diagram title (default: the catalog title)")
	f.Float64("width", style.Width, "Figure width in inches")
	f.Float64("height", style.Height, "Figure height in inches")
	f.Float64("dpi", style.DPI, "Resolution in dots per inch")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return render.Formats(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newSchemasCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Schema:     config.DefaultSchema,
		Fallback:   true,
		Iterations: config.DefaultIterations,
		Spacing:    config.DefaultSpacing,
		LogLevel:   config.DefaultLogLevel,
		LogFormat:  config.DefaultLogFormat,
		Style:      config.DefaultStyle(),
	}
}

func runDraw(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := logging.FromContext(ctx)

	catalog, err := schema.Lookup(cfg.Schema)
	if err != nil {
		return err
	}
	g, err := graph.FromCatalog(catalog)
	if err != nil {
		return err
	}
	logger.Debug("graph built", "schema", catalog.Name,
		"tables", g.NodeCount(), "relationships", g.EdgeCount())

	seed := rand.Uint64()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	l, err := layout.Spring(g, layout.Options{
		Seed:       &seed,
		Iterations: cfg.Iterations,
		Spacing:    cfg.Spacing,
	})
	if err != nil {
		return err
	}
	logger.Debug("layout computed", "seed", seed, "iterations", cfg.Iterations, "spacing", cfg.Spacing)

	res, err := render.Render(ctx, g, l, styleFromConfig(cfg.Style, catalog.Title), render.Target{
		Path:     cfg.Output,
		Format:   cfg.Format,
		Display:  cfg.Display,
		Fallback: cfg.Fallback,
	})
	if err != nil {
		return err
	}

	if !res.Displayed {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d tables, %d relationships)\n", res.Path, res.Nodes, res.Edges)
	}
	return nil
}

func styleFromConfig(s config.StyleConfig, catalogTitle string) render.Style {
	title := s.Title
	if title == "" {
		title = catalogTitle
	}
	return render.Style{
		NodeColor:  s.NodeColor,
		NodeSize:   s.NodeSize,
		FontSize:   s.FontSize,
		FontWeight: s.FontWeight,
		EdgeColor:  s.EdgeColor,
		ArrowSize:  s.ArrowSize,
		Title:      title,
		FigureSize: render.FigureSize{Width: s.Width, Height: s.Height},
		DPI:        s.DPI,
	}
}
