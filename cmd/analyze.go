package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"masterclass/schemagraph/internal/db"
	"masterclass/schemagraph/internal/errs"
	"masterclass/schemagraph/internal/graph"
	"masterclass/schemagraph/internal/logging"
	"masterclass/schemagraph/internal/schema"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		asJSON       bool
		fromDB       string
		renderID     string
		tables       []string
		topN         int
		hubThreshold int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze schema structure: topology, bridges, creation order, health score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)

			if topN < 0 {
				return &errs.ConfigError{Field: "top_n", Value: topN, Reason: "must not be negative"}
			}
			if hubThreshold < 0 {
				return &errs.ConfigError{Field: "hub_threshold", Value: hubThreshold, Reason: "must not be negative"}
			}

			var (
				g   *graph.Graph
				err error
			)
			if fromDB != "" {
				g, err = loadArtifact(fromDB, renderID)
			} else {
				g, err = loadCatalog(cfg.Schema)
			}
			if err != nil {
				return err
			}
			if len(tables) > 0 {
				if g, err = restrict(g, tables); err != nil {
					return err
				}
			}
			logging.FromContext(ctx).Debug("analyzing graph",
				"tables", g.NodeCount(), "relationships", g.EdgeCount())

			report := graph.Analyze(g, &graph.AnalyzerConfig{
				HubThreshold: hubThreshold,
				TopN:         topN,
			})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printHumanReadable(out, report)
			return nil
		},
	}

	defaults := graph.DefaultConfig()
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&fromDB, "from", "", "Analyze a diagram stored in a .db artifact instead of a catalog")
	cmd.Flags().StringVar(&renderID, "render-id", "", "Render to load from --from (default: the latest)")
	cmd.Flags().StringSliceVar(&tables, "tables", nil, "Restrict the analysis to these tables and the references between them")
	cmd.Flags().IntVar(&topN, "top-n", defaults.TopN, "Number of top items to show per section")
	cmd.Flags().IntVar(&hubThreshold, "hub-threshold", defaults.HubThreshold, "Minimum degree to consider a table a hub")
	return cmd
}

func loadCatalog(name string) (*graph.Graph, error) {
	c, err := schema.Lookup(name)
	if err != nil {
		return nil, err
	}
	return graph.FromCatalog(c)
}

// restrict narrows g to the named tables, all of which must exist.
func restrict(g *graph.Graph, tables []string) (*graph.Graph, error) {
	for _, t := range tables {
		if !g.HasNode(t) {
			return nil, &errs.ConfigError{Field: "tables", Value: t, Reason: "unknown table"}
		}
	}
	return g.Subgraph(tables), nil
}

func loadArtifact(path, renderID string) (*graph.Graph, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("artifact not found: %w", err)
	}
	d, err := db.OpenDB(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	g, err := graph.FromDB(d, renderID)
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	return g, nil
}

// styles holds the terminal styles; all plain when not writing to a terminal.
type styles struct {
	heading lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		plain := lipgloss.NewStyle()
		return styles{heading: plain, good: plain, warn: plain, muted: plain}
	}
	return styles{
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		muted:   lipgloss.NewStyle().Faint(true),
	}
}

func printHumanReadable(w io.Writer, report *graph.AnalysisReport) {
	st := newStyles(w)

	// Health bar
	barLen := int(report.HealthScore * 20)
	if barLen > 20 {
		barLen = 20
	}
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	barStyle := st.good
	if report.HealthScore < 0.6 {
		barStyle = st.warn
	}
	fmt.Fprintf(w, "\n  Schema Health: %.0f%%  [%s]\n", report.HealthScore*100, barStyle.Render(bar))
	fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("  breakdown: connectivity=%.2f components=%.2f fragility=%.2f",
		report.HealthBreakdown.Connectivity,
		report.HealthBreakdown.Components,
		report.HealthBreakdown.Fragility)))
	fmt.Fprintln(w)

	// Topology
	t := report.Topology
	section(w, st, "TOPOLOGY")
	fmt.Fprintf(w, "  Tables: %d  Relationships: %d  Components: %d\n", t.TotalTables, t.TotalRelationships, t.NumComponents)
	fmt.Fprintf(w, "  Largest component: %d  Smallest: %d\n", t.LargestComponent, t.SmallestComponent)
	if t.IsolatedCount > 0 {
		fmt.Fprintf(w, "  Isolated: %d tables without references\n", t.IsolatedCount)
		for _, id := range t.IsolatedTables {
			fmt.Fprintf(w, "    - %s\n", id)
		}
		if t.IsolatedCount > len(t.IsolatedTables) {
			fmt.Fprintf(w, "    ... and %d more\n", t.IsolatedCount-len(t.IsolatedTables))
		}
	}
	if len(t.RootTables) > 0 {
		fmt.Fprintf(w, "  Root tables: %s\n", strings.Join(t.RootTables, ", "))
	}

	fmt.Fprintln(w, "\n  Degree distribution:")
	for _, b := range t.DegreeHistogram {
		if b.Count > 0 {
			barWidth := int(math.Log2(float64(b.Count))) + 2
			fmt.Fprintf(w, "    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
		}
	}

	if len(t.Hubs) > 0 {
		fmt.Fprintln(w, "\n  Top hubs (degree > threshold):")
		tw := newTable(w)
		tw.AppendHeader(table.Row{"Table", "Degree", "Referenced by", "References"})
		for _, hub := range t.Hubs {
			tw.AppendRow(table.Row{hub.Table, hub.Degree, hub.ReferencedBy, hub.References})
		}
		tw.Render()
	}

	// Creation order
	fmt.Fprintln(w)
	section(w, st, "CREATION ORDER")
	if report.Cycle != nil {
		fmt.Fprintln(w, st.warn.Render("  Reference cycle: "+strings.Join(report.Cycle, " -> ")))
	} else {
		tw := newTable(w)
		tw.AppendHeader(table.Row{"Level", "Tables"})
		for i, level := range report.Levels {
			tw.AppendRow(table.Row{i, strings.Join(level, ", ")})
		}
		tw.Render()
	}

	// Bridges
	br := report.Bridges
	if br.APCount > 0 || br.BridgeCount > 0 {
		fmt.Fprintln(w)
		section(w, st, "STRUCTURAL FRAGILITY")
		if br.APCount > 0 {
			fmt.Fprintf(w, "  %d articulation tables (removal disconnects the schema):\n", br.APCount)
			for _, ap := range br.ArticulationTables {
				fmt.Fprintf(w, "    %s (%d neighbors)\n", ap.Table, ap.Neighbors)
			}
		}
		if br.BridgeCount > 0 {
			fmt.Fprintf(w, "  %d bridge references (removal disconnects the schema):\n", br.BridgeCount)
			for _, be := range br.BridgeEdges {
				fmt.Fprintf(w, "    %s -> %s\n", be.Source, be.Target)
			}
		}
	}

	fmt.Fprintln(w)
}

func section(w io.Writer, st styles, title string) {
	fmt.Fprintln(w, st.heading.Render("  "+title))
	fmt.Fprintln(w, "  ────────────────────────────────────────")
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	return tw
}
