package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masterclass/schemagraph/internal/errs"
	"masterclass/schemagraph/internal/graph"
	"masterclass/schemagraph/internal/schema"
)

func seeded(seed uint64, opts Options) Options {
	opts.Seed = &seed
	return opts
}

func catalogGraph(t *testing.T, name string) *graph.Graph {
	t.Helper()
	c, err := schema.Lookup(name)
	require.NoError(t, err)
	g, err := graph.FromCatalog(c)
	require.NoError(t, err)
	return g
}

func maxAbs(l Layout) float64 {
	m := 0.0
	for _, p := range l {
		m = math.Max(m, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	return m
}

func TestSpring_Deterministic(t *testing.T) {
	g := catalogGraph(t, "nginx-full")

	first, err := Spring(g, seeded(42, DefaultOptions()))
	require.NoError(t, err)
	second, err := Spring(g, seeded(42, DefaultOptions()))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSpring_SeedChangesLayout(t *testing.T) {
	g := catalogGraph(t, "nginx")

	a, err := Spring(g, seeded(1, DefaultOptions()))
	require.NoError(t, err)
	b, err := Spring(g, seeded(2, DefaultOptions()))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSpring_CoversNodeSet(t *testing.T) {
	for _, name := range schema.Names() {
		t.Run(name, func(t *testing.T) {
			g := catalogGraph(t, name)
			l, err := Spring(g, seeded(7, DefaultOptions()))
			require.NoError(t, err)

			assert.Len(t, l, g.NodeCount())
			for _, id := range g.Nodes() {
				p, ok := l[id]
				require.True(t, ok, "missing position for %s", id)
				assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "NaN position for %s", id)
			}
		})
	}
}

func TestSpring_Rescaled(t *testing.T) {
	g := catalogGraph(t, "nginx")

	tests := []struct {
		name string
		opts Options
		want float64
	}{
		{"defaults", DefaultOptions(), 1},
		{"zero scale selects default", Options{Iterations: 50}, 1},
		{"custom scale", Options{Iterations: 50, Scale: 3.5}, 3.5},
		{"zero iterations", Options{Iterations: 0, Scale: 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Spring(g, seeded(3, tt.opts))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, maxAbs(l), 1e-9)

			var sumX, sumY float64
			for _, p := range l {
				sumX += p.X
				sumY += p.Y
			}
			assert.InDelta(t, 0, sumX, 1e-9)
			assert.InDelta(t, 0, sumY, 1e-9)
		})
	}
}

func TestSpring_ZeroIterationsIsInitialPlacement(t *testing.T) {
	g := catalogGraph(t, "nginx")

	noSteps, err := Spring(g, seeded(9, Options{Iterations: 0}))
	require.NoError(t, err)
	steps, err := Spring(g, seeded(9, Options{Iterations: 100}))
	require.NoError(t, err)

	assert.NotEqual(t, noSteps, steps)
}

func TestSpring_SmallGraphs(t *testing.T) {
	empty, err := graph.Build(nil, nil)
	require.NoError(t, err)
	l, err := Spring(empty, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, l)

	single, err := graph.Build([]string{"only"}, []graph.Edge{{Source: "only", Target: "only"}})
	require.NoError(t, err)
	l, err = Spring(single, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Layout{"only": {}}, l)
}

func TestSpring_InvalidOptions(t *testing.T) {
	g := catalogGraph(t, "nginx")

	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{"negative iterations", Options{Iterations: -1}, "iterations"},
		{"negative spacing", Options{Iterations: 1, Spacing: -0.5}, "spacing"},
		{"NaN spacing", Options{Iterations: 1, Spacing: math.NaN()}, "spacing"},
		{"negative scale", Options{Iterations: 1, Scale: -1}, "scale"},
		{"infinite scale", Options{Iterations: 1, Scale: math.Inf(1)}, "scale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Spring(g, tt.opts)
			var cfgErr *errs.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLayout_Bounds(t *testing.T) {
	l := Layout{
		"a": {X: -1, Y: 0.5},
		"b": {X: 0.25, Y: -0.75},
		"c": {X: 1, Y: 0},
	}
	lo, hi := l.Bounds()
	assert.Equal(t, Point{X: -1, Y: -0.75}, lo)
	assert.Equal(t, Point{X: 1, Y: 0.5}, hi)

	lo, hi = Layout{}.Bounds()
	assert.Equal(t, Point{}, lo)
	assert.Equal(t, Point{}, hi)
}
