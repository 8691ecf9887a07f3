// Package layout computes 2-D positions for the tables of a schema graph.
package layout

import (
	"math"
	"math/rand/v2"

	"masterclass/schemagraph/internal/errs"
	"masterclass/schemagraph/internal/graph"
)

// Point is a position in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout maps every table of a graph to its position.
type Layout map[string]Point

// Options controls the spring layout.
type Options struct {
	// Seed makes the layout reproducible. Nil draws a fresh seed.
	Seed *uint64
	// Iterations is the fixed number of simulation steps.
	Iterations int
	// Spacing is the ideal distance between tables (k). Zero selects 1/sqrt(n).
	Spacing float64
	// Scale is the largest absolute coordinate after rescaling. Zero selects 1.
	Scale float64
}

// DefaultOptions returns the stock diagram parameters.
func DefaultOptions() Options {
	return Options{
		Iterations: 100,
		Spacing:    1.2,
		Scale:      1,
	}
}

const minDistance = 0.01

// Spring places the tables of g with the Fruchterman-Reingold force model:
// every pair repels with k²/d, every relationship attracts with d²/k, and each
// step is capped by a temperature that cools linearly to zero.
func Spring(g *graph.Graph, opts Options) (Layout, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	nodes := g.Nodes()
	n := len(nodes)
	result := make(Layout, n)
	if n == 0 {
		return result, nil
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	k := opts.Spacing
	if k == 0 {
		k = 1 / math.Sqrt(float64(n))
	}

	var seed uint64
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	pos := make([]Point, n)
	for i := range pos {
		pos[i] = Point{X: rng.Float64(), Y: rng.Float64()}
	}

	adjacent := adjacency(g, n)
	simulate(pos, adjacent, k, opts.Iterations)
	rescale(pos, scale)

	for i, id := range nodes {
		result[id] = pos[i]
	}
	return result, nil
}

func (o Options) validate() error {
	if o.Iterations < 0 {
		return &errs.ConfigError{Field: "iterations", Value: o.Iterations, Reason: "must not be negative"}
	}
	if o.Spacing < 0 || math.IsNaN(o.Spacing) || math.IsInf(o.Spacing, 0) {
		return &errs.ConfigError{Field: "spacing", Value: o.Spacing, Reason: "must be a finite non-negative number"}
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return &errs.ConfigError{Field: "scale", Value: o.Scale, Reason: "must be a finite positive number"}
	}
	return nil
}

// adjacency returns the undirected relationship matrix indexed by node
// position. Self-references exert no force and are left out.
func adjacency(g *graph.Graph, n int) [][]bool {
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for _, e := range g.Edges() {
		u, v := g.Index(e.Source), g.Index(e.Target)
		if u == v {
			continue
		}
		adj[u][v] = true
		adj[v][u] = true
	}
	return adj
}

func simulate(pos []Point, adj [][]bool, k float64, iterations int) {
	if iterations == 0 || len(pos) < 2 {
		return
	}

	minP, maxP := bounds(pos)
	t := 0.1 * math.Max(maxP.X-minP.X, maxP.Y-minP.Y)
	dt := t / float64(iterations+1)

	disp := make([]Point, len(pos))
	for iter := 0; iter < iterations; iter++ {
		for i := range disp {
			disp[i] = Point{}
		}

		for i := range pos {
			for j := range pos {
				if i == j {
					continue
				}
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				d := math.Max(math.Hypot(dx, dy), minDistance)

				// Force along the unit vector (dx/d, dy/d).
				force := k * k / d
				if adj[i][j] {
					force -= d * d / k
				}
				disp[i].X += dx / d * force
				disp[i].Y += dy / d * force
			}
		}

		for i := range pos {
			length := math.Max(math.Hypot(disp[i].X, disp[i].Y), minDistance)
			step := math.Min(length, t)
			pos[i].X += disp[i].X / length * step
			pos[i].Y += disp[i].Y / length * step
		}
		t -= dt
	}
}

// rescale centres pos on the origin and stretches it so the largest absolute
// coordinate equals scale.
func rescale(pos []Point, scale float64) {
	var mean Point
	for _, p := range pos {
		mean.X += p.X
		mean.Y += p.Y
	}
	mean.X /= float64(len(pos))
	mean.Y /= float64(len(pos))

	lim := 0.0
	for i := range pos {
		pos[i].X -= mean.X
		pos[i].Y -= mean.Y
		lim = math.Max(lim, math.Max(math.Abs(pos[i].X), math.Abs(pos[i].Y)))
	}
	if lim == 0 {
		return
	}
	for i := range pos {
		pos[i].X *= scale / lim
		pos[i].Y *= scale / lim
	}
}

func bounds(pos []Point) (Point, Point) {
	minP := Point{X: math.Inf(1), Y: math.Inf(1)}
	maxP := Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range pos {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	return minP, maxP
}

// Bounds returns the lower-left and upper-right corners of the layout.
// An empty layout yields two zero points.
func (l Layout) Bounds() (Point, Point) {
	if len(l) == 0 {
		return Point{}, Point{}
	}
	pos := make([]Point, 0, len(l))
	for _, p := range l {
		pos = append(pos, p)
	}
	return bounds(pos)
}
