package procgen

import (
	"math"
	"sort"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/pathfind"
)

// halton returns the index'th term of the Halton low-discrepancy sequence
// in the given prime base — used for deterministic, well-spread hub
// sampling (SPEC_FULL.md §4.1 step 5).
func halton(index, base int) float64 {
	f := 1.0
	r := 0.0
	i := index
	for i > 0 {
		f /= float64(base)
		r += f * float64(i%base)
		i /= base
	}
	return r
}

// placeHubs samples cfg.HubCount deterministic hub points on land via
// Halton(2,3) sequences, rejecting water tiles and points too close to an
// already-chosen hub (Bridson-style minimum-distance rejection).
func placeHubs(w *cityworld.World, cfg Config) []pathfind.Point {
	var hubs []pathfind.Point
	minDist := (w.Width + w.Height) / (2 * (cfg.HubCount + 1))
	if minDist < 2 {
		minDist = 2
	}

	for i, attempts := 1, 0; len(hubs) < cfg.HubCount && attempts < cfg.HubCount*200+200; i, attempts = i+1, attempts+1 {
		hx := halton(i, 2)
		hy := halton(i, 3)
		x := int(hx * float64(w.Width))
		y := int(hy * float64(w.Height))
		if x >= w.Width {
			x = w.Width - 1
		}
		if y >= w.Height {
			y = w.Height - 1
		}
		if w.At(x, y).Terrain == cityworld.Water {
			continue
		}
		tooClose := false
		for _, h := range hubs {
			if manhattanDist(h, pathfind.Point{X: x, Y: y}) < minDist {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		hubs = append(hubs, pathfind.Point{X: x, Y: y})
	}
	return hubs
}

func manhattanDist(a, b pathfind.Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// edge is one candidate hub-to-hub connection.
type edge struct {
	a, b int // indices into the hubs slice
	dist int
}

// buildRoadSkeleton runs step 5: connect hubs with an MST plus
// cfg.ExtraConnections extra edges, materializing each edge into road
// tiles via FindLandPathAStar (water blocked unless AllowBridges). The
// layout mode, when not Organic, overrides this with a structured pattern.
func buildRoadSkeleton(w *cityworld.World, hubs []pathfind.Point, cfg Config) {
	switch cfg.RoadLayoutKind {
	case Grid:
		buildGridLayout(w, cfg)
		return
	case Radial:
		buildRadialLayout(w, hubs, cfg)
		return
	case SpaceColonization:
		buildSpaceColonizationLayout(w, hubs, cfg)
		return
	default:
		buildOrganicSkeleton(w, hubs, cfg)
	}
}

func buildOrganicSkeleton(w *cityworld.World, hubs []pathfind.Point, cfg Config) {
	if len(hubs) < 2 {
		if len(hubs) == 1 {
			w.ApplyRoad(hubs[0].X, hubs[0].Y, cityworld.Street, cfg.AllowBridges)
		}
		return
	}

	var edges []edge
	for i := 0; i < len(hubs); i++ {
		for j := i + 1; j < len(hubs); j++ {
			edges = append(edges, edge{a: i, b: j, dist: manhattanDist(hubs[i], hubs[j])})
		}
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].dist < edges[j].dist })

	// Prim/Kruskal-style MST via union-find.
	parent := make([]int, len(hubs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	var chosen []edge
	for _, e := range edges {
		ra, rb := find(e.a), find(e.b)
		if ra != rb {
			parent[ra] = rb
			chosen = append(chosen, e)
		}
	}

	// Extra connections: next-cheapest edges not already in the MST.
	used := make(map[[2]int]bool)
	for _, e := range chosen {
		used[[2]int{e.a, e.b}] = true
	}
	extra := 0
	for _, e := range edges {
		if extra >= cfg.ExtraConnections {
			break
		}
		if used[[2]int{e.a, e.b}] {
			continue
		}
		chosen = append(chosen, e)
		extra++
	}

	for _, e := range chosen {
		materializeEdge(w, hubs[e.a], hubs[e.b], cfg)
	}
}

// materializeEdge finds a land (or bridged) path between two points and
// stamps it into road tiles.
func materializeEdge(w *cityworld.World, a, b pathfind.Point, cfg Config) {
	path, _, ok := pathfind.FindLandPathAStar(w, a, b, cfg.AllowBridges)
	if !ok {
		return
	}
	for _, p := range path {
		w.ApplyRoad(p.X, p.Y, cityworld.Street, cfg.AllowBridges)
	}
}

// buildGridLayout lays an axis-aligned lattice on land tiles, spaced every
// 6 tiles, as an alternative to the organic hub skeleton.
func buildGridLayout(w *cityworld.World, cfg Config) {
	const spacing = 6
	for y := 0; y < w.Height; y += spacing {
		for x := 0; x < w.Width; x++ {
			if w.At(x, y).Terrain != cityworld.Water {
				w.ApplyRoad(x, y, cityworld.Street, cfg.AllowBridges)
			}
		}
	}
	for x := 0; x < w.Width; x += spacing {
		for y := 0; y < w.Height; y++ {
			if w.At(x, y).Terrain != cityworld.Water {
				w.ApplyRoad(x, y, cityworld.Street, cfg.AllowBridges)
			}
		}
	}
}

// buildRadialLayout lays concentric rings plus spokes radiating from the
// map center (or the first hub, if any).
func buildRadialLayout(w *cityworld.World, hubs []pathfind.Point, cfg Config) {
	cx, cy := w.Width/2, w.Height/2
	if len(hubs) > 0 {
		cx, cy = hubs[0].X, hubs[0].Y
	}
	maxR := w.Width
	if w.Height > maxR {
		maxR = w.Height
	}
	const ringSpacing = 5
	const spokes = 8

	for r := ringSpacing; r < maxR; r += ringSpacing {
		stampCircle(w, cx, cy, r, cfg)
	}
	for s := 0; s < spokes; s++ {
		angle := 2 * math.Pi * float64(s) / float64(spokes)
		stampSpoke(w, cx, cy, angle, maxR, cfg)
	}
}

func stampCircle(w *cityworld.World, cx, cy, r int, cfg Config) {
	steps := r * 8
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(float64(r)*math.Cos(angle))
		y := cy + int(float64(r)*math.Sin(angle))
		if w.InBounds(x, y) && w.At(x, y).Terrain != cityworld.Water {
			w.ApplyRoad(x, y, cityworld.Street, cfg.AllowBridges)
		}
	}
}

func stampSpoke(w *cityworld.World, cx, cy int, angle float64, maxR int, cfg Config) {
	for r := 0; r < maxR; r++ {
		x := cx + int(float64(r)*math.Cos(angle))
		y := cy + int(float64(r)*math.Sin(angle))
		if w.InBounds(x, y) && w.At(x, y).Terrain != cityworld.Water {
			w.ApplyRoad(x, y, cityworld.Street, cfg.AllowBridges)
		}
	}
}

// buildSpaceColonizationLayout grows road branches from each hub toward
// deterministically sampled attractor tiles, a simplified stand-in for the
// full space-colonization algorithm: attractors are chosen by terrain
// curvature (local height variance), and each hub connects to its nearest
// unclaimed attractor via FindLandPathAStar, iterated until attractors run
// out or every hub has grown maxBranches times.
func buildSpaceColonizationLayout(w *cityworld.World, hubs []pathfind.Point, cfg Config) {
	if len(hubs) == 0 {
		return
	}
	attractors := sampleAttractors(w, cfg, 24)
	claimed := make([]bool, len(attractors))

	const maxBranches = 3
	for _, hub := range hubs {
		for b := 0; b < maxBranches; b++ {
			best := -1
			bestDist := 1 << 30
			for i, a := range attractors {
				if claimed[i] {
					continue
				}
				d := manhattanDist(hub, a)
				if d < bestDist {
					bestDist = d
					best = i
				}
			}
			if best < 0 {
				break
			}
			claimed[best] = true
			materializeEdge(w, hub, attractors[best], cfg)
		}
	}
	// Tie hubs themselves together so the skeleton stays connected.
	buildOrganicSkeleton(w, hubs, cfg)
}

// sampleAttractors picks n deterministic candidate points ranked by local
// height variance (a cheap proxy for "terrain curvature").
func sampleAttractors(w *cityworld.World, cfg Config, n int) []pathfind.Point {
	type scored struct {
		p        pathfind.Point
		variance float64
	}
	var candidates []scored
	step := (w.Width + w.Height) / 20
	if step < 3 {
		step = 3
	}
	for y := step / 2; y < w.Height; y += step {
		for x := step / 2; x < w.Width; x += step {
			if w.At(x, y).Terrain == cityworld.Water {
				continue
			}
			candidates = append(candidates, scored{p: pathfind.Point{X: x, Y: y}, variance: localVariance(w, x, y)})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].variance > candidates[j].variance })
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]pathfind.Point, len(candidates))
	for i, c := range candidates {
		out[i] = c.p
	}
	return out
}

func localVariance(w *cityworld.World, x, y int) float64 {
	sum, sumSq, count := 0.0, 0.0, 0.0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if !w.InBounds(nx, ny) {
				continue
			}
			h := float64(w.At(nx, ny).Height)
			sum += h
			sumSq += h * h
			count++
		}
	}
	if count == 0 {
		return 0
	}
	mean := sum / count
	return sumSq/count - mean*mean
}

// upgradeRoadHierarchy runs the final clause of step 5: a betweenness-like
// pass upgrades high-traffic arteries. We approximate betweenness by
// running FindRoadPathAStar over the finished road network for every pair
// of hubs and counting how many of those paths cross each road tile, then
// promoting the busiest tiles' road class proportional to
// cfg.RoadHierarchyStrength.
func upgradeRoadHierarchy(w *cityworld.World, hubs []pathfind.Point, cfg Config) {
	if !cfg.RoadHierarchyEnabled || len(hubs) < 2 {
		return
	}
	traffic := make(map[int]int)
	for i := 0; i < len(hubs); i++ {
		for j := i + 1; j < len(hubs); j++ {
			path, _, ok := pathfind.FindRoadPathAStar(w, hubs[i], hubs[j])
			if !ok {
				continue
			}
			for _, p := range path {
				traffic[w.Idx(p.X, p.Y)]++
			}
		}
	}
	if len(traffic) == 0 {
		return
	}

	type scored struct {
		idx   int
		count int
	}
	ranked := make([]scored, 0, len(traffic))
	for idx, c := range traffic {
		ranked = append(ranked, scored{idx, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].idx < ranked[j].idx
	})

	topAvenue := int(float64(len(ranked)) * 0.2 * cfg.RoadHierarchyStrength)
	topHighway := int(float64(len(ranked)) * 0.05 * cfg.RoadHierarchyStrength)
	for i, r := range ranked {
		t := w.AtIdx(r.idx)
		if t.Overlay != cityworld.Road {
			continue
		}
		switch {
		case i < topHighway:
			t.Level = uint8(cityworld.Highway)
		case i < topAvenue:
			t.Level = uint8(cityworld.Avenue)
		default:
			continue
		}
		w.SetIdx(r.idx, t)
	}
}
