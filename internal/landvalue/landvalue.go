// Package landvalue implements SPEC_FULL.md §4.6: decaying amenity-based
// land value, a two-step floating catchment service accessibility
// approximation, and per-district aggregate stats.
package landvalue

import "github.com/talgya/iso-citysim/internal/cityworld"

// Config enumerates the land-value pass's tunables.
type Config struct {
	Base              float64
	ParkBonus         float64
	ParkRadius        int
	PollutionPenalty  float64
	PollutionRadius   int
	WaterBonus        float64
	WaterRadius       int
	TrafficPenalty    float64
	NoRoadPenalty     float64
	DisconnectedPenalty float64
}

// Default returns the spec's default tuning.
func Default() Config {
	return Config{
		Base:                0.4,
		ParkBonus:           0.25,
		ParkRadius:          6,
		PollutionPenalty:    0.3,
		PollutionRadius:     5,
		WaterBonus:          0.15,
		WaterRadius:         4,
		TrafficPenalty:      0.2,
		NoRoadPenalty:       0.15,
		DisconnectedPenalty: 0.1,
	}
}

// Result carries the per-tile land value field plus its scalar average.
type Result struct {
	PerTileValue []float64 // [0,1], indexed by y*w+x
	Average      float64
}

// ComputeLandValue runs the full land-value pass of SPEC_FULL.md §4.6.
// trafficLoad is an optional per-tile [0,1]-normalized traffic congestion
// proxy (e.g. traffic.Result.PerTileFlow scaled by the caller); pass nil to
// omit the traffic term. roadToEdge marks which road tiles are
// edge-connected, used for the disconnected penalty.
func ComputeLandValue(w *cityworld.World, cfg Config, trafficLoad []float64, roadToEdge []bool) Result {
	n := w.Width * w.Height
	result := Result{PerTileValue: make([]float64, n)}

	parkDist := distanceTransform(w, cfg.ParkRadius, func(t cityworld.Tile) bool { return t.Overlay == cityworld.Park })
	industryDist := distanceTransform(w, cfg.PollutionRadius, func(t cityworld.Tile) bool { return t.Overlay == cityworld.Industrial })
	waterDist := distanceTransform(w, cfg.WaterRadius, func(t cityworld.Tile) bool { return t.Terrain == cityworld.Water })

	total := 0.0
	count := 0
	for idx, t := range w.Tiles {
		if t.Terrain == cityworld.Water {
			result.PerTileValue[idx] = 0
			continue
		}
		v := cfg.Base
		v += cfg.ParkBonus * linearDecay(parkDist[idx], cfg.ParkRadius)
		v -= cfg.PollutionPenalty * linearDecay(industryDist[idx], cfg.PollutionRadius)
		v += cfg.WaterBonus * linearDecay(waterDist[idx], cfg.WaterRadius)
		if trafficLoad != nil && idx < len(trafficLoad) {
			v -= cfg.TrafficPenalty * clamp01(trafficLoad[idx])
		}

		x, y := w.XY(idx)
		if !hasAdjacentRoad(w, x, y) {
			v -= cfg.NoRoadPenalty
		} else if roadToEdge != nil && !isConnectedNeighbor(w, roadToEdge, x, y) {
			v -= cfg.DisconnectedPenalty
		}

		v = clamp01(v)
		result.PerTileValue[idx] = v
		total += v
		count++
	}
	if count > 0 {
		result.Average = total / float64(count)
	}
	return result
}

// distanceTransform runs a multi-source BFS seeded at every tile matching
// isSource, capped at maxRadius; unreached tiles get distance -1.
func distanceTransform(w *cityworld.World, maxRadius int, isSource func(cityworld.Tile) bool) []int {
	n := w.Width * w.Height
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	queue := make([]int, 0, n/8+1)
	for idx, t := range w.Tiles {
		if isSource(t) {
			dist[idx] = 0
			queue = append(queue, idx)
		}
	}
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		if maxRadius >= 0 && dist[idx] >= maxRadius {
			continue
		}
		x, y := w.XY(idx)
		w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
			nidx := w.Idx(nx, ny)
			if dist[nidx] >= 0 {
				return
			}
			dist[nidx] = dist[idx] + 1
			queue = append(queue, nidx)
		})
	}
	return dist
}

// linearDecay maps a BFS distance (or -1 for unreached) to a [0,1] amenity
// strength that falls off linearly to 0 at radius.
func linearDecay(dist, radius int) float64 {
	if dist < 0 || radius <= 0 {
		return 0
	}
	if dist > radius {
		return 0
	}
	return 1 - float64(dist)/float64(radius)
}

func hasAdjacentRoad(w *cityworld.World, x, y int) bool {
	found := false
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		if w.At(nx, ny).Overlay == cityworld.Road {
			found = true
		}
	})
	return found
}

func isConnectedNeighbor(w *cityworld.World, roadToEdge []bool, x, y int) bool {
	found := false
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		if w.At(nx, ny).Overlay == cityworld.Road && roadToEdge[w.Idx(nx, ny)] {
			found = true
		}
	})
	return found
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
