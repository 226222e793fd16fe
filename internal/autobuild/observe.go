package autobuild

import (
	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/pathfind"
	"github.com/talgya/iso-citysim/internal/simulate"
	"github.com/talgya/iso-citysim/internal/traffic"
)

// Observation is everything decide.go needs to rank a day's candidates,
// gathered once per day so scoring never re-walks the grid per candidate.
type Observation struct {
	RoadToEdge      []bool
	LandValue       []float64
	Congestion      []float64 // per-tile flow, normalized
	OutsideConnected bool

	EmptyBuildable []int // tile idx: Overlay == None, terrain != Water, has adjacent road
	RoadTiles      []int // tile idx: Overlay == Road
	Frontier       []int // road tiles with at least one None-overlay, non-Water neighbor
}

// Observe scans w once and buckets tiles for decide.go's ranking passes.
// The land-value and congestion fields are recomputed directly rather than
// read off simulate.State, since autobuild runs its placement pass before
// that day's StepOnce and wants a fresh read of the world it is about to
// edit.
func Observe(w *cityworld.World, simCfg simulate.Config) Observation {
	obs := Observation{}
	obs.RoadToEdge = pathfind.ComputeRoadsConnectedToEdge(w)

	trafficResult := traffic.ComputeCommuteTraffic(w, traffic.Default(), simCfg.EmployedShare, obs.RoadToEdge)
	obs.Congestion = normalizeFlow(trafficResult.PerTileFlow)

	lv := landValueField(w, obs.Congestion, obs.RoadToEdge)
	obs.LandValue = lv

	for idx, t := range w.Tiles {
		x, y := w.XY(idx)
		switch {
		case t.Overlay == cityworld.Road:
			obs.RoadTiles = append(obs.RoadTiles, idx)
			if obs.RoadToEdge[idx] {
				obs.OutsideConnected = true
			}
			if hasOpenNeighbor(w, x, y) {
				obs.Frontier = append(obs.Frontier, idx)
			}
		case t.Overlay == cityworld.None && t.Terrain != cityworld.Water:
			if hasAdjacentRoad(w, x, y) {
				obs.EmptyBuildable = append(obs.EmptyBuildable, idx)
			}
		}
	}
	return obs
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

func hasOpenNeighbor(w *cityworld.World, x, y int) bool {
	found := false
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		t := w.At(nx, ny)
		if t.Overlay == cityworld.None && t.Terrain != cityworld.Water {
			found = true
		}
	})
	return found
}

func normalizeFlow(flow []float64) []float64 {
	out := make([]float64, len(flow))
	max := 0.0
	for _, v := range flow {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return out
	}
	for i, v := range flow {
		out[i] = v / max
	}
	return out
}

// landValueField runs a lightweight inline approximation rather than
// importing landvalue.ComputeLandValue's full amenity pass, since autobuild
// only needs a relative ranking signal for this tick, not the authoritative
// Stats.AvgLandValue (that is still produced by simulate.StepOnce itself).
func landValueField(w *cityworld.World, congestion []float64, roadToEdge []bool) []float64 {
	n := w.Width * w.Height
	out := make([]float64, n)
	for idx, t := range w.Tiles {
		if t.Terrain == cityworld.Water {
			continue
		}
		v := 0.5
		if idx < len(congestion) {
			v -= 0.3 * congestion[idx]
		}
		x, y := w.XY(idx)
		if !hasAdjacentRoad(w, x, y) {
			v -= 0.2
		} else if roadToEdge != nil {
			connected := false
			w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
				if w.At(nx, ny).Overlay == cityworld.Road && roadToEdge[w.Idx(nx, ny)] {
					connected = true
				}
			})
			if !connected {
				v -= 0.1
			}
		}
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		out[idx] = v
	}
	return out
}
