package pathfind

import (
	"container/heap"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

// BuildCostModel selects how FindRoadBuildPath prices each tile it would
// need to convert into road.
type BuildCostModel uint8

const (
	// NewTiles charges 1 per non-road tile and 0 per existing road.
	NewTiles BuildCostModel = iota
	// Money uses roadCostAt(level) minus a refund for existing road tiles.
	Money
)

// BuildConfig parameterizes FindRoadBuildPath's cost model.
type BuildConfig struct {
	CostModel          BuildCostModel
	TargetLevel        uint8
	RoadCostAt         func(level uint8) float64 // used when CostModel == Money
	ExistingRoadRefund float64
	AllowBridges       bool
	BridgeCostPerLevel float64
}

// DefaultBuildConfig returns sane defaults for the NewTiles cost model.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		CostModel:          NewTiles,
		TargetLevel:        1,
		RoadCostAt:         func(level uint8) float64 { return float64(level) * 50 },
		ExistingRoadRefund: 20,
		AllowBridges:       false,
		BridgeCostPerLevel: 100,
	}
}

// tileBuildCost prices entering (x,y) as a new or upgraded road tile under cfg.
func tileBuildCost(w *cityworld.World, x, y int, cfg BuildConfig) (float64, bool) {
	t := w.At(x, y)
	if t.Terrain == cityworld.Water {
		if !cfg.AllowBridges {
			return 0, false
		}
		return cfg.BridgeCostPerLevel * float64(cfg.TargetLevel), true
	}
	if t.Overlay == cityworld.Road {
		switch cfg.CostModel {
		case Money:
			cost := cfg.RoadCostAt(cfg.TargetLevel) - cfg.ExistingRoadRefund
			if cost < 0 {
				cost = 0
			}
			return cost, true
		default:
			return 0, true
		}
	}
	if t.Overlay != cityworld.None {
		return 0, false // cannot build over an existing zone/civic tile
	}
	switch cfg.CostModel {
	case Money:
		return cfg.RoadCostAt(cfg.TargetLevel), true
	default:
		return 1, true
	}
}

// FindRoadBuildPath finds the cheapest path to turn into road between start
// and goal under cfg's cost model, via Dijkstra (edge weights are
// non-negative tile-entry costs, so Dijkstra suffices — no heuristic is
// admissible across cost models, unlike the A* finders above).
func FindRoadBuildPath(w *cityworld.World, start, goal Point, cfg BuildConfig) ([]Point, float64, bool) {
	if !w.InBounds(start.X, start.Y) || !w.InBounds(goal.X, goal.Y) {
		return nil, 0, false
	}
	n := w.Width * w.Height
	dist := make([]float64, n)
	visited := make([]bool, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
		dist[i] = -1
	}

	startIdx := w.Idx(start.X, start.Y)
	goalIdx := w.Idx(goal.X, goal.Y)
	dist[startIdx] = 0

	pq := &priorityQueue{{idx: startIdx, priority: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if visited[cur.idx] {
			continue
		}
		visited[cur.idx] = true
		if cur.idx == goalIdx {
			return reconstructPath(w, prev, cur.idx), dist[cur.idx], true
		}

		x, y := w.XY(cur.idx)
		w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
			nidx := w.Idx(nx, ny)
			if visited[nidx] {
				return
			}
			step, ok := tileBuildCost(w, nx, ny, cfg)
			if !ok {
				return
			}
			tentative := dist[cur.idx] + step
			if dist[nidx] < 0 || tentative < dist[nidx] {
				dist[nidx] = tentative
				prev[nidx] = cur.idx
				heap.Push(pq, pqItem{idx: nidx, priority: tentative})
			}
		})
	}
	return nil, 0, false
}
