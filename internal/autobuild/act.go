package autobuild

import (
	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/pathfind"
)

// placeZones applies tool cityworld.ToolZone* at each picked tile, in the
// given overlay kind, honoring cfg.MinMoneyReserve. Returns the count
// actually built.
func placeZones(w *cityworld.World, picks []int, zone cityworld.Overlay, cfg Config, opts cityworld.EditOptions) int {
	tool := zoneToolFor(zone)
	built := 0
	for _, idx := range picks {
		if w.Stats.Money-cityworld.ToolCost(tool) < cfg.MinMoneyReserve {
			break
		}
		x, y := w.XY(idx)
		if w.ApplyTool(tool, x, y, opts).Ok() {
			built++
		}
	}
	return built
}

// placeParks applies cityworld.ToolPark at each picked tile, honoring the
// money reserve.
func placeParks(w *cityworld.World, picks []int, cfg Config, opts cityworld.EditOptions) int {
	built := 0
	for _, idx := range picks {
		if w.Stats.Money-cityworld.ToolCost(cityworld.ToolPark) < cfg.MinMoneyReserve {
			break
		}
		x, y := w.XY(idx)
		if w.ApplyTool(cityworld.ToolPark, x, y, opts).Ok() {
			built++
		}
	}
	return built
}

// applyRoadUpgrades bumps each candidate's road class by one level via
// ApplyRoad, which is a money-free convenience wrapper (the bot tracks its
// own upgrade budget through RoadUpgradesPerDay rather than per-tile cost,
// mirroring how the generator places initial roads).
func applyRoadUpgrades(w *cityworld.World, cands []roadUpgradeCandidate) int {
	upgraded := 0
	for _, c := range cands {
		t := w.AtIdx(c.idx)
		next := cityworld.RoadClass(t.Level) + 1
		if next > cityworld.Highway {
			next = cityworld.Highway
		}
		x, y := w.XY(c.idx)
		if w.ApplyRoad(x, y, next, true).Ok() {
			upgraded++
		}
	}
	return upgraded
}

// ensureOutsideConnection checks whether any road on the map already
// touches the border; if not, it builds the cheapest road path from the
// first road tile in row-major order (obs.RoadTiles[0]) to that tile's
// closest border edge, using
// pathfind.FindRoadBuildPath under cfg's cost model. Reports whether a
// connection was built this call.
func ensureOutsideConnection(w *cityworld.World, obs Observation, cfg Config) bool {
	if obs.OutsideConnected || len(obs.RoadTiles) == 0 {
		return false
	}
	start := obs.RoadTiles[0]
	sx, sy := w.XY(start)
	goal := nearestEdgePoint(w, sx, sy)

	buildCfg := pathfind.DefaultBuildConfig()
	buildCfg.AllowBridges = cfg.AllowBridges
	if cfg.BuildCostModel == CostMoney {
		buildCfg.CostModel = pathfind.Money
	}

	path, _, ok := pathfind.FindRoadBuildPath(w, pathfind.Point{X: sx, Y: sy}, goal, buildCfg)
	if !ok {
		return false
	}
	built := false
	for _, p := range path {
		if w.ApplyRoad(p.X, p.Y, cityworld.Street, cfg.AllowBridges).Ok() {
			built = true
		}
	}
	return built
}

// nearestEdgePoint projects (x,y) onto whichever of the four map borders is
// closest, used to give ensureOutsideConnection a concrete Dijkstra goal.
func nearestEdgePoint(w *cityworld.World, x, y int) pathfind.Point {
	distLeft, distRight := x, w.Width-1-x
	distTop, distBottom := y, w.Height-1-y

	best := distLeft
	goal := pathfind.Point{X: 0, Y: y}
	if distRight < best {
		best = distRight
		goal = pathfind.Point{X: w.Width - 1, Y: y}
	}
	if distTop < best {
		best = distTop
		goal = pathfind.Point{X: x, Y: 0}
	}
	if distBottom < best {
		goal = pathfind.Point{X: x, Y: w.Height - 1}
	}
	return goal
}

// growRoadSpur extends a short dead-end road outward from (idx), one tile
// at a time toward whichever open 4-neighbor has the highest land value,
// up to cfg.MaxRoadSpurLength tiles. Returns the number of new road tiles
// placed.
func growRoadSpur(w *cityworld.World, obs Observation, startIdx int, cfg Config, opts cityworld.EditOptions) int {
	placed := 0
	cur := startIdx
	for step := 0; step < cfg.MaxRoadSpurLength; step++ {
		cx, cy := w.XY(cur)
		bestIdx, bestVal := -1, -1.0
		w.ForEachNeighbor4(cx, cy, func(nx, ny, _ int) {
			t := w.At(nx, ny)
			if t.Overlay != cityworld.None {
				return
			}
			if t.Terrain == cityworld.Water && !cfg.AllowBridges {
				return
			}
			nidx := w.Idx(nx, ny)
			v := 0.5
			if nidx < len(obs.LandValue) {
				v = obs.LandValue[nidx]
			}
			if v > bestVal {
				bestVal = v
				bestIdx = nidx
			}
		})
		if bestIdx < 0 {
			break
		}
		bx, by := w.XY(bestIdx)
		if !w.ApplyTool(cityworld.ToolRoad, bx, by, opts).Ok() {
			break
		}
		placed++
		cur = bestIdx
	}
	return placed
}
