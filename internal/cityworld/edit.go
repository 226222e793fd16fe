package cityworld

// ToolKind enumerates the placeable tools applyTool understands.
type ToolKind uint8

const (
	ToolRoad ToolKind = iota
	ToolZoneResidential
	ToolZoneCommercial
	ToolZoneIndustrial
	ToolPark
	ToolSchool
	ToolHospital
	ToolPolice
	ToolFire
	ToolBulldoze
)

// overlay maps a zoning/civic tool to the overlay it places. Road and
// Bulldoze are handled specially by applyTool.
func (t ToolKind) overlay() Overlay {
	switch t {
	case ToolZoneResidential:
		return Residential
	case ToolZoneCommercial:
		return Commercial
	case ToolZoneIndustrial:
		return Industrial
	case ToolPark:
		return Park
	case ToolSchool:
		return School
	case ToolHospital:
		return Hospital
	case ToolPolice:
		return PoliceStation
	case ToolFire:
		return FireStation
	default:
		return None
	}
}

// ToolCost returns the one-time money cost of placing a tool at level 1,
// used by applyTool's InsufficientFunds check.
func ToolCost(t ToolKind) int64 {
	switch t {
	case ToolRoad:
		return 10
	case ToolZoneResidential, ToolZoneCommercial, ToolZoneIndustrial:
		return 5
	case ToolPark:
		return 15
	case ToolSchool:
		return 500
	case ToolHospital:
		return 800
	case ToolPolice, ToolFire:
		return 400
	case ToolBulldoze:
		return 2
	default:
		return 0
	}
}

// EditOptions holds ApplyTool's placement rules. AllowBridges controls
// whether ApplyTool's road tool may place a road on Water (invariant 1's
// carve-out); ApplyRoad takes its own allowBridges argument instead.
type EditOptions struct {
	AllowBridges bool
	RequireRoadAdjacency bool // invariant 2: zone/civic tiles require an adjacent road
}

// DefaultEditOptions mirrors the spec's default placement rules.
func DefaultEditOptions() EditOptions {
	return EditOptions{AllowBridges: false, RequireRoadAdjacency: true}
}

// hasAdjacentRoad reports whether any 4-neighbor of (x,y) is a Road tile.
func (w *World) hasAdjacentRoad(x, y int) bool {
	found := false
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		if w.At(nx, ny).Overlay == Road {
			found = true
		}
	})
	return found
}

// ApplyTool attempts to place tool at (x,y), enforcing invariants 1 and 2
// and the InsufficientFunds business rule. It never panics or returns a Go
// error for a refused placement — refusals are a ToolApplyResult value
// (SPEC_FULL.md §7).
func (w *World) ApplyTool(tool ToolKind, x, y int, opts EditOptions) ToolApplyResult {
	if !w.InBounds(x, y) {
		return OutOfBounds
	}
	cur := w.At(x, y)
	cost := ToolCost(tool)
	if w.Stats.Money < cost {
		return InsufficientFunds
	}

	if tool == ToolBulldoze {
		if cur.Overlay == None {
			return Noop
		}
		w.Stats.Money -= cost
		w.clearTile(x, y)
		w.updateRoadMaskAround(x, y)
		return Applied
	}

	if tool == ToolRoad {
		if cur.Terrain == Water && !opts.AllowBridges {
			return BlockedWater
		}
		if cur.Overlay == Road {
			return Noop
		}
		if cur.Overlay != None {
			return BlockedOccupied
		}
		w.Stats.Money -= cost
		w.Set(x, y, Tile{Terrain: cur.Terrain, Overlay: Road, Height: cur.Height, Level: uint8(Street), District: cur.District})
		w.updateRoadMaskAround(x, y)
		return Applied
	}

	// Zones and civic buildings.
	if cur.Terrain == Water {
		return BlockedWater
	}
	if cur.Overlay != None {
		return BlockedOccupied
	}
	if opts.RequireRoadAdjacency && !w.hasAdjacentRoad(x, y) {
		return BlockedNoRoad
	}
	w.Stats.Money -= cost
	o := tool.overlay()
	w.Set(x, y, Tile{Terrain: cur.Terrain, Overlay: o, Height: cur.Height, Level: 1, District: cur.District})
	return Applied
}

// clearTile resets a tile's overlay back to None, preserving terrain/height/district.
func (w *World) clearTile(x, y int) {
	t := w.At(x, y)
	w.Set(x, y, Tile{Terrain: t.Terrain, Height: t.Height, District: t.District})
}

// ApplyRoad is a thin convenience wrapper used by the generator and
// auto-build bot: place a road of the given class, bypassing the money
// check (generation and bot placement track their own budgets).
func (w *World) ApplyRoad(x, y int, class RoadClass, allowBridges bool) ToolApplyResult {
	if !w.InBounds(x, y) {
		return OutOfBounds
	}
	cur := w.At(x, y)
	if cur.Terrain == Water && !allowBridges {
		return BlockedWater
	}
	if cur.Overlay == Road {
		if cur.Level != uint8(class) {
			cur.Level = uint8(class)
			w.Set(x, y, cur)
		}
		return Applied
	}
	if cur.Overlay != None {
		return BlockedOccupied
	}
	w.Set(x, y, Tile{Terrain: cur.Terrain, Overlay: Road, Height: cur.Height, Level: uint8(class), District: cur.District})
	w.updateRoadMaskAround(x, y)
	return Applied
}

// ApplyDistrict assigns an administrative district id directly; districting
// is an admin operation with no road-adjacency or terrain restriction.
func (w *World) ApplyDistrict(x, y int, district uint8) ToolApplyResult {
	if !w.InBounds(x, y) {
		return OutOfBounds
	}
	if district > 7 {
		return OutOfBounds
	}
	t := w.At(x, y)
	if t.District == district {
		return Noop
	}
	t.District = district
	w.Set(x, y, t)
	return Applied
}

// FillRect applies tool to every tile in the inclusive rectangle
// [x0,y0]-[x1,y1], clipped to the grid. Returns the count of tiles actually
// changed. Used by bulk editing and blueprint stamping.
func (w *World) FillRect(tool ToolKind, x0, y0, x1, y1 int, opts EditOptions) int {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	applied := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if w.ApplyTool(tool, x, y, opts).Ok() {
				applied++
			}
		}
	}
	if tool == ToolRoad {
		w.RecomputeRoadMasks()
	}
	return applied
}

// FloodFill applies tool to every tile reachable from (x,y) via 4-adjacency
// that shares (x,y)'s terrain, up to maxTiles. Used by bulk "zone this
// peninsula" style edits.
func (w *World) FloodFill(tool ToolKind, x, y, maxTiles int, opts EditOptions) int {
	if !w.InBounds(x, y) {
		return 0
	}
	wantTerrain := w.At(x, y).Terrain
	visited := make(map[int]bool)
	queue := []int{w.Idx(x, y)}
	visited[queue[0]] = true
	applied := 0
	for len(queue) > 0 && applied < maxTiles {
		idx := queue[0]
		queue = queue[1:]
		tx, ty := w.XY(idx)
		if w.At(tx, ty).Terrain == wantTerrain {
			if w.ApplyTool(tool, tx, ty, opts).Ok() {
				applied++
			}
		}
		w.ForEachNeighbor4(tx, ty, func(nx, ny, _ int) {
			nidx := w.Idx(nx, ny)
			if !visited[nidx] && w.At(nx, ny).Terrain == wantTerrain {
				visited[nidx] = true
				queue = append(queue, nidx)
			}
		})
	}
	if tool == ToolRoad {
		w.RecomputeRoadMasks()
	}
	return applied
}
