package cityworld

// World is a width x height grid of Tiles stored row-major, plus the seed
// it was generated from and the current Stats. A World exclusively owns its
// tiles; every analysis pass treats it as an immutable value.
type World struct {
	Width, Height int
	SeedValue     uint64
	Tiles         []Tile
	Stats         Stats
}

// NewWorld allocates an empty (all-Water, zero-height) world of the given
// dimensions. Used by the generator as its starting canvas and by save
// loading to build the baseline for delta reconstruction.
func NewWorld(width, height int, seed uint64) *World {
	return &World{
		Width:     width,
		Height:    height,
		SeedValue: seed,
		Tiles:     make([]Tile, width*height),
	}
}

// Seed returns the world's originating seed.
func (w *World) Seed() uint64 { return w.SeedValue }

// Idx converts grid coordinates to a flat row-major tile index.
func (w *World) Idx(x, y int) int { return y*w.Width + x }

// InBounds reports whether (x,y) lies within the grid.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.Width && y < w.Height
}

// At returns the tile at (x,y). Callers must check InBounds first; At on an
// out-of-bounds coordinate panics like any slice index, by design — this
// mirrors flat-array access throughout the engine (SPEC_FULL.md §9).
func (w *World) At(x, y int) Tile {
	return w.Tiles[w.Idx(x, y)]
}

// AtIdx returns the tile at a flat index.
func (w *World) AtIdx(idx int) Tile {
	return w.Tiles[idx]
}

// Set writes a tile at (x,y).
func (w *World) Set(x, y int, t Tile) {
	w.Tiles[w.Idx(x, y)] = t
}

// SetIdx writes a tile at a flat index.
func (w *World) SetIdx(idx int, t Tile) {
	w.Tiles[idx] = t
}

// XY converts a flat index back to grid coordinates.
func (w *World) XY(idx int) (x, y int) {
	return idx % w.Width, idx / w.Width
}

// Clone returns a deep copy of the world (tiles are copied; Stats is a
// value type and copies automatically).
func (w *World) Clone() *World {
	cp := &World{
		Width:     w.Width,
		Height:    w.Height,
		SeedValue: w.SeedValue,
		Stats:     w.Stats,
		Tiles:     make([]Tile, len(w.Tiles)),
	}
	copy(cp.Tiles, w.Tiles)
	return cp
}

// Neighbor4 offsets in fixed N, E, S, W tie-break order
// (SPEC_FULL.md §4.3: all neighbor expansion uses this order).
var Neighbor4 = [4][2]int{
	{0, -1}, // N
	{1, 0},  // E
	{0, 1},  // S
	{-1, 0}, // W
}

// ForEachNeighbor4 invokes fn for each in-bounds 4-neighbor of (x,y), in
// fixed N, E, S, W order.
func (w *World) ForEachNeighbor4(x, y int, fn func(nx, ny, dir int)) {
	for dir, d := range Neighbor4 {
		nx, ny := x+d[0], y+d[1]
		if w.InBounds(nx, ny) {
			fn(nx, ny, dir)
		}
	}
}

// IsBorder reports whether (x,y) lies on the map's outer edge.
func (w *World) IsBorder(x, y int) bool {
	return x == 0 || y == 0 || x == w.Width-1 || y == w.Height-1
}

// RecomputeRoadMasks recomputes every road tile's connection mask from
// actual 4-neighbor adjacency. Called after generation, after a full save
// load, and after bulk edits — per SPEC_FULL.md §9's open question, a
// narrower per-tile update is used for single-tile edits (see
// updateRoadMaskAround in edit.go); both paths must agree, which is
// exercised by a property test.
func (w *World) RecomputeRoadMasks() {
	for idx := range w.Tiles {
		if w.Tiles[idx].Overlay != Road {
			continue
		}
		x, y := w.XY(idx)
		mask := w.computeRoadMask(x, y)
		w.Tiles[idx] = w.Tiles[idx].withRoadMask(mask)
	}
}

// computeRoadMask inspects the 4 neighbors of (x,y) and returns the bitmask
// of which are also road tiles.
func (w *World) computeRoadMask(x, y int) uint8 {
	var mask uint8
	bits := [4]uint8{MaskNorth, MaskEast, MaskSouth, MaskWest}
	w.ForEachNeighbor4(x, y, func(nx, ny, dir int) {
		if w.At(nx, ny).Overlay == Road {
			mask |= bits[dir]
		}
	})
	return mask
}

// updateRoadMaskAround recomputes the road mask for (x,y) and each
// in-bounds neighbor of (x,y) that is a road (a road neighbor needs its own
// mask bit toward (x,y) refreshed too); non-road tiles are left as they
// are. This
// is the narrow, single-tile-edit path called by applyRoad/applyTool.
func (w *World) updateRoadMaskAround(x, y int) {
	update := func(ux, uy int) {
		idx := w.Idx(ux, uy)
		if w.Tiles[idx].Overlay != Road {
			return
		}
		mask := w.computeRoadMask(ux, uy)
		w.Tiles[idx] = w.Tiles[idx].withRoadMask(mask)
	}
	update(x, y)
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		update(nx, ny)
	})
}
