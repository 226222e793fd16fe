package procgen

import (
	"sort"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/entropy"
)

const numDistricts = 8

// assignDistricts runs step 7 of SPEC_FULL.md §4.1: Voronoi uses 8
// deterministic seed tiles; RoadFlow grows districts by BFS from seeds
// over plain 4-adjacency (roads are not consulted); BlockGraph labels connected road-bounded blocks into the 8
// largest components.
func assignDistricts(w *cityworld.World, cfg Config) {
	switch cfg.DistrictModeKind {
	case RoadFlow:
		assignDistrictsRoadFlow(w)
	case BlockGraph:
		assignDistrictsBlockGraph(w)
	default:
		assignDistrictsVoronoi(w)
	}
}

// districtSeeds derives 8 deterministic seed tiles spread across the grid
// using the world's seed, rejecting water tiles where possible.
func districtSeeds(w *cityworld.World) []int {
	seeds := make([]int, 0, numDistricts)
	src := entropy.NewSource(w.Seed() ^ 0xD15721C7)
	attempts := 0
	for len(seeds) < numDistricts && attempts < numDistricts*500+500 {
		attempts++
		x := src.Intn(w.Width)
		y := src.Intn(w.Height)
		if w.At(x, y).Terrain == cityworld.Water {
			continue
		}
		seeds = append(seeds, w.Idx(x, y))
	}
	for len(seeds) < numDistricts {
		if len(seeds) == 0 {
			seeds = append(seeds, 0) // all-water map: fall back to tile 0
			continue
		}
		seeds = append(seeds, seeds[len(seeds)%maxInt(len(seeds), 1)])
	}
	return seeds
}

// assignDistrictsVoronoi assigns every tile to the nearest (Manhattan)
// seed tile.
func assignDistrictsVoronoi(w *cityworld.World) {
	seeds := districtSeeds(w)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			best := 0
			bestDist := 1 << 30
			for i, sIdx := range seeds {
				sx, sy := w.XY(sIdx)
				d := absInt(sx-x) + absInt(sy-y)
				if d < bestDist {
					bestDist = d
					best = i
				}
			}
			t := w.At(x, y)
			t.District = uint8(best)
			w.Set(x, y, t)
		}
	}
}

// assignDistrictsRoadFlow grows districts by multi-source BFS from the
// seed tiles over plain 4-adjacency across every tile. Roads are not
// consulted, so the result is a BFS-distance partition, not one that
// follows the road network.
func assignDistrictsRoadFlow(w *cityworld.World) {
	seeds := districtSeeds(w)
	n := w.Width * w.Height
	owner := make([]int, n)
	for i := range owner {
		owner[i] = -1
	}
	queue := make([]int, 0, n)
	for i, sIdx := range seeds {
		if owner[sIdx] == -1 {
			owner[sIdx] = i
			queue = append(queue, sIdx)
		}
	}
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		x, y := w.XY(idx)
		w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
			nidx := w.Idx(nx, ny)
			if owner[nidx] != -1 {
				return
			}
			owner[nidx] = owner[idx]
			queue = append(queue, nidx)
		})
	}
	for idx, d := range owner {
		x, y := w.XY(idx)
		t := w.At(x, y)
		if d == -1 {
			d = 0
		}
		t.District = uint8(d)
		w.Set(x, y, t)
	}
}

// assignDistrictsBlockGraph labels connected components of non-road tiles
// (blocks bounded by roads) and assigns the 8 largest components distinct
// district ids 0..7; remaining tiles fall into the district of their
// nearest large block by Voronoi-style nearest-seed assignment over block
// centroids.
func assignDistrictsBlockGraph(w *cityworld.World) {
	n := w.Width * w.Height
	compID := make([]int, n)
	for i := range compID {
		compID[i] = -1
	}

	type block struct {
		id          int
		size        int
		sumX, sumY int
	}
	var blocks []block

	for idx := 0; idx < n; idx++ {
		if compID[idx] != -1 {
			continue
		}
		x, y := w.XY(idx)
		if w.At(x, y).Overlay == cityworld.Road {
			continue
		}
		id := len(blocks)
		queue := []int{idx}
		compID[idx] = id
		sumX, sumY, size := 0, 0, 0
		for head := 0; head < len(queue); head++ {
			cidx := queue[head]
			cx, cy := w.XY(cidx)
			sumX += cx
			sumY += cy
			size++
			w.ForEachNeighbor4(cx, cy, func(nx, ny, _ int) {
				nidx := w.Idx(nx, ny)
				if compID[nidx] != -1 || w.At(nx, ny).Overlay == cityworld.Road {
					return
				}
				compID[nidx] = id
				queue = append(queue, nidx)
			})
		}
		blocks = append(blocks, block{id: id, size: size, sumX: sumX, sumY: sumY})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].size != blocks[j].size {
			return blocks[i].size > blocks[j].size
		}
		return blocks[i].id < blocks[j].id
	})

	top := blocks
	if len(top) > numDistricts {
		top = top[:numDistricts]
	}
	type centroid struct{ x, y int }
	centroids := make([]centroid, len(top))
	idToDistrict := make(map[int]uint8, len(top))
	for i, b := range top {
		idToDistrict[b.id] = uint8(i)
		if b.size > 0 {
			centroids[i] = centroid{b.sumX / b.size, b.sumY / b.size}
		}
	}
	if len(centroids) == 0 {
		return
	}

	for idx := 0; idx < n; idx++ {
		x, y := w.XY(idx)
		t := w.At(x, y)
		if id, ok := idToDistrict[compID[idx]]; ok {
			t.District = id
		} else {
			best := 0
			bestDist := 1 << 30
			for i, c := range centroids {
				d := absInt(c.x-x) + absInt(c.y-y)
				if d < bestDist {
					bestDist = d
					best = i
				}
			}
			t.District = uint8(best)
		}
		w.Set(x, y, t)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
