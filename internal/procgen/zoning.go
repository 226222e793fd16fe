package procgen

import (
	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/entropy"
)

// seedZoning runs step 6 of SPEC_FULL.md §4.1: for each land tile adjacent
// to a road, roll against cfg.ZoneChance using a per-tile hash of
// (x,y,seed); on success, pick Residential/Commercial/Industrial by a
// deterministic weighting influenced by distance to water and adjacent
// industry. Parks are rolled independently against cfg.ParkChance.
func seedZoning(w *cityworld.World, cfg Config) {
	waterDist := distanceToTerrain(w, cityworld.Water)

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			t := w.At(x, y)
			if t.Terrain == cityworld.Water || t.Overlay != cityworld.None {
				continue
			}
			if !hasAdjacentRoad(w, x, y) {
				continue
			}

			roll := entropyFloat(w.Seed(), x, y, 1)
			if roll < cfg.ParkChance {
				t.Overlay = cityworld.Park
				t.Level = 1
				w.Set(x, y, t)
				continue
			}

			zoneRoll := entropyFloat(w.Seed(), x, y, 2)
			if zoneRoll >= cfg.ZoneChance {
				continue
			}

			wd := waterDist[w.Idx(x, y)]
			industryNear := adjacentIndustryCount(w, x, y)
			t.Overlay = pickZoneKind(w.Seed(), x, y, wd, industryNear)
			t.Level = 1
			w.Set(x, y, t)
		}
	}
}

// pickZoneKind chooses Residential/Commercial/Industrial using a
// deterministic weighted roll: industry favors tiles far from water and
// near other industry; commerce favors proximity to water; residential is
// the default weight otherwise.
func pickZoneKind(seed uint64, x, y int, waterDist float64, industryNear int) cityworld.Overlay {
	wRes := 1.0
	wCom := 1.0 / (1.0 + waterDist*0.1)
	wInd := 0.3 + float64(industryNear)*0.4 + waterDist*0.02

	total := wRes + wCom + wInd
	roll := entropyFloat(seed, x, y, 3) * total
	switch {
	case roll < wRes:
		return cityworld.Residential
	case roll < wRes+wCom:
		return cityworld.Commercial
	default:
		return cityworld.Industrial
	}
}

func adjacentIndustryCount(w *cityworld.World, x, y int) int {
	count := 0
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			nx, ny := x+dx, y+dy
			if !w.InBounds(nx, ny) {
				continue
			}
			if w.At(nx, ny).Overlay == cityworld.Industrial {
				count++
			}
		}
	}
	return count
}

// distanceToTerrain computes a multi-source BFS distance (in tiles) from
// every tile of the grid to the nearest tile of the given terrain.
func distanceToTerrain(w *cityworld.World, terrain cityworld.Terrain) []float64 {
	n := w.Width * w.Height
	dist := make([]float64, n)
	visited := make([]bool, n)
	queue := make([]int, 0, 64)
	for idx := 0; idx < n; idx++ {
		x, y := w.XY(idx)
		if w.At(x, y).Terrain == terrain {
			visited[idx] = true
			dist[idx] = 0
			queue = append(queue, idx)
		}
	}
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		x, y := w.XY(idx)
		w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
			nidx := w.Idx(nx, ny)
			if visited[nidx] {
				return
			}
			visited[nidx] = true
			dist[nidx] = dist[idx] + 1
			queue = append(queue, nidx)
		})
	}
	maxSeen := 0.0
	for _, d := range dist {
		if d > maxSeen {
			maxSeen = d
		}
	}
	for idx := range dist {
		if !visited[idx] {
			dist[idx] = maxSeen + 1
		}
	}
	return dist
}

// entropyFloat derives a deterministic [0,1) roll from (seed,x,y,salt): a
// per-tile hash of (x,y,seed) salted so independent rolls (park vs zone vs
// zone-kind) at the same tile don't correlate.
func entropyFloat(seed uint64, x, y int, salt uint64) float64 {
	h := entropy.HashSeed(seed^ (salt * 0x9E3779B97F4A7C15), x, y)
	return float64(h>>11) / float64(uint64(1)<<53)
}

// hasAdjacentRoad reports whether any 4-neighbor of (x,y) is a road tile.
func hasAdjacentRoad(w *cityworld.World, x, y int) bool {
	found := false
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		if w.At(nx, ny).Overlay == cityworld.Road {
			found = true
		}
	})
	return found
}
