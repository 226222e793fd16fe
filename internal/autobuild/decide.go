package autobuild

import (
	"sort"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/entropy"
)

// scoredTile pairs a candidate tile index with its desirability score.
// Mirrors tobyjaguar-mini-world's settlement_placer.go scored struct, one
// field renamed (coord -> idx) for the flat-array grid.
type scoredTile struct {
	idx   int
	score float64
}

// rankCandidates scores every tile in candidates via score, sorts
// descending, then walks the sorted list taking up to limit entries while
// enforcing a minimum Manhattan spacing between picks — the same
// score/sort-descending/min-distance shape as PlaceSettlements in
// settlement_placer.go, generalized from settlement seeding to zone/park
// placement.
func rankCandidates(w *cityworld.World, candidates []int, limit, minDist int, score func(idx int) float64) []int {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}
	scored := make([]scoredTile, 0, len(candidates))
	for _, idx := range candidates {
		scored = append(scored, scoredTile{idx: idx, score: score(idx)})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].idx < scored[j].idx // deterministic tie-break on flat index
	})

	var picked []int
	for _, c := range scored {
		if len(picked) >= limit {
			break
		}
		if tooClose(w, c.idx, picked, minDist) {
			continue
		}
		picked = append(picked, c.idx)
	}
	return picked
}

// tooClose reports whether idx lies within minDist (Manhattan) of any tile
// already in picked. Grounded on settlement_placer.go's tooClose helper,
// generalized from hex distance to Manhattan distance on the flat grid.
func tooClose(w *cityworld.World, idx int, picked []int, minDist int) bool {
	if minDist <= 0 {
		return false
	}
	x, y := w.XY(idx)
	for _, p := range picked {
		px, py := w.XY(p)
		d := absInt(x-px) + absInt(y-py)
		if d < minDist {
			return true
		}
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// zoneScore scores an empty buildable tile for placement of overlay zone
// kind, per Weights: land value dominates, same-zone-kind 4-neighbors add a
// clustering bonus, and an industrial candidate near residential occupants
// is penalized (and vice versa). A vanishingly small deterministic
// per-tile hash breaks exact ties without introducing real randomness into
// the ranking order.
func zoneScore(w *cityworld.World, obs Observation, idx int, zone cityworld.Overlay, weights Weights) float64 {
	x, y := w.XY(idx)
	lv := 0.0
	if idx < len(obs.LandValue) {
		lv = obs.LandValue[idx]
	}
	score := weights.LandValue * lv

	sameKind, clashKind := 0, 0
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		o := w.At(nx, ny).Overlay
		if o == zone {
			sameKind++
		}
		if zone == cityworld.Industrial && o == cityworld.Residential {
			clashKind++
		}
		if zone == cityworld.Residential && o == cityworld.Industrial {
			clashKind++
		}
	})
	score += weights.AdjacencyBonus * float64(sameKind) / 4.0
	score -= weights.IndustrialNearResidentialPenalty * float64(clashKind) / 4.0

	score += weights.TieBreakWeight * entropy.HashFloat64(w.Seed(), x, y)
	return score
}

// parkScore favors tiles near existing residential/commercial density (a
// park is most valuable where it offsets nearby crowding) while still
// rewarding baseline land value.
func parkScore(w *cityworld.World, obs Observation, idx int, weights Weights) float64 {
	x, y := w.XY(idx)
	lv := 0.0
	if idx < len(obs.LandValue) {
		lv = obs.LandValue[idx]
	}
	nearbyDemand := 0
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		o := w.At(nx, ny).Overlay
		if o == cityworld.Residential || o == cityworld.Commercial {
			nearbyDemand++
		}
	})
	score := weights.LandValue*lv + weights.AdjacencyBonus*float64(nearbyDemand)/4.0
	score += weights.TieBreakWeight * entropy.HashFloat64(w.Seed()^0xA5A5, x, y)
	return score
}

// roadUpgradeCandidate is a road tile whose current class is below
// Highway and whose local congestion justifies a capacity bump.
type roadUpgradeCandidate struct {
	idx        int
	congestion float64
}

// rankRoadUpgrades returns up to limit road tiles, most congested first,
// among those at or above threshold and not already at the top road class.
func rankRoadUpgrades(w *cityworld.World, obs Observation, threshold float64, limit int) []roadUpgradeCandidate {
	var cands []roadUpgradeCandidate
	for _, idx := range obs.RoadTiles {
		t := w.AtIdx(idx)
		if cityworld.RoadClass(t.Level) >= cityworld.Highway {
			continue
		}
		c := 0.0
		if idx < len(obs.Congestion) {
			c = obs.Congestion[idx]
		}
		if c < threshold {
			continue
		}
		cands = append(cands, roadUpgradeCandidate{idx: idx, congestion: c})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].congestion != cands[j].congestion {
			return cands[i].congestion > cands[j].congestion
		}
		return cands[i].idx < cands[j].idx
	})
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}

// pickSpurTarget chooses the frontier road tile (a road tile with at least
// one open, non-water neighbor) whose own land value is highest, as
// the jump-off point for the day's road spur growth.
func pickSpurTarget(w *cityworld.World, obs Observation) (int, bool) {
	best := -1
	bestScore := -1.0
	for _, idx := range obs.Frontier {
		v := 0.0
		if idx < len(obs.LandValue) {
			v = obs.LandValue[idx]
		}
		if v > bestScore {
			bestScore = v
			best = idx
		}
	}
	return best, best >= 0
}
