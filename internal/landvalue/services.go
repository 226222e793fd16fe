package landvalue

import "github.com/talgya/iso-citysim/internal/cityworld"

// ServiceKind is one of the three civic service types the engine tracks.
type ServiceKind uint8

const (
	Education ServiceKind = iota
	Health
	Safety
)

func (k ServiceKind) overlays() []cityworld.Overlay {
	switch k {
	case Education:
		return []cityworld.Overlay{cityworld.School}
	case Health:
		return []cityworld.Overlay{cityworld.Hospital}
	case Safety:
		return []cityworld.Overlay{cityworld.PoliceStation, cityworld.FireStation}
	default:
		return nil
	}
}

// DemandMode selects how per-tile demand is weighted in step 1 of the
// two-step floating catchment.
type DemandMode uint8

const (
	DemandByOccupants DemandMode = iota
	DemandByTileCount
)

// ServicesConfig enumerates the E2SFCA pass's tunables.
type ServicesConfig struct {
	RadiusSteps int
	DemandMode  DemandMode
	Capacity    map[ServiceKind]float64 // capacity contributed per facility tile
}

// DefaultServicesConfig returns the spec's default tuning.
func DefaultServicesConfig() ServicesConfig {
	return ServicesConfig{
		RadiusSteps: 12,
		DemandMode:  DemandByOccupants,
		Capacity: map[ServiceKind]float64{
			Education: 500,
			Health:    400,
			Safety:    600,
		},
	}
}

// ServiceResult is the per-service-type satisfaction field plus aggregates.
type ServiceResult struct {
	PerTileSatisfaction map[ServiceKind][]float64 // [0,1], indexed by y*w+x
	Aggregate           map[ServiceKind]float64
	Overall             float64
}

// ComputeServices runs the two-step floating catchment approximation of
// SPEC_FULL.md §4.6 for Education, Health and Safety facilities.
func ComputeServices(w *cityworld.World, cfg ServicesConfig) ServiceResult {
	result := ServiceResult{
		PerTileSatisfaction: make(map[ServiceKind][]float64),
		Aggregate:           make(map[ServiceKind]float64),
	}

	kinds := []ServiceKind{Education, Health, Safety}
	overallSum, overallCount := 0.0, 0
	for _, kind := range kinds {
		field := computeServiceKind(w, cfg, kind)
		result.PerTileSatisfaction[kind] = field

		sum, count := 0.0, 0
		for idx, v := range field {
			if w.Tiles[idx].Terrain == cityworld.Water {
				continue
			}
			sum += v
			count++
		}
		agg := 0.0
		if count > 0 {
			agg = sum / float64(count)
		}
		result.Aggregate[kind] = agg
		overallSum += sum
		overallCount += count
	}
	if overallCount > 0 {
		result.Overall = overallSum / float64(overallCount)
	}
	return result
}

func computeServiceKind(w *cityworld.World, cfg ServicesConfig, kind ServiceKind) []float64 {
	n := w.Width * w.Height
	satisfaction := make([]float64, n)

	overlays := kind.overlays()
	var facilities []int
	for idx, t := range w.Tiles {
		for _, o := range overlays {
			if t.Overlay == o {
				facilities = append(facilities, idx)
				break
			}
		}
	}
	if len(facilities) == 0 {
		return satisfaction
	}

	capacityEach := cfg.Capacity[kind]

	for _, fidx := range facilities {
		dist := boundedRoadDistance(w, fidx, cfg.RadiusSteps)
		demand := 0.0
		for idx, d := range dist {
			if d < 0 {
				continue
			}
			demand += demandWeight(w.Tiles[idx], cfg.DemandMode)
		}
		ratio := 0.0
		if demand > 0 {
			ratio = capacityEach / demand
		} else {
			ratio = capacityEach
		}

		for idx, d := range dist {
			if d < 0 {
				continue
			}
			decay := 1.0
			if cfg.RadiusSteps > 0 {
				decay = 1 - float64(d)/float64(cfg.RadiusSteps)
			}
			if decay < 0 {
				decay = 0
			}
			satisfaction[idx] += ratio * decay
		}
	}

	for idx := range satisfaction {
		satisfaction[idx] = clamp01(satisfaction[idx])
	}
	return satisfaction
}

func demandWeight(t cityworld.Tile, mode DemandMode) float64 {
	switch mode {
	case DemandByTileCount:
		if t.Overlay == cityworld.Residential {
			return 1
		}
		return 0
	default:
		if t.Overlay == cityworld.Residential {
			return float64(t.Occupants)
		}
		return 0
	}
}

// boundedRoadDistance computes plain 4-adjacency BFS distance in tiles
// from the facility tile itself, up to maxRadius. Roads are not consulted:
// every tile within maxRadius steps gets a distance, whether or not a road
// connects it to the facility.
func boundedRoadDistance(w *cityworld.World, facilityIdx int, maxRadius int) []int {
	n := w.Width * w.Height
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	dist[facilityIdx] = 0

	queue := []int{facilityIdx}
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
