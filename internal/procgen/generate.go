package procgen

import "github.com/talgya/iso-citysim/internal/cityworld"

// Generate runs the fixed 8-step pipeline of SPEC_FULL.md §4.1:
//  1. height field, 2. erosion, 3. quantization, 4. terrain assignment,
//  5. road skeleton (+ hierarchy upgrade), 6. zoning seed, 7. district
//  assignment, 8. road masks. Pure: identical (width, height, seed, cfg)
//  always yields a world with an identical HashWorld.
//
// Degenerate inputs (tiny maps, extreme params) still produce a valid,
// possibly-empty world — there is no failure mode here.
func Generate(width, height int, seed uint64, cfg Config) *cityworld.World {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	w := cityworld.NewWorld(width, height, seed)

	h := heightField(width, height, seed, cfg)
	h = erode(h, width, height, cfg)
	h = quantize(h, cfg.QuantizeScale)
	assignTerrain(w, h, cfg)

	w.Stats.Money = 50000

	hubs := placeHubs(w, cfg)
	buildRoadSkeleton(w, hubs, cfg)
	upgradeRoadHierarchy(w, hubs, cfg)

	seedZoning(w, cfg)
	assignDistricts(w, cfg)

	w.RecomputeRoadMasks()
	refreshCounts(w)
	return w
}

// refreshCounts recomputes the tile-count-derived Stats fields after
// generation: roads, parks, housing/jobs capacity, population/occupants
// all start at zero occupancy (the simulator grows them over time).
func refreshCounts(w *cityworld.World) {
	roads, parks, housingCap, jobsCap := 0, 0, 0, 0
	for _, t := range w.Tiles {
		switch t.Overlay {
		case cityworld.Road:
			roads++
		case cityworld.Park:
			parks++
		case cityworld.Residential:
			housingCap += int(cityworld.CapacityForLevel(cityworld.Residential, t.Level))
		case cityworld.Commercial:
			jobsCap += int(cityworld.CapacityForLevel(cityworld.Commercial, t.Level))
		case cityworld.Industrial:
			jobsCap += int(cityworld.CapacityForLevel(cityworld.Industrial, t.Level))
		}
	}
	w.Stats.Roads = roads
	w.Stats.Parks = parks
	w.Stats.HousingCapacity = housingCap
	w.Stats.JobsCapacity = jobsCap
}
