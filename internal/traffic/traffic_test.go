package traffic

import (
	"testing"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/pathfind"
)

// linearCityWorld builds: R - road... - C along a single row, y=0, width w.
func linearCityWorld(w int) *cityworld.World {
	world := cityworld.NewWorld(w, 1, 1)
	set := func(x int, o cityworld.Overlay, level uint8, occ uint16) {
		t := world.At(x, 0)
		t.Terrain = cityworld.Grass
		t.Overlay = o
		t.Level = level
		t.Occupants = occ
		world.Set(x, 0, t)
	}
	set(0, cityworld.Residential, 1, 20)
	for x := 1; x < w-1; x++ {
		set(x, cityworld.Road, uint8(cityworld.Street), 0)
	}
	set(w-1, cityworld.Commercial, 1, 0)
	world.RecomputeRoadMasks()
	return world
}

func TestComputeCommuteTrafficBasicRoute(t *testing.T) {
	w := linearCityWorld(8)
	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)
	result := ComputeCommuteTraffic(w, Default(), 0.5, roadToEdge)
	if result.TotalCommuters == 0 {
		t.Fatal("expected nonzero commuters from a 20-occupant residential tile")
	}
	if result.ReachableCommuters != result.TotalCommuters {
		t.Fatalf("expected all commuters reachable on a fully connected strip, got %d/%d", result.ReachableCommuters, result.TotalCommuters)
	}
	if result.UnreachableCommuters != 0 {
		t.Fatalf("expected zero unreachable commuters, got %d", result.UnreachableCommuters)
	}
}

func TestComputeCommuteTrafficNoSinksYieldsZeroFlow(t *testing.T) {
	w := cityworld.NewWorld(4, 4, 1)
	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)
	result := ComputeCommuteTraffic(w, Default(), 0.5, roadToEdge)
	if result.TotalCommuters != 0 {
		t.Fatalf("expected zero commuters with no residential tiles, got %d", result.TotalCommuters)
	}
	for _, f := range result.PerTileFlow {
		if f != 0 {
			t.Fatal("expected all-zero flow field with no sources/sinks")
		}
	}
}

// detourCityWorld builds a grid offering two routes between the
// residential source's access road at (1,0) and the commercial sink's
// access road at (3,0): a 2-hop direct Street route through (2,0), and a
// 4-hop detour through (1,1), a Highway tile at (2,1), and (3,1). Under
// free flow the direct route is strictly shorter (both in hops and
// time), but heavy demand saturates its tiles, making the detour
// cheaper once BPR congestion cost is applied to the direct route.
func detourCityWorld(occupants uint16) *cityworld.World {
	w := cityworld.NewWorld(5, 2, 1)
	set := func(x, y int, o cityworld.Overlay, level uint8, occ uint16) {
		t := w.At(x, y)
		t.Terrain = cityworld.Grass
		t.Overlay = o
		t.Level = level
		t.Occupants = occ
		w.Set(x, y, t)
	}
	set(0, 0, cityworld.Residential, 1, occupants)
	set(1, 0, cityworld.Road, uint8(cityworld.Street), 0)
	set(2, 0, cityworld.Road, uint8(cityworld.Street), 0)
	set(3, 0, cityworld.Road, uint8(cityworld.Street), 0)
	set(4, 0, cityworld.Commercial, 1, 0)
	set(1, 1, cityworld.Road, uint8(cityworld.Street), 0)
	set(2, 1, cityworld.Road, uint8(cityworld.Highway), 0)
	set(3, 1, cityworld.Road, uint8(cityworld.Street), 0)
	// (4,1) stays Grass so the commercial tile's sink access resolves to
	// its West neighbor (3,0), not South, in N/E/S/W pick order.
	w.RecomputeRoadMasks()
	return w
}

func TestComputeCommuteTrafficReroutesOntoDetourUnderCongestion(t *testing.T) {
	w := detourCityWorld(2000)
	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)

	cfg := Default()
	cfg.CongestionIterations = 1
	result := ComputeCommuteTraffic(w, cfg, 1.0, roadToEdge)

	detourIdx := []int{w.Idx(1, 1), w.Idx(2, 1), w.Idx(3, 1)}
	for _, idx := range detourIdx {
		if result.PerTileFlow[idx] <= 0 {
			t.Fatalf("expected nonzero flow on detour tile idx=%d once the direct route is congested; got %f (full flow field: %v)",
				idx, result.PerTileFlow[idx], result.PerTileFlow)
		}
	}
}

func TestComputeCommuteTrafficCongestionRisesWithDemand(t *testing.T) {
	w := linearCityWorld(6)
	// push occupants way up to saturate the single-lane street.
	t0 := w.At(0, 0)
	t0.Occupants = 5000
	w.Set(0, 0, t0)

	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)
	result := ComputeCommuteTraffic(w, Default(), 1.0, roadToEdge)
	if result.Congestion <= 0 {
		t.Fatalf("expected positive congestion under heavy demand, got %f", result.Congestion)
	}
}
