package landvalue

import (
	"testing"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

func smallWorld() *cityworld.World {
	w := cityworld.NewWorld(10, 10, 1)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			t := w.At(x, y)
			t.Terrain = cityworld.Grass
			w.Set(x, y, t)
		}
	}
	park := w.At(2, 2)
	park.Overlay = cityworld.Park
	w.Set(2, 2, park)

	industry := w.At(8, 8)
	industry.Overlay = cityworld.Industrial
	industry.Level = 2
	w.Set(8, 8, industry)

	for x := 0; x < 10; x++ {
		t := w.At(x, 5)
		t.Overlay = cityworld.Road
		w.Set(x, 5, t)
	}
	w.RecomputeRoadMasks()
	return w
}

func TestComputeLandValueParkRaisesNearbyValue(t *testing.T) {
	w := smallWorld()
	result := ComputeLandValue(w, Default(), nil, nil)

	nearPark := result.PerTileValue[w.Idx(3, 2)]
	farFromPark := result.PerTileValue[w.Idx(9, 9)]
	if nearPark <= farFromPark {
		t.Fatalf("expected tile near park (%f) to exceed a distant tile (%f)", nearPark, farFromPark)
	}
}

func TestComputeLandValueWaterTilesAreZero(t *testing.T) {
	w := smallWorld()
	wt := w.At(0, 0)
	wt.Terrain = cityworld.Water
	w.Set(0, 0, wt)

	result := ComputeLandValue(w, Default(), nil, nil)
	if result.PerTileValue[w.Idx(0, 0)] != 0 {
		t.Fatalf("expected water tile to have zero land value, got %f", result.PerTileValue[w.Idx(0, 0)])
	}
}

func TestComputeLandValueClampedToUnitRange(t *testing.T) {
	w := smallWorld()
	result := ComputeLandValue(w, Default(), nil, nil)
	for idx, v := range result.PerTileValue {
		if v < 0 || v > 1 {
			t.Fatalf("tile %d land value out of [0,1]: %f", idx, v)
		}
	}
}

func TestComputeServicesNoFacilitiesYieldsZero(t *testing.T) {
	w := smallWorld()
	result := ComputeServices(w, DefaultServicesConfig())
	if result.Aggregate[Education] != 0 {
		t.Fatalf("expected zero education satisfaction with no schools, got %f", result.Aggregate[Education])
	}
}

func TestComputeServicesFacilityRaisesNearbySatisfaction(t *testing.T) {
	w := smallWorld()
	school := w.At(5, 5)
	school.Overlay = cityworld.School
	w.Set(5, 5, school)

	res := w.At(1, 1)
	res.Overlay = cityworld.Residential
	res.Occupants = 10
	w.Set(1, 1, res)

	result := ComputeServices(w, DefaultServicesConfig())
	if result.Aggregate[Education] <= 0 {
		t.Fatalf("expected positive education satisfaction with a school present, got %f", result.Aggregate[Education])
	}
}

func TestComputeDistrictStatsAggregatesByDistrict(t *testing.T) {
	w := smallWorld()
	for i := range w.Tiles {
		w.Tiles[i].District = 0
	}
	res := w.At(1, 1)
	res.Overlay = cityworld.Residential
	res.Occupants = 50
	res.District = 0
	w.Set(1, 1, res)

	rates := BaseRates{ResidentialTaxRate: 0.1, CommercialTaxRate: 0.2, RoadMaintenanceCost: 0.5, ParkMaintenanceCost: 0.3}
	policies := cityworld.DefaultDistrictPolicies()
	stats := ComputeDistrictStats(w, nil, rates, policies)

	if stats[0].Population != 50 {
		t.Fatalf("expected district 0 population 50, got %d", stats[0].Population)
	}
	if stats[0].TaxRevenue != 5 { // 50 * 0.1 * 1.0
		t.Fatalf("expected tax revenue 5, got %f", stats[0].TaxRevenue)
	}
}
