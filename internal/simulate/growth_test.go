package simulate

import (
	"testing"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

func TestUpdateOccupancyScalesCommercialByGoodsSatisfaction(t *testing.T) {
	build := func(satisfaction float64) *cityworld.World {
		w := cityworld.NewWorld(1, 1, 1)
		t0 := w.At(0, 0)
		t0.Overlay = cityworld.Commercial
		t0.Level = 1
		t0.Occupants = 0
		w.Set(0, 0, t0)
		w.Stats.DemandCommercial = 1
		w.Stats.JobsCapacity = 10
		w.Stats.JobsCapacityAccessible = 10
		w.Stats.GoodsSatisfaction = satisfaction
		return w
	}

	cfg := Default()
	cfg.GrowthRatePerDay = 1 // jump straight to target for a single-step assertion

	lowSat := build(0.1)
	updateOccupancy(lowSat, cfg)
	highSat := build(0.9)
	updateOccupancy(highSat, cfg)

	if highSat.At(0, 0).Occupants <= lowSat.At(0, 0).Occupants {
		t.Fatalf("higher goods satisfaction must grow commercial occupancy faster: low=%d high=%d",
			lowSat.At(0, 0).Occupants, highSat.At(0, 0).Occupants)
	}
}

func TestUpdateOccupancyScalesIndustrialByExportCapacity(t *testing.T) {
	build := func(exported, produced float64) *cityworld.World {
		w := cityworld.NewWorld(1, 1, 1)
		t0 := w.At(0, 0)
		t0.Overlay = cityworld.Industrial
		t0.Level = 1
		t0.Occupants = 0
		w.Set(0, 0, t0)
		w.Stats.DemandIndustrial = 1
		w.Stats.JobsCapacity = 10
		w.Stats.JobsCapacityAccessible = 10
		w.Stats.GoodsExported = exported
		w.Stats.GoodsProduced = produced
		return w
	}

	cfg := Default()
	cfg.GrowthRatePerDay = 1

	lowExport := build(1, 100)
	updateOccupancy(lowExport, cfg)
	highExport := build(90, 100)
	updateOccupancy(highExport, cfg)

	if highExport.At(0, 0).Occupants <= lowExport.At(0, 0).Occupants {
		t.Fatalf("higher export capacity must grow industrial occupancy faster: low=%d high=%d",
			lowExport.At(0, 0).Occupants, highExport.At(0, 0).Occupants)
	}
}

func TestUpdateOccupancyCapsAtAccessShare(t *testing.T) {
	w := cityworld.NewWorld(1, 1, 1)
	t0 := w.At(0, 0)
	t0.Overlay = cityworld.Residential
	t0.Level = 1
	t0.Occupants = 0
	w.Set(0, 0, t0)
	w.Stats.DemandResidential = 1
	w.Stats.JobsCapacity = 100
	w.Stats.JobsCapacityAccessible = 10 // only 10% of jobs reachable

	cfg := Default()
	cfg.GrowthRatePerDay = 1
	updateOccupancy(w, cfg)

	capacity := cityworld.CapacityForLevel(cityworld.Residential, 1)
	if float64(w.At(0, 0).Occupants) >= float64(capacity)*0.5 {
		t.Fatalf("a 10%% accessible-jobs share must sharply cap residential growth, got occupants=%d capacity=%d",
			w.At(0, 0).Occupants, capacity)
	}
}
