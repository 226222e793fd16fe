package simulate

import "github.com/talgya/iso-citysim/internal/cityworld"

const (
	upgradeFillThreshold = 0.92
	vacancyFillThreshold = 0.25
)

// updateOccupancy runs phase 6 of stepOnce: nudges each zoned tile's
// occupants toward capacity*demand*min(1,accessShare) (spec.md §4.2 step 6),
// with commercial additionally scaled by goods satisfaction and industrial
// by export capacity, bounded by cfg.GrowthRatePerDay per day.
func updateOccupancy(w *cityworld.World, cfg Config) {
	demandFor := func(o cityworld.Overlay) float64 {
		switch o {
		case cityworld.Residential:
			return w.Stats.DemandResidential
		case cityworld.Commercial:
			return w.Stats.DemandCommercial
		case cityworld.Industrial:
			return w.Stats.DemandIndustrial
		default:
			return 0
		}
	}

	accessShare := 1.0
	if w.Stats.JobsCapacity > 0 {
		accessShare = clamp01(float64(w.Stats.JobsCapacityAccessible) / float64(w.Stats.JobsCapacity))
	}
	exportCapacity := 0.0
	if w.Stats.GoodsProduced > 0 {
		exportCapacity = clamp01(w.Stats.GoodsExported / w.Stats.GoodsProduced)
	}

	for idx := range w.Tiles {
		t := w.Tiles[idx]
		if !t.Overlay.IsZone() {
			continue
		}
		capacity := cityworld.CapacityForLevel(t.Overlay, t.Level)
		if capacity == 0 {
			continue
		}
		demand := demandFor(t.Overlay)
		targetFill := demand * minFloat(1, accessShare)
		switch t.Overlay {
		case cityworld.Commercial:
			targetFill *= w.Stats.GoodsSatisfaction
		case cityworld.Industrial:
			targetFill *= exportCapacity
		}
		targetFill = clamp01(targetFill)
		target := float64(capacity) * targetFill

		delta := (target - float64(t.Occupants)) * cfg.GrowthRatePerDay
		newOcc := float64(t.Occupants) + delta
		if newOcc < 0 {
			newOcc = 0
		}
		if newOcc > float64(capacity) {
			newOcc = float64(capacity)
		}
		t.Occupants = uint16(newOcc + 0.5)
		w.Tiles[idx] = t
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// updateLevels runs phase 7 of stepOnce: upgrades a zone tile whose
// occupancy fill exceeds upgradeFillThreshold, and downgrades a tile that
// has stayed below vacancyFillThreshold for cfg.VacancyDowngradeDays
// consecutive days. Levels never change by more than one step per day.
func updateLevels(w *cityworld.World, cfg Config, st *State) {
	st.ensureSized(w)
	for idx := range w.Tiles {
		t := w.Tiles[idx]
		if !t.Overlay.IsZone() {
			st.VacancyDays[idx] = 0
			continue
		}
		capacity := cityworld.CapacityForLevel(t.Overlay, t.Level)
		fill := 0.0
		if capacity > 0 {
			fill = float64(t.Occupants) / float64(capacity)
		}

		if fill <= vacancyFillThreshold {
			st.VacancyDays[idx]++
		} else {
			st.VacancyDays[idx] = 0
		}

		switch {
		case fill >= upgradeFillThreshold && t.Level < 3:
			t.Level++
			w.Tiles[idx] = t
		case st.VacancyDays[idx] >= cfg.VacancyDowngradeDays && t.Level > 1:
			t.Level--
			st.VacancyDays[idx] = 0
			w.Tiles[idx] = t
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
