package simulate

import (
	"math"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

// updateEconomy runs phase 8 of stepOnce: collects per-zone tax revenue
// scaled by its tile's district tax multiplier, deducts per-overlay
// maintenance costs scaled by the same tile's district maintenance
// multiplier, and adds the net, rounded to the nearest whole unit, to
// Stats.Money. Returns the population-weighted
// average tax rate actually levied, fed into the happiness phase as the
// tax-burden term.
func updateEconomy(w *cityworld.World, cfg Config) (taxBurden float64) {
	var revenue, maintenance float64
	var taxWeighted, taxPop float64

	policyFor := func(t cityworld.Tile) cityworld.DistrictPolicy {
		if int(t.District) < len(cfg.DistrictPolicies) {
			return cfg.DistrictPolicies[t.District]
		}
		return cityworld.DistrictPolicy{TaxMultiplier: 1, MaintenanceMultiplier: 1}
	}

	maintenanceByOverlay := map[cityworld.Overlay]float64{}
	for _, t := range w.Tiles {
		policy := policyFor(t)

		var rate float64
		switch t.Overlay {
		case cityworld.Residential:
			rate = cfg.ResidentialTaxRate
		case cityworld.Commercial:
			rate = cfg.CommercialTaxRate
		case cityworld.Industrial:
			rate = cfg.IndustrialTaxRate
		default:
			if cost, ok := cfg.MaintenanceCost[t.Overlay]; ok {
				maintenanceByOverlay[t.Overlay] += cost * policy.MaintenanceMultiplier
			}
			continue
		}

		levied := rate * policy.TaxMultiplier
		revenue += float64(t.Occupants) * levied
		taxWeighted += float64(t.Occupants) * levied
		taxPop += float64(t.Occupants)

		if cost, ok := cfg.MaintenanceCost[t.Overlay]; ok {
			maintenanceByOverlay[t.Overlay] += cost * policy.MaintenanceMultiplier
		}
	}

	for _, cost := range maintenanceByOverlay {
		maintenance += cost
	}

	w.Stats.Money += int64(math.Round(revenue - maintenance))

	if taxPop == 0 {
		return 0
	}
	return taxWeighted / taxPop
}
