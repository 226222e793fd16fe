package simulate

import (
	"testing"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

func TestUpdateEconomyAppliesDistrictTaxMultiplier(t *testing.T) {
	base := func() *cityworld.World {
		w := cityworld.NewWorld(1, 1, 1)
		t0 := w.At(0, 0)
		t0.Overlay = cityworld.Residential
		t0.Occupants = 100
		w.Set(0, 0, t0)
		w.Stats.Money = 0
		return w
	}

	cfgLow := Default()
	cfgLow.DistrictPolicies[0] = cityworld.DistrictPolicy{TaxMultiplier: 0.5, MaintenanceMultiplier: 1}
	wLow := base()
	updateEconomy(wLow, cfgLow)

	cfgHigh := Default()
	cfgHigh.DistrictPolicies[0] = cityworld.DistrictPolicy{TaxMultiplier: 2.0, MaintenanceMultiplier: 1}
	wHigh := base()
	updateEconomy(wHigh, cfgHigh)

	if wHigh.Stats.Money <= wLow.Stats.Money {
		t.Fatalf("a higher district tax multiplier must raise collected revenue: low=%d high=%d", wLow.Stats.Money, wHigh.Stats.Money)
	}
}

func TestUpdateEconomyAppliesDistrictMaintenanceMultiplier(t *testing.T) {
	base := func() *cityworld.World {
		w := cityworld.NewWorld(1, 1, 1)
		t0 := w.At(0, 0)
		t0.Overlay = cityworld.Road
		w.Set(0, 0, t0)
		w.Stats.Money = 0
		return w
	}

	cfgLow := Default()
	cfgLow.DistrictPolicies[0] = cityworld.DistrictPolicy{TaxMultiplier: 1, MaintenanceMultiplier: 0.5}
	wLow := base()
	updateEconomy(wLow, cfgLow)

	cfgHigh := Default()
	cfgHigh.DistrictPolicies[0] = cityworld.DistrictPolicy{TaxMultiplier: 1, MaintenanceMultiplier: 2.0}
	wHigh := base()
	updateEconomy(wHigh, cfgHigh)

	if wHigh.Stats.Money >= wLow.Stats.Money {
		t.Fatalf("a higher district maintenance multiplier must deduct more: low=%d high=%d", wLow.Stats.Money, wHigh.Stats.Money)
	}
}
