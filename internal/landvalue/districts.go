package landvalue

import "github.com/talgya/iso-citysim/internal/cityworld"

// DistrictStats aggregates per-district tile counts, population, jobs,
// weighted land value, and policy-adjusted revenue/maintenance.
type DistrictStats struct {
	District         uint8
	TileCount        int
	RoadCount        int
	ResidentialCount int
	CommercialCount  int
	IndustrialCount  int
	ParkCount        int
	Population       int
	Jobs             int
	AvgLandValue     float64
	TaxRevenue       float64
	Maintenance      float64
	Net              float64
}

// BaseRates carries the city-wide per-capita tax rates and per-tile
// maintenance costs that DistrictPolicy multiplies per district.
type BaseRates struct {
	ResidentialTaxRate  float64
	CommercialTaxRate   float64
	RoadMaintenanceCost float64
	ParkMaintenanceCost float64
}

// ComputeDistrictStats partitions tiles by district (0..7) and aggregates
// the fields of SPEC_FULL.md §4.6, applying each district's DistrictPolicy
// tax/maintenance multipliers over the city-wide base rates.
func ComputeDistrictStats(w *cityworld.World, landValue []float64, rates BaseRates, policies [8]cityworld.DistrictPolicy) [8]DistrictStats {
	var stats [8]DistrictStats
	for i := range stats {
		stats[i].District = uint8(i)
	}

	landValueSum := [8]float64{}

	for idx, t := range w.Tiles {
		d := t.District
		if int(d) >= len(stats) {
			continue
		}
		s := &stats[d]
		s.TileCount++
		switch t.Overlay {
		case cityworld.Road:
			s.RoadCount++
		case cityworld.Residential:
			s.ResidentialCount++
			s.Population += int(t.Occupants)
		case cityworld.Commercial:
			s.CommercialCount++
			s.Jobs += int(t.Occupants)
		case cityworld.Industrial:
			s.IndustrialCount++
			s.Jobs += int(t.Occupants)
		case cityworld.Park:
			s.ParkCount++
		}
		if landValue != nil && idx < len(landValue) {
			landValueSum[d] += landValue[idx]
		}
	}

	for i := range stats {
		s := &stats[i]
		if s.TileCount > 0 {
			s.AvgLandValue = landValueSum[i] / float64(s.TileCount)
		}
		policy := policies[i]
		s.TaxRevenue = (float64(s.Population)*rates.ResidentialTaxRate + float64(s.Jobs)*rates.CommercialTaxRate) * policy.TaxMultiplier
		s.Maintenance = (float64(s.RoadCount)*rates.RoadMaintenanceCost + float64(s.ParkCount)*rates.ParkMaintenanceCost) * policy.MaintenanceMultiplier
		s.Net = s.TaxRevenue - s.Maintenance
	}
	return stats
}
