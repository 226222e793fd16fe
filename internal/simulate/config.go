// Package simulate implements SPEC_FULL.md §4.2: the fixed 10-phase daily
// tick that advances a World's economy, zoning demand, growth, happiness
// and derived stats.
package simulate

import "github.com/talgya/iso-citysim/internal/cityworld"

// OutsideConnectionRule controls whether commute/goods passes require a
// source or sink tile's road access to be connected to the map edge.
type OutsideConnectionRule uint8

const (
	RequireOutsideConnection OutsideConnectionRule = iota
	AllowDisconnectedLocal
)

// ZoneWeights carries the desirability scoring weights used by the demand
// model (spec.md §4.2 step 5: a normalized blend of land value, accessible
// jobs ratio, happiness, and district policy multipliers), one quadruple
// per zone kind.
type ZoneWeights struct {
	LandValue      float64 `json:"landValue"`
	AccessibleJobs float64 `json:"accessibleJobs"`
	Happiness      float64 `json:"happiness"`
	Policy         float64 `json:"policy"`
}

// Config is SimConfig: every daily-tick tunable named in SPEC_FULL.md §4.2.
type Config struct {
	TickSeconds         float64               `json:"tickSeconds"`
	ParkInfluenceRadius int                   `json:"parkInfluenceRadius"`
	OutsideConnection   OutsideConnectionRule `json:"outsideConnection"`

	EmployedShare float64 `json:"employedShare"`

	ResidentialTaxRate float64 `json:"residentialTaxRate"`
	CommercialTaxRate  float64 `json:"commercialTaxRate"`
	IndustrialTaxRate  float64 `json:"industrialTaxRate"`

	MaintenanceCost map[cityworld.Overlay]float64 `json:"maintenanceCost"`

	HappinessTaxMultiplier float64 `json:"happinessTaxMultiplier"`
	// HappinessSmoothing is the EMA weight (0,1] given to each day's freshly
	// computed happiness score when blending against the previous day's
	// value; 1.0 disables smoothing.
	HappinessSmoothing float64 `json:"happinessSmoothing"`

	DesirabilityWeights map[cityworld.Overlay]ZoneWeights `json:"desirabilityWeights"`

	LandValueRefreshDays int `json:"landValueRefreshDays"` // recompute land value every N days (cached between)
	ServicesRefreshDays  int `json:"servicesRefreshDays"`

	GrowthRatePerDay     float64 `json:"growthRatePerDay"`     // max fraction of capacity gap filled per day
	VacancyDowngradeDays int     `json:"vacancyDowngradeDays"` // sustained vacancy before a level downgrade

	DistrictPolicies [8]cityworld.DistrictPolicy `json:"districtPolicies"`
}

// Default returns the spec's default daily-tick tuning.
func Default() Config {
	return Config{
		TickSeconds:         86400,
		ParkInfluenceRadius: 6,
		OutsideConnection:   RequireOutsideConnection,
		EmployedShare:       0.62,

		ResidentialTaxRate: 0.08,
		CommercialTaxRate:  0.12,
		IndustrialTaxRate:  0.10,

		MaintenanceCost: map[cityworld.Overlay]float64{
			cityworld.Road:          0.4,
			cityworld.Park:          0.2,
			cityworld.School:        8,
			cityworld.Hospital:      12,
			cityworld.PoliceStation: 9,
			cityworld.FireStation:   9,
		},

		HappinessTaxMultiplier: 0.5,
		HappinessSmoothing:     0.3,

		DesirabilityWeights: map[cityworld.Overlay]ZoneWeights{
			cityworld.Residential: {LandValue: 0.4, AccessibleJobs: 0.3, Happiness: 0.2, Policy: 0.1},
			cityworld.Commercial:  {LandValue: 0.3, AccessibleJobs: 0.4, Happiness: 0.1, Policy: 0.2},
			cityworld.Industrial:  {LandValue: 0.15, AccessibleJobs: 0.45, Happiness: 0.05, Policy: 0.35},
		},

		LandValueRefreshDays: 7,
		ServicesRefreshDays:  7,

		GrowthRatePerDay:     0.05,
		VacancyDowngradeDays: 30,

		DistrictPolicies: cityworld.DefaultDistrictPolicies(),
	}
}
