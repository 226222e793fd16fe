// Package autobuild implements SPEC_FULL.md §4.8: the heuristic
// auto-build bot that runs before each simulated day's stepOnce, ranking
// and placing zones, parks, road upgrades and spurs against a money
// budget. The candidate-scoring shape — score every candidate, sort
// descending, enforce a minimum spacing, take the top N — is grounded on
// tobyjaguar-mini-world's internal/world/settlement_placer.go
// (PlaceSettlements/settlementScore), generalized from settlement seeding
// to zone/park/road placement. The package is split into
// observe/decide/act files the way the teacher's internal/gardener
// package is, though gardener's own scoring is LLM-driven and is not
// algorithmically grounded on here — only its "autonomous steward" shape
// (observe world, decide actions, act) is borrowed (see DESIGN.md).
package autobuild

import "github.com/talgya/iso-citysim/internal/cityworld"

// CostModel selects how the outside-connection road path is costed —
// mirrors pathfind.BuildConfig's cost model (SPEC_FULL.md §4.3). Road spur
// growth does not use it.
type CostModel uint8

const (
	CostNewTiles CostModel = iota
	CostMoney
)

// Weights scores zone/park candidates. Each term is a coefficient over a
// [0,1]-ish signal; TieBreakWeight scales a deterministic per-tile hash
// used only to break exact ties reproducibly (never to introduce real
// randomness into the ranking).
type Weights struct {
	LandValue                        float64
	AdjacencyBonus                   float64 // same-zone-kind neighbor bonus
	IndustrialNearResidentialPenalty float64
	TieBreakWeight                   float64
}

// DefaultWeights mirrors the spec's qualitative ranking: land value
// dominates, same-zone clustering is rewarded, industrial-near-residential
// is discouraged, and ties are broken by a vanishingly small deterministic
// nudge so placement order never depends on map iteration order.
func DefaultWeights() Weights {
	return Weights{
		LandValue:                        1.0,
		AdjacencyBonus:                   0.25,
		IndustrialNearResidentialPenalty: 0.6,
		TieBreakWeight:                   1e-6,
	}
}

// Config is AutoBuildConfig: every tunable of the daily bot pass.
type Config struct {
	EnsureOutsideConnection bool
	BuildCostModel          CostModel
	AllowBridges            bool

	ZonesPerDay      int
	ParksPerDay      int
	MinMoneyReserve  int64
	ZoneWeights      Weights
	ParkWeights      Weights

	AutoUpgradeRoads           bool
	CongestionUpgradeThreshold float64
	RoadUpgradesPerDay         int

	MaxRoadSpurLength int
	RoadSpursPerDay   int
}

// Default returns the spec's default bot tuning: outside-connection
// maintenance on, a handful of zones/parks per day, conservative money
// reserve, congestion-triggered road upgrades, modest spur growth.
func Default() Config {
	return Config{
		EnsureOutsideConnection: true,
		BuildCostModel:          CostMoney,
		AllowBridges:            true,

		ZonesPerDay:     4,
		ParksPerDay:     1,
		MinMoneyReserve: 500,
		ZoneWeights:     DefaultWeights(),
		ParkWeights:     DefaultWeights(),

		AutoUpgradeRoads:           true,
		CongestionUpgradeThreshold: 0.7,
		RoadUpgradesPerDay:         2,

		MaxRoadSpurLength: 6,
		RoadSpursPerDay:   2,
	}
}

// zoneCycle is the fixed Residential/Commercial/Industrial rotation the
// bot cycles through when ranking zone candidates for a given day, so
// zone-kind choice is a function of (day, candidate score) rather than an
// unweighted free-for-all.
var zoneCycle = [3]cityworld.Overlay{cityworld.Residential, cityworld.Commercial, cityworld.Industrial}

func zoneToolFor(o cityworld.Overlay) cityworld.ToolKind {
	switch o {
	case cityworld.Residential:
		return cityworld.ToolZoneResidential
	case cityworld.Commercial:
		return cityworld.ToolZoneCommercial
	case cityworld.Industrial:
		return cityworld.ToolZoneIndustrial
	default:
		return cityworld.ToolBulldoze
	}
}
