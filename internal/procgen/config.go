// Package procgen implements GenerateWorld, the deterministic world
// synthesis pipeline of SPEC_FULL.md §4.1: height field, erosion, terrain
// assignment, road skeleton, zoning seed, district assignment, road masks —
// in that fixed order, since reordering changes hashes. Style is grounded
// on tobyjaguar-mini-world's internal/world/generation.go (octave noise,
// edge falloff, steepest-descent river tracing), generalized from a hex
// grid to the row-major square grid cityworld.World uses, and rebuilt on
// github.com/ojrac/opensimplex-go plus the deterministic entropy package
// instead of math/rand so every draw is reproducible from a single seed.
package procgen

// TerrainPreset shapes the height field's radial mask (SPEC_FULL.md §4.1 step 1).
type TerrainPreset uint8

const (
	Classic TerrainPreset = iota
	Island
	Archipelago
	InlandSea
	RiverValley
	MountainRing
)

// RoadLayout selects the road-skeleton generation strategy (step 5).
type RoadLayout uint8

const (
	Organic RoadLayout = iota
	Grid
	Radial
	SpaceColonization
)

// DistrictingMode selects the district-assignment strategy (step 7).
type DistrictingMode uint8

const (
	Voronoi DistrictingMode = iota
	RoadFlow
	BlockGraph
)

// Config holds every tunable of the generation pipeline. Defaults are
// deterministic; nothing here reaches the clock or host RNG.
type Config struct {
	TerrainScale          float64       `json:"terrainScale"`
	WaterLevel            float64       `json:"waterLevel"`
	SandLevel             float64       `json:"sandLevel"`
	TerrainPresetKind     TerrainPreset `json:"terrainPreset"`
	TerrainPresetStrength float64       `json:"terrainPresetStrength"` // [0,5]

	ErosionEnabled    bool    `json:"erosionEnabled"`
	ThermalIterations int     `json:"thermalIterations"`
	ThermalTalus      float64 `json:"thermalTalus"`
	ThermalRate       float64 `json:"thermalRate"`
	RiverMinAccum     float64 `json:"riverMinAccum"`
	RiverCarve        float64 `json:"riverCarve"`
	RiverCarvePower   float64 `json:"riverCarvePower"`
	SmoothIterations  int     `json:"smoothIterations"`
	QuantizeScale     float64 `json:"quantizeScale"`

	HubCount              int        `json:"hubCount"`
	ExtraConnections      int        `json:"extraConnections"`
	RoadLayoutKind        RoadLayout `json:"roadLayout"`
	RoadHierarchyEnabled  bool       `json:"roadHierarchyEnabled"`
	RoadHierarchyStrength float64    `json:"roadHierarchyStrength"`
	AllowBridges          bool       `json:"allowBridges"`

	ZoneChance float64 `json:"zoneChance"`
	ParkChance float64 `json:"parkChance"`

	DistrictModeKind DistrictingMode `json:"districtMode"`
}

// Default returns the spec's default tuning: mild Classic terrain, light
// erosion, organic road layout, moderate zoning density, Voronoi districts.
func Default() Config {
	return Config{
		TerrainScale:          0.06,
		WaterLevel:            0.32,
		SandLevel:             0.38,
		TerrainPresetKind:     Classic,
		TerrainPresetStrength: 1.0,

		ErosionEnabled:    true,
		ThermalIterations: 3,
		ThermalTalus:      0.02,
		ThermalRate:       0.5,
		RiverMinAccum:     24,
		RiverCarve:        0.15,
		RiverCarvePower:   0.5,
		SmoothIterations:  1,
		QuantizeScale:     255,

		HubCount:              6,
		ExtraConnections:      3,
		RoadLayoutKind:        Organic,
		RoadHierarchyEnabled:  true,
		RoadHierarchyStrength: 1.0,
		AllowBridges:          true,

		ZoneChance: 0.55,
		ParkChance: 0.08,

		DistrictModeKind: Voronoi,
	}
}
