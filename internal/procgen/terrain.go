package procgen

import "github.com/talgya/iso-citysim/internal/cityworld"

// assignTerrain runs step 4 of SPEC_FULL.md §4.1: Water below waterLevel,
// Sand below sandLevel, else Grass. Also writes the quantized height into
// each tile (as a float32, per cityworld.Tile's fixed-size layout).
func assignTerrain(w *cityworld.World, h []float64, cfg Config) {
	for i, v := range h {
		var terrain cityworld.Terrain
		switch {
		case v < cfg.WaterLevel:
			terrain = cityworld.Water
		case v < cfg.SandLevel:
			terrain = cityworld.Sand
		default:
			terrain = cityworld.Grass
		}
		w.Tiles[i] = cityworld.Tile{Terrain: terrain, Height: float32(v)}
	}
}
