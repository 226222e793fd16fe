package procgen

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// heightField runs step 1 of SPEC_FULL.md §4.1: multi-octave opensimplex
// noise keyed by seed, scaled by cfg.TerrainScale, blended with a
// preset-specific radial mask by cfg.TerrainPresetStrength.
func heightField(width, height int, seed uint64, cfg Config) []float64 {
	noise := opensimplex.NewNormalized(int64(seed))
	out := make([]float64, width*height)
	cx, cy := float64(width)/2, float64(height)/2
	maxDist := math.Hypot(cx, cy)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			nx := float64(x) * cfg.TerrainScale
			ny := float64(y) * cfg.TerrainScale
			v := octaveNoise(noise, nx, ny, 5, 1.0, 0.5)

			dist := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			v = applyPresetMask(v, dist, x, y, width, height, cfg)

			out[y*width+x] = v
		}
	}
	return out
}

// octaveNoise layers octaves octaves of noise starting at frequency with
// persistence amplitude falloff, normalized to [0,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

// applyPresetMask blends the raw noise value v with a radial/corridor/ridge
// mask depending on cfg.TerrainPresetKind, scaled by TerrainPresetStrength
// in [0,5].
func applyPresetMask(v, distNorm float64, x, y, width, height int, cfg Config) float64 {
	strength := cfg.TerrainPresetStrength
	if strength <= 0 {
		return clamp01(v)
	}

	switch cfg.TerrainPresetKind {
	case Island:
		fallout := distNorm * distNorm
		return clamp01(v - fallout*strength*0.5)
	case Archipelago:
		fallout := distNorm * distNorm
		return clamp01(v - fallout*strength*0.7 + 0.05*strength)
	case InlandSea:
		return clamp01(v + distNorm*distNorm*strength*0.3)
	case RiverValley:
		t := float64(x) / float64(maxInt(width-1, 1))
		corridor := math.Sin(t*math.Pi*2) * 0.5
		return clamp01(v - (1-math.Abs(corridor))*0.0 - corridorDepth(t)*strength*0.2)
	case MountainRing:
		ring := 1 - math.Abs(distNorm-0.6)*3
		if ring < 0 {
			ring = 0
		}
		return clamp01(v + ring*strength*0.3)
	default: // Classic
		return clamp01(v)
	}
}

// corridorDepth is the RiverValley carve profile along the x axis: a
// sinusoidal low corridor running the width of the map.
func corridorDepth(t float64) float64 {
	return 0.5 + 0.5*math.Cos(t*math.Pi*2)
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
