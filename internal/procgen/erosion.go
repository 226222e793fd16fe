package procgen

import "math"

// erode runs step 2 of SPEC_FULL.md §4.1: thermal erosion, four-neighbor
// flow-accumulation rivers, and box-blur smoothing, each a fixed, fully
// sequential pass over the height grid — order and pass count are part of
// the hash contract.
func erode(h []float64, width, height int, cfg Config) []float64 {
	if !cfg.ErosionEnabled {
		return h
	}
	out := thermalErosion(h, width, height, cfg.ThermalIterations, cfg.ThermalTalus, cfg.ThermalRate)
	out = carveRivers(out, width, height, cfg.RiverMinAccum, cfg.RiverCarve, cfg.RiverCarvePower)
	out = boxBlur(out, width, height, cfg.SmoothIterations)
	return out
}

var thermalNeighbors = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// thermalErosion performs iterations passes of four-neighbor slope-limited
// material transport: any neighbor pair whose height difference exceeds
// talus exchanges rate*excess of material, moving from high to low.
func thermalErosion(h []float64, width, height, iterations int, talus, rate float64) []float64 {
	cur := append([]float64(nil), h...)
	for iter := 0; iter < iterations; iter++ {
		next := append([]float64(nil), cur...)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				idx := y*width + x
				for _, d := range thermalNeighbors {
					nx, ny := x+d[0], y+d[1]
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					nidx := ny*width + nx
					diff := cur[idx] - cur[nidx]
					if diff > talus {
						excess := (diff - talus) * rate * 0.5
						next[idx] -= excess
						next[nidx] += excess
					}
				}
			}
		}
		cur = next
	}
	return cur
}

// carveRivers computes a flow-accumulation field over the four orthogonal
// neighbors (diagonals are not considered; each cell passes its flow to
// its lowest lower neighbor) then lowers any cell whose accumulation is at
// least minAccum by carve*(accum-minAccum)^carvePower, clamped at 0.
func carveRivers(h []float64, width, height int, minAccum, carve, carvePower float64) []float64 {
	n := width * height
	downhill := make([]int, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// Sort cells by descending height so accumulation propagates from
	// peaks to valleys in a single deterministic pass.
	sortByHeightDesc(order, h)

	for idx, i := range order {
		_ = idx
		x, y := i%width, i/width
		best := -1
		bestH := h[i]
		for _, d := range thermalNeighbors {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			nidx := ny*width + nx
			if h[nidx] < bestH {
				bestH = h[nidx]
				best = nidx
			}
		}
		downhill[i] = best
	}

	accum := make([]float64, n)
	for i := range accum {
		accum[i] = 1
	}
	for _, i := range order {
		if downhill[i] >= 0 {
			accum[downhill[i]] += accum[i]
		}
	}

	out := append([]float64(nil), h...)
	for i := 0; i < n; i++ {
		if accum[i] >= minAccum {
			excess := accum[i] - minAccum
			out[i] -= carve * pow(excess, carvePower)
			if out[i] < 0 {
				out[i] = 0
			}
		}
	}
	return out
}

// sortByHeightDesc sorts order (indices into h) by descending h value with
// index as a deterministic tiebreaker, in place, using a hand-written
// insertion sort.
func sortByHeightDesc(order []int, h []float64) {
	insertionSort(order, func(a, b int) bool {
		if h[a] != h[b] {
			return h[a] > h[b]
		}
		return a < b
	})
}

func insertionSort(s []int, less func(a, b int) bool) {
	for i := 1; i < len(s); i++ {
		j := i
		for j > 0 && less(s[j], s[j-1]) {
			s[j], s[j-1] = s[j-1], s[j]
			j--
		}
	}
}

func pow(base, exp float64) float64 {
	if base <= 0 {
		return 0
	}
	return math.Pow(base, exp)
}

// boxBlur applies `iterations` 3x3 box-blur passes.
func boxBlur(h []float64, width, height, iterations int) []float64 {
	cur := h
	for iter := 0; iter < iterations; iter++ {
		next := make([]float64, len(cur))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				sum := 0.0
				count := 0.0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := x+dx, y+dy
						if nx < 0 || ny < 0 || nx >= width || ny >= height {
							continue
						}
						sum += cur[ny*width+nx]
						count++
					}
				}
				next[y*width+x] = sum / count
			}
		}
		cur = next
	}
	return cur
}

// quantize rounds every height to a fixed grid of QuantizeScale steps, per
// SPEC_FULL.md §4.1 step 3 — necessary for determinism across hosts whose
// floating point noise libraries might drift in the last bit.
func quantize(h []float64, scale float64) []float64 {
	if scale <= 0 {
		scale = 255
	}
	out := make([]float64, len(h))
	for i, v := range h {
		out[i] = roundTo(v*scale) / scale
	}
	return out
}

func roundTo(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}
