package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

// LayerFields carries the optional precomputed per-tile fields a caller
// may already have on hand (from a simulate.StepOnce pass or an
// autobuild.Observation) so RenderPPM never recomputes an analysis pass
// just to export a picture of it. Layers that need a field not supplied
// here read it as 0 and render as the blue (cold) end of the heat ramp.
type LayerFields struct {
	LandValue   []float64
	TrafficFlow []float64
	GoodsFlow   []float64
}

// SupportedLayers lists the --export-ppm layer names this build can
// render — the subset of SPEC_FULL.md §6's layer list actually backed by
// a core component. heat_island/runoff_pollution/livability/solar_potential
// are spec.md §1's "optional shallow reports": named there as external
// collaborators outside core scope, so they are not implemented here (see
// DESIGN.md).
var SupportedLayers = []string{"terrain", "overlay", "height", "landvalue", "traffic", "goods_traffic", "goods_fill", "district"}

func isSupportedLayer(layer string) bool {
	for _, l := range SupportedLayers {
		if l == layer {
			return true
		}
	}
	return false
}

// RenderPPM writes w's named layer to path as a binary (P6) PPM image, one
// pixel per tile in row-major order.
func RenderPPM(path string, w *cityworld.World, layer string, fields LayerFields) error {
	if !isSupportedLayer(layer) {
		return cityworld.NewInvalidArgument(fmt.Sprintf("unsupported export-ppm layer %q", layer))
	}

	f, err := os.Create(path)
	if err != nil {
		return cityworld.NewIoError(path, fmt.Errorf("create ppm: %w", err))
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", w.Width, w.Height); err != nil {
		return cityworld.NewIoError(path, fmt.Errorf("write ppm header: %w", err))
	}

	for idx := range w.Tiles {
		r, g, b := pixelFor(w, idx, layer, fields)
		if _, err := bw.Write([]byte{r, g, b}); err != nil {
			return cityworld.NewIoError(path, fmt.Errorf("write ppm pixel: %w", err))
		}
	}
	return bw.Flush()
}

func pixelFor(w *cityworld.World, idx int, layer string, fields LayerFields) (byte, byte, byte) {
	t := w.Tiles[idx]
	switch layer {
	case "terrain":
		return terrainColor(t.Terrain)
	case "overlay":
		return overlayColor(t.Overlay)
	case "height":
		v := clampByte(float64(t.Height))
		return v, v, v
	case "landvalue":
		return heatColor(valueAt(fields.LandValue, idx))
	case "traffic", "goods_traffic":
		return heatColor(valueAt(fields.TrafficFlow, idx))
	case "goods_fill":
		return heatColor(valueAt(fields.GoodsFlow, idx))
	case "district":
		return districtColor(t.District)
	default:
		return 0, 0, 0
	}
}

func valueAt(field []float64, idx int) float64 {
	if field == nil || idx >= len(field) {
		return 0
	}
	return field[idx]
}

func terrainColor(t cityworld.Terrain) (byte, byte, byte) {
	switch t {
	case cityworld.Water:
		return 40, 90, 200
	case cityworld.Sand:
		return 220, 200, 140
	case cityworld.Grass:
		return 90, 160, 70
	default:
		return 0, 0, 0
	}
}

func overlayColor(o cityworld.Overlay) (byte, byte, byte) {
	switch o {
	case cityworld.Road:
		return 90, 90, 90
	case cityworld.Residential:
		return 80, 200, 110
	case cityworld.Commercial:
		return 80, 140, 230
	case cityworld.Industrial:
		return 230, 170, 50
	case cityworld.Park:
		return 40, 150, 40
	case cityworld.School, cityworld.Hospital, cityworld.PoliceStation, cityworld.FireStation:
		return 230, 60, 60
	default:
		return 210, 210, 200 // None: bare ground
	}
}

// districtColor assigns one of 8 fixed hues per district id so adjacent
// districts are visually distinguishable without a legend.
func districtColor(d uint8) (byte, byte, byte) {
	palette := [8][3]byte{
		{230, 25, 75}, {60, 180, 75}, {255, 225, 25}, {0, 130, 200},
		{245, 130, 48}, {145, 30, 180}, {70, 240, 240}, {240, 50, 230},
	}
	c := palette[int(d)%len(palette)]
	return c[0], c[1], c[2]
}

// heatColor maps a [0,1] value to a blue -> yellow -> red heat ramp.
func heatColor(v float64) (byte, byte, byte) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	switch {
	case v < 0.5:
		t := v / 0.5
		return clampByte(t), clampByte(t), clampByte(1 - t)
	default:
		t := (v - 0.5) / 0.5
		return 255, clampByte(1 - t), 0
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return byte(v * 255)
}
