package procgen

import (
	"testing"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := Default()
	w1 := Generate(48, 48, 1, cfg)
	w2 := Generate(48, 48, 1, cfg)
	h1 := cityworld.HashWorld(w1, false)
	h2 := cityworld.HashWorld(w2, false)
	if h1 != h2 {
		t.Fatalf("identical (w,h,seed,cfg) must hash identically: %x vs %x", h1, h2)
	}
}

func TestGenerateDiffersBySeed(t *testing.T) {
	cfg := Default()
	w1 := Generate(32, 32, 1, cfg)
	w2 := Generate(32, 32, 2, cfg)
	if cityworld.HashWorld(w1, false) == cityworld.HashWorld(w2, false) {
		t.Fatal("different seeds should (almost certainly) hash differently")
	}
}

func TestGenerateTileCount(t *testing.T) {
	w := Generate(96, 96, 1, Default())
	if len(w.Tiles) != 96*96 {
		t.Fatalf("expected 9216 tiles, got %d", len(w.Tiles))
	}
}

func TestGenerateRoadMasksConsistent(t *testing.T) {
	w := Generate(40, 40, 7, Default())
	for idx, tile := range w.Tiles {
		if tile.Overlay != cityworld.Road {
			continue
		}
		x, y := w.XY(idx)
		want := computeMaskFromNeighbors(w, x, y)
		if tile.RoadMask() != want {
			t.Fatalf("tile (%d,%d) mask=%04b want=%04b", x, y, tile.RoadMask(), want)
		}
	}
}

func computeMaskFromNeighbors(w *cityworld.World, x, y int) uint8 {
	var mask uint8
	bits := [4]uint8{cityworld.MaskNorth, cityworld.MaskEast, cityworld.MaskSouth, cityworld.MaskWest}
	w.ForEachNeighbor4(x, y, func(nx, ny, dir int) {
		if w.At(nx, ny).Overlay == cityworld.Road {
			mask |= bits[dir]
		}
	})
	return mask
}

func TestGenerateDegenerateSizesDoNotPanic(t *testing.T) {
	for _, size := range []int{0, 1, 2, 3} {
		w := Generate(size, size, 1, Default())
		if w == nil {
			t.Fatal("Generate must never return nil")
		}
	}
}

func TestGenerateZonesHaveAdjacentRoad(t *testing.T) {
	w := Generate(48, 48, 3, Default())
	for idx, tile := range w.Tiles {
		if !tile.Overlay.IsZone() {
			continue
		}
		x, y := w.XY(idx)
		if !hasAdjacentRoad(w, x, y) {
			t.Fatalf("zoned tile (%d,%d) has no adjacent road", x, y)
		}
	}
}
