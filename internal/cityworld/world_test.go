package cityworld

import "testing"

func TestIdxRoundTrip(t *testing.T) {
	w := NewWorld(10, 6, 1)
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			idx := w.Idx(x, y)
			gx, gy := w.XY(idx)
			if gx != x || gy != y {
				t.Fatalf("XY(Idx(%d,%d)) = (%d,%d)", x, y, gx, gy)
			}
		}
	}
}

func TestRoadMaskConsistency(t *testing.T) {
	w := NewWorld(5, 5, 1)
	for _, t2 := range [][2]int{{1, 1}, {2, 1}, {1, 2}, {1, 0}} {
		w.Set(t2[0], t2[1], Tile{Terrain: Grass, Overlay: Road, Level: 1})
	}
	w.RecomputeRoadMasks()

	// (1,1) should connect N(1,0), E(2,1), S(1,2), not W(0,1).
	got := w.At(1, 1).RoadMask()
	want := MaskNorth | MaskEast | MaskSouth
	if got != want {
		t.Fatalf("mask = %04b, want %04b", got, want)
	}
}

func TestApplyToolZoneRequiresRoad(t *testing.T) {
	w := NewWorld(5, 5, 1)
	for i := range w.Tiles {
		w.Tiles[i] = Tile{Terrain: Grass}
	}
	w.Stats.Money = 1000
	opts := DefaultEditOptions()

	if res := w.ApplyTool(ToolZoneResidential, 2, 2, opts); res != BlockedNoRoad {
		t.Fatalf("expected BlockedNoRoad, got %v", res)
	}

	if res := w.ApplyTool(ToolRoad, 2, 1, opts); !res.Ok() {
		t.Fatalf("road placement failed: %v", res)
	}
	if res := w.ApplyTool(ToolZoneResidential, 2, 2, opts); !res.Ok() {
		t.Fatalf("expected Applied, got %v", res)
	}
}

func TestApplyToolWaterBlocksNonBridgeRoad(t *testing.T) {
	w := NewWorld(3, 3, 1)
	w.Set(1, 1, Tile{Terrain: Water})
	w.Stats.Money = 1000
	opts := DefaultEditOptions()
	if res := w.ApplyTool(ToolRoad, 1, 1, opts); res != BlockedWater {
		t.Fatalf("expected BlockedWater, got %v", res)
	}
	opts.AllowBridges = true
	if res := w.ApplyTool(ToolRoad, 1, 1, opts); !res.Ok() {
		t.Fatalf("expected Applied with bridges allowed, got %v", res)
	}
}

func TestApplyToolInsufficientFunds(t *testing.T) {
	w := NewWorld(3, 3, 1)
	w.Stats.Money = 0
	opts := DefaultEditOptions()
	if res := w.ApplyTool(ToolRoad, 1, 1, opts); res != InsufficientFunds {
		t.Fatalf("expected InsufficientFunds, got %v", res)
	}
}

func TestHashWorldDeterministic(t *testing.T) {
	w1 := NewWorld(8, 8, 99)
	w2 := NewWorld(8, 8, 99)
	w1.Set(2, 2, Tile{Terrain: Grass, Overlay: Road, Level: 1})
	w2.Set(2, 2, Tile{Terrain: Grass, Overlay: Road, Level: 1})
	w1.RecomputeRoadMasks()
	w2.RecomputeRoadMasks()
	if HashWorld(w1, false) != HashWorld(w2, false) {
		t.Fatal("identical worlds must hash identically")
	}
	w2.Set(3, 3, Tile{Terrain: Sand})
	if HashWorld(w1, false) == HashWorld(w2, false) {
		t.Fatal("differing worlds must hash differently")
	}
}

// TestNarrowRoadMaskMatchesFullRecompute guards the invariant documented on
// RecomputeRoadMasks: building up a road network tile-by-tile through
// ApplyTool (which only touches the edited tile and its four neighbors)
// must leave every mask identical to a full RecomputeRoadMasks pass over
// the finished grid.
func TestNarrowRoadMaskMatchesFullRecompute(t *testing.T) {
	w := NewWorld(8, 8, 7)
	for i := range w.Tiles {
		w.Tiles[i] = Tile{Terrain: Grass}
	}
	w.Stats.Money = 1_000_000
	opts := DefaultEditOptions()

	// A deliberately non-convex road layout so neighbors get touched out
	// of order: a loop plus a stray spur.
	coords := [][2]int{
		{1, 1}, {2, 1}, {3, 1}, {3, 2}, {3, 3}, {2, 3}, {1, 3}, {1, 2},
		{4, 3}, {5, 3}, {5, 2},
	}
	for _, c := range coords {
		if res := w.ApplyTool(ToolRoad, c[0], c[1], opts); !res.Ok() {
			t.Fatalf("ApplyTool(%d,%d) = %v, want Applied", c[0], c[1], res)
		}
	}

	narrow := make([]uint8, len(w.Tiles))
	for i, t2 := range w.Tiles {
		narrow[i] = t2.RoadMask()
	}

	w.RecomputeRoadMasks()
	for i, t2 := range w.Tiles {
		if got, want := t2.RoadMask(), narrow[i]; got != want {
			x, y := i%w.Width, i/w.Width
			t.Fatalf("tile (%d,%d): narrow-update mask %04b, full-recompute mask %04b", x, y, narrow[i], got)
		}
	}
}

func TestFillRectAppliesAndRecomputesMasks(t *testing.T) {
	w := NewWorld(10, 10, 1)
	for i := range w.Tiles {
		w.Tiles[i] = Tile{Terrain: Grass}
	}
	w.Stats.Money = 10000
	opts := DefaultEditOptions()
	n := w.FillRect(ToolRoad, 1, 1, 5, 1, opts)
	if n != 5 {
		t.Fatalf("expected 5 road tiles placed, got %d", n)
	}
	for x := 2; x <= 4; x++ {
		if w.At(x, 1).RoadMask()&(MaskEast|MaskWest) != (MaskEast | MaskWest) {
			t.Fatalf("interior road at x=%d missing E/W mask bits", x)
		}
	}
}
