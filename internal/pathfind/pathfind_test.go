package pathfind

import (
	"testing"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

func straightRoadWorld(w, h int) *cityworld.World {
	world := cityworld.NewWorld(w, h, 1)
	for i := range world.Tiles {
		world.Tiles[i] = cityworld.Tile{Terrain: cityworld.Grass}
	}
	world.Stats.Money = 1_000_000
	opts := cityworld.DefaultEditOptions()
	for x := 0; x < w; x++ {
		world.ApplyTool(cityworld.ToolRoad, x, h/2, opts)
	}
	world.RecomputeRoadMasks()
	return world
}

func TestComputeRoadsConnectedToEdge(t *testing.T) {
	w := straightRoadWorld(6, 5)
	mask := ComputeRoadsConnectedToEdge(w)
	for x := 0; x < 6; x++ {
		if !mask[w.Idx(x, 2)] {
			t.Fatalf("tile (%d,2) should be edge-connected", x)
		}
	}
}

func TestFindRoadPathAStar(t *testing.T) {
	w := straightRoadWorld(6, 5)
	path, cost, ok := FindRoadPathAStar(w, Point{0, 2}, Point{5, 2})
	if !ok {
		t.Fatal("expected path to be found")
	}
	if len(path) != 6 {
		t.Fatalf("expected 6-tile path, got %d", len(path))
	}
	if cost != 5 {
		t.Fatalf("expected cost 5, got %v", cost)
	}
}

func TestFindRoadPathAStarUnreachable(t *testing.T) {
	w := straightRoadWorld(6, 5)
	// isolate one end by bulldozing a link.
	w.ApplyTool(cityworld.ToolBulldoze, 3, 2, cityworld.DefaultEditOptions())
	w.RecomputeRoadMasks()
	_, _, ok := FindRoadPathAStar(w, Point{0, 2}, Point{5, 2})
	if ok {
		t.Fatal("expected no path after severing the road")
	}
}

func TestFindLandPathAStarAvoidsWater(t *testing.T) {
	w := cityworld.NewWorld(5, 3, 1)
	for i := range w.Tiles {
		w.Tiles[i] = cityworld.Tile{Terrain: cityworld.Grass}
	}
	for y := 0; y < 3; y++ {
		w.Set(2, y, cityworld.Tile{Terrain: cityworld.Water})
	}
	if _, _, ok := FindLandPathAStar(w, Point{0, 1}, Point{4, 1}, false); ok {
		t.Fatal("expected no land-only path across a full water column")
	}
	path, _, ok := FindLandPathAStar(w, Point{0, 1}, Point{4, 1}, true)
	if !ok || len(path) == 0 {
		t.Fatal("expected a bridged path")
	}
}

func TestFindRoadBuildPathNewTiles(t *testing.T) {
	w := cityworld.NewWorld(5, 1, 1)
	for i := range w.Tiles {
		w.Tiles[i] = cityworld.Tile{Terrain: cityworld.Grass}
	}
	cfg := DefaultBuildConfig()
	path, cost, ok := FindRoadBuildPath(w, Point{0, 0}, Point{4, 0}, cfg)
	if !ok {
		t.Fatal("expected a build path")
	}
	if cost != 4 { // 4 new tiles entered beyond the start
		t.Fatalf("expected cost 4, got %v", cost)
	}
	if len(path) != 5 {
		t.Fatalf("expected 5-tile path, got %d", len(path))
	}
}
