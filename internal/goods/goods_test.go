package goods

import (
	"testing"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/pathfind"
)

// linearGoodsWorld builds: I - road... - C along row y=0.
func linearGoodsWorld(w int, indLevel, comLevel uint8) *cityworld.World {
	world := cityworld.NewWorld(w, 1, 1)
	set := func(x int, o cityworld.Overlay, level uint8) {
		t := world.At(x, 0)
		t.Terrain = cityworld.Grass
		t.Overlay = o
		t.Level = level
		world.Set(x, 0, t)
	}
	set(0, cityworld.Industrial, indLevel)
	for x := 1; x < w-1; x++ {
		set(x, cityworld.Road, uint8(cityworld.Street))
	}
	set(w-1, cityworld.Commercial, comLevel)
	world.RecomputeRoadMasks()
	return world
}

func TestComputeGoodsFlowLocalDelivery(t *testing.T) {
	w := linearGoodsWorld(8, 3, 1)
	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)
	cfg := Default()
	result := ComputeGoodsFlow(w, cfg, roadToEdge)

	if result.GoodsProduced != 36 { // 12*3
		t.Fatalf("expected produced=36, got %f", result.GoodsProduced)
	}
	if result.GoodsDemand != 8 { // 8*1
		t.Fatalf("expected demand=8, got %f", result.GoodsDemand)
	}
	if result.GoodsDelivered < result.GoodsDemand-1e-9 {
		t.Fatalf("expected demand fully satisfied locally, delivered=%f demand=%f", result.GoodsDelivered, result.GoodsDemand)
	}
	if result.GoodsExported <= 0 {
		t.Fatal("expected surplus producer supply to export via edge field")
	}
}

func TestComputeGoodsFlowConservation(t *testing.T) {
	w := linearGoodsWorld(10, 1, 3)
	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)
	cfg := Default()
	result := ComputeGoodsFlow(w, cfg, roadToEdge)

	if result.GoodsDelivered > result.GoodsProduced+result.GoodsImported+1e-9 {
		t.Fatalf("goods conservation violated: delivered=%f produced=%f imported=%f",
			result.GoodsDelivered, result.GoodsProduced, result.GoodsImported)
	}
	if result.GoodsExported > result.GoodsProduced+1e-9 {
		t.Fatalf("exported must not exceed produced: exported=%f produced=%f", result.GoodsExported, result.GoodsProduced)
	}
}

func TestComputeGoodsFlowNoProducersOrConsumers(t *testing.T) {
	w := cityworld.NewWorld(4, 4, 1)
	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)
	result := ComputeGoodsFlow(w, Default(), roadToEdge)
	if result.GoodsProduced != 0 || result.GoodsDemand != 0 {
		t.Fatal("expected zero supply/demand with no industrial/commercial tiles")
	}
}

func TestComputeGoodsFlowDebugEdgesTagged(t *testing.T) {
	w := linearGoodsWorld(8, 1, 1)
	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)
	cfg := Default()
	cfg.EmitDebugEdges = true
	result := ComputeGoodsFlow(w, cfg, roadToEdge)
	if len(result.Edges) == 0 {
		t.Fatal("expected at least one debug OD edge")
	}
	for _, e := range result.Edges {
		if e.Kind != Local && e.Kind != Import && e.Kind != Export {
			t.Fatalf("unexpected OD edge kind %v", e.Kind)
		}
	}
}
