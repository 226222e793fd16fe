// Package goods implements SPEC_FULL.md §4.5: multi-source
// producer→consumer goods routing over the road graph, with optional
// import/export via the map-edge field.
package goods

import (
	"sort"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/pathfind"
)

// ODKind tags an aggregated origin-destination edge.
type ODKind uint8

const (
	Local ODKind = iota
	Import
	Export
)

func (k ODKind) String() string {
	switch k {
	case Local:
		return "Local"
	case Import:
		return "Import"
	case Export:
		return "Export"
	default:
		return "Unknown"
	}
}

// Config enumerates the goods pass's tunables.
type Config struct {
	RequireOutsideConnection bool
	AllowImports             bool
	AllowExports             bool
	ImportCapacityPct        float64 // fraction of demand importable per consumer
	SupplyScale              float64
	DemandScale              float64
	EmitDebugEdges           bool
}

// Default returns the spec's default tuning.
func Default() Config {
	return Config{
		RequireOutsideConnection: true,
		AllowImports:             true,
		AllowExports:             true,
		ImportCapacityPct:        1.0,
		SupplyScale:              1.0,
		DemandScale:              1.0,
		EmitDebugEdges:           false,
	}
}

// ODEdge is one aggregated origin-destination flow between a producer (or
// the map edge) and a consumer (or the map edge).
type ODEdge struct {
	ProducerAccessIdx int // -1 for Import
	ConsumerAccessIdx int // -1 for Export
	Kind              ODKind
	Amount            float64
	TotalSteps        int
	TotalCostMilli    int64
	MinStep, MaxStep  int
}

// Result is the output of one goods pass.
type Result struct {
	PerTileFlow       []float64
	GoodsProduced     float64
	GoodsDemand       float64
	GoodsDelivered    float64
	GoodsImported     float64
	GoodsExported     float64
	GoodsSatisfaction float64 // deliveredTotal / demand, clamped [0,1]
	Edges             []ODEdge
}

type producer struct {
	accessIdx int
	supply    float64
	remaining float64
}

type consumer struct {
	accessIdx int
	demand    float64
}

// ComputeGoodsFlow runs the full goods pass of SPEC_FULL.md §4.5.
func ComputeGoodsFlow(w *cityworld.World, cfg Config, roadToEdge []bool) Result {
	n := w.Width * w.Height
	result := Result{PerTileFlow: make([]float64, n)}

	producers := gatherProducers(w, cfg, roadToEdge)
	consumers := gatherConsumers(w, cfg, roadToEdge)

	for _, p := range producers {
		result.GoodsProduced += p.supply
	}
	for _, c := range consumers {
		result.GoodsDemand += c.demand
	}

	if len(producers) == 0 && len(consumers) == 0 {
		return result
	}

	prodRoots := make([]int, len(producers))
	for i, p := range producers {
		prodRoots[i] = p.accessIdx
	}
	prodOwner, prodDist, prodParent := multiSourceOwnerBFS(w, prodRoots)

	var edgeRoots []int
	var edgeDist, edgeParent []int
	if cfg.AllowImports || cfg.AllowExports {
		edgeRoots = edgeRoadTiles(w, roadToEdge)
		edgeDist, edgeParent = multiSourceDistBFS(w, edgeRoots)
	}

	order := make([]int, len(consumers))
	for i := range consumers {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		da := consumerDist(consumers[order[a]], prodOwner, prodDist, w)
		db := consumerDist(consumers[order[b]], prodOwner, prodDist, w)
		return da < db
	})

	edgeMap := make(map[int]*ODEdge)
	key := func(prodIdx, consIdx int, kind ODKind) int {
		return prodIdx*1_000_003 + consIdx*7 + int(kind)
	}
	accumulate := func(prodIdx, consIdx int, kind ODKind, amount float64, steps int, costMilli int64) {
		if !cfg.EmitDebugEdges {
			return
		}
		k := key(prodIdx, consIdx, kind)
		e, ok := edgeMap[k]
		if !ok {
			e = &ODEdge{ProducerAccessIdx: prodIdx, ConsumerAccessIdx: consIdx, Kind: kind, MinStep: steps, MaxStep: steps}
			edgeMap[k] = e
		}
		e.Amount += amount
		e.TotalSteps += steps
		e.TotalCostMilli += costMilli
		if steps < e.MinStep {
			e.MinStep = steps
		}
		if steps > e.MaxStep {
			e.MaxStep = steps
		}
	}

	routeToTile := func(from, to int, parent []int, amount float64) int {
		idx := from
		steps := 0
		for idx >= 0 {
			result.PerTileFlow[idx] += amount
			if idx == to || parent[idx] < 0 {
				break
			}
			idx = parent[idx]
			steps++
		}
		return steps
	}

	for _, ci := range order {
		c := &consumers[ci]
		remaining := c.demand

		if prodOwner != nil && c.accessIdx < len(prodOwner) && prodOwner[c.accessIdx] >= 0 {
			pOwnerIdx := prodOwner[c.accessIdx]
			p := findProducerByAccess(producers, prodRoots[pOwnerIdx])
			if p != nil && p.remaining > 0 && remaining > 0 {
				take := minF(p.remaining, remaining)
				steps := routeToTile(c.accessIdx, p.accessIdx, prodParent, take)
				accumulate(p.accessIdx, c.accessIdx, Local, take, steps, int64(steps)*1000)
				p.remaining -= take
				remaining -= take
				result.GoodsDelivered += take
			}
		}

		if remaining > 0 && cfg.AllowImports && edgeDist != nil {
			cap := c.demand * cfg.ImportCapacityPct
			importAmount := minF(remaining, cap)
			if importAmount > 0 && c.accessIdx < len(edgeDist) && edgeDist[c.accessIdx] >= 0 {
				steps := routeToTile(c.accessIdx, -1, edgeParent, importAmount)
				accumulate(-1, c.accessIdx, Import, importAmount, steps, int64(steps)*1000)
				result.GoodsImported += importAmount
				result.GoodsDelivered += importAmount
				remaining -= importAmount
			}
		}
	}

	if cfg.AllowExports && edgeDist != nil {
		for i := range producers {
			p := &producers[i]
			if p.remaining <= 0 {
				continue
			}
			if p.accessIdx >= len(edgeDist) || edgeDist[p.accessIdx] < 0 {
				continue
			}
			steps := routeToTile(p.accessIdx, -1, edgeParent, p.remaining)
			accumulate(p.accessIdx, -1, Export, p.remaining, steps, int64(steps)*1000)
			result.GoodsExported += p.remaining
			p.remaining = 0
		}
	}

	if result.GoodsDemand > 0 {
		result.GoodsSatisfaction = clamp01(result.GoodsDelivered / result.GoodsDemand)
	}

	if cfg.EmitDebugEdges {
		edges := make([]ODEdge, 0, len(edgeMap))
		for _, e := range edgeMap {
			edges = append(edges, *e)
		}
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].ProducerAccessIdx != edges[j].ProducerAccessIdx {
				return edges[i].ProducerAccessIdx < edges[j].ProducerAccessIdx
			}
			return edges[i].ConsumerAccessIdx < edges[j].ConsumerAccessIdx
		})
		result.Edges = edges
	}

	return result
}

func consumerDist(c consumer, owner, dist []int, w *cityworld.World) int {
	if owner == nil || c.accessIdx >= len(owner) || owner[c.accessIdx] < 0 {
		return 1 << 30
	}
	return dist[c.accessIdx]
}

func findProducerByAccess(producers []producer, accessIdx int) *producer {
	for i := range producers {
		if producers[i].accessIdx == accessIdx {
			return &producers[i]
		}
	}
	return nil
}

func gatherProducers(w *cityworld.World, cfg Config, roadToEdge []bool) []producer {
	var out []producer
	for idx, t := range w.Tiles {
		if t.Overlay != cityworld.Industrial || t.Level == 0 {
			continue
		}
		x, y := w.XY(idx)
		access, ok := accessRoad(w, cfg, roadToEdge, x, y)
		if !ok {
			continue
		}
		supply := 12 * float64(t.Level) * cfg.SupplyScale
		out = append(out, producer{accessIdx: w.Idx(access.X, access.Y), supply: supply, remaining: supply})
	}
	return out
}

func gatherConsumers(w *cityworld.World, cfg Config, roadToEdge []bool) []consumer {
	var out []consumer
	for idx, t := range w.Tiles {
		if t.Overlay != cityworld.Commercial || t.Level == 0 {
			continue
		}
		x, y := w.XY(idx)
		access, ok := accessRoad(w, cfg, roadToEdge, x, y)
		if !ok {
			continue
		}
		demand := 8 * float64(t.Level) * cfg.DemandScale
		out = append(out, consumer{accessIdx: w.Idx(access.X, access.Y), demand: demand})
	}
	return out
}

func accessRoad(w *cityworld.World, cfg Config, roadToEdge []bool, x, y int) (pathfind.Point, bool) {
	if cfg.RequireOutsideConnection {
		return pathfind.PickAdjacentRoadTile(w, roadToEdge, x, y)
	}
	return pathfind.PickAdjacentRoadTile(w, nil, x, y)
}

func edgeRoadTiles(w *cityworld.World, roadToEdge []bool) []int {
	var out []int
	for idx, connected := range roadToEdge {
		if connected {
			out = append(out, idx)
		}
	}
	return out
}

// multiSourceOwnerBFS labels every road tile with the index of its nearest
// source in sources (owner), and returns dist/parent for route tracing.
func multiSourceOwnerBFS(w *cityworld.World, sources []int) (owner []int, dist []int, parent []int) {
	n := w.Width * w.Height
	owner = make([]int, n)
	dist = make([]int, n)
	parent = make([]int, n)
	for i := range owner {
		owner[i] = -1
		dist[i] = -1
		parent[i] = -1
	}
	queue := make([]int, 0, len(sources))
	for i, s := range sources {
		if owner[s] == -1 {
			owner[s] = i
			dist[s] = 0
			queue = append(queue, s)
		}
	}
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		x, y := w.XY(idx)
		w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
			if w.At(nx, ny).Overlay != cityworld.Road {
				return
			}
			nidx := w.Idx(nx, ny)
			if owner[nidx] != -1 {
				return
			}
			owner[nidx] = owner[idx]
			dist[nidx] = dist[idx] + 1
			parent[nidx] = idx
			queue = append(queue, nidx)
		})
	}
	return owner, dist, parent
}

// multiSourceDistBFS is a plain multi-source BFS returning dist/parent,
// without per-tile owner labeling (used for the import/export edge field).
func multiSourceDistBFS(w *cityworld.World, sources []int) (dist []int, parent []int) {
	n := w.Width * w.Height
	dist = make([]int, n)
	parent = make([]int, n)
	for i := range dist {
		dist[i] = -1
		parent[i] = -1
	}
	queue := make([]int, 0, len(sources))
	for _, s := range sources {
		if dist[s] < 0 {
			dist[s] = 0
			queue = append(queue, s)
		}
	}
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		x, y := w.XY(idx)
		w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
			if w.At(nx, ny).Overlay != cityworld.Road {
				return
			}
			nidx := w.Idx(nx, ny)
			if dist[nidx] >= 0 {
				return
			}
			dist[nidx] = dist[idx] + 1
			parent[nidx] = idx
			queue = append(queue, nidx)
		})
	}
	return dist, parent
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
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
