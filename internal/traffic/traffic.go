// Package traffic implements SPEC_FULL.md §4.4: commute assignment over
// the road graph, with an optional BPR/MSA congestion equilibrium. It is a
// pure function of (World, Config, employedShare, roadToEdge) — no results
// are cached on World.
package traffic

import (
	"container/heap"
	"math"
	"sort"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/entropy"
	"github.com/talgya/iso-citysim/internal/pathfind"
)

// Config enumerates the traffic pass's tunables.
type Config struct {
	RequireOutsideConnection bool

	CongestionAwareRouting bool
	CongestionIterations   int
	Alpha                  float64 // BPR alpha
	Beta                   float64 // BPR beta
	BaseCapacity           float64
	CapacityScale          float64
	RatioClamp             float64
}

// Default returns the spec's default tuning.
func Default() Config {
	return Config{
		RequireOutsideConnection: true,
		CongestionAwareRouting:   true,
		CongestionIterations:     4,
		Alpha:                    0.15,
		Beta:                     4.0,
		BaseCapacity:             40,
		CapacityScale:            1.0,
		RatioClamp:               4.0,
	}
}

// Result is the output of one traffic pass: per-tile flow plus the
// aggregates published to Stats.
type Result struct {
	PerTileFlow            []float64 // indexed by y*w+x, road tiles only meaningful
	TotalCommuters         int
	ReachableCommuters     int
	UnreachableCommuters   int
	AvgCommute             float64 // route-steps
	AvgCommuteTime         float64 // travel-time units
	P95Commute             float64
	Congestion             float64
	JobsCapacityAccessible int
}

// capacityMultiplierForLevel scales base capacity by road class.
func capacityMultiplierForLevel(level uint8) float64 {
	switch cityworld.RoadClass(level) {
	case cityworld.Avenue:
		return 2.0
	case cityworld.Highway:
		return 4.0
	default:
		return 1.0
	}
}

// freeFlowTimeForLevel is the travel-time units spent crossing one tile of
// the given road class at free flow.
func freeFlowTimeForLevel(level uint8) float64 {
	switch cityworld.RoadClass(level) {
	case cityworld.Avenue:
		return 0.66
	case cityworld.Highway:
		return 0.4
	default:
		return 1.0
	}
}

type source struct {
	idx       int // tile idx of the residential tile
	accessIdx int // tile idx of its adjacent edge-connected road tile
	commuters int
}

type sink struct {
	accessIdx int
	capacity  int
}

// ComputeCommuteTraffic runs the full traffic pass of SPEC_FULL.md §4.4.
func ComputeCommuteTraffic(w *cityworld.World, cfg Config, employedShare float64, roadToEdge []bool) Result {
	n := w.Width * w.Height
	result := Result{PerTileFlow: make([]float64, n)}

	sources := gatherSources(w, cfg, employedShare, roadToEdge)
	sinks, totalCapacity := gatherSinks(w, cfg, roadToEdge)

	for _, s := range sources {
		result.TotalCommuters += s.commuters
	}
	result.JobsCapacityAccessible = totalCapacity

	if len(sources) == 0 || len(sinks) == 0 {
		return result
	}

	sinkRoads := make([]int, len(sinks))
	for i, s := range sinks {
		sinkRoads[i] = s.accessIdx
	}

	dist, parent := multiSourceBFS(w, sinkRoads)

	flow := make([]float64, n)
	commuteSteps := make([]float64, 0, len(sources))
	weights := make([]float64, 0, len(sources))

	assign := func(flowField []float64, dist []float64, parent []int) (reached int, steps []float64, weights []float64) {
		steps = make([]float64, 0, len(sources))
		weights = make([]float64, 0, len(sources))
		for _, s := range sources {
			if dist[s.accessIdx] < 0 {
				continue
			}
			reached += s.commuters
			idx := s.accessIdx
			hops := 0.0
			for idx >= 0 {
				flowField[idx] += float64(s.commuters)
				if parent[idx] < 0 {
					break
				}
				idx = parent[idx]
				hops++
			}
			steps = append(steps, hops)
			weights = append(weights, float64(s.commuters))
		}
		return
	}

	reached, steps0, w0 := assign(flow, dist, parent)
	result.ReachableCommuters = reached
	result.UnreachableCommuters = result.TotalCommuters - reached
	commuteSteps = steps0
	weights = w0

	if cfg.CongestionAwareRouting && result.ReachableCommuters > 0 {
		for pass := 1; pass <= cfg.CongestionIterations; pass++ {
			travelTime := buildTravelTimeField(w, flow, cfg)
			newDist, newParent := multiSourceDijkstra(w, sinkRoads, travelTime)

			newFlow := make([]float64, n)
			_, steps, ws := assign(newFlow, newDist, newParent)
			commuteSteps = steps
			weights = ws

			msa := 1.0 / float64(pass)
			for i := range flow {
				flow[i] += (newFlow[i] - flow[i]) * msa
			}
			dist, parent = newDist, newParent
		}
	}

	result.PerTileFlow = flow
	result.AvgCommute = weightedAvg(commuteSteps, weights)
	result.AvgCommuteTime = computeAvgTravelTime(w, flow, cfg, sources, dist, parent)
	result.P95Commute = weightedPercentile(commuteSteps, weights, 0.95)
	result.Congestion = computeCongestion(w, flow, cfg)
	return result
}

func gatherSources(w *cityworld.World, cfg Config, employedShare float64, roadToEdge []bool) []source {
	var sources []source
	for idx, t := range w.Tiles {
		if t.Overlay != cityworld.Residential || t.Occupants == 0 {
			continue
		}
		x, y := w.XY(idx)
		var access pathfind.Point
		var ok bool
		if cfg.RequireOutsideConnection {
			access, ok = pathfind.PickAdjacentRoadTile(w, roadToEdge, x, y)
		} else {
			access, ok = pathfind.PickAdjacentRoadTile(w, nil, x, y)
		}
		if !ok {
			continue
		}
		dither := entropy.HashFloat64(w.Seed()^0xC077117E, x, y)
		commuters := int(float64(t.Occupants)*employedShare + dither)
		if commuters <= 0 {
			continue
		}
		sources = append(sources, source{idx: idx, accessIdx: w.Idx(access.X, access.Y), commuters: commuters})
	}
	return sources
}

func gatherSinks(w *cityworld.World, cfg Config, roadToEdge []bool) ([]sink, int) {
	var sinks []sink
	total := 0
	for idx, t := range w.Tiles {
		if t.Overlay != cityworld.Commercial && t.Overlay != cityworld.Industrial {
			continue
		}
		x, y := w.XY(idx)
		var access pathfind.Point
		var ok bool
		if cfg.RequireOutsideConnection {
			access, ok = pathfind.PickAdjacentRoadTile(w, roadToEdge, x, y)
		} else {
			access, ok = pathfind.PickAdjacentRoadTile(w, nil, x, y)
		}
		if !ok {
			continue
		}
		cap := int(cityworld.CapacityForLevel(t.Overlay, t.Level))
		sinks = append(sinks, sink{accessIdx: w.Idx(access.X, access.Y), capacity: cap})
		total += cap
	}
	return sinks, total
}

// multiSourceBFS returns (dist, parent) flat arrays from a BFS seeded at
// every tile in sources, traveling only over Road tiles.
func multiSourceBFS(w *cityworld.World, sources []int) ([]float64, []int) {
	n := w.Width * w.Height
	dist := make([]float64, n)
	parent := make([]int, n)
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

// buildTravelTimeField computes the BPR travel time t(tile) for every road
// tile given the current flow field.
func buildTravelTimeField(w *cityworld.World, flow []float64, cfg Config) []float64 {
	n := w.Width * w.Height
	t := make([]float64, n)
	for idx, tile := range w.Tiles {
		if tile.Overlay != cityworld.Road {
			continue
		}
		tFree := freeFlowTimeForLevel(tile.Level)
		capacity := cfg.BaseCapacity * cfg.CapacityScale * capacityMultiplierForLevel(tile.Level)
		ratio := 0.0
		if capacity > 0 {
			ratio = flow[idx] / capacity
		}
		if ratio > cfg.RatioClamp {
			ratio = cfg.RatioClamp
		}
		t[idx] = tFree * (1 + cfg.Alpha*powInt(ratio, cfg.Beta))
	}
	return t
}

func powInt(base, exp float64) float64 {
	if base <= 0 {
		return 0
	}
	return math.Pow(base, exp)
}

// multiSourceDijkstra computes the shortest-travel-time tree from sources
// over road tiles, weighted by the supplied per-tile travel-time field
// (the weight of *entering* a tile).
func multiSourceDijkstra(w *cityworld.World, sources []int, travelTime []float64) ([]float64, []int) {
	n := w.Width * w.Height
	dist := make([]float64, n)
	parent := make([]int, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = -1
		parent[i] = -1
	}

	pq := &ttQueue{}
	for _, s := range sources {
		dist[s] = 0
		pq.items = append(pq.items, ttItem{idx: s, priority: 0})
	}
	pq.init()

	for pq.len() > 0 {
		cur := pq.pop()
		if visited[cur.idx] {
			continue
		}
		visited[cur.idx] = true
		x, y := w.XY(cur.idx)
		w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
			if w.At(nx, ny).Overlay != cityworld.Road {
				return
			}
			nidx := w.Idx(nx, ny)
			if visited[nidx] {
				return
			}
			tentative := dist[cur.idx] + travelTime[nidx]
			if dist[nidx] < 0 || tentative < dist[nidx] {
				dist[nidx] = tentative
				parent[nidx] = cur.idx
				pq.push(ttItem{idx: nidx, priority: tentative})
			}
		})
	}
	return dist, parent
}

func computeAvgTravelTime(w *cityworld.World, flow []float64, cfg Config, sources []source, dist []float64, parent []int) float64 {
	travelTime := buildTravelTimeField(w, flow, cfg)
	totalWeighted, totalWeight := 0.0, 0.0
	for _, s := range sources {
		if dist == nil || s.accessIdx >= len(dist) {
			continue
		}
		// Sum travel time along the path from the source's access road to
		// its assigned sink via the parent chain recorded by the last
		// routing tree build.
		idx := s.accessIdx
		t := 0.0
		steps := 0
		for idx >= 0 && steps < len(travelTime)+1 {
			t += travelTime[idx]
			if parent == nil || parent[idx] < 0 {
				break
			}
			idx = parent[idx]
			steps++
		}
		totalWeighted += t * float64(s.commuters)
		totalWeight += float64(s.commuters)
	}
	if totalWeight == 0 {
		return 0
	}
	return totalWeighted / totalWeight
}

func computeCongestion(w *cityworld.World, flow []float64, cfg Config) float64 {
	totalOver, totalFlow := 0.0, 0.0
	for idx, tile := range w.Tiles {
		if tile.Overlay != cityworld.Road {
			continue
		}
		capacity := cfg.BaseCapacity * cfg.CapacityScale * capacityMultiplierForLevel(tile.Level)
		f := flow[idx]
		totalFlow += f
		if capacity > 0 && f > capacity {
			totalOver += f - capacity
		}
	}
	if totalFlow == 0 {
		return 0
	}
	c := totalOver / totalFlow
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// ttItem/ttQueue is a small container/heap priority queue over
// travel-time-weighted tile indices, local to the congestion-aware
// Dijkstra pass.
type ttItem struct {
	idx      int
	priority float64
}

type ttQueue struct{ items []ttItem }

func (q *ttQueue) Len() int            { return len(q.items) }
func (q *ttQueue) Less(i, j int) bool  { return q.items[i].priority < q.items[j].priority }
func (q *ttQueue) Swap(i, j int)       { q.items[i], q.items[j] = q.items[j], q.items[i] }
func (q *ttQueue) Push(x interface{})  { q.items = append(q.items, x.(ttItem)) }
func (q *ttQueue) Pop() interface{} {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}

func (q *ttQueue) init()              { heap.Init(q) }
func (q *ttQueue) push(item ttItem)   { heap.Push(q, item) }
func (q *ttQueue) pop() ttItem        { return heap.Pop(q).(ttItem) }
func (q *ttQueue) len() int           { return q.Len() }

func weightedAvg(values, weights []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	totalW, totalV := 0.0, 0.0
	for i, v := range values {
		totalV += v * weights[i]
		totalW += weights[i]
	}
	if totalW == 0 {
		return 0
	}
	return totalV / totalW
}

// weightedPercentile computes the weighted p-th percentile of values
// (0<=p<=1) using weights as commuter counts, after sorting by value.
func weightedPercentile(values, weights []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	type vw struct{ v, w float64 }
	pairs := make([]vw, len(values))
	for i := range values {
		pairs[i] = vw{values[i], weights[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].v < pairs[j].v })

	total := 0.0
	for _, pr := range pairs {
		total += pr.w
	}
	if total == 0 {
		return 0
	}
	target := p * total
	cum := 0.0
	for _, pr := range pairs {
		cum += pr.w
		if cum >= target {
			return pr.v
		}
	}
	return pairs[len(pairs)-1].v
}
