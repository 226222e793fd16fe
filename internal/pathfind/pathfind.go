// Package pathfind implements the grid pathfinding primitives of
// SPEC_FULL.md §4.3: multi-source BFS over roads, A* over roads/land, and
// Dijkstra over a road-build cost model. All operate on the 4-neighborhood
// grid with a fixed N, E, S, W neighbor tie-break order, and represent
// predecessor/visited state as flat integer arrays indexed by y*w+x —
// never pointer graphs (SPEC_FULL.md §9). Every finder returns false with
// an empty path on failure; none panics or returns a Go error.
package pathfind

import (
	"container/heap"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

// Point is a grid coordinate.
type Point struct{ X, Y int }

// ComputeRoadsConnectedToEdge performs a multi-source BFS seeded from every
// road tile on the map border and returns a mask (indexed by tile index)
// where true means the road tile is connected to the map edge via other
// roads. Non-road tiles are always false.
func ComputeRoadsConnectedToEdge(w *cityworld.World) []bool {
	mask := make([]bool, w.Width*w.Height)
	queue := make([]int, 0, 64)

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if !w.IsBorder(x, y) {
				continue
			}
			if w.At(x, y).Overlay != cityworld.Road {
				continue
			}
			idx := w.Idx(x, y)
			if !mask[idx] {
				mask[idx] = true
				queue = append(queue, idx)
			}
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
			if mask[nidx] {
				return
			}
			mask[nidx] = true
			queue = append(queue, nidx)
		})
	}
	return mask
}

// HasAdjacentRoadConnectedToEdge reports whether any 4-neighbor of (x,y) is
// a road tile marked true in mask.
func HasAdjacentRoadConnectedToEdge(w *cityworld.World, mask []bool, x, y int) bool {
	found := false
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		idx := w.Idx(nx, ny)
		if w.At(nx, ny).Overlay == cityworld.Road && mask[idx] {
			found = true
		}
	})
	return found
}

// PickAdjacentRoadTile picks the first adjacent road tile of (x,y) in
// fixed N/E/S/W order. If mask is non-nil, only edge-connected road
// neighbors are considered.
func PickAdjacentRoadTile(w *cityworld.World, mask []bool, x, y int) (Point, bool) {
	var result Point
	found := false
	w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
		if found {
			return
		}
		if w.At(nx, ny).Overlay != cityworld.Road {
			return
		}
		if mask != nil && !mask[w.Idx(nx, ny)] {
			return
		}
		result = Point{nx, ny}
		found = true
	})
	return result, found
}

func manhattan(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// reconstructPath walks a predecessor array (flat indices, -1 = none) from
// goal back to start and returns the path start->goal.
func reconstructPath(w *cityworld.World, prev []int, goalIdx int) []Point {
	var rev []Point
	idx := goalIdx
	for idx != -1 {
		x, y := w.XY(idx)
		rev = append(rev, Point{x, y})
		idx = prev[idx]
	}
	path := make([]Point, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

// --- A* priority queue -----------------------------------------------

type pqItem struct {
	idx      int
	priority float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// FindRoadPathAStar finds a shortest path between two road tiles over the
// road network only, using the Manhattan heuristic.
func FindRoadPathAStar(w *cityworld.World, start, goal Point) ([]Point, float64, bool) {
	if !w.InBounds(start.X, start.Y) || !w.InBounds(goal.X, goal.Y) {
		return nil, 0, false
	}
	if w.At(start.X, start.Y).Overlay != cityworld.Road || w.At(goal.X, goal.Y).Overlay != cityworld.Road {
		return nil, 0, false
	}
	goalIdx := w.Idx(goal.X, goal.Y)
	path, cost, ok := astarOn(w, start, goalIdx, func(x, y int) bool {
		return w.At(x, y).Overlay == cityworld.Road
	}, func(idx int) bool { return idx == goalIdx })
	return path, cost, ok
}

// FindRoadPathToEdge finds the shortest road-only path from start to any
// tile on the map border.
func FindRoadPathToEdge(w *cityworld.World, start Point) ([]Point, float64, bool) {
	if !w.InBounds(start.X, start.Y) || w.At(start.X, start.Y).Overlay != cityworld.Road {
		return nil, 0, false
	}
	path, cost, ok := astarOn(w, start, -1, func(x, y int) bool {
		return w.At(x, y).Overlay == cityworld.Road
	}, func(idx int) bool {
		x, y := w.XY(idx)
		return w.IsBorder(x, y)
	})
	return path, cost, ok
}

// FindLandPathAStar finds a shortest path over non-water tiles (or, if
// allowBridges is true, water tiles are admissible at an extra cost of 4).
func FindLandPathAStar(w *cityworld.World, start, goal Point, allowBridges bool) ([]Point, float64, bool) {
	if !w.InBounds(start.X, start.Y) || !w.InBounds(goal.X, goal.Y) {
		return nil, 0, false
	}
	passable := func(x, y int) bool {
		if w.At(x, y).Terrain != cityworld.Water {
			return true
		}
		return allowBridges
	}
	if !passable(start.X, start.Y) || !passable(goal.X, goal.Y) {
		return nil, 0, false
	}
	goalIdx := w.Idx(goal.X, goal.Y)
	return astarOn(w, start, goalIdx, passable, func(idx int) bool { return idx == goalIdx })
}

// landStepCost returns the edge cost for entering (x,y) during land pathing:
// 1 for ordinary land, 4 for a bridged water tile.
func landStepCost(w *cityworld.World, x, y int) float64 {
	if w.At(x, y).Terrain == cityworld.Water {
		return 4
	}
	return 1
}

// astarOn runs A* with the Manhattan heuristic toward goalIdx (or, if
// goalIdx < 0, toward the nearest tile satisfying isGoal) over tiles
// admitted by passable.
func astarOn(w *cityworld.World, start Point, goalIdx int, passable func(x, y int) bool, isGoal func(idx int) bool) ([]Point, float64, bool) {
	n := w.Width * w.Height
	gScore := make([]float64, n)
	visited := make([]bool, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
		gScore[i] = -1
	}

	startIdx := w.Idx(start.X, start.Y)
	gScore[startIdx] = 0

	heuristic := func(idx int) float64 {
		if goalIdx < 0 {
			return 0
		}
		gx, gy := w.XY(goalIdx)
		x, y := w.XY(idx)
		return float64(manhattan(Point{x, y}, Point{gx, gy}))
	}

	pq := &priorityQueue{{idx: startIdx, priority: heuristic(startIdx)}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if visited[cur.idx] {
			continue
		}
		visited[cur.idx] = true

		if isGoal(cur.idx) {
			return reconstructPath(w, prev, cur.idx), gScore[cur.idx], true
		}

		x, y := w.XY(cur.idx)
		w.ForEachNeighbor4(x, y, func(nx, ny, _ int) {
			if !passable(nx, ny) {
				return
			}
			nidx := w.Idx(nx, ny)
			if visited[nidx] {
				return
			}
			step := landStepCost(w, nx, ny)
			tentative := gScore[cur.idx] + step
			if gScore[nidx] < 0 || tentative < gScore[nidx] {
				gScore[nidx] = tentative
				prev[nidx] = cur.idx
				heap.Push(pq, pqItem{idx: nidx, priority: tentative + heuristic(nidx)})
			}
		})
	}
	return nil, 0, false
}
