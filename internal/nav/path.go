package nav

import (
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"tilenav/internal/grid"
	"tilenav/internal/mathutil"
)

// DefaultMaxNodes bounds FindPath when the caller passes maxNodes <= 0.
const DefaultMaxNodes = 4096

// Waypoint is one cell of a path with the actor's elevation on it.
type Waypoint struct {
	Pos       grid.Pos
	Elevation int
}

type pathNode struct {
	pos  grid.Pos
	elev int
	g, f int
}

// FindPath searches a 4-way path from start to goal using A*, moving only
// where CanEnter allows. The returned path starts at start and ends at goal;
// nil means no path was found within maxNodes expansions. Cells are visited
// once, so the elevation on arrival is that of the shortest path found.
func (r *Resolver) FindPath(start, goal grid.Pos, elevation, maxNodes int) []Waypoint {
	if !r.grid.Contains(start.X, start.Y) || !r.grid.Contains(goal.X, goal.Y) {
		return nil
	}
	if start == goal {
		return []Waypoint{{Pos: start, Elevation: elevation}}
	}
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	open := heap.New[pathNode](func(a, b pathNode) bool {
		if a.f == b.f {
			return a.g > b.g
		}
		return a.f < b.f
	})
	open.Push(pathNode{pos: start, elev: elevation, f: manhattan(start, goal)})

	closed := mapset.New[grid.Pos]()
	cameFrom := make(map[grid.Pos]grid.Pos, 64)
	elevAt := map[grid.Pos]int{start: elevation}
	gScore := map[grid.Pos]int{start: 0}

	for expanded := 0; open.Size() > 0 && expanded < maxNodes; {
		cur, _ := open.Pop()
		if closed.Has(cur.pos) {
			continue
		}
		closed.Put(cur.pos)
		expanded++

		if cur.pos == goal {
			return reconstruct(cameFrom, elevAt, start, goal)
		}

		for _, d := range grid.Directions {
			next := cur.pos.Add(d)
			if !r.grid.Contains(next.X, next.Y) || closed.Has(next) {
				continue
			}
			res, err := r.CanEnter(cur.elev, cur.pos, next)
			if err != nil || !res.Allowed {
				continue
			}
			g := cur.g + 1
			if prev, seen := gScore[next]; seen && g >= prev {
				continue
			}
			gScore[next] = g
			cameFrom[next] = cur.pos
			elevAt[next] = res.NewElevation
			open.Push(pathNode{pos: next, elev: res.NewElevation, g: g, f: g + manhattan(next, goal)})
		}
	}
	return nil
}

func reconstruct(cameFrom map[grid.Pos]grid.Pos, elevAt map[grid.Pos]int, start, goal grid.Pos) []Waypoint {
	var path []Waypoint
	for p := goal; ; {
		path = append(path, Waypoint{Pos: p, Elevation: elevAt[p]})
		if p == start {
			break
		}
		p = cameFrom[p]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func manhattan(a, b grid.Pos) int {
	return mathutil.Manhattan(a.X, a.Y, b.X, b.Y)
}

// Reachable flood-fills from start and returns every cell an actor could walk
// to, with the elevation of the first route that reached it (breadth first,
// so the fewest steps).
func (r *Resolver) Reachable(start grid.Pos, elevation int) map[grid.Pos]int {
	out := make(map[grid.Pos]int)
	if !r.grid.Contains(start.X, start.Y) {
		return out
	}

	visited := mapset.New[grid.Pos]()
	visited.Put(start)
	out[start] = elevation
	frontier := queue.New[Waypoint]()
	frontier.Enqueue(Waypoint{Pos: start, Elevation: elevation})

	for !frontier.Empty() {
		cur := frontier.Dequeue()
		for _, d := range grid.Directions {
			next := cur.Pos.Add(d)
			if !r.grid.Contains(next.X, next.Y) || visited.Has(next) {
				continue
			}
			res, err := r.CanEnter(cur.Elevation, cur.Pos, next)
			if err != nil || !res.Allowed {
				continue
			}
			visited.Put(next)
			out[next] = res.NewElevation
			frontier.Enqueue(Waypoint{Pos: next, Elevation: res.NewElevation})
		}
	}
	return out
}
