// Package actor is the single controllable actor of the viewer: where it
// stands, which way it faces, at what elevation, and the path it follows.
package actor

import (
	"context"

	"tilenav/internal/grid"
	"tilenav/internal/interact"
	"tilenav/internal/interact/script"
	"tilenav/internal/nav"
	"tilenav/internal/world"
)

type Actor struct {
	Pos       grid.Pos
	Facing    grid.Direction
	Elevation int

	path []nav.Waypoint
}

func New(pos grid.Pos, elevation int) *Actor {
	return &Actor{Pos: pos, Facing: grid.Down, Elevation: elevation}
}

// Move turns the actor towards dir and steps onto the neighbour if the
// resolver allows it. A manual move cancels any path being followed.
func (a *Actor) Move(r *nav.Resolver, dir grid.Direction) (bool, error) {
	a.Facing = dir
	a.path = nil

	to, res, err := r.Step(a.Elevation, a.Pos, dir)
	if err != nil {
		// Stepping off the map is a refused move, not a failure.
		if !r.Map().Contains(to.X, to.Y) {
			return false, nil
		}
		return false, err
	}
	if !res.Allowed {
		return false, nil
	}
	a.Pos = to
	a.Elevation = res.NewElevation
	return true, nil
}

// Interaction is the outcome of interacting with the faced cell.
type Interaction struct {
	Event    interact.Event
	Response script.Response
}

// Interact checks the faced cell and, when it yields an event, runs the
// tag's handler. ok is false when there was nothing to interact with.
func (a *Actor) Interact(ctx context.Context, lvl *world.Level) (Interaction, bool, error) {
	facing := interact.Facing(a.Pos, a.Facing)
	if !lvl.Map.Contains(facing.X, facing.Y) {
		return Interaction{}, false, nil
	}
	ev, ok, err := lvl.Interact.CheckInteraction(a.Pos, facing)
	if err != nil || !ok {
		return Interaction{}, false, err
	}
	resp, err := lvl.Handlers.Handle(ctx, ev)
	if err != nil {
		return Interaction{Event: ev}, true, err
	}
	return Interaction{Event: ev, Response: resp}, true, nil
}

// PlanTo computes a path to goal and starts following it. It reports whether
// a path exists.
func (a *Actor) PlanTo(r *nav.Resolver, goal grid.Pos, maxNodes int) bool {
	path := r.FindPath(a.Pos, goal, a.Elevation, maxNodes)
	if path == nil {
		a.path = nil
		return false
	}
	a.path = path[1:]
	return true
}

// Path returns the waypoints still to be walked.
func (a *Actor) Path() []nav.Waypoint {
	return a.path
}

// Advance walks one waypoint of the current path. It re-checks the move, so
// a path made stale by a reload stops at the first refused step.
func (a *Actor) Advance(r *nav.Resolver) bool {
	if len(a.path) == 0 {
		return false
	}
	next := a.path[0]
	res, err := r.CanEnter(a.Elevation, a.Pos, next.Pos)
	if err != nil || !res.Allowed {
		a.path = nil
		return false
	}
	a.Facing = directionTo(a.Pos, next.Pos, a.Facing)
	a.Pos = next.Pos
	a.Elevation = res.NewElevation
	a.path = a.path[1:]
	return true
}

// Reset places the actor after a level swap: it keeps its cell when that
// cell is still inside the map and not a wall, otherwise it returns to the
// spawn at elevation.
func (a *Actor) Reset(m *grid.Map, elevation int) {
	a.path = nil
	if m.Contains(a.Pos.X, a.Pos.Y) && !m.IsTileBlocking(a.Pos.X, a.Pos.Y) {
		return
	}
	a.Pos = m.Spawn()
	a.Elevation = elevation
}

func directionTo(from, to grid.Pos, fallback grid.Direction) grid.Direction {
	for _, d := range grid.Directions {
		if from.Add(d) == to {
			return d
		}
	}
	return fallback
}
