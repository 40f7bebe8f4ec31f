// Package nav decides whether an actor may step onto a cell and how its
// elevation changes when it does.
package nav

import (
	"fmt"

	"tilenav/internal/grid"
	"tilenav/internal/tileset"
)

// Result is the outcome of a single move attempt.
type Result struct {
	Allowed      bool
	NewElevation int
}

// Resolver answers move queries against one grid. It holds no mutable state
// and may be shared by any number of actors.
type Resolver struct {
	grid *grid.Map
}

func NewResolver(m *grid.Map) *Resolver {
	return &Resolver{grid: m}
}

// Map returns the grid the resolver reads from.
func (r *Resolver) Map() *grid.Map { return r.grid }

// CanEnter reports whether an actor at elevation may move from one cell onto
// to, and the elevation it ends up at. A blocked move is a normal result, not
// an error; only a destination outside the grid is.
func (r *Resolver) CanEnter(elevation int, from, to grid.Pos) (Result, error) {
	def, err := r.grid.DefinitionAtPos(to)
	if err != nil {
		return Result{NewElevation: elevation}, fmt.Errorf("nav: move %v -> %v: %w", from, to, err)
	}
	return resolve(def, elevation), nil
}

// Step is CanEnter for the neighbour of from in direction dir.
func (r *Resolver) Step(elevation int, from grid.Pos, dir grid.Direction) (grid.Pos, Result, error) {
	to := from.Add(dir)
	res, err := r.CanEnter(elevation, from, to)
	return to, res, err
}

func resolve(def tileset.TileDefinition, elevation int) Result {
	switch {
	case def.Ramp == tileset.RampUp:
		return Result{Allowed: true, NewElevation: elevation + 1}
	case def.Ramp == tileset.RampDown:
		return Result{Allowed: true, NewElevation: elevation - 1}
	case !def.Walkable:
		return Result{Allowed: false, NewElevation: elevation}
	default:
		return Result{Allowed: true, NewElevation: elevation}
	}
}
