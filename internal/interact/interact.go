// Package interact turns "actor faces a cell" into semantic interaction
// events. It never changes the grid or any actor state.
package interact

import (
	"fmt"

	"tilenav/internal/grid"
)

// Event is emitted when an actor faces an interactable tile.
type Event struct {
	Tag    string
	Pos    grid.Pos
	TileID grid.TileID
	// Actor is the position the actor stood on when it interacted.
	Actor grid.Pos
}

type Dispatcher struct {
	grid *grid.Map
}

func NewDispatcher(m *grid.Map) *Dispatcher {
	return &Dispatcher{grid: m}
}

// CheckInteraction reports the event for the tile at facing, if that tile is
// interactable. Repeated calls against an unchanged grid return the same
// answer. Only a facing position outside the grid is an error.
func (d *Dispatcher) CheckInteraction(actor, facing grid.Pos) (Event, bool, error) {
	def, err := d.grid.DefinitionAtPos(facing)
	if err != nil {
		return Event{}, false, fmt.Errorf("interact: facing %v: %w", facing, err)
	}
	if !def.Interactable {
		return Event{}, false, nil
	}
	return Event{
		Tag:    def.InteractionTag,
		Pos:    facing,
		TileID: def.ID,
		Actor:  actor,
	}, true, nil
}

// Facing returns the cell in front of an actor at pos looking towards dir.
func Facing(pos grid.Pos, dir grid.Direction) grid.Pos {
	return pos.Add(dir)
}
