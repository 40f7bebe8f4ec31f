// Package grid holds the layered tile grid of a level and answers per-cell
// queries against a tileset table.
package grid

import (
	"errors"
	"fmt"

	"tilenav/internal/tileset"
)

// TileID references a definition in the level's tileset table.
type TileID = int

// Empty marks a cell that holds no tile on a layer.
const Empty TileID = -1

// ErrOutOfBounds is returned for queries outside a layer's declared size.
var ErrOutOfBounds = errors.New("grid: position out of bounds")

// Pos is a cell coordinate, x to the right and y downwards.
type Pos struct {
	X, Y int
}

func (p Pos) Add(d Direction) Pos {
	dx, dy := d.Delta()
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four grid neighbours.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists the four neighbours in a stable order.
var Directions = [4]Direction{Up, Down, Left, Right}

func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Map is a stack of equally sized layers. Layer 0 is the bottom. A Map is
// immutable once built and safe for concurrent readers.
type Map struct {
	width, height int
	layers        []*Layer
	table         *tileset.Table
	collision     bool // at least one layer is a collision layer
	spawn         Pos
}

// New builds a Map over table. Every layer must match width x height.
func New(table *tileset.Table, width, height int, layers ...*Layer) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %dx%d", width, height)
	}

	m := &Map{
		width:  width,
		height: height,
		layers: make([]*Layer, 0, len(layers)),
		table:  table,
	}
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("grid: layer %d is nil", i)
		}
		if l.width != width || l.height != height {
			return nil, fmt.Errorf("grid: layer %d (%q) is %dx%d, map is %dx%d", i, l.Name, l.width, l.height, width, height)
		}
		if l.Collision {
			m.collision = true
		}
		m.layers = append(m.layers, l)
	}
	return m, nil
}

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }

// Table returns the tileset table the map's ids refer to.
func (m *Map) Table() *tileset.Table { return m.table }

// LayerCount returns the number of layers.
func (m *Map) LayerCount() int { return len(m.layers) }

// Layer returns layer i, bottom first.
func (m *Map) Layer(i int) (*Layer, bool) {
	if i < 0 || i >= len(m.layers) {
		return nil, false
	}
	return m.layers[i], true
}

// Spawn returns the level's actor start cell.
func (m *Map) Spawn() Pos { return m.spawn }

// Contains reports whether (x, y) lies inside the map.
func (m *Map) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// TileAt returns the tile id on layer at (x, y), or Empty.
func (m *Map) TileAt(layer, x, y int) (TileID, error) {
	if layer < 0 || layer >= len(m.layers) {
		return Empty, fmt.Errorf("%w: layer %d of %d", ErrOutOfBounds, layer, len(m.layers))
	}
	if !m.Contains(x, y) {
		return Empty, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, m.width, m.height)
	}
	return m.layers[layer].at(x, y), nil
}

// DefinitionAt resolves the tile definition governing navigation at (x, y).
// When the map has collision layers only those are consulted; otherwise the
// topmost non-empty layer wins. A cell empty on every consulted layer yields
// the default walkable definition.
func (m *Map) DefinitionAt(x, y int) (tileset.TileDefinition, error) {
	if !m.Contains(x, y) {
		return tileset.TileDefinition{}, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, m.width, m.height)
	}

	for i := len(m.layers) - 1; i >= 0; i-- {
		l := m.layers[i]
		if m.collision && !l.Collision {
			continue
		}
		if id := l.at(x, y); id != Empty {
			return m.table.Definition(id), nil
		}
	}
	return tileset.DefaultDefinition(Empty), nil
}

// DefinitionAtPos is DefinitionAt for a Pos.
func (m *Map) DefinitionAtPos(p Pos) (tileset.TileDefinition, error) {
	return m.DefinitionAt(p.X, p.Y)
}

// IsTileBlocking reports whether the cell is a wall. Cells outside the map
// block. Ramps never block: they are entered, not collided with.
func (m *Map) IsTileBlocking(x, y int) bool {
	def, err := m.DefinitionAt(x, y)
	if err != nil {
		return true
	}
	return def.Blocks()
}

// RampAt returns the ramp direction of the cell, RampNone outside the map.
func (m *Map) RampAt(x, y int) tileset.RampDirection {
	def, err := m.DefinitionAt(x, y)
	if err != nil {
		return tileset.RampNone
	}
	return def.Ramp
}

// GetWorldBounds returns the map size in cells.
func (m *Map) GetWorldBounds() (width, height int) {
	return m.width, m.height
}
