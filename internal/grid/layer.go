package grid

import "fmt"

// Layer owns the tile ids of one grid slice, stored row-major.
type Layer struct {
	Name string
	// Collision marks the layer as authoritative for navigation.
	Collision bool

	width, height int
	cells         []TileID
}

// NewLayer copies cells into a new layer. len(cells) must be width*height;
// ids below Empty are rejected.
func NewLayer(name string, width, height int, cells []TileID) (*Layer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: layer %q has invalid dimensions %dx%d", name, width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("grid: layer %q has %d cells, expected %d", name, len(cells), width*height)
	}

	l := &Layer{
		Name:   name,
		width:  width,
		height: height,
		cells:  make([]TileID, len(cells)),
	}
	for i, id := range cells {
		if id < Empty {
			return nil, fmt.Errorf("grid: layer %q cell (%d,%d) has invalid id %d", name, i%width, i/width, id)
		}
		l.cells[i] = id
	}
	return l, nil
}

// EmptyLayer returns a layer with every cell Empty.
func EmptyLayer(name string, width, height int) *Layer {
	cells := make([]TileID, width*height)
	for i := range cells {
		cells[i] = Empty
	}
	return &Layer{Name: name, width: width, height: height, cells: cells}
}

func (l *Layer) Width() int  { return l.width }
func (l *Layer) Height() int { return l.height }

func (l *Layer) at(x, y int) TileID {
	return l.cells[y*l.width+x]
}
