package grid

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tilenav/internal/tileset"
)

// LevelData is a decoded JSON level, not yet bound to a tileset:
//
//	{
//	  "width": 4, "height": 3,
//	  "spawn": {"x": 1, "y": 1},
//	  "layers": [{"name": "ground", "collision": false, "data": [...]}]
//	}
//
// Data is row-major. With gid_offset 0 an empty cell is -1 and other values
// are tile ids; with gid_offset N > 0 an empty cell is 0 and id = value - N.
type LevelData struct {
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	GIDOffset int          `json:"gid_offset,omitempty"`
	Spawn     *levelSpawn  `json:"spawn,omitempty"`
	Layers    []levelLayer `json:"layers"`
}

type levelSpawn struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type levelLayer struct {
	Name      string `json:"name"`
	Collision bool   `json:"collision,omitempty"`
	Data      []int  `json:"data"`
}

// ReadLevel reads a JSON level file.
func ReadLevel(path string) (*LevelData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("grid: open level %s: %w", path, err)
	}
	defer f.Close()

	lvl, err := DecodeLevel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

// DecodeLevel decodes a JSON level from r.
func DecodeLevel(r io.Reader) (*LevelData, error) {
	var lvl LevelData
	if err := json.NewDecoder(r).Decode(&lvl); err != nil {
		return nil, fmt.Errorf("grid: decode level: %w", err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, fmt.Errorf("grid: invalid level dimensions: %dx%d", lvl.Width, lvl.Height)
	}
	if lvl.GIDOffset < 0 {
		return nil, fmt.Errorf("grid: negative gid_offset %d", lvl.GIDOffset)
	}
	return &lvl, nil
}

// Build binds the level to table and produces the Map.
func (lvl *LevelData) Build(table *tileset.Table) (*Map, error) {
	layers := make([]*Layer, 0, len(lvl.Layers))
	for i, ll := range lvl.Layers {
		name := ll.Name
		if name == "" {
			name = fmt.Sprintf("layer%d", i)
		}

		cells := make([]TileID, len(ll.Data))
		for j, v := range ll.Data {
			cells[j] = lvl.cellID(v)
		}

		l, err := NewLayer(name, lvl.Width, lvl.Height, cells)
		if err != nil {
			return nil, err
		}
		l.Collision = ll.Collision
		layers = append(layers, l)
	}

	m, err := New(table, lvl.Width, lvl.Height, layers...)
	if err != nil {
		return nil, err
	}

	if lvl.Spawn != nil {
		if !m.Contains(lvl.Spawn.X, lvl.Spawn.Y) {
			return nil, fmt.Errorf("grid: spawn (%d,%d) outside %dx%d", lvl.Spawn.X, lvl.Spawn.Y, lvl.Width, lvl.Height)
		}
		m.spawn = Pos{X: lvl.Spawn.X, Y: lvl.Spawn.Y}
	}
	return m, nil
}

func (lvl *LevelData) cellID(v int) TileID {
	if lvl.GIDOffset == 0 {
		return v
	}
	if v == 0 {
		return Empty
	}
	id := v - lvl.GIDOffset
	if id < 0 {
		// Left negative so NewLayer rejects it.
		return id - 1
	}
	return id
}

// LoadLevel reads a JSON level and binds it to table.
func LoadLevel(path string, table *tileset.Table) (*Map, error) {
	lvl, err := ReadLevel(path)
	if err != nil {
		return nil, err
	}
	m, err := lvl.Build(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
