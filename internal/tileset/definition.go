package tileset

import (
	"fmt"
	"sort"
	"strconv"
)

// RampDirection describes the elevation change granted by entering a tile.
type RampDirection int

const (
	RampNone RampDirection = iota // Flat tile, judged by its walkable flag
	RampUp                        // Entering raises elevation by one
	RampDown                      // Entering lowers elevation by one
)

func (r RampDirection) String() string {
	switch r {
	case RampUp:
		return "up"
	case RampDown:
		return "down"
	default:
		return "none"
	}
}

// Delta returns the elevation change for a single step onto the ramp.
func (r RampDirection) Delta() int {
	switch r {
	case RampUp:
		return 1
	case RampDown:
		return -1
	default:
		return 0
	}
}

// ParseRampDirection converts the "ramp" property literal into a RampDirection.
func ParseRampDirection(s string) (RampDirection, error) {
	switch s {
	case "up":
		return RampUp, nil
	case "down":
		return RampDown, nil
	case "", "none":
		return RampNone, nil
	default:
		return RampNone, fmt.Errorf("unknown ramp direction %q", s)
	}
}

// ValueKind is the declared type of a tile property.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindInt
	KindFloat
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Value is a typed property value. Only the field matching Kind is meaningful.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int
	Float float64
	Str   string
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Str
	}
}

// TileDefinition is the gameplay metadata of one tile id.
type TileDefinition struct {
	ID             int
	Walkable       bool
	Interactable   bool
	InteractionTag string
	Ramp           RampDirection

	// tags keeps properties the core does not interpret. Read-only once loaded.
	tags map[string]Value
}

// DefaultDefinition is the definition used for ids absent from a table and
// for cells where no layer holds a tile.
func DefaultDefinition(id int) TileDefinition {
	return TileDefinition{ID: id, Walkable: true}
}

// IsRamp reports whether the tile changes elevation when entered.
func (d TileDefinition) IsRamp() bool {
	return d.Ramp != RampNone
}

// Blocks reports whether the tile is an ordinary wall: unwalkable and not a ramp.
func (d TileDefinition) Blocks() bool {
	return !d.Walkable && d.Ramp == RampNone
}

// Tag returns an uninterpreted property preserved at load time.
func (d TileDefinition) Tag(name string) (Value, bool) {
	v, ok := d.tags[name]
	return v, ok
}

// TagNames returns the names of the preserved properties in sorted order.
func (d TileDefinition) TagNames() []string {
	names := make([]string, 0, len(d.tags))
	for name := range d.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
