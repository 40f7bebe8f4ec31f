package tileset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Property names understood by the core. Anything else is kept as a tag.
const (
	PropInteractable = "interactable"
	PropUnwalkable   = "unwalkable"
	PropRamp         = "ramp"
	PropTileImg      = "tile_img"
)

// Image is the tileset image reference, passed through to renderers untouched.
type Image struct {
	Source string
	Width  int
	Height int
}

// Meta holds the tileset-level attributes.
type Meta struct {
	Name       string
	TileWidth  int
	TileHeight int
	TileCount  int
	Columns    int
	Image      Image
}

// Table is the immutable set of tile definitions of one tileset. It is safe
// to share between any number of concurrent readers.
type Table struct {
	meta Meta
	defs map[int]TileDefinition
	ids  []int
}

// Meta returns the tileset-level attributes.
func (t *Table) Meta() Meta {
	return t.meta
}

// Len returns the number of explicitly defined tiles.
func (t *Table) Len() int {
	return len(t.defs)
}

// IDs returns the explicitly defined tile ids in ascending order.
func (t *Table) IDs() []int {
	out := make([]int, len(t.ids))
	copy(out, t.ids)
	return out
}

// Lookup returns the explicit definition for id, if any.
func (t *Table) Lookup(id int) (TileDefinition, bool) {
	if t == nil {
		return TileDefinition{}, false
	}
	def, ok := t.defs[id]
	return def, ok
}

// Definition returns the definition for id, falling back to the default
// walkable tile when id is not in the table.
func (t *Table) Definition(id int) TileDefinition {
	if def, ok := t.Lookup(id); ok {
		return def
	}
	return DefaultDefinition(id)
}

// rawProperty is a property as written in the source document, before typing.
type rawProperty struct {
	Name  string
	Type  string
	Value string
}

type rawTile struct {
	ID         string
	Properties []rawProperty
}

// build validates raw tiles and produces a Table. The first violation wins.
func build(meta Meta, tiles []rawTile) (*Table, error) {
	t := &Table{
		meta: meta,
		defs: make(map[int]TileDefinition, len(tiles)),
	}
	seen := mapset.New[int]()

	for _, rt := range tiles {
		id, err := strconv.Atoi(strings.TrimSpace(rt.ID))
		if err != nil || id < 0 {
			return nil, malformed(-1, "id", "tile id %q is not a non-negative integer", rt.ID)
		}
		if seen.Has(id) {
			return nil, &LoadError{Kind: ErrDuplicateID, TileID: id}
		}
		seen.Put(id)

		def, err := buildDefinition(id, rt.Properties)
		if err != nil {
			return nil, err
		}
		t.defs[id] = def
		t.ids = append(t.ids, id)
	}

	sort.Ints(t.ids)
	return t, nil
}

func buildDefinition(id int, props []rawProperty) (TileDefinition, error) {
	def := DefaultDefinition(id)
	var tileImg string

	for _, p := range props {
		v, err := typedValue(p)
		if err != nil {
			return TileDefinition{}, malformed(id, p.Name, "%v", err)
		}

		switch p.Name {
		case PropInteractable:
			b, err := asBool(v)
			if err != nil {
				return TileDefinition{}, malformed(id, p.Name, "%v", err)
			}
			def.Interactable = b
		case PropUnwalkable:
			b, err := asBool(v)
			if err != nil {
				return TileDefinition{}, malformed(id, p.Name, "%v", err)
			}
			def.Walkable = !b
		case PropRamp:
			if v.Kind != KindString {
				return TileDefinition{}, malformed(id, p.Name, "expected string, got %s", v.Kind)
			}
			dir, err := ParseRampDirection(v.Str)
			if err != nil {
				return TileDefinition{}, malformed(id, p.Name, "%v", err)
			}
			def.Ramp = dir
		case PropTileImg:
			if v.Kind != KindString {
				return TileDefinition{}, malformed(id, p.Name, "expected string, got %s", v.Kind)
			}
			tileImg = v.Str
		default:
			if def.tags == nil {
				def.tags = make(map[string]Value)
			}
			def.tags[p.Name] = v
		}
	}

	if def.Interactable && def.Ramp != RampNone {
		return TileDefinition{}, &LoadError{
			Kind:   ErrConflictingTileRole,
			TileID: id,
			Detail: fmt.Sprintf("ramp %s", def.Ramp),
		}
	}

	// tile_img names the interaction behaviour only on interactable tiles.
	if def.Interactable {
		def.InteractionTag = tileImg
	} else if tileImg != "" {
		if def.tags == nil {
			def.tags = make(map[string]Value)
		}
		def.tags[PropTileImg] = Value{Kind: KindString, Str: tileImg}
	}

	return def, nil
}

// typedValue parses a literal according to its declared Tiled type.
// An absent type means string.
func typedValue(p rawProperty) (Value, error) {
	switch p.Type {
	case "", "string", "file", "color":
		return Value{Kind: KindString, Str: p.Value}, nil
	case "bool":
		switch p.Value {
		case "true":
			return Value{Kind: KindBool, Bool: true}, nil
		case "false":
			return Value{Kind: KindBool, Bool: false}, nil
		}
		return Value{}, fmt.Errorf("declared bool, got %q", p.Value)
	case "int":
		n, err := strconv.Atoi(p.Value)
		if err != nil {
			return Value{}, fmt.Errorf("declared int, got %q", p.Value)
		}
		return Value{Kind: KindInt, Int: n}, nil
	case "float":
		f, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			return Value{}, fmt.Errorf("declared float, got %q", p.Value)
		}
		return Value{Kind: KindFloat, Float: f}, nil
	default:
		return Value{}, fmt.Errorf("unsupported property type %q", p.Type)
	}
}

// asBool accepts a bool value, or an untyped string spelling a bool literal.
func asBool(v Value) (bool, error) {
	switch v.Kind {
	case KindBool:
		return v.Bool, nil
	case KindString:
		switch v.Str {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("expected bool, got %s %q", v.Kind, v.String())
}
