package tileset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zyedidia/generic/mapset"
)

// Format selects the encoding of a tileset description.
type Format int

const (
	FormatTSX Format = iota // Tiled XML tileset
	FormatYAML
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".xml":
		return FormatTSX, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("tileset: unsupported file type %q", filepath.Ext(path))
	}
}

// Load reads and validates the tileset at path.
func Load(path string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tileset: open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("tiles", t.Len()).Str("name", t.meta.Name).Msg("tileset loaded")
	return t, nil
}

// Parse decodes a tileset description from r.
func Parse(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatTSX:
		return parseTSX(r)
	case FormatYAML:
		return parseYAML(r)
	default:
		return nil, fmt.Errorf("tileset: unknown format %d", format)
	}
}

// Part places a table in a combined id space: every id is shifted by Offset.
type Part struct {
	Table  *Table
	Offset int
}

// Merge combines several tables into one id space, as a map referencing
// more than one tileset needs. Meta is taken from the first part.
func Merge(parts ...Part) (*Table, error) {
	out := &Table{defs: make(map[int]TileDefinition)}
	seen := mapset.New[int]()

	for i, p := range parts {
		if p.Table == nil {
			continue
		}
		if i == 0 {
			out.meta = p.Table.meta
		}
		for _, id := range p.Table.ids {
			gid := id + p.Offset
			if seen.Has(gid) {
				return nil, &LoadError{Kind: ErrDuplicateID, TileID: gid, Detail: "overlapping tilesets"}
			}
			seen.Put(gid)

			def := p.Table.defs[id]
			def.ID = gid
			out.defs[gid] = def
			out.ids = append(out.ids, gid)
		}
	}

	sort.Ints(out.ids)
	return out, nil
}
