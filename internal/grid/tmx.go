package grid

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tilenav/internal/tileset"
)

// Tiled stores flip/rotation flags in the top bits of a gid.
const gidFlagMask = 0x1FFFFFFF

type tmxMap struct {
	XMLName    xml.Name        `xml:"map"`
	Width      int             `xml:"width,attr"`
	Height     int             `xml:"height,attr"`
	TileWidth  int             `xml:"tilewidth,attr"`
	TileHeight int             `xml:"tileheight,attr"`
	Properties []tmxProperty   `xml:"properties>property"`
	Tilesets   []tmxTilesetRef `xml:"tileset"`
	Layers     []tmxLayer      `xml:"layer"`
}

type tmxTilesetRef struct {
	FirstGID   int               `xml:"firstgid,attr"`
	Source     string            `xml:"source,attr"`
	Name       string            `xml:"name,attr"`
	TileWidth  int               `xml:"tilewidth,attr"`
	TileHeight int               `xml:"tileheight,attr"`
	TileCount  int               `xml:"tilecount,attr"`
	Columns    int               `xml:"columns,attr"`
	Image      tileset.XMLImage  `xml:"image"`
	Tiles      []tileset.XMLTile `xml:"tile"`
}

type tmxLayer struct {
	Name       string        `xml:"name,attr"`
	Width      int           `xml:"width,attr"`
	Height     int           `xml:"height,attr"`
	Properties []tmxProperty `xml:"properties>property"`
	Data       tmxData       `xml:"data"`
}

type tmxProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type tmxData struct {
	Encoding string `xml:"encoding,attr"`
	Text     string `xml:",chardata"`
}

// LoadTMX loads a Tiled map with CSV-encoded layers. External tilesets are
// loaded concurrently and merged so that cell ids equal gid-1. A layer with
// the bool property "collision" set is a collision layer; the map property
// pair spawn_x/spawn_y sets the spawn cell.
func LoadTMX(ctx context.Context, path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grid: read map %s: %w", path, err)
	}

	var tm tmxMap
	if err := xml.Unmarshal(data, &tm); err != nil {
		return nil, fmt.Errorf("grid: decode map %s: %w", path, err)
	}

	table, err := loadTMXTilesets(ctx, filepath.Dir(path), tm.Tilesets)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	layers := make([]*Layer, 0, len(tm.Layers))
	for _, tl := range tm.Layers {
		l, err := decodeTMXLayer(tl, tm.Width, tm.Height)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		layers = append(layers, l)
	}

	m, err := New(table, tm.Width, tm.Height, layers...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sx, okX := tmxInt(tm.Properties, "spawn_x")
	sy, okY := tmxInt(tm.Properties, "spawn_y")
	if okX && okY {
		if !m.Contains(sx, sy) {
			return nil, fmt.Errorf("%s: spawn (%d,%d) outside map", path, sx, sy)
		}
		m.spawn = Pos{X: sx, Y: sy}
	}

	log.Debug().Str("path", path).Int("layers", len(layers)).Int("tilesets", len(tm.Tilesets)).Msg("tmx map loaded")
	return m, nil
}

func loadTMXTilesets(ctx context.Context, dir string, refs []tmxTilesetRef) (*tileset.Table, error) {
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].FirstGID < refs[j].FirstGID })

	for i, ref := range refs {
		if ref.FirstGID < 1 {
			return nil, fmt.Errorf("grid: tileset %d has invalid firstgid %d", i, ref.FirstGID)
		}
	}

	tables := make([]*tileset.Table, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				t   *tileset.Table
				err error
			)
			if ref.Source == "" {
				t, err = tileset.FromXML(tileset.XMLTileset{
					Name:       ref.Name,
					TileWidth:  ref.TileWidth,
					TileHeight: ref.TileHeight,
					TileCount:  ref.TileCount,
					Columns:    ref.Columns,
					Image:      ref.Image,
					Tiles:      ref.Tiles,
				})
			} else {
				t, err = tileset.Load(filepath.Join(dir, ref.Source))
			}
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	parts := make([]tileset.Part, len(refs))
	for i, ref := range refs {
		parts[i] = tileset.Part{Table: tables[i], Offset: ref.FirstGID - 1}
	}
	return tileset.Merge(parts...)
}

func decodeTMXLayer(tl tmxLayer, width, height int) (*Layer, error) {
	if tl.Data.Encoding != "csv" {
		return nil, fmt.Errorf("grid: layer %q: unsupported encoding %q (only csv)", tl.Name, tl.Data.Encoding)
	}

	fields := strings.FieldsFunc(tl.Data.Text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ' ' || r == '\t'
	})
	cells := make([]TileID, 0, len(fields))
	for _, f := range fields {
		gid, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("grid: layer %q: bad gid %q", tl.Name, f)
		}
		gid &= gidFlagMask
		if gid == 0 {
			cells = append(cells, Empty)
			continue
		}
		cells = append(cells, TileID(gid-1))
	}

	l, err := NewLayer(tl.Name, width, height, cells)
	if err != nil {
		return nil, err
	}
	l.Collision = tmxBool(tl.Properties, "collision")
	return l, nil
}

func tmxBool(props []tmxProperty, name string) bool {
	for _, p := range props {
		if p.Name == name {
			return p.Value == "true"
		}
	}
	return false
}

func tmxInt(props []tmxProperty, name string) (int, bool) {
	for _, p := range props {
		if p.Name == name {
			n, err := strconv.Atoi(p.Value)
			return n, err == nil
		}
	}
	return 0, false
}
