// Package graphics cuts per-tile images out of a tileset atlas for the viewer.
package graphics

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"tilenav/internal/config"
	"tilenav/internal/tileset"
)

// TileSprites hands out tile images on demand. A TileSprites without an
// atlas returns nil for every tile and callers draw placeholders.
type TileSprites struct {
	table *tileset.Table
	atlas *ebiten.Image
	cache map[int]*ebiten.Image
}

// NewTileSprites loads the atlas named by the table's image reference. A
// missing or unreadable atlas is logged, not fatal.
func NewTileSprites(assets config.AssetsConfig, table *tileset.Table) *TileSprites {
	s := &TileSprites{table: table, cache: make(map[int]*ebiten.Image)}
	path := AtlasPath(assets, table.Meta())
	if path == "" {
		return s
	}

	img, err := LoadAtlas(path, table.Meta())
	if err != nil {
		log.Debug().Err(err).Str("atlas", path).Msg("tileset image unavailable, drawing placeholders")
		return s
	}
	s.atlas = ebiten.NewImageFromImage(img)
	return s
}

// Tile returns the image for tile id, or nil.
func (s *TileSprites) Tile(id int) *ebiten.Image {
	if s == nil || s.atlas == nil {
		return nil
	}
	if img, ok := s.cache[id]; ok {
		return img
	}

	var img *ebiten.Image
	if r, ok := s.table.SourceRect(id); ok {
		img = s.atlas.SubImage(r).(*ebiten.Image)
	}
	s.cache[id] = img
	return img
}

// AtlasPath resolves the table's image source, which is relative to the
// tileset file. A TMX map without a configured tileset falls back to the
// map's directory.
func AtlasPath(assets config.AssetsConfig, meta tileset.Meta) string {
	src := meta.Image.Source
	if src == "" {
		return ""
	}
	if filepath.IsAbs(src) {
		return src
	}
	base := assets.Tileset
	if base == "" {
		base = assets.Level
	}
	return filepath.Join(filepath.Dir(base), src)
}

// LoadAtlas decodes the atlas at path and checks it covers every tile the
// metadata declares.
func LoadAtlas(path string, meta tileset.Meta) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("graphics: decode %s: %w", path, err)
	}
	if err := checkAtlas(img.Bounds(), meta); err != nil {
		return nil, fmt.Errorf("graphics: %s: %w", path, err)
	}
	return img, nil
}

func checkAtlas(b image.Rectangle, meta tileset.Meta) error {
	if meta.Columns <= 0 || meta.TileWidth <= 0 || meta.TileHeight <= 0 {
		return fmt.Errorf("tileset has no grid geometry")
	}
	rows := 1
	if meta.TileCount > 0 {
		rows = (meta.TileCount + meta.Columns - 1) / meta.Columns
	}
	needW, needH := meta.Columns*meta.TileWidth, rows*meta.TileHeight
	if b.Dx() < needW || b.Dy() < needH {
		return fmt.Errorf("image is %dx%d, tiles need %dx%d", b.Dx(), b.Dy(), needW, needH)
	}
	return nil
}
