package grid

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tilenav/internal/tileset"
)

func loadSampleTable(t *testing.T) *tileset.Table {
	t.Helper()
	table, err := tileset.Load(filepath.Join("..", "..", "assets", "tileset2.tsx"))
	if err != nil {
		t.Fatalf("load tileset: %v", err)
	}
	return table
}

func mustLayer(t *testing.T, name string, w, h int, cells ...TileID) *Layer {
	t.Helper()
	l, err := NewLayer(name, w, h, cells)
	if err != nil {
		t.Fatalf("NewLayer(%s): %v", name, err)
	}
	return l
}

func TestTileAt(t *testing.T) {
	table := loadSampleTable(t)
	ground := mustLayer(t, "ground", 3, 2,
		20, 20, 20,
		20, Empty, 20)
	m, err := New(table, 3, 2, ground)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if id, err := m.TileAt(0, 2, 0); err != nil || id != 20 {
		t.Errorf("TileAt(0,2,0) = %d, %v; want 20", id, err)
	}
	if id, err := m.TileAt(0, 1, 1); err != nil || id != Empty {
		t.Errorf("TileAt(0,1,1) = %d, %v; want Empty", id, err)
	}

	outside := []struct{ layer, x, y int }{
		{0, 3, 0},
		{0, 0, 2},
		{0, -1, 0},
		{0, 0, -1},
		{1, 0, 0},
		{-1, 0, 0},
	}
	for _, o := range outside {
		if _, err := m.TileAt(o.layer, o.x, o.y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("TileAt(%d,%d,%d): expected ErrOutOfBounds, got %v", o.layer, o.x, o.y, err)
		}
	}
}

func TestDefinitionAtLayerPriority(t *testing.T) {
	table := loadSampleTable(t)

	t.Run("topmost_non_empty_wins", func(t *testing.T) {
		ground := mustLayer(t, "ground", 3, 1, 1, 20, Empty)
		overlay := mustLayer(t, "overlay", 3, 1, 0, Empty, Empty)
		m, err := New(table, 3, 1, ground, overlay)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		// (0,0): overlay sign covers the ground wall.
		def, err := m.DefinitionAt(0, 0)
		if err != nil {
			t.Fatalf("DefinitionAt: %v", err)
		}
		if def.ID != 0 || !def.Interactable {
			t.Errorf("Expected overlay sign at (0,0), got %+v", def)
		}

		// (1,0): overlay empty, ground tile 20 is undefined -> default.
		def, _ = m.DefinitionAt(1, 0)
		if def.ID != 20 || !def.Walkable {
			t.Errorf("Expected ground tile 20 at (1,0), got %+v", def)
		}

		// (2,0): every layer empty.
		def, _ = m.DefinitionAt(2, 0)
		if def.ID != Empty || !def.Walkable || def.Interactable || def.Ramp != tileset.RampNone {
			t.Errorf("Expected synthetic default at (2,0), got %+v", def)
		}
	})

	t.Run("collision_layer_governs", func(t *testing.T) {
		collide := mustLayer(t, "collide", 2, 1, 2, Empty)
		collide.Collision = true
		deco := mustLayer(t, "deco", 2, 1, 20, 3)
		m, err := New(table, 2, 1, collide, deco)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		def, _ := m.DefinitionAt(0, 0)
		if def.ID != 2 || def.Walkable {
			t.Errorf("Expected collision wall at (0,0), got %+v", def)
		}
		// Decorative wall above an empty collision cell does not block.
		def, _ = m.DefinitionAt(1, 0)
		if !def.Walkable || def.ID != Empty {
			t.Errorf("Expected default at (1,0), got %+v", def)
		}
		if m.IsTileBlocking(1, 0) {
			t.Errorf("Expected (1,0) not to block")
		}
	})

	t.Run("out_of_bounds", func(t *testing.T) {
		m, err := New(table, 2, 2, EmptyLayer("e", 2, 2))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if _, err := m.DefinitionAt(2, 0); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Expected ErrOutOfBounds, got %v", err)
		}
		if !m.IsTileBlocking(-1, 0) {
			t.Errorf("Expected outside cells to block")
		}
	})
}

func TestNewRejectsMismatchedLayers(t *testing.T) {
	table := loadSampleTable(t)
	if _, err := New(table, 2, 2, EmptyLayer("a", 2, 2), EmptyLayer("b", 3, 2)); err == nil {
		t.Errorf("Expected error for mismatched layer size")
	}
	if _, err := New(table, 0, 2); err == nil {
		t.Errorf("Expected error for zero width")
	}
	if _, err := NewLayer("short", 2, 2, []TileID{1, 2, 3}); err == nil {
		t.Errorf("Expected error for short cell slice")
	}
	if _, err := NewLayer("bad", 1, 1, []TileID{-5}); err == nil {
		t.Errorf("Expected error for id below Empty")
	}
}

func TestLoadLevel(t *testing.T) {
	table := loadSampleTable(t)
	m, err := LoadLevel(filepath.Join("..", "..", "assets", "levels", "demo.json"), table)
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}

	if m.Width() != 10 || m.Height() != 7 || m.LayerCount() != 2 {
		t.Fatalf("Unexpected map shape %dx%d with %d layers", m.Width(), m.Height(), m.LayerCount())
	}
	if m.Spawn() != (Pos{X: 1, Y: 1}) {
		t.Errorf("Expected spawn (1,1), got %v", m.Spawn())
	}

	checks := []struct {
		pos      Pos
		walkable bool
		ramp     tileset.RampDirection
		tag      string
	}{
		{Pos{0, 0}, false, tileset.RampNone, ""},
		{Pos{1, 1}, true, tileset.RampNone, ""},
		{Pos{4, 1}, true, tileset.RampNone, "sign"},
		{Pos{6, 2}, false, tileset.RampUp, ""},
		{Pos{6, 4}, false, tileset.RampDown, ""},
		{Pos{2, 3}, false, tileset.RampNone, ""},
	}
	for _, c := range checks {
		def, err := m.DefinitionAtPos(c.pos)
		if err != nil {
			t.Fatalf("DefinitionAt%v: %v", c.pos, err)
		}
		if def.Walkable != c.walkable || def.Ramp != c.ramp || def.InteractionTag != c.tag {
			t.Errorf("DefinitionAt%v = %+v", c.pos, def)
		}
	}
}

func TestDecodeLevelGIDOffset(t *testing.T) {
	doc := `{"width": 3, "height": 1, "gid_offset": 1,
  "layers": [{"name": "walls", "collision": true, "data": [0, 2, 15]}]}`
	lvl, err := DecodeLevel(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeLevel: %v", err)
	}
	m, err := lvl.Build(loadSampleTable(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []TileID{Empty, 1, 14}
	for x, id := range want {
		got, err := m.TileAt(0, x, 0)
		if err != nil || got != id {
			t.Errorf("TileAt(0,%d,0) = %d, %v; want %d", x, got, err, id)
		}
	}

	bad := `{"width": 2, "height": 1, "layers": [{"data": [1]}]}`
	lvl, err = DecodeLevel(strings.NewReader(bad))
	if err != nil {
		t.Fatalf("DecodeLevel: %v", err)
	}
	if _, err := lvl.Build(nil); err == nil {
		t.Errorf("Expected short layer to fail")
	}

	if _, err := DecodeLevel(strings.NewReader(`{"width": 0, "height": 1}`)); err == nil {
		t.Errorf("Expected zero width to fail")
	}
}

func TestLoadTMX(t *testing.T) {
	m, err := LoadTMX(context.Background(), filepath.Join("..", "..", "assets", "maps", "demo.tmx"))
	if err != nil {
		t.Fatalf("LoadTMX: %v", err)
	}

	if m.Width() != 5 || m.Height() != 4 {
		t.Fatalf("Unexpected size %dx%d", m.Width(), m.Height())
	}
	if m.Spawn() != (Pos{X: 1, Y: 2}) {
		t.Errorf("Expected spawn (1,2), got %v", m.Spawn())
	}

	if id, _ := m.TileAt(1, 2, 1); id != 0 {
		t.Errorf("Expected gid 1 to map to tile 0, got %d", id)
	}
	if def, _ := m.DefinitionAt(3, 1); def.Ramp != tileset.RampUp {
		t.Errorf("Expected ramp up at (3,1), got %+v", def)
	}
	if def, _ := m.DefinitionAt(2, 1); def.InteractionTag != "sign" {
		t.Errorf("Expected sign at (2,1), got %+v", def)
	}
	// Ground tile 20 sits under the empty collision cell.
	if def, _ := m.DefinitionAt(1, 1); def.ID != Empty || !def.Walkable {
		t.Errorf("Expected default at (1,1), got %+v", def)
	}
}

func TestLoadTMXFlagsAndEncoding(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join("..", "..", "assets", "tileset2.tsx"))
	if err != nil {
		t.Fatalf("read tileset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tiles.tsx"), src, 0o644); err != nil {
		t.Fatalf("write tileset: %v", err)
	}

	// 2147483650 is gid 2 with the horizontal flip bit set.
	flipped := `<map width="2" height="1" tilewidth="32" tileheight="32">
 <tileset firstgid="1" source="tiles.tsx"/>
 <layer name="l" width="2" height="1"><data encoding="csv">2147483650,0</data></layer>
</map>`
	path := filepath.Join(dir, "flipped.tmx")
	if err := os.WriteFile(path, []byte(flipped), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	m, err := LoadTMX(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadTMX: %v", err)
	}
	if id, _ := m.TileAt(0, 0, 0); id != 1 {
		t.Errorf("Expected flipped gid to resolve to tile 1, got %d", id)
	}

	b64 := `<map width="1" height="1" tilewidth="32" tileheight="32">
 <tileset firstgid="1" source="tiles.tsx"/>
 <layer name="l" width="1" height="1"><data encoding="base64">AQAAAA==</data></layer>
</map>`
	path = filepath.Join(dir, "b64.tmx")
	if err := os.WriteFile(path, []byte(b64), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	if _, err := LoadTMX(context.Background(), path); err == nil {
		t.Errorf("Expected base64 layer to be rejected")
	}

	broken := `<map width="1" height="1" tilewidth="32" tileheight="32">
 <tileset firstgid="1" source="missing.tsx"/>
 <layer name="l" width="1" height="1"><data encoding="csv">1</data></layer>
</map>`
	path = filepath.Join(dir, "broken.tmx")
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	if _, err := LoadTMX(context.Background(), path); err == nil {
		t.Errorf("Expected missing tileset to fail")
	}
}

func TestLoadTMXInlineTilesets(t *testing.T) {
	dir := t.TempDir()
	doc := `<map width="2" height="1" tilewidth="16" tileheight="16">
 <tileset firstgid="1" name="a" tilewidth="16" tileheight="16" tilecount="4" columns="2">
  <tile id="0"><properties><property name="unwalkable" type="bool" value="true"/></properties></tile>
 </tileset>
 <tileset firstgid="5" name="b" tilewidth="16" tileheight="16" tilecount="4" columns="2">
  <tile id="0"><properties><property name="ramp" value="down"/></properties></tile>
 </tileset>
 <layer name="l" width="2" height="1"><data encoding="csv">1,5</data></layer>
</map>`
	path := filepath.Join(dir, "inline.tmx")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := LoadTMX(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadTMX: %v", err)
	}
	if !m.IsTileBlocking(0, 0) {
		t.Errorf("Expected first tileset wall at (0,0)")
	}
	if m.RampAt(1, 0) != tileset.RampDown {
		t.Errorf("Expected second tileset ramp at (1,0)")
	}
}
