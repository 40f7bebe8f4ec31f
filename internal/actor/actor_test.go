package actor

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"tilenav/internal/config"
	"tilenav/internal/grid"
	"tilenav/internal/nav"
	"tilenav/internal/world"
)

func loadLevel(t *testing.T) *world.Level {
	t.Helper()
	root := filepath.Join("..", "..", "assets")
	lvl, err := world.Load(context.Background(), config.AssetsConfig{
		Tileset: filepath.Join(root, "tileset2.tsx"),
		Level:   filepath.Join(root, "levels", "demo.json"),
		Scripts: filepath.Join(root, "scripts"),
	})
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	return lvl
}

func TestMove(t *testing.T) {
	lvl := loadLevel(t)
	a := New(lvl.Map.Spawn(), 0)

	moved, err := a.Move(lvl.Nav, grid.Up)
	if err != nil || moved {
		t.Errorf("Expected border wall to refuse the move, got %v %v", moved, err)
	}
	if a.Facing != grid.Up || a.Pos != lvl.Map.Spawn() {
		t.Errorf("Expected actor to turn in place, got %+v", a)
	}

	a.Pos = grid.Pos{X: 5, Y: 2}
	moved, err = a.Move(lvl.Nav, grid.Right)
	if err != nil || !moved {
		t.Fatalf("Expected move onto the ramp, got %v %v", moved, err)
	}
	if a.Elevation != 1 {
		t.Errorf("Expected elevation 1 on the ramp, got %d", a.Elevation)
	}
}

func TestMoveOffMap(t *testing.T) {
	m, err := grid.New(nil, 1, 1, grid.EmptyLayer("l", 1, 1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// On a 1x1 map every neighbour is outside.
	a := New(grid.Pos{}, 0)
	for _, d := range grid.Directions {
		moved, err := a.Move(nav.NewResolver(m), d)
		if moved || err != nil {
			t.Errorf("Expected refused move %s without error, got %v %v", d, moved, err)
		}
	}
}

func TestInteract(t *testing.T) {
	lvl := loadLevel(t)
	a := New(grid.Pos{X: 3, Y: 1}, 0)
	a.Facing = grid.Right

	got, ok, err := a.Interact(context.Background(), lvl)
	if err != nil || !ok {
		t.Fatalf("Expected interaction with the sign, got ok=%v err=%v", ok, err)
	}
	if got.Event.Tag != "sign" || !got.Response.Handled {
		t.Errorf("Unexpected interaction %+v", got)
	}
	if !strings.Contains(got.Response.Message, "Ramp hall") {
		t.Errorf("Unexpected message %q", got.Response.Message)
	}

	a.Facing = grid.Down
	if _, ok, err := a.Interact(context.Background(), lvl); ok || err != nil {
		t.Errorf("Expected nothing to interact with below, got %v %v", ok, err)
	}

	a.Pos = grid.Pos{X: 1, Y: 0}
	a.Facing = grid.Up
	if _, ok, err := a.Interact(context.Background(), lvl); ok || err != nil {
		t.Errorf("Expected facing off the map to be a no-op, got %v %v", ok, err)
	}
}

func TestFollowPath(t *testing.T) {
	lvl := loadLevel(t)
	a := New(grid.Pos{X: 5, Y: 1}, 0)

	if !a.PlanTo(lvl.Nav, grid.Pos{X: 7, Y: 2}, 0) {
		t.Fatalf("Expected a path")
	}
	steps := 0
	for a.Advance(lvl.Nav) {
		steps++
	}
	if a.Pos != (grid.Pos{X: 7, Y: 2}) {
		t.Errorf("Expected to arrive at (7,2), got %v", a.Pos)
	}
	if steps != 3 {
		t.Errorf("Expected 3 steps, got %d", steps)
	}
	if len(a.Path()) != 0 {
		t.Errorf("Expected path to be consumed")
	}

	if a.PlanTo(lvl.Nav, grid.Pos{X: 0, Y: 0}, 0) {
		t.Errorf("Expected no path into the border wall")
	}
}

func TestReset(t *testing.T) {
	lvl := loadLevel(t)
	a := New(grid.Pos{X: 8, Y: 5}, 2)
	a.Reset(lvl.Map, 0)
	if a.Pos != (grid.Pos{X: 8, Y: 5}) || a.Elevation != 2 {
		t.Errorf("Expected actor on open floor to stay, got %+v", a)
	}

	a.Pos = grid.Pos{X: 3, Y: 3} // wall
	a.Reset(lvl.Map, 0)
	if a.Pos != lvl.Map.Spawn() || a.Elevation != 0 {
		t.Errorf("Expected actor in a wall to respawn, got %+v", a)
	}

	a.Pos = grid.Pos{X: 40, Y: 40}
	a.Reset(lvl.Map, 0)
	if a.Pos != lvl.Map.Spawn() {
		t.Errorf("Expected actor outside the map to respawn, got %+v", a)
	}
}
