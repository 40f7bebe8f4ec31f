// Package viewer is an ebiten front end that drives the navigation layer the
// way a game loop would: one move or interaction per key press, level swaps
// only between ticks.
package viewer

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog/log"

	"tilenav/internal/actor"
	"tilenav/internal/collision"
	"tilenav/internal/config"
	"tilenav/internal/graphics"
	"tilenav/internal/grid"
	"tilenav/internal/world"
)

const (
	sidebarWidth = 220
	padding      = 12
	// Ticks between path steps when following a clicked route.
	pathStepTicks = 8
	messageTicks  = 60 * 4
	maxPathNodes  = 2048
)

var moveKeys = map[ebiten.Key]grid.Direction{
	ebiten.KeyUp:    grid.Up,
	ebiten.KeyW:     grid.Up,
	ebiten.KeyDown:  grid.Down,
	ebiten.KeyS:     grid.Down,
	ebiten.KeyLeft:  grid.Left,
	ebiten.KeyA:     grid.Left,
	ebiten.KeyRight: grid.Right,
	ebiten.KeyD:     grid.Right,
}

// Viewer implements ebiten.Game.
type Viewer struct {
	ctx    context.Context
	cfg    *config.Config
	levels *world.Manager

	actor     *actor.Actor
	collision *collision.System
	sprites   *graphics.TileSprites

	tick          int
	message       string
	messageUntil  int
	showReachable bool
	reachable     map[grid.Pos]int
	lastErr       string
}

func New(ctx context.Context, cfg *config.Config, levels *world.Manager) *Viewer {
	lvl := levels.Current()
	v := &Viewer{
		ctx:       ctx,
		cfg:       cfg,
		levels:    levels,
		actor:     actor.New(lvl.Map.Spawn(), cfg.Viewer.StartElevation),
		collision: collision.NewSystem(lvl.Map, cfg.GetCellSize()),
		sprites:   graphics.NewTileSprites(lvl.Assets, lvl.Table),
	}
	return v
}

func (v *Viewer) Update() error {
	v.tick++
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		v.levels.MarkDirty()
	}
	// The only point where the active level may change.
	swapped, err := v.levels.Sync(v.ctx)
	if err != nil {
		v.lastErr = err.Error()
	}
	lvl := v.levels.Current()
	if swapped {
		v.lastErr = ""
		v.actor.Reset(lvl.Map, v.cfg.Viewer.StartElevation)
		v.collision.SetTiles(lvl.Map)
		v.sprites = graphics.NewTileSprites(lvl.Assets, lvl.Table)
		v.reachable = nil
		v.say(fmt.Sprintf("level reloaded (generation %d)", v.levels.Generation()))
	}

	for key, dir := range moveKeys {
		if !keyRepeat(key) {
			continue
		}
		if _, err := v.actor.Move(lvl.Nav, dir); err != nil {
			log.Error().Err(err).Str("dir", dir.String()).Msg("move failed")
		}
		v.reachable = nil
		break
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyE) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.interact(lvl)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.showReachable = !v.showReachable
		v.reachable = nil
	}
	if v.showReachable && v.reachable == nil {
		v.reachable = lvl.Nav.Reachable(v.actor.Pos, v.actor.Elevation)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if cell, ok := v.cellAtCursor(lvl.Map); ok {
			if !v.actor.PlanTo(lvl.Nav, cell, maxPathNodes) {
				v.say(fmt.Sprintf("no path to %v", cell))
			}
		}
	}
	if v.tick%pathStepTicks == 0 && v.actor.Advance(lvl.Nav) {
		v.reachable = nil
	}
	return nil
}

func (v *Viewer) interact(lvl *world.Level) {
	got, ok, err := v.actor.Interact(v.ctx, lvl)
	switch {
	case err != nil:
		log.Error().Err(err).Str("tag", got.Event.Tag).Msg("interaction handler failed")
		v.say("handler error: " + err.Error())
	case !ok:
		v.say("nothing here")
	case got.Response.Message != "":
		v.say(got.Response.Message)
	case got.Response.Handled:
		v.say(fmt.Sprintf("%s at %v", got.Event.Tag, got.Event.Pos))
	default:
		v.say(fmt.Sprintf("%q at %v has no handler", got.Event.Tag, got.Event.Pos))
	}
}

func (v *Viewer) say(msg string) {
	v.message = msg
	v.messageUntil = v.tick + messageTicks
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.cfg.Viewer.Width, v.cfg.Viewer.Height
}

// keyRepeat fires on press and then repeatedly while the key is held.
func keyRepeat(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d > 15 && d%6 == 0)
}
