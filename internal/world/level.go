// Package world bundles the tileset, grid and query services of one level
// and swaps them when the level's files change.
package world

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tilenav/internal/config"
	"tilenav/internal/grid"
	"tilenav/internal/interact"
	"tilenav/internal/interact/script"
	"tilenav/internal/nav"
	"tilenav/internal/tileset"
)

// Level is everything a game loop queries while a level is active. All of
// it is read-only once built.
type Level struct {
	Table    *tileset.Table
	Map      *grid.Map
	Nav      *nav.Resolver
	Interact *interact.Dispatcher
	Handlers *script.Handlers
	Assets   config.AssetsConfig
}

// Load builds a Level from its asset files. JSON levels are bound to the
// configured tileset; TMX maps bring their own. Independent files load
// concurrently.
func Load(ctx context.Context, assets config.AssetsConfig) (*Level, error) {
	var (
		table    *tileset.Table
		m        *grid.Map
		data     *grid.LevelData
		handlers *script.Handlers
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := script.Load(assets.Scripts)
		handlers = h
		return err
	})

	tmx := strings.EqualFold(filepath.Ext(assets.Level), ".tmx")
	if tmx {
		g.Go(func() error {
			mm, err := grid.LoadTMX(ctx, assets.Level)
			m = mm
			return err
		})
	} else {
		g.Go(func() error {
			t, err := tileset.Load(assets.Tileset)
			table = t
			return err
		})
		g.Go(func() error {
			lvl, err := grid.ReadLevel(assets.Level)
			data = lvl
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("world: load %s: %w", assets.Level, err)
	}

	if tmx {
		table = m.Table()
	} else {
		var err error
		m, err = data.Build(table)
		if err != nil {
			return nil, fmt.Errorf("world: build %s: %w", assets.Level, err)
		}
	}

	lvl := &Level{
		Table:    table,
		Map:      m,
		Nav:      nav.NewResolver(m),
		Interact: interact.NewDispatcher(m),
		Handlers: handlers,
		Assets:   assets,
	}

	for _, tag := range lvl.UnhandledTags() {
		log.Warn().Str("tag", tag).Str("scripts", assets.Scripts).Msg("interaction tag has no handler")
	}
	log.Info().
		Str("level", assets.Level).
		Int("width", m.Width()).
		Int("height", m.Height()).
		Int("layers", m.LayerCount()).
		Int("tiles", table.Len()).
		Msg("level loaded")
	return lvl, nil
}

// UnhandledTags lists interaction tags defined by the tileset that have no
// script handler, sorted.
func (l *Level) UnhandledTags() []string {
	var out []string
	seen := map[string]bool{}
	for _, id := range l.Table.IDs() {
		def, _ := l.Table.Lookup(id)
		if !def.Interactable || def.InteractionTag == "" || seen[def.InteractionTag] {
			continue
		}
		seen[def.InteractionTag] = true
		if !l.Handlers.Has(def.InteractionTag) {
			out = append(out, def.InteractionTag)
		}
	}
	return out
}
