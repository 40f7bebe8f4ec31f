package world

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"tilenav/internal/config"
	"tilenav/internal/watch"
)

// Manager owns the active Level. Queries against a Level never see it change:
// a reload builds a new Level and the swap happens in Sync or Reload, which
// the game loop calls between ticks.
type Manager struct {
	assets config.AssetsConfig

	mu         sync.RWMutex
	current    *Level
	generation int
	lastReload time.Duration

	dirty atomic.Bool
}

// NewManager loads the initial level.
func NewManager(ctx context.Context, assets config.AssetsConfig) (*Manager, error) {
	lvl, err := Load(ctx, assets)
	if err != nil {
		return nil, err
	}
	return &Manager{assets: assets, current: lvl, generation: 1}, nil
}

// Current returns the active level.
func (m *Manager) Current() *Level {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Generation counts successful loads, starting at 1.
func (m *Manager) Generation() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// LastReload returns how long the most recent reload took.
func (m *Manager) LastReload() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastReload
}

// MarkDirty requests a reload at the next Sync. Safe from any goroutine.
func (m *Manager) MarkDirty() {
	m.dirty.Store(true)
}

// Dirty reports whether a reload is pending.
func (m *Manager) Dirty() bool {
	return m.dirty.Load()
}

// Reload rebuilds the level from disk and swaps it in. On failure the
// current level stays active.
func (m *Manager) Reload(ctx context.Context) error {
	start := time.Now()
	lvl, err := Load(ctx, m.assets)
	if err != nil {
		log.Error().Err(err).Msg("reload failed, keeping current level")
		return err
	}

	m.mu.Lock()
	m.current = lvl
	m.generation++
	m.lastReload = time.Since(start)
	gen := m.generation
	m.mu.Unlock()

	log.Info().Int("generation", gen).Dur("took", time.Since(start)).Msg("level reloaded")
	return nil
}

// Sync performs a pending reload. It reports whether a new level was
// swapped in.
func (m *Manager) Sync(ctx context.Context) (bool, error) {
	if !m.dirty.Swap(false) {
		return false, nil
	}
	if err := m.Reload(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Watch marks the manager dirty whenever an asset file in the level's
// directories changes. It blocks until ctx is done or the watcher fails to
// start.
func (m *Manager) Watch(ctx context.Context) error {
	var dirs []string
	for _, d := range m.assets.Dirs() {
		if _, err := os.Stat(d); err == nil {
			dirs = append(dirs, d)
		}
	}
	w, err := watch.New(dirs...)
	if err != nil {
		return err
	}
	defer w.Close()

	log.Info().Strs("dirs", dirs).Msg("watching level assets")
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Debug().Str("path", path).Msg("asset changed")
			m.MarkDirty()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-ctx.Done():
			return nil
		}
	}
}
