// Package script runs tengo handlers for interaction events. A handler for
// tag "sign" lives in sign.tengo inside the scripts directory and sees the
// globals tag, x, y, tile_id, actor_x and actor_y. It may define message
// (string) and data (map) for the caller.
package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/rs/zerolog/log"

	"tilenav/internal/interact"
)

// Ext is the file extension of handler scripts.
const Ext = ".tengo"

// Response is what a handler produced for one event.
type Response struct {
	Handled bool
	Message string
	Data    map[string]interface{}
}

// Handlers holds compiled scripts keyed by interaction tag. It is read-only
// after loading; each run works on a clone, so Handle may be called
// concurrently.
type Handlers struct {
	dir     string
	scripts map[string]*tengo.Compiled
}

// Load compiles every *.tengo file in dir. A missing directory yields an
// empty set of handlers; a script that fails to compile is an error.
func Load(dir string) (*Handlers, error) {
	h := &Handlers{dir: dir, scripts: map[string]*tengo.Compiled{}}
	if dir == "" {
		return h, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("dir", dir).Msg("scripts directory not found, no interaction handlers")
			return h, nil
		}
		return nil, fmt.Errorf("script: read %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		tag := strings.TrimSuffix(e.Name(), Ext)
		path := filepath.Join(dir, e.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("script: read %s: %w", path, err)
		}
		compiled, err := compile(src)
		if err != nil {
			return nil, fmt.Errorf("script: compile %s: %w", path, err)
		}
		h.scripts[tag] = compiled
	}

	log.Debug().Str("dir", dir).Strs("tags", h.Tags()).Msg("interaction scripts loaded")
	return h, nil
}

// Compile adds a handler from source, for callers that keep scripts
// somewhere other than a directory. It must not race with Handle.
func (h *Handlers) Compile(tag string, src []byte) error {
	compiled, err := compile(src)
	if err != nil {
		return fmt.Errorf("script: compile %q: %w", tag, err)
	}
	h.scripts[tag] = compiled
	return nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	s := tengo.NewScript(src)
	_ = s.Add("tag", "")
	_ = s.Add("x", 0)
	_ = s.Add("y", 0)
	_ = s.Add("tile_id", 0)
	_ = s.Add("actor_x", 0)
	_ = s.Add("actor_y", 0)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return s.Compile()
}

// Tags returns the tags that have a handler, sorted.
func (h *Handlers) Tags() []string {
	tags := make([]string, 0, len(h.scripts))
	for tag := range h.scripts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Has reports whether tag has a handler.
func (h *Handlers) Has(tag string) bool {
	_, ok := h.scripts[tag]
	return ok
}

// Handle runs the handler for ev.Tag. An event without a handler is not an
// error: the Response is simply not Handled.
func (h *Handlers) Handle(ctx context.Context, ev interact.Event) (Response, error) {
	compiled, ok := h.scripts[ev.Tag]
	if !ok {
		return Response{}, nil
	}

	c := compiled.Clone()
	inputs := map[string]interface{}{
		"tag":     ev.Tag,
		"x":       ev.Pos.X,
		"y":       ev.Pos.Y,
		"tile_id": ev.TileID,
		"actor_x": ev.Actor.X,
		"actor_y": ev.Actor.Y,
	}
	for name, v := range inputs {
		if err := c.Set(name, v); err != nil {
			return Response{}, fmt.Errorf("script: %s: set %s: %w", ev.Tag, name, err)
		}
	}
	if err := c.RunContext(ctx); err != nil {
		return Response{}, fmt.Errorf("script: %s: %w", ev.Tag, err)
	}

	resp := Response{Handled: true}
	if c.IsDefined("message") {
		resp.Message = c.Get("message").String()
	}
	if c.IsDefined("data") {
		resp.Data = c.Get("data").Map()
	}
	return resp, nil
}
