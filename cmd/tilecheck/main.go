// Command tilecheck validates a tileset, and optionally a level built on it,
// and prints what the navigation layer will see.
//
//	tilecheck -tileset assets/tileset2.tsx
//	tilecheck -tileset assets/tileset2.yaml -level assets/levels/demo.json -scripts assets/scripts
//	tilecheck -level assets/maps/demo.tmx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tilenav/internal/config"
	"tilenav/internal/grid"
	"tilenav/internal/tileset"
	"tilenav/internal/world"
)

func main() {
	tilesetPath := flag.String("tileset", "", "tileset file (.tsx, .yaml)")
	levelPath := flag.String("level", "", "level file (.json, .tmx)")
	scriptsDir := flag.String("scripts", "", "directory of interaction scripts")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	os.Exit(run(os.Stdout, *tilesetPath, *levelPath, *scriptsDir))
}

// run returns the process exit code: 0 ok, 1 invalid data, 2 bad usage.
func run(out io.Writer, tilesetPath, levelPath, scriptsDir string) int {
	if tilesetPath == "" && levelPath == "" {
		fmt.Fprintln(os.Stderr, "tilecheck: need -tileset and/or -level")
		flag.Usage()
		return 2
	}

	if levelPath == "" {
		table, err := tileset.Load(tilesetPath)
		if err != nil {
			report(err)
			return 1
		}
		printTable(out, table)
		return 0
	}

	if tilesetPath == "" && !strings.EqualFold(filepath.Ext(levelPath), ".tmx") {
		fmt.Fprintln(os.Stderr, "tilecheck: -tileset is required for non-TMX levels")
		return 2
	}

	lvl, err := world.Load(context.Background(), config.AssetsConfig{
		Tileset: tilesetPath,
		Level:   levelPath,
		Scripts: scriptsDir,
	})
	if err != nil {
		report(err)
		return 1
	}

	printTable(out, lvl.Table)
	printLevel(out, lvl)
	if scriptsDir != "" {
		if missing := lvl.UnhandledTags(); len(missing) > 0 {
			fmt.Fprintf(out, "\nTags without a handler: %s\n", strings.Join(missing, ", "))
			return 1
		}
	}
	return 0
}

func report(err error) {
	var le *tileset.LoadError
	if errors.As(err, &le) {
		fmt.Fprintf(os.Stderr, "tilecheck: invalid tileset (tile %d): %v\n", le.TileID, err)
		return
	}
	fmt.Fprintf(os.Stderr, "tilecheck: %v\n", err)
}

func printTable(out io.Writer, table *tileset.Table) {
	meta := table.Meta()
	fmt.Fprintf(out, "Tileset %q: %dx%d px tiles, %d tiles in %d columns, image %q\n",
		meta.Name, meta.TileWidth, meta.TileHeight, meta.TileCount, meta.Columns, meta.Image.Source)
	fmt.Fprintf(out, "%d tiles with properties (all others are walkable floor)\n\n", table.Len())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWALKABLE\tRAMP\tINTERACT\tTAG\tOTHER")
	for _, id := range table.IDs() {
		def, _ := table.Lookup(id)
		interact := "-"
		if def.Interactable {
			interact = "yes"
		}
		var other []string
		for _, name := range def.TagNames() {
			v, _ := def.Tag(name)
			other = append(other, name+"="+v.String())
		}
		fmt.Fprintf(tw, "%d\t%v\t%s\t%s\t%s\t%s\n", id, def.Walkable, def.Ramp, interact, def.InteractionTag, strings.Join(other, " "))
	}
	tw.Flush()
}

func printLevel(out io.Writer, lvl *world.Level) {
	m := lvl.Map
	fmt.Fprintf(out, "\nLevel %dx%d, %d layers, spawn %v\n", m.Width(), m.Height(), m.LayerCount(), m.Spawn())
	for i := 0; i < m.LayerCount(); i++ {
		l, _ := m.Layer(i)
		kind := ""
		if l.Collision {
			kind = " (collision)"
		}
		fmt.Fprintf(out, "  layer %d: %s%s\n", i, l.Name, kind)
	}

	// Legend: # wall, ^ v ramps, ! interactable, . floor, space empty.
	fmt.Fprintln(out)
	for y := 0; y < m.Height(); y++ {
		var b strings.Builder
		for x := 0; x < m.Width(); x++ {
			def, _ := m.DefinitionAt(x, y)
			b.WriteByte(glyph(def))
		}
		fmt.Fprintln(out, "  "+b.String())
	}

	reach := lvl.Nav.Reachable(m.Spawn(), 0)
	fmt.Fprintf(out, "\n%d cells reachable from spawn\n", len(reach))
}

func glyph(def tileset.TileDefinition) byte {
	switch {
	case def.Ramp == tileset.RampUp:
		return '^'
	case def.Ramp == tileset.RampDown:
		return 'v'
	case def.Interactable:
		return '!'
	case !def.Walkable:
		return '#'
	case def.ID == grid.Empty:
		return ' '
	default:
		return '.'
	}
}
