package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"tilenav/internal/grid"
	"tilenav/internal/tileset"
)

var (
	colorBackground = color.RGBA{15, 15, 22, 255}
	colorFloor      = color.RGBA{46, 72, 52, 255}
	colorWall       = color.RGBA{70, 70, 82, 255}
	colorRampUp     = color.RGBA{214, 140, 50, 255}
	colorRampDown   = color.RGBA{60, 120, 200, 255}
	colorSign       = color.RGBA{230, 200, 60, 255}
	colorEmpty      = color.RGBA{24, 24, 32, 255}
	colorReachable  = color.RGBA{120, 220, 140, 70}
	colorPath       = color.RGBA{255, 255, 255, 120}
	colorBorder     = color.RGBA{70, 70, 90, 255}
)

func cellColor(def tileset.TileDefinition) color.RGBA {
	switch {
	case def.Ramp == tileset.RampUp:
		return colorRampUp
	case def.Ramp == tileset.RampDown:
		return colorRampDown
	case def.Interactable:
		return colorSign
	case !def.Walkable:
		return colorWall
	case def.ID == grid.Empty:
		return colorEmpty
	default:
		return colorFloor
	}
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	lvl := v.levels.Current()
	m := lvl.Map
	cell := v.cfg.Viewer.CellSize

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			def, err := m.DefinitionAt(x, y)
			if err != nil {
				continue
			}
			if img := v.sprites.Tile(def.ID); img != nil {
				drawSprite(screen, img, x, y, cell)
			} else {
				drawCell(screen, x, y, cell, cellColor(def))
			}
			if def.Ramp != tileset.RampNone {
				drawCellLabel(screen, x, y, cell, rampGlyph(def.Ramp))
			}
		}
	}

	for p := range v.reachable {
		drawCell(screen, p.X, p.Y, cell, colorReachable)
	}
	for _, wp := range v.actor.Path() {
		c := float32(cell)
		vector.DrawFilledRect(screen, float32(wp.Pos.X)*c+c/3, float32(wp.Pos.Y)*c+c/3, c/3, c/3, colorPath, false)
	}

	v.drawLineOfSight(screen, m)
	v.drawActor(screen)
	v.drawSidebar(screen, m)

	if v.message != "" && v.tick < v.messageUntil {
		drawMessage(screen, v.message, v.cfg.Viewer.Width-sidebarWidth, v.cfg.Viewer.Height)
	}
}

// drawLineOfSight draws a segment from the actor to the hovered cell, green
// when nothing blocks it.
func (v *Viewer) drawLineOfSight(screen *ebiten.Image, m *grid.Map) {
	target, ok := v.cellAtCursor(m)
	if !ok {
		return
	}
	c := v.cfg.GetCellSize()
	x1, y1 := (float64(v.actor.Pos.X)+0.5)*c, (float64(v.actor.Pos.Y)+0.5)*c
	x2, y2 := (float64(target.X)+0.5)*c, (float64(target.Y)+0.5)*c

	clr := color.RGBA{90, 220, 90, 200}
	if !v.collision.CheckLineOfSight(x1, y1, x2, y2) {
		clr = color.RGBA{220, 80, 80, 200}
	}
	vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, clr, true)
}

func (v *Viewer) drawActor(screen *ebiten.Image) {
	c := float32(v.cfg.Viewer.CellSize)
	cx := float32(v.actor.Pos.X)*c + c/2
	cy := float32(v.actor.Pos.Y)*c + c/2
	vector.DrawFilledCircle(screen, cx, cy, c*0.35, color.RGBA{50, 200, 255, 255}, true)

	dx, dy := v.actor.Facing.Delta()
	vector.StrokeLine(screen, cx, cy, cx+float32(dx)*c*0.45, cy+float32(dy)*c*0.45, 2, color.White, true)
}

func (v *Viewer) drawSidebar(screen *ebiten.Image, m *grid.Map) {
	x := v.cfg.Viewer.Width - sidebarWidth
	h := v.cfg.Viewer.Height
	drawFilledRect(screen, x, 0, sidebarWidth, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, 0, sidebarWidth, h, 2, colorBorder)

	lines := []string{
		fmt.Sprintf("Map: %dx%d, %d layers", m.Width(), m.Height(), m.LayerCount()),
		fmt.Sprintf("Generation: %d", v.levels.Generation()),
		fmt.Sprintf("Pos: %v facing %s", v.actor.Pos, v.actor.Facing),
		fmt.Sprintf("Elevation: %d", v.actor.Elevation),
	}
	if def, err := m.DefinitionAtPos(v.actor.Pos); err == nil {
		lines = append(lines, fmt.Sprintf("Tile: %d", def.ID))
	}
	if hovered, ok := v.cellAtCursor(m); ok {
		def, _ := m.DefinitionAtPos(hovered)
		lines = append(lines, fmt.Sprintf("Hover %v: tile %d", hovered, def.ID))
		lines = append(lines, fmt.Sprintf("  walk=%v ramp=%s", def.Walkable, def.Ramp))
		if def.Interactable {
			lines = append(lines, fmt.Sprintf("  tag=%q", def.InteractionTag))
		}
	}
	lines = append(lines,
		"",
		"Arrows/WASD: move",
		"E/Space: interact",
		"Click: walk to cell",
		"R: reachable cells",
		"F5: reload level",
		"Esc: quit",
	)
	if v.lastErr != "" {
		lines = append(lines, "", "Reload error:", v.lastErr)
	}

	row := padding
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x+padding, row)
		row += 16
	}
}

func (v *Viewer) cellAtCursor(m *grid.Map) (grid.Pos, bool) {
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 || mx >= v.cfg.Viewer.Width-sidebarWidth {
		return grid.Pos{}, false
	}
	p := grid.Pos{X: mx / v.cfg.Viewer.CellSize, Y: my / v.cfg.Viewer.CellSize}
	if !m.Contains(p.X, p.Y) {
		return grid.Pos{}, false
	}
	return p, true
}

func rampGlyph(dir tileset.RampDirection) string {
	if dir == tileset.RampUp {
		return "^"
	}
	return "v"
}

func drawCell(screen *ebiten.Image, x, y, size int, clr color.Color) {
	vector.DrawFilledRect(screen, float32(x*size), float32(y*size), float32(size-1), float32(size-1), clr, false)
}

func drawSprite(screen *ebiten.Image, img *ebiten.Image, x, y, size int) {
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	op.GeoM.Translate(float64(x*size), float64(y*size))
	screen.DrawImage(img, op)
}

func drawCellLabel(screen *ebiten.Image, x, y, size int, label string) {
	ebitenutil.DebugPrintAt(screen, label, x*size+size/2-3, y*size+size/2-8)
}

func drawMessage(screen *ebiten.Image, msg string, w, h int) {
	face := basicfont.Face7x13
	boxH := 28
	drawFilledRect(screen, padding, h-boxH-padding, w-padding*2, boxH, color.RGBA{0, 0, 0, 200})
	drawRectBorder(screen, padding, h-boxH-padding, w-padding*2, boxH, 1, colorBorder)
	ebitext.Draw(screen, msg, face, padding*2, h-padding-boxH/2+face.Ascent/2, color.White)
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.Color) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.Color) {
	t := float32(thickness)
	fx := float32(x)
	fy := float32(y)
	fw := float32(w)
	fh := float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}
