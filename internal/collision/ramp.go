package collision

import (
	"tilenav/internal/mathutil"
	"tilenav/internal/tileset"
)

// RampSurfaceY returns the y of a ramp's walking surface under a box whose
// left edge is at left. An up ramp rises to the right, a down ramp falls.
// The surface never leaves the ramp tile.
func RampSurfaceY(ramp *BoundingBox, dir tileset.RampDirection, left, width float64) float64 {
	minX, minY, _, _ := ramp.GetBounds()
	relX := left - minX

	var h float64
	if dir == tileset.RampUp {
		h = relX + width
	} else {
		h = ramp.Height - relX
	}
	h = mathutil.Clamp(h, 0, ramp.Height)

	return minY + ramp.Height - h
}

// SettleOnRamps lifts body id onto the surface of any ramp tile it overlaps
// and sets its OnGround flag accordingly. It reports whether the body was
// moved.
func (s *System) SettleOnRamps(id string) bool {
	b, ok := s.bodies[id]
	if !ok {
		return false
	}
	width, height := s.tiles.GetWorldBounds()
	minX, minY, maxX, maxY := b.Box.GetBounds()
	startX, startY := s.TileOf(minX, minY)
	endX, endY := s.tileRangeEnd(maxX, maxY)

	moved := false
	b.OnGround = false
	for ty := max(startY, 0); ty <= min(endY, height-1); ty++ {
		for tx := max(startX, 0); tx <= min(endX, width-1); tx++ {
			dir := s.tiles.RampAt(tx, ty)
			if dir == tileset.RampNone {
				continue
			}
			tile := TileBox(tx, ty, s.tileSize)
			if !tile.Intersects(b.Box) {
				continue
			}
			left, _, _, _ := b.Box.GetBounds()
			surface := RampSurfaceY(tile, dir, left, b.Box.Width)
			if b.Box.Bottom() >= surface {
				if b.Box.Bottom() > surface {
					b.Box.SetBottom(surface)
					moved = true
				}
				b.OnGround = true
			}
		}
	}
	return moved
}
