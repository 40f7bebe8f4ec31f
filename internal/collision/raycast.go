package collision

import "math"

// RayHit describes the first blocking tile a ray entered.
type RayHit struct {
	TileX, TileY int
	// Dist is measured from the ray origin to the point the tile was entered.
	Dist float64
}

// CastRay walks the tiles crossed by the segment (x1,y1)-(x2,y2) with a DDA
// traversal and returns the first one that blocks or lies outside the world.
func (s *System) CastRay(x1, y1, x2, y2 float64) (RayHit, bool) {
	width, height := s.tiles.GetWorldBounds()
	tx, ty := s.TileOf(x1, y1)

	blocked := func(tx, ty int) bool {
		if tx < 0 || ty < 0 || tx >= width || ty >= height {
			return true
		}
		return s.tiles.IsTileBlocking(tx, ty)
	}

	if blocked(tx, ty) {
		return RayHit{TileX: tx, TileY: ty}, true
	}

	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return RayHit{}, false
	}
	dirX, dirY := dx/length, dy/length

	stepX, tMaxX, tDeltaX := ddaAxis(x1, dirX, tx, s.tileSize)
	stepY, tMaxY, tDeltaY := ddaAxis(y1, dirY, ty, s.tileSize)

	for {
		var dist float64
		if tMaxX < tMaxY {
			tx += stepX
			dist = tMaxX
			tMaxX += tDeltaX
		} else {
			ty += stepY
			dist = tMaxY
			tMaxY += tDeltaY
		}
		if dist > length {
			return RayHit{}, false
		}
		if blocked(tx, ty) {
			return RayHit{TileX: tx, TileY: ty, Dist: dist}, true
		}
	}
}

// ddaAxis returns the tile step, the distance to the first tile boundary and
// the distance between boundaries along one axis.
func ddaAxis(origin, dir float64, tile int, size float64) (step int, tMax, tDelta float64) {
	switch {
	case dir > 0:
		return 1, (float64(tile+1)*size - origin) / dir, size / dir
	case dir < 0:
		return -1, (origin - float64(tile)*size) / -dir, size / -dir
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}
