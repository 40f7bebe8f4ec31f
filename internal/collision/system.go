// Package collision answers pixel-space questions about a tile grid: can a
// box stand here, can one point see another, where is the ramp surface.
package collision

import (
	"math"
	"sort"

	"tilenav/internal/tileset"
)

// TileChecker is the view of a tile grid the collision system needs.
// *grid.Map implements it.
type TileChecker interface {
	IsTileBlocking(tileX, tileY int) bool
	RampAt(tileX, tileY int) tileset.RampDirection
	GetWorldBounds() (width, height int)
}

// System tracks bodies over one tile grid. It is not safe for concurrent use.
type System struct {
	tiles    TileChecker
	bodies   map[string]*Body
	tileSize float64
}

func NewSystem(tiles TileChecker, tileSize float64) *System {
	return &System{
		tiles:    tiles,
		bodies:   make(map[string]*Body),
		tileSize: tileSize,
	}
}

func (s *System) TileSize() float64 { return s.tileSize }

// SetTiles swaps the grid, e.g. after a level reload. Bodies are kept.
func (s *System) SetTiles(tiles TileChecker) {
	s.tiles = tiles
}

func (s *System) Register(b *Body) {
	s.bodies[b.ID] = b
}

func (s *System) Unregister(id string) {
	delete(s.bodies, id)
}

// Body returns the registered body with the given id, or nil.
func (s *System) Body(id string) *Body {
	return s.bodies[id]
}

// Bodies returns all registered bodies ordered by id.
func (s *System) Bodies() []*Body {
	out := make([]*Body, 0, len(s.bodies))
	for _, b := range s.bodies {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TileOf converts a pixel coordinate to the tile containing it.
func (s *System) TileOf(x, y float64) (int, int) {
	return int(math.Floor(x / s.tileSize)), int(math.Floor(y / s.tileSize))
}

// CanMoveTo reports whether body id could have its centre at (x, y) without
// overlapping a wall, leaving the world or overlapping another solid body.
func (s *System) CanMoveTo(id string, x, y float64) bool {
	b, ok := s.bodies[id]
	if !ok {
		return false
	}
	box := NewBoundingBox(x, y, b.Box.Width, b.Box.Height)
	if !s.CanOccupy(box) {
		return false
	}
	for other, ob := range s.bodies {
		if other == id || !ob.Solid {
			continue
		}
		if box.Intersects(ob.Box) {
			return false
		}
	}
	return true
}

// CanOccupy reports whether box lies inside the world and overlaps no
// blocking tile. Ramps never block.
func (s *System) CanOccupy(box *BoundingBox) bool {
	width, height := s.tiles.GetWorldBounds()
	minX, minY, maxX, maxY := box.GetBounds()
	if minX < 0 || minY < 0 || maxX > float64(width)*s.tileSize || maxY > float64(height)*s.tileSize {
		return false
	}

	startX, startY := s.TileOf(minX, minY)
	endX, endY := s.tileRangeEnd(maxX, maxY)
	for ty := startY; ty <= endY; ty++ {
		for tx := startX; tx <= endX; tx++ {
			if s.tiles.IsTileBlocking(tx, ty) {
				return false
			}
		}
	}
	return true
}

// tileRangeEnd is TileOf for an exclusive max edge: a box ending exactly on
// a tile boundary does not reach into the next tile.
func (s *System) tileRangeEnd(maxX, maxY float64) (int, int) {
	return int(math.Ceil(maxX/s.tileSize)) - 1, int(math.Ceil(maxY/s.tileSize)) - 1
}

// CheckLineOfSight reports whether the segment between two points crosses
// no blocking tile and stays inside the world.
func (s *System) CheckLineOfSight(x1, y1, x2, y2 float64) bool {
	_, hit := s.CastRay(x1, y1, x2, y2)
	return !hit
}
