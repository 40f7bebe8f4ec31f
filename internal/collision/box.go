package collision

// BoundingBox is an axis-aligned rectangle given by its centre and size,
// in pixels.
type BoundingBox struct {
	X      float64 // Center X coordinate
	Y      float64 // Center Y coordinate
	Width  float64
	Height float64
}

// NewBoundingBox creates a new bounding box centered at the given position
func NewBoundingBox(x, y, width, height float64) *BoundingBox {
	return &BoundingBox{X: x, Y: y, Width: width, Height: height}
}

// TileBox returns the box covering tile (tx, ty).
func TileBox(tx, ty int, tileSize float64) *BoundingBox {
	return NewBoundingBox((float64(tx)+0.5)*tileSize, (float64(ty)+0.5)*tileSize, tileSize, tileSize)
}

// GetBounds returns the min/max coordinates of the bounding box
func (bb *BoundingBox) GetBounds() (minX, minY, maxX, maxY float64) {
	halfWidth := bb.Width / 2
	halfHeight := bb.Height / 2
	return bb.X - halfWidth, bb.Y - halfHeight, bb.X + halfWidth, bb.Y + halfHeight
}

// Bottom is the y of the lower edge.
func (bb *BoundingBox) Bottom() float64 { return bb.Y + bb.Height/2 }

// SetBottom moves the box vertically so its lower edge sits at y.
func (bb *BoundingBox) SetBottom(y float64) { bb.Y = y - bb.Height/2 }

// Intersects reports whether the boxes overlap. Boxes that only share an
// edge do not intersect, so an actor can stand flush against a wall.
func (bb *BoundingBox) Intersects(other *BoundingBox) bool {
	minX1, minY1, maxX1, maxY1 := bb.GetBounds()
	minX2, minY2, maxX2, maxY2 := other.GetBounds()
	return maxX1 > minX2 && maxX2 > minX1 && maxY1 > minY2 && maxY2 > minY1
}

// Contains checks if a point is inside the bounding box
func (bb *BoundingBox) Contains(point Point) bool {
	minX, minY, maxX, maxY := bb.GetBounds()
	return point.X >= minX && point.X <= maxX && point.Y >= minY && point.Y <= maxY
}

func (bb *BoundingBox) MoveTo(x, y float64) {
	bb.X = x
	bb.Y = y
}

func (bb *BoundingBox) MoveBy(dx, dy float64) {
	bb.X += dx
	bb.Y += dy
}

// Point represents a 2D coordinate
type Point struct {
	X, Y float64
}

// Body is an actor registered with the collision system.
type Body struct {
	ID  string
	Box *BoundingBox
	// Solid bodies block other bodies.
	Solid bool
	// OnGround is set by SettleOnRamps when the body rests on a ramp surface.
	OnGround bool
}

func NewBody(id string, x, y, width, height float64, solid bool) *Body {
	return &Body{
		ID:    id,
		Box:   NewBoundingBox(x, y, width, height),
		Solid: solid,
	}
}
