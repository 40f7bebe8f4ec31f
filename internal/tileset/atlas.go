package tileset

import "image"

// SourceRect returns the pixel sub-rectangle of tile id inside the tileset
// image. It serves rendering collaborators; navigation never calls it.
func (t *Table) SourceRect(id int) (image.Rectangle, bool) {
	m := t.meta
	if id < 0 || m.Columns <= 0 || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return image.Rectangle{}, false
	}
	if m.TileCount > 0 && id >= m.TileCount {
		return image.Rectangle{}, false
	}

	col := id % m.Columns
	row := id / m.Columns
	x := col * m.TileWidth
	y := row * m.TileHeight
	return image.Rect(x, y, x+m.TileWidth, y+m.TileHeight), true
}
