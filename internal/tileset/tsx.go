package tileset

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XMLTileset mirrors the Tiled <tileset> element. It is exported so map
// loaders can reuse it for tilesets embedded in a .tmx file.
type XMLTileset struct {
	XMLName    xml.Name  `xml:"tileset"`
	Name       string    `xml:"name,attr"`
	TileWidth  int       `xml:"tilewidth,attr"`
	TileHeight int       `xml:"tileheight,attr"`
	TileCount  int       `xml:"tilecount,attr"`
	Columns    int       `xml:"columns,attr"`
	Image      XMLImage  `xml:"image"`
	Tiles      []XMLTile `xml:"tile"`
}

type XMLImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type XMLTile struct {
	ID         string        `xml:"id,attr"`
	Properties []XMLProperty `xml:"properties>property"`
}

type XMLProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
	// Multi-line string values are stored as element text instead of an attribute.
	Text string `xml:",chardata"`
}

// FromXML validates a decoded Tiled tileset and builds its Table.
func FromXML(x XMLTileset) (*Table, error) {
	meta := Meta{
		Name:       x.Name,
		TileWidth:  x.TileWidth,
		TileHeight: x.TileHeight,
		TileCount:  x.TileCount,
		Columns:    x.Columns,
		Image: Image{
			Source: x.Image.Source,
			Width:  x.Image.Width,
			Height: x.Image.Height,
		},
	}

	tiles := make([]rawTile, 0, len(x.Tiles))
	for _, xt := range x.Tiles {
		rt := rawTile{ID: xt.ID}
		for _, xp := range xt.Properties {
			value := xp.Value
			if value == "" {
				value = strings.TrimSpace(xp.Text)
			}
			rt.Properties = append(rt.Properties, rawProperty{
				Name:  xp.Name,
				Type:  xp.Type,
				Value: value,
			})
		}
		tiles = append(tiles, rt)
	}

	return build(meta, tiles)
}

func parseTSX(r io.Reader) (*Table, error) {
	var x XMLTileset
	if err := xml.NewDecoder(r).Decode(&x); err != nil {
		return nil, fmt.Errorf("tileset: decode tsx: %w", err)
	}
	return FromXML(x)
}
