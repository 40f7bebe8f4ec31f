package tileset

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yamlTileset is the YAML rendition of a tileset description:
//
//	name: tileset
//	tile_width: 32
//	tiles:
//	  - id: 0
//	    properties:
//	      interactable: true
//	      tile_img: sign
type yamlTileset struct {
	Name       string     `yaml:"name"`
	TileWidth  int        `yaml:"tile_width"`
	TileHeight int        `yaml:"tile_height"`
	TileCount  int        `yaml:"tile_count"`
	Columns    int        `yaml:"columns"`
	Image      yamlImage  `yaml:"image"`
	Tiles      []yamlTile `yaml:"tiles"`
}

type yamlImage struct {
	Source string `yaml:"source"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type yamlTile struct {
	ID         yaml.Node `yaml:"id"`
	Properties yaml.Node `yaml:"properties"`
}

func parseYAML(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tileset: read yaml: %w", err)
	}

	var y yamlTileset
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("tileset: parse yaml: %w", err)
	}

	meta := Meta{
		Name:       y.Name,
		TileWidth:  y.TileWidth,
		TileHeight: y.TileHeight,
		TileCount:  y.TileCount,
		Columns:    y.Columns,
		Image:      Image(y.Image),
	}

	tiles := make([]rawTile, 0, len(y.Tiles))
	for _, yt := range y.Tiles {
		rt := rawTile{ID: yt.ID.Value}
		props, err := yamlProperties(yt)
		if err != nil {
			return nil, err
		}
		rt.Properties = props
		tiles = append(tiles, rt)
	}

	return build(meta, tiles)
}

// yamlProperties flattens a properties mapping, taking each value's declared
// type from its resolved YAML tag.
func yamlProperties(yt yamlTile) ([]rawProperty, error) {
	node := yt.Properties
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, malformed(-1, "properties", "tile %q: properties must be a mapping", yt.ID.Value)
	}

	props := make([]rawProperty, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, malformed(-1, key.Value, "tile %q: property value must be a scalar", yt.ID.Value)
		}

		p := rawProperty{Name: key.Value, Value: val.Value}
		switch val.ShortTag() {
		case "!!bool":
			var b bool
			if err := val.Decode(&b); err != nil {
				return nil, malformed(-1, key.Value, "tile %q: %v", yt.ID.Value, err)
			}
			p.Type, p.Value = "bool", strconv.FormatBool(b)
		case "!!int":
			var n int
			if err := val.Decode(&n); err != nil {
				return nil, malformed(-1, key.Value, "tile %q: %v", yt.ID.Value, err)
			}
			p.Type, p.Value = "int", strconv.Itoa(n)
		case "!!float":
			p.Type = "float"
		case "!!str":
			p.Type = "string"
		default:
			return nil, malformed(-1, key.Value, "tile %q: unsupported value tag %s", yt.ID.Value, val.ShortTag())
		}

		props = append(props, p)
	}
	return props, nil
}
