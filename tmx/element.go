package tmx

import (
	"fmt"

	"github.com/eak1mov/go-libtmx/props"
)

// Every parsed element shares one properties routine: cast each nested
// <property> and reject names that collide with the element's reserved
// attributes, so a map author's custom "width" cannot shadow the real one.
// Collisions abort the whole load unless duplicates are explicitly allowed.

func stringSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

var (
	reservedMapNames = stringSet(
		"version", "tiledversion", "orientation", "renderorder",
		"width", "height", "tilewidth", "tileheight",
		"backgroundcolor", "nextobjectid")
	reservedTilesetNames = stringSet(
		"firstgid", "source", "name", "tilewidth", "tileheight",
		"spacing", "margin", "tilecount", "columns")
	reservedTileNames = stringSet(
		"id", "type", "probability", "width", "height",
		"source", "trans", "frames", "colliders")
	reservedLayerNames = stringSet(
		"name", "width", "height", "opacity", "visible", "offsetx", "offsety")
	reservedObjectGroupNames = stringSet(
		"name", "color", "draworder", "opacity", "visible", "offsetx", "offsety")
	reservedObjectNames = stringSet(
		"id", "name", "type", "x", "y", "width", "height",
		"rotation", "gid", "visible")
)

// parseProperties casts every nested <property> into a typed bag.
func (ld *loader) parseProperties(node xmlProperties, reserved map[string]struct{}) (props.Properties, error) {
	if len(node.Properties) == 0 {
		return props.Properties{}, nil
	}

	bag := make(props.Properties, len(node.Properties))
	for i := range node.Properties {
		p := &node.Properties[i]
		if !ld.opts.AllowDuplicateNames {
			if _, clash := reserved[p.Name]; clash {
				return nil, fmt.Errorf("%w: %q", ErrReservedProperty, p.Name)
			}
		}
		value, err := ld.castProperty(p)
		if err != nil {
			return nil, err
		}
		bag[p.Name] = value
	}
	return bag, nil
}

// castProperty converts one property node, recursing into nested values for
// class-typed properties.
func (ld *loader) castProperty(p *xmlProperty) (any, error) {
	if p.Type != "class" {
		value, err := props.Cast(p.Type, p.rawValue())
		if err != nil {
			return nil, fmt.Errorf("tmx: property %q: %w", p.Name, err)
		}
		return value, nil
	}

	instance, err := ld.opts.Classes.Instantiate(p.CustomType)
	if err != nil {
		return nil, fmt.Errorf("tmx: property %q: %w", p.Name, err)
	}
	if p.Nested != nil {
		for i := range p.Nested.Properties {
			np := &p.Nested.Properties[i]
			value, err := ld.castProperty(np)
			if err != nil {
				return nil, err
			}
			instance.Members[np.Name] = value
		}
	}
	return instance, nil
}
