package tmx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/eak1mov/go-libtmx/props"
)

// Object is a placed object on an object layer. When GID is nonzero the
// object is a tile object: it inherits its tile's properties (unless locally
// overridden) and carries a rotation class derived from the GID's flags.
type Object struct {
	ID       int
	Name     string
	Type     string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
	Visible  bool

	GID           gid.Local
	RotationClass int

	Ellipse  bool
	Point    bool
	Polygon  []Point
	Polyline []Point

	Properties props.Properties
}

// Point is a coordinate pair from a polygon or polyline points list.
type Point struct {
	X float64
	Y float64
}

func parsePoints(raw string) ([]Point, error) {
	fields := strings.Fields(raw)
	points := make([]Point, 0, len(fields))
	for _, field := range fields {
		xy := strings.SplitN(field, ",", 2)
		if len(xy) != 2 {
			return nil, fmt.Errorf("tmx: invalid point %q", field)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("tmx: invalid point %q: %w", field, err)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("tmx: invalid point %q: %w", field, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

func (ld *loader) parseObject(node *xmlObject) (*Object, error) {
	properties, err := ld.parseProperties(node.Properties, reservedObjectNames)
	if err != nil {
		return nil, err
	}

	o := &Object{
		ID:         node.ID,
		Name:       node.Name,
		Type:       node.Type,
		X:          node.X,
		Y:          node.Y,
		Width:      node.Width,
		Height:     node.Height,
		Rotation:   node.Rotation,
		Visible:    boolOr(node.Visible, true),
		Ellipse:    node.Ellipse != nil,
		Point:      node.Point != nil,
		Properties: properties,
	}

	if node.GID != nil {
		// The raw value still carries flags; geometry is resolved later,
		// in the tile-object correction pass.
		o.GID = ld.m.Registry.RegisterRaw(*node.GID)
	}
	if node.Polygon != nil {
		if o.Polygon, err = parsePoints(node.Polygon.Points); err != nil {
			return nil, err
		}
	}
	if node.Polyline != nil {
		if o.Polyline, err = parsePoints(node.Polyline.Points); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// correctTileObject normalizes a tile object after all tilesets are parsed:
// derive the rotation class, inherit tile properties the object does not
// define, shift the anchor to the top-left convention, and honor invert-Y.
func (ld *loader) correctTileObject(o *Object) {
	_, flags, ok := ld.m.Registry.EntryOf(o.GID)
	if !ok {
		return
	}
	o.RotationClass = flags.RotationClass()

	if tileProps := ld.m.TileProps[o.GID]; tileProps != nil {
		for k, v := range tileProps {
			if _, defined := o.Properties[k]; !defined {
				o.Properties[k] = v
			}
		}
	}

	switch o.RotationClass {
	case 90:
		o.X += o.Height
	case 180:
		o.X += o.Width
		o.Y -= o.Height
	case 270:
		o.Y -= o.Width
	}

	if ld.opts.InvertY {
		o.Y -= o.Height
	}
}
