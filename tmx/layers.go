package tmx

import (
	"iter"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/eak1mov/go-libtmx/props"
)

// LayerInfo holds the fields shared by all four layer kinds.
type LayerInfo struct {
	Name       string
	Visible    bool
	Opacity    float64
	OffsetX    float64
	OffsetY    float64
	Properties props.Properties
}

// Layer is the sum type over the four layer variants. The concrete types are
// *TileLayer, *ImageLayer, *GroupLayer and *ObjectGroup; callers dispatch
// with a type switch.
type Layer interface {
	Info() *LayerInfo
	layer()
}

// TileLayer owns a grid of local GIDs, indexed Grid[y][x]. Zero means empty.
type TileLayer struct {
	LayerInfo
	Width  int
	Height int
	Grid   [][]gid.Local
}

func (l *TileLayer) Info() *LayerInfo { return &l.LayerInfo }
func (l *TileLayer) layer()           {}

// GIDAt returns the local GID at tile coordinates within this layer.
func (l *TileLayer) GIDAt(x, y int) (gid.Local, bool) {
	if x < 0 || x >= l.Width || y < 0 || y >= l.Height {
		return 0, false
	}
	return l.Grid[y][x], true
}

// ImageLayer owns one image reference. Its image is materialized through the
// same local-GID pipeline as tile images.
type ImageLayer struct {
	LayerInfo
	Source string
	Trans  string
	GID    gid.Local
}

func (l *ImageLayer) Info() *LayerInfo { return &l.LayerInfo }
func (l *ImageLayer) layer()           {}

// GroupLayer owns nested child layers, the only tree nesting in the model.
type GroupLayer struct {
	LayerInfo
	Children []Layer
}

func (l *GroupLayer) Info() *LayerInfo { return &l.LayerInfo }
func (l *GroupLayer) layer()           {}

// ObjectGroup owns an ordered sequence of objects.
type ObjectGroup struct {
	LayerInfo
	Color     string
	DrawOrder string
	Objects   []*Object
}

func (g *ObjectGroup) Info() *LayerInfo { return &g.LayerInfo }
func (g *ObjectGroup) layer()           {}

// All iterates the group's objects in document order.
func (g *ObjectGroup) All() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, o := range g.Objects {
			if !yield(o) {
				return
			}
		}
	}
}

// flattenLayers appends layers in document pre-order, descending into groups.
func flattenLayers(layers []Layer, out []Layer) []Layer {
	for _, l := range layers {
		out = append(out, l)
		if g, ok := l.(*GroupLayer); ok {
			out = flattenLayers(g.Children, out)
		}
	}
	return out
}
