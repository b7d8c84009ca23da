package tmx

import (
	"fmt"
	"iter"
	"slices"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/eak1mov/go-libtmx/props"
	"github.com/google/hilbert"
)

// TileImage is an opaque materialized tile produced by the image loader.
// The core never inspects it, only stores it and hands it back by local GID.
type TileImage any

// Map is the fully linked in-memory model of one document. It is constructed
// once per load, mutated only during parsing and an explicit ReloadImages
// pass, and immutable from the caller's perspective thereafter.
type Map struct {
	Version         string
	TiledVersion    string
	Orientation     string
	RenderOrder     string
	BackgroundColor string
	Width           int
	Height          int
	TileWidth       int
	TileHeight      int
	NextObjectID    int

	Properties props.Properties

	// Layers holds the four layer kinds interleaved in document order, with
	// group children nested in place.
	Layers []Layer

	// Tilesets are ordered by first appearance in the document.
	Tilesets []*Tileset

	// Registry is the load's private GID registry. Useful for advanced
	// callers; it must not be mutated after a successful load.
	Registry *gid.Registry

	// TileProps maps local GIDs to the tile metadata parsed from tilesets.
	TileProps map[gid.Local]props.Properties

	images        map[gid.Local]TileImage
	flat          []Layer
	objectsByID   map[int]*Object
	objectsByName map[string]*Object

	filename string
	baseDir  string
	opts     LoadOptions
}

// Filename returns the path the map was loaded from.
func (m *Map) Filename() string { return m.filename }

// layerAt resolves a flat layer index: layers count in document order,
// descending into groups.
func (m *Map) layerAt(index int) (Layer, error) {
	if index < 0 || index >= len(m.flat) {
		return nil, &OutOfBoundsError{Layer: index}
	}
	return m.flat[index], nil
}

func (m *Map) tileLayerAt(index int) (*TileLayer, error) {
	layer, err := m.layerAt(index)
	if err != nil {
		return nil, err
	}
	tl, ok := layer.(*TileLayer)
	if !ok {
		return nil, fmt.Errorf("%w: index %v", ErrNotTileLayer, index)
	}
	return tl, nil
}

// GIDAt returns the local GID at tile coordinates on the given layer.
// Zero means an empty cell.
func (m *Map) GIDAt(x, y, layer int) (gid.Local, error) {
	tl, err := m.tileLayerAt(layer)
	if err != nil {
		return 0, err
	}
	local, ok := tl.GIDAt(x, y)
	if !ok {
		return 0, &OutOfBoundsError{X: x, Y: y, Layer: layer}
	}
	return local, nil
}

// TileImageAt returns the materialized tile image at tile coordinates on the
// given layer, or nil for an empty cell.
func (m *Map) TileImageAt(x, y, layer int) (TileImage, error) {
	local, err := m.GIDAt(x, y, layer)
	if err != nil {
		return nil, err
	}
	if local == 0 {
		return nil, nil
	}
	return m.images[local], nil
}

// TileImageByGID returns the materialized image for a local GID, or nil when
// the GID has no image entry.
func (m *Map) TileImageByGID(g gid.Local) TileImage {
	return m.images[g]
}

// TilePropertiesAt returns the tile metadata at tile coordinates on the
// given layer, or nil for an empty cell or a tile without metadata.
func (m *Map) TilePropertiesAt(x, y, layer int) (props.Properties, error) {
	local, err := m.GIDAt(x, y, layer)
	if err != nil {
		return nil, err
	}
	if local == 0 {
		return nil, nil
	}
	return m.TileProps[local], nil
}

// TilePropertiesByGID returns the tile metadata attached to a local GID.
func (m *Map) TilePropertiesByGID(g gid.Local) props.Properties {
	return m.TileProps[g]
}

// LayerByName returns the first layer with the given name, searching in
// document order and descending into groups.
func (m *Map) LayerByName(name string) (Layer, error) {
	for _, layer := range m.flat {
		if layer.Info().Name == name {
			return layer, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, name)
}

// ObjectByID returns the object with the given document id.
func (m *Map) ObjectByID(id int) (*Object, error) {
	if o, ok := m.objectsByID[id]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("%w: id %v", ErrObjectNotFound, id)
}

// ObjectByName returns the first object discovered with the given name.
func (m *Map) ObjectByName(name string) (*Object, error) {
	if o, ok := m.objectsByName[name]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
}

// TilesetForLocal returns the tileset owning a local GID's raw identifier.
func (m *Map) TilesetForLocal(g gid.Local) (*Tileset, error) {
	raw, ok := m.Registry.RawOf(g)
	if !ok {
		return nil, fmt.Errorf("%w: local %v", ErrUnknownGID, g)
	}
	var owner *Tileset
	for _, ts := range m.Tilesets {
		if raw >= ts.FirstGID && (owner == nil || ts.FirstGID > owner.FirstGID) {
			owner = ts
		}
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: raw %v", ErrNoTileset, raw)
	}
	return owner, nil
}

// VisibleLayers iterates visible layers in document order, descending into
// visible groups.
func (m *Map) VisibleLayers() iter.Seq[Layer] {
	return func(yield func(Layer) bool) {
		var walk func(layers []Layer) bool
		walk = func(layers []Layer) bool {
			for _, layer := range layers {
				if !layer.Info().Visible {
					continue
				}
				if !yield(layer) {
					return false
				}
				if g, ok := layer.(*GroupLayer); ok {
					if !walk(g.Children) {
						return false
					}
				}
			}
			return true
		}
		walk(m.Layers)
	}
}

// VisibleTileLayers iterates visible tile layers in document order.
func (m *Map) VisibleTileLayers() iter.Seq[*TileLayer] {
	return func(yield func(*TileLayer) bool) {
		for layer := range m.VisibleLayers() {
			if tl, ok := layer.(*TileLayer); ok {
				if !yield(tl) {
					return
				}
			}
		}
	}
}

// VisibleObjectGroups iterates visible object groups in document order.
func (m *Map) VisibleObjectGroups() iter.Seq[*ObjectGroup] {
	return func(yield func(*ObjectGroup) bool) {
		for layer := range m.VisibleLayers() {
			if g, ok := layer.(*ObjectGroup); ok {
				if !yield(g) {
					return
				}
			}
		}
	}
}

// Objects iterates every object in document order across all object groups.
func (m *Map) Objects() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, layer := range m.flat {
			g, ok := layer.(*ObjectGroup)
			if !ok {
				continue
			}
			for _, o := range g.Objects {
				if !yield(o) {
					return
				}
			}
		}
	}
}

// Location is one grid cell occurrence of a tile.
type Location struct {
	X     int
	Y     int
	Layer int
}

// TileLocations returns every grid cell whose tile shares the given local
// GID's raw identifier, regardless of orientation. Cells are ordered along a
// Hilbert curve over the grid so successive results are spatially adjacent.
func (m *Map) TileLocations(g gid.Local) ([]Location, error) {
	raw, ok := m.Registry.RawOf(g)
	if !ok {
		return nil, fmt.Errorf("%w: local %v", ErrUnknownGID, g)
	}

	var locations []Location
	for index, layer := range m.flat {
		tl, ok := layer.(*TileLayer)
		if !ok {
			continue
		}
		for y := range tl.Height {
			for x := range tl.Width {
				cell := tl.Grid[y][x]
				if cell == 0 {
					continue
				}
				if cellRaw, ok := m.Registry.RawOf(cell); ok && cellRaw == raw {
					locations = append(locations, Location{X: x, Y: y, Layer: index})
				}
			}
		}
	}

	m.sortByHilbert(locations)
	return locations, nil
}

func (m *Map) sortByHilbert(locations []Location) {
	side := 1
	for side < max(m.Width, m.Height) {
		side <<= 1
	}
	h, err := hilbert.NewHilbert(side)
	if err != nil {
		return
	}
	codeOf := func(loc Location) int {
		code, err := h.MapInverse(loc.X, loc.Y)
		if err != nil {
			return 0
		}
		return code
	}
	slices.SortStableFunc(locations, func(a, b Location) int {
		if c := codeOf(a) - codeOf(b); c != 0 {
			return c
		}
		return a.Layer - b.Layer
	})
}
