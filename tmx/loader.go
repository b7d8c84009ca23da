package tmx

import (
	"encoding/xml"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/eak1mov/go-libtmx/props"
)

// CutFunc materializes one tile from a loaded image. A nil rect means the
// whole image; flags ask the loader for an orientation-corrected variant.
type CutFunc func(rect *image.Rectangle, flags gid.Flags) (TileImage, error)

// ImageLoader opens an image source and returns a CutFunc for it. This is
// the only outward call the core makes for pixel data; rendering back-ends
// plug in here without the core depending on any graphics library.
type ImageLoader func(source, colorkey string) (CutFunc, error)

// LoadOptions configures one load call.
type LoadOptions struct {
	// Loader materializes tile images. When nil, the map loads without
	// images and ReloadImages fails until a loader is provided.
	Loader ImageLoader

	// LoadAllTiles materializes tiles present in a tileset but never
	// referenced by any layer. Off by default to avoid wasted work on large
	// shared tilesets.
	LoadAllTiles bool

	// OptionalGIDs lists raw tile ids to force-load regardless of use.
	OptionalGIDs []gid.Raw

	// InvertY shifts tile-object Y coordinates up by the object height, for
	// back-ends with a bottom-left origin.
	InvertY bool

	// AllowDuplicateNames permits custom properties that collide with
	// reserved attribute names; the custom value wins in the property bag.
	AllowDuplicateNames bool

	// Classes is the schema table for class-typed properties.
	Classes props.Types

	Logger *slog.Logger
}

type loader struct {
	m      *Map
	opts   LoadOptions
	logger *slog.Logger

	// Image layers get synthetic raw ids carved from the top of the
	// flag-free id space, far above any firstgid a real document uses.
	nextSyntheticRaw gid.Raw
}

// pendingLayer is a layer node awaiting its pass of the load state machine.
// Groups are parsed ahead of the other kinds, so their children are
// collected up front.
type pendingLayer struct {
	kind     string
	node     xmlNode
	group    *xmlGroup
	children []*pendingLayer
	built    Layer
}

// Load reads and assembles a map document. The load either completes or
// fails; a failed load never returns a partially populated map.
func Load(path string, opts LoadOptions) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tmx: cannot read map %q: %w", path, err)
	}

	doc := xmlMap{}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tmx: malformed map %q: %w", path, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ld := &loader{
		m: &Map{
			Version:         doc.Version,
			TiledVersion:    doc.TiledVersion,
			Orientation:     doc.Orientation,
			RenderOrder:     doc.RenderOrder,
			BackgroundColor: doc.BackgroundColor,
			Width:           doc.Width,
			Height:          doc.Height,
			TileWidth:       doc.TileWidth,
			TileHeight:      doc.TileHeight,
			NextObjectID:    doc.NextObjectID,
			Registry:        gid.NewRegistry(),
			TileProps:       make(map[gid.Local]props.Properties),
			images:          make(map[gid.Local]TileImage),
			objectsByID:     make(map[int]*Object),
			objectsByName:   make(map[string]*Object),
			filename:        path,
			baseDir:         filepath.Dir(path),
			opts:            opts,
		},
		opts:             opts,
		logger:           logger,
		nextSyntheticRaw: gid.MaxRaw,
	}

	if err := ld.assemble(&doc); err != nil {
		return nil, fmt.Errorf("tmx: %q: %w", path, err)
	}
	return ld.m, nil
}

// assemble runs the load state machine. The pass order is fixed: each state
// feeds the next, and later states assume earlier ones are complete.
func (ld *loader) assemble(doc *xmlMap) error {
	var err error
	if ld.m.Properties, err = ld.parseProperties(doc.Properties, reservedMapNames); err != nil {
		return err
	}

	pending, err := collectPending(doc.LayerNodes)
	if err != nil {
		return err
	}

	ld.logger.Debug("libtmx: parse groups")
	if err := ld.buildGroups(pending); err != nil {
		return err
	}
	ld.logger.Debug("libtmx: parse tile layers")
	if err := ld.buildKind(pending, "layer", ld.buildTileLayer); err != nil {
		return err
	}
	ld.logger.Debug("libtmx: parse image layers")
	if err := ld.buildKind(pending, "imagelayer", ld.buildImageLayer); err != nil {
		return err
	}
	ld.logger.Debug("libtmx: parse object groups")
	if err := ld.buildKind(pending, "objectgroup", ld.buildObjectGroup); err != nil {
		return err
	}

	ld.m.Layers = assembleLayers(pending)
	ld.m.flat = flattenLayers(ld.m.Layers, nil)
	ld.indexObjects()

	// Tilesets go last: only now is the registry complete, so tile metadata
	// can be attached against the local GIDs actually in use.
	ld.logger.Debug("libtmx: parse tilesets")
	for i := range doc.Tilesets {
		if err := ld.parseTileset(&doc.Tilesets[i]); err != nil {
			return err
		}
	}

	ld.logger.Debug("libtmx: correct tile objects")
	for o := range ld.m.Objects() {
		if o.GID != 0 {
			ld.correctTileObject(o)
		}
	}

	if ld.opts.Loader != nil {
		ld.logger.Debug("libtmx: materialize images")
		if err := ld.m.ReloadImages(); err != nil {
			return err
		}
	}

	ld.logger.Debug("libtmx: done", "locals", ld.m.Registry.Count())
	return nil
}

func collectPending(nodes []xmlNode) ([]*pendingLayer, error) {
	var pending []*pendingLayer
	for _, node := range nodes {
		kind := node.XMLName.Local
		switch kind {
		case "layer", "imagelayer", "objectgroup":
			pending = append(pending, &pendingLayer{kind: kind, node: node})
		case "group":
			group := xmlGroup{}
			if err := remarshalInto(node, &group); err != nil {
				return nil, err
			}
			children, err := collectPending(group.LayerNodes)
			if err != nil {
				return nil, err
			}
			pending = append(pending, &pendingLayer{kind: kind, group: &group, children: children})
		default:
			// Editor-only elements (editorsettings and friends) are skipped.
		}
	}
	return pending, nil
}

func remarshalInto(node xmlNode, dst any) error {
	data, err := xml.Marshal(node)
	if err != nil {
		return fmt.Errorf("tmx: cannot remarshal <%v>: %w", node.XMLName.Local, err)
	}
	if err := xml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("tmx: malformed <%v>: %w", node.XMLName.Local, err)
	}
	return nil
}

func (ld *loader) buildGroups(pending []*pendingLayer) error {
	for _, p := range pending {
		if p.kind == "group" {
			properties, err := ld.parseProperties(p.group.Properties, reservedLayerNames)
			if err != nil {
				return err
			}
			p.built = &GroupLayer{LayerInfo: LayerInfo{
				Name:       p.group.Name,
				Visible:    boolOr(p.group.Visible, true),
				Opacity:    floatOr(p.group.Opacity, 1),
				OffsetX:    p.group.OffsetX,
				OffsetY:    p.group.OffsetY,
				Properties: properties,
			}}
		}
		if err := ld.buildGroups(p.children); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) buildKind(pending []*pendingLayer, kind string, build func(xmlNode) (Layer, error)) error {
	for _, p := range pending {
		if p.kind == kind {
			layer, err := build(p.node)
			if err != nil {
				return err
			}
			p.built = layer
		}
		if err := ld.buildKind(p.children, kind, build); err != nil {
			return err
		}
	}
	return nil
}

func (ld *loader) buildTileLayer(node xmlNode) (Layer, error) {
	wire := xmlTileLayer{}
	if err := remarshalInto(node, &wire); err != nil {
		return nil, err
	}
	properties, err := ld.parseProperties(wire.Properties, reservedLayerNames)
	if err != nil {
		return nil, err
	}

	width, height := wire.Width, wire.Height
	if width == 0 {
		width = ld.m.Width
	}
	if height == 0 {
		height = ld.m.Height
	}

	values, err := decodeLayerData(&wire.Data, width, height)
	if err != nil {
		return nil, fmt.Errorf("tmx: layer %q: %w", wire.Name, err)
	}

	grid := make([][]gid.Local, height)
	for y := range grid {
		row := make([]gid.Local, width)
		for x := range row {
			row[x] = ld.m.Registry.RegisterRaw(values[y*width+x])
		}
		grid[y] = row
	}

	return &TileLayer{
		LayerInfo: LayerInfo{
			Name:       wire.Name,
			Visible:    boolOr(wire.Visible, true),
			Opacity:    floatOr(wire.Opacity, 1),
			OffsetX:    wire.OffsetX,
			OffsetY:    wire.OffsetY,
			Properties: properties,
		},
		Width:  width,
		Height: height,
		Grid:   grid,
	}, nil
}

func (ld *loader) buildImageLayer(node xmlNode) (Layer, error) {
	wire := xmlImageLayer{}
	if err := remarshalInto(node, &wire); err != nil {
		return nil, err
	}
	properties, err := ld.parseProperties(wire.Properties, reservedLayerNames)
	if err != nil {
		return nil, err
	}

	layer := &ImageLayer{LayerInfo: LayerInfo{
		Name:       wire.Name,
		Visible:    boolOr(wire.Visible, true),
		Opacity:    floatOr(wire.Opacity, 1),
		OffsetX:    wire.OffsetX,
		OffsetY:    wire.OffsetY,
		Properties: properties,
	}}
	if wire.Image != nil {
		layer.Source = wire.Image.Source
		layer.Trans = wire.Image.Trans
		// One synthetic local GID per image layer, so its image flows
		// through the same materialization pipeline as tile images.
		layer.GID = ld.m.Registry.Register(ld.nextSyntheticRaw, gid.EmptyFlags)
		ld.nextSyntheticRaw--
	}
	return layer, nil
}

func (ld *loader) buildObjectGroup(node xmlNode) (Layer, error) {
	wire := xmlObjectGroup{}
	if err := remarshalInto(node, &wire); err != nil {
		return nil, err
	}
	return ld.parseObjectGroup(&wire)
}

// parseObjectGroup is shared between map layers and tile collision groups.
func (ld *loader) parseObjectGroup(node *xmlObjectGroup) (*ObjectGroup, error) {
	properties, err := ld.parseProperties(node.Properties, reservedObjectGroupNames)
	if err != nil {
		return nil, err
	}

	group := &ObjectGroup{
		LayerInfo: LayerInfo{
			Name:       node.Name,
			Visible:    boolOr(node.Visible, true),
			Opacity:    floatOr(node.Opacity, 1),
			OffsetX:    node.OffsetX,
			OffsetY:    node.OffsetY,
			Properties: properties,
		},
		Color:     node.Color,
		DrawOrder: node.DrawOrder,
	}
	for i := range node.Objects {
		o, err := ld.parseObject(&node.Objects[i])
		if err != nil {
			return nil, err
		}
		group.Objects = append(group.Objects, o)
	}
	return group, nil
}

func assembleLayers(pending []*pendingLayer) []Layer {
	var layers []Layer
	for _, p := range pending {
		if p.built == nil {
			continue
		}
		if g, ok := p.built.(*GroupLayer); ok {
			g.Children = assembleLayers(p.children)
		}
		layers = append(layers, p.built)
	}
	return layers
}

// indexObjects records id and name lookups. The first object discovered
// under a name wins, so later duplicates do not shadow earlier ones.
func (ld *loader) indexObjects() {
	for o := range ld.m.Objects() {
		if _, taken := ld.m.objectsByID[o.ID]; !taken {
			ld.m.objectsByID[o.ID] = o
		}
		if o.Name != "" {
			if _, taken := ld.m.objectsByName[o.Name]; !taken {
				ld.m.objectsByName[o.Name] = o
			}
		}
	}
}

// ReloadImages clears and rebuilds the local GID to image mapping. It is not
// safe to call concurrently with itself or with image reads on the same map;
// callers must serialize it.
func (m *Map) ReloadImages() error {
	if m.opts.Loader == nil {
		return ErrNoImageLoader
	}

	m.images = make(map[gid.Local]TileImage)

	optional := make(map[gid.Raw]bool, len(m.opts.OptionalGIDs))
	for _, raw := range m.opts.OptionalGIDs {
		optional[raw] = true
	}

	for _, ts := range m.Tilesets {
		if ts.Image == "" {
			continue
		}
		cut, err := m.opts.Loader(ts.ResolveSource(ts.Image), ts.Trans)
		if err != nil {
			return fmt.Errorf("tmx: tileset %q: %w", ts.Name, err)
		}
		for raw, rect := range ts.TileRects() {
			entries := m.Registry.LocalsOf(raw)
			if entries == nil {
				if !m.opts.LoadAllTiles && !optional[raw] {
					continue
				}
				entries = []gid.Entry{{Local: m.Registry.Register(raw, gid.EmptyFlags)}}
			}
			for _, entry := range entries {
				r := rect
				img, err := cut(&r, entry.Flags)
				if err != nil {
					return fmt.Errorf("tmx: tileset %q tile %v: %w", ts.Name, raw, err)
				}
				m.images[entry.Local] = img
			}
		}
	}

	for _, layer := range m.flat {
		il, ok := layer.(*ImageLayer)
		if !ok || il.Source == "" {
			continue
		}
		cut, err := m.opts.Loader(filepath.Join(m.baseDir, il.Source), il.Trans)
		if err != nil {
			return fmt.Errorf("tmx: image layer %q: %w", il.Name, err)
		}
		img, err := cut(nil, gid.EmptyFlags)
		if err != nil {
			return fmt.Errorf("tmx: image layer %q: %w", il.Name, err)
		}
		m.images[il.GID] = img
	}

	// Image collection tiles: a per-tile source replaces the sheet cut.
	for local, bag := range m.TileProps {
		source, ok := bag.String("source")
		if !ok || source == "" {
			continue
		}
		trans, _ := bag.String("trans")
		cut, err := m.opts.Loader(source, trans)
		if err != nil {
			return fmt.Errorf("tmx: tile image %q: %w", source, err)
		}
		_, flags, _ := m.Registry.EntryOf(local)
		img, err := cut(nil, flags)
		if err != nil {
			return fmt.Errorf("tmx: tile image %q: %w", source, err)
		}
		m.images[local] = img
	}

	return nil
}
