package tmx

import (
	"encoding/xml"
	"fmt"
	"image"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/eak1mov/go-libtmx/props"
)

// Tileset claims a contiguous range of raw GIDs starting at FirstGID. Tiles
// come from one shared image laid out on a margin/spacing grid, or from
// per-tile images (image collection tilesets).
type Tileset struct {
	Name       string
	FirstGID   gid.Raw
	Source     string // external document path, empty for inline tilesets
	TileWidth  int
	TileHeight int
	Spacing    int
	Margin     int
	TileCount  int
	Columns    int
	OffsetX    int
	OffsetY    int

	Image       string // shared tileset image source, as written in the document
	Trans       string
	ImageWidth  int
	ImageHeight int

	Properties props.Properties

	// baseDir is the directory tile and image sources resolve against: the
	// external document's directory for external tilesets, the map's
	// otherwise.
	baseDir string
}

// AnimationFrame is one step of a tile animation. GID is a registry-local
// identifier; Duration is in milliseconds.
type AnimationFrame struct {
	GID      gid.Local
	Duration int
}

// ResolveSource resolves a relative source path against the directory the
// tileset was loaded from. Map-relative and external-document-relative
// resolution differ and both are legal in nested setups.
func (t *Tileset) ResolveSource(relative string) string {
	if filepath.IsAbs(relative) {
		return relative
	}
	return filepath.Join(t.baseDir, relative)
}

// ContainsRaw reports whether the raw identifier falls in this tileset's
// claimed range.
func (t *Tileset) ContainsRaw(raw gid.Raw) bool {
	return raw >= t.FirstGID && raw < t.FirstGID+gid.Raw(t.rangeSize())
}

// LocalIndex returns the tileset-local tile index of a raw identifier.
func (t *Tileset) LocalIndex(raw gid.Raw) uint32 {
	return uint32(raw - t.FirstGID)
}

func (t *Tileset) rangeSize() int {
	if t.TileCount > 0 {
		return t.TileCount
	}
	count := 0
	for range t.TileRects() {
		count++
	}
	return count
}

// TileRects enumerates the tile source rectangles of the shared image in raw
// GID order: a (margin, margin)-offset grid strided by tile size plus
// spacing. Rects that would exceed the image bounds are never emitted.
func (t *Tileset) TileRects() iter.Seq2[gid.Raw, image.Rectangle] {
	return func(yield func(gid.Raw, image.Rectangle) bool) {
		if t.TileWidth <= 0 || t.TileHeight <= 0 {
			return
		}
		raw := t.FirstGID
		for y := t.Margin; y+t.TileHeight <= t.ImageHeight; y += t.TileHeight + t.Spacing {
			for x := t.Margin; x+t.TileWidth <= t.ImageWidth; x += t.TileWidth + t.Spacing {
				rect := image.Rect(x, y, x+t.TileWidth, y+t.TileHeight)
				if !yield(raw, rect) {
					return
				}
				raw++
			}
		}
	}
}

// parseTileset resolves a <tileset> node, stitching in the external document
// when the node is only a source reference. firstgid always comes from the
// reference node: it is a property of the usage, not of the external file.
func (ld *loader) parseTileset(node *xmlTileset) error {
	baseDir := ld.m.baseDir
	if node.Source != "" {
		if !strings.HasSuffix(node.Source, ".tsx") {
			return fmt.Errorf("%w: %q", ErrUnsupportedTileset, node.Source)
		}
		path := filepath.Join(ld.m.baseDir, node.Source)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("tmx: cannot read external tileset %q: %w", path, err)
		}
		external := xmlTileset{}
		if err := xml.Unmarshal(data, &external); err != nil {
			return fmt.Errorf("tmx: malformed external tileset %q: %w", path, err)
		}
		external.FirstGID = node.FirstGID
		external.Source = node.Source
		node = &external
		baseDir = filepath.Dir(path)
	}

	properties, err := ld.parseProperties(node.Properties, reservedTilesetNames)
	if err != nil {
		return err
	}

	ts := &Tileset{
		Name:       node.Name,
		FirstGID:   gid.Raw(node.FirstGID),
		Source:     node.Source,
		TileWidth:  node.TileWidth,
		TileHeight: node.TileHeight,
		Spacing:    node.Spacing,
		Margin:     node.Margin,
		TileCount:  node.TileCount,
		Columns:    node.Columns,
		Properties: properties,
		baseDir:    baseDir,
	}
	if node.TileOffset != nil {
		ts.OffsetX = node.TileOffset.X
		ts.OffsetY = node.TileOffset.Y
	}
	if node.Image != nil {
		ts.Image = node.Image.Source
		ts.Trans = node.Image.Trans
		ts.ImageWidth = node.Image.Width
		ts.ImageHeight = node.Image.Height
	}

	for i := range node.Tiles {
		if err := ld.parseTilesetTile(ts, &node.Tiles[i]); err != nil {
			return err
		}
	}

	ld.m.Tilesets = append(ld.m.Tilesets, ts)
	return nil
}

// parseTilesetTile attaches one <tile> node's metadata to every local GID
// registered for the tile's raw identifier, registering a flag-free local
// when the tile was never referenced by a layer.
func (ld *loader) parseTilesetTile(ts *Tileset, node *xmlTile) error {
	bag, err := ld.parseProperties(node.Properties, reservedTileNames)
	if err != nil {
		return err
	}

	// Synthesized attribute entries never clobber parsed properties: with
	// AllowDuplicateNames a custom property under a reserved name wins.
	setDefault := func(key string, value any) {
		if _, taken := bag[key]; !taken {
			bag[key] = value
		}
	}

	if node.Type != "" {
		setDefault("type", node.Type)
	}
	if node.Probability != 0 {
		setDefault("probability", node.Probability)
	}

	if node.Image != nil {
		// Image collection tileset: the tile has its own image, resolved
		// against the tileset's own directory right away.
		setDefault("source", ts.ResolveSource(node.Image.Source))
		setDefault("trans", node.Image.Trans)
		setDefault("width", node.Image.Width)
		setDefault("height", node.Image.Height)
	} else {
		setDefault("width", ts.TileWidth)
		setDefault("height", ts.TileHeight)
	}

	raw := gid.Raw(node.ID) + ts.FirstGID

	if node.Animation != nil {
		frames := make([]AnimationFrame, 0, len(node.Animation.Frames))
		for _, frame := range node.Animation.Frames {
			// Frame ids are tileset-local; register them through the same
			// registry so frame images materialize with everything else.
			frameLocal := ld.m.Registry.Register(gid.Raw(frame.TileID)+ts.FirstGID, gid.EmptyFlags)
			frames = append(frames, AnimationFrame{GID: frameLocal, Duration: frame.Duration})
		}
		setDefault("frames", frames)
	}

	if len(node.ObjectGroups) > 0 {
		colliders, err := ld.parseObjectGroup(&node.ObjectGroups[0])
		if err != nil {
			return err
		}
		setDefault("colliders", colliders)
	}

	entries := ld.m.Registry.LocalsOf(raw)
	if entries == nil {
		entries = []gid.Entry{{Local: ld.m.Registry.Register(raw, gid.EmptyFlags)}}
	}
	for _, entry := range entries {
		ld.m.TileProps[entry.Local] = bag
	}
	return nil
}
