// Package ebitenloader provides a tmx.ImageLoader producing *ebiten.Image
// tiles, with color-key transparency and flip/rotation baked into the pixels.
package ebitenloader

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/hajimehoshi/ebiten/v2"
)

// New returns an ImageLoader decoding sources from disk. Every TileImage it
// produces is a *ebiten.Image.
func New() tmx.ImageLoader {
	return func(source, colorkey string) (tmx.CutFunc, error) {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		decoded, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("ebitenloader: cannot decode %q: %w", source, err)
		}

		if colorkey != "" {
			decoded, err = applyColorKey(decoded, colorkey)
			if err != nil {
				return nil, fmt.Errorf("ebitenloader: %q: %w", source, err)
			}
		}

		sheet := ebiten.NewImageFromImage(decoded)
		return func(rect *image.Rectangle, flags gid.Flags) (tmx.TileImage, error) {
			tile := sheet
			if rect != nil {
				tile = sheet.SubImage(*rect).(*ebiten.Image)
			}
			return orient(tile, flags), nil
		}, nil
	}
}

// applyColorKey zeroes every pixel matching the key color. The key is an
// RGB hex string, with or without a leading '#'.
func applyColorKey(src image.Image, key string) (image.Image, error) {
	value, err := strconv.ParseUint(strings.TrimPrefix(key, "#"), 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad color key %q: %w", key, err)
	}
	keyed := color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 0xff,
	}

	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, src, bounds.Min, draw.Src)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if out.RGBAAt(x, y) == keyed {
				out.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
	return out, nil
}

// orient renders a flip/rotation variant of the tile. Diagonal flip is a
// transpose: rotate 90 degrees clockwise, then mirror horizontally; the
// remaining flips apply in the transposed frame.
func orient(tile *ebiten.Image, flags gid.Flags) *ebiten.Image {
	if flags == gid.EmptyFlags {
		return tile
	}

	w := tile.Bounds().Dx()
	h := tile.Bounds().Dy()
	outW, outH := w, h
	if flags.FlipD {
		outW, outH = h, w
	}

	var g ebiten.GeoM
	g.Translate(-float64(tile.Bounds().Min.X), -float64(tile.Bounds().Min.Y))
	if flags.FlipD {
		g.Rotate(math.Pi / 2)
		g.Translate(float64(h), 0)
		g.Scale(-1, 1)
		g.Translate(float64(h), 0)
	}
	if flags.FlipH {
		g.Scale(-1, 1)
		g.Translate(float64(outW), 0)
	}
	if flags.FlipV {
		g.Scale(1, -1)
		g.Translate(0, float64(outH))
	}

	out := ebiten.NewImage(outW, outH)
	out.DrawImage(tile, &ebiten.DrawImageOptions{GeoM: g})
	return out
}
