package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
)

type infoCmd struct {
	inputPath string
	verbose   bool
}

func (c *infoCmd) Name() string     { return "info" }
func (c *infoCmd) Synopsis() string { return "print map structure summary" }
func (c *infoCmd) Usage() string {
	return "tmxutil info -i <path> [-v]\n"
}
func (c *infoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input map path")
	f.BoolVar(&c.verbose, "v", false, "Log parse stages")
}

func (c *infoCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	opts := tmx.LoadOptions{}
	if c.verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	m, err := tmx.Load(c.inputPath, opts)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%v: %v %vx%v, tile %vx%v\n",
		m.Filename(), m.Orientation, m.Width, m.Height, m.TileWidth, m.TileHeight)

	fmt.Printf("tilesets (%v):\n", len(m.Tilesets))
	for _, ts := range m.Tilesets {
		source := "inline"
		if ts.Source != "" {
			source = ts.Source
		}
		fmt.Printf("  %q firstgid=%v count=%v (%v)\n", ts.Name, ts.FirstGID, ts.TileCount, source)
	}

	objects := 0
	for range m.Objects() {
		objects++
	}
	fmt.Printf("layers (%v top-level), %v objects, %v distinct tile variants\n",
		len(m.Layers), objects, m.Registry.Count())
	printLayers(m.Layers, "  ")

	return subcommands.ExitSuccess
}

func printLayers(layers []tmx.Layer, indent string) {
	for _, layer := range layers {
		info := layer.Info()
		visible := ""
		if !info.Visible {
			visible = " (hidden)"
		}
		switch l := layer.(type) {
		case *tmx.TileLayer:
			fmt.Printf("%vtile %q %vx%v%v\n", indent, info.Name, l.Width, l.Height, visible)
		case *tmx.ImageLayer:
			fmt.Printf("%vimage %q source=%q%v\n", indent, info.Name, l.Source, visible)
		case *tmx.ObjectGroup:
			fmt.Printf("%vobjects %q count=%v%v\n", indent, info.Name, len(l.Objects), visible)
		case *tmx.GroupLayer:
			fmt.Printf("%vgroup %q%v\n", indent, info.Name, visible)
			printLayers(l.Children, indent+"  ")
		}
	}
}
