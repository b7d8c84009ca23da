package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
)

type dumpCmd struct {
	inputPath string
	layerName string
}

func (c *dumpCmd) Name() string     { return "dump" }
func (c *dumpCmd) Synopsis() string { return "dump layer grids and objects as text" }
func (c *dumpCmd) Usage() string {
	return "tmxutil dump -i <path> [-l <layer>]\n"
}
func (c *dumpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input map path")
	f.StringVar(&c.layerName, "l", "", "Dump only the named layer")
}

func (c *dumpCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	m, err := tmx.Load(c.inputPath, tmx.LoadOptions{})
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if c.layerName != "" {
		layer, err := m.LayerByName(c.layerName)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		dumpLayer(m, layer)
		return subcommands.ExitSuccess
	}

	for layer := range m.VisibleLayers() {
		dumpLayer(m, layer)
	}
	return subcommands.ExitSuccess
}

func dumpLayer(m *tmx.Map, layer tmx.Layer) {
	switch l := layer.(type) {
	case *tmx.TileLayer:
		fmt.Printf("layer %q:\n", l.Name)
		for y := range l.Height {
			cells := make([]string, l.Width)
			for x := range l.Width {
				cells[x] = "."
				if raw, ok := cellOf(m, l, x, y); ok {
					cells[x] = fmt.Sprint(raw)
				}
			}
			fmt.Printf("  %v\n", strings.Join(cells, " "))
		}
	case *tmx.ObjectGroup:
		fmt.Printf("objects %q:\n", l.Name)
		for o := range l.All() {
			fmt.Printf("  #%v %q %q at (%v, %v) %vx%v\n",
				o.ID, o.Name, o.Type, o.X, o.Y, o.Width, o.Height)
		}
	}
}

func cellOf(m *tmx.Map, l *tmx.TileLayer, x, y int) (uint32, bool) {
	local, ok := l.GIDAt(x, y)
	if !ok || local == 0 {
		return 0, false
	}
	raw, _, ok := m.Registry.EntryOf(local)
	if !ok {
		return 0, false
	}
	return uint32(raw), true
}
