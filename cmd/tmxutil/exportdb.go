package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/eak1mov/go-libtmx/mapdb"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type exportDbCmd struct {
	inputPath  string
	outputPath string
}

func (c *exportDbCmd) Name() string     { return "export_db" }
func (c *exportDbCmd) Synopsis() string { return "export map content to a sqlite database" }
func (c *exportDbCmd) Usage() string {
	return "tmxutil export_db -i <path> -o <path>\n"
}
func (c *exportDbCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input map path")
	f.StringVar(&c.outputPath, "o", "", "Output database path")
}

func (c *exportDbCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	m, err := tmx.Load(c.inputPath, tmx.LoadOptions{})
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	writer, err := mapdb.NewWriter(
		c.outputPath,
		mapdb.WithMetadata(map[string]string{
			"orientation": m.Orientation,
			"width":       fmt.Sprint(m.Width),
			"height":      fmt.Sprint(m.Height),
		}),
		mapdb.WithProgress(func(rows int) { bar.Add(rows) }),
	)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer writer.Close()

	if err := writer.WriteMap(m); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bar.Finish()
	fmt.Println()

	return subcommands.ExitSuccess
}
