// Command isomesh extracts the isosurface of a scalar field with marching
// cubes and writes it as a binary STL file.
//
// Usage:
//
//	isomesh [-config scene.toml] [-field sphere] [-cells 64] [-workers 4] [-o out.stl] [-png out.png] [-v]
//
// Flags given on the command line override values read from the scene file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/soypat/isosurf/internal/preview"
	"github.com/soypat/isosurf/internal/scene"
	"github.com/soypat/isosurf/render"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "isomesh:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("isomesh", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "scene file (.toml, .yaml or .yml)")
		field      = fs.String("field", "", "field to mesh: sphere, torus, threefold or metaballs")
		cells      = fs.Int("cells", 0, "number of cells along every axis")
		workers    = fs.Int("workers", runtime.NumCPU(), "number of goroutines marching the grid")
		output     = fs.String("o", "", "output STL file")
		png        = fs.String("png", "", "optional PNG preview file")
		verbose    = fs.Bool("v", false, "log debug information")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	render.SetLogger(log)

	cfg := scene.Default()
	if *configPath != "" {
		var err error
		cfg, err = scene.Load(*configPath)
		if err != nil {
			return err
		}
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["field"] {
		cfg.Field = *field
	}
	if set["cells"] {
		cfg.Cells = []int{*cells, *cells, *cells}
	}
	if set["workers"] || cfg.Workers == 0 {
		cfg.Workers = *workers
	}
	if set["o"] {
		cfg.Output = *output
	}
	if set["png"] {
		cfg.Preview = *png
	}

	sc, err := cfg.Build()
	if err != nil {
		return err
	}
	grid, err := render.NewGrid(sc.Field, sc.Grid)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := render.CreateSTL(cfg.Output, grid); err != nil {
		return err
	}
	log.Info("wrote mesh",
		slog.String("field", cfg.Field),
		slog.String("file", cfg.Output),
		slog.Any("cells", sc.Grid.Cells),
		slog.Duration("elapsed", time.Since(start)))

	if cfg.Preview == "" {
		return nil
	}
	if err := preview.STLToPNG(cfg.Output, cfg.Preview, preview.DefaultView()); err != nil {
		return err
	}
	log.Info("wrote preview", slog.String("file", cfg.Preview))
	return nil
}
