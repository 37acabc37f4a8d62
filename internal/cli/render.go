package cli

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/griddle/internal/canvas"
	"github.com/mesh-intelligence/griddle/internal/imagecache"
	"github.com/mesh-intelligence/griddle/internal/surface"
)

const defaultRenderFile = "grid.png"

type renderOptions struct {
	out     string
	sort    string
	width   int
	height  int
	scrollX float64
	scrollY float64
	timeout time.Duration
}

func newRenderCmd(a *app) *cobra.Command {
	var o renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Paint one frame of the grid to a PNG",
		Long:  "Paint the viewport, with headers, group headers and footer, onto a raster surface and write it as a PNG. Avatars are loaded before painting so the frame is complete.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.out, "out", "", "output file (default: grid.png in the data dir)")
	f.StringVar(&o.sort, "sort", "", "sort as column[:asc|desc]")
	f.IntVar(&o.width, "width", 1280, "frame width in pixels")
	f.IntVar(&o.height, "height", 720, "frame height in pixels")
	f.Float64Var(&o.scrollX, "scroll-x", 0, "horizontal scroll in pixels")
	f.Float64Var(&o.scrollY, "scroll-y", 0, "vertical scroll in pixels")
	f.DurationVar(&o.timeout, "timeout", 10*time.Second, "time allowed for loading avatars")
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, o renderOptions) error {
	s, err := a.newSession(o.sort)
	if err != nil {
		return err
	}
	out := o.out
	if out == "" {
		dir, err := a.dataDir()
		if err != nil {
			return err
		}
		out = filepath.Join(dir, defaultRenderFile)
	}

	layout := surface.NewLayout(s.grid.Columns(), s.grid.Len(), surface.Options{
		Width:     float64(o.width),
		Height:    float64(o.height),
		RowHeight: float64(a.cfg.RowHeight),
		Freeze:    a.cfg.FreezeColumns,
		ScrollX:   o.scrollX,
		ScrollY:   o.scrollY,
		Footer:    true,
		AddRow:    true,
	})
	s.grid.SetViewport(layout.Viewport())

	images := imagecache.New(imagecache.Generated{}, imagecache.WithLogger(a.logger))
	defer images.Close()
	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()
	if err := images.Preload(ctx, avatarURLs(s, layout)); err != nil {
		// Missing avatars degrade to the name-only persona.
		a.logger.Warn("avatar preload incomplete", "err", err)
	}

	raster, err := canvas.NewRaster(o.width, o.height)
	if err != nil {
		return err
	}
	painter := surface.NewPainter(s.theme, s.registry,
		surface.WithImages(images),
		surface.WithLogger(a.logger),
	)
	stats := painter.Paint(raster, s.grid, layout, s.footer)
	a.logger.Debug("frame painted", "cells", stats.Cells, "custom", stats.Custom, "unmatched", stats.Unmatched)

	if err := writePNG(out, raster); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d, %d cells)\n", out, o.width, o.height, stats.Cells)
	return nil
}

// avatarURLs lists the distinct avatar URLs of the rows the frame shows.
func avatarURLs(s *session, l surface.Layout) []string {
	first, count := l.RowRange()
	seen := make(map[string]bool)
	var urls []string
	for _, r := range s.grid.VisibleRows()[first : first+count] {
		if u := r.Manager.Avatar; u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

func writePNG(path string, r *canvas.Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, r.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
