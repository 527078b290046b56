// Package xdlib compiles graphs into diagrams in one call: it creates the sketch, runs a
// layout and exports the drawn shapes.
package xdlib

import (
	"context"
	"math/rand"

	"cdr.dev/slog"
	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/xdsketch/lib/log"
	"oss.terrastruct.com/xdsketch/lib/textmeasure"
	"oss.terrastruct.com/xdsketch/xdexporter"
	"oss.terrastruct.com/xdsketch/xdgraph"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdcompare"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdpositioned"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdstack"
	"oss.terrastruct.com/xdsketch/xdrenderers/xdexcalidraw"
	"oss.terrastruct.com/xdsketch/xdshape"
	"oss.terrastruct.com/xdsketch/xdtarget"
)

type CompileOptions struct {
	// Name of the diagram. Defaults to the graph name.
	Name string
	// Seed makes ids, element seeds and colors reproducible. Random when nil.
	Seed  *int64
	Ruler textmeasure.Measurer

	Stack      *xdstack.Opts
	Compare    *xdcompare.Opts
	Positioned *xdpositioned.Opts
}

func newSketch(opts *CompileOptions) (*xdshape.Sketch, error) {
	skOpts := &xdshape.Opts{
		Ruler: opts.Ruler,
	}
	if opts.Seed != nil {
		skOpts.Rand = rand.New(rand.NewSource(*opts.Seed))
		skOpts.NewID = xdshape.SeededIDs(*opts.Seed)
	}
	return xdshape.New(skOpts)
}

func nameOr(opts *CompileOptions, name string) string {
	if opts.Name != "" {
		return opts.Name
	}
	return name
}

// Compile lays out g as nested frames.
func Compile(ctx context.Context, g *xdgraph.Graph, opts *CompileOptions) (_ *xdtarget.Diagram, err error) {
	if opts == nil {
		opts = &CompileOptions{}
	}
	name := nameOr(opts, g.Name)
	defer xdefer.Errorf(&err, "failed to compile %q", name)

	sk, err := newSketch(opts)
	if err != nil {
		return nil, err
	}
	res, err := xdstack.Layout(ctx, sk, g, opts.Stack)
	if err != nil {
		return nil, err
	}
	return xdexporter.Export(ctx, sk, name, res.Shapes())
}

// CompileComparison lays out every version next to base, drawing only what changed.
func CompileComparison(ctx context.Context, versions []xdcompare.Version, base string, opts *CompileOptions) (_ *xdtarget.Diagram, err error) {
	if opts == nil {
		opts = &CompileOptions{}
	}
	name := nameOr(opts, base)
	defer xdefer.Errorf(&err, "failed to compile comparison %q", name)

	sk, err := newSketch(opts)
	if err != nil {
		return nil, err
	}
	res, err := xdcompare.Layout(ctx, sk, versions, base, opts.Compare)
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, "compared versions", slog.F("base", base), slog.F("versions", len(res.Versions)))
	return xdexporter.Export(ctx, sk, name, res.Shapes)
}

// CompilePositioned draws g at its explicit node positions.
func CompilePositioned(ctx context.Context, g *xdgraph.Graph, opts *CompileOptions) (_ *xdtarget.Diagram, err error) {
	if opts == nil {
		opts = &CompileOptions{}
	}
	name := nameOr(opts, g.Name)
	defer xdefer.Errorf(&err, "failed to compile positioned graph %q", name)

	sk, err := newSketch(opts)
	if err != nil {
		return nil, err
	}
	res, err := xdpositioned.Layout(ctx, sk, g, opts.Positioned)
	if err != nil {
		return nil, err
	}
	return xdexporter.Export(ctx, sk, name, res.Shapes)
}

// Render serializes a compiled diagram as an excalidraw document.
func Render(diagram *xdtarget.Diagram) ([]byte, error) {
	return xdexcalidraw.Render(diagram, nil)
}
