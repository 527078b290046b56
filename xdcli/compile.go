package xdcli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"oss.terrastruct.com/xdefer"

	timelib "oss.terrastruct.com/xdsketch/lib/time"
	"oss.terrastruct.com/xdsketch/lib/xmain"
	"oss.terrastruct.com/xdsketch/xdconfig"
	"oss.terrastruct.com/xdsketch/xdgraph"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdcompare"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdpositioned"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdstack"
	"oss.terrastruct.com/xdsketch/xdlib"
	"oss.terrastruct.com/xdsketch/xdtarget"
)

type compileOpts struct {
	inputPaths []string
	// names are the version names of inputPaths, in order.
	names      []string
	outputPath string
	timeout    time.Duration
	// graph reads inputs as graph documents and lays them out at their positions.
	graph bool
	// base names the version compared against when there are several inputs.
	base string
	seed *int64

	stack      *xdstack.Opts
	compare    *xdcompare.Opts
	positioned *xdpositioned.Opts
}

func compile(ctx context.Context, ms *xmain.State, opts compileOpts) (err error) {
	defer xdefer.Errorf(&err, "failed to compile %s", humanPaths(ms, opts.inputPaths))

	ctx, cancel := timelib.WithTimeout(ctx, opts.timeout)
	defer cancel()

	start := time.Now()
	diagram, err := layout(ctx, ms, opts)
	if err != nil {
		return err
	}
	tl, br := diagram.BoundingBox()
	ms.Log.Debug.Printf("laid out %d elements spanning %vx%v", len(diagram.Elements), br[0]-tl[0], br[1]-tl[1])
	b, err := xdlib.Render(diagram)
	if err != nil {
		return err
	}
	err = ms.WritePath(opts.outputPath, b)
	if err != nil {
		return err
	}
	if opts.outputPath != "-" {
		ms.Log.Success.Printf("successfully compiled %s to %s in %s", humanPaths(ms, opts.inputPaths), ms.HumanPath(opts.outputPath), time.Since(start))
	}
	return nil
}

func layout(ctx context.Context, ms *xmain.State, opts compileOpts) (*xdtarget.Diagram, error) {
	libOpts := &xdlib.CompileOptions{
		Seed:       opts.seed,
		Stack:      opts.stack,
		Compare:    opts.compare,
		Positioned: opts.positioned,
	}

	if opts.graph {
		g, err := readGraph(ms, opts.inputPaths[0], opts.names[0], true)
		if err != nil {
			return nil, err
		}
		return xdlib.CompilePositioned(ctx, g, libOpts)
	}

	if len(opts.inputPaths) == 1 {
		g, err := readGraph(ms, opts.inputPaths[0], opts.names[0], false)
		if err != nil {
			return nil, err
		}
		return xdlib.Compile(ctx, g, libOpts)
	}

	versions := make([]xdcompare.Version, 0, len(opts.inputPaths))
	for i, fp := range opts.inputPaths {
		g, err := readGraph(ms, fp, opts.names[i], false)
		if err != nil {
			return nil, err
		}
		versions = append(versions, xdcompare.Version{
			Name:  opts.names[i],
			Graph: g,
		})
	}
	return xdlib.CompileComparison(ctx, versions, opts.base, libOpts)
}

// readGraph reads a graph document or, by extension, a TOML or YAML configuration. JSON is
// read as YAML.
func readGraph(ms *xmain.State, fp, name string, document bool) (*xdgraph.Graph, error) {
	data, err := ms.ReadPath(fp)
	if err != nil {
		return nil, err
	}
	if document {
		return xdconfig.ParseGraph(name, data)
	}
	switch strings.ToLower(filepath.Ext(fp)) {
	case ".toml":
		return xdconfig.FromTOML(name, data)
	case ".yaml", ".yml", ".json", "":
		return xdconfig.FromYAML(name, data)
	default:
		return nil, fmt.Errorf("unsupported configuration format %q: expected .yaml, .yml, .json or .toml", filepath.Ext(fp))
	}
}

func humanPaths(ms *xmain.State, fps []string) string {
	human := make([]string, 0, len(fps))
	for _, fp := range fps {
		human = append(human, ms.HumanPath(fp))
	}
	return strings.Join(human, ", ")
}
