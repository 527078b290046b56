package xdcli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cdr.dev/slog"
	"github.com/spf13/pflag"

	"oss.terrastruct.com/xdsketch/lib/go2"
	"oss.terrastruct.com/xdsketch/lib/log"
	"oss.terrastruct.com/xdsketch/lib/version"
	"oss.terrastruct.com/xdsketch/lib/xmain"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdcompare"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdpositioned"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdstack"
	"oss.terrastruct.com/xdsketch/xdrenderers/xdexcalidraw"
)

func Run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.WithDefault(ctx)
	// Keep in sync with help.go.
	watchFlag, err := ms.Opts.Bool("XD_WATCH", "watch", "w", false, "watch the inputs and render again whenever one of them changes")
	if err != nil {
		return err
	}
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = go2.Pointer(false)
	}
	stackingFlag := ms.Opts.String("XD_STACKING", "stacking", "s", string(xdstack.Horizontal), "direction successors are stacked in: horizontal or vertical")
	paddingFlag, err := ms.Opts.Float64("XD_PADDING", "padding", "p", xdstack.DEFAULT_PADDING, "space between content lines, siblings and frames")
	if err != nil {
		return err
	}
	colorFlag := ms.Opts.String("XD_COLOR", "color", "c", string(xdstack.Companion), "how successors are colored: companion (derived from the parent) or palette")
	seedFlag, err := ms.Opts.Int64("XD_SEED", "seed", "", 0, "seed for ids and colors. Output is random when unset")
	if err != nil {
		return err
	}
	baseFlag := ms.Opts.String("", "base", "b", "", "name of the version others are compared against. Defaults to the first input's file name without extension")
	graphFlag, err := ms.Opts.Bool("", "graph", "g", false, "inputs are graph documents with node positions rather than configuration trees")
	if err != nil {
		return err
	}
	scaleFlag, err := ms.Opts.Float64("", "scale", "", xdpositioned.DEFAULT_SCALE, "multiplies node positions of graph documents")
	if err != nil {
		return err
	}
	undirectedFlag, err := ms.Opts.Bool("", "undirected", "", false, "draw graph document edges without arrowheads")
	if err != nil {
		return err
	}
	ownerSuppressionFlag, err := ms.Opts.Bool("", "owner-suppression", "", false, "in comparisons, hide unchanged nodes even inside changed ones")
	if err != nil {
		return err
	}
	timeoutFlag, err := ms.Opts.Int64("XD_TIMEOUT", "timeout", "", 120, "the maximum number of seconds a single render may take. 0 disables the limit")
	if err != nil {
		return err
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	args := ms.Opts.Flags.Args()
	if len(args) > 0 && args[0] == "version" {
		if len(args) > 1 {
			return xmain.UsageErrorf("version subcommand accepts no arguments")
		}
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}
	if len(args) == 0 {
		if *versionFlag {
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
		help(ms)
		return nil
	}

	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
		ms.Env.Setenv("DEBUG", "1")
	}

	stacking, err := xdstack.ParseStacking(*stackingFlag)
	if err != nil {
		return xmain.UsageErrorf("-s[tacking]: %v", err)
	}
	colorPolicy, err := xdstack.ParseColorPolicy(*colorFlag)
	if err != nil {
		return xmain.UsageErrorf("-c[olor]: %v", err)
	}
	if *paddingFlag < 0 {
		return xmain.UsageErrorf("-p[adding] must not be negative: %v", *paddingFlag)
	}
	if *scaleFlag <= 0 {
		return xmain.UsageErrorf("--scale must be positive: %v", *scaleFlag)
	}

	inputPaths, outputPath := splitArgs(args)
	if len(inputPaths) > 1 && *graphFlag {
		return xmain.UsageErrorf("-g[raph] renders a single input, got %d", len(inputPaths))
	}
	for i, p := range inputPaths {
		if p == "-" && len(inputPaths) > 1 {
			return xmain.UsageErrorf("stdin can only be read as the single input")
		}
		inputPaths[i] = ms.AbsPath(p)
	}
	outputPath = ms.AbsPath(outputPath)

	opts := compileOpts{
		inputPaths: inputPaths,
		names:      versionNames(inputPaths),
		outputPath: outputPath,
		timeout:    time.Duration(*timeoutFlag) * time.Second,
		graph:      *graphFlag,
		base:       *baseFlag,
		stack: &xdstack.Opts{
			Stacking:    stacking,
			Padding:     *paddingFlag,
			ColorPolicy: colorPolicy,
		},
		compare: &xdcompare.Opts{
			Stacking:    stacking,
			Padding:     *paddingFlag,
			ColorPolicy: colorPolicy,
			Suppression: xdcompare.SuppressAny,
		},
		positioned: &xdpositioned.Opts{
			Scale:    *scaleFlag,
			Padding:  *paddingFlag,
			Directed: !*undirectedFlag,
		},
	}
	if *ownerSuppressionFlag {
		opts.compare.Suppression = xdcompare.SuppressOwner
	}
	if opts.base == "" {
		opts.base = opts.names[0]
	}

	// The seed only applies when explicitly given, 0 being a valid seed.
	seedSet := ms.Env.Getenv("XD_SEED") != ""
	ms.Opts.Flags.Visit(func(f *pflag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})
	if seedSet {
		opts.seed = seedFlag
		ms.Log.Debug.Printf("using seed %d", *seedFlag)
	}

	if *watchFlag {
		if outputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with writing to stdout")
		}
		for _, p := range inputPaths {
			if p == "-" {
				return xmain.UsageErrorf("-w[atch] cannot be combined with reading input from stdin")
			}
		}
		w, err := newWatcher(ms, opts)
		if err != nil {
			return err
		}
		return w.run(ctx)
	}

	return compile(ctx, ms, opts)
}

// splitArgs separates inputs from the output. The last argument is the output when it is
// "-" or an excalidraw file. Otherwise the output sits next to the first input.
func splitArgs(args []string) ([]string, string) {
	if len(args) > 1 {
		last := args[len(args)-1]
		if last == "-" || filepath.Ext(last) == xdexcalidraw.FILE_EXTENSION {
			return append([]string(nil), args[:len(args)-1]...), last
		}
	}
	inputs := append([]string(nil), args...)
	if inputs[0] == "-" {
		return inputs, "-"
	}
	return inputs, renameExt(inputs[0], xdexcalidraw.FILE_EXTENSION)
}

// versionName is the file name of fp without its extension.
func versionName(fp string) string {
	if fp == "-" {
		return "stdin"
	}
	base := filepath.Base(fp)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// versionNames names every input by versionName. Inputs sharing a name are qualified with
// their parent directory, and with their whole path when that still collides.
func versionNames(fps []string) []string {
	qualifiers := []func(string) string{
		versionName,
		func(fp string) string {
			return filepath.Base(filepath.Dir(fp)) + "/" + versionName(fp)
		},
		func(fp string) string {
			return filepath.ToSlash(strings.TrimSuffix(fp, filepath.Ext(fp)))
		},
	}
	names := make([]string, len(fps))
	for i, fp := range fps {
		for _, q := range qualifiers {
			names[i] = q(fp)
			if !collides(fps, i, q) {
				break
			}
		}
	}
	return names
}

func collides(fps []string, i int, name func(string) string) bool {
	for j, fp := range fps {
		if j != i && fps[j] != fps[i] && name(fp) == name(fps[i]) {
			return true
		}
	}
	return false
}

func renameExt(fp string, newExt string) string {
	ext := filepath.Ext(fp)
	if ext == "" {
		return fp + newExt
	} else {
		return strings.TrimSuffix(fp, ext) + newExt
	}
}
