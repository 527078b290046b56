package xdcli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/xdsketch/lib/version"
	"oss.terrastruct.com/xdsketch/lib/xmain"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--stacking=horizontal] [--color=companion] config.yaml [out.excalidraw]
  %[1]s [--base=name] v1.yaml v2.yaml ... [out.excalidraw]
  %[1]s --graph graph.yaml [out.excalidraw]
  %[1]s version

%[1]s draws configuration files (.yaml, .yml, .json, .toml) as nested, colored frames in an
excalidraw file. Every table becomes a frame holding its settings and its nested tables.

With several inputs, the first one (or --base) is drawn in full and every other one only
where it differs, with arrows from the base to each changed table.

With --graph, the input lists nodes with positions and edges, drawn as ellipses and arrows.

The output defaults to the first input with its extension replaced by .excalidraw.
Use - to read from stdin or write to stdout.

Flags:
%[3]s
`, filepath.Base(ms.Name), version.Version, ms.Opts.Help())
}
