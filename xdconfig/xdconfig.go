// Package xdconfig projects structured documents onto xdgraph graphs.
//
// Configuration trees (YAML or TOML) become one node per table: scalar settings are the
// node's content lines and nested tables are its successors. Graph documents describe the
// nodes, edges and positions explicitly.
package xdconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/xdgraph"
)

// ROOT is the id of the node holding a configuration's top-level settings.
const ROOT = "cfg"

const mergeTag = "!!merge"

// tree accumulates nodes before they are added to a graph so that content lines can be
// appended in document order regardless of where a table is first mentioned.
type tree struct {
	order   []string
	content map[string][]string
	edges   [][2]string
}

func newTree() *tree {
	t := &tree{
		content: make(map[string][]string),
	}
	t.add("", ROOT)
	return t
}

// add registers id as a successor of parent. The root has no parent.
func (t *tree) add(parent, id string) {
	if t.has(id) {
		return
	}
	t.content[id] = []string{}
	t.order = append(t.order, id)
	if parent != "" {
		t.edges = append(t.edges, [2]string{parent, id})
	}
}

func (t *tree) has(id string) bool {
	_, ok := t.content[id]
	return ok
}

func (t *tree) set(parent, key, value string) {
	t.content[parent] = append(t.content[parent], fmt.Sprintf("%s.%s = %s", parent, key, value))
}

func (t *tree) graph(name string) (*xdgraph.Graph, error) {
	g := xdgraph.New(name)
	for _, id := range t.order {
		g.AddNode(id, t.content[id], nil)
	}
	for _, e := range t.edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// FromYAML builds a graph from a YAML mapping document. Keys keep their document order and
// aliases are resolved.
func FromYAML(name string, data []byte) (_ *xdgraph.Graph, err error) {
	defer xdefer.Errorf(&err, "failed to read YAML config %q", name)

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", xdgraph.ErrInvalidGraph)
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping, got %s", xdgraph.ErrInvalidGraph, kindName(root.Kind))
	}

	t := newTree()
	if err := t.walkYAML(ROOT, root); err != nil {
		return nil, err
	}
	return t.graph(name)
}

func (t *tree) walkYAML(id string, m *yaml.Node) error {
	entries, err := yamlEntries(id, m)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.value.Kind == yaml.MappingNode && len(e.value.Content) > 0 {
			child := id + "." + e.key
			if t.has(child) {
				return fmt.Errorf("%w: duplicate key %q", xdgraph.ErrInvalidGraph, child)
			}
			t.add(id, child)
			if err := t.walkYAML(child, e.value); err != nil {
				return err
			}
			continue
		}
		t.set(id, e.key, formatYAML(e.value))
	}
	return nil
}

type yamlEntry struct {
	key   string
	value *yaml.Node
}

// yamlEntries flattens the mapping m into its effective keys. Keys pulled in by << come
// first. An explicit key replaces a merged one in place.
func yamlEntries(id string, m *yaml.Node) ([]yamlEntry, error) {
	var entries []yamlEntry
	index := make(map[string]int)
	var explicit []yamlEntry
	seen := make(map[string]struct{})

	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], resolve(m.Content[i+1])
		if k.Tag == mergeTag {
			merged, err := mergeEntries(id, v)
			if err != nil {
				return nil, err
			}
			for _, e := range merged {
				// The first mapping merged wins.
				if _, ok := index[e.key]; !ok {
					index[e.key] = len(entries)
					entries = append(entries, e)
				}
			}
			continue
		}
		if _, ok := seen[k.Value]; ok {
			return nil, fmt.Errorf("%w: duplicate key %q", xdgraph.ErrInvalidGraph, id+"."+k.Value)
		}
		seen[k.Value] = struct{}{}
		explicit = append(explicit, yamlEntry{key: k.Value, value: v})
	}

	for _, e := range explicit {
		if i, ok := index[e.key]; ok {
			entries[i] = e
			continue
		}
		index[e.key] = len(entries)
		entries = append(entries, e)
	}
	return entries, nil
}

// mergeEntries returns the entries of a << value: a mapping or a sequence of mappings,
// earlier mappings taking precedence.
func mergeEntries(id string, v *yaml.Node) ([]yamlEntry, error) {
	switch v.Kind {
	case yaml.MappingNode:
		return yamlEntries(id, v)
	case yaml.SequenceNode:
		var entries []yamlEntry
		seen := make(map[string]struct{})
		for _, n := range v.Content {
			n = resolve(n)
			if n.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: cannot merge %s into %s", xdgraph.ErrInvalidGraph, kindName(n.Kind), id)
			}
			merged, err := yamlEntries(id, n)
			if err != nil {
				return nil, err
			}
			for _, e := range merged {
				if _, ok := seen[e.key]; !ok {
					seen[e.key] = struct{}{}
					entries = append(entries, e)
				}
			}
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: cannot merge %s into %s", xdgraph.ErrInvalidGraph, kindName(v.Kind), id)
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func formatYAML(n *yaml.Node) string {
	n = resolve(n)
	switch n.Kind {
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, formatYAML(c))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case yaml.MappingNode:
		items := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			items = append(items, n.Content[i].Value+": "+formatYAML(n.Content[i+1]))
		}
		return "{" + strings.Join(items, ", ") + "}"
	default:
		if n.Tag == "!!str" {
			return strconv.Quote(n.Value)
		}
		return n.Value
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// FromTOML builds a graph from a TOML document. Tables become nodes in the order their keys
// first appear. Arrays of tables are rendered inline on their parent.
func FromTOML(name string, data []byte) (_ *xdgraph.Graph, err error) {
	defer xdefer.Errorf(&err, "failed to read TOML config %q", name)

	var m map[string]interface{}
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, err
	}

	t := newTree()
	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		// Every [[table]] header repeats its key.
		if seen[tomlID(key)] {
			continue
		}
		seen[tomlID(key)] = true
		parent := key[:len(key)-1]
		container, ok := lookupTable(m, parent)
		if !ok {
			// Inside an array of tables, already rendered inline.
			continue
		}
		last := key[len(key)-1]
		v := container[last]
		t.addTOML(parent)
		if sub, ok := v.(map[string]interface{}); ok && len(sub) > 0 {
			t.addTOML(key)
			continue
		}
		t.set(tomlID(parent), last, formatTOML(v))
	}
	return t.graph(name)
}

func (t *tree) addTOML(key toml.Key) {
	if len(key) == 0 {
		return
	}
	parent := key[:len(key)-1]
	t.addTOML(parent)
	t.add(tomlID(parent), tomlID(key))
}

func tomlID(key toml.Key) string {
	if len(key) == 0 {
		return ROOT
	}
	return ROOT + "." + strings.Join(key, ".")
}

func lookupTable(m map[string]interface{}, path toml.Key) (map[string]interface{}, bool) {
	for _, k := range path {
		sub, ok := m[k].(map[string]interface{})
		if !ok {
			return nil, false
		}
		m = sub
	}
	return m, true
}

func formatTOML(v interface{}) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, e := range v {
			items = append(items, formatTOML(e))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case []map[string]interface{}:
		items := make([]string, 0, len(v))
		for _, e := range v {
			items = append(items, formatTOML(e))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]interface{}:
		keys := maps.Keys(v)
		slices.Sort(keys)
		items := make([]string, 0, len(keys))
		for _, k := range keys {
			items = append(items, k+" = "+formatTOML(v[k]))
		}
		return "{" + strings.Join(items, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}

// Lines accepts either a single string or a list of strings.
type Lines []string

func (l *Lines) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = Lines{value.Value}
		return nil
	}
	var lines []string
	if err := value.Decode(&lines); err != nil {
		return err
	}
	*l = lines
	return nil
}

type nodeDocument struct {
	ID      string    `yaml:"id"`
	Content Lines     `yaml:"content"`
	Pos     []float64 `yaml:"pos"`
}

type graphDocument struct {
	Name  string         `yaml:"name"`
	Nodes []nodeDocument `yaml:"nodes"`
	Edges [][]string     `yaml:"edges"`
}

// ParseGraph decodes a YAML or JSON graph document:
//
//	name: deps
//	nodes:
//	  - id: a
//	    content: [line one, line two]
//	    pos: [0, 0]
//	edges:
//	  - [a, b]
//
// name is used when the document does not carry one.
func ParseGraph(name string, data []byte) (_ *xdgraph.Graph, err error) {
	defer xdefer.Errorf(&err, "failed to parse graph %q", name)

	var doc graphDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Name != "" {
		name = doc.Name
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", xdgraph.ErrInvalidGraph)
	}

	g := xdgraph.New(name)
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node %d has no id", xdgraph.ErrInvalidGraph, i)
		}
		if g.Has(n.ID) {
			return nil, fmt.Errorf("%w: duplicate node %q", xdgraph.ErrInvalidGraph, n.ID)
		}
		var pos *geo.Point
		if n.Pos != nil {
			if len(n.Pos) != 2 {
				return nil, fmt.Errorf("%w: node %q: pos must be [x, y], got %d values", xdgraph.ErrInvalidGraph, n.ID, len(n.Pos))
			}
			pos = geo.NewPoint(n.Pos[0], n.Pos[1])
		}
		g.AddNode(n.ID, []string(n.Content), pos)
	}
	for i, e := range doc.Edges {
		if len(e) != 2 {
			return nil, fmt.Errorf("%w: edge %d must be [from, to], got %d values", xdgraph.ErrInvalidGraph, i, len(e))
		}
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}
