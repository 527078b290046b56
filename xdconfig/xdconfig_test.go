package xdconfig_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/xdconfig"
	"oss.terrastruct.com/xdsketch/xdgraph"
)

func ids(g *xdgraph.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		out = append(out, n.ID)
	}
	return out
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	g, err := xdconfig.FromYAML("experiment", []byte(`
experiment:
  name: NetworkAblation
  version: v1
dataset:
  num_classes: 5
  classes: [airplane, automobile]
train:
  batch_size: 128
  optim:
    type: SGD
    lr: 0.1
seed: 42
`))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "experiment", g.Name)
	assert.Equal(t, []string{"cfg", "cfg.experiment", "cfg.dataset", "cfg.train", "cfg.train.optim"}, ids(g))
	assert.Equal(t, []string{"cfg.seed = 42"}, g.Node("cfg").Content)
	assert.Equal(t, []string{"cfg.experiment", "cfg.dataset", "cfg.train"}, g.Successors("cfg"))
	assert.Equal(t, []string{
		`cfg.experiment.name = "NetworkAblation"`,
		`cfg.experiment.version = "v1"`,
	}, g.Node("cfg.experiment").Content)
	assert.Equal(t, []string{
		`cfg.dataset.num_classes = 5`,
		`cfg.dataset.classes = ["airplane", "automobile"]`,
	}, g.Node("cfg.dataset").Content)
	assert.Equal(t, []string{"cfg.train.optim"}, g.Successors("cfg.train"))
	assert.Equal(t, []string{
		`cfg.train.optim.type = "SGD"`,
		`cfg.train.optim.lr = 0.1`,
	}, g.Node("cfg.train.optim").Content)

	root, err := g.Root()
	if assert.NoError(t, err) {
		assert.Equal(t, "cfg", root.ID)
	}
	assert.NoError(t, g.Validate())
}

func TestFromYAMLAliases(t *testing.T) {
	t.Parallel()

	g, err := xdconfig.FromYAML("aliases", []byte(`
defaults: &defaults
  retries: 3
  tags: &tags [a, b]
service:
  <<: *defaults
  name: api
  labels: *tags
empty: {}
`))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, []string{"cfg", "cfg.defaults", "cfg.service"}, ids(g))
	assert.Equal(t, []string{"cfg.empty = {}"}, g.Node("cfg").Content)
	assert.Equal(t, []string{
		`cfg.service.retries = 3`,
		`cfg.service.tags = ["a", "b"]`,
		`cfg.service.name = "api"`,
		`cfg.service.labels = ["a", "b"]`,
	}, g.Node("cfg.service").Content)
}

func TestFromYAMLMergeOverride(t *testing.T) {
	t.Parallel()

	g, err := xdconfig.FromYAML("override", []byte(`
base: &b
  lr: 1
  sub:
    x: 1
  epochs: 10
scalar:
  <<: *b
  lr: 2
nested:
  <<: *b
  sub:
    y: 2
both:
  <<: [{lr: 3}, *b]
  extra: true
`))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, []string{
		"cfg", "cfg.base", "cfg.base.sub",
		"cfg.scalar", "cfg.scalar.sub",
		"cfg.nested", "cfg.nested.sub",
		"cfg.both", "cfg.both.sub",
	}, ids(g))
	assert.Equal(t, []string{"cfg.scalar.lr = 2", "cfg.scalar.epochs = 10"}, g.Node("cfg.scalar").Content)
	assert.Equal(t, []string{"cfg.nested.lr = 1", "cfg.nested.epochs = 10"}, g.Node("cfg.nested").Content)
	assert.Equal(t, []string{"cfg.nested.sub.y = 2"}, g.Node("cfg.nested.sub").Content)
	assert.Equal(t, []string{"cfg.both.lr = 3", "cfg.both.epochs = 10", "cfg.both.extra = true"}, g.Node("cfg.both").Content)
	assert.Equal(t, []string{"cfg.both.sub.x = 1"}, g.Node("cfg.both.sub").Content)
}

func TestFromYAMLErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		data   string
		expErr string
	}{
		{
			name:   "empty",
			data:   ``,
			expErr: "empty document",
		},
		{
			name:   "sequence",
			data:   `[1, 2]`,
			expErr: "top level must be a mapping, got sequence",
		},
		{
			name:   "syntax",
			data:   "a: [1, 2",
			expErr: "failed to read YAML config",
		},
		{
			name:   "merge_scalar",
			data:   "a:\n  <<: 1\n  b: 2\n",
			expErr: "cannot merge scalar into cfg.a",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := xdconfig.FromYAML(tc.name, []byte(tc.data))
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.expErr)
			}
		})
	}
}

func TestFromTOML(t *testing.T) {
	t.Parallel()

	g, err := xdconfig.FromTOML("service", []byte(`
title = "api"
ports = [80, 443]

[server]
host = "localhost"
timeout = 2.5
debug = false

[server.tls]
enabled = true

[[workers]]
name = "a"

[[workers]]
name = "b"
`))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "service", g.Name)
	assert.Equal(t, []string{"cfg", "cfg.server", "cfg.server.tls"}, ids(g))
	assert.Equal(t, []string{
		`cfg.title = "api"`,
		`cfg.ports = [80, 443]`,
		`cfg.workers = [{name = "a"}, {name = "b"}]`,
	}, g.Node("cfg").Content)
	assert.Equal(t, []string{
		`cfg.server.host = "localhost"`,
		`cfg.server.timeout = 2.5`,
		`cfg.server.debug = false`,
	}, g.Node("cfg.server").Content)
	assert.Equal(t, []string{`cfg.server.tls.enabled = true`}, g.Node("cfg.server.tls").Content)
	assert.Equal(t, []string{"cfg.server.tls"}, g.Successors("cfg.server"))
	assert.NoError(t, g.Validate())
}

func TestFromTOMLError(t *testing.T) {
	t.Parallel()

	_, err := xdconfig.FromTOML("broken", []byte(`a = `))
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), `failed to read TOML config "broken"`)
	}
}

func TestParseGraph(t *testing.T) {
	t.Parallel()

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		g, err := xdconfig.ParseGraph("fallback", []byte(`
name: deps
nodes:
  - id: a
    content: single line
    pos: [0, 0]
  - id: b
    content: [one, two]
    pos: [0.2, -0.1]
  - id: c
edges:
  - [a, b]
  - [a, c]
`))
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "deps", g.Name)
		assert.Equal(t, []string{"a", "b", "c"}, ids(g))
		assert.Equal(t, []string{"single line"}, g.Node("a").Content)
		assert.Equal(t, []string{"one", "two"}, g.Node("b").Content)
		assert.Equal(t, geo.NewPoint(0.2, -0.1), g.Node("b").Pos)
		assert.Nil(t, g.Node("c").Pos)
		assert.Nil(t, g.Node("c").Content)
		assert.Equal(t, []string{"b", "c"}, g.Successors("a"))
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		g, err := xdconfig.ParseGraph("fallback", []byte(`{
  "nodes": [{"id": "x", "pos": [1, 2]}, {"id": "y", "pos": [3, 4]}],
  "edges": [["x", "y"], ["y", "x"]]
}`))
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "fallback", g.Name)
		assert.Equal(t, [][2]string{{"x", "y"}, {"y", "x"}}, g.Edges())
	})
}

func TestParseGraphErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		data   string
		expErr string
	}{
		{
			name:   "no_nodes",
			data:   `name: x`,
			expErr: "no nodes",
		},
		{
			name:   "missing_id",
			data:   `nodes: [{content: a}]`,
			expErr: "node 0 has no id",
		},
		{
			name:   "duplicate",
			data:   `nodes: [{id: a}, {id: a}]`,
			expErr: `duplicate node "a"`,
		},
		{
			name:   "bad_pos",
			data:   `nodes: [{id: a, pos: [1]}]`,
			expErr: "pos must be [x, y], got 1 values",
		},
		{
			name:   "bad_edge",
			data:   `{nodes: [{id: a}], edges: [[a]]}`,
			expErr: "edge 0 must be [from, to], got 1 values",
		},
		{
			name:   "unknown_endpoint",
			data:   `{nodes: [{id: a}], edges: [[a, b]]}`,
			expErr: `unknown node "b"`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := xdconfig.ParseGraph(tc.name, []byte(tc.data))
			if assert.Error(t, err) {
				assert.True(t, errors.Is(err, xdgraph.ErrInvalidGraph))
				assert.Contains(t, err.Error(), tc.expErr)
			}
		})
	}
}
