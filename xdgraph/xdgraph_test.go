package xdgraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/xdgraph"
)

func build(t *testing.T, nodes []string, edges [][2]string) *xdgraph.Graph {
	g := xdgraph.New(t.Name())
	for _, id := range nodes {
		g.AddNode(id, []string{id}, nil)
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		nodes  []string
		edges  [][2]string
		root   string
		expErr string
	}{
		{
			name:  "single",
			nodes: []string{"r"},
			root:  "r",
		},
		{
			name:  "tree",
			nodes: []string{"r", "a", "b", "c"},
			edges: [][2]string{{"r", "a"}, {"r", "b"}, {"a", "c"}},
			root:  "r",
		},
		{
			name:  "diamond",
			nodes: []string{"r", "a", "b", "c"},
			edges: [][2]string{{"r", "a"}, {"r", "b"}, {"a", "c"}, {"b", "c"}},
			root:  "r",
		},
		{
			name:   "empty",
			expErr: "has no root",
		},
		{
			name:   "two roots",
			nodes:  []string{"r", "s", "a"},
			edges:  [][2]string{{"r", "a"}, {"s", "a"}},
			expErr: "has 2 roots [r s]",
		},
		{
			name:   "all cyclic",
			nodes:  []string{"a", "b"},
			edges:  [][2]string{{"a", "b"}, {"b", "a"}},
			expErr: "has no root",
		},
		{
			name:   "cycle below root",
			nodes:  []string{"r", "a", "b"},
			edges:  [][2]string{{"r", "a"}, {"a", "b"}, {"b", "a"}},
			expErr: "has a cycle [r a b a]",
		},
		{
			name:   "self loop",
			nodes:  []string{"r", "a"},
			edges:  [][2]string{{"r", "a"}, {"a", "a"}},
			expErr: "has a cycle [r a a]",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			g := build(t, tc.nodes, tc.edges)
			err := g.Validate()
			if tc.expErr != "" {
				if assert.Error(t, err) {
					assert.True(t, errors.Is(err, xdgraph.ErrInvalidGraph))
					assert.Contains(t, err.Error(), tc.expErr)
				}
				return
			}
			assert.NoError(t, err)
			root, err := g.Root()
			assert.NoError(t, err)
			assert.Equal(t, tc.root, root.ID)
		})
	}
}

func TestOrder(t *testing.T) {
	t.Parallel()

	g := build(t, []string{"r", "z", "a", "m"}, [][2]string{{"r", "z"}, {"r", "a"}, {"r", "m"}, {"r", "a"}})
	assert.Equal(t, []string{"z", "a", "m"}, g.Successors("r"))
	assert.Equal(t, [][2]string{{"r", "z"}, {"r", "a"}, {"r", "m"}}, g.Edges())

	var ids []string
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"r", "z", "a", "m"}, ids)
	assert.Equal(t, 4, g.Len())
	assert.Nil(t, g.Successors("missing"))
}

func TestAddNode(t *testing.T) {
	t.Parallel()

	g := xdgraph.New("")
	n := g.AddNode("a", []string{"x"}, nil)
	again := g.AddNode("a", []string{"y"}, geo.NewPoint(1, 2))
	assert.Equal(t, n, again)
	assert.Equal(t, []string{"y"}, n.Content)
	assert.True(t, geo.NewPoint(1, 2).Equals(n.Pos))
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has("a"))
	assert.False(t, g.Has("b"))
}

func TestAddEdgeUnknown(t *testing.T) {
	t.Parallel()

	g := build(t, []string{"a"}, nil)
	err := g.AddEdge("a", "b")
	assert.True(t, errors.Is(err, xdgraph.ErrInvalidGraph))
	err = g.AddEdge("b", "a")
	assert.True(t, errors.Is(err, xdgraph.ErrInvalidGraph))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	g1 := build(t, []string{"r", "a", "b"}, [][2]string{{"r", "a"}, {"r", "b"}})
	g2 := build(t, []string{"r", "a", "b"}, [][2]string{{"r", "b"}, {"r", "a"}})
	g3 := build(t, []string{"r", "a", "b"}, [][2]string{{"r", "a"}, {"r", "b"}})
	g3.Node("a").Content = []string{"changed"}

	assert.True(t, xdgraph.ContentEqual(g1.Node("r"), g2.Node("r")))
	assert.False(t, xdgraph.SuccessorsEqual(g1.Node("r"), g2.Node("r")))
	assert.True(t, xdgraph.SuccessorsEqual(g1.Node("r"), g3.Node("r")))
	assert.False(t, xdgraph.ContentEqual(g1.Node("a"), g3.Node("a")))
	assert.True(t, xdgraph.ContentEqual(g1.Node("b"), g3.Node("b")))
}
