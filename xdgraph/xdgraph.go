// Package xdgraph is the input model of every layout: a directed graph of nodes carrying
// text content, successors and an optional explicit position.
//
// Nodes and successors keep their insertion order. Layouts traverse in that order, which is
// what lets a comparative layout line up two versions of the same tree.
package xdgraph

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"oss.terrastruct.com/xdsketch/lib/geo"
)

var ErrInvalidGraph = errors.New("invalid graph")

type Node struct {
	ID      string
	Content []string
	// Pos is the explicit placement used by the positioned layout. Nil when absent.
	Pos *geo.Point

	successors []string
}

func (n *Node) Successors() []string {
	return append([]string(nil), n.successors...)
}

type Graph struct {
	Name string

	nodes map[string]*Node
	order []string
}

func New(name string) *Graph {
	return &Graph{
		Name:  name,
		nodes: make(map[string]*Node),
	}
}

// AddNode inserts a node or, if id already exists, replaces its content and position.
func (g *Graph) AddNode(id string, content []string, pos *geo.Point) *Node {
	if n, ok := g.nodes[id]; ok {
		n.Content = content
		n.Pos = pos
		return n
	}
	n := &Node{
		ID:      id,
		Content: content,
		Pos:     pos,
	}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// AddEdge appends to as a successor of from. Both nodes must exist and duplicate edges are
// ignored.
func (g *Graph) AddEdge(from, to string) error {
	src, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("%w: edge %s -> %s: unknown node %q", ErrInvalidGraph, from, to, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("%w: edge %s -> %s: unknown node %q", ErrInvalidGraph, from, to, to)
	}
	if slices.Contains(src.successors, to) {
		return nil
	}
	src.successors = append(src.successors, to)
	return nil
}

func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Edges returns every edge as a [from, to] pair, grouped by source in node order.
func (g *Graph) Edges() [][2]string {
	var edges [][2]string
	for _, id := range g.order {
		for _, succ := range g.nodes[id].successors {
			edges = append(edges, [2]string{id, succ})
		}
	}
	return edges
}

func (g *Graph) Successors(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return n.Successors()
}

// Roots returns the nodes with no incoming edge, in node order.
func (g *Graph) Roots() []*Node {
	indegree := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		for _, succ := range n.successors {
			indegree[succ]++
		}
	}
	var roots []*Node
	for _, id := range g.order {
		if indegree[id] == 0 {
			roots = append(roots, g.nodes[id])
		}
	}
	return roots
}

// Root returns the single node with no incoming edge.
func (g *Graph) Root() (*Node, error) {
	roots := g.Roots()
	switch len(roots) {
	case 0:
		return nil, fmt.Errorf("%w: %s has no root", ErrInvalidGraph, g.describe())
	case 1:
		return roots[0], nil
	}
	ids := make([]string, 0, len(roots))
	for _, r := range roots {
		ids = append(ids, r.ID)
	}
	return nil, fmt.Errorf("%w: %s has %d roots %v", ErrInvalidGraph, g.describe(), len(roots), ids)
}

// Validate checks that g is a tree-shaped input for the hierarchical layouts: exactly one
// root and no cycle reachable from it.
func (g *Graph) Validate() error {
	root, err := g.Root()
	if err != nil {
		return err
	}
	const (
		white = iota
		grey
		black
	)
	colors := make(map[string]int, len(g.nodes))
	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		colors[id] = grey
		path = append(path, id)
		for _, succ := range g.nodes[id].successors {
			switch colors[succ] {
			case grey:
				return fmt.Errorf("%w: %s has a cycle %v", ErrInvalidGraph, g.describe(), append(path, succ))
			case white:
				if err := visit(succ, path); err != nil {
					return err
				}
			}
		}
		colors[id] = black
		return nil
	}
	return visit(root.ID, nil)
}

func (g *Graph) describe() string {
	if g.Name == "" {
		return "graph"
	}
	return fmt.Sprintf("graph %q", g.Name)
}

// ContentEqual reports whether both nodes carry the same content lines.
func ContentEqual(a, b *Node) bool {
	return slices.Equal(a.Content, b.Content)
}

// SuccessorsEqual reports whether both nodes have the same successor ids in the same
// order. Successors are not compared recursively.
func SuccessorsEqual(a, b *Node) bool {
	return slices.Equal(a.successors, b.successors)
}
