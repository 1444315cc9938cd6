package lattice

// Package lattice implements a decision lattice of nodes joined by scored
// paths. Nodes and paths live in per-lattice arenas and refer to each other
// by index, so a lattice can be reset and refilled without reallocation.
//
// Costs are minimized: the best sequence is the one with the lowest
// accumulated path cost. Ties go to the first registered incoming path.

import (
	"fmt"
)

const (
	NONE = -1
	BOS  = 0
	EOS  = 1

	APPROX_NODES_PER_POSITION = 4
)

// InconsistencyError reports a lattice that cannot be decoded: an edge that
// does not move forward, an unknown node, or no path reaching EOS
type InconsistencyError struct {
	Msg string
}

func (e *InconsistencyError) Error() string {
	return "lattice inconsistency: " + e.Msg
}

type Node struct {
	ID       int
	Position int
	// Label is the caller's decision payload (a tag, a head index)
	Label      int
	LeftPaths  []int
	RightPaths []int

	BestCost float64
	BestPath int
	reached  bool
}

func (n *Node) String() string {
	return fmt.Sprintf("%d@%d:%d", n.ID, n.Position, n.Label)
}

type Path struct {
	ID      int
	LNode   int
	RNode   int
	FVector []int
	Cost    float64
}

// Clear resets the path. Decoding ignores a cleared path that is still
// listed on its nodes; Lattice.ClearPath also unlists it.
func (p *Path) Clear() {
	p.LNode = NONE
	p.RNode = NONE
	p.FVector = nil
	p.Cost = 0.0
}

func (p *Path) Attached() bool {
	return p.LNode != NONE && p.RNode != NONE
}

type Lattice struct {
	Nodes []Node
	Paths []Path
	size  int
}

// New creates a lattice for size positions, numbered 1..size.
// BOS sits at position 0 and EOS at size+1.
func New(size int) *Lattice {
	l := &Lattice{
		Nodes: make([]Node, 0, size*APPROX_NODES_PER_POSITION+2),
		Paths: make([]Path, 0, size*APPROX_NODES_PER_POSITION*APPROX_NODES_PER_POSITION),
	}
	l.Reset(size)
	return l
}

// Reset empties the lattice for a new sentence, keeping the arenas
func (l *Lattice) Reset(size int) {
	for i := range l.Paths {
		l.Paths[i].Clear()
	}
	for i := range l.Nodes {
		l.Nodes[i].LeftPaths = l.Nodes[i].LeftPaths[:0]
		l.Nodes[i].RightPaths = l.Nodes[i].RightPaths[:0]
	}
	l.Paths = l.Paths[:0]
	l.Nodes = l.Nodes[:0]
	l.size = size
	l.newNode(0, NONE)
	l.newNode(size+1, NONE)
}

func (l *Lattice) Size() int {
	return l.size
}

func (l *Lattice) NumNodes() int {
	return len(l.Nodes)
}

func (l *Lattice) NumPaths() int {
	return len(l.Paths)
}

func (l *Lattice) Node(i int) *Node {
	return &l.Nodes[i]
}

func (l *Lattice) Path(i int) *Path {
	return &l.Paths[i]
}

func (l *Lattice) newNode(position, label int) int {
	id := len(l.Nodes)
	if id < cap(l.Nodes) {
		// reuse the incident path slices left behind by Reset
		l.Nodes = l.Nodes[:id+1]
		node := &l.Nodes[id]
		node.ID, node.Position, node.Label = id, position, label
		node.LeftPaths, node.RightPaths = node.LeftPaths[:0], node.RightPaths[:0]
		node.BestCost, node.BestPath, node.reached = 0, NONE, false
	} else {
		l.Nodes = append(l.Nodes, Node{ID: id, Position: position, Label: label, BestPath: NONE})
	}
	return id
}

// AddNode registers a candidate decision at position (1..size)
func (l *Lattice) AddNode(position, label int) (int, error) {
	if position < 1 || position > l.size {
		return NONE, &InconsistencyError{fmt.Sprintf("node position %d outside [1,%d]", position, l.size)}
	}
	return l.newNode(position, label), nil
}

func (l *Lattice) validNode(i int) bool {
	return i >= 0 && i < len(l.Nodes)
}

// AddPath joins lnode to rnode. The path registers itself on both ends.
// A path must move strictly forward in position, which keeps the lattice
// acyclic.
func (l *Lattice) AddPath(lnode, rnode int, fvector []int, cost float64) (int, error) {
	if !l.validNode(lnode) || !l.validNode(rnode) {
		return NONE, &InconsistencyError{fmt.Sprintf("path between unknown nodes %d and %d", lnode, rnode)}
	}
	left, right := &l.Nodes[lnode], &l.Nodes[rnode]
	if left.Position >= right.Position {
		return NONE, &InconsistencyError{fmt.Sprintf("path from %v to %v does not move forward", left, right)}
	}
	id := len(l.Paths)
	l.Paths = append(l.Paths, Path{id, lnode, rnode, fvector, cost})
	left.RightPaths = append(left.RightPaths, id)
	right.LeftPaths = append(right.LeftPaths, id)
	return id, nil
}

// ClearPath detaches path id from both of its nodes and clears it
func (l *Lattice) ClearPath(id int) {
	path := &l.Paths[id]
	if path.Attached() {
		left, right := &l.Nodes[path.LNode], &l.Nodes[path.RNode]
		left.RightPaths = without(left.RightPaths, id)
		right.LeftPaths = without(right.LeftPaths, id)
	}
	path.Clear()
}

func without(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// NodesAt returns the nodes at a position in registration order
func (l *Lattice) NodesAt(position int) []int {
	var retval []int
	for i := range l.Nodes {
		if l.Nodes[i].Position == position {
			retval = append(retval, i)
		}
	}
	return retval
}

// topological returns all nodes ordered by position, stable by id
func (l *Lattice) topological() []int {
	buckets := make([][]int, l.size+2)
	for i := range l.Nodes {
		pos := l.Nodes[i].Position
		buckets[pos] = append(buckets[pos], i)
	}
	order := make([]int, 0, len(l.Nodes))
	for _, bucket := range buckets {
		order = append(order, bucket...)
	}
	return order
}
