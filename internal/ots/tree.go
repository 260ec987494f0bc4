package ots

import (
	"bytes"
	"fmt"
)

// Edge links a node to a child through an operation.
type Edge struct {
	Op    Op
	Child int
}

// Node is one commitment in the tree. Msg is the message the node commits to.
type Node struct {
	Msg          []byte
	Attestations []Attestation
	Edges        []Edge
}

// Tree is the decoded timestamp stored as an arena of nodes; node 0 is the root.
// Children are referenced by index, which keeps every traversal iterative.
type Tree struct {
	Nodes []Node
}

// NewTree returns a tree with a single root node committing to msg.
func NewTree(msg []byte) *Tree {
	return &Tree{Nodes: []Node{{Msg: append([]byte(nil), msg...)}}}
}

// Root returns the root node index.
func (t *Tree) Root() int {
	return 0
}

// AddAttestation attaches an attestation to a node.
func (t *Tree) AddAttestation(node int, a Attestation) {
	t.Nodes[node].Attestations = append(t.Nodes[node].Attestations, a)
}

// AddEdge appends a child produced by applying op to the node message.
func (t *Tree) AddEdge(node int, op Op) (int, error) {
	msg, err := op.Apply(t.Nodes[node].Msg)
	if err != nil {
		return 0, err
	}
	t.Nodes = append(t.Nodes, Node{Msg: msg})
	child := len(t.Nodes) - 1
	t.Nodes[node].Edges = append(t.Nodes[node].Edges, Edge{Op: op, Child: child})
	return child, nil
}

// Clone returns a deep copy that shares no memory with t.
func (t *Tree) Clone() *Tree {
	out := &Tree{Nodes: make([]Node, len(t.Nodes))}
	for i, n := range t.Nodes {
		c := Node{Msg: append([]byte(nil), n.Msg...)}
		if len(n.Attestations) > 0 {
			c.Attestations = make([]Attestation, len(n.Attestations))
			for j, a := range n.Attestations {
				a.Payload = append([]byte(nil), a.Payload...)
				c.Attestations[j] = a
			}
		}
		if len(n.Edges) > 0 {
			c.Edges = make([]Edge, len(n.Edges))
			for j, e := range n.Edges {
				e.Op.Arg = append([]byte(nil), e.Op.Arg...)
				c.Edges[j] = e
			}
		}
		out.Nodes[i] = c
	}
	return out
}

// Equal compares two trees structurally, independent of arena layout.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.Nodes) == 0 || len(other.Nodes) == 0 {
		return len(t.Nodes) == len(other.Nodes)
	}

	type pair struct{ a, b int }
	stack := []pair{{t.Root(), other.Root()}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		na, nb := &t.Nodes[p.a], &other.Nodes[p.b]
		if !bytes.Equal(na.Msg, nb.Msg) ||
			len(na.Attestations) != len(nb.Attestations) ||
			len(na.Edges) != len(nb.Edges) {
			return false
		}
		for i := range na.Attestations {
			if !na.Attestations[i].Equal(nb.Attestations[i]) {
				return false
			}
		}
		for i := range na.Edges {
			if !na.Edges[i].Op.Equal(nb.Edges[i].Op) {
				return false
			}
			stack = append(stack, pair{na.Edges[i].Child, nb.Edges[i].Child})
		}
	}
	return true
}

// Merge folds the subtree of other rooted at otherNode into node.
// Attestations already present are skipped and edges with an equal op are merged
// recursively. It reports whether anything was added.
func (t *Tree) Merge(node int, other *Tree, otherNode int) (bool, error) {
	if !bytes.Equal(t.Nodes[node].Msg, other.Nodes[otherNode].Msg) {
		return false, fmt.Errorf("%w: node %d", ErrMessageMismatch, node)
	}

	changed := false
	type pair struct{ dst, src int }
	stack := []pair{{node, otherNode}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, a := range other.Nodes[p.src].Attestations {
			if !t.hasAttestation(p.dst, a) {
				t.AddAttestation(p.dst, a)
				changed = true
			}
		}
		for _, e := range other.Nodes[p.src].Edges {
			if child, ok := t.edgeFor(p.dst, e.Op); ok {
				stack = append(stack, pair{child, e.Child})
				continue
			}
			if err := t.graft(p.dst, e.Op, other, e.Child); err != nil {
				return changed, err
			}
			changed = true
		}
	}
	return changed, nil
}

func (t *Tree) hasAttestation(node int, a Attestation) bool {
	for _, existing := range t.Nodes[node].Attestations {
		if existing.Equal(a) {
			return true
		}
	}
	return false
}

func (t *Tree) edgeFor(node int, op Op) (int, bool) {
	for _, e := range t.Nodes[node].Edges {
		if e.Op.Equal(op) {
			return e.Child, true
		}
	}
	return 0, false
}

// graft copies the subtree of other rooted at src under node via op.
func (t *Tree) graft(node int, op Op, other *Tree, src int) error {
	type pair struct {
		dst int
		op  Op
		src int
	}
	stack := []pair{{node, op, src}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		child, err := t.AddEdge(p.dst, p.op)
		if err != nil {
			return err
		}
		if !bytes.Equal(t.Nodes[child].Msg, other.Nodes[p.src].Msg) {
			return fmt.Errorf("%w: grafted node %d", ErrMessageMismatch, child)
		}
		for _, a := range other.Nodes[p.src].Attestations {
			t.AddAttestation(child, a)
		}
		// reversed so children keep their order once popped
		edges := other.Nodes[p.src].Edges
		for i := len(edges) - 1; i >= 0; i-- {
			stack = append(stack, pair{child, edges[i].Op, edges[i].Child})
		}
	}
	return nil
}
