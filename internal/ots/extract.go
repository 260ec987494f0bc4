package ots

// BlockAttestation is a ledger anchor found in a tree.
type BlockAttestation struct {
	BlockIndex uint64
	// BlockTime is the block timestamp in unix seconds when the attestation carries it.
	BlockTime *int64
}

// PendingAttestation locates a calendar promise inside a tree.
type PendingAttestation struct {
	Node int
	URI  string
}

// ExtractBitcoinAttestations collects Bitcoin block attestations in pre-order:
// a node's attestations come before those of its children, children in stored order.
// An empty result means the commitment is not anchored yet.
func ExtractBitcoinAttestations(t *Tree) []BlockAttestation {
	var out []BlockAttestation
	walk(t, func(node int) {
		for _, a := range t.Nodes[node].Attestations {
			if a.Kind == AttestationBitcoin {
				out = append(out, BlockAttestation{BlockIndex: a.Height})
			}
		}
	})
	return out
}

// PendingAttestations lists calendar attestations in the same order as ExtractBitcoinAttestations.
func PendingAttestations(t *Tree) []PendingAttestation {
	var out []PendingAttestation
	walk(t, func(node int) {
		for _, a := range t.Nodes[node].Attestations {
			if a.Kind == AttestationPending {
				out = append(out, PendingAttestation{Node: node, URI: a.URI})
			}
		}
	})
	return out
}

func walk(t *Tree, visit func(node int)) {
	if t == nil || len(t.Nodes) == 0 {
		return
	}
	stack := []int{t.Root()}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(node)

		edges := t.Nodes[node].Edges
		for i := len(edges) - 1; i >= 0; i-- {
			stack = append(stack, edges[i].Child)
		}
	}
}
