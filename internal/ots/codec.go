package ots

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

const (
	itemSeparator  = 0xff
	attestationTag = 0x00
	majorVersion   = 1
)

// headerMagic opens every detached timestamp file.
var headerMagic = []byte("\x00OpenTimestamps\x00\x00Proof\x00\xbf\x89\xe2\xe8\x84\xe8\x92\x94")

// DetachedTimestamp is a timestamp for the digest of some content, as stored in an
// .ots file. The digest is the root message of Tree.
type DetachedTimestamp struct {
	FileHashOp OpTag
	Tree       *Tree
}

// NewDetachedTimestamp returns a detached timestamp with an empty tree over digest.
func NewDetachedTimestamp(fileHashOp OpTag, digest []byte) (*DetachedTimestamp, error) {
	if n := fileHashOp.DigestLength(); n == 0 || n != len(digest) {
		return nil, fmt.Errorf("digest length %d does not match %s", len(digest), fileHashOp)
	}
	return &DetachedTimestamp{FileHashOp: fileHashOp, Tree: NewTree(digest)}, nil
}

// Digest returns the content digest the timestamp commits to.
func (d *DetachedTimestamp) Digest() []byte {
	return d.Tree.Nodes[d.Tree.Root()].Msg
}

// Clone returns a deep copy.
func (d *DetachedTimestamp) Clone() *DetachedTimestamp {
	return &DetachedTimestamp{FileHashOp: d.FileHashOp, Tree: d.Tree.Clone()}
}

// Equal reports whether two detached timestamps are structurally identical.
func (d *DetachedTimestamp) Equal(other *DetachedTimestamp) bool {
	return d.FileHashOp == other.FileHashOp && d.Tree.Equal(other.Tree)
}

// Decode parses a serialized detached timestamp. Errors wrap ErrDecode.
func Decode(b []byte) (*DetachedTimestamp, error) {
	r := newReader(b)
	magic, err := r.readBytes(len(headerMagic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, headerMagic) {
		return nil, decodeErrorf("bad header magic")
	}
	version, err := r.readVaruint()
	if err != nil {
		return nil, err
	}
	if version != majorVersion {
		return nil, decodeErrorf("unsupported major version %d", version)
	}

	tagByte, err := r.readByte()
	if err != nil {
		return nil, err
	}
	fileHashOp := OpTag(tagByte)
	digestLen := fileHashOp.DigestLength()
	if digestLen == 0 {
		return nil, decodeErrorf("file hash op 0x%02x is not a hash", tagByte)
	}
	digest, err := r.readBytes(digestLen)
	if err != nil {
		return nil, err
	}

	tree, err := decodeTree(r, digest)
	if err != nil {
		return nil, err
	}
	if !r.eof() {
		return nil, decodeErrorf("%d trailing bytes", len(b)-r.pos)
	}
	return &DetachedTimestamp{FileHashOp: fileHashOp, Tree: tree}, nil
}

// DecodeHex decodes a hex-encoded detached timestamp.
func DecodeHex(s string) (*DetachedTimestamp, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, decodeErrorf("hex: %v", err)
	}
	return Decode(b)
}

// Encode serializes a detached timestamp.
func Encode(d *DetachedTimestamp) ([]byte, error) {
	if d == nil || d.Tree == nil || len(d.Tree.Nodes) == 0 {
		return nil, encodeErrorf("empty timestamp")
	}
	if n := d.FileHashOp.DigestLength(); n == 0 || n != len(d.Digest()) {
		return nil, encodeErrorf("digest length %d does not match %s", len(d.Digest()), d.FileHashOp)
	}

	var buf bytes.Buffer
	buf.Write(headerMagic)
	writeVaruint(&buf, majorVersion)
	buf.WriteByte(byte(d.FileHashOp))
	buf.Write(d.Digest())
	if err := encodeTree(&buf, d.Tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeHex serializes a detached timestamp to hex.
func EncodeHex(d *DetachedTimestamp) (string, error) {
	b, err := Encode(d)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// DecodeTimestamp parses a bare timestamp tree (no file header) committing to msg,
// the form returned by calendar servers.
func DecodeTimestamp(b, msg []byte) (*Tree, error) {
	r := newReader(b)
	tree, err := decodeTree(r, msg)
	if err != nil {
		return nil, err
	}
	if !r.eof() {
		return nil, decodeErrorf("%d trailing bytes", len(b)-r.pos)
	}
	return tree, nil
}

// EncodeTimestamp serializes a bare timestamp tree.
func EncodeTimestamp(t *Tree) ([]byte, error) {
	if t == nil || len(t.Nodes) == 0 {
		return nil, encodeErrorf("empty timestamp")
	}
	var buf bytes.Buffer
	if err := encodeTree(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeTree reads node := (0xff item)* item, item := 0x00 attestation | op node.
// A node stays on the stack while more of its items follow; the final item pops it
// before its child is pushed, so chains of final edges do not grow the stack.
func decodeTree(r *reader, msg []byte) (*Tree, error) {
	t := NewTree(msg)
	stack := []int{t.Root()}

	for len(stack) > 0 {
		node := stack[len(stack)-1]

		tag, err := r.readByte()
		if err != nil {
			return nil, err
		}
		final := true
		if tag == itemSeparator {
			final = false
			if tag, err = r.readByte(); err != nil {
				return nil, err
			}
		}
		if final {
			stack = stack[:len(stack)-1]
		}

		if tag == attestationTag {
			att, err := readAttestation(r)
			if err != nil {
				return nil, err
			}
			t.AddAttestation(node, att)
			continue
		}

		op, err := readOp(r, OpTag(tag))
		if err != nil {
			return nil, err
		}
		child, err := t.AddEdge(node, op)
		if err != nil {
			return nil, decodeErrorf("apply %s at offset %d: %v", op.Tag, r.pos, err)
		}
		stack = append(stack, child)
	}
	return t, nil
}

func encodeTree(buf *bytes.Buffer, t *Tree) error {
	type frame struct {
		node int
		next int
	}
	stack := []frame{{node: t.Root()}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		n := &t.Nodes[f.node]
		total := len(n.Attestations) + len(n.Edges)
		if total == 0 {
			return encodeErrorf("node %d has no attestations or edges", f.node)
		}
		if f.next == total {
			stack = stack[:len(stack)-1]
			continue
		}

		i := f.next
		f.next++
		if i < total-1 {
			buf.WriteByte(itemSeparator)
		}
		if i < len(n.Attestations) {
			buf.WriteByte(attestationTag)
			if err := writeAttestation(buf, n.Attestations[i]); err != nil {
				return err
			}
			continue
		}

		e := n.Edges[i-len(n.Attestations)]
		if e.Child <= 0 || e.Child >= len(t.Nodes) {
			return encodeErrorf("node %d has dangling child %d", f.node, e.Child)
		}
		if err := writeOp(buf, e.Op); err != nil {
			return err
		}
		stack = append(stack, frame{node: e.Child})
	}
	return nil
}
