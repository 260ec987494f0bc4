package ots

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // sha1 is part of the timestamp format
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ripemd160 is part of the timestamp format
	"golang.org/x/crypto/sha3"
)

// OpTag identifies a commitment operation in the serialized form.
type OpTag byte

// Operation tags defined by the OpenTimestamps format.
const (
	OpSHA1      OpTag = 0x02
	OpRIPEMD160 OpTag = 0x03
	OpSHA256    OpTag = 0x08
	OpKECCAK256 OpTag = 0x67
	OpAppend    OpTag = 0xf0
	OpPrepend   OpTag = 0xf1
	OpReverse   OpTag = 0xf2
	OpHexlify   OpTag = 0xf3
)

const (
	maxOpArgLength = 4096
	maxMsgLength   = 4096
)

func (t OpTag) String() string {
	switch t {
	case OpSHA1:
		return "sha1"
	case OpRIPEMD160:
		return "ripemd160"
	case OpSHA256:
		return "sha256"
	case OpKECCAK256:
		return "keccak256"
	case OpAppend:
		return "append"
	case OpPrepend:
		return "prepend"
	case OpReverse:
		return "reverse"
	case OpHexlify:
		return "hexlify"
	default:
		return fmt.Sprintf("op(0x%02x)", byte(t))
	}
}

func (t OpTag) known() bool {
	switch t {
	case OpSHA1, OpRIPEMD160, OpSHA256, OpKECCAK256, OpAppend, OpPrepend, OpReverse, OpHexlify:
		return true
	}
	return false
}

// Binary reports whether the operation carries an argument.
func (t OpTag) Binary() bool {
	return t == OpAppend || t == OpPrepend
}

// DigestLength returns the output size of a hashing operation, or 0 for non-hash ops.
func (t OpTag) DigestLength() int {
	switch t {
	case OpSHA1, OpRIPEMD160:
		return 20
	case OpSHA256, OpKECCAK256:
		return 32
	default:
		return 0
	}
}

func (t OpTag) newHash() hash.Hash {
	switch t {
	case OpSHA1:
		return sha1.New() //nolint:gosec
	case OpRIPEMD160:
		return ripemd160.New()
	case OpSHA256:
		return sha256.New()
	case OpKECCAK256:
		return sha3.NewLegacyKeccak256()
	default:
		return nil
	}
}

// Op is a single edge operation of the commitment tree.
type Op struct {
	Tag OpTag
	Arg []byte
}

// Equal reports whether two operations are identical.
func (o Op) Equal(other Op) bool {
	return o.Tag == other.Tag && bytes.Equal(o.Arg, other.Arg)
}

func (o Op) String() string {
	if o.Tag.Binary() {
		return fmt.Sprintf("%s %s", o.Tag, hex.EncodeToString(o.Arg))
	}
	return o.Tag.String()
}

// Apply computes the message produced by the operation.
func (o Op) Apply(msg []byte) ([]byte, error) {
	if len(msg) > maxMsgLength {
		return nil, fmt.Errorf("%s: message length %d exceeds %d", o.Tag, len(msg), maxMsgLength)
	}

	var out []byte
	switch o.Tag {
	case OpAppend:
		out = make([]byte, 0, len(msg)+len(o.Arg))
		out = append(append(out, msg...), o.Arg...)
	case OpPrepend:
		out = make([]byte, 0, len(msg)+len(o.Arg))
		out = append(append(out, o.Arg...), msg...)
	case OpReverse:
		if len(msg) == 0 {
			return nil, fmt.Errorf("reverse: empty message")
		}
		out = make([]byte, len(msg))
		for i, b := range msg {
			out[len(msg)-1-i] = b
		}
	case OpHexlify:
		if len(msg) == 0 {
			return nil, fmt.Errorf("hexlify: empty message")
		}
		out = []byte(hex.EncodeToString(msg))
	case OpSHA1, OpRIPEMD160, OpSHA256, OpKECCAK256:
		h := o.Tag.newHash()
		h.Write(msg)
		out = h.Sum(nil)
	default:
		return nil, fmt.Errorf("unknown op tag 0x%02x", byte(o.Tag))
	}

	if len(out) > maxMsgLength {
		return nil, fmt.Errorf("%s: result length %d exceeds %d", o.Tag, len(out), maxMsgLength)
	}
	return out, nil
}

func readOp(r *reader, tag OpTag) (Op, error) {
	if !tag.known() {
		return Op{}, decodeErrorf("unknown op tag 0x%02x at offset %d", byte(tag), r.pos-1)
	}
	if !tag.Binary() {
		return Op{Tag: tag}, nil
	}
	arg, err := r.readVarbytes(1, maxOpArgLength)
	if err != nil {
		return Op{}, err
	}
	return Op{Tag: tag, Arg: arg}, nil
}

func writeOp(buf *bytes.Buffer, op Op) error {
	if !op.Tag.known() {
		return encodeErrorf("unknown op tag 0x%02x", byte(op.Tag))
	}
	buf.WriteByte(byte(op.Tag))
	if op.Tag.Binary() {
		if len(op.Arg) == 0 || len(op.Arg) > maxOpArgLength {
			return encodeErrorf("%s argument length %d out of range", op.Tag, len(op.Arg))
		}
		writeVarbytes(buf, op.Arg)
	}
	return nil
}
