package ots

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// AttestationKind classifies an attestation by its 8-byte tag.
type AttestationKind uint8

// Known attestation kinds. Anything else decodes as AttestationUnknown and is kept verbatim.
const (
	AttestationUnknown AttestationKind = iota
	AttestationPending
	AttestationBitcoin
	AttestationLitecoin
	AttestationEthereum
)

const (
	attestationTagSize    = 8
	maxAttestationPayload = 8192
	maxPendingURILength   = 1000
	allowedURIChars       = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._/:"
)

var attestationTags = map[AttestationKind][attestationTagSize]byte{
	AttestationPending:  {0x83, 0xdf, 0xe3, 0x0d, 0x2e, 0xf9, 0x0c, 0x8e},
	AttestationBitcoin:  {0x05, 0x88, 0x96, 0x0d, 0x73, 0xd7, 0x19, 0x01},
	AttestationLitecoin: {0x06, 0x86, 0x9a, 0x0d, 0x73, 0xd7, 0x1b, 0x45},
	AttestationEthereum: {0x30, 0xfe, 0x80, 0x87, 0xb5, 0xc7, 0xea, 0xd7},
}

func (k AttestationKind) String() string {
	switch k {
	case AttestationPending:
		return "pending"
	case AttestationBitcoin:
		return "bitcoin"
	case AttestationLitecoin:
		return "litecoin"
	case AttestationEthereum:
		return "ethereum"
	default:
		return "unknown"
	}
}

// Attestation is a leaf claim attached to a tree node.
type Attestation struct {
	Kind AttestationKind
	// Tag is set for every kind; for unknown kinds it is the only identification.
	Tag     [attestationTagSize]byte
	Height  uint64
	URI     string
	Payload []byte
}

// NewPendingAttestation returns an attestation pointing at a calendar URI.
func NewPendingAttestation(uri string) Attestation {
	return Attestation{Kind: AttestationPending, Tag: attestationTags[AttestationPending], URI: uri}
}

// NewBitcoinAttestation returns a Bitcoin block header attestation.
func NewBitcoinAttestation(height uint64) Attestation {
	return Attestation{Kind: AttestationBitcoin, Tag: attestationTags[AttestationBitcoin], Height: height}
}

// Equal reports whether two attestations are identical.
func (a Attestation) Equal(other Attestation) bool {
	return a.Kind == other.Kind &&
		a.Tag == other.Tag &&
		a.Height == other.Height &&
		a.URI == other.URI &&
		bytes.Equal(a.Payload, other.Payload)
}

func (a Attestation) String() string {
	switch a.Kind {
	case AttestationPending:
		return fmt.Sprintf("pending(%s)", a.URI)
	case AttestationBitcoin, AttestationLitecoin, AttestationEthereum:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Height)
	default:
		return fmt.Sprintf("unknown(%s)", hex.EncodeToString(a.Tag[:]))
	}
}

func kindForTag(tag [attestationTagSize]byte) AttestationKind {
	for kind, t := range attestationTags {
		if t == tag {
			return kind
		}
	}
	return AttestationUnknown
}

func readAttestation(r *reader) (Attestation, error) {
	rawTag, err := r.readBytes(attestationTagSize)
	if err != nil {
		return Attestation{}, err
	}
	payload, err := r.readVarbytes(0, maxAttestationPayload)
	if err != nil {
		return Attestation{}, err
	}

	var tag [attestationTagSize]byte
	copy(tag[:], rawTag)
	att := Attestation{Kind: kindForTag(tag), Tag: tag}

	pr := newReader(payload)
	switch att.Kind {
	case AttestationPending:
		uri, err := pr.readVarbytes(0, maxPendingURILength)
		if err != nil {
			return Attestation{}, err
		}
		for _, c := range uri {
			if !bytes.ContainsRune([]byte(allowedURIChars), rune(c)) {
				return Attestation{}, decodeErrorf("invalid character %q in pending uri", c)
			}
		}
		att.URI = string(uri)
	case AttestationBitcoin, AttestationLitecoin, AttestationEthereum:
		if att.Height, err = pr.readVaruint(); err != nil {
			return Attestation{}, err
		}
	default:
		att.Payload = payload
		return att, nil
	}

	if !pr.eof() {
		return Attestation{}, decodeErrorf("trailing bytes in %s attestation payload", att.Kind)
	}
	return att, nil
}

func writeAttestation(buf *bytes.Buffer, a Attestation) error {
	var payload bytes.Buffer
	switch a.Kind {
	case AttestationPending:
		if len(a.URI) > maxPendingURILength {
			return encodeErrorf("pending uri length %d exceeds %d", len(a.URI), maxPendingURILength)
		}
		writeVarbytes(&payload, []byte(a.URI))
	case AttestationBitcoin, AttestationLitecoin, AttestationEthereum:
		writeVaruint(&payload, a.Height)
	default:
		payload.Write(a.Payload)
	}
	if payload.Len() > maxAttestationPayload {
		return encodeErrorf("attestation payload length %d exceeds %d", payload.Len(), maxAttestationPayload)
	}

	tag := a.Tag
	if known, ok := attestationTags[a.Kind]; ok {
		tag = known
	}
	buf.Write(tag[:])
	writeVarbytes(buf, payload.Bytes())
	return nil
}
