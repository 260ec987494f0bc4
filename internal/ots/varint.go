package ots

import "bytes"

type reader struct {
	buf []byte
	pos int
}

func newReader(b []byte) *reader {
	return &reader{buf: b}
}

func (r *reader) eof() bool {
	return r.pos >= len(r.buf)
}

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, decodeErrorf("unexpected end of data at offset %d", r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// readBytes returns a copy so decoded values never alias the input.
func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.pos < n {
		return nil, decodeErrorf("need %d bytes at offset %d, have %d", n, r.pos, len(r.buf)-r.pos)
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *reader) readVaruint() (uint64, error) {
	var value uint64
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		if shift == 63 && b&0x7f > 1 || shift > 63 {
			return 0, decodeErrorf("varuint overflows 64 bits at offset %d", r.pos)
		}
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return value, nil
		}
		shift += 7
	}
}

func (r *reader) readVarbytes(minLen, maxLen int) ([]byte, error) {
	n, err := r.readVaruint()
	if err != nil {
		return nil, err
	}
	if n > uint64(maxLen) {
		return nil, decodeErrorf("varbytes length %d exceeds max %d", n, maxLen)
	}
	if int(n) < minLen {
		return nil, decodeErrorf("varbytes length %d below min %d", n, minLen)
	}
	return r.readBytes(int(n))
}

func writeVaruint(buf *bytes.Buffer, v uint64) {
	for v >= 0x80 {
		buf.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	buf.WriteByte(byte(v))
}

func writeVarbytes(buf *bytes.Buffer, b []byte) {
	writeVaruint(buf, uint64(len(b)))
	buf.Write(b)
}
