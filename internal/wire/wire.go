package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindValue byte = 1
	kindSeq   byte = 2
)

var (
	ErrCorrupt = errors.New("anycache: corrupt entry")
	magic4     = [...]byte{'A', 'N', 'Y', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Value: magic(4) | ver(1) | kind(1=value) | vlen(u32 be) | payload(vlen)
func EncodeValue(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindValue)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeValue(b []byte) ([]byte, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindValue {
		return nil, ErrCorrupt
	}

	off := 6

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // strict framing: no trailing bytes
		return nil, ErrCorrupt
	}

	return b[off : off+vlen], nil
}

// Seq:
//
//	magic(4) | ver(1) | kind(2=seq) | n(u32 be)
//	vlen(u32 be) | payload(vlen) * n
func EncodeSeq(payloads [][]byte) []byte {
	total := 4 + 1 + 1 + 4
	for _, p := range payloads {
		total += 4 + len(p)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindSeq)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payloads)))
	buf.Write(u4[:])

	for _, p := range payloads {
		binary.BigEndian.PutUint32(u4[:], uint32(len(p)))
		buf.Write(u4[:])
		buf.Write(p)
	}

	return buf.Bytes()
}

func DecodeSeq(b []byte) ([][]byte, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindSeq {
		return nil, ErrCorrupt
	}

	off := 6

	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if n < 0 {
		return nil, ErrCorrupt
	}

	// A bogus n must not preallocate huge capacity; every element needs at
	// least its 4-byte length prefix in the remaining bytes.
	capHint := n
	if m := (len(b) - off) / 4; capHint > m {
		capHint = m
	}

	payloads := make([][]byte, 0, capHint)
	for i := 0; i < n; i++ {
		if off+4 > len(b) {
			return nil, ErrCorrupt
		}
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return nil, ErrCorrupt
		}
		payloads = append(payloads, b[off:off+vlen])
		off += vlen
	}

	if off != len(b) { // strict framing: no trailing bytes
		return nil, ErrCorrupt
	}

	return payloads, nil
}
