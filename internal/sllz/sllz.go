// Package sllz implements the project's in-house LZ77-style codec used to
// compress blueprint and delta-save payloads (SPEC_FULL.md §4.7): a 32 KiB
// sliding window and 3..258-byte matches, written as a byte-aligned token
// stream (a one-byte token tag, then a literal byte or a u16 distance and
// u16 length); there is no prefix or entropy coding. Encoder and decoder
// always agree on framing because both live in this package — per
// SPEC_FULL.md §9's open question, exact byte
// compatibility with any original SLLZ bitstream was never specified, so
// this is "any deterministic LZ77 variant" the spec explicitly allows.
//
// The format has two frame kinds, selected by a one-byte tag so a reader
// never has to guess: Raw (tag 0, payload copied verbatim) is the fallback
// the open question calls for when compression isn't worth the CPU or the
// input is already small; LZ (tag 1) is the real codec.
package sllz

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	windowSize    = 32 * 1024
	minMatchLen   = 3
	maxMatchLen   = 258
	hashTableBits = 15
	hashTableSize = 1 << hashTableBits
)

const (
	tagRaw byte = 0
	tagLZ  byte = 1
)

// Encode compresses src with the LZ tag. If the LZ-encoded form would be
// larger than the raw form (pathological inputs: tiny or high-entropy
// payloads), Encode falls back to the Raw frame instead — the decoder
// branches on the tag, so this is always safe and always smaller-or-equal.
func Encode(src []byte) []byte {
	lz := encodeLZ(src)
	raw := encodeRaw(src)
	if len(lz) < len(raw) {
		return lz
	}
	return raw
}

// Decode reverses Encode. It returns an error (never panics) on a
// truncated stream or an unrecognized frame tag.
func Decode(src []byte) ([]byte, error) {
	if len(src) < 1 {
		return nil, fmt.Errorf("sllz: empty frame")
	}
	switch src[0] {
	case tagRaw:
		return decodeRaw(src)
	case tagLZ:
		return decodeLZ(src)
	default:
		return nil, fmt.Errorf("sllz: unknown frame tag %d", src[0])
	}
}

func encodeRaw(src []byte) []byte {
	out := make([]byte, 1+len(src))
	out[0] = tagRaw
	copy(out[1:], src)
	return out
}

func decodeRaw(src []byte) ([]byte, error) {
	return append([]byte(nil), src[1:]...), nil
}

// token is either a literal byte or a (distance, length) back-reference.
// Encoded on the wire as: literal -> 0x00 then the byte; match -> 0x01
// then u16 distance, u16 length (the full match length, not offset by
// minMatchLen).
func encodeLZ(src []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagLZ)
	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(src)))
	buf.Write(lenPrefix[:])

	// hash chains: head[h] = most recent position with that 3-byte hash,
	// prev[pos] = previous position sharing the same hash (singly-linked,
	// scanned newest-first so matches favor the nearest, cheapest distance).
	head := make([]int32, hashTableSize)
	for i := range head {
		head[i] = -1
	}
	prev := make([]int32, len(src))

	hashAt := func(i int) uint32 {
		if i+3 > len(src) {
			return 0
		}
		v := uint32(src[i]) | uint32(src[i+1])<<8 | uint32(src[i+2])<<16
		return (v * 2654435761) >> (32 - hashTableBits)
	}

	insert := func(i int) {
		h := hashAt(i)
		prev[i] = head[h]
		head[h] = int32(i)
	}

	i := 0
	for i < len(src) {
		bestLen := 0
		bestDist := 0
		if i+minMatchLen <= len(src) {
			h := hashAt(i)
			cand := head[h]
			tries := 0
			for cand >= 0 && tries < 64 {
				dist := i - int(cand)
				if dist > windowSize {
					break
				}
				l := matchLength(src, int(cand), i)
				if l > bestLen {
					bestLen = l
					bestDist = dist
				}
				cand = prev[cand]
				tries++
			}
		}

		if bestLen >= minMatchLen {
			buf.WriteByte(1)
			var hdr [4]byte
			binary.LittleEndian.PutUint16(hdr[0:2], uint16(bestDist))
			binary.LittleEndian.PutUint16(hdr[2:4], uint16(bestLen))
			buf.Write(hdr[:])
			end := i + bestLen
			for ; i < end; i++ {
				if i+3 <= len(src) {
					insert(i)
				}
			}
		} else {
			buf.WriteByte(0)
			buf.WriteByte(src[i])
			if i+3 <= len(src) {
				insert(i)
			}
			i++
		}
	}

	return buf.Bytes()
}

func matchLength(src []byte, a, b int) int {
	n := 0
	for b+n < len(src) && n < maxMatchLen && src[a+n] == src[b+n] {
		n++
	}
	return n
}

func decodeLZ(src []byte) ([]byte, error) {
	if len(src) < 5 {
		return nil, fmt.Errorf("sllz: truncated LZ header")
	}
	outLen := int(binary.LittleEndian.Uint32(src[1:5]))
	out := make([]byte, 0, outLen)
	pos := 5
	for pos < len(src) {
		tag := src[pos]
		pos++
		switch tag {
		case 0:
			if pos >= len(src) {
				return nil, fmt.Errorf("sllz: truncated literal")
			}
			out = append(out, src[pos])
			pos++
		case 1:
			if pos+4 > len(src) {
				return nil, fmt.Errorf("sllz: truncated match")
			}
			dist := int(binary.LittleEndian.Uint16(src[pos : pos+2]))
			length := int(binary.LittleEndian.Uint16(src[pos+2 : pos+4]))
			pos += 4
			if dist <= 0 || dist > len(out) {
				return nil, fmt.Errorf("sllz: invalid back-reference distance %d at output offset %d", dist, len(out))
			}
			start := len(out) - dist
			for k := 0; k < length; k++ {
				out = append(out, out[start+k])
			}
		default:
			return nil, fmt.Errorf("sllz: unknown token tag %d", tag)
		}
	}
	if len(out) != outLen {
		return nil, fmt.Errorf("sllz: decoded length %d does not match header %d", len(out), outLen)
	}
	return out, nil
}
