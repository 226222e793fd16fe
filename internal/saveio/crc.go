package saveio

import "hash/crc32"

// crcOf computes the trailing checksum over a v3+ save's prior bytes
// (SPEC_FULL.md §4.7). hash/crc32 is stdlib: no example repo in the pack
// wires a third-party CRC library (DESIGN.md records this as a deliberate
// standard-library choice, not a dropped dependency).
func crcOf(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}
