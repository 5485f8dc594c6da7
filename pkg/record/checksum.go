package record

import "hash/crc32"

const maskDelta uint32 = 0xa282ead8

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// MaskedCRC returns the masked CRC32C of b as stored in record headers and
// footers: the Castagnoli checksum rotated right by 15 bits plus maskDelta.
func MaskedCRC(b []byte) uint32 {
	c := crc32.Checksum(b, castagnoli)
	return ((c >> 15) | (c << 17)) + maskDelta
}

// ValidCRC reports whether want is the masked CRC32C of b.
func ValidCRC(b []byte, want uint32) bool {
	return MaskedCRC(b) == want
}
