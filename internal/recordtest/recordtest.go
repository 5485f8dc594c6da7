// Package recordtest builds framed record streams for tests.
package recordtest

import (
	"bytes"
	"encoding/binary"

	"github.com/bft-labs/tfevents/pkg/record"
)

// Frame returns payload wrapped in a record: length, length checksum,
// payload, payload checksum.
func Frame(payload []byte) []byte {
	buf := make([]byte, 0, 16+len(payload))
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	buf = append(buf, lenBuf[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, record.MaskedCRC(lenBuf[:]))
	buf = append(buf, payload...)
	buf = binary.LittleEndian.AppendUint32(buf, record.MaskedCRC(payload))
	return buf
}

// Stream concatenates the framed payloads.
func Stream(payloads ...[]byte) []byte {
	var buf bytes.Buffer
	for _, p := range payloads {
		buf.Write(Frame(p))
	}
	return buf.Bytes()
}
