// Package protocol implements the sample frames exchanged with the bench.
//
// Framing follows the Klipper message block layout: a length byte, a
// sequence byte, a VLQ payload, a CRC16 over everything before it and a
// sync byte.
package protocol

// Frame layout constants
const (
	FrameMax     = 16 // longest frame a sample can produce, with room to spare
	FrameMin     = 5  // header + trailer with no payload
	FrameHeader  = 2  // length, sequence
	FrameTrailer = 3  // crc hi, crc lo, sync

	FrameSync = 0x7E

	// Sequence byte: fixed high nibble, 4-bit counter in the low nibble
	FrameDest    = 0x10
	FrameSeqMask = 0x0F
)
