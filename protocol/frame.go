package protocol

import "errors"

var (
	ErrNeedMore    = errors.New("incomplete frame")
	ErrBadLength   = errors.New("bad frame length")
	ErrBadSync     = errors.New("missing frame sync byte")
	ErrBadCRC      = errors.New("frame crc mismatch")
	ErrSampleRange = errors.New("sample value out of 10-bit range")
)

// SampleMax bounds decoded channel values (10-bit converter)
const SampleMax = 1023

// SampleFrame carries one pair of analog readings
type SampleFrame struct {
	Seq   uint8
	Pot   uint16
	Light uint16
}

// EncodeSampleFrame builds a complete frame for f
func EncodeSampleFrame(f SampleFrame) []byte {
	out := NewScratchOutput()
	out.Output([]byte{0, FrameDest | f.Seq&FrameSeqMask})
	EncodeVLQUint(out, uint32(f.Pot))
	EncodeVLQUint(out, uint32(f.Light))

	msg := out.Result()
	msg[0] = byte(len(msg) + FrameTrailer)
	crc := CRC16(msg)
	out.Output([]byte{byte(crc >> 8), byte(crc), FrameSync})

	return append([]byte(nil), out.Result()...)
}

// DecodeSampleFrame parses the frame at the start of data.
//
// It returns the number of bytes the caller should drop. On ErrNeedMore that
// is 0. On any other error it skips to just past the next sync byte (or the
// whole input when there is none), so a stream can resynchronize.
func DecodeSampleFrame(data []byte) (SampleFrame, int, error) {
	if len(data) == 0 {
		return SampleFrame{}, 0, ErrNeedMore
	}

	n := int(data[0])
	if n < FrameMin || n > FrameMax {
		return SampleFrame{}, resync(data), ErrBadLength
	}
	if len(data) < n {
		return SampleFrame{}, 0, ErrNeedMore
	}
	if data[n-1] != FrameSync {
		return SampleFrame{}, resync(data), ErrBadSync
	}

	crc := uint16(data[n-3])<<8 | uint16(data[n-2])
	if CRC16(data[:n-FrameTrailer]) != crc {
		return SampleFrame{}, n, ErrBadCRC
	}

	f := SampleFrame{Seq: data[1] & FrameSeqMask}
	payload := data[FrameHeader : n-FrameTrailer]

	pot, err := DecodeVLQUint(&payload)
	if err != nil {
		return SampleFrame{}, n, err
	}
	light, err := DecodeVLQUint(&payload)
	if err != nil {
		return SampleFrame{}, n, err
	}
	if len(payload) != 0 {
		return SampleFrame{}, n, ErrBadLength
	}
	if pot > SampleMax || light > SampleMax {
		return SampleFrame{}, n, ErrSampleRange
	}
	f.Pot, f.Light = uint16(pot), uint16(light)

	return f, n, nil
}

// resync returns how many bytes to drop to land after the next sync byte
func resync(data []byte) int {
	for i, b := range data {
		if b == FrameSync {
			return i + 1
		}
	}
	return len(data)
}
