package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeSampleFrameGolden(t *testing.T) {
	got := EncodeSampleFrame(SampleFrame{Seq: 1, Pot: 1023, Light: 0})
	want := []byte{0x08, 0x11, 0x87, 0x7F, 0x00, 0x46, 0x57, FrameSync}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected % X, got % X", want, got)
	}
}

func TestSampleFrameDecode(t *testing.T) {
	frames := []SampleFrame{
		{Seq: 0, Pot: 0, Light: 0},
		{Seq: 3, Pot: 0, Light: 1023},
		{Seq: 15, Pot: 1023, Light: 0},
		{Seq: 7, Pot: 95, Light: 96},
	}

	for _, f := range frames {
		data := EncodeSampleFrame(f)
		got, n, err := DecodeSampleFrame(data)
		if err != nil {
			t.Errorf("Decode %+v: %v", f, err)
			continue
		}
		if n != len(data) {
			t.Errorf("Decode %+v consumed %d of %d bytes", f, n, len(data))
		}
		if got != f {
			t.Errorf("Expected %+v, got %+v", f, got)
		}
	}
}

func TestSampleFrameSeqWraps(t *testing.T) {
	data := EncodeSampleFrame(SampleFrame{Seq: 0x12, Pot: 1, Light: 2})
	got, _, err := DecodeSampleFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seq != 2 {
		t.Errorf("Expected seq 2, got %d", got.Seq)
	}
}

func TestDecodeSampleFrameErrors(t *testing.T) {
	good := EncodeSampleFrame(SampleFrame{Seq: 1, Pot: 500, Light: 600})

	badCRC := append([]byte(nil), good...)
	badCRC[2] ^= 0x01

	badSync := append([]byte(nil), good...)
	badSync[len(badSync)-1] = 0x00

	tests := []struct {
		name     string
		data     []byte
		err      error
		consumed int
	}{
		{"empty", nil, ErrNeedMore, 0},
		{"partial", good[:4], ErrNeedMore, 0},
		{"bad crc", badCRC, ErrBadCRC, len(good)},
		{"bad sync", badSync, ErrBadSync, len(badSync)},
		{"short length", []byte{0x02, 0x11, FrameSync, 0x08}, ErrBadLength, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, n, err := DecodeSampleFrame(tc.data)
			if !errors.Is(err, tc.err) {
				t.Errorf("Expected %v, got %v", tc.err, err)
			}
			if n != tc.consumed {
				t.Errorf("Expected %d bytes consumed, got %d", tc.consumed, n)
			}
		})
	}
}

func TestDecodeSampleFrameOutOfRange(t *testing.T) {
	out := NewScratchOutput()
	out.Output([]byte{0, FrameDest})
	EncodeVLQUint(out, 2000)
	EncodeVLQUint(out, 0)
	msg := out.Result()
	msg[0] = byte(len(msg) + FrameTrailer)
	crc := CRC16(msg)
	out.Output([]byte{byte(crc >> 8), byte(crc), FrameSync})

	if _, _, err := DecodeSampleFrame(out.Result()); !errors.Is(err, ErrSampleRange) {
		t.Errorf("Expected ErrSampleRange, got %v", err)
	}
}

func TestDecodeStreamResync(t *testing.T) {
	var stream []byte
	stream = append(stream, 0xAA, 0xBB, FrameSync) // line noise
	stream = append(stream, EncodeSampleFrame(SampleFrame{Seq: 1, Pot: 10, Light: 20})...)
	stream = append(stream, EncodeSampleFrame(SampleFrame{Seq: 2, Pot: 30, Light: 40})...)

	var got []SampleFrame
	for len(stream) > 0 {
		f, n, err := DecodeSampleFrame(stream)
		if errors.Is(err, ErrNeedMore) {
			break
		}
		if err == nil {
			got = append(got, f)
		}
		stream = stream[n:]
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 frames after resync, got %d", len(got))
	}
	if got[0].Pot != 10 || got[1].Light != 40 {
		t.Errorf("Unexpected frames %+v", got)
	}
}
