package protocol

import (
	"bytes"
	"testing"
)

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.Output([]byte{1, 2, 3})
	if scratch.CurPosition() != 3 {
		t.Errorf("Expected position 3, got %d", scratch.CurPosition())
	}

	scratch.Output([]byte{4, 5})
	if since := scratch.DataSince(2); !bytes.Equal(since, []byte{3, 4, 5}) {
		t.Errorf("DataSince(2): expected [3 4 5], got %v", since)
	}
	if scratch.DataSince(9) != nil {
		t.Error("DataSince past the end should be nil")
	}

	scratch.Reset()
	if scratch.CurPosition() != 0 {
		t.Errorf("After reset, expected position 0, got %d", scratch.CurPosition())
	}
}

func TestScratchOutputDropsOverflow(t *testing.T) {
	scratch := NewScratchOutput()
	scratch.Output(make([]byte, FrameMax+4))
	if scratch.CurPosition() != FrameMax {
		t.Errorf("Expected position capped at %d, got %d", FrameMax, scratch.CurPosition())
	}
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if fifo.Available() != 0 {
		t.Errorf("Empty FIFO should have 0 available, got %d", fifo.Available())
	}

	if written := fifo.Write([]byte{1, 2, 3, 4, 5}); written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}
	if fifo.Free() != 4 {
		t.Errorf("Expected 4 bytes free, got %d", fifo.Free())
	}

	fifo.Pop(3)
	if !bytes.Equal(fifo.Data(), []byte{4, 5}) {
		t.Errorf("After popping 3, expected [4 5], got %v", fifo.Data())
	}

	fifo.Pop(100)
	if fifo.Available() != 0 {
		t.Errorf("Pop past the end should empty the FIFO, %d left", fifo.Available())
	}

	fifo.Reset()
	// one slot is always kept empty
	if written := fifo.Write(make([]byte, 12)); written != 9 {
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Pop(2)

	if written := fifo.Write([]byte{5, 6}); written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}
	if got := fifo.Data(); !bytes.Equal(got, []byte{3, 4, 5, 6}) {
		t.Errorf("Wrap-around data mismatch: got %v", got)
	}
}

func TestFifoBufferFramesAcrossWrites(t *testing.T) {
	fifo := NewFifoBuffer(64)
	frame := EncodeSampleFrame(SampleFrame{Seq: 4, Pot: 700, Light: 12})

	fifo.Write(frame[:3])
	if _, _, err := DecodeSampleFrame(fifo.Data()); err != ErrNeedMore {
		t.Fatalf("Expected ErrNeedMore on partial frame, got %v", err)
	}

	fifo.Write(frame[3:])
	f, n, err := DecodeSampleFrame(fifo.Data())
	if err != nil {
		t.Fatal(err)
	}
	fifo.Pop(n)
	if f.Pot != 700 || f.Light != 12 || fifo.Available() != 0 {
		t.Errorf("Unexpected frame %+v with %d bytes left", f, fifo.Available())
	}
}
