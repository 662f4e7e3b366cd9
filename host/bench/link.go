package bench

import (
	"errors"
	"fmt"

	"fanctl/host/serial"
	"fanctl/protocol"
)

// ErrNoData is returned by Next when a read times out with nothing buffered
var ErrNoData = errors.New("no data from serial link")

// Link pulls sample frames off a serial port
type Link struct {
	port    serial.Port
	fifo    *protocol.FifoBuffer
	buf     [64]byte
	dropped int
}

// NewLink wraps an open port
func NewLink(port serial.Port) *Link {
	return &Link{
		port: port,
		fifo: protocol.NewFifoBuffer(256),
	}
}

// Dial opens the port described by cfg and wraps it
func Dial(cfg *serial.Config) (*Link, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open link: %w", err)
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush link: %w", err)
	}
	return NewLink(port), nil
}

// Next returns the next valid frame. Corrupt frames are skipped and counted.
// Read errors from the port (io.EOF included) are returned as is once
// the buffered bytes are used up.
func (l *Link) Next() (protocol.SampleFrame, error) {
	for {
		data := l.fifo.Data()
		f, n, err := protocol.DecodeSampleFrame(data)
		switch {
		case err == nil:
			l.fifo.Pop(n)
			return f, nil
		case !errors.Is(err, protocol.ErrNeedMore):
			l.fifo.Pop(n)
			l.dropped++
			continue
		}

		if l.fifo.Free() == 0 {
			// a full buffer with no complete frame is garbage
			l.fifo.Reset()
			l.dropped++
		}

		want := l.fifo.Free()
		if want > len(l.buf) {
			want = len(l.buf)
		}
		rn, rerr := l.port.Read(l.buf[:want])
		l.fifo.Write(l.buf[:rn])
		if rn > 0 {
			continue
		}
		if rerr != nil {
			return protocol.SampleFrame{}, rerr
		}
		return protocol.SampleFrame{}, ErrNoData
	}
}

// Dropped returns how many corrupt frames have been skipped
func (l *Link) Dropped() int {
	return l.dropped
}

// Close closes the underlying port
func (l *Link) Close() error {
	return l.port.Close()
}
