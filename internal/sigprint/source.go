package sigprint

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// SampleSource is the §6 "sample source" external collaborator: a
// non-blocking availability check plus a frame read. Values are signed
// 24-bit ADC counts in the low 24 bits of each element.
type SampleSource interface {
	Available() bool
	ReadFrame(frame *[ChannelCount]int32) bool
}

// serialPort is the narrow slice of go.bug.st/serial.Port that
// SerialSampleSource actually needs, mirroring the teacher's own
// RadarPortInterface split: decoupling from the concrete driver interface
// is what lets a byte-level fake stand in for it in tests.
type serialPort interface {
	io.Reader
	io.Closer
}

// SerialSampleSource reads fixed-width binary ADC frames off a serial
// connection to the analog frontend: ChannelCount 24-bit little-endian
// signed samples back-to-back, one frame per tick. It is the real-hardware
// counterpart to MockSampleSource, mirroring the RadarPort/MockRadarPort
// split used for the (line-oriented, ASCII) radar telemetry port.
type SerialSampleSource struct {
	port serialPort
	buf  [ChannelCount * 3]byte
}

// OpenSerialSampleSource opens portName at the frontend's fixed UART
// settings and returns a source ready to read ADC frames from it.
func OpenSerialSampleSource(portName string, baud int) (*SerialSampleSource, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("sigprint: opening serial port %q: %w", portName, err)
	}
	return &SerialSampleSource{port: port}, nil
}

// Available reports whether a full frame is likely ready. The serial
// driver doesn't expose a byte-count peek portable across platforms, so
// this always reports true and lets ReadFrame's short-read handling do
// the real work; it exists to satisfy SampleSource's non-blocking-check
// shape for sources that can do better (see MockSampleSource).
func (s *SerialSampleSource) Available() bool { return true }

// ReadFrame reads one ChannelCount-sample frame from the serial port. It
// returns false, per §7's source-side failure semantics, on any I/O error
// or short read; the caller is expected to reuse the previous snapshot and
// not retry.
func (s *SerialSampleSource) ReadFrame(frame *[ChannelCount]int32) bool {
	n, err := io.ReadFull(s.port, s.buf[:])
	if err != nil || n != len(s.buf) {
		return false
	}
	for ch := 0; ch < ChannelCount; ch++ {
		frame[ch] = get24LE(s.buf[ch*3:])
	}
	return true
}

// Close releases the underlying serial port.
func (s *SerialSampleSource) Close() error {
	return s.port.Close()
}

// MockSampleSource replays a fixed slice of pre-built frames, looping the
// last frame once exhausted unless Exhaust is set. It backs both tests and
// the bridge binary's -dev mode.
type MockSampleSource struct {
	Frames  [][ChannelCount]int32
	Exhaust bool

	pos int
}

// Available reports true unless Exhaust is set, in which case it reports
// whether queued frames remain. With an empty Frames slice it still reports
// true while Exhaust is false, but ReadFrame returns false.
func (m *MockSampleSource) Available() bool {
	return !m.Exhaust || m.pos < len(m.Frames)
}

// ReadFrame copies the next queued frame into frame, or the final queued
// frame forever if Exhaust is false and the queue has drained.
func (m *MockSampleSource) ReadFrame(frame *[ChannelCount]int32) bool {
	if len(m.Frames) == 0 {
		return false
	}
	if m.pos >= len(m.Frames) {
		if m.Exhaust {
			return false
		}
		*frame = m.Frames[len(m.Frames)-1]
		return true
	}
	*frame = m.Frames[m.pos]
	m.pos++
	return true
}

// encodeADCFrame is a small helper used by source_test.go to build the
// wire-shaped byte frame a real frontend would send over serial, so
// SerialSampleSource.ReadFrame's decode path can be exercised without a
// real port.
func encodeADCFrame(frame [ChannelCount]int32) []byte {
	buf := make([]byte, ChannelCount*3)
	for ch := 0; ch < ChannelCount; ch++ {
		put24LE(buf[ch*3:], frame[ch])
	}
	return buf
}
