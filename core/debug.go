package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// SampleRingSize is how many control iterations are kept for post-mortem dumps
const SampleRingSize = 16

var (
	// debugPrintln is set by platform code (UART println, host logger)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled gates DebugPrintln; the loop runs at full speed when off
	debugEnabled bool = false

	sampleRing     [SampleRingSize]Sample
	sampleRingHead uint8
	sampleRingLen  uint8
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordSample stores one control iteration in the ring buffer.
// Never blocks and never allocates.
func RecordSample(s Sample) {
	sampleRing[sampleRingHead] = s
	sampleRingHead = (sampleRingHead + 1) % SampleRingSize
	if sampleRingLen < SampleRingSize {
		sampleRingLen++
	}
}

// RecentSamples returns the recorded samples, oldest first
func RecentSamples() []Sample {
	out := make([]Sample, 0, sampleRingLen)
	start := (sampleRingHead + SampleRingSize - sampleRingLen) % SampleRingSize
	for i := uint8(0); i < sampleRingLen; i++ {
		out = append(out, sampleRing[(start+i)%SampleRingSize])
	}
	return out
}

// DumpSampleRing writes the ring through the debug writer regardless of debugEnabled
func DumpSampleRing() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[SAMPLES] === last " + utoa(uint32(sampleRingLen)) + " ===")
	for _, s := range RecentSamples() {
		debugPrintln("[SAMPLES] pot=" + utoa(uint32(s.RawPot)) +
			" light=" + utoa(uint32(s.RawLight)) +
			" fan=" + itoa(s.FanSpeed) +
			" servo=" + itoa(s.ServoVal))
	}
}

// ClearSampleRing empties the ring buffer
func ClearSampleRing() {
	for i := range sampleRing {
		sampleRing[i] = Sample{}
	}
	sampleRingHead = 0
	sampleRingLen = 0
}
