package sigprint

// Fixed system constants. None of these are runtime-configurable: the wire
// format and the demodulator bank are specified for exactly this shape.
const (
	// ChannelCount is the number of electrode channels the frontend exposes.
	ChannelCount = 8
	// BandCount is the number of frequency bands each channel is demodulated
	// into. This is a structural constant of the wire format (see packet.go's
	// digit layout and the BCD payload) and must not be parameterized.
	BandCount = 5
	// SampleRate is the fixed ADC sample rate in Hz.
	SampleRate = 250
	// PacketRate is the cadence, in Hz, at which PacketCodec emits frames.
	PacketRate = 25
	// FingerprintRate is the cadence, in Hz, at which FingerprintComposer runs.
	FingerprintRate = 1

	// adcFullScaleCounts is 2^23 - 1, the maximum magnitude of a signed
	// 24-bit ADC reading.
	adcFullScaleCounts = 8388607

	// SampleScaleMicrovolts converts a signed 24-bit ADC count to
	// microvolts: (4.5e6) / (24 * 8,388,607).
	SampleScaleMicrovolts = 4.5e6 / (24 * adcFullScaleCounts)

	// maxAlpha is the ceiling on the IIR smoothing coefficient (§3 invariant).
	maxAlpha = 0.9995

	// minBandwidthHz floors a band's configured bandwidth before it feeds
	// the alpha calculation, so a mis-specified near-zero bandwidth can't
	// produce alpha == 1 (a filter that never updates).
	minBandwidthHz = 0.1

	// loopLookback positions the loop detector's reference slot: after the
	// current value is written and the head advances, the detector compares
	// against the slot loopLookback positions behind the head, which holds
	// the value from loopLookback-1 (19) composer ticks earlier (19 s at the
	// 1 Hz composer cadence).
	loopLookback = 20
	// historyLen is the ring buffer length backing loop detection.
	historyLen = 64

	// gateDeltaThreshold is the fractional per-band amplitude change that
	// trips a gate event.
	gateDeltaThreshold = 0.35
	// loopDeviationThreshold is the fractional deviation from the
	// lookback reference that still counts as "looped".
	loopDeviationThreshold = 0.05

	// epsilon guards divisions where both operands could be exactly zero.
	epsilon = 1e-6
	// previousPowerFloor guards the gate-delta denominator.
	previousPowerFloor = 1e-3
)

// FrequencyBand describes one demodulation band: its center frequency,
// bandwidth, and the weight it contributes to global coherence and the
// per-band compressed-power digits.
type FrequencyBand struct {
	Name      string
	CenterHz  float64
	Bandwidth float64
	Weight    float64
}

// Bands is the ordered band table; index position is the band's index
// everywhere else in this package (BandState slices, digit positions
// 12..16, etc).
var Bands = [BandCount]FrequencyBand{
	{Name: "delta", CenterHz: 2.5, Bandwidth: 3.0, Weight: 0.15},
	{Name: "theta", CenterHz: 6.0, Bandwidth: 3.0, Weight: 0.20},
	{Name: "alpha", CenterHz: 10.0, Bandwidth: 3.0, Weight: 0.30},
	{Name: "beta", CenterHz: 20.0, Bandwidth: 10.0, Weight: 0.20},
	{Name: "gamma", CenterHz: 40.0, Bandwidth: 20.0, Weight: 0.15},
}

// alphaBandIndex is the index of the "alpha" band in Bands, used by the
// composer's L/R phase-offset and amplitude-ratio digits.
const alphaBandIndex = 2

// Left and right channel groupings used by the L/R alpha digits (§4.2).
var leftChannels = [4]int{0, 2, 4, 6}
var rightChannels = [4]int{1, 3, 5, 7}

// Frontal and occipital channel groupings used by the amplitude-share
// digits (§4.2).
var frontalChannels = [4]int{0, 1, 2, 3}
var occipitalChannels = [2]int{6, 7}
