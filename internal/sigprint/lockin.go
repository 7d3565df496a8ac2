package sigprint

import "math"

// BandState holds the demodulator state for one channel/band pair: the
// precomputed IIR coefficient, the current in-phase/quadrature estimates,
// and their derived amplitude and phase.
type BandState struct {
	alpha float64

	i, q float64

	Amplitude float64
	Phase     float64

	refSin [SampleRate]float64
	refCos [SampleRate]float64
}

func newBandState(band FrequencyBand) BandState {
	bw := band.Bandwidth
	if bw < minBandwidthHz {
		bw = minBandwidthHz
	}
	alpha := math.Exp(-2 * math.Pi * bw / SampleRate)
	if alpha < 0 {
		alpha = 0
	}
	if alpha > maxAlpha {
		alpha = maxAlpha
	}

	bs := BandState{alpha: alpha}
	for n := 0; n < SampleRate; n++ {
		phase := 2 * math.Pi * band.CenterHz * float64(n) / SampleRate
		bs.refSin[n] = math.Sin(phase)
		bs.refCos[n] = math.Cos(phase)
	}
	return bs
}

func (bs *BandState) reset() {
	bs.i, bs.q, bs.Amplitude, bs.Phase = 0, 0, 0, 0
}

// process demodulates one sample against this band's reference at the
// given cursor position and updates the IIR-smoothed I/Q estimate.
func (bs *BandState) process(sample float64, idx int) {
	iRaw := sample * bs.refCos[idx]
	qRaw := sample * bs.refSin[idx]

	bs.i = bs.alpha*bs.i + (1-bs.alpha)*iRaw
	bs.q = bs.alpha*bs.q + (1-bs.alpha)*qRaw

	bs.Amplitude = 2 * math.Hypot(bs.i, bs.q)
	bs.Phase = math.Atan2(bs.q, bs.i)
}

// LockInBank demodulates one channel's incoming samples into BandCount
// complex band estimates. One instance is owned per channel; state is not
// shared across channels.
type LockInBank struct {
	Band [BandCount]BandState
	idx  int
}

// NewLockInBank builds a fresh bank with all reference tables precomputed
// and all state zeroed, per §4.1's init/reset semantics.
func NewLockInBank() *LockInBank {
	lb := &LockInBank{}
	for b := range Bands {
		lb.Band[b] = newBandState(Bands[b])
	}
	return lb
}

// Reset returns the bank to its post-init state without reallocating the
// reference tables.
func (lb *LockInBank) Reset() {
	for b := range lb.Band {
		lb.Band[b].reset()
	}
	lb.idx = 0
}

// Process demodulates one incoming sample, already converted to
// microvolts, against every band and advances the reference cursor. It
// never fails and never allocates.
func (lb *LockInBank) Process(sampleUV float64) {
	for b := range lb.Band {
		lb.Band[b].process(sampleUV, lb.idx)
	}
	lb.idx++
	if lb.idx >= SampleRate {
		lb.idx = 0
	}
}

// Snapshot returns the current amplitude and phase for every band. It is a
// pure read and may be called at any cadence, independent of Process.
func (lb *LockInBank) Snapshot() (amp [BandCount]float64, phase [BandCount]float64) {
	for b := range lb.Band {
		amp[b] = lb.Band[b].Amplitude
		phase[b] = lb.Band[b].Phase
	}
	return amp, phase
}
