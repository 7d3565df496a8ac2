package sigprint

// PacketSink is the §6 "packet sink" external collaborator: it consumes a
// 383-byte frame immediately, with no back-pressure signalling. The frame
// slice is only valid for the duration of the call; sinks that need to
// retain it must copy it.
type PacketSink interface {
	Consume(frame []byte)
}

const (
	samplesPerPacketTick      = SampleRate / PacketRate
	samplesPerFingerprintTick = SampleRate / FingerprintRate
)

// Pipeline is the single-threaded cooperative scheduler described in
// spec.md §5: it drives ChannelCount LockInBanks at 250 Hz, the
// FingerprintComposer at 1 Hz, and the PacketCodec at 25 Hz, in that
// dependency order, from one tick loop with no suspension inside a tick.
type Pipeline struct {
	Banks      [ChannelCount]*LockInBank
	Composer   *FingerprintComposer
	Codec      *PacketCodec
	Source     SampleSource
	StageClock StageClock
	Sink       PacketSink

	// NowMs supplies the timestamp_ms field for the next encoded packet.
	// It defaults to a sample-counter-derived clock so pipelines are
	// deterministic in tests without depending on wall time.
	NowMs func() uint32

	sampleCount     uint64
	lastFrame       [ChannelCount]int32
	lastFingerprint FingerprintResult
}

// NewPipeline builds a pipeline with fresh LockInBanks, composer, and
// codec, wired to the given source, stage clock, and sink.
func NewPipeline(source SampleSource, stageClock StageClock, sink PacketSink) *Pipeline {
	p := &Pipeline{
		Composer:   NewFingerprintComposer(),
		Codec:      NewPacketCodec(),
		Source:     source,
		StageClock: stageClock,
		Sink:       sink,
	}
	for ch := range p.Banks {
		p.Banks[ch] = NewLockInBank()
	}
	p.NowMs = p.sampleClockMs
	return p
}

func (p *Pipeline) sampleClockMs() uint32 {
	return uint32(p.sampleCount * 1000 / SampleRate)
}

// Tick advances the pipeline by exactly one sample period: it reads (or
// skips, on source failure) one raw frame, demodulates it through every
// channel's LockInBank, and — on the cadences the packet and fingerprint
// rates imply — composes a fresh fingerprint and/or encodes and emits a
// packet. It never blocks.
func (p *Pipeline) Tick() {
	if p.Source.Available() {
		var frame [ChannelCount]int32
		if p.Source.ReadFrame(&frame) {
			p.lastFrame = frame
			for ch := 0; ch < ChannelCount; ch++ {
				p.Banks[ch].Process(float64(frame[ch]) * SampleScaleMicrovolts)
			}
		}
		// Source-side failure: skip this sample. The next packet tick
		// reuses whatever amplitude/phase state is already current.
	}

	p.sampleCount++

	if p.sampleCount%samplesPerFingerprintTick == 0 {
		amp, phase := p.snapshot()
		stage, _ := p.StageClock.Stage()
		p.lastFingerprint = p.Composer.Compose(amp, phase, stage)
	}

	if p.sampleCount%samplesPerPacketTick == 0 {
		p.emitPacket()
	}
}

func (p *Pipeline) snapshot() (amp, phase [ChannelCount][BandCount]float64) {
	for ch := 0; ch < ChannelCount; ch++ {
		amp[ch], phase[ch] = p.Banks[ch].Snapshot()
	}
	return amp, phase
}

func (p *Pipeline) emitPacket() {
	amp64, phase64 := p.snapshot()

	var amp32, phase32 [ChannelCount][BandCount]float32
	for ch := 0; ch < ChannelCount; ch++ {
		for b := 0; b < BandCount; b++ {
			amp32[ch][b] = float32(amp64[ch][b])
			phase32[ch][b] = float32(phase64[ch][b])
		}
	}

	stage, stageFreq := p.StageClock.Stage()
	frame := p.Codec.Encode(p.NowMs(), p.lastFrame, amp32, phase32, p.lastFingerprint, stage, stageFreq)

	if p.Sink != nil {
		p.Sink.Consume(frame)
	}
}
