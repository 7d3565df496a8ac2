package sigprint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFingerprint() FingerprintResult {
	var fp FingerprintResult
	for i := range fp.Digits {
		fp.Digits[i] = (i*7 + 3) % 10
	}
	fp.Coherence = 0.625
	fp.GateFlags = 0b00010100
	fp.LoopFlags = 0b00000011
	fp.Entropy = 2.75
	return fp
}

func TestPacketCodec_RoundTrip(t *testing.T) {
	codec := NewPacketCodec()

	var samples [ChannelCount]int32
	var amplitude, phase [ChannelCount][BandCount]float32
	for ch := 0; ch < ChannelCount; ch++ {
		samples[ch] = int32(ch*100001 - 400000)
		for b := 0; b < BandCount; b++ {
			amplitude[ch][b] = float32(ch*BandCount+b) * 0.5
			phase[ch][b] = float32(ch*BandCount+b) * 0.1
		}
	}
	fp := sampleFingerprint()

	frame := codec.Encode(123456789, samples, amplitude, phase, fp, 3, 1111)
	require.Len(t, frame, frameSize)

	framed := make([]byte, len(frame))
	copy(framed, frame)

	decoded, err := Decode(framed)
	require.NoError(t, err)

	assert.Equal(t, uint32(123456789), decoded.TimestampMs)
	assert.Equal(t, samples, decoded.Samples)
	assert.Equal(t, fp.Digits, decoded.Digits)
	assert.InDelta(t, fp.Coherence, decoded.Coherence, 1e-6)
	assert.Equal(t, fp.GateFlags, decoded.GateFlags)
	assert.Equal(t, fp.LoopFlags, decoded.LoopFlags)
	assert.InDelta(t, fp.Entropy, decoded.Entropy, 1e-6)
	assert.Equal(t, uint8(3), decoded.Stage)
	assert.Equal(t, uint16(1111), decoded.StageFrequency)

	for ch := 0; ch < ChannelCount; ch++ {
		for b := 0; b < BandCount; b++ {
			assert.InDelta(t, amplitude[ch][b], decoded.Amplitude[ch][b], 1e-6)
			assert.InDelta(t, phase[ch][b], decoded.Phase[ch][b], 1e-6)
		}
	}

	if diff := cmp.Diff(fp.Digits, decoded.Digits); diff != "" {
		t.Errorf("digits round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPacketCodec_SampleBoundaryValues(t *testing.T) {
	codec := NewPacketCodec()

	var samples [ChannelCount]int32
	samples[0] = -8388608
	samples[1] = 8388607
	var amplitude, phase [ChannelCount][BandCount]float32

	frame := codec.Encode(0, samples, amplitude, phase, FingerprintResult{}, 0, 0)
	buf := make([]byte, len(frame))
	copy(buf, frame)

	decoded, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, int32(-8388608), decoded.Samples[0])
	assert.Equal(t, int32(8388607), decoded.Samples[1])
}

func TestPacketCodec_StageWrap(t *testing.T) {
	codec := NewPacketCodec()
	var samples [ChannelCount]int32
	var amplitude, phase [ChannelCount][BandCount]float32

	for _, tc := range []struct {
		stage    uint8
		wantFreq uint16
	}{{0, 0}, {7, 222}} {
		frame := codec.Encode(0, samples, amplitude, phase, FingerprintResult{}, tc.stage, StageFrequency(tc.stage))
		buf := make([]byte, len(frame))
		copy(buf, frame)
		decoded, err := Decode(buf)
		require.NoError(t, err)
		assert.Equal(t, tc.stage, decoded.Stage)
		assert.Equal(t, tc.wantFreq, decoded.StageFrequency)
	}
}

func TestPacketCodec_CRCDetectsSingleBitFlip(t *testing.T) {
	codec := NewPacketCodec()
	var samples [ChannelCount]int32
	var amplitude, phase [ChannelCount][BandCount]float32
	fp := sampleFingerprint()

	frame := codec.Encode(42, samples, amplitude, phase, fp, 1, 333)
	buf := make([]byte, len(frame))
	copy(buf, frame)

	buf[headerSize+5] ^= 0x01

	_, err := Decode(buf)
	require.Error(t, err)
}

func TestPacketCodec_RejectsWrongLength(t *testing.T) {
	_, err := Decode(make([]byte, frameSize-1))
	require.Error(t, err)
}

func TestPacketCodec_RejectsBadMagic(t *testing.T) {
	codec := NewPacketCodec()
	var samples [ChannelCount]int32
	var amplitude, phase [ChannelCount][BandCount]float32
	frame := codec.Encode(0, samples, amplitude, phase, FingerprintResult{}, 0, 0)
	buf := make([]byte, len(frame))
	copy(buf, frame)
	buf[0] = 0xAA
	buf[1] = 0xAA

	_, err := Decode(buf)
	require.Error(t, err)
}

func TestCRC16CCITTFalse_KnownVector(t *testing.T) {
	// "123456789" is the standard CRC-16/CCITT-FALSE test vector; the
	// expected residue 0x29B1 is published for this polynomial/init/no-XOR
	// combination.
	got := crc16CCITTFalse([]byte("123456789"))
	assert.Equal(t, uint16(0x29B1), got)
}

func TestGet24LE_SignExtension(t *testing.T) {
	buf := make([]byte, 3)
	put24LE(buf, -1)
	assert.Equal(t, int32(-1), get24LE(buf))

	put24LE(buf, -8388608)
	assert.Equal(t, int32(-8388608), get24LE(buf))

	put24LE(buf, 8388607)
	assert.Equal(t, int32(8388607), get24LE(buf))
}
