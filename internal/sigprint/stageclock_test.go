package sigprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageFrequency_StageZeroIsZero(t *testing.T) {
	assert.Equal(t, uint16(0), StageFrequency(0))
}

func TestStageFrequency_MatchesRotationTable(t *testing.T) {
	want := []uint16{222, 333, 1111, 2222, 11111, 22222}
	for stage, freq := range want {
		assert.Equal(t, freq, StageFrequency(uint8(stage+1)))
	}
}

func TestStageFrequency_WrapsAfterSixthStage(t *testing.T) {
	assert.Equal(t, StageFrequency(1), StageFrequency(7))
	assert.Equal(t, StageFrequency(2), StageFrequency(8))
}

func TestFixedStageClock_AdvanceCyclesThroughStages(t *testing.T) {
	c := NewFixedStageClock(1)
	for want := uint8(2); want <= 6; want++ {
		c.Advance()
		stage, freq := c.Stage()
		assert.Equal(t, want, stage)
		assert.Equal(t, StageFrequency(want), freq)
	}
	c.Advance()
	stage, _ := c.Stage()
	assert.Equal(t, uint8(1), stage, "stage 6 should wrap back to stage 1")
}

func TestFixedStageClock_AdvanceFromStageZeroEntersRotation(t *testing.T) {
	c := NewFixedStageClock(0)
	stage, freq := c.Stage()
	assert.Equal(t, uint8(0), stage)
	assert.Equal(t, uint16(0), freq)

	c.Advance()
	stage, freq = c.Stage()
	assert.Equal(t, uint8(1), stage)
	assert.Equal(t, StageFrequency(1), freq)
}

func TestFixedStageClock_SetStageOverridesCurrentStage(t *testing.T) {
	c := NewFixedStageClock(3)
	c.SetStage(0)
	stage, freq := c.Stage()
	assert.Equal(t, uint8(0), stage)
	assert.Equal(t, uint16(0), freq)

	c.SetStage(5)
	stage, freq = c.Stage()
	assert.Equal(t, uint8(5), stage)
	assert.Equal(t, StageFrequency(5), freq)
}
