package sigprint

// StageClock is the §6 "stage clock" external collaborator: it supplies a
// stage number and the stage's frequency per packet tick. The core never
// rotates stages itself; it only maps a stage number to a frequency.
type StageClock interface {
	Stage() (stage uint8, frequencyHz uint16)
}

// stageFrequencies is the fixed rotation table stages 1..6 index into,
// stage s mapping to stageFrequencies[(s-1)%len(stageFrequencies)]. Stage 0
// is special-cased to frequency 0 rather than indexing the table.
var stageFrequencies = [6]uint16{222, 333, 1111, 2222, 11111, 22222}

// StageFrequency maps a stage number to its rotation frequency, per §6.
func StageFrequency(stage uint8) uint16 {
	if stage == 0 {
		return 0
	}
	return stageFrequencies[(int(stage)-1)%len(stageFrequencies)]
}

// FixedStageClock reports a constant stage, advancing only when Advance is
// called. It is the reference StageClock used by the bridge binary and by
// tests; a foreground stage-rotation clock driving real acquisition is out
// of scope for this repository (§1).
type FixedStageClock struct {
	stage uint8
}

// NewFixedStageClock returns a clock starting at the given stage number.
func NewFixedStageClock(stage uint8) *FixedStageClock {
	return &FixedStageClock{stage: stage}
}

// Stage returns the current stage and its corresponding frequency.
func (c *FixedStageClock) Stage() (uint8, uint16) {
	return c.stage, StageFrequency(c.stage)
}

// Advance moves to the next stage in sequence (1..6, wrapping to 1). From
// stage 0 it moves to stage 1; it never returns to stage 0, which is only
// reached through NewFixedStageClock or SetStage.
func (c *FixedStageClock) Advance() {
	if c.stage == 0 {
		c.stage = 1
		return
	}
	c.stage = uint8((int(c.stage) % len(stageFrequencies)) + 1)
}

// SetStage forces the clock to a specific stage number.
func (c *FixedStageClock) SetStage(stage uint8) {
	c.stage = stage
}
