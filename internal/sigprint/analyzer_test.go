package sigprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeWith(seed int) [20]int {
	var c [20]int
	for i := range c {
		c[i] = (seed + i) % 10
	}
	return c
}

func TestSequenceAnalyzer_FirstCodeNeverGates(t *testing.T) {
	a := NewSequenceAnalyzer()
	ev := a.AddCode(codeWith(0), time.Unix(0, 0))
	assert.False(t, ev.Gate)
	assert.False(t, ev.LoopDetected)
}

func TestSequenceAnalyzer_IdenticalCodesNeverGate(t *testing.T) {
	a := NewSequenceAnalyzer()
	base := codeWith(1)
	now := time.Unix(0, 0)
	for i := 0; i < 30; i++ {
		ev := a.AddCode(base, now.Add(time.Duration(i)*time.Second))
		assert.False(t, ev.Gate, "tick %d", i)
	}
}

func TestSequenceAnalyzer_LargeJumpGates(t *testing.T) {
	a := NewSequenceAnalyzer()
	now := time.Unix(0, 0)
	base := codeWith(1)
	for i := 0; i < 15; i++ {
		a.AddCode(base, now.Add(time.Duration(i)*time.Second))
	}

	var jumped [20]int
	for i := range jumped {
		jumped[i] = (base[i] + 5) % 10
	}
	ev := a.AddCode(jumped, now.Add(16*time.Second))
	assert.True(t, ev.Gate)
	assert.Greater(t, ev.GateDistance, 0.0)
}

func TestSequenceAnalyzer_RepeatingCycleDetectsLoop(t *testing.T) {
	a := NewSequenceAnalyzer()
	now := time.Unix(0, 0)

	cycle := [][20]int{codeWith(1), codeWith(2), codeWith(3), codeWith(4)}
	var last SequenceEvent
	for i := 0; i < 40; i++ {
		last = a.AddCode(cycle[i%len(cycle)], now.Add(time.Duration(i)*time.Second))
	}

	require.True(t, last.LoopDetected)
	assert.Equal(t, 4, last.LoopPeriod)
	assert.Greater(t, last.LoopStrength, 0.5)
}

func TestSequenceAnalyzer_HistoryBounded(t *testing.T) {
	a := NewSequenceAnalyzer()
	now := time.Unix(0, 0)
	for i := 0; i < 200; i++ {
		a.AddCode(codeWith(i), now.Add(time.Duration(i)*time.Second))
	}
	assert.LessOrEqual(t, len(a.history), a.HistorySize)
	assert.LessOrEqual(t, len(a.timestamps), a.HistorySize)
}

func TestHammingDistance_Bounds(t *testing.T) {
	a := codeWith(0)
	b := codeWith(0)
	assert.Zero(t, hammingDistance(a, b))

	var allDifferent [20]int
	for i := range allDifferent {
		allDifferent[i] = (a[i] + 1) % 10
	}
	assert.Equal(t, 1.0, hammingDistance(a, allDifferent))
}
