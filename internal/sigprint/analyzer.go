package sigprint

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// SequenceEvent reports what SequenceAnalyzer.AddCode found for one code.
type SequenceEvent struct {
	Gate         bool
	GateDistance float64
	LoopDetected bool
	LoopPeriod   int
	LoopStrength float64
}

// SequenceAnalyzer is a supplemental, non-core annotation layer over the
// 20-digit codes FingerprintComposer already emits. Unlike the core's
// per-band gate/loop bitmasks (fixed 0.35/0.05 thresholds, fixed 19-tick
// lookback), it tracks whole-code Hamming distance against an adaptively
// updated median/MAD baseline and searches a window of candidate periods
// for recurring cycles — the richer analysis the distilled core spec
// deliberately left out. It never feeds back into the core's own fields.
type SequenceAnalyzer struct {
	GateThreshold float64
	LoopThreshold float64
	MinLoopPeriod int
	MaxLoopPeriod int
	HistorySize   int

	history         [][20]int
	timestamps      []time.Time
	distanceHistory []float64

	baselineDistance float64
	baselineStd      float64
}

// NewSequenceAnalyzer returns an analyzer with the same defaults as the
// original SIGPRINT gate/loop detector.
func NewSequenceAnalyzer() *SequenceAnalyzer {
	return &SequenceAnalyzer{
		GateThreshold:    0.3,
		LoopThreshold:    0.85,
		MinLoopPeriod:    3,
		MaxLoopPeriod:    20,
		HistorySize:      60,
		baselineDistance: 0.1,
		baselineStd:      0.05,
	}
}

// AddCode records one code and reports whether it looks like a gate
// (a larger-than-baseline jump from the previous code) and/or a loop
// (a recurring cycle within recent history).
func (a *SequenceAnalyzer) AddCode(code [20]int, at time.Time) SequenceEvent {
	if len(a.history) == 0 {
		a.pushHistory(code, at)
		return SequenceEvent{}
	}

	var ev SequenceEvent
	ev.GateDistance = hammingDistance(a.history[len(a.history)-1], code)
	a.pushDistance(ev.GateDistance)

	adaptive := a.GateThreshold
	if len(a.distanceHistory) > 10 {
		switch {
		case a.baselineStd > 0.1:
			adaptive *= 1.2
		case a.baselineStd < 0.05:
			adaptive *= 0.8
		}
	}
	if ev.GateDistance > adaptive {
		ev.Gate = true
	}

	if period, strength, ok := a.detectLoop(); ok {
		ev.LoopDetected = true
		ev.LoopPeriod = period
		ev.LoopStrength = strength
	}

	a.pushHistory(code, at)
	a.updateBaseline()
	return ev
}

func (a *SequenceAnalyzer) pushHistory(code [20]int, at time.Time) {
	a.history = append(a.history, code)
	a.timestamps = append(a.timestamps, at)
	if len(a.history) > a.HistorySize {
		a.history = a.history[len(a.history)-a.HistorySize:]
		a.timestamps = a.timestamps[len(a.timestamps)-a.HistorySize:]
	}
}

func (a *SequenceAnalyzer) pushDistance(d float64) {
	a.distanceHistory = append(a.distanceHistory, d)
	if len(a.distanceHistory) > 100 {
		a.distanceHistory = a.distanceHistory[len(a.distanceHistory)-100:]
	}
}

// detectLoop searches candidate periods in [MinLoopPeriod, MaxLoopPeriod].
// For each period, a phase matches when its mean similarity across earlier
// cycles exceeds LoopThreshold; the period's strength is the fraction of
// matching phases. It reports the strongest period if that strength is
// above 0.5, mirroring the original detector's period/phase search.
func (a *SequenceAnalyzer) detectLoop() (period int, strength float64, ok bool) {
	n := len(a.history)
	if n < a.MinLoopPeriod*2 {
		return 0, 0, false
	}

	maxPeriod := a.MaxLoopPeriod
	if n/2 < maxPeriod {
		maxPeriod = n / 2
	}

	bestPeriod, bestStrength := 0, 0.0
	for p := a.MinLoopPeriod; p <= maxPeriod; p++ {
		matches, total := 0, 0
		for phase := 0; phase < p; phase++ {
			var sims []float64
			for cycle := 1; cycle < n/p; cycle++ {
				i1 := n - 1 - phase
				i2 := n - 1 - phase - cycle*p
				if i2 < 0 {
					continue
				}
				sims = append(sims, 1-hammingDistance(a.history[i1], a.history[i2]))
			}
			if len(sims) == 0 {
				continue
			}
			total++
			if mean(sims) > a.LoopThreshold {
				matches++
			}
		}
		if total == 0 {
			continue
		}
		s := float64(matches) / float64(total)
		if s > bestStrength {
			bestPeriod, bestStrength = p, s
		}
	}

	if bestStrength > 0.5 {
		return bestPeriod, bestStrength, true
	}
	return 0, 0, false
}

// updateBaseline recomputes the adaptive gate threshold's median/MAD
// baseline from recent distances, using gonum/stat's quantile estimator
// for the median.
func (a *SequenceAnalyzer) updateBaseline() {
	if len(a.distanceHistory) <= 5 {
		return
	}
	sorted := append([]float64(nil), a.distanceHistory...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	deviations := make([]float64, len(sorted))
	for i, v := range sorted {
		deviations[i] = math.Abs(v - median)
	}
	sort.Float64s(deviations)
	mad := stat.Quantile(0.5, stat.Empirical, deviations, nil)

	a.baselineDistance = median
	a.baselineStd = 1.4826 * mad
}

func hammingDistance(a, b [20]int) float64 {
	diff := 0
	for i := range a {
		if a[i] != b[i] {
			diff++
		}
	}
	return float64(diff) / float64(len(a))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
