package bioscore

// Phase is a categorical label for the current state.
type Phase string

const (
	PhaseSleep       Phase = "sleep"
	PhaseWaking      Phase = "waking"
	PhasePeakFocus   Phase = "peak-focus"
	PhaseActiveFocus Phase = "active-focus"
	PhaseDeclining   Phase = "declining"
	PhaseLowResidual Phase = "low-residual"
	PhaseMiddayDip   Phase = "midday-dip"
	PhaseWindDown    Phase = "wind-down"
	PhaseBaseline    Phase = "baseline"
)

// Classify picks the phase. Stimulant levels outrank the hour buckets
// after 07:00.
func Classify(hour, stimLevel float64) Phase {
	switch {
	case hour < 6:
		return PhaseSleep
	case hour < 7:
		return PhaseWaking
	case stimLevel >= 0.85:
		return PhasePeakFocus
	case stimLevel >= 0.5:
		return PhaseActiveFocus
	case stimLevel >= 0.2:
		return PhaseDeclining
	case stimLevel >= 0.05:
		return PhaseLowResidual
	case hour >= 12.5 && hour <= 14.5:
		return PhaseMiddayDip
	case hour >= 20:
		return PhaseWindDown
	}
	return PhaseBaseline
}
