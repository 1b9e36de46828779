package hydration

import "biodash/internal/domain"

// GoalInput is the day's accumulated state.
type GoalInput struct {
	WeightKg      float64
	IsFasting     bool
	ElvanseActive bool
	Steps         int
	// CaffeineDoses is accepted for auditability. Habitual caffeine counts
	// 1:1 toward intake and does not change the goal.
	CaffeineDoses int
}

// Goal computes the daily target and its breakdown. The Date field is left
// for the caller.
func (p Params) Goal(in GoalInput) domain.WaterGoal {
	base := in.WeightKg * p.BaseMlPerKg

	drug := 0
	if in.ElvanseActive {
		drug = p.DrugModifierMl
	}
	fasting := 0
	if in.IsFasting {
		fasting = p.FastingModifierMl
	}
	surplus := max(0, in.Steps-p.ActivityBaselineSteps)
	activity := int(p.ActivityMlPer1kSteps * float64(surplus) / 1000.0)

	return domain.WaterGoal{
		GoalMl:             int(base + float64(drug+fasting+activity)),
		BaseMl:             int(base),
		DrugModifierMl:     drug,
		FastingModifierMl:  fasting,
		ActivityModifierMl: activity,
		WeightKg:           in.WeightKg,
		IsFasting:          in.IsFasting,
		ElvanseActive:      in.ElvanseActive,
		Steps:              in.Steps,
	}
}

// ExpectedAt returns the cumulative intake expected by a fractional hour:
// 0 until wake, goalMl from sleep on, linear in between.
func (p Params) ExpectedAt(hour float64, goalMl int) float64 {
	if hour <= p.WakeHour {
		return 0
	}
	if hour >= p.SleepHour {
		return float64(goalMl)
	}
	return float64(goalMl) * (hour - p.WakeHour) / (p.SleepHour - p.WakeHour)
}

// ScoreModifier maps the intake/expected ratio to -10..+5 bio-score points.
func (p Params) ScoreModifier(intakeMl, goalMl int, hour float64) float64 {
	if goalMl <= 0 {
		return 0
	}
	expected := p.ExpectedAt(hour, goalMl)
	if expected <= 0 {
		return 0
	}
	ratio := float64(intakeMl) / expected
	switch {
	case ratio >= 1.1:
		return 5
	case ratio >= 0.95:
		return 3
	case ratio >= 0.8:
		return 0
	case ratio >= 0.6:
		return -5
	case ratio >= 0.4:
		return -8
	}
	return -10
}
