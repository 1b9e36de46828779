package hydration

import (
	"fmt"
	"math"
	"time"

	"biodash/internal/domain"
)

// CurvePoint is a cumulative intake target at a fractional hour.
type CurvePoint struct {
	Hour float64 `json:"hour"`
	Ml   int     `json:"ml"`
}

// Target is a short-horizon micro goal.
type Target struct {
	Minutes  int    `json:"minutes"`
	TargetMl int    `json:"target_ml"`
	DeltaMl  int    `json:"delta_ml"`
	Label    string `json:"label"`
}

// Curve is the static expected-intake chart plus forward targets.
type Curve struct {
	CurrentMl         int          `json:"current_ml"`
	GoalMl            int          `json:"goal_ml"`
	CurrentHour       float64      `json:"current_hour"`
	CurrentExpectedMl int          `json:"current_expected_ml"`
	WakeHour          float64      `json:"wake_hour"`
	SleepHour         float64      `json:"sleep_hour"`
	Targets           []Target     `json:"targets"`
	ExpectedCurve     []CurvePoint `json:"expected_curve"`
}

// TargetMinutes are the forward horizons. 15 min matches gastric
// half-emptying, 30 min peak intestinal absorption.
var TargetMinutes = []int{15, 30, 45, 60}

const curveStepHours = 0.5

// Curve builds the expected curve at 30-minute resolution across waking
// hours and the 15/30/45/60-minute targets from now.
func (p Params) Curve(intakeMl, goalMl int, now time.Time) Curve {
	hour := domain.HourOfDay(now)

	steps := int((p.SleepHour-p.WakeHour)/curveStepHours) + 1
	points := make([]CurvePoint, 0, steps)
	for i := 0; i < steps; i++ {
		h := math.Min(p.WakeHour+float64(i)*curveStepHours, p.SleepHour)
		points = append(points, CurvePoint{Hour: round2(h), Ml: int(p.ExpectedAt(h, goalMl))})
	}

	targets := make([]Target, 0, len(TargetMinutes))
	for _, m := range TargetMinutes {
		h := math.Min(hour+float64(m)/60.0, p.SleepHour)
		target := int(p.ExpectedAt(h, goalMl))
		label := fmt.Sprintf("%d'", m)
		if m >= 60 {
			label = "1h"
		}
		targets = append(targets, Target{
			Minutes:  m,
			TargetMl: target,
			DeltaMl:  max(0, target-intakeMl),
			Label:    label,
		})
	}

	return Curve{
		CurrentMl:         intakeMl,
		GoalMl:            goalMl,
		CurrentHour:       round2(hour),
		CurrentExpectedMl: int(p.ExpectedAt(hour, goalMl)),
		WakeHour:          p.WakeHour,
		SleepHour:         p.SleepHour,
		Targets:           targets,
		ExpectedCurve:     points,
	}
}

// AdaptiveCurve is the catch-up plan from now to bedtime.
type AdaptiveCurve struct {
	CurrentMl         int     `json:"current_ml"`
	GoalMl            int     `json:"goal_ml"`
	StartHour         float64 `json:"start_hour"`
	SleepHour         float64 `json:"sleep_hour"`
	DeficitMl         int     `json:"deficit_ml"`
	RemainingMl       int     `json:"remaining_ml"`
	RequiredMlPerHour int     `json:"required_ml_per_hour"`
	BaseMlPerHour     int     `json:"base_ml_per_hour"`
	// CatchUpFactor is required/base pace; above 1 means catching up.
	CatchUpFactor float64      `json:"catch_up_factor"`
	Capped        bool         `json:"capped"`
	Points        []CurvePoint `json:"points"`
}

// Adaptive spreads the remaining intake evenly from now (or wake, if
// earlier) to the sleep hour. The pace never exceeds MaxHourlyMl, so a
// capped plan may end below the goal.
func (p Params) Adaptive(intakeMl, goalMl int, now time.Time) AdaptiveCurve {
	hour := domain.HourOfDay(now)
	start := math.Max(hour, p.WakeHour)
	remainingMl := max(0, goalMl-intakeMl)
	remainingHours := math.Max(0.5, p.SleepHour-start)

	rate := float64(remainingMl) / remainingHours
	capped := false
	if rate > float64(p.MaxHourlyMl) {
		rate = float64(p.MaxHourlyMl)
		capped = true
	}
	base := 0.0
	if span := p.SleepHour - p.WakeHour; span > 0 {
		base = float64(goalMl) / span
	}
	factor := 0.0
	if base > 0 {
		factor = round2(rate / base)
	}

	points := []CurvePoint{{Hour: round2(start), Ml: intakeMl}}
	at := func(h float64) int {
		return min(max(goalMl, intakeMl), intakeMl+int(rate*(h-start)))
	}
	for h := math.Floor(start/curveStepHours)*curveStepHours + curveStepHours; h < p.SleepHour; h += curveStepHours {
		points = append(points, CurvePoint{Hour: round2(h), Ml: at(h)})
	}
	if start < p.SleepHour {
		points = append(points, CurvePoint{Hour: round2(p.SleepHour), Ml: at(p.SleepHour)})
	}

	return AdaptiveCurve{
		CurrentMl:         intakeMl,
		GoalMl:            goalMl,
		StartHour:         round2(start),
		SleepHour:         p.SleepHour,
		DeficitMl:         int(p.ExpectedAt(hour, goalMl) - float64(intakeMl)),
		RemainingMl:       remainingMl,
		RequiredMlPerHour: int(rate),
		BaseMlPerHour:     int(base),
		CatchUpFactor:     factor,
		Capped:            capped,
		Points:            points,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
