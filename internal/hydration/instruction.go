package hydration

import (
	"time"

	"biodash/internal/domain"
)

// VelocityWarning is the velocity check as carried in an Instruction.
type VelocityWarning struct {
	Alert         bool   `json:"alert"`
	Message       string `json:"message"`
	RecentMl      int    `json:"recent_ml"`
	WindowMinutes int    `json:"window_minutes"`
}

// Instruction is the watch protocol payload.
type Instruction struct {
	Message           string   `json:"message"`
	RecommendedAmount int      `json:"recommended_amount"`
	Priority          Priority `json:"priority"`
	DeadlineMinutes   int      `json:"deadline_minutes"`
	// DailyTargetOverride is the computed goal when the watch holds a
	// different one, else 0.
	DailyTargetOverride int             `json:"daily_target_override"`
	Timestamp           time.Time       `json:"timestamp"`
	HydrationCurve      Curve           `json:"hydration_curve"`
	AdaptiveCurve       AdaptiveCurve   `json:"adaptive_curve"`
	VelocityWarning     VelocityWarning `json:"velocity_warning"`
	EventsToday         int             `json:"events_today"`
	Status              Status          `json:"status"`
	DeficitMl           int             `json:"deficit_ml"`
}

// InstructionInput is what the watch reports plus today's stored events.
type InstructionInput struct {
	Now         time.Time
	IntakeMl    int
	GoalMl      int
	WatchGoalMl int
	LastDrink   *time.Time
	EventsToday []domain.WaterEvent
}

// Instruct assembles the full instruction from the Coach advice.
func (p Params) Instruct(in InstructionInput) Instruction {
	a, v := p.Coach(AssessInput{
		IntakeMl:  in.IntakeMl,
		GoalMl:    in.GoalMl,
		Now:       in.Now,
		LastDrink: in.LastDrink,
	}, in.EventsToday)

	out := Instruction{
		Message:           a.Message,
		RecommendedAmount: a.RecommendedAmount,
		Priority:          a.Priority,
		DeadlineMinutes:   a.DeadlineMinutes,
		Timestamp:         in.Now,
		HydrationCurve:    p.Curve(in.IntakeMl, in.GoalMl, in.Now),
		AdaptiveCurve:     p.Adaptive(in.IntakeMl, in.GoalMl, in.Now),
		VelocityWarning: VelocityWarning{
			Alert:         v.Alert,
			Message:       v.Message,
			RecentMl:      v.Last60MinMl,
			WindowMinutes: int(VelocityWindow / time.Minute),
		},
		EventsToday: len(in.EventsToday),
		Status:      a.Status,
		DeficitMl:   a.DeficitMl,
	}
	if in.GoalMl != in.WatchGoalMl {
		out.DailyTargetOverride = in.GoalMl
	}
	return out
}
