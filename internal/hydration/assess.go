package hydration

import (
	"fmt"
	"math"
	"time"

	"biodash/internal/domain"
)

// Priority of a coaching instruction.
type Priority string

const (
	PriorityNone     Priority = "none"
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Status of the day's hydration.
type Status string

const (
	StatusOnTrack     Status = "on_track"
	StatusBehind      Status = "behind"
	StatusCritical    Status = "critical"
	StatusGoalReached Status = "goal_reached"
)

// Assessment is a coaching instruction with the state it was derived from.
type Assessment struct {
	Message           string   `json:"message"`
	RecommendedAmount int      `json:"recommended_amount"`
	Priority          Priority `json:"priority"`
	DeadlineMinutes   int      `json:"deadline_minutes"`
	DeficitMl         int      `json:"deficit_ml"`
	PacingMlPerHour   int      `json:"pacing_ml_per_hour"`
	Status            Status   `json:"status"`
	ProgressPct       float64  `json:"progress_pct"`
}

// AssessInput is the state an assessment is computed from.
type AssessInput struct {
	IntakeMl  int
	GoalMl    int
	Now       time.Time
	LastDrink *time.Time
	// RecentMl is the intake inside the suppression window before Now.
	RecentMl int
}

// Assess classifies the current state. The first matching rung wins.
func (p Params) Assess(in AssessInput) Assessment {
	hour := domain.HourOfDay(in.Now)
	expected := p.ExpectedAt(hour, in.GoalMl)
	deficit := int(expected - float64(in.IntakeMl))

	pct := 0.0
	if in.GoalMl > 0 {
		pct = math.Round(float64(in.IntakeMl)/float64(in.GoalMl)*1000) / 10
	}
	remainingHours := math.Max(0.5, p.SleepHour-hour)
	remainingMl := max(0, in.GoalMl-in.IntakeMl)
	pacing := int(float64(remainingMl) / remainingHours)

	a := Assessment{
		Priority:        PriorityNone,
		Status:          StatusOnTrack,
		DeficitMl:       deficit,
		PacingMlPerHour: pacing,
		ProgressPct:     pct,
	}
	advise := func(msg string, amount int, pr Priority, deadline int, st Status) Assessment {
		a.Message, a.RecommendedAmount, a.Priority, a.DeadlineMinutes, a.Status = msg, amount, pr, deadline, st
		return a
	}

	if in.RecentMl > p.SuppressAboveMl && deficit > 0 {
		return a
	}
	if in.IntakeMl >= in.GoalMl {
		a.Status = StatusGoalReached
		return a
	}

	switch {
	case deficit > 1000:
		amount := min(500, deficit)
		return advise(fmt.Sprintf("Far behind (%d ml)! Drink %d ml now.", deficit, amount),
			amount, PriorityCritical, 20, StatusCritical)
	case deficit > 500:
		amount := min(400, deficit)
		return advise(fmt.Sprintf("You are %d ml behind. Drink %d ml!", deficit, amount),
			amount, PriorityHigh, 30, StatusBehind)
	case deficit > 200:
		amount := min(300, deficit)
		return advise(fmt.Sprintf("Slightly behind (%d ml). Drink %d ml.", deficit, amount),
			amount, PriorityNormal, 45, StatusBehind)
	}

	if in.LastDrink != nil {
		since := in.Now.Sub(*in.LastDrink)
		switch {
		case since > 120*time.Minute:
			return advise("Over 2 hours without water. Drink something!", 250, PriorityHigh, 15, StatusBehind)
		case since > 90*time.Minute:
			return advise("90 min since your last drink. Drink 200 ml.", 200, PriorityNormal, 30, StatusBehind)
		}
	}

	if in.IntakeMl == 0 && hour > p.WakeHour+1 {
		return advise("Nothing to drink yet today. Start now!", 250, PriorityCritical, 15, StatusCritical)
	}

	if pacing > 0 && deficit > 0 {
		amount := min(250, pacing)
		return advise(fmt.Sprintf("Doing well! Next glass: %d ml.", amount), amount, PriorityLow, 60, StatusOnTrack)
	}
	return a
}

// Coach assesses the day against today's events and checks the drinking
// velocity. An active velocity alert replaces the advice: the warning
// becomes the message, priority is critical and no water is recommended.
func (p Params) Coach(in AssessInput, events []domain.WaterEvent) (Assessment, VelocityCheck) {
	in.RecentMl = RecentIntake(events, in.Now, p.SuppressWindow)
	a := p.Assess(in)
	v := p.Velocity(events, in.Now)
	if v.Alert {
		a.Message = v.Message
		a.Priority = PriorityCritical
		a.RecommendedAmount = 0
		a.DeadlineMinutes = 0
	}
	return a, v
}
