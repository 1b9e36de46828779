package domain

import (
	"context"
	"time"
)

// IntakeEvent is a single logged dose of a substance.
type IntakeEvent struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Substance Substance `json:"substance"`
	// DoseMg is optional; nil or zero means the substance default dose.
	DoseMg *float64 `json:"dose_mg"`
	Notes  string   `json:"notes,omitempty"`
}

// Dose returns the logged dose, or def when none was recorded.
func (e IntakeEvent) Dose(def float64) float64 {
	if e.DoseMg == nil || *e.DoseMg == 0 {
		return def
	}
	return *e.DoseMg
}

// IntakeRepository is the port for intake persistence.
type IntakeRepository interface {
	AddIntake(ctx context.Context, e IntakeEvent) (int64, error)
	DeleteIntake(ctx context.Context, id int64) (bool, error)
	ListIntakes(ctx context.Context, from, to time.Time) ([]IntakeEvent, error)
	LatestIntake(ctx context.Context, s Substance) (*IntakeEvent, error)
}

// RawIntake is the wire form of an intake, as produced by clients that keep
// timestamps as ISO-8601 strings.
type RawIntake struct {
	Timestamp string   `json:"timestamp"`
	Substance string   `json:"substance"`
	DoseMg    *float64 `json:"dose_mg"`
}

// ParseIntakes converts raw intakes, skipping entries with an unparsable
// timestamp, an unknown substance or a negative dose. The number of skipped
// entries is returned so callers can surface it.
func ParseIntakes(raw []RawIntake, loc *time.Location) ([]IntakeEvent, int) {
	out := make([]IntakeEvent, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		ts, err := ParseTimestamp(r.Timestamp, loc)
		if err != nil {
			skipped++
			continue
		}
		s, err := ParseSubstance(r.Substance)
		if err != nil {
			skipped++
			continue
		}
		if r.DoseMg != nil && *r.DoseMg < 0 {
			skipped++
			continue
		}
		out = append(out, IntakeEvent{Timestamp: ts, Substance: s, DoseMg: r.DoseMg})
	}
	return out, skipped
}
