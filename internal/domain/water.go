package domain

import (
	"context"
	"time"
)

// Water event sources.
const (
	SourceWatch  = "watch"
	SourceManual = "manual"
	SourceHA     = "ha"
)

// WaterEvent represents a single water intake event.
type WaterEvent struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	AmountMl  int       `json:"amount_ml"`
	Source    string    `json:"source"`
	Notes     string    `json:"notes,omitempty"`
}

// WaterRepository is the port for water persistence.
type WaterRepository interface {
	AddWaterEvent(ctx context.Context, e WaterEvent) (int64, error)
	DeleteWaterEvent(ctx context.Context, id int64) (bool, error)
	ListRecentWaterEvents(ctx context.Context, limit int) ([]WaterEvent, error)
	ListWaterEvents(ctx context.Context, from, to time.Time) ([]WaterEvent, error)
	WaterTotal(ctx context.Context, from, to time.Time) (int, error)
}

// RawWaterEvent is the wire form of a water event.
type RawWaterEvent struct {
	Timestamp string `json:"timestamp"`
	AmountMl  int    `json:"amount_ml"`
	Source    string `json:"source"`
}

// ParseWaterEvents converts raw water events, skipping entries with an
// unparsable timestamp or a non-positive amount.
func ParseWaterEvents(raw []RawWaterEvent, loc *time.Location) ([]WaterEvent, int) {
	out := make([]WaterEvent, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		ts, err := ParseTimestamp(r.Timestamp, loc)
		if err != nil || r.AmountMl < 1 {
			skipped++
			continue
		}
		out = append(out, WaterEvent{Timestamp: ts, AmountMl: r.AmountMl, Source: r.Source})
	}
	return out, skipped
}
