package app

import (
	"context"
	"fmt"
	"time"

	"biodash/internal/domain"
)

// HealthService stores and retrieves wearable snapshots.
type HealthService struct {
	repo domain.HealthRepository
	loc  *time.Location
}

// NewHealthService creates a HealthService.
func NewHealthService(repo domain.HealthRepository, loc *time.Location) *HealthService {
	return &HealthService{repo: repo, loc: loc}
}

// Record validates and stores a snapshot. A zero timestamp means now.
func (s *HealthService) Record(ctx context.Context, snap domain.HealthSnapshot) (domain.HealthSnapshot, error) {
	if c := snap.SleepConfidence; c != nil && (*c < 0 || *c > 100) {
		return snap, invalid("sleep_confidence must be within [0, 100]")
	}
	if snap.Steps != nil && *snap.Steps < 0 {
		return snap, invalid("steps must be >= 0")
	}
	for name, v := range map[string]*float64{
		"heart_rate": snap.HeartRate, "resting_hr": snap.RestingHR, "hrv": snap.HRV,
		"sleep_duration": snap.SleepDurationMin, "spo2": snap.SpO2,
	} {
		if v != nil && *v < 0 {
			return snap, invalid("%s must be >= 0", name)
		}
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}
	id, err := s.repo.AddSnapshot(ctx, snap)
	if err != nil {
		return snap, fmt.Errorf("add snapshot: %w", err)
	}
	snap.ID = id
	return snap, nil
}

// Latest returns the newest snapshot at or before the given instant, or nil.
func (s *HealthService) Latest(ctx context.Context, before time.Time) (*domain.HealthSnapshot, error) {
	return s.repo.LatestSnapshot(ctx, before)
}

// Day returns the snapshots of the local day containing t, oldest first.
func (s *HealthService) Day(ctx context.Context, t time.Time) ([]domain.HealthSnapshot, error) {
	from, to := domain.DayBounds(t, s.loc)
	return s.repo.ListSnapshots(ctx, from, to.Add(-time.Nanosecond))
}
