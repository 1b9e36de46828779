package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"biodash/internal/domain"
	"biodash/internal/hydration"
)

// MaxWaterEventMl bounds a single logged drink.
const MaxWaterEventMl = 2000

// WaterService encapsulates water-tracking use cases.
type WaterService struct {
	repo   domain.WaterRepository
	params hydration.Params
	loc    *time.Location
	obs    Observer
	log    *zap.Logger
}

// NewWaterService creates a WaterService backed by the given repository.
func NewWaterService(repo domain.WaterRepository, params hydration.Params, loc *time.Location, obs Observer, log *zap.Logger) *WaterService {
	return &WaterService{repo: repo, params: params, loc: loc, obs: obs, log: log}
}

// GetTodayTotal returns the total intake in ml of the local day containing now.
func (s *WaterService) GetTodayTotal(ctx context.Context, now time.Time) (int, error) {
	from, to := domain.DayBounds(now, s.loc)
	return s.repo.WaterTotal(ctx, from, to.Add(-time.Nanosecond))
}

// Today returns the events of the local day containing now up to now.
func (s *WaterService) Today(ctx context.Context, now time.Time) ([]domain.WaterEvent, error) {
	from, _ := domain.DayBounds(now, s.loc)
	return s.repo.ListWaterEvents(ctx, from, now)
}

// RecordEvent validates and stores a water intake event and returns the
// velocity check that follows it. A zero timestamp means now.
func (s *WaterService) RecordEvent(ctx context.Context, e domain.WaterEvent) (int64, hydration.VelocityCheck, error) {
	if e.AmountMl < 1 || e.AmountMl > MaxWaterEventMl {
		return 0, hydration.VelocityCheck{}, invalid("amount_ml must be within [1, %d]", MaxWaterEventMl)
	}
	if e.Source == "" {
		e.Source = domain.SourceManual
	}
	switch e.Source {
	case domain.SourceWatch, domain.SourceManual, domain.SourceHA:
	default:
		return 0, hydration.VelocityCheck{}, invalid("source must be watch, manual or ha")
	}
	now := time.Now()
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	id, err := s.repo.AddWaterEvent(ctx, e)
	if err != nil {
		return 0, hydration.VelocityCheck{}, fmt.Errorf("add water event: %w", err)
	}

	events, err := s.Today(ctx, now)
	if err != nil {
		return id, hydration.VelocityCheck{}, err
	}
	v := s.params.Velocity(events, now)
	if v.Alert {
		s.obs.VelocityAlert()
		s.log.Warn("intake velocity above cap",
			zap.Int("last_60min_ml", v.Last60MinMl),
			zap.Int("max_hourly_ml", v.MaxHourlyMl))
	}
	return id, v, nil
}

// Delete removes a water event by id.
func (s *WaterService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.DeleteWaterEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete water event: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// List returns events in [from, to], oldest first.
func (s *WaterService) List(ctx context.Context, from, to time.Time) ([]domain.WaterEvent, error) {
	if to.Before(from) {
		return nil, invalid("end before start")
	}
	return s.repo.ListWaterEvents(ctx, from, to)
}

// ListRecent returns the most recent water events up to limit.
func (s *WaterService) ListRecent(ctx context.Context, limit int) ([]domain.WaterEvent, error) {
	return s.repo.ListRecentWaterEvents(ctx, limit)
}

// UndoLast deletes the most recent water event.
func (s *WaterService) UndoLast(ctx context.Context) (bool, int64, error) {
	items, err := s.repo.ListRecentWaterEvents(ctx, 1)
	if err != nil {
		return false, 0, err
	}
	if len(items) == 0 {
		return false, 0, nil
	}
	ok, err := s.repo.DeleteWaterEvent(ctx, items[0].ID)
	if err != nil {
		return false, 0, err
	}
	return ok, items[0].ID, nil
}
