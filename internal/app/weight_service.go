package app

import (
	"context"
	"fmt"
	"time"

	"biodash/internal/domain"
)

// WeightService encapsulates weight-tracking use cases and resolves the
// effective user profile.
type WeightService struct {
	repo     domain.WeightRepository
	loc      *time.Location
	fallback domain.UserProfile
}

// NewWeightService creates a WeightService. fallback is the configured
// profile used until a weight is logged.
func NewWeightService(repo domain.WeightRepository, loc *time.Location, fallback domain.UserProfile) *WeightService {
	return &WeightService{repo: repo, loc: loc, fallback: fallback}
}

// GetTodayWeight returns the latest weight entry of the current local day.
func (s *WeightService) GetTodayWeight(ctx context.Context) (*domain.WeightEntry, string, error) {
	now := time.Now()
	from, to := domain.DayBounds(now, s.loc)
	e, err := s.repo.LatestWeightBetween(ctx, from, to)
	return e, domain.LocalDay(now, s.loc), err
}

// RecordWeight validates and stores a new weight measurement, returning the
// latest entry for today after the insert.
func (s *WeightService) RecordWeight(ctx context.Context, value float64, unit string) (*domain.WeightEntry, string, error) {
	if value <= 0 {
		return nil, "", invalid("value must be > 0")
	}
	if !domain.ValidWeightUnit(unit) {
		return nil, "", invalid("unit must be \"kg\" or \"lb\"")
	}
	now := time.Now()
	today := domain.LocalDay(now, s.loc)
	if _, err := s.repo.AddWeightEvent(ctx, value, unit, now); err != nil {
		return nil, today, fmt.Errorf("add weight: %w", err)
	}
	from, to := domain.DayBounds(now, s.loc)
	entry, err := s.repo.LatestWeightBetween(ctx, from, to)
	return entry, today, err
}

// ListRecent returns the most recent weight events up to limit.
func (s *WeightService) ListRecent(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	return s.repo.ListRecentWeightEvents(ctx, limit)
}

// UndoLast deletes the most recent weight event and returns the new latest
// entry for today.
func (s *WeightService) UndoLast(ctx context.Context) (bool, *domain.WeightEntry, string, error) {
	now := time.Now()
	today := domain.LocalDay(now, s.loc)
	deleted, err := s.repo.DeleteLatestWeightEvent(ctx)
	if err != nil {
		return false, nil, today, fmt.Errorf("delete latest weight: %w", err)
	}
	from, to := domain.DayBounds(now, s.loc)
	entry, err := s.repo.LatestWeightBetween(ctx, from, to)
	if err != nil {
		return deleted, nil, today, fmt.Errorf("latest weight today: %w", err)
	}
	return deleted, entry, today, nil
}

// EffectiveProfile returns the configured profile with the weight replaced
// by the most recent logged weight, converted to kg.
func (s *WeightService) EffectiveProfile(ctx context.Context) (domain.UserProfile, error) {
	p := s.fallback
	latest, err := s.repo.LatestWeight(ctx)
	if err != nil {
		return p, fmt.Errorf("latest weight: %w", err)
	}
	if latest != nil {
		if kg := latest.Kilograms(); kg > 0 {
			p.WeightKg = kg
		}
	}
	return p, nil
}
