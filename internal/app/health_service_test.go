package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"biodash/internal/app"
	"biodash/internal/domain"
)

func TestRecordSnapshot_Validation(t *testing.T) {
	svc := app.NewHealthService(&mockHealthRepo{}, time.UTC)

	tests := []struct {
		name string
		s    domain.HealthSnapshot
	}{
		{"confidence above 100", domain.HealthSnapshot{SleepConfidence: ptr(101.0)}},
		{"negative confidence", domain.HealthSnapshot{SleepConfidence: ptr(-1.0)}},
		{"negative steps", domain.HealthSnapshot{Steps: ptr(-10)}},
		{"negative hrv", domain.HealthSnapshot{HRV: ptr(-3.0)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Record(context.Background(), tc.s); !errors.Is(err, app.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRecordSnapshot_Success(t *testing.T) {
	repo := &mockHealthRepo{
		addFn: func(_ context.Context, _ domain.HealthSnapshot) (int64, error) { return 11, nil },
	}
	svc := app.NewHealthService(repo, time.UTC)
	s, err := svc.Record(context.Background(), domain.HealthSnapshot{RestingHR: ptr(58.0), SleepConfidence: ptr(85.0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != 11 || s.Timestamp.IsZero() {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestHealthDay(t *testing.T) {
	day := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	repo := &mockHealthRepo{
		listFn: func(_ context.Context, from, to time.Time) ([]domain.HealthSnapshot, error) {
			if !from.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) || to.Day() != 2 {
				t.Errorf("unexpected window %v .. %v", from, to)
			}
			return []domain.HealthSnapshot{{ID: 1}}, nil
		},
	}
	svc := app.NewHealthService(repo, time.UTC)
	got, err := svc.Day(context.Background(), day)
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result %v, %v", got, err)
	}
}
