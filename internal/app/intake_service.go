package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"biodash/internal/ddi"
	"biodash/internal/domain"
)

// IntakeLookback bounds how far back intakes are loaded for scoring. After
// two days every modeled contribution is below the superposition cutoff.
const IntakeLookback = 48 * time.Hour

// InteractionChecker reports the interaction warnings a new intake brings.
type InteractionChecker interface {
	DoseWarnings(ctx context.Context, e domain.IntakeEvent) ([]ddi.Warning, error)
}

// IntakeService encapsulates substance intake logging.
type IntakeService struct {
	repo    domain.IntakeRepository
	checker InteractionChecker
	log     *zap.Logger
}

// NewIntakeService creates an IntakeService backed by the given repository.
// A nil checker disables the interaction check on co_dafalgan intakes.
func NewIntakeService(repo domain.IntakeRepository, checker InteractionChecker, log *zap.Logger) *IntakeService {
	return &IntakeService{repo: repo, checker: checker, log: log}
}

// Record validates and stores an intake. A zero timestamp means now. Logging
// co_dafalgan also returns the interaction warnings it triggers; a failing
// check is logged and leaves the stored intake in place.
func (s *IntakeService) Record(ctx context.Context, e domain.IntakeEvent) (domain.IntakeEvent, []ddi.Warning, error) {
	if !e.Substance.Valid() {
		return e, nil, invalid("unknown substance %q", e.Substance)
	}
	if e.DoseMg != nil && *e.DoseMg < 0 {
		return e, nil, invalid("dose_mg must be >= 0")
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	id, err := s.repo.AddIntake(ctx, e)
	if err != nil {
		return e, nil, fmt.Errorf("add intake: %w", err)
	}
	e.ID = id
	s.log.Info("intake recorded",
		zap.Int64("id", id),
		zap.String("substance", string(e.Substance)),
		zap.Time("timestamp", e.Timestamp))

	warnings := []ddi.Warning{}
	if e.Substance == domain.CoDafalgan && s.checker != nil {
		w, err := s.checker.DoseWarnings(ctx, e)
		if err != nil {
			s.log.Warn("interaction check failed", zap.Int64("id", id), zap.Error(err))
		} else {
			warnings = w
		}
		if len(warnings) > 0 {
			s.log.Warn("intake triggers interactions",
				zap.Int64("id", id),
				zap.Int("warnings", len(warnings)))
		}
	}
	return e, warnings, nil
}

// Delete removes an intake by id.
func (s *IntakeService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.DeleteIntake(ctx, id)
	if err != nil {
		return fmt.Errorf("delete intake: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// List returns intakes in [from, to], oldest first.
func (s *IntakeService) List(ctx context.Context, from, to time.Time) ([]domain.IntakeEvent, error) {
	if to.Before(from) {
		return nil, invalid("end before start")
	}
	return s.repo.ListIntakes(ctx, from, to)
}

// Window returns every intake that can still contribute at the given
// instant, oldest first.
func (s *IntakeService) Window(ctx context.Context, at time.Time) ([]domain.IntakeEvent, error) {
	return s.repo.ListIntakes(ctx, at.Add(-IntakeLookback), at)
}
