package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"biodash/internal/bioscore"
	"biodash/internal/ddi"
	"biodash/internal/domain"
	"biodash/internal/hydration"
	"biodash/internal/pk"
)

// BioService evaluates the bio-score and interaction warnings against
// stored intakes and vitals.
type BioService struct {
	engine   *bioscore.Engine
	intakes  domain.IntakeRepository
	health   domain.HealthRepository
	profiles ProfileSource
	params   hydration.Params
	loc      *time.Location
	obs      Observer
	log      *zap.Logger
}

// NewBioService creates a BioService.
func NewBioService(engine *bioscore.Engine, intakes domain.IntakeRepository, health domain.HealthRepository,
	profiles ProfileSource, params hydration.Params, loc *time.Location, obs Observer, log *zap.Logger,
) *BioService {
	return &BioService{
		engine:   engine,
		intakes:  intakes,
		health:   health,
		profiles: profiles,
		params:   params,
		loc:      loc,
		obs:      obs,
		log:      log,
	}
}

func (s *BioService) inputs(ctx context.Context, at time.Time) (bioscore.Inputs, domain.UserProfile, error) {
	profile, err := s.profiles.EffectiveProfile(ctx)
	if err != nil {
		return bioscore.Inputs{}, profile, err
	}
	intakes, err := s.intakes.ListIntakes(ctx, at.Add(-IntakeLookback), at)
	if err != nil {
		return bioscore.Inputs{}, profile, fmt.Errorf("list intakes: %w", err)
	}
	snap, err := s.health.LatestSnapshot(ctx, at)
	if err != nil {
		return bioscore.Inputs{}, profile, fmt.Errorf("latest snapshot: %w", err)
	}
	return bioscore.InputsFromSnapshot(at, intakes, snap), profile, nil
}

// Score evaluates the composite score at the given instant.
func (s *BioService) Score(ctx context.Context, at time.Time) (bioscore.Result, error) {
	at = at.In(s.loc)
	in, profile, err := s.inputs(ctx, at)
	if err != nil {
		return bioscore.Result{}, err
	}
	r := s.engine.Score(in, profile)
	s.observe(r)
	return r, nil
}

// DayCurve samples the local day containing day at the given interval in
// minutes. The vitals of the latest snapshot of that day apply to every
// sample.
func (s *BioService) DayCurve(ctx context.Context, day time.Time, intervalMinutes int) ([]bioscore.Result, error) {
	if intervalMinutes != 0 && (intervalMinutes < bioscore.MinInterval || intervalMinutes > bioscore.MaxInterval) {
		return nil, invalid("interval must be within [%d, %d] minutes", bioscore.MinInterval, bioscore.MaxInterval)
	}
	start, end := domain.DayBounds(day, s.loc)
	profile, err := s.profiles.EffectiveProfile(ctx)
	if err != nil {
		return nil, err
	}
	intakes, err := s.intakes.ListIntakes(ctx, start.Add(-IntakeLookback), end)
	if err != nil {
		return nil, fmt.Errorf("list intakes: %w", err)
	}
	snap, err := s.health.LatestSnapshot(ctx, end.Add(-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	in := bioscore.InputsFromSnapshot(start, intakes, snap)
	return s.engine.DayCurve(start, in, profile, intervalMinutes), nil
}

// DDI returns the interaction warnings in effect at the given instant.
func (s *BioService) DDI(ctx context.Context, at time.Time) ([]ddi.Warning, error) {
	r, err := s.Score(ctx, at)
	if err != nil {
		return nil, err
	}
	return r.Warnings, nil
}

// DoseWarnings returns the interactions in effect when e is taken. For
// co_dafalgan the rules are evaluated again at the codeine peak, since an
// opioid taken on top of an active stimulant only shows up there. Each rule
// is reported once.
func (s *BioService) DoseWarnings(ctx context.Context, e domain.IntakeEvent) ([]ddi.Warning, error) {
	at := e.Timestamp.In(s.loc)
	instants := []time.Time{at}
	if e.Substance == domain.CoDafalgan {
		instants = append(instants, at.Add(s.engine.Model().TimeToPeak(pk.Codeine)))
	}
	profile, err := s.profiles.EffectiveProfile(ctx)
	if err != nil {
		return nil, err
	}
	last := instants[len(instants)-1]
	intakes, err := s.intakes.ListIntakes(ctx, at.Add(-IntakeLookback), last)
	if err != nil {
		return nil, fmt.Errorf("list intakes: %w", err)
	}

	warnings := []ddi.Warning{}
	seen := map[string]bool{}
	for _, t := range instants {
		for _, w := range s.engine.Score(bioscore.Inputs{At: t, Intakes: intakes}, profile).Warnings {
			if seen[w.Type] {
				continue
			}
			seen[w.Type] = true
			warnings = append(warnings, w)
			s.obs.DDIWarning(w.Type)
		}
	}
	return warnings, nil
}

// EvaluateRequest carries everything for a stateless evaluation. A nil
// profile selects the effective profile. A zero GoalMl selects the goal
// computed from the profile and the given intakes.
type EvaluateRequest struct {
	At       time.Time
	Intakes  []domain.RawIntake
	Water    []domain.RawWaterEvent
	Snapshot *domain.HealthSnapshot
	Profile  *domain.UserProfile
	GoalMl   int
}

// Evaluation is the result of a stateless evaluation.
type Evaluation struct {
	Score          bioscore.Result         `json:"score"`
	Hydration      hydration.Assessment    `json:"hydration"`
	Velocity       hydration.VelocityCheck `json:"velocity"`
	Goal           domain.WaterGoal        `json:"goal"`
	SkippedIntakes int                     `json:"skipped_intakes"`
	SkippedWater   int                     `json:"skipped_water"`
}

// Evaluate scores raw events without touching storage. Malformed events
// are skipped and counted.
func (s *BioService) Evaluate(ctx context.Context, req EvaluateRequest) (Evaluation, error) {
	if req.At.IsZero() {
		req.At = time.Now()
	}
	at := req.At.In(s.loc)

	var profile domain.UserProfile
	if req.Profile != nil {
		profile = *req.Profile
	} else {
		p, err := s.profiles.EffectiveProfile(ctx)
		if err != nil {
			return Evaluation{}, err
		}
		profile = p
	}

	intakes, skippedIntakes := domain.ParseIntakes(req.Intakes, s.loc)
	water, skippedWater := domain.ParseWaterEvents(req.Water, s.loc)
	if skippedIntakes > 0 {
		s.obs.EventsSkipped("intake", skippedIntakes)
	}
	if skippedWater > 0 {
		s.obs.EventsSkipped("water", skippedWater)
	}
	if skippedIntakes+skippedWater > 0 {
		s.log.Warn("skipped malformed events",
			zap.Int("intakes", skippedIntakes),
			zap.Int("water", skippedWater))
	}

	r := s.engine.Score(bioscore.InputsFromSnapshot(at, intakes, req.Snapshot), profile)
	s.observe(r)

	from, _ := domain.DayBounds(at, s.loc)
	gin := hydration.GoalInput{WeightKg: profile.WeightKg, IsFasting: profile.IsFasting}
	for _, e := range intakes {
		if e.Timestamp.Before(from) || e.Timestamp.After(at) {
			continue
		}
		switch e.Substance {
		case domain.Elvanse:
			gin.ElvanseActive = true
		case domain.Mate:
			gin.CaffeineDoses++
		}
	}
	if req.Snapshot != nil && req.Snapshot.Steps != nil {
		gin.Steps = *req.Snapshot.Steps
	}
	goal := s.params.Goal(gin)
	goal.Date = domain.LocalDay(at, s.loc)
	if req.GoalMl > 0 {
		goal.GoalMl = req.GoalMl
	}

	var today []domain.WaterEvent
	for _, e := range water {
		if !e.Timestamp.Before(from) && !e.Timestamp.After(at) {
			today = append(today, e)
		}
	}
	advice, velocity := s.params.Coach(hydration.AssessInput{
		IntakeMl:  sumMl(today),
		GoalMl:    goal.GoalMl,
		Now:       at,
		LastDrink: lastDrink(today),
	}, today)
	if velocity.Alert {
		s.obs.VelocityAlert()
	}
	return Evaluation{
		Score:          r,
		Hydration:      advice,
		Velocity:       velocity,
		Goal:           goal,
		SkippedIntakes: skippedIntakes,
		SkippedWater:   skippedWater,
	}, nil
}

func (s *BioService) observe(r bioscore.Result) {
	s.obs.ScoreComputed(r.Score)
	for _, w := range r.Warnings {
		s.obs.DDIWarning(w.Type)
	}
}
