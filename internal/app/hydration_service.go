package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"biodash/internal/domain"
	"biodash/internal/hydration"
)

// ProfileSource resolves the user profile in effect right now.
type ProfileSource interface {
	EffectiveProfile(ctx context.Context) (domain.UserProfile, error)
}

// HydrationService computes goals, statuses and watch instructions from
// stored water, intake and vitals data.
type HydrationService struct {
	water    domain.WaterRepository
	intakes  domain.IntakeRepository
	health   domain.HealthRepository
	goals    domain.GoalRepository
	profiles ProfileSource
	params   hydration.Params
	loc      *time.Location
	obs      Observer
	log      *zap.Logger
}

// HydrationDeps groups the ports a HydrationService reads from.
type HydrationDeps struct {
	Water    domain.WaterRepository
	Intakes  domain.IntakeRepository
	Health   domain.HealthRepository
	Goals    domain.GoalRepository
	Profiles ProfileSource
}

// NewHydrationService creates a HydrationService.
func NewHydrationService(d HydrationDeps, params hydration.Params, loc *time.Location, obs Observer, log *zap.Logger) *HydrationService {
	return &HydrationService{
		water:    d.Water,
		intakes:  d.Intakes,
		health:   d.Health,
		goals:    d.Goals,
		profiles: d.Profiles,
		params:   params,
		loc:      loc,
		obs:      obs,
		log:      log,
	}
}

// TodayGoal recomputes the goal of the local day containing now from the
// effective weight, today's intakes and the latest step count, and stores
// it.
func (s *HydrationService) TodayGoal(ctx context.Context, now time.Time) (domain.WaterGoal, error) {
	profile, err := s.profiles.EffectiveProfile(ctx)
	if err != nil {
		return domain.WaterGoal{}, err
	}
	from, _ := domain.DayBounds(now, s.loc)
	intakes, err := s.intakes.ListIntakes(ctx, from, now)
	if err != nil {
		return domain.WaterGoal{}, fmt.Errorf("list intakes: %w", err)
	}
	in := hydration.GoalInput{WeightKg: profile.WeightKg, IsFasting: profile.IsFasting}
	for _, e := range intakes {
		switch e.Substance {
		case domain.Elvanse:
			in.ElvanseActive = true
		case domain.Mate:
			in.CaffeineDoses++
		}
	}
	snap, err := s.health.LatestSnapshot(ctx, now)
	if err != nil {
		return domain.WaterGoal{}, fmt.Errorf("latest snapshot: %w", err)
	}
	if snap != nil && snap.Steps != nil {
		in.Steps = *snap.Steps
	}

	g := s.params.Goal(in)
	g.Date = domain.LocalDay(now, s.loc)
	if err := s.goals.UpsertGoal(ctx, g); err != nil {
		return g, fmt.Errorf("upsert goal: %w", err)
	}
	s.obs.GoalComputed(g.GoalMl)
	s.log.Debug("water goal computed",
		zap.String("date", g.Date),
		zap.Int("goal_ml", g.GoalMl),
		zap.Bool("elvanse_active", g.ElvanseActive),
		zap.Int("steps", g.Steps))
	return g, nil
}

// Status is the dashboard view of today's hydration.
type Status struct {
	Date          string                     `json:"date"`
	Goal          domain.WaterGoal           `json:"goal"`
	IntakeMl      int                        `json:"intake_ml"`
	ExpectedMl    int                        `json:"expected_ml"`
	ScoreModifier float64                    `json:"score_modifier"`
	Assessment    hydration.Assessment       `json:"assessment"`
	Velocity      hydration.VelocityCheck    `json:"velocity"`
	Dehydration   hydration.DehydrationCheck `json:"dehydration"`
	Curve         hydration.Curve            `json:"curve"`
	Adaptive      hydration.AdaptiveCurve    `json:"adaptive_curve"`
	EventsToday   int                        `json:"events_today"`
}

// Status evaluates today's hydration at now.
func (s *HydrationService) Status(ctx context.Context, now time.Time) (Status, error) {
	now = now.In(s.loc)
	g, err := s.TodayGoal(ctx, now)
	if err != nil {
		return Status{}, err
	}
	events, err := s.todayEvents(ctx, now)
	if err != nil {
		return Status{}, err
	}
	intake := sumMl(events)

	a, v := s.params.Coach(hydration.AssessInput{
		IntakeMl:  intake,
		GoalMl:    g.GoalMl,
		Now:       now,
		LastDrink: lastDrink(events),
	}, events)
	dehyd, err := s.dehydration(ctx, now)
	if err != nil {
		return Status{}, err
	}
	hour := domain.HourOfDay(now)
	return Status{
		Date:          g.Date,
		Goal:          g,
		IntakeMl:      intake,
		ExpectedMl:    int(s.params.ExpectedAt(hour, g.GoalMl)),
		ScoreModifier: s.params.ScoreModifier(intake, g.GoalMl, hour),
		Assessment:    a,
		Velocity:      v,
		Dehydration:   dehyd,
		Curve:         s.params.Curve(intake, g.GoalMl, now),
		Adaptive:      s.params.Adaptive(intake, g.GoalMl, now),
		EventsToday:   len(events),
	}, nil
}

func (s *HydrationService) dehydration(ctx context.Context, now time.Time) (hydration.DehydrationCheck, error) {
	from, _ := domain.DayBounds(now, s.loc)
	snaps, err := s.health.ListSnapshots(ctx, from, now)
	if err != nil {
		return hydration.DehydrationCheck{}, fmt.Errorf("list snapshots: %w", err)
	}
	for i := range snaps {
		snaps[i].Timestamp = snaps[i].Timestamp.In(s.loc)
	}
	base := s.params.Baseline(snaps)
	if base == nil {
		return hydration.DehydrationCheck{}, nil
	}
	// Latest snapshot that carries resting HR; step-only pushes are common.
	for i := len(snaps) - 1; i >= 0; i-- {
		if cur := snaps[i]; cur.RestingHR != nil {
			return s.params.Dehydration(cur.RestingHR, base.RestingHR, cur.HRV, base.HRV), nil
		}
	}
	return hydration.DehydrationCheck{}, nil
}

// WatchQuery is what the watch sends when polling for an instruction.
type WatchQuery struct {
	Now         time.Time
	IntakeMl    int
	DailyGoalMl int
	LastDrink   *time.Time
}

// WatchReport is the periodic status push from the watch.
type WatchReport struct {
	DeviceID    string
	IntakeMl    int
	DailyGoalMl int
	EntryCount  int
	LastDrink   *time.Time
	Now         time.Time
}

// Instruction answers a watch poll. The watch's counter is authoritative;
// when it reports nothing the stored total is used.
func (s *HydrationService) Instruction(ctx context.Context, q WatchQuery) (hydration.Instruction, error) {
	q.Now = q.Now.In(s.loc)
	g, err := s.TodayGoal(ctx, q.Now)
	if err != nil {
		return hydration.Instruction{}, err
	}
	events, err := s.todayEvents(ctx, q.Now)
	if err != nil {
		return hydration.Instruction{}, err
	}
	intake := q.IntakeMl
	if intake <= 0 {
		intake = sumMl(events)
	}
	ins := s.params.Instruct(hydration.InstructionInput{
		Now:         q.Now,
		IntakeMl:    intake,
		GoalMl:      g.GoalMl,
		WatchGoalMl: q.DailyGoalMl,
		LastDrink:   q.LastDrink,
		EventsToday: events,
	})
	if ins.VelocityWarning.Alert {
		s.obs.VelocityAlert()
	}
	return ins, nil
}

// Report stores the positive difference between the watch's counter and
// the stored total for today, then answers like Instruction.
func (s *HydrationService) Report(ctx context.Context, r WatchReport) (hydration.Instruction, error) {
	if r.IntakeMl < 0 {
		return hydration.Instruction{}, invalid("current_intake must be >= 0")
	}
	device := r.DeviceID
	if device == "" {
		device = "watch"
	}
	s.log.Info("watch report",
		zap.String("device_id", device),
		zap.Int("current_intake", r.IntakeMl),
		zap.Int("daily_goal", r.DailyGoalMl),
		zap.Int("entry_count", r.EntryCount))

	if r.IntakeMl > 0 {
		from, to := domain.DayBounds(r.Now, s.loc)
		stored, err := s.water.WaterTotal(ctx, from, to.Add(-time.Nanosecond))
		if err != nil {
			return hydration.Instruction{}, fmt.Errorf("water total: %w", err)
		}
		if delta := r.IntakeMl - stored; delta > 0 {
			_, err := s.water.AddWaterEvent(ctx, domain.WaterEvent{
				Timestamp: r.Now,
				AmountMl:  delta,
				Source:    domain.SourceWatch,
				Notes:     "auto-sync from " + device,
			})
			if err != nil {
				return hydration.Instruction{}, fmt.Errorf("add water event: %w", err)
			}
			s.log.Info("watch delta persisted",
				zap.Int("delta_ml", delta),
				zap.Int("stored_ml", stored),
				zap.Int("watch_ml", r.IntakeMl))
		}
	}
	return s.Instruction(ctx, WatchQuery{
		Now:         r.Now,
		IntakeMl:    r.IntakeMl,
		DailyGoalMl: r.DailyGoalMl,
		LastDrink:   r.LastDrink,
	})
}

// GoalHistory returns the stored goals between two local days inclusive.
func (s *HydrationService) GoalHistory(ctx context.Context, fromDay, toDay string) ([]domain.WaterGoal, error) {
	if toDay < fromDay {
		return nil, invalid("end before start")
	}
	return s.goals.GoalsInRange(ctx, fromDay, toDay)
}

func (s *HydrationService) todayEvents(ctx context.Context, now time.Time) ([]domain.WaterEvent, error) {
	from, _ := domain.DayBounds(now, s.loc)
	events, err := s.water.ListWaterEvents(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("list water events: %w", err)
	}
	return events, nil
}

func sumMl(events []domain.WaterEvent) int {
	total := 0
	for _, e := range events {
		total += e.AmountMl
	}
	return total
}

func lastDrink(events []domain.WaterEvent) *time.Time {
	var last *time.Time
	for i := range events {
		if last == nil || events[i].Timestamp.After(*last) {
			last = &events[i].Timestamp
		}
	}
	return last
}
