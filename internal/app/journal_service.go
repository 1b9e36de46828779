package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"biodash/internal/domain"
)

// Reminder schedule tuning.
const (
	// ReminderTolerance is how far a log may sit from a target and still
	// count for it.
	ReminderTolerance = 30 * time.Minute
	// TargetLogsPerDay is the number of check-ins asked for each day.
	TargetLogsPerDay = 5
)

// ReminderStatus is the state of one scheduled check-in.
type ReminderStatus string

const (
	ReminderDone     ReminderStatus = "done"
	ReminderDue      ReminderStatus = "due"
	ReminderUpcoming ReminderStatus = "upcoming"
)

// ReminderSlot is one check-in target of the day.
type ReminderSlot struct {
	Label  string         `json:"label"`
	Time   time.Time      `json:"time"`
	Status ReminderStatus `json:"status"`
}

// ReminderSchedule lists today's check-in targets. Anchor is the first
// elvanse intake of the day when the schedule follows it.
type ReminderSchedule struct {
	Anchor     *time.Time     `json:"anchor,omitempty"`
	Schedule   []ReminderSlot `json:"schedule"`
	NextDue    *ReminderSlot  `json:"next_due"`
	LogsToday  int            `json:"logs_today"`
	TargetLogs int            `json:"target_logs"`
}

// JournalService encapsulates subjective check-ins and meal logging.
type JournalService struct {
	logs    domain.SubjectiveLogRepository
	meals   domain.MealRepository
	intakes domain.IntakeRepository
	loc     *time.Location
	log     *zap.Logger
}

// NewJournalService creates a JournalService.
func NewJournalService(logs domain.SubjectiveLogRepository, meals domain.MealRepository,
	intakes domain.IntakeRepository, loc *time.Location, log *zap.Logger,
) *JournalService {
	return &JournalService{logs: logs, meals: meals, intakes: intakes, loc: loc, log: log}
}

func scale(name string, v *int, lo, hi int) error {
	if v != nil && (*v < lo || *v > hi) {
		return invalid("%s must be within [%d, %d]", name, lo, hi)
	}
	return nil
}

// RecordLog validates and stores a subjective log. A zero timestamp means
// now.
func (s *JournalService) RecordLog(ctx context.Context, l domain.SubjectiveLog) (domain.SubjectiveLog, error) {
	checks := []struct {
		name   string
		v      *int
		lo, hi int
	}{
		{"focus", &l.Focus, 1, 10},
		{"mood", &l.Mood, 1, 10},
		{"energy", &l.Energy, 1, 10},
		{"appetite", l.Appetite, 1, 10},
		{"inner_unrest", l.InnerUnrest, 1, 10},
		{"pain_severity", l.PainSeverity, 0, 10},
	}
	for _, c := range checks {
		if err := scale(c.name, c.v, c.lo, c.hi); err != nil {
			return l, err
		}
	}
	if l.AuraDurationMin != nil && *l.AuraDurationMin < 0 {
		return l, invalid("aura_duration_min must be >= 0")
	}
	if !l.AuraType.Valid() {
		return l, invalid("unknown aura_type %q", l.AuraType)
	}
	tags := make([]string, 0, len(l.Tags))
	for _, t := range l.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	l.Tags = tags
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	id, err := s.logs.AddSubjectiveLog(ctx, l)
	if err != nil {
		return l, fmt.Errorf("add subjective log: %w", err)
	}
	l.ID = id
	s.log.Info("subjective log recorded",
		zap.Int64("id", id),
		zap.Int("focus", l.Focus),
		zap.Bool("migraine", l.PainSeverity != nil && *l.PainSeverity > 0))
	return l, nil
}

// DeleteLog removes a subjective log by id.
func (s *JournalService) DeleteLog(ctx context.Context, id int64) error {
	ok, err := s.logs.DeleteSubjectiveLog(ctx, id)
	if err != nil {
		return fmt.Errorf("delete subjective log: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListLogs returns subjective logs in [from, to], oldest first.
func (s *JournalService) ListLogs(ctx context.Context, from, to time.Time) ([]domain.SubjectiveLog, error) {
	if to.Before(from) {
		return nil, invalid("end before start")
	}
	return s.logs.ListSubjectiveLogs(ctx, from, to)
}

// RecordMeal validates and stores a meal. A zero timestamp means now.
func (s *JournalService) RecordMeal(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	if !m.Type.Valid() {
		return m, invalid("meal_type must be breakfast, lunch, dinner or snack")
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	id, err := s.meals.AddMeal(ctx, m)
	if err != nil {
		return m, fmt.Errorf("add meal: %w", err)
	}
	m.ID = id
	return m, nil
}

// DeleteMeal removes a meal by id.
func (s *JournalService) DeleteMeal(ctx context.Context, id int64) error {
	ok, err := s.meals.DeleteMeal(ctx, id)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListMeals returns meals in [from, to], oldest first.
func (s *JournalService) ListMeals(ctx context.Context, from, to time.Time) ([]domain.Meal, error) {
	if to.Before(from) {
		return nil, invalid("end before start")
	}
	return s.meals.ListMeals(ctx, from, to)
}

// Reminders builds today's check-in schedule. With an elvanse intake today
// the targets follow its curve: a baseline before the dose, then onset, peak
// and decline, and one before sleep. Otherwise they are spread over the day.
func (s *JournalService) Reminders(ctx context.Context, now time.Time) (ReminderSchedule, error) {
	now = now.In(s.loc)
	from, _ := domain.DayBounds(now, s.loc)
	intakes, err := s.intakes.ListIntakes(ctx, from, now)
	if err != nil {
		return ReminderSchedule{}, fmt.Errorf("list intakes: %w", err)
	}
	logs, err := s.logs.ListSubjectiveLogs(ctx, from, now)
	if err != nil {
		return ReminderSchedule{}, fmt.Errorf("list subjective logs: %w", err)
	}

	y, mo, d := now.Date()
	clock := func(h, m int) time.Time { return time.Date(y, mo, d, h, m, 0, 0, s.loc) }

	out := ReminderSchedule{LogsToday: len(logs), TargetLogs: TargetLogsPerDay}
	var slots []ReminderSlot
	for _, e := range intakes {
		if e.Substance != domain.Elvanse {
			continue
		}
		dose := e.Timestamp.In(s.loc)
		out.Anchor = &dose
		slots = []ReminderSlot{
			{Label: "baseline", Time: dose.Add(-15 * time.Minute)},
			{Label: "onset", Time: dose.Add(90 * time.Minute)},
			{Label: "peak", Time: dose.Add(4 * time.Hour)},
			{Label: "decline", Time: dose.Add(8 * time.Hour)},
			{Label: "before_sleep", Time: clock(22, 0)},
		}
		break
	}
	if slots == nil {
		slots = []ReminderSlot{
			{Label: "morning", Time: clock(9, 0)},
			{Label: "midday", Time: clock(12, 0)},
			{Label: "afternoon", Time: clock(15, 0)},
			{Label: "evening", Time: clock(18, 0)},
			{Label: "night", Time: clock(21, 0)},
		}
	}

	for i := range slots {
		sl := &slots[i]
		switch {
		case loggedNear(logs, sl.Time):
			sl.Status = ReminderDone
		case !sl.Time.After(now.Add(ReminderTolerance)):
			sl.Status = ReminderDue
		default:
			sl.Status = ReminderUpcoming
		}
		if out.NextDue == nil && sl.Status != ReminderDone && !sl.Time.Before(now.Add(-ReminderTolerance)) {
			next := *sl
			out.NextDue = &next
		}
	}
	out.Schedule = slots
	return out, nil
}

func loggedNear(logs []domain.SubjectiveLog, target time.Time) bool {
	for _, l := range logs {
		d := l.Timestamp.Sub(target)
		if d >= -ReminderTolerance && d <= ReminderTolerance {
			return true
		}
	}
	return false
}
