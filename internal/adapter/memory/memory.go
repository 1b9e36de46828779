// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"biodash/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu          sync.Mutex
	loc         *time.Location
	weights     []domain.WeightEntry
	waterEvents []domain.WaterEvent
	intakes     []domain.IntakeEvent
	snapshots   []domain.HealthSnapshot
	logs        []domain.SubjectiveLog
	meals       []domain.Meal
	goals       map[string]domain.WaterGoal
	users       []*domain.User
	sessions    map[string]*domain.Session

	nextID int64
}

// New creates a new in-memory database. Local days are reported in loc.
func New(loc *time.Location) *DB {
	if loc == nil {
		loc = time.Local
	}
	return &DB{
		loc:      loc,
		goals:    make(map[string]domain.WaterGoal),
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var (
	_ domain.WeightRepository        = (*DB)(nil)
	_ domain.WaterRepository         = (*DB)(nil)
	_ domain.IntakeRepository        = (*DB)(nil)
	_ domain.HealthRepository        = (*DB)(nil)
	_ domain.SubjectiveLogRepository = (*DB)(nil)
	_ domain.MealRepository          = (*DB)(nil)
	_ domain.GoalRepository          = (*DB)(nil)
	_ domain.UserRepository          = (*DB)(nil)
	_ domain.SessionRepository       = (*SessionRepo)(nil)
)

func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// --- WeightRepository ---

// AddWeightEvent adds a weight event.
func (db *DB) AddWeightEvent(ctx context.Context, value float64, unit string, createdAt time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := db.id()
	db.weights = append(db.weights, domain.WeightEntry{
		ID:        id,
		Value:     value,
		Unit:      unit,
		CreatedAt: createdAt.UTC(),
	})
	return id, nil
}

// DeleteLatestWeightEvent deletes the most recent weight event.
func (db *DB) DeleteLatestWeightEvent(ctx context.Context) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	idx := db.latestWeight(func(domain.WeightEntry) bool { return true })
	if idx < 0 {
		return false, nil
	}
	db.weights = append(db.weights[:idx], db.weights[idx+1:]...)
	return true, nil
}

func (db *DB) latestWeight(keep func(domain.WeightEntry) bool) int {
	idx := -1
	for i, w := range db.weights {
		if !keep(w) {
			continue
		}
		if idx == -1 || !w.CreatedAt.Before(db.weights[idx].CreatedAt) {
			idx = i
		}
	}
	return idx
}

func (db *DB) weightAt(idx int) *domain.WeightEntry {
	if idx < 0 {
		return nil
	}
	ret := db.weights[idx]
	ret.Day = domain.LocalDay(ret.CreatedAt, db.loc)
	return &ret
}

// LatestWeight returns the most recent weight entry, or nil.
func (db *DB) LatestWeight(ctx context.Context) (*domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.weightAt(db.latestWeight(func(domain.WeightEntry) bool { return true })), nil
}

// LatestWeightBetween returns the most recent weight entry in [from, to).
func (db *DB) LatestWeightBetween(ctx context.Context, from, to time.Time) (*domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.weightAt(db.latestWeight(func(w domain.WeightEntry) bool {
		return !w.CreatedAt.Before(from) && w.CreatedAt.Before(to)
	})), nil
}

// ListRecentWeightEvents lists the most recent weight events.
func (db *DB) ListRecentWeightEvents(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WeightEntry, len(db.weights))
	copy(result, db.weights)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	for i := range result {
		result[i].Day = domain.LocalDay(result[i].CreatedAt, db.loc)
	}
	return result, nil
}

// --- WaterRepository ---

// AddWaterEvent adds a water event.
func (db *DB) AddWaterEvent(ctx context.Context, e domain.WaterEvent) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	e.ID = db.id()
	e.Timestamp = e.Timestamp.UTC()
	db.waterEvents = append(db.waterEvents, e)
	return e.ID, nil
}

// DeleteWaterEvent deletes a water event by ID.
func (db *DB) DeleteWaterEvent(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, w := range db.waterEvents {
		if w.ID == id {
			db.waterEvents = append(db.waterEvents[:i], db.waterEvents[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListRecentWaterEvents lists the most recent water events.
func (db *DB) ListRecentWaterEvents(ctx context.Context, limit int) ([]domain.WaterEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WaterEvent, len(db.waterEvents))
	copy(result, db.waterEvents)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListWaterEvents returns the events in [from, to], oldest first.
func (db *DB) ListWaterEvents(ctx context.Context, from, to time.Time) ([]domain.WaterEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.WaterEvent
	for _, w := range db.waterEvents {
		if within(w.Timestamp, from, to) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// WaterTotal returns the summed intake in ml over [from, to].
func (db *DB) WaterTotal(ctx context.Context, from, to time.Time) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	total := 0
	for _, w := range db.waterEvents {
		if within(w.Timestamp, from, to) {
			total += w.AmountMl
		}
	}
	return total, nil
}

// --- IntakeRepository ---

// AddIntake adds an intake event.
func (db *DB) AddIntake(ctx context.Context, e domain.IntakeEvent) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	e.ID = db.id()
	e.Timestamp = e.Timestamp.UTC()
	db.intakes = append(db.intakes, e)
	return e.ID, nil
}

// DeleteIntake deletes an intake by ID.
func (db *DB) DeleteIntake(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, e := range db.intakes {
		if e.ID == id {
			db.intakes = append(db.intakes[:i], db.intakes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListIntakes returns the intakes in [from, to], oldest first.
func (db *DB) ListIntakes(ctx context.Context, from, to time.Time) ([]domain.IntakeEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.IntakeEvent
	for _, e := range db.intakes {
		if within(e.Timestamp, from, to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// LatestIntake returns the most recent intake of a substance, or nil.
func (db *DB) LatestIntake(ctx context.Context, s domain.Substance) (*domain.IntakeEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.IntakeEvent
	for i := range db.intakes {
		e := &db.intakes[i]
		if e.Substance == s && (latest == nil || !e.Timestamp.Before(latest.Timestamp)) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	ret := *latest
	return &ret, nil
}

// --- SubjectiveLogRepository ---

// AddSubjectiveLog adds a subjective log.
func (db *DB) AddSubjectiveLog(ctx context.Context, l domain.SubjectiveLog) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	l.ID = db.id()
	l.Timestamp = l.Timestamp.UTC()
	l.Tags = append([]string(nil), l.Tags...)
	db.logs = append(db.logs, l)
	return l.ID, nil
}

// DeleteSubjectiveLog deletes a subjective log by ID.
func (db *DB) DeleteSubjectiveLog(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, l := range db.logs {
		if l.ID == id {
			db.logs = append(db.logs[:i], db.logs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListSubjectiveLogs returns the logs in [from, to], oldest first.
func (db *DB) ListSubjectiveLogs(ctx context.Context, from, to time.Time) ([]domain.SubjectiveLog, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.SubjectiveLog
	for _, l := range db.logs {
		if within(l.Timestamp, from, to) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// --- MealRepository ---

// AddMeal adds a meal.
func (db *DB) AddMeal(ctx context.Context, m domain.Meal) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	m.ID = db.id()
	m.Timestamp = m.Timestamp.UTC()
	db.meals = append(db.meals, m)
	return m.ID, nil
}

// DeleteMeal deletes a meal by ID.
func (db *DB) DeleteMeal(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, m := range db.meals {
		if m.ID == id {
			db.meals = append(db.meals[:i], db.meals[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListMeals returns the meals in [from, to], oldest first.
func (db *DB) ListMeals(ctx context.Context, from, to time.Time) ([]domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Meal
	for _, m := range db.meals {
		if within(m.Timestamp, from, to) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// --- HealthRepository ---

// AddSnapshot adds a vitals snapshot.
func (db *DB) AddSnapshot(ctx context.Context, s domain.HealthSnapshot) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	s.ID = db.id()
	s.Timestamp = s.Timestamp.UTC()
	db.snapshots = append(db.snapshots, s)
	return s.ID, nil
}

// LatestSnapshot returns the newest snapshot at or before the given
// instant, or nil.
func (db *DB) LatestSnapshot(ctx context.Context, before time.Time) (*domain.HealthSnapshot, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.HealthSnapshot
	for i := range db.snapshots {
		s := &db.snapshots[i]
		if s.Timestamp.After(before) {
			continue
		}
		if latest == nil || !s.Timestamp.Before(latest.Timestamp) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	ret := *latest
	return &ret, nil
}

// ListSnapshots returns the snapshots in [from, to], oldest first.
func (db *DB) ListSnapshots(ctx context.Context, from, to time.Time) ([]domain.HealthSnapshot, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.HealthSnapshot
	for _, s := range db.snapshots {
		if within(s.Timestamp, from, to) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// --- GoalRepository ---

// UpsertGoal stores the goal of a local day.
func (db *DB) UpsertGoal(ctx context.Context, g domain.WaterGoal) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.goals[g.Date] = g
	return nil
}

// GoalForDay returns the goal of a local day, or nil.
func (db *DB) GoalForDay(ctx context.Context, localDay string) (*domain.WaterGoal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	g, ok := db.goals[localDay]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

// GoalsInRange returns the goals between two local days inclusive, oldest first.
func (db *DB) GoalsInRange(ctx context.Context, fromDay, toDay string) ([]domain.WaterGoal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.WaterGoal
	for day, g := range db.goals {
		if day >= fromDay && day <= toDay {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	u := &domain.User{
		ID:           db.id(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	r.db.sessions[s.Token] = &s
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		ret := *s
		return &ret, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
