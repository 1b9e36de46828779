package app_test

import (
	"context"
	"errors"
	"time"

	"biodash/internal/domain"
)

type mockWaterRepo struct {
	addFn    func(ctx context.Context, e domain.WaterEvent) (int64, error)
	delFn    func(ctx context.Context, id int64) (bool, error)
	recentFn func(ctx context.Context, limit int) ([]domain.WaterEvent, error)
	listFn   func(ctx context.Context, from, to time.Time) ([]domain.WaterEvent, error)
	totalFn  func(ctx context.Context, from, to time.Time) (int, error)
}

func (m *mockWaterRepo) AddWaterEvent(ctx context.Context, e domain.WaterEvent) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, e)
	}
	return 0, nil
}

func (m *mockWaterRepo) DeleteWaterEvent(ctx context.Context, id int64) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx, id)
	}
	return true, nil
}

func (m *mockWaterRepo) ListRecentWaterEvents(ctx context.Context, limit int) ([]domain.WaterEvent, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockWaterRepo) ListWaterEvents(ctx context.Context, from, to time.Time) ([]domain.WaterEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockWaterRepo) WaterTotal(ctx context.Context, from, to time.Time) (int, error) {
	if m.totalFn != nil {
		return m.totalFn(ctx, from, to)
	}
	return 0, nil
}

type mockWeightRepo struct {
	addFn     func(ctx context.Context, v float64, u string, t time.Time) (int64, error)
	delFn     func(ctx context.Context) (bool, error)
	latestFn  func(ctx context.Context) (*domain.WeightEntry, error)
	betweenFn func(ctx context.Context, from, to time.Time) (*domain.WeightEntry, error)
	listFn    func(ctx context.Context, limit int) ([]domain.WeightEntry, error)
}

func (m *mockWeightRepo) AddWeightEvent(ctx context.Context, v float64, u string, t time.Time) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, v, u, t)
	}
	return 0, nil
}

func (m *mockWeightRepo) DeleteLatestWeightEvent(ctx context.Context) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx)
	}
	return false, nil
}

func (m *mockWeightRepo) LatestWeight(ctx context.Context) (*domain.WeightEntry, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return nil, nil
}

func (m *mockWeightRepo) LatestWeightBetween(ctx context.Context, from, to time.Time) (*domain.WeightEntry, error) {
	if m.betweenFn != nil {
		return m.betweenFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockWeightRepo) ListRecentWeightEvents(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

type mockIntakeRepo struct {
	addFn    func(ctx context.Context, e domain.IntakeEvent) (int64, error)
	delFn    func(ctx context.Context, id int64) (bool, error)
	listFn   func(ctx context.Context, from, to time.Time) ([]domain.IntakeEvent, error)
	latestFn func(ctx context.Context, s domain.Substance) (*domain.IntakeEvent, error)
}

func (m *mockIntakeRepo) AddIntake(ctx context.Context, e domain.IntakeEvent) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, e)
	}
	return 0, nil
}

func (m *mockIntakeRepo) DeleteIntake(ctx context.Context, id int64) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx, id)
	}
	return true, nil
}

func (m *mockIntakeRepo) ListIntakes(ctx context.Context, from, to time.Time) ([]domain.IntakeEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockIntakeRepo) LatestIntake(ctx context.Context, s domain.Substance) (*domain.IntakeEvent, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, s)
	}
	return nil, nil
}

type mockHealthRepo struct {
	addFn    func(ctx context.Context, s domain.HealthSnapshot) (int64, error)
	latestFn func(ctx context.Context, before time.Time) (*domain.HealthSnapshot, error)
	listFn   func(ctx context.Context, from, to time.Time) ([]domain.HealthSnapshot, error)
}

func (m *mockHealthRepo) AddSnapshot(ctx context.Context, s domain.HealthSnapshot) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, s)
	}
	return 0, nil
}

func (m *mockHealthRepo) LatestSnapshot(ctx context.Context, before time.Time) (*domain.HealthSnapshot, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, before)
	}
	return nil, nil
}

func (m *mockHealthRepo) ListSnapshots(ctx context.Context, from, to time.Time) ([]domain.HealthSnapshot, error) {
	if m.listFn != nil {
		return m.listFn(ctx, from, to)
	}
	return nil, nil
}

type mockGoalRepo struct {
	upsertFn func(ctx context.Context, g domain.WaterGoal) error
	dayFn    func(ctx context.Context, day string) (*domain.WaterGoal, error)
	rangeFn  func(ctx context.Context, from, to string) ([]domain.WaterGoal, error)
}

func (m *mockGoalRepo) UpsertGoal(ctx context.Context, g domain.WaterGoal) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, g)
	}
	return nil
}

func (m *mockGoalRepo) GoalForDay(ctx context.Context, day string) (*domain.WaterGoal, error) {
	if m.dayFn != nil {
		return m.dayFn(ctx, day)
	}
	return nil, nil
}

func (m *mockGoalRepo) GoalsInRange(ctx context.Context, from, to string) ([]domain.WaterGoal, error) {
	if m.rangeFn != nil {
		return m.rangeFn(ctx, from, to)
	}
	return nil, nil
}

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, username, passwordHash string) (*domain.User, error)
	countFn         func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, s domain.Session) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, s domain.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, errors.New("not found")
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

type fixedProfile domain.UserProfile

func (p fixedProfile) EffectiveProfile(context.Context) (domain.UserProfile, error) {
	return domain.UserProfile(p), nil
}

type countingObserver struct {
	scores   int
	ddi      []string
	velocity int
	skipped  map[string]int
	goals    []int
}

func (o *countingObserver) ScoreComputed(float64)   { o.scores++ }
func (o *countingObserver) DDIWarning(kind string)   { o.ddi = append(o.ddi, kind) }
func (o *countingObserver) VelocityAlert()           { o.velocity++ }
func (o *countingObserver) EventsSkipped(kind string, n int) {
	if o.skipped == nil {
		o.skipped = map[string]int{}
	}
	o.skipped[kind] += n
}
func (o *countingObserver) GoalComputed(ml int) { o.goals = append(o.goals, ml) }

func ptr[T any](v T) *T { return &v }

type mockLogRepo struct {
	addFn  func(ctx context.Context, l domain.SubjectiveLog) (int64, error)
	delFn  func(ctx context.Context, id int64) (bool, error)
	listFn func(ctx context.Context, from, to time.Time) ([]domain.SubjectiveLog, error)
}

func (m *mockLogRepo) AddSubjectiveLog(ctx context.Context, l domain.SubjectiveLog) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, l)
	}
	return 0, nil
}

func (m *mockLogRepo) DeleteSubjectiveLog(ctx context.Context, id int64) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx, id)
	}
	return true, nil
}

func (m *mockLogRepo) ListSubjectiveLogs(ctx context.Context, from, to time.Time) ([]domain.SubjectiveLog, error) {
	if m.listFn != nil {
		return m.listFn(ctx, from, to)
	}
	return nil, nil
}

type mockMealRepo struct {
	addFn  func(ctx context.Context, m domain.Meal) (int64, error)
	delFn  func(ctx context.Context, id int64) (bool, error)
	listFn func(ctx context.Context, from, to time.Time) ([]domain.Meal, error)
}

func (m *mockMealRepo) AddMeal(ctx context.Context, meal domain.Meal) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, meal)
	}
	return 0, nil
}

func (m *mockMealRepo) DeleteMeal(ctx context.Context, id int64) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx, id)
	}
	return true, nil
}

func (m *mockMealRepo) ListMeals(ctx context.Context, from, to time.Time) ([]domain.Meal, error) {
	if m.listFn != nil {
		return m.listFn(ctx, from, to)
	}
	return nil, nil
}
