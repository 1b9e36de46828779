package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biodash/internal/domain"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "data", "bio.db"), time.UTC)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x", time.UTC)
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: DriverPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a=$1 AND b=$2", pg.q("SELECT * FROM t WHERE a=? AND b=?"))
	lite := &DB{driver: DriverSQLite}
	assert.Equal(t, "a=? AND b=?", lite.q("a=? AND b=?"))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.migrate(context.Background()))
}

func TestWaterEvents(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	for i, ml := range []int{250, 300, 500} {
		_, err := db.AddWaterEvent(ctx, domain.WaterEvent{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			AmountMl:  ml,
			Source:    domain.SourceManual,
		})
		require.NoError(t, err)
	}
	_, err := db.AddWaterEvent(ctx, domain.WaterEvent{Timestamp: base.AddDate(0, 0, 1), AmountMl: 100, Source: "watch", Notes: "auto-sync from gt4"})
	require.NoError(t, err)

	dayStart, dayEnd := domain.DayBounds(base, time.UTC)
	total, err := db.WaterTotal(ctx, dayStart, dayEnd.Add(-time.Nanosecond))
	require.NoError(t, err)
	assert.Equal(t, 1050, total)

	events, err := db.ListWaterEvents(ctx, dayStart, base.Add(90*time.Minute))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 250, events[0].AmountMl)
	assert.True(t, events[0].Timestamp.Equal(base))

	recent, err := db.ListRecentWaterEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "auto-sync from gt4", recent[0].Notes)

	ok, err := db.DeleteWaterEvent(ctx, recent[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = db.DeleteWaterEvent(ctx, recent[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWaterTimestampsOrderAcrossFractions(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	_, err := db.AddWaterEvent(ctx, domain.WaterEvent{Timestamp: at.Add(500 * time.Millisecond), AmountMl: 1, Source: "manual"})
	require.NoError(t, err)
	_, err = db.AddWaterEvent(ctx, domain.WaterEvent{Timestamp: at.Add(time.Second), AmountMl: 2, Source: "manual"})
	require.NoError(t, err)

	events, err := db.ListWaterEvents(ctx, at, at.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].AmountMl)
}

func TestWeightEvents(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	latest, err := db.LatestWeight(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	day := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	_, err = db.AddWeightEvent(ctx, 96.2, "kg", day)
	require.NoError(t, err)
	_, err = db.AddWeightEvent(ctx, 211.0, "lb", day.Add(time.Hour))
	require.NoError(t, err)

	from, to := domain.DayBounds(day, time.UTC)
	e, err := db.LatestWeightBetween(ctx, from, to)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "lb", e.Unit)
	assert.Equal(t, "2026-03-02", e.Day)

	none, err := db.LatestWeightBetween(ctx, to, to.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, none)

	deleted, err := db.DeleteLatestWeightEvent(ctx)
	require.NoError(t, err)
	assert.True(t, deleted)

	list, err := db.ListRecentWeightEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 96.2, list[0].Value)
}

func TestIntakes(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	_, err := db.AddIntake(ctx, domain.IntakeEvent{Timestamp: at, Substance: domain.Elvanse})
	require.NoError(t, err)
	id, err := db.AddIntake(ctx, domain.IntakeEvent{Timestamp: at.Add(2 * time.Hour), Substance: domain.Medikinet, DoseMg: ptr(5.0), Notes: "half"})
	require.NoError(t, err)

	list, err := db.ListIntakes(ctx, at.Add(-time.Hour), at.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].DoseMg)
	require.NotNil(t, list[1].DoseMg)
	assert.Equal(t, 5.0, *list[1].DoseMg)
	assert.Equal(t, domain.Medikinet, list[1].Substance)

	latest, err := db.LatestIntake(ctx, domain.Medikinet)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, id, latest.ID)

	none, err := db.LatestIntake(ctx, domain.Mate)
	require.NoError(t, err)
	assert.Nil(t, none)

	ok, err := db.DeleteIntake(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubjectiveLogs(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	id, err := db.AddSubjectiveLog(ctx, domain.SubjectiveLog{
		Timestamp: at, Focus: 3, Mood: 4, Energy: 2,
		PainSeverity: ptr(7), AuraType: domain.AuraZigzag, Photophobia: ptr(true), Phonophobia: ptr(false),
		Tags: []string{"migraine", "dark room"},
	})
	require.NoError(t, err)
	_, err = db.AddSubjectiveLog(ctx, domain.SubjectiveLog{Timestamp: at.Add(4 * time.Hour), Focus: 8, Mood: 7, Energy: 7})
	require.NoError(t, err)

	list, err := db.ListSubjectiveLogs(ctx, at, at.Add(5*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 2)
	first := list[0]
	assert.Equal(t, id, first.ID)
	assert.Equal(t, domain.AuraZigzag, first.AuraType)
	assert.Equal(t, []string{"migraine", "dark room"}, first.Tags)
	require.NotNil(t, first.Photophobia)
	assert.True(t, *first.Photophobia)
	require.NotNil(t, first.Phonophobia)
	assert.False(t, *first.Phonophobia)
	assert.Nil(t, first.Appetite)
	assert.Equal(t, []string{}, list[1].Tags)
	assert.True(t, first.Timestamp.Equal(at))

	ok, err := db.DeleteSubjectiveLog(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = db.DeleteSubjectiveLog(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMeals(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	at := time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC)

	id, err := db.AddMeal(ctx, domain.Meal{Timestamp: at, Type: domain.Dinner, Notes: "iftar"})
	require.NoError(t, err)

	list, err := db.ListMeals(ctx, at.Add(-time.Hour), at)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.Dinner, list[0].Type)
	assert.Equal(t, "iftar", list[0].Notes)

	ok, err := db.DeleteMeal(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	at := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)

	_, err := db.AddSnapshot(ctx, domain.HealthSnapshot{Timestamp: at, RestingHR: ptr(55.0), HRV: ptr(62.0), SleepDurationMin: ptr(450.0), Source: "watch"})
	require.NoError(t, err)
	_, err = db.AddSnapshot(ctx, domain.HealthSnapshot{Timestamp: at.Add(6 * time.Hour), Steps: ptr(8200)})
	require.NoError(t, err)

	s, err := db.LatestSnapshot(ctx, at.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 55.0, *s.RestingHR)
	assert.Nil(t, s.Steps)
	assert.Equal(t, "watch", s.Source)

	s, err = db.LatestSnapshot(ctx, at.Add(24*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, s.Steps)
	assert.Equal(t, 8200, *s.Steps)

	none, err := db.LatestSnapshot(ctx, at.Add(-time.Minute))
	require.NoError(t, err)
	assert.Nil(t, none)

	from, to := domain.DayBounds(at, time.UTC)
	all, err := db.ListSnapshots(ctx, from, to)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGoals(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	g := domain.WaterGoal{Date: "2026-03-02", GoalMl: 3196, BaseMl: 3196, WeightKg: 96}
	require.NoError(t, db.UpsertGoal(ctx, g))
	g.GoalMl, g.ElvanseActive, g.DrugModifierMl = 3306, true, 110
	require.NoError(t, db.UpsertGoal(ctx, g))
	require.NoError(t, db.UpsertGoal(ctx, domain.WaterGoal{Date: "2026-03-03", GoalMl: 3000}))

	got, err := db.GoalForDay(ctx, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, g, *got)

	none, err := db.GoalForDay(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Nil(t, none)

	rng, err := db.GoalsInRange(ctx, "2026-03-01", "2026-03-03")
	require.NoError(t, err)
	require.Len(t, rng, 2)
	assert.Equal(t, "2026-03-03", rng[1].Date)
}

func TestUsersAndSessions(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	sessions := NewSessionRepo(db)

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	u, err := db.Create(ctx, "ada", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = db.Create(ctx, "ada", "other")
	assert.Error(t, err, "usernames are unique")

	byName, err := db.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	missing, err := db.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	now := time.Now()
	require.NoError(t, sessions.Create(ctx, domain.Session{Token: "live", UserID: u.ID, UserAgent: "firefox", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	require.NoError(t, sessions.Create(ctx, domain.Session{Token: "old", UserID: u.ID, ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour)}))

	s, err := sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "firefox", s.UserAgent)
	assert.WithinDuration(t, now.Add(time.Hour), s.ExpiresAt, time.Microsecond)

	require.NoError(t, sessions.DeleteExpired(ctx))
	old, err := sessions.GetByToken(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, old)

	require.NoError(t, sessions.Delete(ctx, "live"))
	gone, err := sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
