package memory

import (
	"context"
	"testing"
	"time"

	"biodash/internal/domain"
)

func TestWeightRepository(t *testing.T) {
	db := New(time.UTC)
	ctx := context.Background()

	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	id, err := db.AddWeightEvent(ctx, 70.0, "kg", now)
	if err != nil {
		t.Fatalf("AddWeightEvent: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero ID")
	}

	events, err := db.ListRecentWeightEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentWeightEvents: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
	if events[0].Value != 70.0 {
		t.Errorf("expected 70.0, got %f", events[0].Value)
	}
	if events[0].Day != "2026-03-02" {
		t.Errorf("expected Day 2026-03-02, got %q", events[0].Day)
	}

	from, to := domain.DayBounds(now, time.UTC)
	latest, err := db.LatestWeightBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("LatestWeightBetween: %v", err)
	}
	if latest == nil {
		t.Error("expected latest weight, got nil")
	} else if latest.Value != 70.0 {
		t.Errorf("expected 70.0, got %f", latest.Value)
	}
	if other, _ := db.LatestWeightBetween(ctx, to, to.AddDate(0, 0, 1)); other != nil {
		t.Errorf("expected nothing on the next day, got %+v", other)
	}

	ok, err := db.DeleteLatestWeightEvent(ctx)
	if err != nil {
		t.Fatalf("DeleteLatestWeightEvent: %v", err)
	}
	if !ok {
		t.Error("expected true")
	}

	events, _ = db.ListRecentWeightEvents(ctx, 10)
	if len(events) != 0 {
		t.Error("expected 0 events")
	}
	if w, _ := db.LatestWeight(ctx); w != nil {
		t.Errorf("expected no latest weight, got %+v", w)
	}
}

func TestWaterRepository(t *testing.T) {
	db := New(time.UTC)
	ctx := context.Background()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	_, err := db.AddWaterEvent(ctx, domain.WaterEvent{Timestamp: now, AmountMl: 250, Source: domain.SourceManual})
	if err != nil {
		t.Fatalf("AddWaterEvent: %v", err)
	}
	id, _ := db.AddWaterEvent(ctx, domain.WaterEvent{Timestamp: now.Add(time.Minute), AmountMl: 500, Source: domain.SourceWatch})
	_, _ = db.AddWaterEvent(ctx, domain.WaterEvent{Timestamp: now.AddDate(0, 0, 1), AmountMl: 300, Source: domain.SourceHA})

	events, err := db.ListRecentWaterEvents(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecentWaterEvents: %v", err)
	}
	if len(events) != 2 || events[0].AmountMl != 300 {
		t.Errorf("expected newest first, got %+v", events)
	}

	from, to := domain.DayBounds(now, time.UTC)
	total, err := db.WaterTotal(ctx, from, to.Add(-time.Nanosecond))
	if err != nil {
		t.Fatalf("WaterTotal: %v", err)
	}
	if total != 750 {
		t.Errorf("expected 750, got %d", total)
	}

	day, _ := db.ListWaterEvents(ctx, from, to.Add(-time.Nanosecond))
	if len(day) != 2 || day[0].AmountMl != 250 {
		t.Errorf("expected oldest first, got %+v", day)
	}

	if ok, _ := db.DeleteWaterEvent(ctx, id); !ok {
		t.Error("expected delete to succeed")
	}
	if ok, _ := db.DeleteWaterEvent(ctx, id); ok {
		t.Error("expected second delete to miss")
	}
}

func TestIntakeRepository(t *testing.T) {
	db := New(time.UTC)
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	_, _ = db.AddIntake(ctx, domain.IntakeEvent{Timestamp: at.Add(time.Hour), Substance: domain.Mate})
	_, _ = db.AddIntake(ctx, domain.IntakeEvent{Timestamp: at, Substance: domain.Elvanse})
	id, _ := db.AddIntake(ctx, domain.IntakeEvent{Timestamp: at.Add(3 * time.Hour), Substance: domain.Mate})

	list, err := db.ListIntakes(ctx, at, at.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("ListIntakes: %v", err)
	}
	if len(list) != 2 || list[0].Substance != domain.Elvanse {
		t.Errorf("expected two intakes oldest first, got %+v", list)
	}

	latest, _ := db.LatestIntake(ctx, domain.Mate)
	if latest == nil || latest.ID != id {
		t.Errorf("expected latest mate %d, got %+v", id, latest)
	}
	if none, _ := db.LatestIntake(ctx, domain.CoDafalgan); none != nil {
		t.Errorf("expected nil, got %+v", none)
	}
	if ok, _ := db.DeleteIntake(ctx, id); !ok {
		t.Error("expected delete to succeed")
	}
}

func TestSubjectiveLogRepository(t *testing.T) {
	db := New(time.UTC)
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tags := []string{"tired"}
	_, _ = db.AddSubjectiveLog(ctx, domain.SubjectiveLog{Timestamp: at.Add(2 * time.Hour), Focus: 8, Mood: 7, Energy: 6})
	id, _ := db.AddSubjectiveLog(ctx, domain.SubjectiveLog{Timestamp: at, Focus: 4, Mood: 5, Energy: 3, Tags: tags})
	tags[0] = "changed"

	list, err := db.ListSubjectiveLogs(ctx, at, at.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("ListSubjectiveLogs: %v", err)
	}
	if len(list) != 2 || list[0].ID != id || list[0].Tags[0] != "tired" {
		t.Errorf("expected two logs oldest first with copied tags, got %+v", list)
	}
	if ok, _ := db.DeleteSubjectiveLog(ctx, id); !ok {
		t.Error("expected delete to succeed")
	}
	if ok, _ := db.DeleteSubjectiveLog(ctx, id); ok {
		t.Error("expected second delete to report false")
	}
}

func TestMealRepository(t *testing.T) {
	db := New(time.UTC)
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)

	id, _ := db.AddMeal(ctx, domain.Meal{Timestamp: at, Type: domain.Lunch})
	_, _ = db.AddMeal(ctx, domain.Meal{Timestamp: at.Add(-24 * time.Hour), Type: domain.Dinner})

	list, _ := db.ListMeals(ctx, at.Add(-time.Hour), at)
	if len(list) != 1 || list[0].ID != id || list[0].Type != domain.Lunch {
		t.Errorf("expected today's lunch, got %+v", list)
	}
	if ok, _ := db.DeleteMeal(ctx, id); !ok {
		t.Error("expected delete to succeed")
	}
}

func TestHealthRepository(t *testing.T) {
	db := New(time.UTC)
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	rhr := 55.0

	_, _ = db.AddSnapshot(ctx, domain.HealthSnapshot{Timestamp: at, RestingHR: &rhr})
	_, _ = db.AddSnapshot(ctx, domain.HealthSnapshot{Timestamp: at.Add(4 * time.Hour)})

	s, _ := db.LatestSnapshot(ctx, at.Add(time.Hour))
	if s == nil || s.RestingHR == nil {
		t.Fatalf("expected morning snapshot, got %+v", s)
	}
	if none, _ := db.LatestSnapshot(ctx, at.Add(-time.Second)); none != nil {
		t.Errorf("expected nil, got %+v", none)
	}
	from, to := domain.DayBounds(at, time.UTC)
	all, _ := db.ListSnapshots(ctx, from, to)
	if len(all) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(all))
	}
}

func TestGoalRepository(t *testing.T) {
	db := New(time.UTC)
	ctx := context.Background()

	_ = db.UpsertGoal(ctx, domain.WaterGoal{Date: "2026-03-02", GoalMl: 3000})
	_ = db.UpsertGoal(ctx, domain.WaterGoal{Date: "2026-03-02", GoalMl: 3200})
	_ = db.UpsertGoal(ctx, domain.WaterGoal{Date: "2026-03-01", GoalMl: 2900})

	g, _ := db.GoalForDay(ctx, "2026-03-02")
	if g == nil || g.GoalMl != 3200 {
		t.Errorf("expected replaced goal 3200, got %+v", g)
	}
	rng, _ := db.GoalsInRange(ctx, "2026-03-01", "2026-03-02")
	if len(rng) != 2 || rng[0].Date != "2026-03-01" {
		t.Errorf("expected two goals oldest first, got %+v", rng)
	}
}

func TestUserRepository(t *testing.T) {
	db := New(time.UTC)
	ctx := context.Background()

	u, err := db.Create(ctx, "bob", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Username != "bob" {
		t.Errorf("expected bob, got %s", u.Username)
	}
	if _, err := db.Create(ctx, "bob", "again"); err == nil {
		t.Error("expected duplicate username to fail")
	}

	u2, err := db.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u2 == nil || u2.ID != u.ID {
		t.Error("failed to retrieve user")
	}

	count, _ := db.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestSessionRepository(t *testing.T) {
	db := New(time.UTC)
	repo := db.NewSessionRepo()
	ctx := context.Background()

	err := repo.Create(ctx, domain.Session{Token: "token123", UserID: 1, UserAgent: "firefox", ExpiresAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = repo.Create(ctx, domain.Session{Token: "stale", UserID: 1, ExpiresAt: time.Now().Add(-time.Hour)})

	sess, err := repo.GetByToken(ctx, "token123")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if sess == nil || sess.UserAgent != "firefox" {
		t.Errorf("expected session, got %+v", sess)
	}

	_ = repo.DeleteExpired(ctx)
	if stale, _ := repo.GetByToken(ctx, "stale"); stale != nil {
		t.Error("expected expired session purged")
	}

	_ = repo.Delete(ctx, "token123")
	sess, _ = repo.GetByToken(ctx, "token123")
	if sess != nil {
		t.Error("expected nil (deleted)")
	}
}
