package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"biodash/internal/domain"
)

var (
	_ domain.SubjectiveLogRepository = (*DB)(nil)
	_ domain.MealRepository          = (*DB)(nil)
)

const logColumns = "id, logged_at, focus, mood, energy, appetite, inner_unrest, pain_severity, aura_duration_min, aura_type, photophobia, phonophobia, tags"

// AddSubjectiveLog inserts a subjective log. Tags are stored as a JSON array.
func (d *DB) AddSubjectiveLog(ctx context.Context, l domain.SubjectiveLog) (int64, error) {
	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return 0, fmt.Errorf("encode tags: %w", err)
	}
	var id int64
	err = d.sql.QueryRowContext(ctx,
		d.q(`INSERT INTO subjective_logs(logged_at, focus, mood, energy, appetite, inner_unrest, pain_severity, aura_duration_min, aura_type, photophobia, phonophobia, tags)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id;`),
		d.ts(l.Timestamp), l.Focus, l.Mood, l.Energy, l.Appetite, l.InnerUnrest, l.PainSeverity,
		l.AuraDurationMin, string(l.AuraType), l.Photophobia, l.Phonophobia, string(raw),
	).Scan(&id)
	return id, err
}

// DeleteSubjectiveLog removes a log by ID and reports whether it existed.
func (d *DB) DeleteSubjectiveLog(ctx context.Context, id int64) (bool, error) {
	return d.deleteByID(ctx, "subjective_logs", id)
}

// ListSubjectiveLogs returns the logs in [from, to], oldest first.
func (d *DB) ListSubjectiveLogs(ctx context.Context, from, to time.Time) ([]domain.SubjectiveLog, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.q("SELECT "+logColumns+" FROM subjective_logs WHERE logged_at >= ? AND logged_at <= ? ORDER BY logged_at, id;"),
		d.ts(from), d.ts(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.SubjectiveLog
	for rows.Next() {
		var (
			l        domain.SubjectiveLog
			aura, tg string
		)
		if err := rows.Scan(&l.ID, timeCol{&l.Timestamp}, &l.Focus, &l.Mood, &l.Energy, &l.Appetite,
			&l.InnerUnrest, &l.PainSeverity, &l.AuraDurationMin, &aura, &l.Photophobia, &l.Phonophobia, &tg); err != nil {
			return nil, err
		}
		l.AuraType = domain.AuraType(aura)
		if err := json.Unmarshal([]byte(tg), &l.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of log %d: %w", l.ID, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AddMeal inserts a meal.
func (d *DB) AddMeal(ctx context.Context, m domain.Meal) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		d.q("INSERT INTO meals(meal_type, notes, eaten_at) VALUES(?, ?, ?) RETURNING id;"),
		string(m.Type), m.Notes, d.ts(m.Timestamp),
	).Scan(&id)
	return id, err
}

// DeleteMeal removes a meal by ID and reports whether it existed.
func (d *DB) DeleteMeal(ctx context.Context, id int64) (bool, error) {
	return d.deleteByID(ctx, "meals", id)
}

// ListMeals returns the meals in [from, to], oldest first.
func (d *DB) ListMeals(ctx context.Context, from, to time.Time) ([]domain.Meal, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.q("SELECT id, meal_type, notes, eaten_at FROM meals WHERE eaten_at >= ? AND eaten_at <= ? ORDER BY eaten_at, id;"),
		d.ts(from), d.ts(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Meal
	for rows.Next() {
		var (
			m  domain.Meal
			mt string
		)
		if err := rows.Scan(&m.ID, &mt, &m.Notes, timeCol{&m.Timestamp}); err != nil {
			return nil, err
		}
		m.Type = domain.MealType(mt)
		out = append(out, m)
	}
	return out, rows.Err()
}

// deleteByID removes one row of table. table is always a constant.
func (d *DB) deleteByID(ctx context.Context, table string, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, d.q("DELETE FROM "+table+" WHERE id=?;"), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
