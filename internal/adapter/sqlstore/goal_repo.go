package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"biodash/internal/domain"
)

var _ domain.GoalRepository = (*DB)(nil)

const goalColumns = "day, goal_ml, base_ml, drug_modifier_ml, fasting_modifier_ml, activity_modifier_ml, weight_kg, is_fasting, elvanse_active, steps"

// UpsertGoal stores the goal of a local day, replacing an earlier one.
func (d *DB) UpsertGoal(ctx context.Context, g domain.WaterGoal) error {
	_, err := d.sql.ExecContext(ctx,
		d.q(`INSERT INTO water_goals(`+goalColumns+`, computed_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(day) DO UPDATE SET goal_ml=excluded.goal_ml, base_ml=excluded.base_ml,
			drug_modifier_ml=excluded.drug_modifier_ml, fasting_modifier_ml=excluded.fasting_modifier_ml,
			activity_modifier_ml=excluded.activity_modifier_ml, weight_kg=excluded.weight_kg,
			is_fasting=excluded.is_fasting, elvanse_active=excluded.elvanse_active, steps=excluded.steps,
			computed_at=excluded.computed_at;`),
		g.Date, g.GoalMl, g.BaseMl, g.DrugModifierMl, g.FastingModifierMl, g.ActivityModifierMl,
		g.WeightKg, g.IsFasting, g.ElvanseActive, g.Steps, d.ts(time.Now()),
	)
	return err
}

// GoalForDay returns the stored goal of a local day, or nil.
func (d *DB) GoalForDay(ctx context.Context, localDay string) (*domain.WaterGoal, error) {
	row := d.sql.QueryRowContext(ctx, d.q("SELECT "+goalColumns+" FROM water_goals WHERE day=?;"), localDay)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GoalsInRange returns the stored goals between two local days inclusive,
// oldest first.
func (d *DB) GoalsInRange(ctx context.Context, fromDay, toDay string) ([]domain.WaterGoal, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.q("SELECT "+goalColumns+" FROM water_goals WHERE day >= ? AND day <= ? ORDER BY day;"), fromDay, toDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.WaterGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGoal(s scanner) (domain.WaterGoal, error) {
	var g domain.WaterGoal
	err := s.Scan(&g.Date, &g.GoalMl, &g.BaseMl, &g.DrugModifierMl, &g.FastingModifierMl, &g.ActivityModifierMl,
		&g.WeightKg, &g.IsFasting, &g.ElvanseActive, &g.Steps)
	return g, err
}
