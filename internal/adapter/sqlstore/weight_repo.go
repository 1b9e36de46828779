package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"biodash/internal/domain"
)

var _ domain.WeightRepository = (*DB)(nil)

// AddWeightEvent inserts a new weight event.
func (d *DB) AddWeightEvent(ctx context.Context, value float64, unit string, createdAt time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		d.q("INSERT INTO weight_events(value, unit, created_at) VALUES(?, ?, ?) RETURNING id;"),
		value, unit, d.ts(createdAt),
	).Scan(&id)
	return id, err
}

// DeleteLatestWeightEvent removes the most recent weight event.
func (d *DB) DeleteLatestWeightEvent(ctx context.Context) (bool, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx, "SELECT id FROM weight_events ORDER BY created_at DESC, id DESC LIMIT 1;").Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	_, err = d.sql.ExecContext(ctx, d.q("DELETE FROM weight_events WHERE id=?;"), id)
	return err == nil, err
}

// LatestWeight returns the most recent weight entry, or nil.
func (d *DB) LatestWeight(ctx context.Context) (*domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT id, value, unit, created_at FROM weight_events ORDER BY created_at DESC, id DESC LIMIT 1;")
	return d.scanWeight(row)
}

// LatestWeightBetween returns the most recent weight entry in [from, to).
func (d *DB) LatestWeightBetween(ctx context.Context, from, to time.Time) (*domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		d.q("SELECT id, value, unit, created_at FROM weight_events WHERE created_at >= ? AND created_at < ? ORDER BY created_at DESC, id DESC LIMIT 1;"),
		d.ts(from), d.ts(to),
	)
	return d.scanWeight(row)
}

func (d *DB) scanWeight(row *sql.Row) (*domain.WeightEntry, error) {
	var e domain.WeightEntry
	if err := row.Scan(&e.ID, &e.Value, &e.Unit, timeCol{&e.CreatedAt}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.Day = domain.LocalDay(e.CreatedAt, d.loc)
	return &e, nil
}

// ListRecentWeightEvents returns the most recent weight events up to limit.
func (d *DB) ListRecentWeightEvents(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.q("SELECT id, value, unit, created_at FROM weight_events ORDER BY created_at DESC, id DESC LIMIT ?;"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WeightEntry, 0, limit)
	for rows.Next() {
		var e domain.WeightEntry
		if err := rows.Scan(&e.ID, &e.Value, &e.Unit, timeCol{&e.CreatedAt}); err != nil {
			return nil, err
		}
		e.Day = domain.LocalDay(e.CreatedAt, d.loc)
		out = append(out, e)
	}
	return out, rows.Err()
}
