package sqlstore

import (
	"context"
	"time"

	"biodash/internal/domain"
)

var _ domain.WaterRepository = (*DB)(nil)

// AddWaterEvent inserts a new water intake event.
func (d *DB) AddWaterEvent(ctx context.Context, e domain.WaterEvent) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		d.q("INSERT INTO water_events(amount_ml, source, notes, created_at) VALUES(?, ?, ?, ?) RETURNING id;"),
		e.AmountMl, e.Source, e.Notes, d.ts(e.Timestamp),
	).Scan(&id)
	return id, err
}

// DeleteWaterEvent removes a water event by ID and reports whether it
// existed.
func (d *DB) DeleteWaterEvent(ctx context.Context, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, d.q("DELETE FROM water_events WHERE id=?;"), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListRecentWaterEvents returns the most recent water events up to limit,
// newest first.
func (d *DB) ListRecentWaterEvents(ctx context.Context, limit int) ([]domain.WaterEvent, error) {
	return d.queryWater(ctx,
		"SELECT id, amount_ml, source, notes, created_at FROM water_events ORDER BY created_at DESC, id DESC LIMIT ?;", limit)
}

// ListWaterEvents returns the events in [from, to], oldest first.
func (d *DB) ListWaterEvents(ctx context.Context, from, to time.Time) ([]domain.WaterEvent, error) {
	return d.queryWater(ctx,
		"SELECT id, amount_ml, source, notes, created_at FROM water_events WHERE created_at >= ? AND created_at <= ? ORDER BY created_at, id;",
		d.ts(from), d.ts(to))
}

func (d *DB) queryWater(ctx context.Context, query string, args ...any) ([]domain.WaterEvent, error) {
	rows, err := d.sql.QueryContext(ctx, d.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.WaterEvent
	for rows.Next() {
		var e domain.WaterEvent
		if err := rows.Scan(&e.ID, &e.AmountMl, &e.Source, &e.Notes, timeCol{&e.Timestamp}); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// WaterTotal returns the summed intake in ml over [from, to].
func (d *DB) WaterTotal(ctx context.Context, from, to time.Time) (int, error) {
	var total int
	err := d.sql.QueryRowContext(ctx,
		d.q("SELECT COALESCE(SUM(amount_ml), 0) FROM water_events WHERE created_at >= ? AND created_at <= ?;"),
		d.ts(from), d.ts(to),
	).Scan(&total)
	return total, err
}
