package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"biodash/internal/domain"
)

var _ domain.IntakeRepository = (*DB)(nil)

// AddIntake inserts an intake event.
func (d *DB) AddIntake(ctx context.Context, e domain.IntakeEvent) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		d.q("INSERT INTO intake_events(substance, dose_mg, notes, taken_at) VALUES(?, ?, ?, ?) RETURNING id;"),
		string(e.Substance), e.DoseMg, e.Notes, d.ts(e.Timestamp),
	).Scan(&id)
	return id, err
}

// DeleteIntake removes an intake by ID and reports whether it existed.
func (d *DB) DeleteIntake(ctx context.Context, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, d.q("DELETE FROM intake_events WHERE id=?;"), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListIntakes returns the intakes in [from, to], oldest first.
func (d *DB) ListIntakes(ctx context.Context, from, to time.Time) ([]domain.IntakeEvent, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.q("SELECT id, substance, dose_mg, notes, taken_at FROM intake_events WHERE taken_at >= ? AND taken_at <= ? ORDER BY taken_at, id;"),
		d.ts(from), d.ts(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.IntakeEvent
	for rows.Next() {
		e, err := scanIntake(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LatestIntake returns the most recent intake of a substance, or nil.
func (d *DB) LatestIntake(ctx context.Context, s domain.Substance) (*domain.IntakeEvent, error) {
	row := d.sql.QueryRowContext(ctx,
		d.q("SELECT id, substance, dose_mg, notes, taken_at FROM intake_events WHERE substance=? ORDER BY taken_at DESC, id DESC LIMIT 1;"),
		string(s))
	e, err := scanIntake(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIntake(s scanner) (domain.IntakeEvent, error) {
	var (
		e         domain.IntakeEvent
		substance string
	)
	if err := s.Scan(&e.ID, &substance, &e.DoseMg, &e.Notes, timeCol{&e.Timestamp}); err != nil {
		return e, err
	}
	e.Substance = domain.Substance(substance)
	return e, nil
}
