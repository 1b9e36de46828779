package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"biodash/internal/domain"
)

var _ domain.HealthRepository = (*DB)(nil)

const snapshotColumns = "id, taken_at, heart_rate, resting_hr, hrv, sleep_duration, sleep_confidence, spo2, respiratory_rate, steps, calories, source"

// AddSnapshot inserts a vitals snapshot.
func (d *DB) AddSnapshot(ctx context.Context, s domain.HealthSnapshot) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		d.q(`INSERT INTO health_snapshots(taken_at, heart_rate, resting_hr, hrv, sleep_duration, sleep_confidence, spo2, respiratory_rate, steps, calories, source)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id;`),
		d.ts(s.Timestamp), s.HeartRate, s.RestingHR, s.HRV, s.SleepDurationMin, s.SleepConfidence,
		s.SpO2, s.RespiratoryRate, s.Steps, s.Calories, s.Source,
	).Scan(&id)
	return id, err
}

// LatestSnapshot returns the newest snapshot taken at or before the given
// instant, or nil.
func (d *DB) LatestSnapshot(ctx context.Context, before time.Time) (*domain.HealthSnapshot, error) {
	row := d.sql.QueryRowContext(ctx,
		d.q("SELECT "+snapshotColumns+" FROM health_snapshots WHERE taken_at <= ? ORDER BY taken_at DESC, id DESC LIMIT 1;"),
		d.ts(before))
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSnapshots returns the snapshots in [from, to], oldest first.
func (d *DB) ListSnapshots(ctx context.Context, from, to time.Time) ([]domain.HealthSnapshot, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.q("SELECT "+snapshotColumns+" FROM health_snapshots WHERE taken_at >= ? AND taken_at <= ? ORDER BY taken_at, id;"),
		d.ts(from), d.ts(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.HealthSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSnapshot(sc scanner) (domain.HealthSnapshot, error) {
	var s domain.HealthSnapshot
	err := sc.Scan(&s.ID, timeCol{&s.Timestamp}, &s.HeartRate, &s.RestingHR, &s.HRV, &s.SleepDurationMin,
		&s.SleepConfidence, &s.SpO2, &s.RespiratoryRate, &s.Steps, &s.Calories, &s.Source)
	return s, err
}
