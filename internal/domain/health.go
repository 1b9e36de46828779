package domain

import (
	"context"
	"time"
)

// HealthSnapshot is a wearable vitals reading. Every vital is optional.
type HealthSnapshot struct {
	ID               int64     `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	HeartRate        *float64  `json:"heart_rate"`
	RestingHR        *float64  `json:"resting_hr"`
	HRV              *float64  `json:"hrv"`
	SleepDurationMin *float64  `json:"sleep_duration"`
	SleepConfidence  *float64  `json:"sleep_confidence"`
	SpO2             *float64  `json:"spo2"`
	RespiratoryRate  *float64  `json:"respiratory_rate"`
	Steps            *int      `json:"steps"`
	Calories         *float64  `json:"calories"`
	Source           string    `json:"source"`
}

// HealthRepository is the port for vitals persistence.
type HealthRepository interface {
	AddSnapshot(ctx context.Context, s HealthSnapshot) (int64, error)
	LatestSnapshot(ctx context.Context, before time.Time) (*HealthSnapshot, error)
	ListSnapshots(ctx context.Context, from, to time.Time) ([]HealthSnapshot, error)
}
