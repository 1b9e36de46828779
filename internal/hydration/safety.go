package hydration

import (
	"fmt"
	"math"
	"time"

	"biodash/internal/domain"
)

// VelocityWindow is the trailing window of the overhydration check.
const VelocityWindow = time.Hour

// RecentIntake sums the water logged in [now-window, now].
func RecentIntake(events []domain.WaterEvent, now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	total := 0
	for _, e := range events {
		if e.Timestamp.Before(cutoff) || e.Timestamp.After(now) {
			continue
		}
		total += e.AmountMl
	}
	return total
}

// VelocityCheck reports the trailing hour's intake against the renal cap.
type VelocityCheck struct {
	Last60MinMl int    `json:"last_60min_ml"`
	MaxHourlyMl int    `json:"max_hourly_ml"`
	Alert       bool   `json:"alert"`
	Message     string `json:"message"`
}

// Velocity checks whether the last hour's intake exceeds MaxHourlyMl.
func (p Params) Velocity(events []domain.WaterEvent, now time.Time) VelocityCheck {
	recent := RecentIntake(events, now, VelocityWindow)
	v := VelocityCheck{
		Last60MinMl: recent,
		MaxHourlyMl: p.MaxHourlyMl,
		Alert:       recent > p.MaxHourlyMl,
	}
	if v.Alert {
		v.Message = fmt.Sprintf("WARNING: %d ml in 60 min! Max %d ml/h to avoid hyponatremia. Pause drinking!",
			recent, p.MaxHourlyMl)
	}
	return v
}

// DehydrationCheck is the vitals-based dehydration heuristic result.
type DehydrationCheck struct {
	Alert                    bool    `json:"alert"`
	HRDriftBpm               float64 `json:"hr_drift_bpm"`
	HRVDropPct               float64 `json:"hrv_drop_pct"`
	Message                  string  `json:"message"`
	EstimatedBodyMassLossPct float64 `json:"estimated_body_mass_loss_pct"`
}

// Dehydration compares current vitals with a baseline. It alerts only when
// resting HR drifted up by at least HRDriftBpm and HRV dropped by at least
// HRVDropPct percent. Without both resting HR values there is no alert.
func (p Params) Dehydration(currentRHR, baselineRHR, currentHRV, baselineHRV *float64) DehydrationCheck {
	if currentRHR == nil || baselineRHR == nil {
		return DehydrationCheck{}
	}
	drift := *currentRHR - *baselineRHR
	drop := 0.0
	if currentHRV != nil && baselineHRV != nil && *baselineHRV > 0 {
		drop = (*baselineHRV - *currentHRV) / *baselineHRV * 100
	}

	d := DehydrationCheck{
		Alert:      drift >= p.HRDriftBpm && drop >= p.HRVDropPct,
		HRDriftBpm: round1(drift),
		HRVDropPct: round1(drop),
	}
	if drift > 0 {
		// 3-5 bpm per 1 % body mass loss.
		d.EstimatedBodyMassLossPct = round1(drift / 4)
	}
	if d.Alert {
		d.Message = fmt.Sprintf("Dehydration detected! Resting HR +%.0f bpm, HRV -%.0f%%. Drink 500 ml now!", drift, drop)
	}
	return d
}

// Baseline picks the morning reference snapshot: the earliest snapshot with
// a resting HR taken before WakeHour+2 in its own location. Callers pass
// the snapshots of a single local day. It returns nil when there is none.
func (p Params) Baseline(snapshots []domain.HealthSnapshot) *domain.HealthSnapshot {
	var best *domain.HealthSnapshot
	for i := range snapshots {
		s := &snapshots[i]
		if s.RestingHR == nil || domain.HourOfDay(s.Timestamp) >= p.WakeHour+2 {
			continue
		}
		if best == nil || s.Timestamp.Before(best.Timestamp) {
			best = s
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
