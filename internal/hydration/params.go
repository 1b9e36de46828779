// Package hydration computes the personalised daily water target and the
// pacing, safety and coaching outputs derived from it.
package hydration

import "time"

// Params are the hydration model constants. The zero value is not useful;
// start from DefaultParams.
type Params struct {
	BaseMlPerKg           float64 `yaml:"base_ml_per_kg" validate:"gt=0"`
	DrugModifierMl        int     `yaml:"drug_modifier_ml" validate:"gte=0"`
	FastingModifierMl     int     `yaml:"fasting_modifier_ml" validate:"gte=0"`
	ActivityMlPer1kSteps  float64 `yaml:"activity_ml_per_1k_steps" validate:"gte=0"`
	ActivityBaselineSteps int     `yaml:"activity_baseline_steps" validate:"gte=0"`
	MaxHourlyMl           int     `yaml:"max_hourly_ml" validate:"gt=0"`
	WakeHour              float64 `yaml:"wake_hour" validate:"gte=0,lt=24"`
	SleepHour             float64 `yaml:"sleep_hour" validate:"gtfield=WakeHour,lte=24"`
	HRDriftBpm            float64 `yaml:"hr_drift_bpm" validate:"gt=0"`
	HRVDropPct            float64 `yaml:"hrv_drop_pct" validate:"gt=0"`
	// Deficit messages are suppressed after more than SuppressAboveMl within
	// SuppressWindow.
	SuppressWindow  time.Duration `yaml:"suppress_window" validate:"gt=0"`
	SuppressAboveMl int           `yaml:"suppress_above_ml" validate:"gte=0"`
}

// DefaultParams returns the evidence-based defaults: 33.3 ml/kg
// (EFSA 2010, IOM 2004), +110 ml under amphetamine, +500 ml when fasting,
// +60 ml per 1000 steps above 4000 and an 800 ml/h renal safety cap.
func DefaultParams() Params {
	return Params{
		BaseMlPerKg:           33.3,
		DrugModifierMl:        110,
		FastingModifierMl:     500,
		ActivityMlPer1kSteps:  60,
		ActivityBaselineSteps: 4000,
		MaxHourlyMl:           800,
		WakeHour:              7,
		SleepHour:             23,
		HRDriftBpm:            4,
		HRVDropPct:            15,
		SuppressWindow:        30 * time.Minute,
		SuppressAboveMl:       500,
	}
}
