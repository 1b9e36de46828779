package domain

import "context"

// WaterGoal is the personalised daily water target with its breakdown.
type WaterGoal struct {
	Date               string  `json:"date"`
	GoalMl             int     `json:"goal_ml"`
	BaseMl             int     `json:"base_ml"`
	DrugModifierMl     int     `json:"drug_modifier_ml"`
	FastingModifierMl  int     `json:"fasting_modifier_ml"`
	ActivityModifierMl int     `json:"activity_modifier_ml"`
	WeightKg           float64 `json:"weight_kg"`
	IsFasting          bool    `json:"is_fasting"`
	ElvanseActive      bool    `json:"elvanse_active"`
	Steps              int     `json:"steps"`
}

// GoalRepository caches computed goals per local day.
type GoalRepository interface {
	UpsertGoal(ctx context.Context, g WaterGoal) error
	GoalForDay(ctx context.Context, localDay string) (*WaterGoal, error)
	GoalsInRange(ctx context.Context, fromDay, toDay string) ([]WaterGoal, error)
}
