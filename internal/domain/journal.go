package domain

import (
	"context"
	"time"
)

// SubjectiveLog is a self-rated check-in. Focus, Mood and Energy run from 1
// to 10; the migraine fields are only filled during an attack.
type SubjectiveLog struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Focus       int       `json:"focus"`
	Mood        int       `json:"mood"`
	Energy      int       `json:"energy"`
	Appetite    *int      `json:"appetite,omitempty"`
	InnerUnrest *int      `json:"inner_unrest,omitempty"`

	PainSeverity    *int     `json:"pain_severity,omitempty"`
	AuraDurationMin *int     `json:"aura_duration_min,omitempty"`
	AuraType        AuraType `json:"aura_type,omitempty"`
	Photophobia     *bool    `json:"photophobia,omitempty"`
	Phonophobia     *bool    `json:"phonophobia,omitempty"`

	Tags []string `json:"tags"`
}

// AuraType classifies a migraine aura. Empty means none.
type AuraType string

const (
	AuraZigzag  AuraType = "zigzag"
	AuraScotoma AuraType = "scotoma"
	AuraFlicker AuraType = "flicker"
	AuraOther   AuraType = "other"
)

// Valid reports whether a is empty or a known aura type.
func (a AuraType) Valid() bool {
	switch a {
	case "", AuraZigzag, AuraScotoma, AuraFlicker, AuraOther:
		return true
	}
	return false
}

// SubjectiveLogRepository is the port for subjective log persistence.
type SubjectiveLogRepository interface {
	AddSubjectiveLog(ctx context.Context, l SubjectiveLog) (int64, error)
	DeleteSubjectiveLog(ctx context.Context, id int64) (bool, error)
	ListSubjectiveLogs(ctx context.Context, from, to time.Time) ([]SubjectiveLog, error)
}

// MealType is the kind of meal logged.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// Valid reports whether m is a known meal type.
func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// Meal is a logged meal, shown next to the intakes on the timeline.
type Meal struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      MealType  `json:"meal_type"`
	Notes     string    `json:"notes,omitempty"`
}

// MealRepository is the port for meal persistence.
type MealRepository interface {
	AddMeal(ctx context.Context, m Meal) (int64, error)
	DeleteMeal(ctx context.Context, id int64) (bool, error)
	ListMeals(ctx context.Context, from, to time.Time) ([]Meal, error)
}
