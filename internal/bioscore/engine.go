// Package bioscore computes the composite alertness score from the circadian
// baseline, superposed substance levels, sleep and HRV.
package bioscore

import (
	"math"
	"time"

	"biodash/internal/ddi"
	"biodash/internal/domain"
	"biodash/internal/pk"
)

// Point budgets per substance family.
const (
	ElvanseBudget   = 30.0
	MedikinetBudget = 25.0
	CaffeineBudget  = 15.0
)

// Inputs is everything a score evaluation needs besides the profile.
type Inputs struct {
	At               time.Time
	Intakes          []domain.IntakeEvent
	SleepDurationMin *float64
	SleepConfidence  *float64
	HRV              *float64
	RestingHR        *float64
}

// InputsFromSnapshot fills the vitals of in from a snapshot. A nil snapshot
// leaves them empty.
func InputsFromSnapshot(at time.Time, intakes []domain.IntakeEvent, s *domain.HealthSnapshot) Inputs {
	in := Inputs{At: at, Intakes: intakes}
	if s != nil {
		in.SleepDurationMin = s.SleepDurationMin
		in.SleepConfidence = s.SleepConfidence
		in.HRV = s.HRV
		in.RestingHR = s.RestingHR
	}
	return in
}

// Result is one scored instant.
type Result struct {
	Score          float64       `json:"score"`
	Circadian      float64       `json:"circadian"`
	ElvanseBoost   float64       `json:"elvanse_boost"`
	MedikinetBoost float64       `json:"medikinet_boost"`
	CaffeineBoost  float64       `json:"caffeine_boost"`
	SleepModifier  float64       `json:"sleep_modifier"`
	HRVPenalty     float64       `json:"hrv_penalty"`
	ElvanseLevel   float64       `json:"elvanse_level"`
	MedikinetLevel float64       `json:"medikinet_level"`
	CaffeineLevel  float64       `json:"caffeine_level"`
	CodeinLevel    float64       `json:"codein_level"`
	ElvanseNgMl    float64       `json:"elvanse_ng_ml"`
	MedikinetNgMl  float64       `json:"medikinet_ng_ml"`
	CaffeineNgMl   float64       `json:"caffeine_ng_ml"`
	CodeinNgMl     float64       `json:"codein_ng_ml"`
	CNSLoad        float64       `json:"cns_load"`
	Phase          Phase         `json:"phase"`
	Timestamp      time.Time     `json:"timestamp"`
	Warnings       []ddi.Warning `json:"warnings"`
}

// Engine scores instants against a PK model and a DDI rule set. It holds
// no per-call state and is safe for concurrent use.
type Engine struct {
	model *pk.Model
	rules ddi.Rules
}

// NewEngine creates an Engine.
func NewEngine(model *pk.Model, rules ddi.Rules) *Engine {
	return &Engine{model: model, rules: rules}
}

// Model returns the PK model the engine evaluates.
func (e *Engine) Model() *pk.Model {
	return e.model
}

// Score evaluates the composite score at in.At. Hour-of-day is read in the
// location of in.At.
func (e *Engine) Score(in Inputs, profile domain.UserProfile) Result {
	at := in.At
	hour := domain.HourOfDay(at)
	circadian := Circadian(hour)

	elvLv := e.model.SumLevel(pk.DAmphetamine, in.Intakes, at)
	medLv := e.model.SumLevel(pk.MethylphenidateIR, in.Intakes, at) +
		e.model.SumLevel(pk.MethylphenidateMR, in.Intakes, at)
	caffLv := e.model.SumLevel(pk.Caffeine, in.Intakes, at)

	elvBoost := math.Min(ElvanseBudget, elvLv*ElvanseBudget)
	medBoost := math.Min(MedikinetBudget, medLv*MedikinetBudget)
	caffBoost := math.Min(CaffeineBudget, caffLv*CaffeineBudget)

	sleepMod := SleepModifier(in.SleepDurationMin, in.SleepConfidence)
	stim := math.Max(elvLv, medLv)
	hrvPen := HRVPenalty(in.HRV, in.RestingHR, stim)

	raw := circadian + elvBoost + medBoost + caffBoost + sleepMod + hrvPen
	score := math.Max(0, math.Min(100, raw))

	dIn := ddi.Collect(e.model, in.Intakes, at, profile)
	codCmax := math.Max(e.model.Cmax(pk.Codeine, profile.WeightKg), 1)

	return Result{
		Score:          round(score, 1),
		Circadian:      round(circadian, 1),
		ElvanseBoost:   round(elvBoost, 1),
		MedikinetBoost: round(medBoost, 1),
		CaffeineBoost:  round(caffBoost, 1),
		SleepModifier:  round(sleepMod, 1),
		HRVPenalty:     round(hrvPen, 1),
		ElvanseLevel:   round(elvLv, 3),
		MedikinetLevel: round(medLv, 3),
		CaffeineLevel:  round(caffLv, 3),
		CodeinLevel:    round(dIn.CodeineNgMl/codCmax, 3),
		ElvanseNgMl:    round(dIn.DAmphetamineNgMl, 1),
		MedikinetNgMl:  round(dIn.MPHIRNgMl+dIn.MPHMRNgMl, 1),
		CaffeineNgMl:   round(dIn.CaffeineNgMl, 0),
		CodeinNgMl:     round(dIn.CodeineNgMl, 1),
		CNSLoad:        round(elvLv+medLv+caffLv, 3),
		Phase:          Classify(hour, stim),
		Timestamp:      at,
		Warnings:       e.rules.Evaluate(dIn),
	}
}

// Day-curve sampling bounds in minutes.
const (
	MinInterval     = 5
	MaxInterval     = 60
	DefaultInterval = 15
)

// ClampInterval bounds a sampling interval; 0 selects the default.
func ClampInterval(minutes int) int {
	if minutes == 0 {
		return DefaultInterval
	}
	return min(MaxInterval, max(MinInterval, minutes))
}

// DayCurve scores the local day containing day at a fixed interval from
// midnight, reusing the vitals in in for every sample. in.At is ignored.
func (e *Engine) DayCurve(day time.Time, in Inputs, profile domain.UserProfile, intervalMinutes int) []Result {
	step := ClampInterval(intervalMinutes)
	y, mo, d := day.Date()
	points := make([]Result, 0, 24*60/step)
	// Samples sit on the wall-clock grid, so DST days keep 24h of labels.
	for m := 0; m < 24*60; m += step {
		in.At = time.Date(y, mo, d, m/60, m%60, 0, 0, day.Location())
		points = append(points, e.Score(in, profile))
	}
	return points
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
