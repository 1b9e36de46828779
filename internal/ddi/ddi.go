// Package ddi evaluates drug-drug interaction rules against plasma
// concentrations at a single instant.
package ddi

import (
	"fmt"
	"time"

	"biodash/internal/domain"
	"biodash/internal/pk"
)

// Severity of a warning.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Rule identifiers, in evaluation order.
const (
	TypeCYP2D6Blockade      = "cyp2d6_blockade"
	TypeSerotoninSyndrome   = "serotonin_syndrome"
	TypeParacetamolToxicity = "paracetamol_toxicity"
	TypeParacetamolCaution  = "paracetamol_caution"
	TypeCNSOverload         = "cns_overload"
)

// Warning is a single fired rule.
type Warning struct {
	Severity Severity `json:"severity"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Rules holds the interaction thresholds.
type Rules struct {
	OpioidThresholdNgMl      float64 `yaml:"opioid_threshold_ng_ml" validate:"gte=0"`
	StimulantCmaxFraction    float64 `yaml:"stimulant_cmax_fraction" validate:"gt=0,lte=1"`
	SerotoninLoadThreshold   float64 `yaml:"serotonin_load_threshold" validate:"gte=0"`
	SerotoninThreshMultiple  float64 `yaml:"serotonin_threshold_multiple" validate:"gt=0"`
	CaffeineNormNgMl         float64 `yaml:"caffeine_norm_ng_ml" validate:"gt=0"`
	ParacetamolMaxFastingMg  float64 `yaml:"paracetamol_max_fasting_mg" validate:"gt=0"`
	ParacetamolCautionMg     float64 `yaml:"paracetamol_caution_mg" validate:"gt=0"`
	CNSCmaxFraction          float64 `yaml:"cns_cmax_fraction" validate:"gt=0"`
	CNSCaffeineThresholdNgMl float64 `yaml:"cns_caffeine_threshold_ng_ml" validate:"gte=0"`
}

// DefaultRules returns the clinical default thresholds.
func DefaultRules() Rules {
	return Rules{
		OpioidThresholdNgMl:      1.0,
		StimulantCmaxFraction:    0.2,
		SerotoninLoadThreshold:   0.3,
		SerotoninThreshMultiple:  5,
		CaffeineNormNgMl:         1500,
		ParacetamolMaxFastingMg:  2000,
		ParacetamolCautionMg:     1000,
		CNSCmaxFraction:          0.8,
		CNSCaffeineThresholdNgMl: 800,
	}
}

// Input is the state the rules are evaluated against. Concentrations are
// absolute (ng/ml) and Cmax values are already scaled to the user.
type Input struct {
	DAmphetamineNgMl float64
	MPHIRNgMl        float64
	MPHMRNgMl        float64
	CaffeineNgMl     float64
	CodeineNgMl      float64

	DAmphetamineCmax float64
	MPHCmax          float64

	Paracetamol24hMg float64
	Fasting          bool
}

// Evaluate runs every rule in order and returns the warnings that fired.
// The result is never nil.
func (r Rules) Evaluate(in Input) []Warning {
	warnings := []Warning{}

	dAmphThresh := in.DAmphetamineCmax * r.StimulantCmaxFraction
	mphThresh := in.MPHCmax * r.StimulantCmaxFraction
	stimulantActive := in.DAmphetamineNgMl > dAmphThresh ||
		in.MPHIRNgMl > mphThresh ||
		in.MPHMRNgMl > mphThresh
	opioid := in.CodeineNgMl > r.OpioidThresholdNgMl

	if opioid && stimulantActive {
		warnings = append(warnings, Warning{
			Severity: SeverityCritical,
			Type:     TypeCYP2D6Blockade,
			Title:    "CYP2D6 blockade: analgesic failure",
			Message: "D-amphetamine competitively blocks CYP2D6. Codeine is barely " +
				"converted to morphine, so pain relief stays weak. Do NOT increase " +
				"the Co-Dafalgan dose: paracetamol overdose risk while glutathione is depleted.",
		})
	}

	load := in.DAmphetamineNgMl/max(dAmphThresh*r.SerotoninThreshMultiple, 1) +
		(in.MPHIRNgMl+in.MPHMRNgMl)/max(mphThresh*r.SerotoninThreshMultiple, 1) +
		in.CaffeineNgMl/r.CaffeineNormNgMl
	if opioid && load > r.SerotoninLoadThreshold {
		warnings = append(warnings, Warning{
			Severity: SeverityCritical,
			Type:     TypeSerotoninSyndrome,
			Title:    "Serotonin syndrome risk",
			Message: "Opioid (codeine) on top of a stimulant stack. Watch for clonus, " +
				"hyperreflexia, sweating, tremor and agitation. Seek medical help if symptoms appear.",
		})
	}

	if in.Fasting {
		switch {
		case in.Paracetamol24hMg > r.ParacetamolMaxFastingMg:
			warnings = append(warnings, Warning{
				Severity: SeverityCritical,
				Type:     TypeParacetamolToxicity,
				Title:    "Paracetamol hepatotoxicity (fasting)",
				Message: fmt.Sprintf("Cumulative paracetamol: %.0f mg/24h. Fasting maximum: %.0f mg. "+
					"Glutathione is depleted and NAPQI clearance is impaired.",
					in.Paracetamol24hMg, r.ParacetamolMaxFastingMg),
			})
		case in.Paracetamol24hMg > r.ParacetamolCautionMg:
			warnings = append(warnings, Warning{
				Severity: SeverityWarning,
				Type:     TypeParacetamolCaution,
				Title:    "Paracetamol caution (fasting)",
				Message: fmt.Sprintf("Cumulative paracetamol: %.0f mg/24h. Glutathione is reduced "+
					"while fasting. Weigh any further dose.", in.Paracetamol24hMg),
			})
		}
	}

	cnsTotal := in.DAmphetamineNgMl + in.MPHIRNgMl + in.MPHMRNgMl
	cmaxSum := in.DAmphetamineCmax + in.MPHCmax
	if cnsTotal > cmaxSum*r.CNSCmaxFraction && in.CaffeineNgMl > r.CNSCaffeineThresholdNgMl {
		warnings = append(warnings, Warning{
			Severity: SeverityWarning,
			Type:     TypeCNSOverload,
			Title:    "Extreme CNS load",
			Message: fmt.Sprintf("Stimulants: %.1f ng/ml + caffeine: %.0f ng/ml. "+
				"Cardiovascular strain is very high. Watch HRV and resting HR.", cnsTotal, in.CaffeineNgMl),
		})
	}

	return warnings
}

// Paracetamol24h sums the paracetamol content of co_dafalgan intakes in the
// window [at-24h, at], both ends inclusive.
func Paracetamol24h(intakes []domain.IntakeEvent, at time.Time, defaultDoseMg float64) float64 {
	start := at.Add(-24 * time.Hour)
	total := 0.0
	for _, in := range intakes {
		if in.Substance != domain.CoDafalgan {
			continue
		}
		if in.Timestamp.Before(start) || in.Timestamp.After(at) {
			continue
		}
		total += in.Dose(defaultDoseMg)
	}
	return total
}

// Collect evaluates the model at the given instant and assembles the rule
// input for a user profile.
func Collect(m *pk.Model, intakes []domain.IntakeEvent, at time.Time, profile domain.UserProfile) Input {
	w := profile.WeightKg
	paraDefault := float64(pk.CoDafalganDefaultDoseMg)
	if p, ok := m.Profile(pk.Paracetamol); ok {
		paraDefault = p.DefaultDoseMg
	}
	return Input{
		DAmphetamineNgMl: m.SumConcentration(pk.DAmphetamine, intakes, at, w),
		MPHIRNgMl:        m.SumConcentration(pk.MethylphenidateIR, intakes, at, w),
		MPHMRNgMl:        m.SumConcentration(pk.MethylphenidateMR, intakes, at, w),
		CaffeineNgMl:     m.SumConcentration(pk.Caffeine, intakes, at, w),
		CodeineNgMl:      m.SumConcentration(pk.Codeine, intakes, at, w),
		DAmphetamineCmax: m.Cmax(pk.DAmphetamine, w),
		MPHCmax:          m.Cmax(pk.MethylphenidateIR, w),
		Paracetamol24hMg: Paracetamol24h(intakes, at, paraDefault),
		Fasting:          profile.IsFasting,
	}
}
