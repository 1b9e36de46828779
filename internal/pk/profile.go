package pk

import "biodash/internal/domain"

// Agent is a pharmacologically active compound the model tracks. A single
// substance may release more than one agent (co_dafalgan releases codeine
// and paracetamol).
type Agent int

// Modeled agents.
const (
	DAmphetamine Agent = iota
	MethylphenidateIR
	MethylphenidateMR
	Caffeine
	Codeine
	Paracetamol
)

// Agents lists every modeled agent.
var Agents = []Agent{DAmphetamine, MethylphenidateIR, MethylphenidateMR, Caffeine, Codeine, Paracetamol}

func (a Agent) String() string {
	switch a {
	case DAmphetamine:
		return "d-amphetamine"
	case MethylphenidateIR:
		return "methylphenidate-ir"
	case MethylphenidateMR:
		return "methylphenidate-mr"
	case Caffeine:
		return "caffeine"
	case Codeine:
		return "codeine"
	case Paracetamol:
		return "paracetamol"
	}
	return "unknown"
}

// Profile carries everything needed to evaluate one agent.
type Profile struct {
	Agent     Agent
	Substance domain.Substance
	Curve     Curve
	// DefaultDoseMg is used for intakes logged without a dose.
	DefaultDoseMg float64
	// ReferenceDoseMg is the substance dose at which CmaxRefNgMl is observed.
	ReferenceDoseMg float64
	// CmaxRefNgMl is the population peak concentration for a 70 kg adult.
	CmaxRefNgMl float64
}

// DoseFactor returns dose/ReferenceDoseMg.
func (p Profile) DoseFactor(doseMg float64) float64 {
	if p.ReferenceDoseMg <= 0 {
		return 1
	}
	return doseMg / p.ReferenceDoseMg
}

// Default dose sizes per substance.
const (
	ElvanseDefaultDoseMg         = 40
	MedikinetDefaultDoseMg       = 10
	MedikinetRetardDefaultDoseMg = 30
	MateCaffeineMg               = 76
	CoDafalganDefaultDoseMg      = 500 // mg paracetamol per tablet
	CodeineRatio                 = 30.0 / 500.0
)

// DefaultProfiles returns the literature parameter set.
//
// Lisdexamfetamine: Ermer 2016, Hutson 2017. Methylphenidate: Kim 2017,
// Markowitz 2000, Haessler 2008 (fasted MR collapses to a single peak).
// Caffeine: Kamimori 2002, Seng 2009.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Agent:           DAmphetamine,
			Substance:       domain.Elvanse,
			Curve:           Cascade{KAbs: 2.0, KHyd: 0.78, KE: 0.088},
			DefaultDoseMg:   ElvanseDefaultDoseMg,
			ReferenceDoseMg: ElvanseDefaultDoseMg,
			CmaxRefNgMl:     36.0,
		},
		{
			Agent:           MethylphenidateIR,
			Substance:       domain.Medikinet,
			Curve:           Bateman{Ka: 1.72, Ke: 0.28},
			DefaultDoseMg:   MedikinetDefaultDoseMg,
			ReferenceDoseMg: MedikinetDefaultDoseMg,
			CmaxRefNgMl:     6.0,
		},
		{
			Agent:           MethylphenidateMR,
			Substance:       domain.MedikinetRetard,
			Curve:           Bateman{Ka: 1.2, Ke: 0.28},
			DefaultDoseMg:   MedikinetRetardDefaultDoseMg,
			ReferenceDoseMg: MedikinetRetardDefaultDoseMg,
			CmaxRefNgMl:     12.0,
		},
		{
			Agent:           Caffeine,
			Substance:       domain.Mate,
			Curve:           Bateman{Ka: 2.5, Ke: 0.16},
			DefaultDoseMg:   MateCaffeineMg,
			ReferenceDoseMg: MateCaffeineMg,
			CmaxRefNgMl:     1500.0,
		},
		{
			// Reference is 30 mg codeine, i.e. one 500 mg tablet.
			Agent:           Codeine,
			Substance:       domain.CoDafalgan,
			Curve:           Bateman{Ka: 1.7, Ke: 0.23},
			DefaultDoseMg:   CoDafalganDefaultDoseMg,
			ReferenceDoseMg: 30.0 / CodeineRatio,
			CmaxRefNgMl:     100.0,
		},
		{
			Agent:           Paracetamol,
			Substance:       domain.CoDafalgan,
			Curve:           Bateman{Ka: 3.0, Ke: 0.28},
			DefaultDoseMg:   CoDafalganDefaultDoseMg,
			ReferenceDoseMg: CoDafalganDefaultDoseMg,
			CmaxRefNgMl:     10000.0,
		},
	}
}
