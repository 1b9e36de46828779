package pk

import (
	"time"

	"biodash/internal/domain"
)

// Contributions below these magnitudes are dropped during superposition.
const (
	minLevelContribution         = 0.005
	minConcentrationContribution = 0.01 // ng/ml
)

// Model evaluates agent curves. It owns the cascade peak cache and is safe
// for concurrent use.
type Model struct {
	profiles    map[Agent]Profile
	peaks       *PeakCache
	refWeightKg float64
}

// NewModel builds a model from profiles and prewarms the peak cache for
// every cascade curve. Later profiles override earlier ones for the same
// agent.
func NewModel(profiles []Profile) *Model {
	m := &Model{
		profiles:    make(map[Agent]Profile, len(profiles)),
		peaks:       NewPeakCache(),
		refWeightKg: ReferenceWeightKg,
	}
	for _, p := range profiles {
		m.profiles[p.Agent] = p
		if c, ok := p.Curve.(Cascade); ok {
			m.peaks.Peak(c)
		}
	}
	return m
}

// NewDefaultModel is NewModel(DefaultProfiles()).
func NewDefaultModel() *Model {
	return NewModel(DefaultProfiles())
}

// Profile returns the profile registered for a.
func (m *Model) Profile(a Agent) (Profile, bool) {
	p, ok := m.profiles[a]
	return p, ok
}

// Peaks exposes the cascade peak cache.
func (m *Model) Peaks() *PeakCache {
	return m.peaks
}

func (m *Model) shape(c Curve, hours float64) float64 {
	switch c := c.(type) {
	case Bateman:
		return c.Normalized(hours)
	case Cascade:
		return c.normalizedWith(hours, m.peaks.Peak(c))
	default:
		return 0
	}
}

// TimeToPeak returns how long after a dose the agent's curve peaks. Unknown
// agents report 0.
func (m *Model) TimeToPeak(a Agent) time.Duration {
	p, ok := m.profiles[a]
	if !ok {
		return 0
	}
	var hours float64
	switch c := p.Curve.(type) {
	case Bateman:
		hours = c.Tmax()
	case Cascade:
		hours = c.tmax()
	}
	return time.Duration(hours * float64(time.Hour))
}

// Level returns the relative level of a single dose after hours; 1.0 is the
// peak of the reference dose.
func (m *Model) Level(a Agent, hours, doseMg float64) float64 {
	p, ok := m.profiles[a]
	if !ok || hours <= 0 {
		return 0
	}
	return m.shape(p.Curve, hours) * p.DoseFactor(doseMg)
}

// Cmax returns the reference Cmax of a scaled to weightKg.
func (m *Model) Cmax(a Agent, weightKg float64) float64 {
	p, ok := m.profiles[a]
	if !ok {
		return 0
	}
	return ScaleCmax(p.CmaxRefNgMl, weightKg, m.refWeightKg)
}

// Concentration returns the plasma concentration in ng/ml of a single dose
// after hours for a person of weightKg.
func (m *Model) Concentration(a Agent, hours, doseMg, weightKg float64) float64 {
	return m.Cmax(a, weightKg) * m.Level(a, hours, doseMg)
}

// SumLevel superposes the relative levels of every intake of the agent's
// substance at time at. Intakes after at never contribute.
func (m *Model) SumLevel(a Agent, intakes []domain.IntakeEvent, at time.Time) float64 {
	p, ok := m.profiles[a]
	if !ok {
		return 0
	}
	total := 0.0
	for _, in := range intakes {
		if in.Substance != p.Substance {
			continue
		}
		hours := at.Sub(in.Timestamp).Hours()
		if hours < 0 {
			continue
		}
		if v := m.Level(a, hours, in.Dose(p.DefaultDoseMg)); v > minLevelContribution {
			total += v
		}
	}
	return total
}

// SumConcentration superposes absolute concentrations (ng/ml) of every
// intake of the agent's substance at time at.
func (m *Model) SumConcentration(a Agent, intakes []domain.IntakeEvent, at time.Time, weightKg float64) float64 {
	p, ok := m.profiles[a]
	if !ok {
		return 0
	}
	total := 0.0
	for _, in := range intakes {
		if in.Substance != p.Substance {
			continue
		}
		hours := at.Sub(in.Timestamp).Hours()
		if hours < 0 {
			continue
		}
		if v := m.Concentration(a, hours, in.Dose(p.DefaultDoseMg), weightKg); v > minConcentrationContribution {
			total += v
		}
	}
	return total
}
