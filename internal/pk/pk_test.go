package pk_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biodash/internal/domain"
	"biodash/internal/pk"
)

func TestBatemanPeakIsOne(t *testing.T) {
	for _, b := range []pk.Bateman{{Ka: 1.72, Ke: 0.28}, {Ka: 2.5, Ke: 0.16}, {Ka: 3.0, Ke: 0.28}} {
		assert.InDelta(t, 1.0, b.Normalized(b.Tmax()), 1e-12)
		assert.LessOrEqual(t, b.Normalized(b.Tmax()+0.5), 1.0)
		assert.LessOrEqual(t, b.Normalized(b.Tmax()-0.1), 1.0)
	}
}

func TestBatemanDegenerate(t *testing.T) {
	b := pk.Bateman{Ka: 0.3, Ke: 0.3}
	assert.Equal(t, 0.0, b.Raw(2))
	assert.Equal(t, 0.0, b.Normalized(2))
	assert.Equal(t, 1.0, pk.Bateman{Ka: 0.1, Ke: 0.3}.Tmax())
}

func TestTimeToPeak(t *testing.T) {
	m := pk.NewDefaultModel()

	codeine := m.TimeToPeak(pk.Codeine)
	assert.InDelta(t, math.Log(1.7/0.23)/(1.7-0.23), codeine.Hours(), 1e-9)
	assert.InDelta(t, 1.0, m.Level(pk.Codeine, codeine.Hours(), 500), 1e-9)

	amph := m.TimeToPeak(pk.DAmphetamine)
	assert.Greater(t, amph, 2*time.Hour)
	assert.InDelta(t, 1.0, m.Level(pk.DAmphetamine, amph.Hours(), 40), 1e-9)

	assert.Zero(t, m.TimeToPeak(pk.Agent(99)))
}

func TestLevelIsCausal(t *testing.T) {
	m := pk.NewDefaultModel()
	for _, a := range pk.Agents {
		assert.Equal(t, 0.0, m.Level(a, 0, 100), a.String())
		assert.Equal(t, 0.0, m.Level(a, -1.5, 100), a.String())
	}
}

func TestCascadeMaxIsOne(t *testing.T) {
	m := pk.NewDefaultModel()
	maxLevel := 0.0
	for i := 1; i <= 3000; i++ {
		v := m.Level(pk.DAmphetamine, float64(i)*0.01, pk.ElvanseDefaultDoseMg)
		maxLevel = math.Max(maxLevel, v)
	}
	assert.InDelta(t, 1.0, maxLevel, 1e-9)
	// Peak lies a few hours after dosing.
	assert.Greater(t, m.Level(pk.DAmphetamine, 3.5, 40), 0.9)
	assert.Less(t, m.Level(pk.DAmphetamine, 0.5, 40), 0.5)
}

func TestLevelScalesWithDose(t *testing.T) {
	m := pk.NewDefaultModel()
	full := m.Level(pk.MethylphenidateIR, 2, 10)
	half := m.Level(pk.MethylphenidateIR, 2, 5)
	assert.InDelta(t, full/2, half, 1e-12)
}

func TestCodeineDoseFactor(t *testing.T) {
	m := pk.NewDefaultModel()
	p, ok := m.Profile(pk.Codeine)
	require.True(t, ok)
	assert.InDelta(t, 1.0, p.DoseFactor(500), 1e-12)
	assert.InDelta(t, 2.0, p.DoseFactor(1000), 1e-12)
}

func TestScaleCmax(t *testing.T) {
	assert.InDelta(t, 36.0*70/96, pk.ScaleCmax(36, 96, pk.ReferenceWeightKg), 1e-12)
	assert.Equal(t, 36.0, pk.ScaleCmax(36, 70, 70))
	assert.Equal(t, 36.0, pk.ScaleCmax(36, 0, 70))
	assert.InDelta(t, 36.0*70/35, pk.ScaleCmax(36, 35, 0), 1e-12)

	m := pk.NewDefaultModel()
	assert.InDelta(t, 6.0*70/96, m.Cmax(pk.MethylphenidateIR, 96), 1e-12)
	assert.InDelta(t,
		m.Cmax(pk.Caffeine, 96)*m.Level(pk.Caffeine, 1, 76),
		m.Concentration(pk.Caffeine, 1, 76, 96), 1e-9)
}

func dose(v float64) *float64 { return &v }

func TestSuperposition(t *testing.T) {
	m := pk.NewDefaultModel()
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	at := t0.Add(3 * time.Hour)

	single := []domain.IntakeEvent{{Timestamp: t0, Substance: domain.Mate}}
	double := []domain.IntakeEvent{
		{Timestamp: t0, Substance: domain.Mate},
		{Timestamp: t0.Add(time.Hour), Substance: domain.Mate, DoseMg: dose(76)},
	}

	one := m.SumLevel(pk.Caffeine, single, at)
	two := m.SumLevel(pk.Caffeine, double, at)
	assert.InDelta(t, one+m.Level(pk.Caffeine, 2, 76), two, 1e-12)

	// Future intakes and other substances never contribute.
	future := append(double, domain.IntakeEvent{Timestamp: at.Add(time.Minute), Substance: domain.Mate})
	assert.InDelta(t, two, m.SumLevel(pk.Caffeine, future, at), 1e-12)
	other := append(double, domain.IntakeEvent{Timestamp: t0, Substance: domain.Elvanse})
	assert.InDelta(t, two, m.SumLevel(pk.Caffeine, other, at), 1e-12)

	conc := m.SumConcentration(pk.Caffeine, double, at, 96)
	assert.InDelta(t, two*m.Cmax(pk.Caffeine, 96), conc, 1e-9)
}

func TestSuperpositionDropsNegligibleTails(t *testing.T) {
	m := pk.NewDefaultModel()
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	intakes := []domain.IntakeEvent{{Timestamp: t0, Substance: domain.Medikinet}}
	assert.Equal(t, 0.0, m.SumLevel(pk.MethylphenidateIR, intakes, t0.Add(40*time.Hour)))
	assert.Equal(t, 0.0, m.SumConcentration(pk.MethylphenidateIR, intakes, t0.Add(40*time.Hour), 96))
}

func TestCoDafalganReleasesTwoAgents(t *testing.T) {
	m := pk.NewDefaultModel()
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	intakes := []domain.IntakeEvent{{Timestamp: t0, Substance: domain.CoDafalgan, DoseMg: dose(1000)}}
	at := t0.Add(90 * time.Minute)
	assert.Greater(t, m.SumConcentration(pk.Codeine, intakes, at, 96), 0.0)
	assert.Greater(t, m.SumConcentration(pk.Paracetamol, intakes, at, 96), 0.0)
}

func TestPeakCacheConcurrent(t *testing.T) {
	pc := pk.NewPeakCache()
	c := pk.Cascade{KAbs: 2.0, KHyd: 0.78, KE: 0.088}
	want := pk.NewPeakCache().Peak(c)

	var wg sync.WaitGroup
	results := make([]float64, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = pc.Peak(c)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, want, r)
	}
	assert.Equal(t, 1, pc.Len())
}

func TestNewModelPrewarmsCascade(t *testing.T) {
	m := pk.NewDefaultModel()
	assert.Equal(t, 1, m.Peaks().Len())
}
