package bioscore_test

import (
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biodash/internal/bioscore"
	"biodash/internal/ddi"
	"biodash/internal/domain"
	"biodash/internal/pk"
)

var profile = domain.UserProfile{WeightKg: 96, IsFasting: true}

func newEngine() *bioscore.Engine {
	return bioscore.NewEngine(pk.NewDefaultModel(), ddi.DefaultRules())
}

func f(v float64) *float64 { return &v }

func TestCircadianBreakpoints(t *testing.T) {
	tests := []struct {
		hour float64
		want float64
	}{
		{0, 15}, {5.99, 15}, {6, 15}, {6.5, 25}, {7, 35}, {8, 47.5}, {9, 60},
		{11.99, 60}, {12, 60}, {12.5, 55}, {13, 50}, {14, 40}, {14.5, 35},
		{14.75, 42.5}, {15, 50}, {17, 50}, {18, 42}, {20, 26}, {21, 21},
		{22, 16}, {23, 15.5}, {23.99, 15.005},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, bioscore.Circadian(tc.hour), 1e-9, "hour %v", tc.hour)
	}
}

func TestCircadianContinuity(t *testing.T) {
	for _, b := range []float64{7, 9, 13, 14.5, 20, 22} {
		assert.InDelta(t, bioscore.Circadian(b-1e-9), bioscore.Circadian(b), 1e-6, "boundary %v", b)
	}
}

func TestSleepModifier(t *testing.T) {
	assert.Equal(t, 0.0, bioscore.SleepModifier(nil, f(90)))
	assert.Equal(t, -20.0, bioscore.SleepModifier(f(240), nil))
	assert.Equal(t, -10.0, bioscore.SleepModifier(f(330), f(0)))
	assert.InDelta(t, -2.5, bioscore.SleepModifier(f(390), f(50)), 1e-12)
	assert.Equal(t, 0.0, bioscore.SleepModifier(f(450), nil))
	assert.Equal(t, 5.0, bioscore.SleepModifier(f(480), nil))
	assert.InDelta(t, 8.0, bioscore.SleepModifier(f(600), f(80)), 1e-12)
}

func TestHRVPenalty(t *testing.T) {
	tests := []struct {
		name string
		hrv  *float64
		rhr  *float64
		stim float64
		want float64
	}{
		{"no hrv", nil, f(120), 1, 0},
		{"very low hrv high stim", f(15), nil, 0.6, -15},
		{"low hrv", f(25), nil, 0.6, -10},
		{"moderate hrv mid stim", f(35), nil, 0.4, -5},
		{"hrv<50 needs stim>0.5", f(45), nil, 0.4, 0},
		{"hrv<50 high stim", f(45), nil, 0.6, -3},
		{"tachycardia alone", f(80), f(101), 0, -8},
		{"elevated rhr under stim", f(80), f(95), 0.4, -5},
		{"elevated rhr no stim", f(80), f(95), 0.1, 0},
		{"floored", f(10), f(110), 0.9, -15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, bioscore.HRVPenalty(tc.hrv, tc.rhr, tc.stim))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, bioscore.PhaseSleep, bioscore.Classify(5.9, 1))
	assert.Equal(t, bioscore.PhaseWaking, bioscore.Classify(6.5, 1))
	assert.Equal(t, bioscore.PhasePeakFocus, bioscore.Classify(13, 0.9))
	assert.Equal(t, bioscore.PhaseActiveFocus, bioscore.Classify(21, 0.5))
	assert.Equal(t, bioscore.PhaseDeclining, bioscore.Classify(10, 0.2))
	assert.Equal(t, bioscore.PhaseLowResidual, bioscore.Classify(10, 0.05))
	assert.Equal(t, bioscore.PhaseMiddayDip, bioscore.Classify(12.5, 0))
	assert.Equal(t, bioscore.PhaseMiddayDip, bioscore.Classify(14.5, 0))
	assert.Equal(t, bioscore.PhaseWindDown, bioscore.Classify(20, 0.01))
	assert.Equal(t, bioscore.PhaseBaseline, bioscore.Classify(10, 0))
}

func TestScoreWithoutDataEqualsCircadian(t *testing.T) {
	e := newEngine()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for m := 0; m < 24*60; m += 7 {
		at := day.Add(time.Duration(m) * time.Minute)
		res := e.Score(bioscore.Inputs{At: at}, profile)
		assert.Equal(t, res.Circadian, res.Score, "at %s", at)
		want := math.Round(bioscore.Circadian(domain.HourOfDay(at))*10) / 10
		assert.Equal(t, want, res.Score, "at %s", at)
		assert.Empty(t, res.Warnings)
	}
}

func TestScoreClamped(t *testing.T) {
	e := newEngine()
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	var intakes []domain.IntakeEvent
	for i := 0; i < 10; i++ {
		for _, s := range []domain.Substance{domain.Elvanse, domain.Medikinet, domain.MedikinetRetard, domain.Mate, domain.CoDafalgan} {
			intakes = append(intakes, domain.IntakeEvent{Timestamp: at.Add(-2 * time.Hour), Substance: s})
		}
	}
	res := e.Score(bioscore.Inputs{At: at, Intakes: intakes, SleepDurationMin: f(600)}, profile)
	assert.Equal(t, 100.0, res.Score)
	assert.Equal(t, bioscore.PhasePeakFocus, res.Phase)
	assert.NotEmpty(t, res.Warnings)

	night := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)
	res = e.Score(bioscore.Inputs{At: night, SleepDurationMin: f(0), HRV: f(0), RestingHR: f(140)}, domain.UserProfile{})
	assert.Equal(t, 0.0, res.Score)
}

func TestScoreComponents(t *testing.T) {
	e := newEngine()
	at := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	intakes := []domain.IntakeEvent{{Timestamp: at.Add(-4 * time.Hour), Substance: domain.Elvanse}}
	res := e.Score(bioscore.Inputs{At: at, Intakes: intakes}, profile)

	assert.Equal(t, 60.0, res.Circadian)
	assert.Greater(t, res.ElvanseLevel, 0.95)
	assert.InDelta(t, res.ElvanseLevel*30, res.ElvanseBoost, 0.1)
	assert.Equal(t, 0.0, res.MedikinetBoost)
	assert.Greater(t, res.ElvanseNgMl, 20.0)
	assert.Equal(t, res.ElvanseLevel, res.CNSLoad)
	assert.Equal(t, bioscore.PhasePeakFocus, res.Phase)
	assert.True(t, res.Timestamp.Equal(at))
}

func TestFutureIntakesDoNotContribute(t *testing.T) {
	e := newEngine()
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	later := []domain.IntakeEvent{{Timestamp: at.Add(time.Minute), Substance: domain.Elvanse}}
	assert.Equal(t, e.Score(bioscore.Inputs{At: at}, profile), e.Score(bioscore.Inputs{At: at, Intakes: later}, profile))
}

func TestDayCurveRoundTrip(t *testing.T) {
	e := newEngine()
	day := time.Date(2026, 3, 2, 15, 42, 0, 0, time.UTC)
	intakes := []domain.IntakeEvent{
		{Timestamp: time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC), Substance: domain.Elvanse},
		{Timestamp: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), Substance: domain.Medikinet},
		{Timestamp: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), Substance: domain.Mate},
	}
	in := bioscore.Inputs{Intakes: intakes, HRV: f(35), RestingHR: f(80), SleepDurationMin: f(420), SleepConfidence: f(70)}

	curve := e.DayCurve(day, in, profile, 15)
	require.Len(t, curve, 96)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i, p := range curve {
		at := start.Add(time.Duration(i*15) * time.Minute)
		require.True(t, p.Timestamp.Equal(at))
		in.At = at
		assert.Equal(t, p, e.Score(in, profile))
	}
}

func TestDayCurveFollowsWallClockOnDSTDays(t *testing.T) {
	zurich, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)
	e := newEngine()

	for _, day := range []time.Time{
		time.Date(2026, 3, 29, 12, 0, 0, 0, zurich),
		time.Date(2026, 10, 25, 12, 0, 0, 0, zurich),
	} {
		curve := e.DayCurve(day, bioscore.Inputs{}, profile, 60)
		require.Len(t, curve, 24)
		for _, p := range curve {
			assert.Equal(t, day.Day(), p.Timestamp.Day(), "%s", p.Timestamp)
		}
		last := curve[len(curve)-1].Timestamp
		assert.Equal(t, 23, last.Hour(), "%s", last)
		assert.Equal(t, 12, curve[12].Timestamp.Hour())
	}
}

func TestClampInterval(t *testing.T) {
	assert.Equal(t, 15, bioscore.ClampInterval(0))
	assert.Equal(t, 5, bioscore.ClampInterval(1))
	assert.Equal(t, 60, bioscore.ClampInterval(240))
	assert.Equal(t, 30, bioscore.ClampInterval(30))
	assert.Len(t, newEngine().DayCurve(time.Now(), bioscore.Inputs{}, profile, 60), 24)
}
