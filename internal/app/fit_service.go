package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"biodash/internal/domain"
	"biodash/internal/pk"
)

// Model fit tuning.
const (
	FitWindow    = 90 * 24 * time.Hour
	FitMaxOffset = 16 * time.Hour
	MinFitPairs  = 15
	fitGoodPairs = 30
	fitFocusHigh = 7
)

// Fit statuses.
const (
	FitInsufficient = "insufficient_data"
	FitOK           = "ok"
)

// FitPair joins a focus rating with the modeled d-amphetamine level at the
// time it was logged.
type FitPair struct {
	Timestamp   time.Time `json:"timestamp"`
	Focus       int       `json:"focus"`
	OffsetHours float64   `json:"offset_hours"`
	Level       float64   `json:"level"`
}

// FitResult summarizes how well the modeled level explains reported focus.
type FitResult struct {
	Status   string    `json:"status"`
	Pairs    int       `json:"pairs"`
	Required int       `json:"required"`
	Message  string    `json:"message,omitempty"`
	Data     []FitPair `json:"data"`

	Correlation       *float64 `json:"correlation,omitempty"`
	MeanFocus         *float64 `json:"mean_focus,omitempty"`
	MeanLevel         *float64 `json:"mean_level,omitempty"`
	PersonalThreshold *float64 `json:"personal_threshold,omitempty"`
	PeakFocusOffset   *int     `json:"peak_focus_offset_h,omitempty"`
	Recommendation    string   `json:"recommendation,omitempty"`
}

// ModelFitService correlates subjective focus with the PK model.
type ModelFitService struct {
	logs    domain.SubjectiveLogRepository
	intakes domain.IntakeRepository
	model   *pk.Model
	log     *zap.Logger
}

// NewModelFitService creates a ModelFitService.
func NewModelFitService(logs domain.SubjectiveLogRepository, intakes domain.IntakeRepository, model *pk.Model, log *zap.Logger) *ModelFitService {
	return &ModelFitService{logs: logs, intakes: intakes, model: model, log: log}
}

// Pairs matches each log of the fit window with the latest elvanse intake at
// most FitMaxOffset before it. Logs without such an intake are dropped.
func (s *ModelFitService) Pairs(ctx context.Context, now time.Time) ([]FitPair, error) {
	logs, err := s.logs.ListSubjectiveLogs(ctx, now.Add(-FitWindow), now)
	if err != nil {
		return nil, fmt.Errorf("list subjective logs: %w", err)
	}
	all, err := s.intakes.ListIntakes(ctx, now.Add(-FitWindow-FitMaxOffset), now)
	if err != nil {
		return nil, fmt.Errorf("list intakes: %w", err)
	}
	var doses []domain.IntakeEvent
	for _, e := range all {
		if e.Substance == domain.Elvanse {
			doses = append(doses, e)
		}
	}

	pairs := []FitPair{}
	for _, l := range logs {
		// doses is oldest first; the last one not after the log wins.
		i := sort.Search(len(doses), func(i int) bool { return doses[i].Timestamp.After(l.Timestamp) }) - 1
		if i < 0 {
			continue
		}
		off := l.Timestamp.Sub(doses[i].Timestamp)
		if off > FitMaxOffset {
			continue
		}
		h := off.Hours()
		pairs = append(pairs, FitPair{
			Timestamp:   l.Timestamp,
			Focus:       l.Focus,
			OffsetHours: roundTo(h, 2),
			Level:       roundTo(s.model.Level(pk.DAmphetamine, h, doses[i].Dose(pk.ElvanseDefaultDoseMg)), 3),
		})
	}
	return pairs, nil
}

// Fit computes the Pearson correlation between modeled level and focus once
// at least MinFitPairs pairs exist.
func (s *ModelFitService) Fit(ctx context.Context, now time.Time) (FitResult, error) {
	pairs, err := s.Pairs(ctx, now)
	if err != nil {
		return FitResult{}, err
	}
	res := FitResult{Pairs: len(pairs), Required: MinFitPairs, Data: pairs}
	if len(pairs) < MinFitPairs {
		res.Status = FitInsufficient
		res.Message = fmt.Sprintf("%d of %d focus logs after an elvanse dose collected", len(pairs), MinFitPairs)
		return res, nil
	}
	res.Status = FitOK

	focus := make([]float64, len(pairs))
	level := make([]float64, len(pairs))
	for i, p := range pairs {
		focus[i], level[i] = float64(p.Focus), p.Level
	}
	r := roundTo(Pearson(level, focus), 3)
	mf, ml := roundTo(mean(focus), 2), roundTo(mean(level), 3)
	res.Correlation, res.MeanFocus, res.MeanLevel = &r, &mf, &ml

	threshold := math.Inf(1)
	for _, p := range pairs {
		if p.Focus >= fitFocusHigh && p.Level < threshold {
			threshold = p.Level
		}
	}
	if !math.IsInf(threshold, 1) {
		res.PersonalThreshold = &threshold
	}
	if h, ok := peakFocusHour(pairs); ok {
		res.PeakFocusOffset = &h
	}
	res.Recommendation = recommend(res)

	s.log.Info("model fit computed", zap.Int("pairs", len(pairs)), zap.Float64("r", r))
	return res, nil
}

// peakFocusHour buckets pairs by rounded offset and returns the hour with the
// highest mean focus. Ties go to the earlier hour.
func peakFocusHour(pairs []FitPair) (int, bool) {
	sum := map[int]float64{}
	n := map[int]int{}
	for _, p := range pairs {
		h := int(math.Round(p.OffsetHours))
		sum[h] += float64(p.Focus)
		n[h]++
	}
	best, bestMean, found := 0, math.Inf(-1), false
	for h, c := range n {
		m := sum[h] / float64(c)
		if m > bestMean || (m == bestMean && h < best) {
			best, bestMean, found = h, m, true
		}
	}
	return best, found
}

func recommend(r FitResult) string {
	var parts []string
	if r.Pairs < fitGoodPairs {
		parts = append(parts, fmt.Sprintf("Moderate data basis (%d pairs), keep logging", r.Pairs))
	} else {
		parts = append(parts, fmt.Sprintf("Good data basis (%d pairs)", r.Pairs))
	}
	switch c := *r.Correlation; {
	case c > 0.5:
		parts = append(parts, fmt.Sprintf("Strong link between modeled level and focus (r=%.2f)", c))
	case c > 0.2:
		parts = append(parts, fmt.Sprintf("Moderate link between modeled level and focus (r=%.2f)", c))
	default:
		parts = append(parts, fmt.Sprintf("Weak link between modeled level and focus (r=%.2f)", c))
	}
	if r.PersonalThreshold != nil {
		parts = append(parts, fmt.Sprintf("Focus of %d or more from level %.2f", fitFocusHigh, *r.PersonalThreshold))
	}
	if r.PeakFocusOffset != nil {
		parts = append(parts, fmt.Sprintf("Best focus about %dh after the dose", *r.PeakFocusOffset))
	}
	return strings.Join(parts, " | ")
}

// Pearson returns the sample correlation coefficient of x and y, or 0 when
// either series is constant or shorter than two.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 || len(y) != n {
		return 0
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

func mean(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
