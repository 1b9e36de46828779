package app

import (
	"context"
	"time"

	"biodash/internal/domain"
)

// MaxChartDays bounds the chart range.
const MaxChartDays = 366

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	weightRepo domain.WeightRepository
	waterRepo  domain.WaterRepository
	goalRepo   domain.GoalRepository
	loc        *time.Location
}

// NewChartsService creates a ChartsService backed by the given repositories.
func NewChartsService(wr domain.WeightRepository, wa domain.WaterRepository, gr domain.GoalRepository, loc *time.Location) *ChartsService {
	return &ChartsService{weightRepo: wr, waterRepo: wa, goalRepo: gr, loc: loc}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day     string       `json:"day"`
	WaterMl int          `json:"waterMl"`
	GoalMl  *int         `json:"goalMl"`
	Weight  *WeightPoint `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// GetDaily returns per-day chart data for the last days days ending at now,
// with weights converted to the requested unit.
func (s *ChartsService) GetDaily(ctx context.Context, now time.Time, days int, unit string) ([]DayPoint, error) {
	if !domain.ValidWeightUnit(unit) {
		return nil, invalid("unit must be \"kg\" or \"lb\"")
	}
	if days < 1 {
		return nil, invalid("days must be >= 1")
	}
	days = min(days, MaxChartDays)

	today := now.In(s.loc)
	first := domain.LocalDay(today.AddDate(0, 0, -(days - 1)), s.loc)
	goals, err := s.goalRepo.GoalsInRange(ctx, first, domain.LocalDay(today, s.loc))
	if err != nil {
		return nil, err
	}
	goalByDay := make(map[string]int, len(goals))
	for _, g := range goals {
		goalByDay[g.Date] = g.GoalMl
	}

	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		from, to := domain.DayBounds(today.AddDate(0, 0, -i), s.loc)
		dayStr := domain.LocalDay(from, s.loc)

		waterMl, err := s.waterRepo.WaterTotal(ctx, from, to.Add(-time.Nanosecond))
		if err != nil {
			return nil, err
		}

		entry, err := s.weightRepo.LatestWeightBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}

		var wp *WeightPoint
		if entry != nil {
			val := entry.Value
			if entry.Unit != unit {
				val = domain.ConvertWeight(val, entry.Unit, unit)
			}
			wp = &WeightPoint{Value: val, Unit: unit}
		}

		p := DayPoint{Day: dayStr, WaterMl: waterMl, Weight: wp}
		if g, ok := goalByDay[dayStr]; ok {
			p.GoalMl = &g
		}
		points = append(points, p)
	}
	return points, nil
}
