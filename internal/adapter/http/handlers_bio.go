package adapthttp

import (
	"errors"
	"net/http"
	"strconv"

	"biodash/internal/app"
	"biodash/internal/bioscore"
	"biodash/internal/ddi"
	"biodash/internal/domain"
)

func (s *Server) handleBioScore(w http.ResponseWriter, r *http.Request) {
	at, err := s.timeQuery(r, "at", s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.bio.Score(r.Context(), at)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBioCurve(w http.ResponseWriter, r *http.Request) {
	day, err := s.dayQuery(r, "date", s.now().In(s.loc))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	interval := 0
	if v := r.URL.Query().Get("interval"); v != "" {
		if interval, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid interval"))
			return
		}
	}
	points, err := s.bio.DayCurve(r.Context(), day, interval)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":     s.localDayString(day),
		"interval": bioscore.ClampInterval(interval),
		"points":   points,
	})
}

func (s *Server) handleDDI(w http.ResponseWriter, r *http.Request) {
	at, err := s.timeQuery(r, "at", s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	warnings, err := s.bio.DDI(r.Context(), at)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if warnings == nil {
		warnings = []ddi.Warning{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

type profileRequest struct {
	WeightKg  float64 `json:"weight_kg" validate:"gt=0"`
	HeightCm  float64 `json:"height_cm" validate:"gte=0"`
	Age       int     `json:"age" validate:"gte=0"`
	IsFasting bool    `json:"is_fasting"`
}

type evaluateRequest struct {
	At       string                 `json:"at"`
	Intakes  []domain.RawIntake     `json:"intakes" validate:"max=5000"`
	Water    []domain.RawWaterEvent `json:"water" validate:"max=5000"`
	Snapshot *domain.HealthSnapshot `json:"snapshot"`
	Profile  *profileRequest        `json:"profile"`
	GoalMl   int                    `json:"goal_ml" validate:"gte=0"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var body evaluateRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req := app.EvaluateRequest{
		At:       s.now(),
		Intakes:  body.Intakes,
		Water:    body.Water,
		Snapshot: body.Snapshot,
		GoalMl:   body.GoalMl,
	}
	if body.At != "" {
		at, err := domain.ParseTimestamp(body.At, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		req.At = at
	}
	if p := body.Profile; p != nil {
		req.Profile = &domain.UserProfile{WeightKg: p.WeightKg, HeightCm: p.HeightCm, Age: p.Age, IsFasting: p.IsFasting}
	}

	ev, err := s.bio.Evaluate(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
