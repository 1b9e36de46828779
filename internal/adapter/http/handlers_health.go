package adapthttp

import (
	"net/http"

	"biodash/internal/domain"
)

type snapshotRequest struct {
	Timestamp        string   `json:"timestamp"`
	HeartRate        *float64 `json:"heart_rate" validate:"omitempty,gte=0"`
	RestingHR        *float64 `json:"resting_hr" validate:"omitempty,gte=0"`
	HRV              *float64 `json:"hrv" validate:"omitempty,gte=0"`
	SleepDurationMin *float64 `json:"sleep_duration" validate:"omitempty,gte=0"`
	SleepConfidence  *float64 `json:"sleep_confidence" validate:"omitempty,gte=0,lte=100"`
	SpO2             *float64 `json:"spo2" validate:"omitempty,gte=0,lte=100"`
	RespiratoryRate  *float64 `json:"respiratory_rate" validate:"omitempty,gte=0"`
	Steps            *int     `json:"steps" validate:"omitempty,gte=0"`
	Calories         *float64 `json:"calories" validate:"omitempty,gte=0"`
	Source           string   `json:"source" validate:"max=64"`
}

func (s *Server) handleHealthCreate(w http.ResponseWriter, r *http.Request) {
	var body snapshotRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	snap := domain.HealthSnapshot{
		Timestamp:        s.now(),
		HeartRate:        body.HeartRate,
		RestingHR:        body.RestingHR,
		HRV:              body.HRV,
		SleepDurationMin: body.SleepDurationMin,
		SleepConfidence:  body.SleepConfidence,
		SpO2:             body.SpO2,
		RespiratoryRate:  body.RespiratoryRate,
		Steps:            body.Steps,
		Calories:         body.Calories,
		Source:           body.Source,
	}
	if body.Timestamp != "" {
		ts, err := domain.ParseTimestamp(body.Timestamp, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		snap.Timestamp = ts
	}
	saved, err := s.health.Record(r.Context(), snap)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleHealthLatest(w http.ResponseWriter, r *http.Request) {
	snap, err := s.health.Latest(r.Context(), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshot": snap})
}

func (s *Server) handleHealthToday(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	items, err := s.health.Day(r.Context(), now)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.HealthSnapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"today": s.localDayString(now), "items": items})
}
