package adapthttp

import (
	"net/http"

	"biodash/internal/app"
	"biodash/internal/ddi"
	"biodash/internal/domain"
)

type intakeRequest struct {
	Timestamp string   `json:"timestamp"`
	Substance string   `json:"substance" validate:"required"`
	DoseMg    *float64 `json:"dose_mg" validate:"omitempty,gte=0"`
	Notes     string   `json:"notes" validate:"max=500"`
}

func (s *Server) handleIntakeCreate(w http.ResponseWriter, r *http.Request) {
	var body intakeRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sub, err := domain.ParseSubstance(body.Substance)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e := domain.IntakeEvent{Timestamp: s.now(), Substance: sub, DoseMg: body.DoseMg, Notes: body.Notes}
	if body.Timestamp != "" {
		if e.Timestamp, err = domain.ParseTimestamp(body.Timestamp, s.loc); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	saved, warnings, err := s.intake.Record(r.Context(), e)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		domain.IntakeEvent
		Warnings []ddi.Warning `json:"warnings"`
	}{saved, warnings})
}

// handleIntakeList defaults to the lookback window that still affects the
// score.
func (s *Server) handleIntakeList(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	to, err := s.timeQuery(r, "to", now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	from, err := s.timeQuery(r, "from", to.Add(-app.IntakeLookback))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := s.intake.List(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.IntakeEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleIntakeActive lists the intakes that still contribute at the given
// instant.
func (s *Server) handleIntakeActive(w http.ResponseWriter, r *http.Request) {
	at, err := s.timeQuery(r, "at", s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := s.intake.Window(r.Context(), at)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.IntakeEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"at": at, "items": items})
}

func (s *Server) handleIntakeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.intake.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
