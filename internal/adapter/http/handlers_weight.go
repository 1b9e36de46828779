package adapthttp

import (
	"net/http"
)

type weightRequest struct {
	Value float64 `json:"value" validate:"gt=0,lt=1000"`
	Unit  string  `json:"unit" validate:"oneof=kg lb"`
}

func (s *Server) handleWeightToday(w http.ResponseWriter, r *http.Request) {
	entry, today, err := s.weight.GetTodayWeight(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"today": today, "entry": entry})
}

func (s *Server) handleWeightRecord(w http.ResponseWriter, r *http.Request) {
	var body weightRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entry, today, err := s.weight.RecordWeight(r.Context(), body.Value, body.Unit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"today": today, "entry": entry})
}

func (s *Server) handleWeightRecent(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 14)
	items, err := s.weight.ListRecent(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleWeightUndoLast(w http.ResponseWriter, r *http.Request) {
	deleted, entry, today, err := s.weight.UndoLast(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted, "today": today, "entry": entry})
}
