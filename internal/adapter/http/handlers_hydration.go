package adapthttp

import (
	"net/http"

	"biodash/internal/domain"
)

func (s *Server) handleHydrationStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.hydration.Status(r.Context(), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleHydrationGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.hydration.TodayGoal(r.Context(), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleHydrationHistory lists stored goals; the range defaults to the last
// 30 local days.
func (s *Server) handleHydrationHistory(w http.ResponseWriter, r *http.Request) {
	now := s.now().In(s.loc)
	to, err := s.dayQuery(r, "to", now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	from, err := s.dayQuery(r, "from", to.AddDate(0, 0, -29))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	goals, err := s.hydration.GoalHistory(r.Context(), s.localDayString(from), s.localDayString(to))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if goals == nil {
		goals = []domain.WaterGoal{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": goals})
}
