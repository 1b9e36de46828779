package adapthttp

import (
	"net/http"
	"time"

	"biodash/internal/domain"
)

// journalWindow is the default list range for logs and meals.
const journalWindow = 24 * time.Hour

type logRequest struct {
	Timestamp       string   `json:"timestamp"`
	Focus           int      `json:"focus" validate:"required,min=1,max=10"`
	Mood            int      `json:"mood" validate:"required,min=1,max=10"`
	Energy          int      `json:"energy" validate:"required,min=1,max=10"`
	Appetite        *int     `json:"appetite" validate:"omitempty,min=1,max=10"`
	InnerUnrest     *int     `json:"inner_unrest" validate:"omitempty,min=1,max=10"`
	PainSeverity    *int     `json:"pain_severity" validate:"omitempty,min=0,max=10"`
	AuraDurationMin *int     `json:"aura_duration_min" validate:"omitempty,min=0"`
	AuraType        string   `json:"aura_type" validate:"omitempty,oneof=zigzag scotoma flicker other"`
	Photophobia     *bool    `json:"photophobia"`
	Phonophobia     *bool    `json:"phonophobia"`
	Tags            []string `json:"tags" validate:"max=20,dive,max=50"`
}

type mealRequest struct {
	Timestamp string `json:"timestamp"`
	MealType  string `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	Notes     string `json:"notes" validate:"max=500"`
}

// window reads from/to, defaulting to the last journalWindow.
func (s *Server) window(r *http.Request) (time.Time, time.Time, error) {
	to, err := s.timeQuery(r, "to", s.now())
	if err != nil {
		return to, to, err
	}
	from, err := s.timeQuery(r, "from", to.Add(-journalWindow))
	return from, to, err
}

// bodyTime parses an optional body timestamp, defaulting to now.
func (s *Server) bodyTime(v string) (time.Time, error) {
	if v == "" {
		return s.now(), nil
	}
	return domain.ParseTimestamp(v, s.loc)
}

func (s *Server) handleLogCreate(w http.ResponseWriter, r *http.Request) {
	var body logRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ts, err := s.bodyTime(body.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	saved, err := s.journal.RecordLog(r.Context(), domain.SubjectiveLog{
		Timestamp:       ts,
		Focus:           body.Focus,
		Mood:            body.Mood,
		Energy:          body.Energy,
		Appetite:        body.Appetite,
		InnerUnrest:     body.InnerUnrest,
		PainSeverity:    body.PainSeverity,
		AuraDurationMin: body.AuraDurationMin,
		AuraType:        domain.AuraType(body.AuraType),
		Photophobia:     body.Photophobia,
		Phonophobia:     body.Phonophobia,
		Tags:            body.Tags,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleLogList(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.window(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := s.journal.ListLogs(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.SubjectiveLog{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleLogDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.journal.DeleteLog(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleLogReminder(w http.ResponseWriter, r *http.Request) {
	sched, err := s.journal.Reminders(r.Context(), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleMealCreate(w http.ResponseWriter, r *http.Request) {
	var body mealRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ts, err := s.bodyTime(body.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	saved, err := s.journal.RecordMeal(r.Context(), domain.Meal{Timestamp: ts, Type: domain.MealType(body.MealType), Notes: body.Notes})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleMealList(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.window(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := s.journal.ListMeals(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Meal{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleMealDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.journal.DeleteMeal(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleModelFit(w http.ResponseWriter, r *http.Request) {
	res, err := s.fit.Fit(r.Context(), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
