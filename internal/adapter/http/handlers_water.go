package adapthttp

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"biodash/internal/app"
	"biodash/internal/domain"
)

type waterEventRequest struct {
	AmountMl  int    `json:"amount_ml" validate:"gt=0"`
	Source    string `json:"source" validate:"omitempty,oneof=watch manual ha"`
	Notes     string `json:"notes" validate:"max=500"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleWaterToday(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	events, err := s.water.Today(r.Context(), now)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	total, err := s.water.GetTodayTotal(r.Context(), now)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"today":    s.localDayString(now),
		"total_ml": total,
		"events":   events,
	})
}

func (s *Server) handleWaterEvent(w http.ResponseWriter, r *http.Request) {
	var body waterEventRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e := domain.WaterEvent{Timestamp: s.now(), AmountMl: body.AmountMl, Source: body.Source, Notes: body.Notes}
	if body.Timestamp != "" {
		ts, err := domain.ParseTimestamp(body.Timestamp, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		e.Timestamp = ts
	}
	id, velocity, err := s.water.RecordEvent(r.Context(), e)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "velocity": velocity})
}

func (s *Server) handleWaterRecent(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 20)
	items, err := s.water.ListRecent(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleWaterUndoLast(w http.ResponseWriter, r *http.Request) {
	undone, id, err := s.water.UndoLast(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"undone": undone, "id": id})
}

func (s *Server) handleWaterDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.water.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// parseLastDrink reads the watch's optional last drink time. Unparsable
// values are ignored like a missing one.
func (s *Server) parseLastDrink(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := domain.ParseTimestamp(raw, s.loc)
	if err != nil {
		s.log.Debug("ignoring last_drink_time", zap.String("value", raw), zap.Error(err))
		return nil
	}
	return &t
}

func (s *Server) handleWaterInstruction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	intake, _ := strconv.Atoi(q.Get("current_intake"))
	goal, _ := strconv.Atoi(q.Get("daily_goal"))

	ins, err := s.hydration.Instruction(r.Context(), app.WatchQuery{
		Now:         s.now(),
		IntakeMl:    intake,
		DailyGoalMl: goal,
		LastDrink:   s.parseLastDrink(q.Get("last_drink_time")),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

type watchReportRequest struct {
	DeviceID      string `json:"device_id" validate:"max=128"`
	CurrentIntake int    `json:"current_intake" validate:"gte=0"`
	DailyGoal     int    `json:"daily_goal" validate:"gte=0"`
	EntryCount    int    `json:"entry_count" validate:"gte=0"`
	LastDrinkTime string `json:"last_drink_time"`
	Timestamp     string `json:"timestamp"`
}

func (s *Server) handleWaterReport(w http.ResponseWriter, r *http.Request) {
	var body watchReportRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// The watch clock is informational; the server clock drives the day.
	ins, err := s.hydration.Report(r.Context(), app.WatchReport{
		DeviceID:    body.DeviceID,
		IntakeMl:    body.CurrentIntake,
		DailyGoalMl: body.DailyGoal,
		EntryCount:  body.EntryCount,
		LastDrink:   s.parseLastDrink(body.LastDrinkTime),
		Now:         s.now(),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "instruction": ins})
}

// handleWaterList defaults to the local day so far.
func (s *Server) handleWaterList(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	dayStart, _ := domain.DayBounds(now, s.loc)
	from, err := s.timeQuery(r, "from", dayStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := s.timeQuery(r, "to", now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := s.water.List(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.WaterEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
