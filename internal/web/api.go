package web

import (
	"encoding/json"
	"net/http"

	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/session"
)

type apiTask struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Status    string `json:"status"`
}

// handleAPITasks returns the sorted collection of the session. It never
// consumes pending alerts.
func (s *Server) handleAPITasks(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	resp, err := s.listSvc.Run(r.Context(), list.Request{Tasks: sess.Tasks()})
	if err != nil {
		s.logger.Errorf("could not list tasks: %s", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not list tasks"})
		return
	}

	tasks := make([]apiTask, 0, len(resp.Items))
	for _, it := range resp.Items {
		tasks = append(tasks, apiTask{
			ID:        it.ID,
			Task:      it.Description,
			Date:      it.DueDate,
			Completed: it.Completed,
			Status:    string(it.Status),
		})
	}

	respond(w, http.StatusOK, tasks)
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
