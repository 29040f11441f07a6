package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/planner"
	"github.com/harrisonrobin/studyplan/pkg/render"
)

// Index handles GET /. A filter query parameter switches the selected filter.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query(); q.Has("filter") {
		f, err := planner.ParseFilter(q.Get("filter"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.Planner.SetFilter(f)
	}

	page := render.NewPage(s.Planner.View(), s.Planner.Notices().Active())
	if s.Refresh > 0 {
		page.Refresh = s.Refresh.Milliseconds()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, page); err != nil {
		log.Printf("Warning: failed to render page: %v", err)
	}
}

// CreateTask handles POST /tasks.
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	draft, err := model.ParseForm(model.FormValues{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Subject:     r.PostFormValue("subject"),
		Due:         r.PostFormValue("due"),
		Priority:    r.PostFormValue("priority"),
		Duration:    r.PostFormValue("duration"),
	}, s.Location)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.Planner.Add(r.Context(), draft); err != nil {
		if isFormError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ToggleTask handles POST /tasks/{taskID}/toggle.
func (s *Server) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if _, err := s.Planner.Toggle(r.Context(), id); err != nil {
		writeTaskError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteTask handles POST /tasks/{taskID}/delete. Without confirm=yes nothing is removed.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	confirmed := planner.ConfirmFunc(func(string) bool {
		return r.PostFormValue("confirm") == "yes"
	})
	if _, err := s.Planner.Delete(r.Context(), id, confirmed); err != nil {
		writeTaskError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ViewJSON handles GET /api/view.
func (s *Server) ViewJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Planner.View())
}

// NoticesJSON handles GET /api/notices.
func (s *Server) NoticesJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Planner.Notices().Active())
}

type partials struct {
	List     string `json:"list"`
	Stats    string `json:"stats"`
	Timeline string `json:"timeline"`
}

// PartialsJSON handles GET /api/partials: the list, stats and timeline
// fragments rendered from a fresh view, for the page to swap in.
func (s *Server) PartialsJSON(w http.ResponseWriter, r *http.Request) {
	v := s.Planner.View()
	list, err := render.TaskList(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	stats, err := render.StatsPanel(v.Stats)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	timeline, err := render.TimelineView(v.Timeline)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, partials{List: list, Stats: stats, Timeline: timeline})
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["taskID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeTaskError(w http.ResponseWriter, err error) {
	if errors.Is(err, planner.ErrTaskNotFound) {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

func isFormError(err error) bool {
	for _, target := range []error{
		model.ErrTitleRequired,
		model.ErrDueRequired,
		model.ErrDueInPast,
		model.ErrInvalidPriority,
		model.ErrInvalidDuration,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
