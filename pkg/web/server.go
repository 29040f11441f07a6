// Package web serves the planner page and its form over local HTTP.
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/harrisonrobin/studyplan/pkg/planner"
	"github.com/harrisonrobin/studyplan/pkg/render"
)

type Server struct {
	Planner *planner.Planner
	// Location is used to read due dates typed into the form.
	Location *time.Location
	// Refresh is how often an open page reloads its task fragments.
	Refresh time.Duration
}

func NewServer(p *planner.Planner) *Server {
	return &Server{Planner: p, Location: time.Local, Refresh: render.DefaultRefresh}
}

// Router registers every route on a new gorilla/mux router.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", s.Index).Methods(http.MethodGet)
	router.HandleFunc("/tasks", s.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID:[0-9]+}/toggle", s.ToggleTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID:[0-9]+}/delete", s.DeleteTask).Methods(http.MethodPost)
	router.HandleFunc("/api/view", s.ViewJSON).Methods(http.MethodGet)
	router.HandleFunc("/api/notices", s.NoticesJSON).Methods(http.MethodGet)
	router.HandleFunc("/api/partials", s.PartialsJSON).Methods(http.MethodGet)
	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Serving study planner on http://%s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
