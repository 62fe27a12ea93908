package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/slok/tasklist/internal/app/add"
	"github.com/slok/tasklist/internal/app/alert"
	"github.com/slok/tasklist/internal/app/complete"
	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/app/remove"
	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
	"github.com/slok/tasklist/internal/session"
	"github.com/slok/tasklist/internal/storage"
)

// SessionCookieName is the cookie that carries the session ID.
const SessionCookieName = "tasklist_session"

var (
	//go:embed templates/*.tmpl
	templatesFS embed.FS
	//go:embed static
	staticFS embed.FS
)

// ServerConfig is the configuration for the web server.
type ServerConfig struct {
	ListenAddr string
	Repository storage.Repository
	Sessions   *session.Manager
	// Now returns the current time, used to know what today is.
	Now func() time.Time
	// IDGenerator returns new task IDs, defaults to the add service default.
	IDGenerator func() string
	Logger      log.Logger
}

func (c *ServerConfig) defaults() error {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Sessions == nil {
		return fmt.Errorf("session manager is required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "web.Server"})
	return nil
}

// Server serves the task list page, its stylesheet and a read only JSON view.
type Server struct {
	server   *http.Server
	mux      *http.ServeMux
	repo     storage.Repository
	sessions *session.Manager
	tmpl     *template.Template
	logger   log.Logger

	addSvc      *add.Service
	completeSvc *complete.Service
	removeSvc   *remove.Service
	listSvc     *list.Service
	alertSvc    *alert.Service
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{"rowClass": rowClass}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	addSvc, err := add.NewService(add.ServiceConfig{Repository: cfg.Repository, IDGenerator: cfg.IDGenerator, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create add service: %w", err)
	}
	completeSvc, err := complete.NewService(complete.ServiceConfig{Repository: cfg.Repository, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create complete service: %w", err)
	}
	removeSvc, err := remove.NewService(remove.ServiceConfig{Repository: cfg.Repository, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create remove service: %w", err)
	}
	listSvc, err := list.NewService(list.ServiceConfig{Now: cfg.Now, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create list service: %w", err)
	}
	alertSvc, err := alert.NewService(alert.ServiceConfig{Now: cfg.Now, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create alert service: %w", err)
	}

	s := &Server{
		mux:         http.NewServeMux(),
		repo:        cfg.Repository,
		sessions:    cfg.Sessions,
		tmpl:        tmpl,
		logger:      cfg.Logger,
		addSvc:      addSvc,
		completeSvc: completeSvc,
		removeSvc:   removeSvc,
		listSvc:     listSvc,
		alertSvc:    alertSvc,
	}
	s.routes()

	s.server = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() {
	static, _ := fs.Sub(staticFS, "static")

	s.mux.HandleFunc("GET /{$}", s.withSession(s.handleIndex))
	s.mux.HandleFunc("POST /{$}", s.withSession(s.handleAdd))
	s.mux.HandleFunc("GET /api/tasks", s.withSession(s.handleAPITasks))
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
}

// Run starts the server and blocks until ctx is cancelled. It performs a
// graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("web server listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server error: %w", err)
	case <-ctx.Done():
		s.logger.Infof("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web server shutdown error: %w", err)
		}
		return nil
	}
}

// ServeHTTP sets the security headers and dispatches to the routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "same-origin")
	h.Set("Content-Security-Policy", "default-src 'self'")

	s.logger.Debugf("%s %s", r.Method, r.URL.RequestURI())
	s.mux.ServeHTTP(w, r)
}

type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves the request session, hydrating its collection from
// the repository on first use, and holds its lock while the handler runs.
func (s *Server) withSession(next sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookieName); err == nil {
			id = c.Value
		}

		sess, created := s.sessions.Get(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		sess.Lock()
		defer sess.Unlock()

		if !sess.Loaded() {
			tasks, err := s.repo.LoadTasks(r.Context())
			if err != nil {
				s.logger.Errorf("could not load tasks: %s", err)
				http.Error(w, "could not load tasks", http.StatusInternalServerError)
				return
			}
			sess.SetTasks(tasks)
			sess.ArmAlerts(s.alertSvc.Run(r.Context(), tasks))
		}

		next(w, r, sess)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	q := r.URL.Query()

	// Complete takes precedence over delete when both are present.
	switch {
	case strings.TrimSpace(q.Get("complete")) != "":
		s.mutate(w, r, sess, func(ctx context.Context) ([]model.Task, error) {
			resp, err := s.completeSvc.Run(ctx, complete.Request{Tasks: sess.Tasks(), ID: q.Get("complete")})
			if err != nil {
				return nil, err
			}
			return resp.Tasks, nil
		})
		return
	case strings.TrimSpace(q.Get("delete")) != "":
		s.mutate(w, r, sess, func(ctx context.Context) ([]model.Task, error) {
			resp, err := s.removeSvc.Run(ctx, remove.Request{Tasks: sess.Tasks(), ID: q.Get("delete")})
			if err != nil {
				return nil, err
			}
			return resp.Tasks, nil
		})
		return
	}

	s.render(w, r, sess)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if !r.PostForm.Has("task") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.mutate(w, r, sess, func(ctx context.Context) ([]model.Task, error) {
		resp, err := s.addSvc.Run(ctx, add.Request{
			Tasks:       sess.Tasks(),
			Description: r.PostForm.Get("task"),
			DueDate:     r.PostForm.Get("date"),
		})
		if err != nil {
			return nil, err
		}
		return resp.Tasks, nil
	})
}

// mutate runs a collection mutation and redirects back to the page. Invalid
// input and unknown IDs are ignored, persistence errors are reported.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, sess *session.Session, fn func(ctx context.Context) ([]model.Task, error)) {
	tasks, err := fn(r.Context())
	switch {
	case err == nil:
		sess.SetTasks(tasks)
		sess.ArmAlerts(s.alertSvc.Run(r.Context(), tasks))
	case errors.Is(err, model.ErrNotValid), errors.Is(err, model.ErrNotFound):
		s.logger.Debugf("ignoring request: %s", err)
	default:
		s.logger.Errorf("could not update tasks: %s", err)
		http.Error(w, "could not save tasks", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type indexData struct {
	Alerts []model.Alert
	Items  []list.Item
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	resp, err := s.listSvc.Run(r.Context(), list.Request{Tasks: sess.Tasks()})
	if err != nil {
		s.logger.Errorf("could not list tasks: %s", err)
		http.Error(w, "could not list tasks", http.StatusInternalServerError)
		return
	}

	var b bytes.Buffer
	data := indexData{Alerts: sess.PendingAlerts(), Items: resp.Items}
	if err := s.tmpl.ExecuteTemplate(&b, "index.html.tmpl", data); err != nil {
		s.logger.Errorf("could not render page: %s", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}

	// Shown alerts are consumed only once the page has been rendered.
	sess.TakeAlerts()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b.Bytes())
}

func rowClass(item list.Item) string {
	if item.Status == model.TaskStatusNormal {
		return ""
	}
	return string(item.Status)
}
