package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"holidaycal/internal/config"
	appLog "holidaycal/internal/log"
	"holidaycal/internal/model"
	"holidaycal/internal/schedule"
)

// Server provides a read-only HTTP API over the most recently compiled
// schedule.
type Server struct {
	cfg *config.Config
	loc *time.Location
	mux *http.ServeMux

	mu        sync.RWMutex
	current   *schedule.Schedule
	updatedAt time.Time
}

// NewServer constructs a new Server. Until Publish is called every
// endpoint except /health answers 503.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		loc: resolveLocationOrLocal(cfg.Timezone),
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Publish swaps in a freshly compiled schedule.
func (s *Server) Publish(sc *schedule.Schedule) {
	s.mu.Lock()
	s.current = sc
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

func (s *Server) snapshot() (*schedule.Schedule, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.updatedAt
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// ListenAndServe serves the API on cfg.Listen until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="holidaycal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/days", s.handleDays)
	s.mux.HandleFunc("/api/day", s.handleDay)
	s.mux.HandleFunc("/api/offdays", s.handleOffDays)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// daysResponse is the JSON response shape for /api/days.
type daysResponse struct {
	Year      string     `json:"year"`
	Papers    []string   `json:"papers"`
	Holidays  []string   `json:"holidays"`
	Workdays  []string   `json:"workdays"`
	Days      []entryDTO `json:"days"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// entryDTO is a JSON-friendly view of a schedule entry.
type entryDTO struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	IsOffDay bool   `json:"isOffDay"`
}

// handleDays returns the announced days of one calendar year.
//
// GET /api/days?year=2020
func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	sc, updatedAt, ok := s.ready(w)
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year must be a number")
		return
	}
	label := strconv.Itoa(year)

	resp := daysResponse{
		Year:      label,
		Papers:    sc.Papers(label),
		Holidays:  []string{},
		Workdays:  []string{},
		Days:      []entryDTO{},
		UpdatedAt: updatedAt,
	}
	if resp.Papers == nil {
		resp.Papers = []string{}
	}
	if y, found := sc.Year(label); found {
		resp.Holidays = y.Holidays
		resp.Workdays = y.Workdays
		for _, e := range y.Entries {
			resp.Days = append(resp.Days, entryDTO{Name: e.Name, Date: e.DateString(), IsOffDay: e.IsOffDay})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDay classifies a single date; it defaults to today in the
// configured timezone.
//
// GET /api/day?date=2020-10-01
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	sc, _, ok := s.ready(w)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("date")
	t := time.Now().In(s.loc)
	if raw != "" {
		parsed, err := time.ParseInLocation(model.DateLayout, raw, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		t = parsed
	}
	writeJSON(w, http.StatusOK, sc.Day(t))
}

// offDaysResponse is the JSON response shape for /api/offdays.
type offDaysResponse struct {
	Year    int      `json:"year"`
	OffDays []string `json:"off_days"`
}

// handleOffDays lists every off day of a year, weekends included.
//
// GET /api/offdays?year=2020
func (s *Server) handleOffDays(w http.ResponseWriter, r *http.Request) {
	sc, _, ok := s.ready(w)
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "year must be a number")
		return
	}

	off, err := sc.OffDays(year)
	if err != nil {
		appLog.Error("api offdays: expand failed", err, "year", year)
		writeError(w, http.StatusInternalServerError, "failed to expand off days")
		return
	}
	writeJSON(w, http.StatusOK, offDaysResponse{Year: year, OffDays: off})
}

func (s *Server) ready(w http.ResponseWriter) (*schedule.Schedule, time.Time, bool) {
	sc, updatedAt := s.snapshot()
	if sc == nil {
		writeError(w, http.StatusServiceUnavailable, "schedule not compiled yet")
		return nil, time.Time{}, false
	}
	return sc, updatedAt, true
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
