// Package web serves the latest report and triggers runs over HTTP
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"authcheck-cli/testreport"
)

const (
	flashCookie  = "authcheck_flash"
	FlashRunDone = "Tests finished. Statistics updated."
	timeLayout   = "02.01.2006 15:04:05"
)

//go:embed templates/*.html
var templateFS embed.FS

// Coordinator runs the suite and serves the stored report
type Coordinator interface {
	Trigger(ctx context.Context) (*testreport.Report, error)
	Latest() (*testreport.Report, error)
}

// Server holds the HTTP handlers
type Server struct {
	coord    Coordinator
	gatherer prometheus.Gatherer
	page     *template.Template
	log      zerolog.Logger
}

type pageData struct {
	Report *testreport.Report
	Flash  string
	Groups []groupRow
}

type groupRow struct {
	Name string
	testreport.Counts
}

// NewServer parses the page template. A nil gatherer disables /metrics.
func NewServer(coord Coordinator, gatherer prometheus.Gatherer, logger zerolog.Logger) (*Server, error) {
	page, err := template.New("index.html").Funcs(template.FuncMap{
		"formatTS": formatTimestamp,
		"seconds":  formatSeconds,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page template")
	}
	return &Server{
		coord:    coord,
		gatherer: gatherer,
		page:     page,
		log:      logger.With().Str("component", "web").Logger(),
	}, nil
}

// Router wires all routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleRun).Methods(http.MethodPost)
	r.HandleFunc("/run", s.handleRun).Methods(http.MethodPost)
	r.HandleFunc("/api/report", s.handleReport).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	r.Use(s.logRequests)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "web server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "web server shutdown")
	}
	s.log.Info().Msg("web server stopped")
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{Flash: popFlash(w, r)}

	report, err := s.coord.Latest()
	switch {
	case err == nil:
		data.Report = report
		for _, name := range report.Stats.PerGroup.Names() {
			counts, _ := report.Stats.PerGroup.Get(name)
			data.Groups = append(data.Groups, groupRow{Name: name, Counts: counts})
		}
	case errors.Is(err, testreport.ErrNoReport):
	default:
		s.log.Error().Err(err).Msg("failed to load report")
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("failed to render page")
	}
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.coord.Trigger(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("run failed")
		http.Error(w, "run failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info().Str("summary", report.Summary()).Msg("run finished")

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(FlashRunDone),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.coord.Latest()
	if errors.Is(err, testreport.ErrNoReport) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no report yet"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load report")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := testreport.Encode(w, report); err != nil {
		s.log.Error().Err(err).Msg("failed to encode report")
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
	})
}

// popFlash returns the pending notice once and clears it
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func formatSeconds(v float64) string {
	return time.Duration(v * float64(time.Second)).Round(time.Millisecond).String()
}
