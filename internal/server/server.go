// Package server serves a built style guide over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"styledoc/internal/generator"
	"styledoc/internal/styleguide"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// DefaultPosition is where the index redirects when the guide has no root sections.
const DefaultPosition = "1"

// Server holds the current document and swaps it atomically on reload.
type Server struct {
	mu    sync.RWMutex
	doc   *styleguide.Document
	pages *generator.HTMLRenderer
	log   logrus.FieldLogger

	registry *prometheus.Registry
	sections prometheus.Gauge
	reloads  prometheus.Counter
	requests *prometheus.CounterVec
}

// New creates a server for doc.
func New(doc *styleguide.Document, pages *generator.HTMLRenderer, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		pages:    pages,
		log:      log,
		registry: prometheus.NewRegistry(),
		sections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "styledoc_sections",
			Help: "Number of sections in the served style guide.",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "styledoc_reloads_total",
			Help: "Number of times the style guide was rebuilt.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "styledoc_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"route", "code"}),
	}
	s.registry.MustRegister(s.sections, s.reloads, s.requests)
	s.setDocument(doc)
	return s
}

func (s *Server) setDocument(doc *styleguide.Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	s.sections.Set(float64(doc.Len()))
}

// Reload replaces the served document.
func (s *Server) Reload(doc *styleguide.Document) {
	s.setDocument(doc)
	s.reloads.Inc()
	s.log.WithField("sections", doc.Len()).Info("style guide reloaded")
}

// Document returns the document currently served.
func (s *Server) Document() *styleguide.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.instrument("index", s.handleIndex)).Methods(http.MethodGet)
	r.HandleFunc("/section/{position}", s.instrument("section", s.handleSection)).Methods(http.MethodGet)
	r.HandleFunc("/api/sections", s.instrument("api_sections", s.handleAPISections)).Methods(http.MethodGet)
	r.HandleFunc("/api/sections/{position}", s.instrument("api_section", s.handleAPISection)).Methods(http.MethodGet)
	r.HandleFunc("/api/roots", s.instrument("api_roots", s.handleAPIRoots)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// SectionURL is the browsing URL of a position.
func SectionURL(position string) string {
	return "/section/" + url.PathEscape(position)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	position := DefaultPosition
	if roots := s.Document().RootSections(); len(roots) > 0 {
		position = roots[0].Position
	}
	http.Redirect(w, r, SectionURL(position), http.StatusFound)
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	position := mux.Vars(r)["position"]
	page := generator.NewPage(s.Document(), position, SectionURL)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if len(page.Sections) == 0 {
		w.WriteHeader(http.StatusNotFound)
	}
	if err := s.pages.RenderPage(w, page); err != nil {
		s.log.WithError(err).WithField("position", position).Error("failed to render page")
	}
}

type sectionsResponse struct {
	Guide    string               `json:"guide"`
	Prefix   string               `json:"prefix,omitempty"`
	Sections []styleguide.Section `json:"sections"`
}

func (s *Server) handleAPISections(w http.ResponseWriter, r *http.Request) {
	doc := s.Document()
	prefix := r.URL.Query().Get("prefix")
	writeJSON(w, sectionsResponse{Guide: doc.Title, Prefix: prefix, Sections: doc.Sections(prefix)})
}

func (s *Server) handleAPISection(w http.ResponseWriter, r *http.Request) {
	position := mux.Vars(r)["position"]
	section, ok := s.Document().Section(position)
	if !ok {
		http.Error(w, "section not found", http.StatusNotFound)
		return
	}
	writeJSON(w, section)
}

func (s *Server) handleAPIRoots(w http.ResponseWriter, r *http.Request) {
	doc := s.Document()
	roots := doc.RootSections()
	if roots == nil {
		roots = []styleguide.Section{}
	}
	writeJSON(w, sectionsResponse{Guide: doc.Title, Sections: roots})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("serving style guide")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
