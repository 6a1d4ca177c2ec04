package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"dsexport/internal/domain"
	"dsexport/internal/exportapi"
)

// Task is one labeled item of a dataset.
type Task map[string]any

// Config tunes the server.
type Config struct {
	// Delay is added before every export response.
	Delay time.Duration
	// Fail lists dataset ids whose exports always answer 500.
	Fail []string
	Log  logrus.FieldLogger
	Now  func() time.Time
}

type export struct {
	record  domain.PreviousExport
	payload []byte
}

type dataset struct {
	tasks   []Task
	exports []export // newest first
}

// Server holds datasets and their export history in memory.
type Server struct {
	cfg     Config
	formats []domain.ExportFormat
	fail    map[string]bool

	mu       sync.RWMutex
	datasets map[string]*dataset
}

// New returns an empty Server offering the default formats.
func New(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	fail := make(map[string]bool, len(cfg.Fail))
	for _, id := range cfg.Fail {
		fail[strings.TrimSpace(id)] = true
	}
	return &Server{
		cfg:      cfg,
		formats:  DefaultFormats(),
		fail:     fail,
		datasets: make(map[string]*dataset),
	}
}

// DefaultFormats is the catalog every dataset offers, in display order.
func DefaultFormats() []domain.ExportFormat {
	return []domain.ExportFormat{
		{
			Name:        "JSON",
			Title:       "JSON",
			Description: "List of items in raw JSON format stored in one JSON file.",
			Tags:        []string{"common"},
		},
		{
			Name:        "CSV",
			Title:       "CSV",
			Description: "Results are stored as comma-separated values with the column names specified by the values of the \"from_name\" and \"to_name\" fields.",
			Tags:        []string{"common"},
		},
		{
			Name:        "TSV",
			Title:       "TSV",
			Description: "Results are stored in tab-separated tabular file.",
			Tags:        []string{"common"},
			Disabled:    true,
		},
	}
}

// AddDataset registers or replaces a dataset.
func (s *Server) AddDataset(id string, tasks []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[id] = &dataset{tasks: tasks}
}

// SeedDemo registers a couple of small datasets.
func (s *Server) SeedDemo() {
	s.AddDataset("1", []Task{
		{"id": 1, "text": "The quick brown fox", "label": "animal"},
		{"id": 2, "text": "Jumps over the lazy dog", "label": "animal"},
	})
	s.AddDataset("42", []Task{
		{"id": 1, "text": "Hello", "label": "greeting"},
		{"id": 2, "text": "Goodbye", "label": "farewell"},
		{"id": 3, "text": "Thanks", "label": "gratitude"},
	})
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/projects/{pk}/export", func(r chi.Router) {
		r.Get("/", s.handleExport)
		r.Get("/formats", s.handleFormats)
		r.Get("/files", s.handleFiles)
		r.Get("/files/{name}", s.handleFile)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.cfg.Log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  ww.Status(),
			"bytes":   ww.BytesWritten(),
			"attempt": r.Header.Get(exportapi.RequestIDHeader),
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Info("request")
	})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, *dataset, bool) {
	pk := chi.URLParam(r, "pk")
	s.mu.RLock()
	ds, ok := s.datasets[pk]
	s.mu.RUnlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return "", nil, false
	}
	return pk, ds, true
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := s.lookup(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.formats)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	_, ds, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.RLock()
	records := make([]domain.PreviousExport, 0, len(ds.exports))
	for _, e := range ds.exports {
		records = append(records, e.record)
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"export_files": records})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	_, ds, ok := s.lookup(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range ds.exports {
		if e.record.Name == name {
			w.Header().Set(exportapi.FilenameHeader, name)
			_, _ = w.Write(e.payload)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	pk, ds, ok := s.lookup(w, r)
	if !ok {
		return
	}
	format, ok := s.format(r.URL.Query().Get("exportType"))
	switch {
	case !ok:
		writeDetail(w, http.StatusBadRequest, "Unknown export type.")
		return
	case format.Disabled:
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Export type %s is not available.", format.Name))
		return
	}

	if s.cfg.Delay > 0 {
		select {
		case <-time.After(s.cfg.Delay):
		case <-r.Context().Done():
			return
		}
	}
	if s.fail[pk] {
		writeDetail(w, http.StatusInternalServerError, "Export failed.")
		return
	}

	s.mu.RLock()
	tasks := append([]Task(nil), ds.tasks...)
	s.mu.RUnlock()

	payload, contentType, err := render(format.Name, tasks)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := fmt.Sprintf("export_%s.%s", pk, strings.ToLower(format.Name))

	s.mu.Lock()
	ds.exports = append([]export{{
		record: domain.PreviousExport{
			Name:        name,
			CreatedAt:   s.cfg.Now().UTC(),
			Size:        int64(len(payload)),
			DownloadURL: "/api/projects/" + pk + "/export/files/" + name,
		},
		payload: payload,
	}}, ds.exports...)
	s.mu.Unlock()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set(exportapi.FilenameHeader, name)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(payload)
}

func (s *Server) format(name string) (domain.ExportFormat, bool) {
	if name == "" {
		name = s.formats[0].Name
	}
	for _, f := range s.formats {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return domain.ExportFormat{}, false
}

// columns returns the union of task keys, "id" first.
func columns(tasks []Task) []string {
	seen := map[string]bool{}
	var cols []string
	for _, t := range tasks {
		for k := range t {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i] == "id" || cols[j] == "id" {
			return cols[i] == "id"
		}
		return cols[i] < cols[j]
	})
	return cols
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
