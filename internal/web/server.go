// Package web serves the interactive dashboard: a single embedded HTML page
// backed by a small JSON API over the query layer.
package web

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/huangsam/devlog/internal/contract"
	"github.com/huangsam/devlog/internal/store"
	"github.com/huangsam/devlog/schema"
)

//go:embed index.html
var indexHTML []byte

// Server exposes the dashboard page and its JSON API.
type Server struct {
	store *store.Store
	limit int
}

// NewServer builds a dashboard server over an open store. The limit bounds
// top-N results served by the API.
func NewServer(st *store.Store, limit int) *Server {
	if limit <= 0 {
		limit = contract.DefaultResultLimit
	}
	return &Server{store: st, limit: limit}
}

// Router wires all dashboard routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.getIndex).Methods("GET")
	r.HandleFunc("/api/meta", s.getMeta).Methods("GET")
	r.HandleFunc("/api/kpis", s.getKPIs).Methods("GET")
	r.HandleFunc("/api/volume", s.getVolume).Methods("GET")
	r.HandleFunc("/api/authors", s.getAuthors).Methods("GET")
	r.HandleFunc("/api/files", s.getFiles).Methods("GET")
	r.HandleFunc("/api/trend", s.getTrend).Methods("GET")
	r.HandleFunc("/api/commits", s.getCommits).Methods("GET")
	return r
}

// Run blocks serving HTTP on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) getIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) getMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := s.store.Meta(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, meta)
}

func (s *Server) getKPIs(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	kpis, err := s.store.KPIs(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, kpis)
}

func (s *Server) getVolume(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	points, err := s.store.CommitVolume(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, points)
}

func (s *Server) getAuthors(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	authors, err := s.store.TopAuthors(r.Context(), f, s.limitFromRequest(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, authors)
}

func (s *Server) getFiles(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	files, err := s.store.TopFiles(r.Context(), f, s.limitFromRequest(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, files)
}

func (s *Server) getTrend(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	if f.FilePattern == "" {
		// Trend without a pattern would sum churn across the whole tree,
		// which the chart cannot present meaningfully.
		writeJSON(w, []schema.TrendPoint{})
		return
	}
	points, err := s.store.FileTrend(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, points)
}

func (s *Server) getCommits(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	commits, err := s.store.ListCommits(r.Context(), f, s.limitFromRequest(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, commits)
}

// filterFromRequest parses the shared filter query parameters. On invalid
// input it writes a 400 response and reports false.
func (s *Server) filterFromRequest(w http.ResponseWriter, r *http.Request) (schema.Filter, bool) {
	q := r.URL.Query()
	f, err := contract.ParseFilter(
		q.Get("start"),
		q.Get("end"),
		q.Get("authors"),
		q.Get("pattern"),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return schema.Filter{}, false
	}
	switch q.Get("fix_only") {
	case "1", "true":
		f.FixOnly = true
	}
	return f, true
}

func (s *Server) limitFromRequest(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return s.limit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return s.limit
	}
	if n > contract.MaxResultLimit {
		return contract.MaxResultLimit
	}
	return n
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
