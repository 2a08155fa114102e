package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"scamlab-go/internal/call"
	"scamlab-go/internal/dataset"
	"scamlab-go/internal/logger"
)

// Server holds the loaded dataset and the call lab dependencies. The
// dataset is read-only after startup; derived views are recomputed per
// request from it.
type Server struct {
	rows      []dataset.Row
	summary   dataset.Summary
	scenarios []string
	names     []string

	manager  *call.Manager
	analyzer call.Analyzer
	log      *logger.Logger
}

func New(rows []dataset.Row, manager *call.Manager, analyzer call.Analyzer) *Server {
	return &Server{
		rows:      rows,
		summary:   dataset.Summarize(rows),
		scenarios: dataset.Distinct(rows, dataset.ColScenario),
		names:     dataset.Distinct(rows, dataset.ColName),
		manager:   manager,
		analyzer:  analyzer,
		log:       logger.New(),
	}
}

// Router wires all endpoints.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(s.requestLogMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/scenarios", s.handleScenarios).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rows", s.handleRows).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/charts", s.handleCharts).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/calls", s.handleCreateCall).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/calls/{id}", s.handleGetCall).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/analysis", s.handleAnalysis).Methods(http.MethodPost, http.MethodOptions)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithRequest(r).Debug("request received")
		next.ServeHTTP(w, r)
	})
}
