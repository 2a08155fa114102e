package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"scamlab-go/internal/aggregate"
	"scamlab-go/internal/call"
	"scamlab-go/internal/chart"
	"scamlab-go/internal/dataset"
	"scamlab-go/internal/filter"
	"scamlab-go/internal/retell"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.summary)
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"scenarios": s.scenarios,
		"names":     s.names,
		"charts":    chart.Kinds(),
	})
}

// filterStateFromQuery builds the filter selection from query params:
// `scenario`/`name` are substring filters, repeated `scenarios`/`names`
// are set selections ("All" short-circuits).
func filterStateFromQuery(r *http.Request) filter.State {
	q := r.URL.Query()
	return filter.State{
		Scenarios:        q["scenarios"],
		Names:            q["names"],
		ScenarioContains: q.Get("scenario"),
		NameContains:     q.Get("name"),
	}
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	rows := filter.Apply(s.rows, filterStateFromQuery(r))
	q := r.URL.Query()

	if col := q.Get("sort"); col != "" {
		sortRows(rows, col, q.Get("order") == "desc")
	}

	page := intParam(q.Get("page"), 1)
	perPage := intParam(q.Get("per_page"), 25)
	if perPage > 200 {
		perPage = 200
	}
	total := len(rows)
	// overflow-safe offset: pages past the end serve an empty slice, no
	// matter how absurd the page number
	var start int
	if page-1 > total/perPage {
		start = total
	} else {
		start = (page - 1) * perPage
		if start > total {
			start = total
		}
	}
	end := start + perPage
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"rows":     rows[start:end],
	})
}

// sortRows orders in place by a dataset column; call length compares
// numerically, everything else lexically.
func sortRows(rows []dataset.Row, column string, desc bool) {
	less := func(a, b dataset.Row) bool {
		if column == dataset.ColCallLength {
			fa, _ := strconv.ParseFloat(strings.TrimSpace(a.CallLength), 64)
			fb, _ := strconv.ParseFloat(strings.TrimSpace(b.CallLength), 64)
			return fa < fb
		}
		return a.Field(column) < b.Field(column)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	kind := chart.Kind(r.URL.Query().Get("chart"))
	if kind == "" {
		kind = chart.KindScenarioFrequency
	}

	rows := filter.Apply(s.rows, filterStateFromQuery(r))
	view := aggregate.Aggregate(rows)
	spec, err := chart.Render(view, kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

type createCallRequest struct {
	UserName    string `json:"user_name"`
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) handleCreateCall(w http.ResponseWriter, r *http.Request) {
	var req createCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	callID, err := s.manager.Submit(r.Context(), req.UserName, req.PhoneNumber)
	if err != nil {
		var vErr *call.ValidationError
		var pErr *retell.ProviderError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Reason)
		case errors.As(err, &pErr):
			writeError(w, http.StatusBadGateway, pErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to initiate call")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"call_id": callID})
}

func (s *Server) handleGetCall(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	snap, ok := s.manager.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown call id")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type analysisRequest struct {
	Transcript string `json:"transcript"`
}

// handleAnalysis proxies one transcript to the completion provider. The
// report comes back as a JSON-encoded string under "response", mirroring
// how the frontend double-decodes it.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Transcript == "" {
		writeError(w, http.StatusBadRequest, "Transcript is required")
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), req.Transcript)
	if err != nil {
		s.log.WithRequest(r).WithField("error", err.Error()).Error("analysis failed")
		writeError(w, http.StatusInternalServerError, "Failed to generate analysis.")
		return
	}

	encoded, err := json.Marshal(analysis)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate analysis.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": string(encoded)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func intParam(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
