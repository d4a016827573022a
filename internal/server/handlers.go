package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ppiankov/qfilter/internal/filters"
	"github.com/ppiankov/qfilter/internal/model"
	"github.com/ppiankov/qfilter/internal/query"
)

// ResolveRequest asks for the active type of a query
type ResolveRequest struct {
	Query string `json:"query"`
}

// ResolveResponse reports the active type of a query
type ResolveResponse struct {
	Query string                   `json:"query"`
	Type  filters.SearchFilterType `json:"type"`
}

// TypeRequest asks for a query rewritten to a result type
type TypeRequest struct {
	Query string `json:"query"`
	Type  string `json:"type"`
}

// QueryResponse carries a rewritten query
type QueryResponse struct {
	Query string                   `json:"query"`
	Type  filters.SearchFilterType `json:"type"`
}

// ToggleRequest asks for a sidebar item to be toggled in a query. Section
// names a sidebar section; when set its exclusivity and kinds apply.
type ToggleRequest struct {
	Query     string `json:"query"`
	Filter    string `json:"filter"`
	Section   string `json:"section,omitempty"`
	Exclusive bool   `json:"exclusive,omitempty"`
}

// SidebarRequest asks for the sidebar of a query and its results
type SidebarRequest struct {
	Query       string               `json:"query"`
	FilterQuery string               `json:"filterQuery,omitempty"`
	Matches     []model.SearchMatch  `json:"matches,omitempty"`
	Filters     []model.ResultFilter `json:"filters,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{
		Query: req.Query,
		Type:  s.editor.ResolveActiveType(req.Query),
	})
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	var req TypeRequest
	if !decodePost(w, r, &req) {
		return
	}
	typ, err := filters.ParseType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	next := s.editor.ApplyTypeChange(req.Query, typ)
	if s.metrics != nil {
		s.metrics.TypeChanged(typ.String())
	}
	writeJSON(w, http.StatusOK, QueryResponse{Query: next, Type: s.editor.ResolveActiveType(next)})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.Filter == "" {
		writeError(w, http.StatusBadRequest, "filter is required")
		return
	}

	var next string
	if req.Section != "" {
		sec, ok := filters.SectionByID(req.Section)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown section "+req.Section)
			return
		}
		next = s.editor.ToggleItem(req.Query, sec, req.Filter)
	} else {
		next = query.ToggleFilterText(req.Query, req.Filter, req.Exclusive)
	}
	writeJSON(w, http.StatusOK, QueryResponse{Query: next, Type: s.editor.ResolveActiveType(next)})
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	var req SidebarRequest
	if !decodePost(w, r, &req) {
		return
	}
	sb := s.editor.Sidebar(req.Query, req.Matches, req.Filters, filters.SidebarOptions{
		FilterQuery: req.FilterQuery,
		Now:         s.now(),
	})
	writeJSON(w, http.StatusOK, sb)
}

// decodePost enforces POST and decodes a bounded JSON body into dst
func decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
