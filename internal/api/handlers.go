package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/necklace/pkg/buildinfo"
	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
	nio "github.com/matzehuels/necklace/pkg/io"
	"github.com/matzehuels/necklace/pkg/sequence"
	"github.com/matzehuels/necklace/pkg/trial"
)

// CheckResponse is the body of a /v1/check response.
type CheckResponse struct {
	Feasible bool   `json:"feasible"`
	Total    int    `json:"total"`
	MaxSize  int    `json:"max_size"`
	Largest  string `json:"largest"`
	Groups   int    `json:"groups"`
	Reason   string `json:"reason,omitempty"`

	// Arrangements and Rings are exact counts of valid orderings and of those
	// closing into rings, as decimal strings. They are omitted for infeasible
	// sets and sets too large to count.
	Arrangements string  `json:"arrangements,omitempty"`
	Rings        string  `json:"rings,omitempty"`
	RingShare    float64 `json:"ring_share,omitempty"`
}

// SampleRequest is the body of a /v1/sample request.
type SampleRequest struct {
	nio.Document
	trial.SampleOptions
}

// RunRequest is the body of a /v1/run request.
type RunRequest struct {
	nio.Document
	trial.Options
	Refresh bool `json:"refresh,omitempty"`
}

// RunResponse wraps a report with its cache status.
type RunResponse struct {
	Cached bool          `json:"cached"`
	Report *trial.Report `json:"report"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var doc nio.Document
	if !s.decode(w, r, &doc) {
		return
	}
	gs, err := doc.GroupSet()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := CheckResponse{
		Feasible: groups.Feasible(gs),
		Total:    gs.Total(),
		MaxSize:  gs.MaxSize(),
		Largest:  gs.Largest(),
		Groups:   gs.Len(),
	}
	if err := groups.CheckFeasible(gs); err != nil {
		resp.Reason = errors.UserMessage(err)
	} else if c, err := sequence.Count(gs); err == nil {
		resp.Arrangements = c.Valid.String()
		resp.Rings = c.Cycles.String()
		resp.RingShare = c.CycleShare()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	var req SampleRequest
	if !s.decode(w, r, &req) {
		return
	}
	gs, err := req.GroupSet()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sample, _, err := s.runner.Sample(r.Context(), gs, req.SampleOptions)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if !s.decode(w, r, &req) {
		return
	}
	gs, err := req.GroupSet()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	opts.Refresh = req.Refresh
	if opts.Trials > s.opts.MaxTrials {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"trials %d exceeds the server limit of %d", opts.Trials, s.opts.MaxTrials))
		return
	}
	if opts.Trials == 0 {
		opts.Trials = min(trial.DefaultTrials, s.opts.MaxTrials)
	}
	if opts.Workers == 0 || opts.Workers > s.opts.MaxWorkers {
		opts.Workers = s.opts.MaxWorkers
	}

	report, cached, err := s.runner.Execute(r.Context(), gs, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RunResponse{Cached: cached, Report: report})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.opts.Reports.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	fingerprint := r.URL.Query().Get("fingerprint")
	if fingerprint == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "fingerprint query parameter is required"))
		return
	}
	limit := DefaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	reports, err := s.opts.Reports.Recent(r.Context(), fingerprint, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// decode reads a JSON request body into v, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return false
	}
	return true
}
