package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/observability"
	"github.com/matzehuels/necklace/pkg/trial"
)

const studyGroups = `{"groups": [
	{"name": "A", "items": ["A1", "A2", "A3", "A4"]},
	{"name": "B", "items": ["B1", "B2", "B3"]},
	{"name": "C", "items": ["C1"]},
	{"name": "D", "items": ["D1", "D2", "D3", "D4"]},
	{"name": "E", "items": ["E1"]},
	{"name": "F", "items": ["F1"]}`

type fakeReports map[string]*trial.Report

func (f fakeReports) Get(_ context.Context, id string) (*trial.Report, error) {
	if r, ok := f[id]; ok {
		return r, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "report %s not found", id)
}

func (f fakeReports) Recent(_ context.Context, fingerprint string, limit int) ([]*trial.Report, error) {
	out := []*trial.Report{}
	for _, r := range f {
		if r.Fingerprint == fingerprint && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := trial.NewRunner(nil, nil, nil, logger)
	srv := httptest.NewServer(New(runner, logger, opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, resp)["status"])
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := get(t, srv, "/version")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.NotEmpty(t, body["version"])
}

func TestCheck(t *testing.T) {
	srv := newTestServer(t, Options{})

	t.Run("feasible", func(t *testing.T) {
		resp := post(t, srv, "/v1/check", studyGroups+"]}")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[CheckResponse](t, resp)
		assert.True(t, body.Feasible)
		assert.Equal(t, 14, body.Total)
		assert.Equal(t, 4, body.MaxSize)
		assert.Equal(t, "A", body.Largest)
		assert.Equal(t, 6, body.Groups)
		assert.Empty(t, body.Reason)
		assert.NotEmpty(t, body.Arrangements)
		assert.Greater(t, body.RingShare, 0.0)
	})

	t.Run("counts", func(t *testing.T) {
		body := decodeBody[CheckResponse](t, post(t, srv, "/v1/check", `{"items": ["A1", "A2", "B1", "B2"]}`))
		assert.Equal(t, "8", body.Arrangements)
		assert.Equal(t, "8", body.Rings)
		assert.Equal(t, 1.0, body.RingShare)
	})

	t.Run("infeasible", func(t *testing.T) {
		resp := post(t, srv, "/v1/check", `{"items": ["A1", "A2", "B1"]}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[CheckResponse](t, resp)
		assert.False(t, body.Feasible)
		assert.Contains(t, body.Reason, `"A"`)
		assert.Empty(t, body.Arrangements)
	})

	t.Run("malformed", func(t *testing.T) {
		resp := post(t, srv, "/v1/check", `{"groups": [`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, errors.ErrCodeInvalidInput, decodeBody[ErrorResponse](t, resp).Code)
	})

	t.Run("empty group", func(t *testing.T) {
		resp := post(t, srv, "/v1/check", `{"groups": [{"name": "A", "items": []}]}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, errors.ErrCodeEmptyGroup, decodeBody[ErrorResponse](t, resp).Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		resp := post(t, srv, "/v1/check", `{"items": ["A1", "B1"], "colour": "red"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCheckRejectsOtherContentTypes(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, err := http.Post(srv.URL+"/v1/check", "text/plain", strings.NewReader("A1 B1"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestSample(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, "/v1/sample", studyGroups+`], "seed": 7, "anchor": "C1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := decodeBody[trial.Sample](t, resp)
	require.Len(t, s.Labels, 14)
	assert.Equal(t, "C1", s.Labels[0])
	assert.True(t, s.Valid)
	assert.Equal(t, uint64(7), s.Seed)

	again := decodeBody[trial.Sample](t, post(t, srv, "/v1/sample", studyGroups+`], "seed": 7, "anchor": "C1"}`))
	assert.Equal(t, s, again)
}

func TestSampleErrors(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, "/v1/sample", `{"items": ["A1", "A2", "B1"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeInfeasible, decodeBody[ErrorResponse](t, resp).Code)

	resp = post(t, srv, "/v1/sample", `{"items": ["A1", "B1"], "anchor": "Z9"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRun(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, "/v1/run", studyGroups+`], "trials": 300, "workers": 2, "anchor": "C1", "top": 3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[RunResponse](t, resp)
	require.NotNil(t, body.Report)
	assert.False(t, body.Cached)
	assert.Equal(t, 300, body.Report.Trials)
	assert.Equal(t, 300, body.Report.Valid)
	assert.Equal(t, body.Report.Cycles+body.Report.NonCycles, body.Report.Trials)
	assert.LessOrEqual(t, len(body.Report.Top), 3)
	assert.NotEmpty(t, body.Report.RunID)
}

func TestRunLimits(t *testing.T) {
	srv := newTestServer(t, Options{MaxTrials: 100, MaxWorkers: 2})

	resp := post(t, srv, "/v1/run", `{"items": ["A1", "B1", "C1"], "trials": 101}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, srv, "/v1/run", `{"items": ["A1", "B1", "C1"], "workers": 64}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[RunResponse](t, resp)
	assert.Equal(t, 100, body.Report.Trials, "trials default to the server limit")
	assert.LessOrEqual(t, body.Report.Options.Workers, 2)

	resp = post(t, srv, "/v1/run", `{"items": ["A1", "B1", "C1"], "trials": -1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReports(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		srv := newTestServer(t, Options{})
		assert.Equal(t, http.StatusNotFound, get(t, srv, "/v1/reports/abc").StatusCode)
	})

	t.Run("found and missing", func(t *testing.T) {
		srv := newTestServer(t, Options{Reports: fakeReports{"abc": {RunID: "abc", Trials: 5}}})

		resp := get(t, srv, "/v1/reports/abc")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 5, decodeBody[trial.Report](t, resp).Trials)

		resp = get(t, srv, "/v1/reports/nope")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, errors.ErrCodeNotFound, decodeBody[ErrorResponse](t, resp).Code)
	})

	t.Run("recent", func(t *testing.T) {
		srv := newTestServer(t, Options{Reports: fakeReports{
			"a": {RunID: "a", Fingerprint: "fp"},
			"b": {RunID: "b", Fingerprint: "fp"},
			"c": {RunID: "c", Fingerprint: "other"},
		}})

		resp := get(t, srv, "/v1/reports?fingerprint=fp")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decodeBody[[]trial.Report](t, resp), 2)

		resp = get(t, srv, "/v1/reports?fingerprint=fp&limit=1")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decodeBody[[]trial.Report](t, resp), 1)

		assert.Equal(t, http.StatusBadRequest, get(t, srv, "/v1/reports").StatusCode)
		assert.Equal(t, http.StatusBadRequest, get(t, srv, "/v1/reports?fingerprint=fp&limit=0").StatusCode)
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.SetHTTPHooks(observability.NewPromHooks(reg))
	t.Cleanup(observability.Reset)

	srv := newTestServer(t, Options{Gatherer: reg})
	get(t, srv, "/healthz")

	resp := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "necklace_http_requests_total")
	assert.Contains(t, string(body), `route="/healthz"`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeDuplicateItem, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInfeasible, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}
