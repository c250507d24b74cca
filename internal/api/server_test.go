package api

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"creutz/internal/sims/creutz"
	"creutz/internal/store"

	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Run) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	results := []creutz.Result{
		{
			InitialEnergy: 100,
			StartEnergy:   100,
			Magnetization: 0.5,
			Fit:           creutz.Fit{Slope: -0.25, Intercept: 4, Temperature: 4, Bins: 2},
			Stats:         creutz.DemonStats{Accepted: 3, Rejected: 1},
			Histogram:     []creutz.Bin{{Energy: 0, Count: 20}, {Energy: 4, Count: 7}},
		},
		{
			InitialEnergy: 150,
			StartEnergy:   150,
			Magnetization: 0.5,
			Fit:           creutz.Fit{Temperature: math.NaN(), Bins: 2},
		},
	}
	run, err := s.SaveRun(context.Background(), creutz.DefaultConfig(), results)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	ts := httptest.NewServer(NewServer(s, log).Routes())
	t.Cleanup(ts.Close)
	return ts, run
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, expected %d", url, resp.StatusCode, wantStatus)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("GET %s: content type %q", url, ct)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	var body map[string]string
	getJSON(t, ts.URL+"/health", http.StatusOK, &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body %v", body)
	}
}

func TestListAndGetRun(t *testing.T) {
	ts, run := newTestServer(t)

	var runs []store.Run
	getJSON(t, ts.URL+"/api/v1/runs", http.StatusOK, &runs)
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Fatalf("unexpected runs %+v", runs)
	}

	var got store.Run
	getJSON(t, ts.URL+"/api/v1/runs/"+run.ID, http.StatusOK, &got)
	if got.ID != run.ID || got.Points != 2 || got.Params != creutz.DefaultParams() {
		t.Fatalf("unexpected run %+v", got)
	}
}

func TestPointsEncodeNaNAsNull(t *testing.T) {
	ts, run := newTestServer(t)
	var points []pointResponse
	getJSON(t, ts.URL+"/api/v1/runs/"+run.ID+"/points", http.StatusOK, &points)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Temperature == nil || *points[0].Temperature != 4 {
		t.Fatalf("first temperature = %v", points[0].Temperature)
	}
	if points[0].Acceptance != 0.75 {
		t.Fatalf("acceptance = %v, expected 0.75", points[0].Acceptance)
	}
	if points[1].Temperature != nil {
		t.Fatalf("NaN temperature should encode as null, got %v", *points[1].Temperature)
	}
}

func TestHistogram(t *testing.T) {
	ts, run := newTestServer(t)
	var h histogramResponse
	getJSON(t, ts.URL+"/api/v1/runs/"+run.ID+"/histogram/100", http.StatusOK, &h)
	if h.InitialEnergy != 100 || len(h.Bins) != 2 {
		t.Fatalf("unexpected histogram %+v", h)
	}
	if h.Bins[1].Energy != 4 || h.Bins[1].Count != 7 || h.Bins[1].LogCount != math.Log(7) {
		t.Fatalf("unexpected bin %+v", h.Bins[1])
	}
}

func TestErrors(t *testing.T) {
	ts, run := newTestServer(t)
	cases := []struct {
		path   string
		status int
	}{
		{"/api/v1/runs/missing", http.StatusNotFound},
		{"/api/v1/runs/missing/points", http.StatusNotFound},
		{"/api/v1/runs/" + run.ID + "/histogram/999", http.StatusNotFound},
		{"/api/v1/runs/" + run.ID + "/histogram/abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		var body errorResponse
		getJSON(t, ts.URL+tc.path, tc.status, &body)
		if body.Error == "" {
			t.Fatalf("%s: empty error message", tc.path)
		}
	}
}
