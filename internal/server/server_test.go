package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/photogrid/photogrid/pkg/album"
	"github.com/photogrid/photogrid/pkg/pipeline"
	"github.com/photogrid/photogrid/pkg/render"
)

func testServer(t *testing.T, store album.Store) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := New(DefaultConfig(), runner, store, logger)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getBody(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestHealthz(t *testing.T) {
	ts := testServer(t, nil)
	resp, data := getBody(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !bytes.Contains(data, []byte(`"ok"`)) {
		t.Errorf("unexpected body: %s", data)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestPackEndpoint(t *testing.T) {
	ts := testServer(t, nil)

	body := `{
		"items": [{"ratio": 1.0}, {"ratio": 1.0}, {"ratio": 2.0}],
		"container_width": 900,
		"columns": 3
	}`
	resp := postJSON(t, ts.URL+"/v1/pack", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var doc render.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(doc.Rows))
	}
	if doc.Rows[0].Height != 300 || doc.Rows[1].Height != 600 {
		t.Errorf("row heights = %v, %v, want 300, 600", doc.Rows[0].Height, doc.Rows[1].Height)
	}
	if doc.Stats.TotalRows != 2 {
		t.Errorf("stats rows = %d, want 2", doc.Stats.TotalRows)
	}
}

func TestPackEndpointSmoothedStats(t *testing.T) {
	ts := testServer(t, nil)

	// Smoothing moves the first tall item back into row one; the response
	// stats must describe the smoothed rows, not the packer's originals.
	body := `{
		"items": [{"ratio": 1.0}, {"ratio": 1.0667}, {"ratio": 2.0}, {"ratio": 1.9333}],
		"container_width": 900,
		"columns": 3
	}`
	resp := postJSON(t, ts.URL+"/v1/pack", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var doc render.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(doc.Rows))
	}
	min, max := doc.Rows[0].Height, doc.Rows[0].Height
	for _, row := range doc.Rows {
		if row.Height < min {
			min = row.Height
		}
		if row.Height > max {
			max = row.Height
		}
	}
	if doc.Stats.MaxRowHeight != max {
		t.Errorf("stats max = %v, rows max = %v", doc.Stats.MaxRowHeight, max)
	}
	if doc.Stats.MinRowHeight != min {
		t.Errorf("stats min = %v, rows min = %v", doc.Stats.MinRowHeight, min)
	}
}

func TestPackEndpointNoSmooth(t *testing.T) {
	ts := testServer(t, nil)

	body := `{
		"items": [{"ratio": 1.0}, {"ratio": 1.0667}, {"ratio": 2.0}, {"ratio": 1.9333}],
		"container_width": 900,
		"columns": 3,
		"smooth": false
	}`
	resp := postJSON(t, ts.URL+"/v1/pack", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var doc render.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Rows[0].Items) != 2 {
		t.Errorf("first row has %d items, want the packer's 2", len(doc.Rows[0].Items))
	}
}

func TestPackEndpointDimensions(t *testing.T) {
	ts := testServer(t, nil)

	// Width and height stand in for an explicit ratio.
	body := `{
		"items": [{"width": 4000, "height": 3000}],
		"container_width": 1000,
		"columns": 2
	}`
	resp := postJSON(t, ts.URL+"/v1/pack", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var doc render.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if got := doc.Rows[0].Items[0].Ratio; got != 0.75 {
		t.Errorf("ratio = %v, want 0.75", got)
	}
}

func TestPackEndpointErrors(t *testing.T) {
	ts := testServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing items", `{"container_width": 900, "columns": 3}`},
		{"zero width", `{"items": [{"ratio": 1}], "container_width": 0, "columns": 3}`},
		{"zero columns", `{"items": [{"ratio": 1}], "container_width": 900, "columns": 0}`},
		{"bad ratio", `{"items": [{"ratio": -1}], "container_width": 900, "columns": 3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/v1/pack", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var e errorBody
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if e.Type != "error" || e.Message == "" {
				t.Errorf("error body = %+v", e)
			}
		})
	}
}

func TestAlbumLifecycle(t *testing.T) {
	ts := testServer(t, album.NewMemoryStore())

	a := album.Album{
		ID:    "trip-1",
		Title: "Trip",
		Photos: []album.Photo{
			{Path: "a.jpg", Ratio: 1.0},
			{Path: "b.jpg", Ratio: 1.0},
			{Path: "c.jpg", Ratio: 2.0},
		},
	}
	payload, _ := json.Marshal(a)

	resp := postJSON(t, ts.URL+"/v1/albums/", string(payload))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	resp, data := getBody(t, ts.URL+"/v1/albums/trip-1/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	var got album.Album
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "Trip" || len(got.Photos) != 3 {
		t.Errorf("unexpected album: %+v", got)
	}

	resp, data = getBody(t, ts.URL+"/v1/albums/trip-1/layout?width=900&columns=3")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("layout status = %d, want 200: %s", resp.StatusCode, data)
	}
	var doc render.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Rows) != 2 || doc.Title != "Trip" {
		t.Errorf("layout = %d rows, title %q", len(doc.Rows), doc.Title)
	}

	resp, data = getBody(t, ts.URL+"/v1/albums/trip-1/gallery?width=900&columns=3")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("gallery status = %d, want 200", resp.StatusCode)
	}
	if !bytes.Contains(data, []byte("<!DOCTYPE html>")) || !bytes.Contains(data, []byte("a.jpg")) {
		t.Error("gallery output missing expected markup")
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/albums/trip-1/", nil)
	dresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	dresp.Body.Close()
	if dresp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", dresp.StatusCode)
	}

	resp, _ = getBody(t, ts.URL+"/v1/albums/trip-1/")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestAlbumEndpointsWithoutStore(t *testing.T) {
	ts := testServer(t, nil)
	resp, _ := getBody(t, ts.URL+"/v1/albums/")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestServerShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := New(Config{Addr: "127.0.0.1:0", ReadTimeout: time.Second, WriteTimeout: time.Second}, runner, nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	cancel()
	if err := <-done; err != nil && err != http.ErrServerClosed {
		t.Fatalf("shutdown: %v", err)
	}
}
