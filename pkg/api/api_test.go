package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/spectools/pkg/cache"
	"github.com/matzehuels/spectools/pkg/catalog"
	errs "github.com/matzehuels/spectools/pkg/errors"
	"github.com/matzehuels/spectools/pkg/observability"
	"github.com/matzehuels/spectools/pkg/table"
)

func strLine(freq, rtdm float64) string {
	return fmt.Sprintf("%15.4f%15.6f%5s%12s%12s%11s", freq, rtdm, "303", " 1 0 1", " 0 0 0", "a")
}

func catLine(freq, lgint, elo float64) string {
	return fmt.Sprintf("%13.4f%8.4f%8.4f%2d%10.4f%3s%7d%4d%-12s%-12s", freq, 0.001, lgint, 3, elo, "3", 51001, 101, " 1", " 0")
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	rec := do(t, New(Options{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestEinstein(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(Options{Cache: c})
	body := strings.Join([]string{strLine(2000, 1), strLine(1000, 2)}, "\n")

	rec := do(t, s, http.MethodPost, "/v1/einstein?name=hc3n.str", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}

	var tbl table.Table
	if err := json.NewDecoder(rec.Body).Decode(&tbl); err != nil {
		t.Fatal(err)
	}
	if tbl.Source != "hc3n.str" || tbl.RunID == "" {
		t.Errorf("source/run = %q/%q", tbl.Source, tbl.RunID)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0].Frequency != 1000 {
		t.Fatalf("rows = %+v, want 2 sorted rows", tbl.Rows)
	}
	if got := tbl.Rows[0].EinsteinA; math.Abs(got-4.65586202e-11)/4.65586202e-11 > 1e-8 {
		t.Errorf("EinsteinA = %v, want 4.65586202e-11", got)
	}

	rec = do(t, s, http.MethodPost, "/v1/einstein", body)
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
}

func TestLineStrength(t *testing.T) {
	s := New(Options{})

	rec := do(t, s, http.MethodPost, "/v1/linestrength?q=100&t=300", catLine(9098.3321, -3.4521, 0))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var tbl table.LineStrengthTable
	if err := json.NewDecoder(rec.Body).Decode(&tbl); err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 1 || tbl.Q != 100 || tbl.Temperature != 300 {
		t.Errorf("table = %+v", tbl)
	}
	if tbl.Rows[0].LineStrength <= 0 || tbl.Rows[0].EinsteinA <= 0 {
		t.Errorf("row = %+v, want positive S and A", tbl.Rows[0])
	}
}

func TestPartition(t *testing.T) {
	s := New(Options{})

	tests := []struct {
		name   string
		target string
		want   float64
	}{
		{"linear", "/v1/partition/linear?b=4549.0586&t=300", 20837 * 300 / 4549.0586},
		{"linear default T", "/v1/partition/linear?b=20837", 300},
		{"top", "/v1/partition/top?a=1&b=1&c=1&t=1&sigma=2", 5.34e6 / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			var resp partitionResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if math.Abs(resp.Q-tt.want)/tt.want > 1e-9 {
				t.Errorf("Q = %v, want %v", resp.Q, tt.want)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	s := New(Options{})

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		status   int
		wantCode string
	}{
		{"parse error", http.MethodPost, "/v1/einstein", "garbage line", http.StatusBadRequest, string(errs.ErrCodeParse)},
		{"domain error", http.MethodGet, "/v1/partition/linear?b=0", "", http.StatusBadRequest, string(errs.ErrCodeDomain)},
		{"missing q", http.MethodPost, "/v1/linestrength", catLine(1, -3, 0), http.StatusBadRequest, string(errs.ErrCodeInvalidInput)},
		{"bad number", http.MethodGet, "/v1/partition/linear?b=abc", "", http.StatusBadRequest, string(errs.ErrCodeInvalidInput)},
		{"missing param", http.MethodGet, "/v1/partition/top?b=1", "", http.StatusBadRequest, string(errs.ErrCodeInvalidInput)},
		{"no catalog", http.MethodGet, "/v1/catalog/frequency?f=1", "", http.StatusNotFound, string(errs.ErrCodeNotFound)},
		{"unknown route", http.MethodGet, "/v2/nothing", "", http.StatusNotFound, string(errs.ErrCodeNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decodeError(t, rec); body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q (message %q)", body.Code, tt.wantCode, body.Message)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errs.Code
		want int
	}{
		{errs.ErrCodeParse, http.StatusBadRequest},
		{errs.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errs.ErrCodeFileNotFound, http.StatusNotFound},
		{errs.ErrCodeDuplicate, http.StatusConflict},
		{errs.ErrCodeProcess, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	s := New(Options{MaxBody: 16})
	rec := do(t, s, http.MethodPost, "/v1/einstein", strLine(1000, 2))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCatalogFrequency(t *testing.T) {
	ctx := context.Background()
	cat := catalog.NewCatalog(catalog.NewMemoryStore[catalog.Entry](), nil)
	for _, e := range []catalog.Entry{
		{Name: "a", Frequency: 1000},
		{Name: "b", CatalogFrequency: 1000.05},
		{Name: "c", Frequency: 2000},
	} {
		if _, err := cat.AddEntry(ctx, e, false); err != nil {
			t.Fatal(err)
		}
	}
	s := New(Options{Catalog: cat})

	rec := do(t, s, http.MethodGet, "/v1/catalog/frequency?f=1000&prox=0.1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp frequencyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Entries) != 2 {
		t.Errorf("entries = %+v, want a and b", resp.Entries)
	}

	rec = do(t, s, http.MethodGet, "/v1/catalog/frequency?f=1000&prox=0.5&relative=true", "")
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Entries) != 3 || resp.Low != 500 || resp.High != 1500 {
		t.Errorf("relative search = [%v, %v] %d entries, want [500, 1500] 3", resp.Low, resp.High, len(resp.Entries))
	}

	rec = do(t, s, http.MethodGet, "/v1/catalog/frequency?f=1000&relative=maybe", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad relative status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

type recordingHooks struct {
	observability.NoopAPIHooks
	mu     sync.Mutex
	status []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = append(h.status, status)
}

func TestAPIHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetAPIHooks(h)
	t.Cleanup(observability.Reset)

	s := New(Options{})
	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodGet, "/v1/partition/linear", "")

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.status) != 2 || h.status[0] != http.StatusOK || h.status[1] != http.StatusBadRequest {
		t.Errorf("statuses = %v, want [200 400]", h.status)
	}
}
