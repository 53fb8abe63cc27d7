package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/spectools/pkg/buildinfo"
	"github.com/matzehuels/spectools/pkg/catalog"
	"github.com/matzehuels/spectools/pkg/pipeline"
	"github.com/matzehuels/spectools/pkg/radiative"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleEinstein(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	t, hit, err := s.runner.EinsteinWithCacheInfo(r.Context(), sourceName(r), data, pipeline.Options{})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleLineStrength(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	qv, err := floatParam(q, "q", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	tv, err := floatParam(q, "t", radiative.DefaultTemperature)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	t, hit, err := s.runner.LineStrengthWithCacheInfo(r.Context(), sourceName(r), data, pipeline.Options{Q: qv, Temperature: tv})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeJSON(w, http.StatusOK, t)
}

type partitionResponse struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Q           float64 `json:"q"`
}

func (s *Server) handlePartitionLinear(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	b, err := requiredFloat(q, "b")
	if err != nil {
		writeError(w, err)
		return
	}
	s.writePartition(w, q, radiative.Linear{B: b})
}

func (s *Server) handlePartitionTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, err := requiredFloat(q, "a")
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := requiredFloat(q, "b")
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := floatParam(q, "c", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	sigma, err := floatParam(q, "sigma", 1)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writePartition(w, q, radiative.NewSymmetricTop(a, b, c, sigma))
}

func (s *Server) writePartition(w http.ResponseWriter, q url.Values, m radiative.PartitionModel) {
	t, err := floatParam(q, "t", radiative.DefaultTemperature)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := m.Q(t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partitionResponse{Model: m.String(), Temperature: t, Q: v})
}

type frequencyResponse struct {
	Low     float64         `json:"low"`
	High    float64         `json:"high"`
	Entries []catalog.Entry `json:"entries"`
}

func (s *Server) handleCatalogFrequency(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, notFound("no catalog configured"))
		return
	}
	q := r.URL.Query()
	f, err := requiredFloat(q, "f")
	if err != nil {
		writeError(w, err)
		return
	}
	prox, err := floatParam(q, "prox", 0.1)
	if err != nil {
		writeError(w, err)
		return
	}
	relative := false
	if v := q.Get("relative"); v != "" {
		if relative, err = strconv.ParseBool(v); err != nil {
			writeError(w, badRequest("relative: %q is not a boolean", v))
			return
		}
	}

	entries, err := s.catalog.SearchFrequency(r.Context(), f, prox, relative)
	if err != nil {
		writeError(w, err)
		return
	}
	lo, hi := catalog.FrequencyWindow(f, prox, relative)
	writeJSON(w, http.StatusOK, frequencyResponse{Low: lo, High: hi, Entries: entries})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, badRequest("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, badRequest("read request body: %v", err)
	}
	return data, nil
}

// sourceName labels an uploaded table, from the ?name= parameter if given.
func sourceName(r *http.Request) string {
	if n := r.URL.Query().Get("name"); n != "" {
		return n
	}
	return "upload"
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, badRequest("%s: %q is not a number", name, v)
	}
	return f, nil
}

func requiredFloat(q url.Values, name string) (float64, error) {
	if q.Get(name) == "" {
		return 0, badRequest("missing required parameter %q", name)
	}
	return floatParam(q, name, 0)
}
