package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/couchcryptid/forecast-etl/internal/chart"
	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/gorilla/mux"
)

// maxPayloadBytes caps POST /v1/normalize bodies.
const maxPayloadBytes = 4 << 20

// handleNormalize builds a forecast from the request body. With ?location=
// the document is also stored and served by the GET routes afterwards.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read payload: "+err.Error())
		return
	}

	location := r.URL.Query().Get("location")
	if location == "" {
		fc, long, err := domain.Normalize(payload, s.deps.Options)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, domain.ForecastDocument{
			ID:          domain.DocumentID("", payload),
			Days:        fc,
			Long:        long,
			ProcessedAt: s.deps.Clock.Now().UTC(),
		})
		return
	}

	doc, err := s.deps.Builder.Build(r.Context(), location, payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.deps.Store.Put(r.Context(), doc); err != nil {
		s.logger.Error("store forecast failed", "location", location, "error", err)
		writeError(w, http.StatusInternalServerError, "store forecast")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	day, ok := selectDay(w, r, doc)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleLong(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc.Long)
}

func (s *Server) handleDayChart(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	day, ok := selectDay(w, r, doc)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := chart.RenderDay(&buf, doc.Location, day); err != nil {
		s.logger.Error("render day chart failed", "location", doc.Location, "error", err)
		writeError(w, http.StatusInternalServerError, "render chart")
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleLongChart(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := chart.RenderLong(&buf, doc.Location, doc.Long); err != nil {
		s.logger.Error("render long chart failed", "location", doc.Location, "error", err)
		writeError(w, http.StatusInternalServerError, "render chart")
		return
	}
	writeHTML(w, buf.Bytes())
}

// lookup loads the document for the {location} route variable, writing the
// error response itself when it returns false.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (domain.ForecastDocument, bool) {
	location := mux.Vars(r)["location"]
	doc, err := s.deps.Store.Get(r.Context(), location)
	switch {
	case errors.Is(err, domain.ErrForecastNotFound):
		writeError(w, http.StatusNotFound, "no forecast for "+location)
		return doc, false
	case err != nil:
		s.logger.Error("load forecast failed", "location", location, "error", err)
		writeError(w, http.StatusInternalServerError, "load forecast")
		return doc, false
	}
	return doc, true
}

func selectDay(w http.ResponseWriter, r *http.Request, doc domain.ForecastDocument) (domain.DayRecord, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusNotFound, "invalid day index")
		return domain.DayRecord{}, false
	}
	day, ok := doc.Day(index)
	if !ok {
		writeError(w, http.StatusNotFound, "day index "+strconv.Itoa(index)+" out of range")
		return domain.DayRecord{}, false
	}
	return day, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck // client went away
}
