package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/dmitrijs2005/sleepdiary/internal/export"
	"github.com/dmitrijs2005/sleepdiary/internal/server/services"
	"github.com/dmitrijs2005/sleepdiary/internal/timex"
)

type createDiaryResponse struct {
	ID      string `json:"id"`
	SyncURL string `json:"sync_url"`
}

func (s *HTTPServer) createDiary(w http.ResponseWriter, r *http.Request) {
	id, err := s.diaries.Create(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createDiaryResponse{
		ID:      id,
		SyncURL: strings.TrimRight(s.publicURL, "/") + "/sync/" + id + "?diary=",
	})
}

// sync records the updates in the diary= query parameters. Browser clients
// fire these as cross-origin image-style GETs, so CORS is open.
func (s *HTTPServer) sync(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	n, err := s.diaries.Receive(r.Context(), r.PathValue("id"), r.URL.Query()["diary"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Debug(r.Context(), "sync accepted", "diary_id", r.PathValue("id"), "updates", n)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "OK\n")
}

// getDiary renders the replayed diary; ?format= picks diary, json, csv or
// calendar output.
func (s *HTTPServer) getDiary(w http.ResponseWriter, r *http.Request) {
	format := export.FormatJSON
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := export.ParseFormat(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	d, err := s.diaries.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	switch format {
	case export.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case export.FormatCSV, export.FormatCalendar:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	if err := export.Write(w, format, d, false, timex.Millis(s.now())); err != nil {
		s.logger.Error(r.Context(), "failed to render diary", "error", err)
	}
}

func (s *HTTPServer) getAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := s.diaries.Analysis(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := export.ReportJSON(w, report); err != nil {
		s.logger.Error(r.Context(), "failed to render analysis", "error", err)
	}
}

// fail maps service errors to HTTP statuses.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		http.Error(w, "diary not found", http.StatusNotFound)
	case errors.Is(err, common.ErrDecode), errors.Is(err, services.ErrEmptyUpdate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
