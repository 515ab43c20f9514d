package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fransm/boe-watcher/internal/gazette"
)

type ingestRequest struct {
	Date string `json:"date"`
}

// triggerIngest runs the pipeline once, for the requested date or today.
func (s *Server) triggerIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var targetDate time.Time
	if req.Date != "" {
		parsed, err := parseDateParam(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		targetDate = parsed
	}

	outcome, err := s.runner.Run(r.Context(), targetDate)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, outcome)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) listIssuers(w http.ResponseWriter, r *http.Request) {
	bodies, err := s.store.ListIssuingBodies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list issuing bodies")
		return
	}
	if bodies == nil {
		bodies = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"issuers": bodies})
}

// announcementDTO augments the stored row with the human-facing date form.
type announcementDTO struct {
	gazette.Announcement
	PublicationDateFormatted string `json:"publication_date_formatted"`
}

func (s *Server) listAnnouncements(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	anns, total, err := s.store.ListAnnouncements(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list announcements")
		return
	}

	items := make([]announcementDTO, 0, len(anns))
	for _, ann := range anns {
		items = append(items, announcementDTO{
			Announcement:             ann,
			PublicationDateFormatted: gazette.FormatDate(ann.PublicationDate),
		})
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 15
	}
	totalPages := (total + perPage - 1) / perPage
	writeJSON(w, http.StatusOK, map[string]any{
		"announcements": items,
		"total":         total,
		"page":          max(filter.Page, 1),
		"per_page":      perPage,
		"total_pages":   totalPages,
	})
}

func filterFromQuery(r *http.Request) (gazette.AnnouncementFilter, error) {
	q := r.URL.Query()
	filter := gazette.AnnouncementFilter{
		IssuingBody: q.Get("issuer"),
		Query:       q.Get("q"),
		Region:      q.Get("region"),
	}
	for name, dst := range map[string]*string{"from": &filter.FromDate, "to": &filter.ToDate} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		date, err := parseDateParam(raw)
		if err != nil {
			return gazette.AnnouncementFilter{}, fmt.Errorf("invalid %s date: %v", name, err)
		}
		*dst = date.Format(gazette.DateLayout)
	}
	for name, dst := range map[string]*int{"page": &filter.Page, "limit": &filter.PerPage} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return gazette.AnnouncementFilter{}, fmt.Errorf("invalid %s parameter", name)
		}
		*dst = n
	}
	return filter, nil
}

// parseDateParam accepts YYYYMMDD and YYYY-MM-DD.
func parseDateParam(raw string) (time.Time, error) {
	normalized := strings.ReplaceAll(raw, "-", "")
	date, err := time.Parse(gazette.DateLayout, normalized)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYYMMDD or YYYY-MM-DD")
	}
	return date, nil
}
