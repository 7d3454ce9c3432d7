package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/entry"
	"github.com/username/attendance-report/internal/model"
	"github.com/username/attendance-report/internal/report"
	"github.com/username/attendance-report/pkg/dateutil"
)

const xlsxSuffix = ".xlsx"

// pathParam returns an unescaped URL parameter
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// handleMonthlyReport serves GET /api/reports/{employee}/{yearMonth}.
// A ".xlsx" suffix on the year-month downloads the report as a workbook.
// Repeated ?main= parameters override the configured main titles.
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	employee := pathParam(r, "employee")
	yearMonth := pathParam(r, "yearMonth")
	asXLSX := strings.HasSuffix(yearMonth, xlsxSuffix)
	yearMonth = strings.TrimSuffix(yearMonth, xlsxSuffix)

	var mainTitles []string
	if q := r.URL.Query(); q.Has("main") {
		mainTitles = []string{}
		for _, t := range q["main"] {
			if t = strings.TrimSpace(t); t != "" {
				mainTitles = append(mainTitles, t)
			}
		}
	}

	rep, err := s.deps.Reports.AggregateMonth(r.Context(), employee, yearMonth, mainTitles)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rep == nil {
		s.fail(w, r, http.StatusNotFound, "nothing_to_report",
			fmt.Sprintf("no entries for %s in %s", employee, yearMonth))
		return
	}

	if !asXLSX {
		s.success(w, r, http.StatusOK, rep)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, rep); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(report.XLSXFilename(rep))))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Reports.DailySummary(r.Context(), pathParam(r, "date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, summary)
}

func (s *Server) handleSubmitEntries(w http.ResponseWriter, r *http.Request) {
	var sub entry.Submission
	if err := s.decodeJSON(r, &sub); err != nil {
		s.writeError(w, r, err)
		return
	}

	saved, err := s.deps.Entries.Submit(r.Context(), sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.success(w, r, http.StatusCreated, saved)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	key := model.EntryKey{
		Name:  pathParam(r, "name"),
		Date:  pathParam(r, "date"),
		Title: pathParam(r, "title"),
	}
	if err := s.deps.Entries.Delete(r.Context(), key); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, key)
}

type approvalRequest struct {
	Role     string `json:"role"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	Approved bool   `json:"approved"`
}

func (s *Server) handleSetApproval(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	capability, err := s.deps.Authority.Unlock(role, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key := model.EntryKey{Name: req.Name, Date: req.Date, Title: req.Title}
	if err := s.deps.Approvals.SetApproval(r.Context(), capability, key, role, req.Approved); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, map[string]any{
		"entry":    key,
		"role":     role,
		"approved": req.Approved,
	})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Calendar.ClassifyDate(r.Context(), pathParam(r, "date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, c)
}

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(pathParam(r, "year"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: year must be a number", apperr.ErrInvalidInput))
		return
	}

	holidays, err := s.deps.Calendar.Holidays().HolidaysInYear(year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	type holiday struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	out := make([]holiday, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, holiday{Date: dateutil.FormatISO(h.Date), Name: h.Name})
	}
	s.success(w, r, http.StatusOK, out)
}

func (s *Server) handleListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := s.deps.Calendar.ListOverrides(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if overrides == nil {
		overrides = []model.CalendarOverride{}
	}
	s.success(w, r, http.StatusOK, overrides)
}

func (s *Server) handleGetOverride(w http.ResponseWriter, r *http.Request) {
	o, err := s.deps.Calendar.GetOverride(r.Context(), pathParam(r, "date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, o)
}

type overrideRequest struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

func (s *Server) handlePutOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	o, err := s.deps.Calendar.SetOverride(r.Context(), pathParam(r, "date"), req.Description, req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, o)
}

func (s *Server) handleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	date := pathParam(r, "date")
	if err := s.deps.Calendar.DeleteOverride(r.Context(), date); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.success(w, r, http.StatusOK, map[string]string{"date": date})
}
