package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phenrril/tiendaropa/internal/adapters/export"
	"github.com/phenrril/tiendaropa/internal/domain"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

// salesFilter lee date, period, platform, category, q, sort y dir.
func salesFilter(q url.Values, now time.Time) (domain.SalesFilter, error) {
	f := domain.SalesFilter{Date: now.UTC(), Query: q.Get("q"), Sort: strings.ToLower(strings.TrimSpace(q.Get("sort")))}
	if d := strings.TrimSpace(q.Get("date")); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return f, domain.NewValidationError("date", "Invalid date %q: expected YYYY-MM-DD", d)
		}
		f.Date = t
	}
	p, err := domain.ParsePeriod(q.Get("period"))
	if err != nil {
		return f, err
	}
	f.Period = p
	if v := q.Get("platform"); v != "" && !strings.EqualFold(v, "all") {
		if f.Platform, err = domain.ParsePlatform(v); err != nil {
			return f, err
		}
	}
	if v := q.Get("category"); v != "" && !strings.EqualFold(v, "all") {
		if f.Category, err = domain.ParseCategory(v); err != nil {
			return f, err
		}
	}
	switch dir := strings.ToLower(q.Get("dir")); dir {
	case "":
	case "asc", "desc":
		if f.Sort == "" {
			f.Sort = "date"
		}
		f.Desc = dir == "desc"
	default:
		return f, domain.NewValidationError("dir", "Invalid sort direction %q", dir)
	}
	return f, nil
}

func (s *Server) apiSalesHistory(w http.ResponseWriter, r *http.Request) {
	f, err := salesFilter(r.URL.Query(), time.Now())
	if err != nil {
		writeError(w, r, err, "Sales", "fetching sales")
		return
	}
	rep, err := s.reports.SalesHistory(r.Context(), f)
	if err != nil {
		writeError(w, r, err, "Sales", "fetching sales")
		return
	}
	writeJSON(w, 200, rep)
}

func (s *Server) apiSalesExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := salesFilter(q, time.Now())
	if err != nil {
		writeError(w, r, err, "Sales", "exporting sales")
		return
	}
	sheet := export.SheetPeriod
	name := fmt.Sprintf("sales_%s_%s", f.Period, f.Date.Format("2006-01-02"))
	if all := q.Get("all"); all == "1" || strings.EqualFold(all, "true") {
		f.Period = domain.PeriodAll
		sheet = export.SheetAll
		name = "sales_all_data"
	}
	rep, err := s.reports.SalesHistory(r.Context(), f)
	if err != nil {
		writeError(w, r, err, "Sales", "exporting sales")
		return
	}

	var buf bytes.Buffer
	contentType := xlsxContentType
	switch format := strings.ToLower(q.Get("format")); format {
	case "", "xlsx":
		err = export.WriteSalesXLSX(&buf, sheet, rep.Rows)
		name += ".xlsx"
	case "csv":
		err = export.WriteSalesCSV(&buf, rep.Rows)
		contentType = csvContentType
		name += ".csv"
	default:
		writeError(w, r, domain.NewValidationError("format", "Invalid export format %q: must be xlsx or csv", format), "Sales", "exporting sales")
		return
	}
	if err != nil {
		writeError(w, r, err, "Sales", "exporting sales")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(200)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.reports.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err, "Dashboard", "fetching dashboard")
		return
	}
	writeJSON(w, 200, d)
}
