package http

import (
	"bytes"
	"net/http"
	"strconv"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
)

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	asOf, err := ParseAsOf(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, err, "Summary", log.OpCompute)
		return
	}
	sum, err := s.svc.Summary.Summary(r.Context(), auth.UserIDFrom(r.Context()), asOf, 0)
	if err != nil {
		s.writeError(w, r, err, "Summary", log.OpCompute)
		return
	}
	NewJSONResponse().JSON(newSummaryJSON(sum)).Write(w)
}

func (s *Server) handleStatsCategories(w http.ResponseWriter, r *http.Request) {
	asOf, err := ParseAsOf(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, err, "Summary", log.OpCompute)
		return
	}
	sum, err := s.svc.Summary.Summary(r.Context(), auth.UserIDFrom(r.Context()), asOf, 0)
	if err != nil {
		s.writeError(w, r, err, "Summary", log.OpCompute)
		return
	}
	ranked := sum.Categories.Ranked()
	NewJSONResponse().JSON(map[string]any{
		"categories": categoryTotalsJSON(ranked),
		"total":      ranked.Sum(),
	}).Write(w)
}

func (s *Server) handleStatsMonthly(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, err := ParseYear(r.URL.Query(), now.Year())
	if err != nil {
		s.writeError(w, r, err, "Summary", log.OpCompute)
		return
	}
	sum, err := s.svc.Summary.Summary(r.Context(), auth.UserIDFrom(r.Context()), now, year)
	if err != nil {
		s.writeError(w, r, err, "Summary", log.OpCompute)
		return
	}
	NewJSONResponse().JSON(newMonthlyJSON(sum.Monthly)).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	asOf, err := ParseAsOf(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, err, "Dashboard", log.OpCompute)
		return
	}
	d, err := s.svc.Summary.Dashboard(r.Context(), auth.UserIDFrom(r.Context()), asOf)
	if err != nil {
		s.writeError(w, r, err, "Dashboard", log.OpCompute)
		return
	}
	NewJSONResponse().JSON(newDashboardJSON(d)).Write(w)
}

// exportTransactions lists the caller's transactions with the same filters as
// GET /api/transactions.
func (s *Server) exportTransactions(r *http.Request) ([]core.Transaction, error) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return s.svc.Transactions.List(r.Context(), auth.UserIDFrom(r.Context()), filter, s.now())
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	txs, err := s.exportTransactions(r)
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpExport)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, txs); err != nil {
		s.writeError(w, r, err, "Transaction", log.OpExport)
		return
	}
	writeAttachment(w, export.ContentTypeCSV, export.Filename("csv", s.now()), buf.Bytes())
}

// handleExportXLSX adds a Summary sheet for the requested year to the listing.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, err := ParseYear(r.URL.Query(), now.Year())
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpExport)
		return
	}
	txs, err := s.exportTransactions(r)
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpExport)
		return
	}
	sum, err := s.svc.Summary.Summary(r.Context(), auth.UserIDFrom(r.Context()), now, year)
	if err != nil {
		s.writeError(w, r, err, "Transaction", log.OpExport)
		return
	}

	var buf bytes.Buffer
	wb := export.Workbook{Transactions: txs, Series: sum.Monthly, Categories: sum.Categories.Ranked()}
	if err := export.WriteXLSX(&buf, wb); err != nil {
		s.writeError(w, r, err, "Transaction", log.OpExport)
		return
	}
	writeAttachment(w, export.ContentTypeXLSX, export.Filename("xlsx", now), buf.Bytes())
}

// writeAttachment sends a fully rendered export body.
func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
