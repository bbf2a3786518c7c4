package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/service/reporting"
)

// ReportService is the reporting surface exposed over HTTP.
type ReportService interface {
	Options() academics.ReportOptions
	AnnualReport(ctx context.Context, year int, opts academics.ReportOptions) (reporting.AnnualReportResult, error)
	ExportAnnualReport(ctx context.Context, year int) (reporting.AnnualReportResult, error)
	DetailView(ctx context.Context, kind academics.DetailKind, criteria academics.Criteria) (reporting.DetailViewResult, error)
	ExportDetailView(ctx context.Context, kind academics.DetailKind, criteria academics.Criteria) (reporting.DetailViewResult, error)
}

// ReportsHandler serves annual reports and drill-down views.
type ReportsHandler struct {
	svc    ReportService
	logger *zap.Logger
}

// NewReportsHandler constructs the HTTP handler adapter.
func NewReportsHandler(svc ReportService, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, logger: logger}
}

// Annual builds the report of the :year path parameter.
func (h *ReportsHandler) Annual(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	opts := h.svc.Options()
	if raw := c.Query("includeUnassigned"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			failure(c, http.StatusBadRequest, "includeUnassigned must be a boolean")
			return
		}
		opts.IncludeUnassignedInAnyYear = include
	}

	result, err := h.svc.AnnualReport(c.Request.Context(), year, opts)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, result)
}

// ExportAnnual builds the report of :year and writes it to the spreadsheet.
func (h *ReportsHandler) ExportAnnual(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	result, err := h.svc.ExportAnnualReport(c.Request.Context(), year)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, result)
}

// Details returns the drill-down rows of :kind narrowed by the query.
func (h *ReportsHandler) Details(c *gin.Context) {
	kind, criteria, err := detailQuery(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	result, err := h.svc.DetailView(c.Request.Context(), kind, criteria)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, result)
}

// ExportDetails writes the rows Details would return to the spreadsheet.
func (h *ReportsHandler) ExportDetails(c *gin.Context) {
	kind, criteria, err := detailQuery(c)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	result, err := h.svc.ExportDetailView(c.Request.Context(), kind, criteria)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, result)
}

func detailQuery(c *gin.Context) (academics.DetailKind, academics.Criteria, error) {
	kind, err := academics.ParseDetailKind(c.Param("kind"))
	if err != nil {
		return "", academics.Criteria{}, err
	}
	return kind, academics.Criteria{
		SearchText: c.Query("search"),
		Department: c.Query("department"),
		Status:     c.Query("status"),
	}, nil
}

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		failure(c, http.StatusBadRequest, "year must be a calendar year")
		return 0, false
	}
	return year, true
}
