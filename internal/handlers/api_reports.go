package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/fiberwatch/fiberwatch/internal/api"
	"github.com/fiberwatch/fiberwatch/internal/ingest"
	"github.com/fiberwatch/fiberwatch/internal/sla"
	"github.com/fiberwatch/fiberwatch/internal/utils"
)

// maxUploadSize caps incident spreadsheet uploads (32 MB).
const maxUploadSize = 32 << 20

// handleReports handles GET /api/reports and POST /api/reports
func (h *APIHandler) handleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listReports(w, r)
	case http.MethodPost:
		h.createReport(w, r)
	default:
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// listReports returns stored reports, newest first, paginated.
func (h *APIHandler) listReports(w http.ResponseWriter, r *http.Request) {
	params := api.ParsePagination(r)

	reports, total, err := h.reportService.List(params.Offset(), params.PerPage)
	if err != nil {
		log.Printf("Failed to list reports: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	api.RespondJSON(w, http.StatusOK, api.PaginatedResponse{
		Data: api.ReportsToListItems(reports),
		Pagination: api.PaginationMeta{
			Page:       params.Page,
			PerPage:    params.PerPage,
			Total:      total,
			TotalPages: params.TotalPages(total),
		},
	})
}

// createReport ingests an uploaded incident spreadsheet and runs the SLA
// computation for the requested month.
func (h *APIHandler) createReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	month, err := strconv.Atoi(r.FormValue("month"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "month is required and must be a number")
		return
	}
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "year is required and must be a number")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	filename, err := utils.SanitizeFilename(header.Filename)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.parseUpload(file, filename)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.reportService.Generate(rows, month, year, filename)
	if err != nil {
		if errors.Is(err, sla.ErrInvalidPeriod) {
			api.RespondErrorWithCode(w, http.StatusUnprocessableEntity, "invalid_period", err.Error())
			return
		}
		log.Printf("Failed to generate report for %04d-%02d: %v", year, month, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	log.Printf("Generated SLA report %s for %s (%d services, %d rejected rows)",
		report.UUID, report.PeriodLabel, report.ServiceCount, report.RejectedCount)
	go h.notifier.ReportGenerated(report)
	api.RespondJSON(w, http.StatusCreated, api.ReportToListItem(*report))
}

// parseUpload picks the spreadsheet parser from the file extension.
func (h *APIHandler) parseUpload(file io.Reader, filename string) ([]sla.RawIncident, error) {
	loc := h.reportService.Location()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ingest.ParseCSV(file, loc)
	case ".xlsx", ".xlsm":
		return ingest.ParseXLSX(file, loc)
	default:
		return nil, fmt.Errorf("unsupported file type %q: expected .csv or .xlsx", filepath.Ext(filename))
	}
}

// handleGetReport handles GET /api/reports/{uuid}
func (h *APIHandler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	reportUUID := r.PathValue("uuid")
	if err := utils.ValidateReportUUID(reportUUID); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.reportService.Get(reportUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondNotFound(w, "Report")
			return
		}
		api.RespondError(w, http.StatusInternalServerError, "Failed to get report")
		return
	}
	api.RespondJSON(w, http.StatusOK, report)
}

// handleReportPreview handles GET /api/reports/{uuid}/preview with optional
// client, service, and service_id filters.
func (h *APIHandler) handleReportPreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	preview, err := h.reportService.Preview(
		r.PathValue("uuid"),
		query.Get("client"),
		query.Get("service"),
		query.Get("service_id"),
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondNotFound(w, "Report")
			return
		}
		log.Printf("Failed to build preview: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to build preview")
		return
	}
	api.RespondJSON(w, http.StatusOK, preview)
}
