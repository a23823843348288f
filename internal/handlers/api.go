package handlers

import (
	"net/http"

	"github.com/fiberwatch/fiberwatch/internal/api"
	"github.com/fiberwatch/fiberwatch/internal/services"
	"github.com/fiberwatch/fiberwatch/internal/slack"
)

// APIHandler serves the management API: reports, service catalog, and fiber
// plant tracking.
type APIHandler struct {
	reportService  *services.ReportService
	catalogService *services.CatalogService
	fiberService   *services.FiberService
	notifier       *slack.Notifier // nil when Slack is not configured
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(reportService *services.ReportService, catalogService *services.CatalogService, fiberService *services.FiberService) *APIHandler {
	return &APIHandler{
		reportService:  reportService,
		catalogService: catalogService,
		fiberService:   fiberService,
	}
}

// SetNotifier enables Slack notifications for generated reports.
func (h *APIHandler) SetNotifier(n *slack.Notifier) {
	h.notifier = n
}

// SetupRoutes sets up all API routes
func (h *APIHandler) SetupRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("/health", h.handleHealth)

	// SLA reports
	mux.HandleFunc("/api/reports", h.handleReports)
	mux.HandleFunc("GET /api/reports/{uuid}", h.handleGetReport)
	mux.HandleFunc("GET /api/reports/{uuid}/preview", h.handleReportPreview)

	// Service catalog
	mux.HandleFunc("/api/services", h.handleServices)
	mux.HandleFunc("/api/services/{serviceID}", h.handleServiceByID)

	// Fiber plant
	mux.HandleFunc("/api/fiber/segments", h.handleFiberSegments)
	mux.HandleFunc("PUT /api/fiber/segments/{id}/status", h.handleFiberStatus)
	mux.HandleFunc("GET /api/fiber/segments/{id}/history", h.handleFiberHistory)
}

// handleHealth handles GET /health
func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
