package handlers

import (
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/fiberwatch/fiberwatch/internal/api"
	"github.com/fiberwatch/fiberwatch/internal/database"
	"github.com/fiberwatch/fiberwatch/internal/services"
)

// handleServices handles GET /api/services and POST /api/services
func (h *APIHandler) handleServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.catalogService.List()
		if err != nil {
			log.Printf("Failed to list services: %v", err)
			api.RespondError(w, http.StatusInternalServerError, "Failed to list services")
			return
		}
		api.RespondJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var req api.CreateServiceRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			api.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if fieldErrors := api.Validate(req); fieldErrors != nil {
			api.RespondValidationError(w, fieldErrors)
			return
		}

		svc := &database.Service{
			ServiceID:             req.ServiceID,
			Client:                req.Client,
			ServiceType:           req.ServiceType,
			SLAPct:                req.SLAPct,
			ReportedDowntimeHours: req.ReportedDowntimeHours,
		}
		if err := h.catalogService.Create(svc); err != nil {
			if errors.Is(err, services.ErrServiceExists) {
				api.RespondError(w, http.StatusConflict, err.Error())
				return
			}
			api.RespondError(w, http.StatusInternalServerError, "Failed to create service")
			return
		}
		api.RespondJSON(w, http.StatusCreated, svc)

	default:
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleServiceByID handles GET/PUT/DELETE /api/services/{serviceID}
func (h *APIHandler) handleServiceByID(w http.ResponseWriter, r *http.Request) {
	serviceID := r.PathValue("serviceID")

	switch r.Method {
	case http.MethodGet:
		svc, err := h.catalogService.Get(serviceID)
		if err != nil {
			respondCatalogError(w, err)
			return
		}
		api.RespondJSON(w, http.StatusOK, svc)

	case http.MethodPut:
		var req api.UpdateServiceRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			api.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		svc, err := h.catalogService.Update(serviceID, req.Client, req.ServiceType, req.SLAPct, req.ReportedDowntimeHours)
		if err != nil {
			respondCatalogError(w, err)
			return
		}
		api.RespondJSON(w, http.StatusOK, svc)

	case http.MethodDelete:
		if err := h.catalogService.Delete(serviceID); err != nil {
			respondCatalogError(w, err)
			return
		}
		api.RespondNoContent(w)

	default:
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func respondCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		api.RespondNotFound(w, "Service")
		return
	}
	api.RespondError(w, http.StatusInternalServerError, "Catalog operation failed")
}
