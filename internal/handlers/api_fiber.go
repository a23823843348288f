package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/fiberwatch/fiberwatch/internal/api"
	"github.com/fiberwatch/fiberwatch/internal/database"
	"github.com/fiberwatch/fiberwatch/internal/services"
)

// handleFiberSegments handles GET /api/fiber/segments and POST /api/fiber/segments
func (h *APIHandler) handleFiberSegments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		segments, err := h.fiberService.ListSegments(r.URL.Query().Get("client"))
		if err != nil {
			log.Printf("Failed to list fiber segments: %v", err)
			api.RespondError(w, http.StatusInternalServerError, "Failed to list segments")
			return
		}
		api.RespondJSON(w, http.StatusOK, segments)

	case http.MethodPost:
		var req api.CreateFiberSegmentRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			api.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if fieldErrors := api.Validate(req); fieldErrors != nil {
			api.RespondValidationError(w, fieldErrors)
			return
		}

		segment := &database.FiberSegment{
			Code:     req.Code,
			Route:    req.Route,
			CentralA: req.CentralA,
			CentralB: req.CentralB,
			LengthKm: req.LengthKm,
			Client:   req.Client,
		}
		if err := h.fiberService.CreateSegment(segment); err != nil {
			api.RespondError(w, http.StatusInternalServerError, "Failed to create segment")
			return
		}
		api.RespondJSON(w, http.StatusCreated, segment)

	default:
		api.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleFiberStatus handles PUT /api/fiber/segments/{id}/status
func (h *APIHandler) handleFiberStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseSegmentID(r)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid segment id")
		return
	}

	var req api.UpdateFiberStatusRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}

	segment, err := h.fiberService.UpdateStatus(id, req.Status, req.Note, req.ChangedBy)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			api.RespondNotFound(w, "Segment")
		case errors.Is(err, services.ErrInvalidFiberStatus):
			api.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Failed to update segment %d status: %v", id, err)
			api.RespondError(w, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}
	api.RespondJSON(w, http.StatusOK, segment)
}

// handleFiberHistory handles GET /api/fiber/segments/{id}/history
func (h *APIHandler) handleFiberHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseSegmentID(r)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid segment id")
		return
	}

	history, err := h.fiberService.History(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			api.RespondNotFound(w, "Segment")
			return
		}
		api.RespondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	api.RespondJSON(w, http.StatusOK, history)
}

func parseSegmentID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	return uint(id), err
}
