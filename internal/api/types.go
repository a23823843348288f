package api

import (
	"time"

	"github.com/fiberwatch/fiberwatch/internal/database"
)

// ========== Auth Types ==========

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response body for POST /auth/login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ========== Report Types ==========

// ReportListItem is a compact report representation for listings. It omits
// the payload, which can run to megabytes for a busy month.
type ReportListItem struct {
	UUID               string    `json:"uuid"`
	Month              int       `json:"month"`
	Year               int       `json:"year"`
	PeriodLabel        string    `json:"period_label"`
	SourceFile         string    `json:"source_file,omitempty"`
	DowntimeTotalHours float64   `json:"downtime_total_hours"`
	AvailabilityPct    float64   `json:"availability_pct"`
	ServiceCount       int       `json:"service_count"`
	IncidentCount      int       `json:"incident_count"`
	TicketCount        int       `json:"ticket_count"`
	MTTRHours          float64   `json:"mttr_hours"`
	MTBFHours          float64   `json:"mtbf_hours"`
	RejectedCount      int       `json:"rejected_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// ========== Service Catalog Types ==========

// CreateServiceRequest is the request body for POST /api/services.
type CreateServiceRequest struct {
	ServiceID             string   `json:"service_id" validate:"required,min=1,max=64"`
	Client                string   `json:"client" validate:"omitempty,max=255"`
	ServiceType           string   `json:"service_type" validate:"omitempty,max=255"`
	SLAPct                *float64 `json:"sla_pct" validate:"omitempty,gte=0,lte=100"`
	ReportedDowntimeHours *float64 `json:"reported_downtime_hours" validate:"omitempty,gte=0"`
}

// UpdateServiceRequest is the request body for PUT /api/services/:serviceID.
type UpdateServiceRequest struct {
	Client                *string  `json:"client"`
	ServiceType           *string  `json:"service_type"`
	SLAPct                *float64 `json:"sla_pct"`
	ReportedDowntimeHours *float64 `json:"reported_downtime_hours"`
}

// ========== Fiber Types ==========

// CreateFiberSegmentRequest is the request body for POST /api/fiber/segments.
type CreateFiberSegmentRequest struct {
	Code     string  `json:"code" validate:"required,min=1,max=64"`
	Route    string  `json:"route" validate:"omitempty,max=255"`
	CentralA string  `json:"central_a" validate:"omitempty,max=128"`
	CentralB string  `json:"central_b" validate:"omitempty,max=128"`
	LengthKm float64 `json:"length_km"`
	Client   string  `json:"client" validate:"omitempty,max=255"`
}

// UpdateFiberStatusRequest is the request body for PUT /api/fiber/segments/:id/status.
type UpdateFiberStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=operational degraded cut maintenance"`
	Note      string `json:"note"`
	ChangedBy string `json:"changed_by" validate:"omitempty,max=100"`
}

// ========== Pagination Envelope ==========

// PaginatedResponse wraps a page of results with pagination metadata.
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta describes the page that was returned.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ReportToListItem converts a stored report to its compact representation.
func ReportToListItem(r database.SLAReport) ReportListItem {
	return ReportListItem{
		UUID:               r.UUID,
		Month:              r.Month,
		Year:               r.Year,
		PeriodLabel:        r.PeriodLabel,
		SourceFile:         r.SourceFile,
		DowntimeTotalHours: r.DowntimeTotalHours,
		AvailabilityPct:    r.AvailabilityPct,
		ServiceCount:       r.ServiceCount,
		IncidentCount:      r.IncidentCount,
		TicketCount:        r.TicketCount,
		MTTRHours:          r.MTTRHours,
		MTBFHours:          r.MTBFHours,
		RejectedCount:      r.RejectedCount,
		CreatedAt:          r.CreatedAt,
	}
}

// ReportsToListItems converts a slice of stored reports to list items.
func ReportsToListItems(reports []database.SLAReport) []ReportListItem {
	items := make([]ReportListItem, len(reports))
	for i, r := range reports {
		items[i] = ReportToListItem(r)
	}
	return items
}
