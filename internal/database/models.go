package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSONB is a custom type for PostgreSQL JSONB columns
type JSONB map[string]interface{}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, j)
}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Service is one row of the service catalog: the contractual attributes of a
// monitored service. SLAPct is stored as a 0-1 fraction.
type Service struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	ServiceID             string    `gorm:"uniqueIndex;size:64;not null" json:"service_id"`
	Client                string    `gorm:"size:255;index" json:"client"`
	ServiceType           string    `gorm:"size:255" json:"service_type"`
	SLAPct                *float64  `gorm:"type:decimal(7,6)" json:"sla_pct"`
	ReportedDowntimeHours *float64  `json:"reported_downtime_hours"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

// SLAReport is one persisted SLA computation: the summary columns for
// listings plus the full computation payload for previews and rendering.
type SLAReport struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UUID        string `gorm:"uniqueIndex;size:36;not null" json:"uuid"`
	Month       int    `gorm:"not null" json:"month"`
	Year        int    `gorm:"not null" json:"year"`
	PeriodLabel string `gorm:"size:7;index" json:"period_label"`
	SourceFile  string `gorm:"size:255" json:"source_file"`

	DowntimeTotalHours float64 `json:"downtime_total_hours"`
	AvailabilityPct    float64 `json:"availability_pct"`
	ServiceCount       int     `json:"service_count"`
	IncidentCount      int     `json:"incident_count"`
	TicketCount        int     `json:"ticket_count"`
	MTTRHours          float64 `json:"mttr_hours"`
	MTBFHours          float64 `json:"mtbf_hours"`
	RejectedCount      int     `json:"rejected_count"`

	// Payload holds the full computation (services, annex, catalog echo) as
	// produced by the engine.
	Payload JSONB `gorm:"type:jsonb" json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SLAReport) TableName() string {
	return "sla_reports"
}

// Fiber segment states tracked by the plant inventory.
const (
	FiberStatusOperational = "operational"
	FiberStatusDegraded    = "degraded"
	FiberStatusCut         = "cut"
	FiberStatusMaintenance = "maintenance"
)

// FiberSegment is one span of the fiber plant between two centrals. Status
// reflects the latest version; every change appends a FiberSegmentVersion.
type FiberSegment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Route     string    `gorm:"size:255" json:"route"`
	CentralA  string    `gorm:"size:128" json:"central_a"`
	CentralB  string    `gorm:"size:128" json:"central_b"`
	LengthKm  float64   `json:"length_km"`
	Client    string    `gorm:"size:255;index" json:"client"`
	Status    string    `gorm:"size:32;default:operational" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Versions []FiberSegmentVersion `gorm:"foreignKey:SegmentID" json:"versions,omitempty"`
}

func (FiberSegment) TableName() string {
	return "fiber_segments"
}

// FiberSegmentVersion is the append-only status history of a segment.
type FiberSegmentVersion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SegmentID uint      `gorm:"not null;index" json:"segment_id"`
	Status    string    `gorm:"size:32;not null" json:"status"`
	Note      string    `gorm:"type:text" json:"note"`
	ChangedBy string    `gorm:"size:100" json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

func (FiberSegmentVersion) TableName() string {
	return "fiber_segment_versions"
}

// ValidFiberStatus reports whether s is one of the tracked segment states.
func ValidFiberStatus(s string) bool {
	switch s {
	case FiberStatusOperational, FiberStatusDegraded, FiberStatusCut, FiberStatusMaintenance:
		return true
	}
	return false
}
