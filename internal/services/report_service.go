package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fiberwatch/fiberwatch/internal/database"
	"github.com/fiberwatch/fiberwatch/internal/sla"
)

// ReportService runs SLA computations and manages the persisted reports.
type ReportService struct {
	db   *gorm.DB
	opts sla.Options
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, opts sla.Options) *ReportService {
	return &ReportService{db: db, opts: opts}
}

// Location returns the timezone naive upload timestamps are located in.
func (s *ReportService) Location() *time.Location {
	if s.opts.Location == nil {
		return time.UTC
	}
	return s.opts.Location
}

// Generate computes the SLA report for one calendar month from the given
// incident rows and persists it. The service catalog is loaded from the
// database so contractual SLA targets ride along in the payload.
func (s *ReportService) Generate(rows []sla.RawIncident, month, year int, sourceFile string) (*database.SLAReport, error) {
	catalog, err := s.loadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load service catalog: %w", err)
	}

	computation, err := sla.Compute(rows, month, year, catalog, s.opts)
	if err != nil {
		return nil, err
	}

	payload, err := toJSONB(computation)
	if err != nil {
		return nil, fmt.Errorf("failed to encode computation: %w", err)
	}

	report := &database.SLAReport{
		UUID:               uuid.NewString(),
		Month:              month,
		Year:               year,
		PeriodLabel:        computation.Summary.PeriodLabel,
		SourceFile:         sourceFile,
		DowntimeTotalHours: computation.Summary.DowntimeTotalHours,
		AvailabilityPct:    computation.Summary.AvailabilityPct,
		ServiceCount:       computation.Summary.ServiceCount,
		IncidentCount:      computation.Summary.IncidentCount,
		TicketCount:        computation.Summary.TicketCount,
		MTTRHours:          computation.Summary.MTTRHours,
		MTBFHours:          computation.Summary.MTBFHours,
		RejectedCount:      computation.RejectedCount,
		Payload:            payload,
	}
	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}
	return report, nil
}

// Get returns a stored report by UUID, payload included.
func (s *ReportService) Get(reportUUID string) (*database.SLAReport, error) {
	var report database.SLAReport
	err := s.db.Where("uuid = ?", reportUUID).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetLatestForPeriod returns the most recent report computed for a month.
func (s *ReportService) GetLatestForPeriod(month, year int) (*database.SLAReport, error) {
	var report database.SLAReport
	err := s.db.Where("month = ? AND year = ?", month, year).
		Order("created_at DESC").First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Computation decodes a stored report payload back into the engine's shape.
func (s *ReportService) Computation(report *database.SLAReport) (*sla.Computation, error) {
	return decodeComputation(report.Payload)
}

// List returns one page of reports, newest first, and the total count.
func (s *ReportService) List(offset, limit int) ([]database.SLAReport, int64, error) {
	var total int64
	if err := s.db.Model(&database.SLAReport{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []database.SLAReport
	err := s.db.Order("created_at DESC").Offset(offset).Limit(limit).
		Omit("payload").Find(&reports).Error
	return reports, total, err
}

// Preview loads a stored report and applies the read-side filter for UI
// display. Empty filter values mean no constraint.
func (s *ReportService) Preview(reportUUID, client, serviceName, serviceID string) (*sla.Preview, error) {
	report, err := s.Get(reportUUID)
	if err != nil {
		return nil, err
	}

	computation, err := decodeComputation(report.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode report payload: %w", err)
	}
	return sla.FilterComputation(computation, client, serviceName, serviceID), nil
}

// loadCatalog maps the stored service catalog into the engine's shape.
func (s *ReportService) loadCatalog() (map[string]sla.CatalogEntry, error) {
	var services []database.Service
	if err := s.db.Find(&services).Error; err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, nil
	}

	catalog := make(map[string]sla.CatalogEntry, len(services))
	for _, svc := range services {
		catalog[svc.ServiceID] = sla.CatalogEntry{
			Client:                svc.Client,
			ServiceType:           svc.ServiceType,
			SLAPct:                svc.SLAPct,
			ReportedDowntimeHours: svc.ReportedDowntimeHours,
		}
	}
	return catalog, nil
}

// toJSONB round-trips a value through JSON into the JSONB column type.
func toJSONB(v interface{}) (database.JSONB, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out database.JSONB
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeComputation rebuilds the engine result from a stored payload. The
// interval pointers inside ServiceMetrics are not serialized; previews only
// need the metrics rows and annex, which are.
func decodeComputation(payload database.JSONB) (*sla.Computation, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var computation sla.Computation
	if err := json.Unmarshal(data, &computation); err != nil {
		return nil, err
	}
	return &computation, nil
}
