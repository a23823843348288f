package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fiberwatch/fiberwatch/internal/database"
)

// ErrServiceExists is returned when creating a catalog entry whose service id
// is already taken.
var ErrServiceExists = errors.New("service already exists")

// CatalogService manages the contractual service catalog.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// List returns the whole catalog ordered by service id.
func (s *CatalogService) List() ([]database.Service, error) {
	var services []database.Service
	err := s.db.Order("service_id ASC").Find(&services).Error
	return services, err
}

// Get returns one catalog entry by its external service id.
func (s *CatalogService) Get(serviceID string) (*database.Service, error) {
	var svc database.Service
	err := s.db.Where("service_id = ?", serviceID).First(&svc).Error
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

// Create adds a catalog entry. SLA percentages handed in as 0-100 values are
// normalized to 0-1 fractions before storage.
func (s *CatalogService) Create(svc *database.Service) error {
	svc.ServiceID = strings.TrimSpace(svc.ServiceID)
	if svc.ServiceID == "" {
		return errors.New("service_id is required")
	}
	normalizeSLAPct(svc)

	var count int64
	s.db.Model(&database.Service{}).Where("service_id = ?", svc.ServiceID).Count(&count)
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrServiceExists, svc.ServiceID)
	}
	return s.db.Create(svc).Error
}

// Update applies non-nil fields to an existing entry.
func (s *CatalogService) Update(serviceID string, client, serviceType *string, slaPct, reportedDowntime *float64) (*database.Service, error) {
	svc, err := s.Get(serviceID)
	if err != nil {
		return nil, err
	}

	if client != nil {
		svc.Client = *client
	}
	if serviceType != nil {
		svc.ServiceType = *serviceType
	}
	if slaPct != nil {
		svc.SLAPct = slaPct
	}
	if reportedDowntime != nil {
		svc.ReportedDowntimeHours = reportedDowntime
	}
	normalizeSLAPct(svc)

	if err := s.db.Save(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

// Delete removes a catalog entry by service id.
func (s *CatalogService) Delete(serviceID string) error {
	result := s.db.Where("service_id = ?", serviceID).Delete(&database.Service{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Sync upserts seed entries by service id. Used at startup when a YAML
// catalog file is configured.
func (s *CatalogService) Sync(seed []database.Service) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range seed {
			entry := seed[i]
			normalizeSLAPct(&entry)

			var existing database.Service
			err := tx.Where("service_id = ?", entry.ServiceID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				existing.Client = entry.Client
				existing.ServiceType = entry.ServiceType
				existing.SLAPct = entry.SLAPct
				existing.ReportedDowntimeHours = entry.ReportedDowntimeHours
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func normalizeSLAPct(svc *database.Service) {
	if svc.SLAPct != nil && *svc.SLAPct > 1 {
		pct := *svc.SLAPct / 100
		svc.SLAPct = &pct
	}
}
