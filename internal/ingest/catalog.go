package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fiberwatch/fiberwatch/internal/database"
)

// catalogFile is the YAML shape of a service catalog seed file.
type catalogFile struct {
	Services []catalogEntry `yaml:"services"`
}

type catalogEntry struct {
	ServiceID             string   `yaml:"service_id"`
	Client                string   `yaml:"client"`
	ServiceType           string   `yaml:"service_type"`
	SLAPct                *float64 `yaml:"sla_pct"`
	ReportedDowntimeHours *float64 `yaml:"reported_downtime_hours"`
}

// LoadCatalogYAML reads a service catalog seed file. SLA percentages given
// as 0-100 values are normalized to 0-1 fractions.
func LoadCatalogYAML(path string) ([]database.Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	services := make([]database.Service, 0, len(file.Services))
	for _, entry := range file.Services {
		if entry.ServiceID == "" {
			continue
		}
		if entry.SLAPct != nil && *entry.SLAPct > 1 {
			pct := *entry.SLAPct / 100
			entry.SLAPct = &pct
		}
		services = append(services, database.Service{
			ServiceID:             entry.ServiceID,
			Client:                entry.Client,
			ServiceType:           entry.ServiceType,
			SLAPct:                entry.SLAPct,
			ReportedDowntimeHours: entry.ReportedDowntimeHours,
		})
	}
	return services, nil
}
