package sla

import (
	"fmt"
	"math"
	"strings"
)

// PreviewService is a metrics row decorated for UI display.
type PreviewService struct {
	ServiceMetrics
	DowntimeHHMM string `json:"downtime_hhmm"`
}

// Preview is a read-side view over a finished computation, optionally
// narrowed by client, service name, or service id.
type Preview struct {
	Month               int              `json:"month"`
	Year                int              `json:"year"`
	Summary             Summary          `json:"summary"`
	SummaryDowntimeHHMM string           `json:"summary_downtime_hhmm"`
	Services            []PreviewService `json:"services"`
	Annex               []AnnexRow       `json:"annex"`
	RejectedCount       int              `json:"rejected_count"`
}

// FilterComputation narrows a computation for UI preview. client and
// serviceID require an exact case-insensitive match; serviceName matches as
// a case-insensitive substring of the service type, falling back to the
// service id when the type is blank. The three filters are ANDed; an empty
// filter is no constraint.
//
// Annex rows are kept only when their service key matches a surviving
// metrics row. When no service survives, the annex is returned whole: the
// behavior the existing report tooling depends on.
func FilterComputation(c *Computation, client, serviceName, serviceID string) *Preview {
	client = strings.TrimSpace(client)
	serviceName = strings.TrimSpace(serviceName)
	serviceID = strings.TrimSpace(serviceID)

	var services []PreviewService
	surviving := make(map[ServiceKey]bool)
	for _, m := range c.Services {
		if !matchService(m, client, serviceName, serviceID) {
			continue
		}
		services = append(services, PreviewService{
			ServiceMetrics: m,
			DowntimeHHMM:   FormatHoursMinutes(m.DowntimeHours),
		})
		surviving[ServiceKey{ServiceID: m.ServiceID, Client: m.Client, ServiceType: m.ServiceType}] = true
	}

	annex := c.Annex
	if len(surviving) > 0 {
		annex = nil
		for _, row := range c.Annex {
			key := ServiceKey{ServiceID: row.ServiceID, Client: row.Client, ServiceType: row.ServiceType}
			if surviving[key] {
				annex = append(annex, row)
			}
		}
	}

	return &Preview{
		Month:               c.Month,
		Year:                c.Year,
		Summary:             c.Summary,
		SummaryDowntimeHHMM: FormatHoursMinutes(c.Summary.DowntimeTotalHours),
		Services:            services,
		Annex:               annex,
		RejectedCount:       c.RejectedCount,
	}
}

func matchService(m ServiceMetrics, client, serviceName, serviceID string) bool {
	if client != "" && !strings.EqualFold(m.Client, client) {
		return false
	}
	if serviceID != "" && !strings.EqualFold(m.ServiceID, serviceID) {
		return false
	}
	if serviceName != "" {
		name := m.ServiceType
		if name == "" {
			name = m.ServiceID
		}
		if !strings.Contains(strings.ToLower(name), strings.ToLower(serviceName)) {
			return false
		}
	}
	return true
}

// FormatHoursMinutes renders fractional hours as "HH:MM" for human display.
func FormatHoursMinutes(hours float64) string {
	totalMinutes := int(math.Round(hours * 60))
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}
