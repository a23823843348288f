package sla

import "sort"

// ServiceMetrics holds the KPIs of one service over the analysis period.
type ServiceMetrics struct {
	ServiceID           string   `json:"service_id"`
	Client              string   `json:"client"`
	ServiceType         string   `json:"service_type"`
	DowntimeHours       float64  `json:"downtime_hours"`
	AvailabilityPct     float64  `json:"availability_pct"`
	MergedIncidentCount int      `json:"merged_incident_count"`
	UniqueTicketCount   int      `json:"unique_ticket_count"`
	MTTRHours           *float64 `json:"mttr_hours,omitempty"`
	MTBFHours           *float64 `json:"mtbf_hours,omitempty"`

	// Intervals back the annex and preview; they are not part of the
	// serialized metrics row.
	Intervals []*Interval `json:"-"`
}

// Summary holds the fleet-wide KPIs. Degenerate cases (no services, no
// intervals) yield zeroes, never NaN.
type Summary struct {
	PeriodLabel        string  `json:"period_label"`
	DowntimeTotalHours float64 `json:"downtime_total_hours"`
	AvailabilityPct    float64 `json:"availability_pct"`
	ServiceCount       int     `json:"service_count"`
	IncidentCount      int     `json:"incident_count"`
	TicketCount        int     `json:"ticket_count"`
	MTTRHours          float64 `json:"mttr_hours"`
	MTBFHours          float64 `json:"mtbf_hours"`
}

// serviceMetrics derives one service's KPIs from its merged intervals.
func serviceMetrics(key ServiceKey, intervals []*Interval, periodHours float64) ServiceMetrics {
	m := ServiceMetrics{
		ServiceID:   key.ServiceID,
		Client:      key.Client,
		ServiceType: key.ServiceType,
		Intervals:   intervals,
	}

	// Best-effort identity: a blank key component falls back to the first
	// non-empty value found among the member incidents.
	for _, iv := range intervals {
		for _, in := range iv.Incidents {
			if m.ServiceID == "" && in.ServiceID != "" {
				m.ServiceID = in.ServiceID
			}
			if m.Client == "" && in.Client != "" {
				m.Client = in.Client
			}
			if m.ServiceType == "" && in.ServiceType != "" {
				m.ServiceType = in.ServiceType
			}
		}
	}

	var downtime float64
	tickets := make(map[string]bool)
	for _, iv := range intervals {
		downtime += iv.DowntimeHours()
		for _, id := range iv.TicketIDs() {
			tickets[id] = true
		}
	}
	m.DowntimeHours = round4(downtime)
	m.AvailabilityPct = availabilityPct(m.DowntimeHours, periodHours)
	m.MergedIncidentCount = len(intervals)
	m.UniqueTicketCount = len(tickets)

	if m.MergedIncidentCount > 0 {
		mttr := round4(m.DowntimeHours / float64(m.MergedIncidentCount))
		m.MTTRHours = &mttr
	}
	if gaps := intervalGaps(intervals); len(gaps) > 0 {
		mtbf := round4(mean(gaps))
		m.MTBFHours = &mtbf
	}
	return m
}

// summarize folds per-service metrics into the fleet-wide summary. The
// availability denominator is weighted by the number of services that had at
// least one interval; services with no incidents contribute to neither side.
func summarize(services []ServiceMetrics, periodHours float64, periodLabel string) Summary {
	s := Summary{PeriodLabel: periodLabel, ServiceCount: len(services)}

	var allDowntimes []float64
	var allGaps []float64
	for _, m := range services {
		s.DowntimeTotalHours += m.DowntimeHours
		s.IncidentCount += m.MergedIncidentCount
		s.TicketCount += m.UniqueTicketCount
		for _, iv := range m.Intervals {
			allDowntimes = append(allDowntimes, iv.DowntimeHours())
		}
		// MTBF gaps are pooled per service, never across service boundaries.
		allGaps = append(allGaps, intervalGaps(m.Intervals)...)
	}
	s.DowntimeTotalHours = round4(s.DowntimeTotalHours)

	if s.ServiceCount > 0 {
		s.AvailabilityPct = availabilityPct(s.DowntimeTotalHours, periodHours*float64(s.ServiceCount))
	}
	if len(allDowntimes) > 0 {
		s.MTTRHours = round4(mean(allDowntimes))
	}
	if len(allGaps) > 0 {
		s.MTBFHours = round4(mean(allGaps))
	}
	return s
}

// availabilityPct computes max(0, 100*(1-downtime/total)), rounded. The
// floor keeps contractual availability inside [0,100] even when downtime
// exceeds the period.
func availabilityPct(downtimeHours, totalHours float64) float64 {
	if totalHours <= 0 {
		return 0
	}
	pct := 100 * (1 - downtimeHours/totalHours)
	if pct < 0 {
		pct = 0
	}
	return round4(pct)
}

// intervalGaps returns the positive gaps, in hours, between consecutive
// intervals of one service. Negative gaps (overlap artifacts) are excluded.
func intervalGaps(intervals []*Interval) []float64 {
	var gaps []float64
	for i := 1; i < len(intervals); i++ {
		gap := intervals[i].Start.Sub(intervals[i-1].End).Hours()
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// sortServices orders metrics rows by (serviceId, client) ascending, the
// order reports present them in.
func sortServices(services []ServiceMetrics) {
	sort.SliceStable(services, func(i, j int) bool {
		if services[i].ServiceID != services[j].ServiceID {
			return services[i].ServiceID < services[j].ServiceID
		}
		return services[i].Client < services[j].Client
	})
}
