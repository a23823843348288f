package sla

import (
	"math"
	"strings"
	"time"
)

// RawIncident is one incident row as handed over by a source adapter
// (CSV/XLSX upload, API payload). Timestamps must already be located in a
// concrete timezone; a zero time means the field was missing or unparseable.
type RawIncident struct {
	TicketID       string     `json:"ticket_id"`
	ServiceID      string     `json:"service_id"`
	Client         string     `json:"client"`
	ServiceType    string     `json:"service_type"`
	Start          time.Time  `json:"start"`
	End            time.Time  `json:"end"`
	DurationHours  *float64   `json:"duration_hours,omitempty"`
	SLATargetHours *float64   `json:"sla_target_hours,omitempty"`
	Cause          string     `json:"cause"`
	Description    string     `json:"description"`
	Criticality    string     `json:"criticality"`
	Status         string     `json:"status"`
}

// Incident is a validated incident clipped to the analysis period.
// It is immutable once built.
type Incident struct {
	TicketID       string
	ServiceID      string
	Client         string
	ServiceType    string
	Start          time.Time // original reported span
	End            time.Time
	ClippedStart   time.Time // span intersected with the analysis period
	ClippedEnd     time.Time
	DurationHours  float64 // reported raw duration, informational only
	DowntimeHours  float64 // clipped duration; the quantity that feeds KPIs
	SLATargetHours *float64
	Cause          string
	Description    string
	Criticality    string
	Status         string
}

// ServiceKey groups incidents belonging to the same contracted service.
// Missing attributes normalize to the empty string.
type ServiceKey struct {
	ServiceID   string `json:"service_id"`
	Client      string `json:"client"`
	ServiceType string `json:"service_type"`
}

// Key returns the grouping key for this incident.
func (in *Incident) Key() ServiceKey {
	return ServiceKey{
		ServiceID:   strings.TrimSpace(in.ServiceID),
		Client:      strings.TrimSpace(in.Client),
		ServiceType: strings.TrimSpace(in.ServiceType),
	}
}

// BuildIncident validates a raw row against the analysis period
// [periodStart, periodEnd) and returns the clipped incident. The second
// return value is false when the row is unusable: missing or inverted
// timestamps, a span entirely outside the period, or a clipped duration
// below the minimum-downtime threshold. Rejected rows never abort a batch.
func BuildIncident(row RawIncident, periodStart, periodEnd time.Time, minDowntime time.Duration) (*Incident, bool) {
	if row.Start.IsZero() || row.End.IsZero() {
		return nil, false
	}
	if !row.End.After(row.Start) {
		return nil, false
	}

	clipStart := row.Start
	if clipStart.Before(periodStart) {
		clipStart = periodStart
	}
	clipEnd := row.End
	if clipEnd.After(periodEnd) {
		clipEnd = periodEnd
	}
	if !clipEnd.After(clipStart) {
		return nil, false
	}

	clipped := clipEnd.Sub(clipStart)
	if clipped < minDowntime {
		return nil, false
	}

	duration := round4(row.End.Sub(row.Start).Hours())
	if row.DurationHours != nil {
		duration = *row.DurationHours
	}

	return &Incident{
		TicketID:       strings.TrimSpace(row.TicketID),
		ServiceID:      strings.TrimSpace(row.ServiceID),
		Client:         strings.TrimSpace(row.Client),
		ServiceType:    strings.TrimSpace(row.ServiceType),
		Start:          row.Start,
		End:            row.End,
		ClippedStart:   clipStart,
		ClippedEnd:     clipEnd,
		DurationHours:  duration,
		DowntimeHours:  round4(clipped.Hours()),
		SLATargetHours: row.SLATargetHours,
		Cause:          strings.TrimSpace(row.Cause),
		Description:    strings.TrimSpace(row.Description),
		Criticality:    strings.TrimSpace(row.Criticality),
		Status:         strings.TrimSpace(row.Status),
	}, true
}

// round4 rounds to 4 decimal places using round-half-to-even. Audited SLA
// figures must round the same way at every derivation step, not only at the
// final output.
func round4(v float64) float64 {
	return math.RoundToEven(v*10000) / 10000
}
