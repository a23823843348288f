package sla

import "time"

// Interval is a consolidated downtime window: one or more incidents whose
// gaps fall within the merge tolerance. It accumulates incidents during the
// merge walk and is frozen once a later incident starts beyond the gap.
type Interval struct {
	Key       ServiceKey
	Start     time.Time
	End       time.Time
	Incidents []*Incident // absorbed incidents, in merge order
}

// DowntimeHours is the span of the whole interval. It is deliberately
// end-start rather than the sum of member downtimes: overlapping or adjacent
// incidents must not double-count.
func (iv *Interval) DowntimeHours() float64 {
	return round4(iv.End.Sub(iv.Start).Hours())
}

// TicketIDs returns the unique ticket ids of the member incidents,
// preserving first-seen order. Blank ids are skipped.
func (iv *Interval) TicketIDs() []string {
	seen := make(map[string]bool, len(iv.Incidents))
	var ids []string
	for _, in := range iv.Incidents {
		if in.TicketID == "" || seen[in.TicketID] {
			continue
		}
		seen[in.TicketID] = true
		ids = append(ids, in.TicketID)
	}
	return ids
}

// SLATargetHours is the strictest (minimum) per-incident target declared by
// any member, or nil when none of the members declares one.
func (iv *Interval) SLATargetHours() *float64 {
	var target *float64
	for _, in := range iv.Incidents {
		if in.SLATargetHours == nil {
			continue
		}
		if target == nil || *in.SLATargetHours < *target {
			v := *in.SLATargetHours
			target = &v
		}
	}
	return target
}

// WithinTarget reports whether the interval's downtime met its SLA target.
// Nil when no member declared a target.
func (iv *Interval) WithinTarget() *bool {
	target := iv.SLATargetHours()
	if target == nil {
		return nil
	}
	ok := iv.DowntimeHours() <= *target
	return &ok
}

// Causes returns the deduplicated, order-preserving causes of the members.
func (iv *Interval) Causes() []string {
	return dedupField(iv.Incidents, func(in *Incident) string { return in.Cause })
}

// Criticalities returns the deduplicated, order-preserving criticalities.
func (iv *Interval) Criticalities() []string {
	return dedupField(iv.Incidents, func(in *Incident) string { return in.Criticality })
}

func dedupField(incidents []*Incident, get func(*Incident) string) []string {
	seen := make(map[string]bool, len(incidents))
	var out []string
	for _, in := range incidents {
		v := get(in)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
