package sla

import (
	"sort"
	"time"
)

// mergeIncidents consolidates one service's incidents into downtime
// intervals. Incidents are walked in start order (stable: ties keep input
// order); an incident starting at most gap after the current interval's end
// is absorbed into it, anything later freezes the interval and opens a new
// one. The output intervals are non-overlapping, sorted by start, and cover
// every input incident exactly once.
func mergeIncidents(incidents []*Incident, gap time.Duration) []*Interval {
	if len(incidents) == 0 {
		return nil
	}

	sorted := make([]*Incident, len(incidents))
	copy(sorted, incidents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ClippedStart.Before(sorted[j].ClippedStart)
	})

	var intervals []*Interval
	var current *Interval
	for _, in := range sorted {
		if current != nil && !in.ClippedStart.After(current.End.Add(gap)) {
			if in.ClippedEnd.After(current.End) {
				current.End = in.ClippedEnd
			}
			current.Incidents = append(current.Incidents, in)
			continue
		}
		if current != nil {
			intervals = append(intervals, current)
		}
		current = &Interval{
			Key:       in.Key(),
			Start:     in.ClippedStart,
			End:       in.ClippedEnd,
			Incidents: []*Incident{in},
		}
	}
	intervals = append(intervals, current)
	return intervals
}
