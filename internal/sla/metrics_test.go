package sla

import (
	"strings"
	"testing"
	"time"
)

func TestIntervalGaps_ExcludesNonPositive(t *testing.T) {
	base := ts(t, "2024-06-10 10:00")
	mk := func(start, end time.Time) *Interval {
		return &Interval{Start: start, End: end}
	}

	intervals := []*Interval{
		mk(base, base.Add(time.Hour)),
		// Overlapping artifact: starts before the previous ended.
		mk(base.Add(30*time.Minute), base.Add(2*time.Hour)),
		// 3h positive gap.
		mk(base.Add(5*time.Hour), base.Add(6*time.Hour)),
	}

	gaps := intervalGaps(intervals)
	if len(gaps) != 1 {
		t.Fatalf("expected only the positive gap, got %v", gaps)
	}
	if gaps[0] != 3.0 {
		t.Errorf("expected 3h gap, got %v", gaps[0])
	}
}

func TestServiceMetrics_MTBFAbsentForSingleInterval(t *testing.T) {
	intervals := mergeIncidents([]*Incident{
		mkIncident(t, "T-1", "2024-06-10 10:00", "2024-06-10 11:00"),
	}, 0)

	m := serviceMetrics(ServiceKey{ServiceID: "SRV-1", Client: "ACME"}, intervals, 720)
	if m.MTBFHours != nil {
		t.Errorf("a single interval has no gaps, expected absent MTBF, got %v", *m.MTBFHours)
	}
	if m.MTTRHours == nil || *m.MTTRHours != 1.0 {
		t.Errorf("expected MTTR 1.0, got %v", m.MTTRHours)
	}
}

func TestAnnexRows(t *testing.T) {
	rows := []RawIncident{
		{TicketID: "T-1", ServiceID: "SRV-1", Client: "ACME", ServiceType: "Internet",
			Cause: "corte de fibra", Criticality: "alta",
			Start: ts(t, "2024-06-10 10:00"), End: ts(t, "2024-06-10 11:00")},
		{TicketID: "T-2", ServiceID: "SRV-1", Client: "ACME", ServiceType: "Internet",
			Cause: "corte de fibra", Criticality: "media",
			Start: ts(t, "2024-06-10 11:05"), End: ts(t, "2024-06-10 12:00")},
	}
	c, err := Compute(rows, 6, 2024, nil, testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(c.Annex) != 1 {
		t.Fatalf("expected one row per interval, got %d", len(c.Annex))
	}
	row := c.Annex[0]
	if row.DowntimeHours != 2.0 {
		t.Errorf("expected 2.0h, got %v", row.DowntimeHours)
	}
	if len(row.TicketIDs) != 2 {
		t.Errorf("expected both ticket ids, got %v", row.TicketIDs)
	}
	if len(row.Causes) != 1 || row.Causes[0] != "corte de fibra" {
		t.Errorf("causes must deduplicate preserving order, got %v", row.Causes)
	}
	if len(row.Criticalities) != 2 {
		t.Errorf("expected both criticalities, got %v", row.Criticalities)
	}
	if !strings.HasPrefix(row.Start, "2024-06-10T10:00:00") || !strings.Contains(row.Start, "-03") {
		t.Errorf("annex timestamps must be RFC 3339 with offset, got %q", row.Start)
	}
	if row.WithinSLATarget != nil {
		t.Errorf("no declared target, expected nil within-target flag")
	}
}
