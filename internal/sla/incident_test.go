package sla

import (
	"math"
	"testing"
	"time"
)

var testZone = time.FixedZone("-03", -3*60*60)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, testZone)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}

func junePeriod(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, testZone)
	return start, start.AddDate(0, 1, 0)
}

func TestBuildIncident_Valid(t *testing.T) {
	periodStart, periodEnd := junePeriod(t)
	row := RawIncident{
		TicketID:  "TCK-1",
		ServiceID: "SRV-1",
		Client:    "ACME",
		Start:     ts(t, "2024-06-10 10:00"),
		End:       ts(t, "2024-06-10 11:30"),
	}

	in, ok := BuildIncident(row, periodStart, periodEnd, time.Minute)
	if !ok {
		t.Fatalf("expected incident to be accepted")
	}
	if in.DowntimeHours != 1.5 {
		t.Errorf("expected downtime 1.5, got %v", in.DowntimeHours)
	}
	if in.DurationHours != 1.5 {
		t.Errorf("expected duration fallback 1.5, got %v", in.DurationHours)
	}
	if !in.ClippedStart.Equal(in.Start) || !in.ClippedEnd.Equal(in.End) {
		t.Errorf("incident fully inside the period must not be clipped")
	}
}

func TestBuildIncident_RejectsMissingTimestamps(t *testing.T) {
	periodStart, periodEnd := junePeriod(t)

	if _, ok := BuildIncident(RawIncident{End: ts(t, "2024-06-10 11:00")}, periodStart, periodEnd, time.Minute); ok {
		t.Errorf("expected rejection when start is missing")
	}
	if _, ok := BuildIncident(RawIncident{Start: ts(t, "2024-06-10 10:00")}, periodStart, periodEnd, time.Minute); ok {
		t.Errorf("expected rejection when end is missing")
	}
}

func TestBuildIncident_RejectsZeroDuration(t *testing.T) {
	periodStart, periodEnd := junePeriod(t)
	at := ts(t, "2024-06-10 10:00")

	if _, ok := BuildIncident(RawIncident{Start: at, End: at}, periodStart, periodEnd, time.Minute); ok {
		t.Errorf("expected rejection when start == end")
	}
	if _, ok := BuildIncident(RawIncident{Start: at, End: at.Add(-time.Hour)}, periodStart, periodEnd, time.Minute); ok {
		t.Errorf("expected rejection when end < start")
	}
}

func TestBuildIncident_RejectsOutsidePeriod(t *testing.T) {
	periodStart, periodEnd := junePeriod(t)

	row := RawIncident{Start: ts(t, "2024-05-20 10:00"), End: ts(t, "2024-05-20 12:00")}
	if _, ok := BuildIncident(row, periodStart, periodEnd, time.Minute); ok {
		t.Errorf("expected rejection for incident entirely before the period")
	}

	row = RawIncident{Start: ts(t, "2024-07-02 10:00"), End: ts(t, "2024-07-02 12:00")}
	if _, ok := BuildIncident(row, periodStart, periodEnd, time.Minute); ok {
		t.Errorf("expected rejection for incident entirely after the period")
	}
}

func TestBuildIncident_ClipsToPeriodStart(t *testing.T) {
	periodStart, periodEnd := junePeriod(t)

	// Starts 2h before the period, ends 2h after period start.
	row := RawIncident{
		Start: ts(t, "2024-05-31 22:00"),
		End:   ts(t, "2024-06-01 02:00"),
	}
	in, ok := BuildIncident(row, periodStart, periodEnd, time.Minute)
	if !ok {
		t.Fatalf("expected incident to be accepted")
	}
	if !in.ClippedStart.Equal(periodStart) {
		t.Errorf("expected clipped start at period start, got %v", in.ClippedStart)
	}
	if !in.ClippedEnd.Equal(row.End) {
		t.Errorf("expected clipped end at incident end, got %v", in.ClippedEnd)
	}
	if in.DowntimeHours != 2.0 {
		t.Errorf("expected 2h post-clip downtime, got %v", in.DowntimeHours)
	}
	if in.DurationHours != 4.0 {
		t.Errorf("expected raw duration 4h, got %v", in.DurationHours)
	}
}

func TestBuildIncident_ClipsToPeriodEnd(t *testing.T) {
	periodStart, periodEnd := junePeriod(t)

	row := RawIncident{
		Start: ts(t, "2024-06-30 23:00"),
		End:   ts(t, "2024-07-01 03:00"),
	}
	in, ok := BuildIncident(row, periodStart, periodEnd, time.Minute)
	if !ok {
		t.Fatalf("expected incident to be accepted")
	}
	if !in.ClippedEnd.Equal(periodEnd) {
		t.Errorf("expected clipped end at period end, got %v", in.ClippedEnd)
	}
	if in.DowntimeHours != 1.0 {
		t.Errorf("expected 1h post-clip downtime, got %v", in.DowntimeHours)
	}
}

func TestBuildIncident_MinDowntimeThreshold(t *testing.T) {
	periodStart, periodEnd := junePeriod(t)
	start := ts(t, "2024-06-10 10:00")

	row := RawIncident{Start: start, End: start.Add(30 * time.Second)}
	if _, ok := BuildIncident(row, periodStart, periodEnd, time.Minute); ok {
		t.Errorf("expected rejection below the minimum downtime threshold")
	}

	row = RawIncident{Start: start, End: start.Add(time.Minute)}
	if _, ok := BuildIncident(row, periodStart, periodEnd, time.Minute); !ok {
		t.Errorf("expected acceptance at exactly the minimum downtime")
	}
}

func TestBuildIncident_ReportedDurationWins(t *testing.T) {
	periodStart, periodEnd := junePeriod(t)
	reported := 3.25
	row := RawIncident{
		Start:         ts(t, "2024-06-10 10:00"),
		End:           ts(t, "2024-06-10 11:00"),
		DurationHours: &reported,
	}

	in, ok := BuildIncident(row, periodStart, periodEnd, time.Minute)
	if !ok {
		t.Fatalf("expected incident to be accepted")
	}
	if in.DurationHours != 3.25 {
		t.Errorf("expected reported duration to win, got %v", in.DurationHours)
	}
	if in.DowntimeHours != 1.0 {
		t.Errorf("downtime must come from the clipped span, got %v", in.DowntimeHours)
	}
}

func TestRound4_HalfToEven(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.91666666, 0.9167},
		{0.00001, 0.0},
		{1.23456789, 1.2346},
		{2.0, 2.0},
	}
	for _, c := range cases {
		if got := round4(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("round4(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
