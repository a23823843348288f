package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fiberwatch/fiberwatch/internal/database"
	"github.com/fiberwatch/fiberwatch/internal/sla"
)

var testZone = time.FixedZone("-03", -3*60*60)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&database.Service{},
		&database.SLAReport{},
		&database.FiberSegment{},
		&database.FiberSegmentVersion{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func testSLAOptions() sla.Options {
	return sla.Options{
		MergeGap:    15 * time.Minute,
		MinDowntime: time.Minute,
		Location:    testZone,
	}
}

func mkT(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, testZone)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}

func testRows(t *testing.T) []sla.RawIncident {
	t.Helper()
	return []sla.RawIncident{
		{TicketID: "T-1", ServiceID: "SRV-1", Client: "ACME", ServiceType: "Internet",
			Start: mkT(t, "2024-06-10 10:00"), End: mkT(t, "2024-06-10 11:00")},
		{TicketID: "T-2", ServiceID: "SRV-1", Client: "ACME", ServiceType: "Internet",
			Start: mkT(t, "2024-06-10 11:05"), End: mkT(t, "2024-06-10 12:00")},
		{TicketID: "T-3", ServiceID: "SRV-2", Client: "BETA", ServiceType: "Telefonia",
			Start: mkT(t, "2024-06-12 08:00"), End: mkT(t, "2024-06-12 09:00")},
	}
}

func TestReportService_GenerateAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testSLAOptions())

	report, err := svc.Generate(testRows(t), 6, 2024, "junio.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.UUID == "" {
		t.Errorf("expected a report UUID")
	}
	if report.PeriodLabel != "2024-06" {
		t.Errorf("expected period label 2024-06, got %q", report.PeriodLabel)
	}
	if report.ServiceCount != 2 {
		t.Errorf("expected 2 services, got %d", report.ServiceCount)
	}
	if report.DowntimeTotalHours != 3.0 {
		t.Errorf("expected 3h total downtime, got %v", report.DowntimeTotalHours)
	}
	if report.TicketCount != 3 {
		t.Errorf("expected 3 tickets, got %d", report.TicketCount)
	}

	loaded, err := svc.Get(report.UUID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Payload == nil {
		t.Errorf("stored report must carry the full payload")
	}
}

func TestReportService_GenerateInvalidPeriod(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testSLAOptions())

	if _, err := svc.Generate(nil, 13, 2024, ""); err == nil {
		t.Fatalf("expected validation error for month 13")
	}

	var count int64
	db.Model(&database.SLAReport{}).Count(&count)
	if count != 0 {
		t.Errorf("a failed computation must not persist a report, found %d", count)
	}
}

func TestReportService_GenerateUsesCatalog(t *testing.T) {
	db := setupTestDB(t)
	pct := 99.9
	db.Create(&database.Service{ServiceID: "SRV-1", Client: "ACME", ServiceType: "Internet", SLAPct: &pct})

	svc := NewReportService(db, testSLAOptions())
	report, err := svc.Generate(testRows(t), 6, 2024, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta, ok := report.Payload["services_meta"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected services_meta in payload, got %T", report.Payload["services_meta"])
	}
	if _, ok := meta["SRV-1"]; !ok {
		t.Errorf("expected catalog echo for SRV-1, got %v", meta)
	}
}

func TestReportService_List(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testSLAOptions())

	for _, month := range []int{4, 5, 6} {
		if _, err := svc.Generate(nil, month, 2024, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	reports, total, err := svc.List(0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(reports) != 2 {
		t.Errorf("expected page of 2, got %d", len(reports))
	}
	for _, r := range reports {
		if r.Payload != nil {
			t.Errorf("listing must omit the payload")
		}
	}
}

func TestReportService_Preview(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testSLAOptions())

	report, err := svc.Generate(testRows(t), 6, 2024, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	preview, err := svc.Preview(report.UUID, "acme", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(preview.Services) != 1 {
		t.Fatalf("expected 1 ACME service, got %d", len(preview.Services))
	}
	if preview.Services[0].DowntimeHHMM != "02:00" {
		t.Errorf("expected 02:00 display downtime, got %q", preview.Services[0].DowntimeHHMM)
	}
	if len(preview.Annex) != 1 {
		t.Errorf("expected annex narrowed to ACME, got %d rows", len(preview.Annex))
	}
}

func TestReportService_PreviewUnknownUUID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testSLAOptions())

	if _, err := svc.Preview("missing", "", "", ""); err == nil {
		t.Errorf("expected error for unknown report")
	}
}
