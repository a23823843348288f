package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testZone = time.FixedZone("-03", -3*60*60)

func TestParseCSV_EnglishHeaders(t *testing.T) {
	data := strings.Join([]string{
		"ticket_id,service_id,client,service_type,start,end,duration,cause",
		"T-1,SRV-1,ACME,Internet,2024-06-10 10:00,2024-06-10 11:00,1.0,fiber cut",
		"T-2,SRV-2,BETA,Telefonia,2024-06-11 08:30,2024-06-11 09:00,,power outage",
	}, "\n")

	incidents, err := ParseCSV(strings.NewReader(data), testZone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(incidents) != 2 {
		t.Fatalf("expected 2 incidents, got %d", len(incidents))
	}

	first := incidents[0]
	if first.TicketID != "T-1" || first.ServiceID != "SRV-1" || first.Client != "ACME" {
		t.Errorf("unexpected identity fields: %+v", first)
	}
	want := time.Date(2024, 6, 10, 10, 0, 0, 0, testZone)
	if !first.Start.Equal(want) {
		t.Errorf("expected start %v, got %v", want, first.Start)
	}
	if first.DurationHours == nil || *first.DurationHours != 1.0 {
		t.Errorf("expected duration 1.0, got %v", first.DurationHours)
	}
	if incidents[1].DurationHours != nil {
		t.Errorf("blank duration must stay absent, got %v", *incidents[1].DurationHours)
	}
}

func TestParseCSV_SpanishSemicolonExport(t *testing.T) {
	data := strings.Join([]string{
		"Nro Ticket;ID Servicio;Cliente;Tipo de Servicio;Fecha Inicio;Fecha Fin;Duración;Causa",
		"T-9;SRV-9;ACME;Internet Dedicado;10/06/2024 10:00;10/06/2024 12:30;2,5;corte de fibra",
	}, "\n")

	incidents, err := ParseCSV(strings.NewReader(data), testZone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(incidents) != 1 {
		t.Fatalf("expected 1 incident, got %d", len(incidents))
	}

	in := incidents[0]
	if in.TicketID != "T-9" {
		t.Errorf("expected accented headers to map, got ticket %q", in.TicketID)
	}
	if in.DurationHours == nil || *in.DurationHours != 2.5 {
		t.Errorf("expected comma-decimal 2.5, got %v", in.DurationHours)
	}
	wantEnd := time.Date(2024, 6, 10, 12, 30, 0, 0, testZone)
	if !in.End.Equal(wantEnd) {
		t.Errorf("expected dd/mm/yyyy end %v, got %v", wantEnd, in.End)
	}
	if in.Cause != "corte de fibra" {
		t.Errorf("unexpected cause %q", in.Cause)
	}
}

func TestParseCSV_UnparseableTimestampLeftZero(t *testing.T) {
	data := strings.Join([]string{
		"ticket_id,service_id,start,end",
		"T-1,SRV-1,not a date,2024-06-10 11:00",
	}, "\n")

	incidents, err := ParseCSV(strings.NewReader(data), testZone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(incidents) != 1 {
		t.Fatalf("expected the row to survive parsing, got %d rows", len(incidents))
	}
	if !incidents[0].Start.IsZero() {
		t.Errorf("unparseable start must be zero so the builder rejects it, got %v", incidents[0].Start)
	}
}

func TestParseCSV_RFC3339KeepsOffset(t *testing.T) {
	data := strings.Join([]string{
		"ticket_id,service_id,start,end",
		"T-1,SRV-1,2024-06-10T10:00:00-03:00,2024-06-10T11:00:00-03:00",
	}, "\n")

	incidents, err := ParseCSV(strings.NewReader(data), testZone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, offset := incidents[0].Start.Zone()
	if offset != -3*60*60 {
		t.Errorf("expected -03 offset to be preserved, got %d", offset)
	}
}

func TestParseCSV_NoHeader(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader(""), testZone); err != ErrNoHeader {
		t.Errorf("expected ErrNoHeader for empty input, got %v", err)
	}
	data := "foo,bar\n1,2\n"
	if _, err := ParseCSV(strings.NewReader(data), testZone); err != ErrNoHeader {
		t.Errorf("expected ErrNoHeader for unknown columns, got %v", err)
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"  Fecha   Inicio ": "fecha inicio",
		"Duración":          "duracion",
		"service_id":        "service id",
		"TIPO-DE-SERVICIO":  "tipo de servicio",
	}
	for in, want := range cases {
		if got := normalizeHeader(in); got != want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadCatalogYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	content := `
services:
  - service_id: SRV-1
    client: ACME
    service_type: Internet Dedicado
    sla_pct: 99.5
    reported_downtime_hours: 1.5
  - service_id: SRV-2
    client: BETA
    sla_pct: 0.999
  - client: missing-id-is-skipped
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	services, err := LoadCatalogYAML(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}
	if services[0].SLAPct == nil || *services[0].SLAPct != 0.995 {
		t.Errorf("expected percent normalized to 0.995, got %v", services[0].SLAPct)
	}
	if services[1].SLAPct == nil || *services[1].SLAPct != 0.999 {
		t.Errorf("expected fraction passed through, got %v", services[1].SLAPct)
	}
}

func TestLoadCatalogYAML_MissingFile(t *testing.T) {
	if _, err := LoadCatalogYAML("/does/not/exist.yaml"); err == nil {
		t.Errorf("expected error for missing file")
	}
}
