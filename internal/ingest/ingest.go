// Package ingest adapts uploaded spreadsheets (CSV/XLSX incident exports,
// YAML service catalogs) into the typed records the SLA engine consumes.
// Column mapping, locale quirks, and naive-timestamp handling all live here;
// the engine itself never sees loosely-typed tabular cells.
package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/fiberwatch/fiberwatch/internal/sla"
)

// Canonical column names after header normalization. The exports come from
// several ticketing tools, in Spanish and English, so each field accepts a
// list of aliases.
var columnAliases = map[string][]string{
	"ticket_id":    {"ticket", "ticket id", "nro ticket", "numero ticket", "id ticket"},
	"service_id":   {"service id", "servicio", "id servicio", "enlace", "id enlace"},
	"client":       {"client", "cliente"},
	"service_type": {"service type", "tipo servicio", "tipo de servicio", "tipo enlace"},
	"start":        {"start", "inicio", "fecha inicio", "comienzo"},
	"end":          {"end", "fin", "fecha fin", "cierre", "fecha cierre"},
	"duration":     {"duration", "duracion", "duracion horas", "horas"},
	"sla_target":   {"sla target", "objetivo sla", "sla horas"},
	"cause":        {"cause", "causa", "causal"},
	"description":  {"description", "descripcion", "detalle"},
	"criticality":  {"criticality", "criticidad"},
	"status":       {"status", "estado"},
}

// accentReplacer strips the accented vowels seen in Spanish export headers.
var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ñ", "n",
)

// timestampLayouts are tried in order. Layouts without an offset are parsed
// in the configured default zone.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
}

// columnMap resolves a header row into canonical-field → column-index.
func columnMap(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, raw := range header {
		name := normalizeHeader(raw)
		if name == "" {
			continue
		}
		for field, aliases := range columnAliases {
			if name == strings.ReplaceAll(field, "_", " ") {
				cols[field] = i
				break
			}
			for _, alias := range aliases {
				if name == alias {
					cols[field] = i
					break
				}
			}
		}
	}
	return cols
}

func normalizeHeader(h string) string {
	h = accentReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
	h = strings.ReplaceAll(h, "_", " ")
	h = strings.ReplaceAll(h, "-", " ")
	return strings.Join(strings.Fields(h), " ")
}

// rowToIncident maps one data row into a RawIncident. Unparseable timestamps
// are left at the zero value; the engine's builder rejects those rows, so a
// bad line never aborts the upload.
func rowToIncident(row []string, cols map[string]int, loc *time.Location) sla.RawIncident {
	get := func(field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	incident := sla.RawIncident{
		TicketID:    get("ticket_id"),
		ServiceID:   get("service_id"),
		Client:      get("client"),
		ServiceType: get("service_type"),
		Cause:       get("cause"),
		Description: get("description"),
		Criticality: get("criticality"),
		Status:      get("status"),
	}
	incident.Start = parseTimestamp(get("start"), loc)
	incident.End = parseTimestamp(get("end"), loc)
	if v, ok := parseFloat(get("duration")); ok {
		incident.DurationHours = &v
	}
	if v, ok := parseFloat(get("sla_target")); ok {
		incident.SLATargetHours = &v
	}
	return incident
}

// parseTimestamp tries the accepted layouts; naive values are located in loc.
func parseTimestamp(value string, loc *time.Location) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseFloat accepts both decimal points and the comma the Spanish-locale
// exports use.
func parseFloat(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	value = strings.ReplaceAll(value, ",", ".")
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
