package sla

import "time"

// AnnexRow is one consolidated downtime interval flattened for reporting:
// the unit the annex tables of the monthly report are built from.
type AnnexRow struct {
	ServiceID       string   `json:"service_id"`
	Client          string   `json:"client"`
	ServiceType     string   `json:"service_type"`
	Start           string   `json:"start"` // RFC 3339 with offset
	End             string   `json:"end"`
	DowntimeHours   float64  `json:"downtime_hours"`
	TicketIDs       []string `json:"ticket_ids"`
	WithinSLATarget *bool    `json:"within_sla_target"`
	Causes          []string `json:"causes"`
	Criticalities   []string `json:"criticalities"`
}

// buildAnnex flattens the merged intervals of every service into annex rows,
// one row per interval, in service order then chronological order.
func buildAnnex(services []ServiceMetrics) []AnnexRow {
	var rows []AnnexRow
	for _, m := range services {
		for _, iv := range m.Intervals {
			rows = append(rows, AnnexRow{
				ServiceID:       m.ServiceID,
				Client:          m.Client,
				ServiceType:     m.ServiceType,
				Start:           iv.Start.Format(time.RFC3339),
				End:             iv.End.Format(time.RFC3339),
				DowntimeHours:   iv.DowntimeHours(),
				TicketIDs:       iv.TicketIDs(),
				WithinSLATarget: iv.WithinTarget(),
				Causes:          iv.Causes(),
				Criticalities:   iv.Criticalities(),
			})
		}
	}
	return rows
}
