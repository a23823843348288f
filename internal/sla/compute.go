package sla

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned when the requested report period is outside
// the accepted range. It aborts the whole computation; per-record problems
// never do.
var ErrInvalidPeriod = errors.New("invalid report period")

// minReportYear is a sanity floor: the operation never ran before 2000 and a
// lower year is always an input mistake.
const minReportYear = 2000

// Options carries the computation knobs. It is passed explicitly so the same
// process can run concurrent computations with different settings.
type Options struct {
	// MergeGap is the tolerance between the end of one incident and the
	// start of the next for both to count as a single downtime interval.
	MergeGap time.Duration

	// MinDowntime is the minimum clipped duration for an incident to be
	// counted at all.
	MinDowntime time.Duration

	// Location anchors the calendar month; naive source timestamps are
	// located here by the adapters before they reach the engine.
	Location *time.Location
}

// DefaultOptions returns the production defaults: 15 minute merge gap,
// 1 minute minimum downtime, Buenos Aires local time.
func DefaultOptions() Options {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		loc = time.UTC
	}
	return Options{
		MergeGap:    15 * time.Minute,
		MinDowntime: time.Minute,
		Location:    loc,
	}
}

// CatalogEntry is the contractual record of one service from the service
// catalog. SLAPct is a 0-1 fraction.
type CatalogEntry struct {
	Client                string   `json:"client"`
	ServiceType           string   `json:"service_type"`
	SLAPct                *float64 `json:"sla_pct,omitempty"`
	ReportedDowntimeHours *float64 `json:"reported_downtime_hours,omitempty"`
}

// Computation is the complete result of one SLA run: the fleet summary, one
// metrics row per affected service, the flattened annex, and the catalog
// echo. It is immutable once returned.
type Computation struct {
	Month         int                     `json:"month"`
	Year          int                     `json:"year"`
	Summary       Summary                 `json:"summary"`
	Services      []ServiceMetrics        `json:"services"`
	Annex         []AnnexRow              `json:"annex"`
	ServicesMeta  map[string]CatalogEntry `json:"services_meta,omitempty"`
	RejectedCount int                     `json:"rejected_count"`
}

// Compute runs the full SLA pipeline for one calendar month: validate and
// clip each row, merge per-service incidents into downtime intervals,
// aggregate per-service and fleet-wide KPIs, and flatten the annex. It is a
// pure function of its inputs.
func Compute(rows []RawIncident, month, year int, catalog map[string]CatalogEntry, opts Options) (*Computation, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidPeriod, month)
	}
	if year < minReportYear {
		return nil, fmt.Errorf("%w: year %d below %d", ErrInvalidPeriod, year, minReportYear)
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	periodStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	periodEnd := periodStart.AddDate(0, 1, 0)
	periodHours := periodEnd.Sub(periodStart).Hours()

	// Build and group. Grouping preserves input order inside each service so
	// the merge's stable sort keeps the documented tie-break.
	byService := make(map[ServiceKey][]*Incident)
	var keys []ServiceKey
	rejected := 0
	for _, row := range rows {
		in, ok := BuildIncident(row, periodStart, periodEnd, opts.MinDowntime)
		if !ok {
			rejected++
			continue
		}
		key := in.Key()
		if _, seen := byService[key]; !seen {
			keys = append(keys, key)
		}
		byService[key] = append(byService[key], in)
	}

	services := make([]ServiceMetrics, 0, len(keys))
	for _, key := range keys {
		intervals := mergeIncidents(byService[key], opts.MergeGap)
		if len(intervals) == 0 {
			continue
		}
		services = append(services, serviceMetrics(key, intervals, periodHours))
	}
	sortServices(services)

	label := fmt.Sprintf("%04d-%02d", year, month)
	return &Computation{
		Month:         month,
		Year:          year,
		Summary:       summarize(services, periodHours, label),
		Services:      services,
		Annex:         buildAnnex(services),
		ServicesMeta:  normalizeCatalog(catalog),
		RejectedCount: rejected,
	}, nil
}

// normalizeCatalog copies the catalog, converting SLA percentages handed in
// as 0-100 values into 0-1 fractions.
func normalizeCatalog(catalog map[string]CatalogEntry) map[string]CatalogEntry {
	if catalog == nil {
		return nil
	}
	out := make(map[string]CatalogEntry, len(catalog))
	for id, entry := range catalog {
		if entry.SLAPct != nil && *entry.SLAPct > 1 {
			pct := *entry.SLAPct / 100
			entry.SLAPct = &pct
		}
		out[id] = entry
	}
	return out
}
