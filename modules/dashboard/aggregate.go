package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/opsdesk/backoffice/pkg/crud"
)

type HistogramBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Histogram counts records per value of a categorical field, ordered by
// count descending with label as the tiebreak so equal counts render in a
// stable order. Records with an empty value are skipped.
func Histogram(records []crud.Record, field string) []HistogramBucket {
	counts := map[string]int{}
	for _, record := range records {
		label := record.String(field)
		if label == "" {
			continue
		}
		counts[label]++
	}
	buckets := make([]HistogramBucket, 0, len(counts))
	for label, count := range counts {
		buckets = append(buckets, HistogramBucket{Label: label, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	return buckets
}

type Severity string

const (
	SeverityUrgent  Severity = "urgent"
	SeverityWarning Severity = "warning"
	SeverityNormal  Severity = "normal"
)

type ExpiryAlert struct {
	Source        string   `json:"source"`
	RecordID      string   `json:"recordId"`
	Title         string   `json:"title"`
	ExpiresAt     string   `json:"expiresAt"`
	DaysRemaining int      `json:"daysRemaining"`
	Severity      Severity `json:"severity"`
}

// ExpirySource names one expiring-date column of a resource to scan for
// alerts.
type ExpirySource struct {
	Name       string
	Records    []crud.Record
	DateField  string
	TitleField string
}

const alertWindowDays = 30

// DaysRemaining counts whole days until expiry, rounding partial days up:
// anything expiring within the next 24 hours reports one day, and a
// negative result means already expired.
func DaysRemaining(now, expiry time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

func severityFor(days int) Severity {
	switch {
	case days <= 7:
		return SeverityUrgent
	case days <= 15:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// CollectExpiryAlerts walks every source and keeps dates inside the
// 30-day window. Already-expired records are left out of the alert list and
// reported as a separate count. Alerts come back soonest-first.
func CollectExpiryAlerts(now time.Time, sources []ExpirySource) ([]ExpiryAlert, int) {
	alerts := make([]ExpiryAlert, 0)
	expired := 0
	for _, source := range sources {
		for _, record := range source.Records {
			expiry := record.Time(source.DateField)
			if expiry.IsZero() {
				continue
			}
			days := DaysRemaining(now, expiry)
			if days < 0 {
				expired++
				continue
			}
			if days > alertWindowDays {
				continue
			}
			alerts = append(alerts, ExpiryAlert{
				Source:        source.Name,
				RecordID:      record.ID().String(),
				Title:         record.String(source.TitleField),
				ExpiresAt:     expiry.Format(time.DateOnly),
				DaysRemaining: days,
				Severity:      severityFor(days),
			})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DaysRemaining < alerts[j].DaysRemaining
	})
	return alerts, expired
}

type ReadinessSummary struct {
	Ready    int `json:"ready"`
	NotReady int `json:"notReady"`
}

func SummarizeReadiness(employees []*employee.Employee) ReadinessSummary {
	var summary ReadinessSummary
	for _, e := range employees {
		if e.Readiness.ReadyForField() {
			summary.Ready++
		} else {
			summary.NotReady++
		}
	}
	return summary
}
