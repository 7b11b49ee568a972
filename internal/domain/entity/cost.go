package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rótulos sintetizados pelo formatador.
const (
	TaxLabel   = "Tax"
	OtherLabel = "Other"
)

// Granularity is the size of the time buckets requested from the billing API.
type Granularity string

const (
	GranularityDaily   Granularity = "DAILY"
	GranularityMonthly Granularity = "MONTHLY"
)

// DateRange is a half-open interval [Start, End) of calendar days in UTC.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns every calendar day in the range, in order.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// CostRecord is one (period, service) amount returned by the billing API.
type CostRecord struct {
	PeriodKey string          `json:"period_key"`
	Service   string          `json:"service"`
	Amount    decimal.Decimal `json:"amount"`
}

// PeriodCosts holds the per-service totals of one month or one day.
type PeriodCosts struct {
	PeriodKey    string                     `json:"period_key"`
	TotalCost    decimal.Decimal            `json:"total_cost"`
	ServiceCosts map[string]decimal.Decimal `json:"service_costs"`
}

// BreakdownEntry is a display-ready (label, amount) pair.
type BreakdownEntry struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// FormattedBreakdown is the ordered output of the cost formatter: services in
// descending order, then "Other", then "Tax".
type FormattedBreakdown []BreakdownEntry

// Total sums every entry of the breakdown.
func (b FormattedBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b {
		total = total.Add(e.Amount)
	}
	return total
}

// DailyCosts maps day ("2006-01-02") to service to amount. In the chart path
// every day of the range has an entry for every service observed.
type DailyCosts map[string]map[string]decimal.Decimal
