package cost

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

// Aggregate folds records into per-period totals. Periods without records are
// absent from the result.
func Aggregate(records []entity.CostRecord) map[string]entity.PeriodCosts {
	periods := make(map[string]entity.PeriodCosts)
	for _, r := range records {
		p, ok := periods[r.PeriodKey]
		if !ok {
			p = entity.PeriodCosts{
				PeriodKey:    r.PeriodKey,
				TotalCost:    decimal.Zero,
				ServiceCosts: make(map[string]decimal.Decimal),
			}
		}
		p.ServiceCosts[r.Service] = p.ServiceCosts[r.Service].Add(r.Amount)
		p.TotalCost = p.TotalCost.Add(r.Amount)
		periods[r.PeriodKey] = p
	}
	return periods
}

// SortedPeriods returns the periods ordered by key, oldest first.
func SortedPeriods(periods map[string]entity.PeriodCosts) []entity.PeriodCosts {
	out := make([]entity.PeriodCosts, 0, len(periods))
	for _, p := range periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PeriodKey < out[j].PeriodKey
	})
	return out
}

// SelectPeriods picks the periods named by keys, in the order of keys. A
// missing key means the payload cannot support the comparison and the report
// must not be sent.
func SelectPeriods(periods map[string]entity.PeriodCosts, keys []string) ([]entity.PeriodCosts, error) {
	if len(periods) < len(keys) {
		return nil, fmt.Errorf("%w: need %d periods, got %d", types.ErrInsufficientData, len(keys), len(periods))
	}
	out := make([]entity.PeriodCosts, 0, len(keys))
	for _, key := range keys {
		p, ok := periods[key]
		if !ok {
			return nil, fmt.Errorf("%w: no cost data for period %s", types.ErrInsufficientData, key)
		}
		out = append(out, p)
	}
	return out, nil
}

// DailyMatrix builds the chart input: every day of the range gets an entry
// for every service observed anywhere in the range, defaulting to zero.
// Records outside the range are ignored.
func DailyMatrix(records []entity.CostRecord, dateRange entity.DateRange) entity.DailyCosts {
	days := dateRange.Days()
	inRange := make(map[string]bool, len(days))
	for _, d := range days {
		inRange[DayKey(d)] = true
	}

	services := make(map[string]bool)
	for _, r := range records {
		if inRange[r.PeriodKey] {
			services[r.Service] = true
		}
	}

	matrix := make(entity.DailyCosts, len(days))
	for _, d := range days {
		row := make(map[string]decimal.Decimal, len(services))
		for svc := range services {
			row[svc] = decimal.Zero
		}
		matrix[DayKey(d)] = row
	}

	for _, r := range records {
		row, ok := matrix[r.PeriodKey]
		if !ok {
			continue
		}
		row[r.Service] = row[r.Service].Add(r.Amount)
	}
	return matrix
}

// Services returns the service names of a daily matrix, sorted.
func Services(daily entity.DailyCosts) []string {
	seen := make(map[string]bool)
	for _, row := range daily {
		for svc := range row {
			seen[svc] = true
		}
	}
	names := make([]string, 0, len(seen))
	for svc := range seen {
		names = append(names, svc)
	}
	sort.Strings(names)
	return names
}
