// Package cost holds the pure cost logic: reporting windows, aggregation of
// billing records, the business rules of the service breakdown and the text
// rendering of a digest.
package cost

import (
	"time"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyWindow returns the range from the first day of the month pastMonths
// before now up to today (exclusive).
func MonthlyWindow(now time.Time, pastMonths int) entity.DateRange {
	return entity.DateRange{
		Start: startOfMonth(now).AddDate(0, -pastMonths, 0),
		End:   startOfDay(now),
	}
}

// DailyWindow returns the last days full days before today.
func DailyWindow(now time.Time, days int) entity.DateRange {
	today := startOfDay(now)
	return entity.DateRange{Start: today.AddDate(0, 0, -days), End: today}
}

// MonthKeys lists the period keys a monthly report needs, most recent first:
// the current month followed by pastMonths previous months.
func MonthKeys(now time.Time, pastMonths int) []string {
	current := startOfMonth(now)
	keys := make([]string, 0, pastMonths+1)
	for i := 0; i <= pastMonths; i++ {
		keys = append(keys, current.AddDate(0, -i, 0).Format(monthLayout))
	}
	return keys
}

// PeriodKey formats the start of a billing time bucket as a period key.
func PeriodKey(start time.Time, granularity entity.Granularity) string {
	if granularity == entity.GranularityMonthly {
		return start.Format(monthLayout)
	}
	return start.Format(dayLayout)
}

// DayKey formats a day as used by DailyCosts.
func DayKey(day time.Time) string {
	return day.Format(dayLayout)
}
