package cost

import (
	"fmt"
	"strings"
	"time"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
)

// TextOptions carries the parts of a text report that do not come from the
// cost data itself.
type TextOptions struct {
	Title     string
	Subject   string
	AccountID string
	Budgets   []entity.BudgetInfo
}

// RenderText builds the text notification: one total line per period in the
// given order (most recent first), then one line per breakdown entry.
func RenderText(periods []entity.PeriodCosts, breakdown entity.FormattedBreakdown, opts TextOptions) entity.NotificationPayload {
	var b strings.Builder
	for _, p := range periods {
		fmt.Fprintf(&b, "%s: %s USD\n", periodLabel(p.PeriodKey), p.TotalCost.StringFixed(2))
	}
	for _, e := range breakdown {
		fmt.Fprintf(&b, "- %s: %s USD\n", e.Label, e.Amount.StringFixed(2))
	}
	for _, budget := range opts.Budgets {
		fmt.Fprintf(&b, "Budget %s: %s / %s USD\n", budget.Name, budget.Actual.StringFixed(2), budget.Limit.StringFixed(2))
	}

	title := opts.Title
	if opts.AccountID != "" {
		title = fmt.Sprintf("%s (%s)", title, opts.AccountID)
	}

	return entity.NotificationPayload{
		Title:       title,
		Subject:     opts.Subject,
		Description: strings.TrimRight(b.String(), "\n"),
		ContentType: "application/json",
	}
}

// periodLabel turns "2026-10" into "2026年10月の利用料". Daily keys fall back
// to the raw key.
func periodLabel(key string) string {
	month, err := time.Parse(monthLayout, key)
	if err != nil {
		return key + "の利用料"
	}
	return fmt.Sprintf("%d年%d月の利用料", month.Year(), int(month.Month()))
}

// ChartTitle is the fixed title of the daily stacked bar chart.
func ChartTitle(days int) string {
	return fmt.Sprintf("AWS Cost by Service for Last %d Days", days)
}
