package cost

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
)

// Format applies the breakdown rules to a service cost mapping without
// modifying it: "Tax" is set aside, services below threshold are folded into
// "Other", the rest is sorted by amount descending (ties by name), then
// "Other" and "Tax" are appended when positive.
func Format(serviceCosts map[string]decimal.Decimal, threshold decimal.Decimal) entity.FormattedBreakdown {
	tax := decimal.Zero
	other := decimal.Zero
	main := make(entity.FormattedBreakdown, 0, len(serviceCosts))

	for service, amount := range serviceCosts {
		switch {
		case service == entity.TaxLabel:
			tax = amount
		case amount.LessThan(threshold):
			other = other.Add(amount)
		case amount.IsZero():
			// só alcançado com threshold 0; zeros não viram linhas
		default:
			main = append(main, entity.BreakdownEntry{Label: service, Amount: amount})
		}
	}

	sort.Slice(main, func(i, j int) bool {
		if c := main[i].Amount.Cmp(main[j].Amount); c != 0 {
			return c > 0
		}
		return main[i].Label < main[j].Label
	})

	if other.IsPositive() {
		main = append(main, entity.BreakdownEntry{Label: entity.OtherLabel, Amount: other})
	}
	if tax.IsPositive() {
		main = append(main, entity.BreakdownEntry{Label: entity.TaxLabel, Amount: tax})
	}
	return main
}
