package repository

import (
	"context"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
)

// CostRepository defines the interface for billing API interactions.
type CostRepository interface {
	// FetchCosts returns one record per (time bucket, service) in the range.
	FetchCosts(ctx context.Context, dateRange entity.DateRange, granularity entity.Granularity) ([]entity.CostRecord, error)

	GetAccountID(ctx context.Context) (string, error)
	GetBudgets(ctx context.Context, accountID string) ([]entity.BudgetInfo, error)
}
