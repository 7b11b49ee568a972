package repository

import (
	"context"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
)

// Notifier publishes a rendered report to the pub/sub topic.
type Notifier interface {
	Publish(ctx context.Context, payload entity.NotificationPayload) (entity.DeliveryResult, error)
}

// ChartRenderer turns a zero-filled daily cost matrix into an image.
type ChartRenderer interface {
	RenderChart(daily entity.DailyCosts, dateRange entity.DateRange) ([]byte, error)
}
