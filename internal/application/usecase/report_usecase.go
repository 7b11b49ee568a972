package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/cost"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/repository"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

// ReportUseCase runs the text digest and the daily chart pipelines. Both are
// strictly sequential: fetch, aggregate, format, render, publish.
type ReportUseCase struct {
	costRepo repository.CostRepository
	notifier repository.Notifier
	chart    repository.ChartRenderer
	logger   types.Logger
	cfg      types.Config
	now      func() time.Time
}

// NewReportUseCase creates a new report use case. notifier may be nil when
// the caller only builds reports (dry run).
func NewReportUseCase(
	costRepo repository.CostRepository,
	notifier repository.Notifier,
	chart repository.ChartRenderer,
	logger types.Logger,
	cfg types.Config,
) *ReportUseCase {
	return &ReportUseCase{
		costRepo: costRepo,
		notifier: notifier,
		chart:    chart,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock substitui o relógio usado para calcular as janelas.
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Run executa o pipeline selecionado pela configuração.
func (uc *ReportUseCase) Run(ctx context.Context) (types.Result, error) {
	if uc.cfg.Mode == types.ModeChart {
		return uc.RunChart(ctx)
	}
	return uc.RunText(ctx)
}

// RunText builds the monthly text digest and publishes it.
func (uc *ReportUseCase) RunText(ctx context.Context) (types.Result, error) {
	digest, err := uc.BuildTextReport(ctx)
	if err != nil {
		return uc.finish(err)
	}
	return uc.publish(ctx, digest.Payload)
}

// RunChart builds the daily stacked bar chart and publishes it.
func (uc *ReportUseCase) RunChart(ctx context.Context) (types.Result, error) {
	payload, _, err := uc.BuildChartReport(ctx)
	if err != nil {
		return uc.finish(err)
	}
	return uc.publish(ctx, payload)
}

// BuildTextReport fetches the trailing months and renders the digest without
// publishing it.
func (uc *ReportUseCase) BuildTextReport(ctx context.Context) (entity.Digest, error) {
	now := uc.now()
	window := cost.MonthlyWindow(now, uc.cfg.PastMonths)

	status := uc.logger.Status(fmt.Sprintf("Fetching monthly costs from %s to %s...",
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02")))
	records, err := uc.costRepo.FetchCosts(ctx, window, entity.GranularityMonthly)
	status.Stop()
	if err != nil {
		return entity.Digest{}, asKind(err, types.ErrUpstream)
	}
	uc.logger.LogInfo("Fetched %d cost records", len(records))

	periods, err := cost.SelectPeriods(cost.Aggregate(records), cost.MonthKeys(now, uc.cfg.PastMonths))
	if err != nil {
		return entity.Digest{}, err
	}

	breakdown := cost.Format(periods[0].ServiceCosts, decimal.NewFromFloat(uc.cfg.CostThreshold))

	accountID := uc.accountID(ctx)
	var budgets []entity.BudgetInfo
	if uc.cfg.IncludeBudgets && accountID != "" {
		budgets, err = uc.costRepo.GetBudgets(ctx, accountID)
		if err != nil {
			uc.logger.LogWarning("Could not read budgets: %s", err)
			budgets = nil
		}
	}

	payload := cost.RenderText(periods, breakdown, cost.TextOptions{
		Title:     uc.cfg.Title,
		Subject:   uc.cfg.Subject,
		AccountID: accountID,
		Budgets:   budgets,
	})

	return entity.Digest{
		AccountID: accountID,
		Range:     window,
		Periods:   periods,
		Breakdown: breakdown,
		Budgets:   budgets,
		Payload:   payload,
	}, nil
}

// BuildChartReport fetches the daily costs of the lookback window and renders
// the chart without publishing it.
func (uc *ReportUseCase) BuildChartReport(ctx context.Context) (entity.NotificationPayload, entity.DateRange, error) {
	window := cost.DailyWindow(uc.now(), uc.cfg.ChartDays)

	status := uc.logger.Status(fmt.Sprintf("Fetching daily costs from %s to %s...",
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02")))
	records, err := uc.costRepo.FetchCosts(ctx, window, entity.GranularityDaily)
	status.Stop()
	if err != nil {
		return entity.NotificationPayload{}, window, asKind(err, types.ErrUpstream)
	}
	uc.logger.LogInfo("Fetched %d cost records", len(records))

	image, err := uc.chart.RenderChart(cost.DailyMatrix(records, window), window)
	if err != nil {
		return entity.NotificationPayload{}, window, asKind(err, types.ErrRender)
	}
	uc.logger.LogInfo("Rendered chart (%d bytes)", len(image))

	return entity.NotificationPayload{
		Title:       cost.ChartTitle(uc.cfg.ChartDays),
		Subject:     "AWS Cost by Service",
		Image:       image,
		ContentType: "image/png",
	}, window, nil
}

func (uc *ReportUseCase) publish(ctx context.Context, payload entity.NotificationPayload) (types.Result, error) {
	if uc.notifier == nil {
		return uc.finish(fmt.Errorf("%w: no notifier configured", types.ErrConfig))
	}

	delivery, err := uc.notifier.Publish(ctx, payload)
	if err != nil {
		return uc.finish(asKind(err, types.ErrDelivery))
	}

	uc.logger.LogSuccess("Published %q to %s (message %s)", payload.Title, delivery.TopicARN, delivery.MessageID)
	return types.SuccessResult("SNS notification sent"), nil
}

// finish converte um erro no resultado uniforme. Config and upstream failures
// are also returned as errors so the scheduler applies its retry policy.
func (uc *ReportUseCase) finish(err error) (types.Result, error) {
	switch {
	case errors.Is(err, types.ErrInsufficientData):
		uc.logger.LogWarning("Skipping notification: %s", err)
		return types.SkippedResult(err.Error()), nil
	case types.IsFatal(err):
		uc.logger.LogError("%s: %s", types.KindOf(err), err)
		return types.FailureResult(err), err
	default:
		uc.logger.LogError("%s: %s", types.KindOf(err), err)
		return types.FailureResult(err), nil
	}
}

func (uc *ReportUseCase) accountID(ctx context.Context) string {
	id, err := uc.costRepo.GetAccountID(ctx)
	if err != nil {
		uc.logger.LogWarning("Could not resolve account ID: %s", err)
		return ""
	}
	return id
}

// asKind garante que err carregue o tipo esperado.
func asKind(err, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// MonthlyTrend converts periods, oldest first, for the console trend bars.
func MonthlyTrend(periods []entity.PeriodCosts) []types.MonthlyCost {
	trend := make([]types.MonthlyCost, 0, len(periods))
	for i := len(periods) - 1; i >= 0; i-- {
		month := periods[i].PeriodKey
		if t, err := time.Parse("2006-01", month); err == nil {
			month = t.Format("Jan 2006")
		}
		trend = append(trend, types.MonthlyCost{Month: month, Cost: periods[i].TotalCost.InexactFloat64()})
	}
	return trend
}
