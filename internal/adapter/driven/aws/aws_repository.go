package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/shopspring/decimal"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/cost"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

const (
	metricUnblendedCost = "UnblendedCost"
	dateLayout          = "2006-01-02"

	// Cost Explorer e Budgets só respondem em us-east-1.
	billingRegion = "us-east-1"
)

// CostExplorerAPI is the subset of the Cost Explorer client we use.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// STSAPI is the subset of the STS client we use.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// BudgetsAPI is the subset of the Budgets client we use.
type BudgetsAPI interface {
	DescribeBudgets(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error)
}

// AWSRepositoryImpl implementa o CostRepository sobre o Cost Explorer.
type AWSRepositoryImpl struct {
	ce      CostExplorerAPI
	sts     STSAPI
	budgets BudgetsAPI
	timeout time.Duration
}

// LoadAWSConfig carrega a configuração do SDK para o perfil e região informados.
func LoadAWSConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("%w: failed to load AWS config for profile %q: %v", types.ErrConfig, profile, err)
	}
	return cfg, nil
}

// NewAWSRepository cria o repositório a partir de uma configuração do SDK.
// Each API call is bounded by timeout.
func NewAWSRepository(cfg aws.Config, timeout time.Duration) *AWSRepositoryImpl {
	billingCfg := cfg.Copy()
	billingCfg.Region = billingRegion

	identityCfg := cfg.Copy()
	if identityCfg.Region == "" {
		identityCfg.Region = billingRegion
	}

	return NewAWSRepositoryWithAPI(
		costexplorer.NewFromConfig(billingCfg),
		sts.NewFromConfig(identityCfg),
		budgets.NewFromConfig(billingCfg),
		timeout,
	)
}

// NewAWSRepositoryWithAPI creates a repository with custom API implementations (for testing).
func NewAWSRepositoryWithAPI(ce CostExplorerAPI, stsAPI STSAPI, budgetsAPI BudgetsAPI, timeout time.Duration) *AWSRepositoryImpl {
	return &AWSRepositoryImpl{
		ce:      ce,
		sts:     stsAPI,
		budgets: budgetsAPI,
		timeout: timeout,
	}
}

func (r *AWSRepositoryImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// FetchCosts queries UnblendedCost grouped by SERVICE and returns one record
// per service and time bucket, following pagination. Negative amounts
// (credits and refunds) are not reported.
func (r *AWSRepositoryImpl) FetchCosts(ctx context.Context, dateRange entity.DateRange, granularity entity.Granularity) ([]entity.CostRecord, error) {
	if !dateRange.Start.Before(dateRange.End) {
		return nil, fmt.Errorf("%w: empty date range %s..%s", types.ErrUpstream,
			dateRange.Start.Format(dateLayout), dateRange.End.Format(dateLayout))
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(dateRange.Start.Format(dateLayout)),
			End:   aws.String(dateRange.End.Format(dateLayout)),
		},
		Granularity: ceTypes.Granularity(granularity),
		Metrics:     []string{metricUnblendedCost},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	}

	var records []entity.CostRecord
	for {
		out, err := r.getCostAndUsage(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("%w: GetCostAndUsage: %v", types.ErrUpstream, err)
		}

		page, err := recordsFromResults(out.ResultsByTime, granularity)
		if err != nil {
			return nil, err
		}
		records = append(records, page...)

		if out.NextPageToken == nil || *out.NextPageToken == "" {
			break
		}
		input.NextPageToken = out.NextPageToken
	}

	return records, nil
}

func (r *AWSRepositoryImpl) getCostAndUsage(ctx context.Context, input *costexplorer.GetCostAndUsageInput) (*costexplorer.GetCostAndUsageOutput, error) {
	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	out, err := r.ce.GetCostAndUsage(callCtx, input)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("empty response")
	}
	return out, nil
}

func recordsFromResults(results []ceTypes.ResultByTime, granularity entity.Granularity) ([]entity.CostRecord, error) {
	var records []entity.CostRecord
	for _, result := range results {
		if result.TimePeriod == nil || result.TimePeriod.Start == nil {
			return nil, fmt.Errorf("%w: result without time period", types.ErrUpstream)
		}
		start, err := time.Parse(dateLayout, *result.TimePeriod.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid period start %q", types.ErrUpstream, *result.TimePeriod.Start)
		}
		periodKey := cost.PeriodKey(start, granularity)

		for _, group := range result.Groups {
			if len(group.Keys) == 0 {
				return nil, fmt.Errorf("%w: group without service key in %s", types.ErrUpstream, periodKey)
			}
			service := group.Keys[0]

			metric, ok := group.Metrics[metricUnblendedCost]
			if !ok || metric.Amount == nil {
				return nil, fmt.Errorf("%w: missing %s for %s in %s", types.ErrUpstream, metricUnblendedCost, service, periodKey)
			}
			amount, err := decimal.NewFromString(*metric.Amount)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid amount %q for %s in %s", types.ErrUpstream, *metric.Amount, service, periodKey)
			}
			if amount.IsNegative() {
				continue
			}

			records = append(records, entity.CostRecord{
				PeriodKey: periodKey,
				Service:   service,
				Amount:    amount,
			})
		}
	}
	return records, nil
}

// GetAccountID returns the account the credentials belong to.
func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context) (string, error) {
	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.sts.GetCallerIdentity(callCtx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID: %w", err)
	}
	return aws.ToString(result.Account), nil
}

// GetBudgets lista os orçamentos da conta com gasto atual e previsto,
// percorrendo todas as páginas.
func (r *AWSRepositoryImpl) GetBudgets(ctx context.Context, accountID string) ([]entity.BudgetInfo, error) {
	paginator := budgets.NewDescribeBudgetsPaginator(r.budgets, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})

	budgetsData := []entity.BudgetInfo{}
	for paginator.HasMorePages() {
		page, err := r.nextBudgetsPage(ctx, paginator)
		if err != nil {
			return nil, fmt.Errorf("error describing budgets: %w", err)
		}

		for _, budget := range page.Budgets {
			b := entity.BudgetInfo{Name: aws.ToString(budget.BudgetName)}
			if budget.BudgetLimit != nil {
				b.Limit = parseAmount(budget.BudgetLimit.Amount)
			}
			if budget.CalculatedSpend != nil {
				if budget.CalculatedSpend.ActualSpend != nil {
					b.Actual = parseAmount(budget.CalculatedSpend.ActualSpend.Amount)
				}
				if budget.CalculatedSpend.ForecastedSpend != nil {
					b.Forecast = parseAmount(budget.CalculatedSpend.ForecastedSpend.Amount)
				}
			}
			budgetsData = append(budgetsData, b)
		}
	}

	return budgetsData, nil
}

func (r *AWSRepositoryImpl) nextBudgetsPage(ctx context.Context, paginator *budgets.DescribeBudgetsPaginator) (*budgets.DescribeBudgetsOutput, error) {
	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return paginator.NextPage(callCtx)
}

func parseAmount(s *string) decimal.Decimal {
	d, err := decimal.NewFromString(aws.ToString(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
