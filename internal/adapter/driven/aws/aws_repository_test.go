package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	budgetTypes "github.com/aws/aws-sdk-go-v2/service/budgets/types"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
	sharedTypes "github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

type mockCostExplorerAPI struct {
	getCostAndUsageFunc func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

func (m *mockCostExplorerAPI) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	return m.getCostAndUsageFunc(ctx, params, optFns...)
}

type mockSTSAPI struct {
	account string
	err     error
}

func (m *mockSTSAPI) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &sts.GetCallerIdentityOutput{Account: awssdk.String(m.account)}, nil
}

type mockBudgetsAPI struct {
	describeBudgetsFunc func(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error)
}

func (m *mockBudgetsAPI) DescribeBudgets(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error) {
	return m.describeBudgetsFunc(ctx, params, optFns...)
}

func group(service, amount string) types.Group {
	return types.Group{
		Keys: []string{service},
		Metrics: map[string]types.MetricValue{
			"UnblendedCost": {Amount: awssdk.String(amount), Unit: awssdk.String("USD")},
		},
	}
}

func period(start, end string, groups ...types.Group) types.ResultByTime {
	return types.ResultByTime{
		TimePeriod: &types.DateInterval{Start: awssdk.String(start), End: awssdk.String(end)},
		Groups:     groups,
	}
}

var octoberRange = entity.DateRange{
	Start: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
}

func TestFetchCosts_BuildsRequestAndRecords(t *testing.T) {
	var captured *costexplorer.GetCostAndUsageInput
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			captured = params
			return &costexplorer.GetCostAndUsageOutput{
				ResultsByTime: []types.ResultByTime{
					period("2026-09-01", "2026-10-01", group("Amazon EC2", "100.50"), group("Tax", "8.04")),
					period("2026-10-01", "2026-10-16", group("Amazon EC2", "40.00")),
				},
			}, nil
		},
	}
	repo := NewAWSRepositoryWithAPI(mock, &mockSTSAPI{}, nil, time.Second)

	records, err := repo.FetchCosts(context.Background(), octoberRange, entity.GranularityMonthly)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "2026-09-01", awssdk.ToString(captured.TimePeriod.Start))
	assert.Equal(t, "2026-10-16", awssdk.ToString(captured.TimePeriod.End))
	assert.Equal(t, types.GranularityMonthly, captured.Granularity)
	assert.Equal(t, []string{"UnblendedCost"}, captured.Metrics)
	require.Len(t, captured.GroupBy, 1)
	assert.Equal(t, "SERVICE", awssdk.ToString(captured.GroupBy[0].Key))

	require.Len(t, records, 3)
	assert.Equal(t, "2026-09", records[0].PeriodKey)
	assert.Equal(t, "Amazon EC2", records[0].Service)
	assert.Equal(t, "100.5", records[0].Amount.String())
	assert.Equal(t, "Tax", records[1].Service)
	assert.Equal(t, "2026-10", records[2].PeriodKey)
}

func TestFetchCosts_DailyKeysAndPagination(t *testing.T) {
	calls := 0
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			calls++
			if params.NextPageToken == nil {
				return &costexplorer.GetCostAndUsageOutput{
					ResultsByTime: []types.ResultByTime{period("2026-10-09", "2026-10-10", group("Amazon S3", "0.12"))},
					NextPageToken: awssdk.String("page-2"),
				}, nil
			}
			assert.Equal(t, "page-2", awssdk.ToString(params.NextPageToken))
			return &costexplorer.GetCostAndUsageOutput{
				ResultsByTime: []types.ResultByTime{period("2026-10-10", "2026-10-11", group("Amazon S3", "0.15"))},
			}, nil
		},
	}
	repo := NewAWSRepositoryWithAPI(mock, nil, nil, time.Second)

	records, err := repo.FetchCosts(context.Background(), octoberRange, entity.GranularityDaily)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-10-09", records[0].PeriodKey)
	assert.Equal(t, "2026-10-10", records[1].PeriodKey)
}

func TestFetchCosts_SkipsNegativeAmounts(t *testing.T) {
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			return &costexplorer.GetCostAndUsageOutput{
				ResultsByTime: []types.ResultByTime{
					period("2026-10-01", "2026-10-16", group("Amazon EC2", "5"), group("Credits", "-2.5")),
				},
			}, nil
		},
	}
	repo := NewAWSRepositoryWithAPI(mock, nil, nil, time.Second)

	records, err := repo.FetchCosts(context.Background(), octoberRange, entity.GranularityMonthly)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Amazon EC2", records[0].Service)
}

func TestFetchCosts_Errors(t *testing.T) {
	tests := []struct {
		name string
		out  *costexplorer.GetCostAndUsageOutput
		err  error
	}{
		{name: "api error", err: errors.New("AccessDeniedException")},
		{name: "nil response"},
		{
			name: "missing time period",
			out:  &costexplorer.GetCostAndUsageOutput{ResultsByTime: []types.ResultByTime{{Groups: []types.Group{group("EC2", "1")}}}},
		},
		{
			name: "missing service key",
			out: &costexplorer.GetCostAndUsageOutput{ResultsByTime: []types.ResultByTime{
				period("2026-10-01", "2026-10-16", types.Group{Metrics: map[string]types.MetricValue{"UnblendedCost": {Amount: awssdk.String("1")}}}),
			}},
		},
		{
			name: "missing metric",
			out: &costexplorer.GetCostAndUsageOutput{ResultsByTime: []types.ResultByTime{
				period("2026-10-01", "2026-10-16", types.Group{Keys: []string{"EC2"}}),
			}},
		},
		{
			name: "malformed amount",
			out: &costexplorer.GetCostAndUsageOutput{ResultsByTime: []types.ResultByTime{
				period("2026-10-01", "2026-10-16", group("EC2", "twelve")),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCostExplorerAPI{
				getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
					return tt.out, tt.err
				},
			}
			repo := NewAWSRepositoryWithAPI(mock, nil, nil, time.Second)

			_, err := repo.FetchCosts(context.Background(), octoberRange, entity.GranularityMonthly)

			require.Error(t, err)
			assert.ErrorIs(t, err, sharedTypes.ErrUpstream)
		})
	}
}

func TestFetchCosts_RejectsEmptyRange(t *testing.T) {
	repo := NewAWSRepositoryWithAPI(&mockCostExplorerAPI{}, nil, nil, time.Second)
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.FetchCosts(context.Background(), entity.DateRange{Start: day, End: day}, entity.GranularityMonthly)

	assert.ErrorIs(t, err, sharedTypes.ErrUpstream)
}

func TestFetchCosts_AppliesTimeout(t *testing.T) {
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
			return &costexplorer.GetCostAndUsageOutput{}, nil
		},
	}
	repo := NewAWSRepositoryWithAPI(mock, nil, nil, 5*time.Second)

	_, err := repo.FetchCosts(context.Background(), octoberRange, entity.GranularityMonthly)

	require.NoError(t, err)
}

func TestGetAccountID(t *testing.T) {
	repo := NewAWSRepositoryWithAPI(nil, &mockSTSAPI{account: "123456789012"}, nil, time.Second)

	id, err := repo.GetAccountID(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "123456789012", id)

	repo = NewAWSRepositoryWithAPI(nil, &mockSTSAPI{err: errors.New("expired token")}, nil, time.Second)
	_, err = repo.GetAccountID(context.Background())
	assert.Error(t, err)
}

func TestGetBudgets(t *testing.T) {
	mock := &mockBudgetsAPI{
		describeBudgetsFunc: func(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error) {
			assert.Equal(t, "123456789012", awssdk.ToString(params.AccountId))
			return &budgets.DescribeBudgetsOutput{
				Budgets: []budgetTypes.Budget{
					{
						BudgetName:  awssdk.String("monthly"),
						BudgetLimit: &budgetTypes.Spend{Amount: awssdk.String("100.0"), Unit: awssdk.String("USD")},
						CalculatedSpend: &budgetTypes.CalculatedSpend{
							ActualSpend:     &budgetTypes.Spend{Amount: awssdk.String("42.5"), Unit: awssdk.String("USD")},
							ForecastedSpend: &budgetTypes.Spend{Amount: awssdk.String("90"), Unit: awssdk.String("USD")},
						},
					},
					{BudgetName: awssdk.String("no-spend")},
				},
			}, nil
		},
	}
	repo := NewAWSRepositoryWithAPI(nil, nil, mock, time.Second)

	got, err := repo.GetBudgets(context.Background(), "123456789012")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "monthly", got[0].Name)
	assert.Equal(t, "100", got[0].Limit.String())
	assert.Equal(t, "42.5", got[0].Actual.String())
	assert.Equal(t, "90", got[0].Forecast.String())
	assert.True(t, got[1].Actual.IsZero())
}

func TestGetBudgets_FollowsNextToken(t *testing.T) {
	var tokens []string
	mock := &mockBudgetsAPI{
		describeBudgetsFunc: func(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error) {
			tokens = append(tokens, awssdk.ToString(params.NextToken))
			if params.NextToken == nil {
				return &budgets.DescribeBudgetsOutput{
					Budgets:   []budgetTypes.Budget{{BudgetName: awssdk.String("first")}},
					NextToken: awssdk.String("page-2"),
				}, nil
			}
			return &budgets.DescribeBudgetsOutput{
				Budgets: []budgetTypes.Budget{{BudgetName: awssdk.String("second")}},
			}, nil
		},
	}
	repo := NewAWSRepositoryWithAPI(nil, nil, mock, time.Second)

	got, err := repo.GetBudgets(context.Background(), "123456789012")

	require.NoError(t, err)
	assert.Equal(t, []string{"", "page-2"}, tokens)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "second", got[1].Name)
}

func TestGetBudgets_ErrorOnSecondPage(t *testing.T) {
	mock := &mockBudgetsAPI{
		describeBudgetsFunc: func(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error) {
			if params.NextToken == nil {
				return &budgets.DescribeBudgetsOutput{NextToken: awssdk.String("page-2")}, nil
			}
			return nil, errors.New("throttled")
		},
	}

	_, err := NewAWSRepositoryWithAPI(nil, nil, mock, time.Second).GetBudgets(context.Background(), "1")

	assert.Error(t, err)
}

func TestNewAWSRepository_Regions(t *testing.T) {
	repo := NewAWSRepository(awssdk.Config{}, time.Second)

	assert.Equal(t, billingRegion, repo.ce.(*costexplorer.Client).Options().Region)
	assert.Equal(t, billingRegion, repo.budgets.(*budgets.Client).Options().Region)
	assert.Equal(t, billingRegion, repo.sts.(*sts.Client).Options().Region)

	repo = NewAWSRepository(awssdk.Config{Region: "ap-northeast-1"}, time.Second)

	assert.Equal(t, billingRegion, repo.ce.(*costexplorer.Client).Options().Region)
	assert.Equal(t, "ap-northeast-1", repo.sts.(*sts.Client).Options().Region)
}
