package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/repository"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
	"github.com/diillson/aws-cost-notifier-go/pkg/logging"
)

type mockRunner struct {
	result types.Result
	err    error
	calls  int
}

func (m *mockRunner) Run(context.Context) (types.Result, error) {
	m.calls++
	return m.result, m.err
}

func validConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	cfg.TopicARN = "arn:aws:sns:us-east-1:123456789012:costs"
	return cfg, nil
}

type fixture struct {
	handler *Handler
	runner  *mockRunner
	gotCfg  types.Config
	logs    *observer.ObservedLogs
}

func newFixture(load ConfigLoader, runner *mockRunner) *fixture {
	core, logs := observer.New(zapcore.InfoLevel)
	f := &fixture{runner: runner, logs: logs}
	factory := func(_ context.Context, cfg types.Config, _ types.Logger) (Runner, error) {
		f.gotCfg = cfg
		return runner, nil
	}
	f.handler = NewHandler(load, factory, logging.NewZapLogger(zap.New(core)))
	return f
}

func TestHandle_Success(t *testing.T) {
	f := newFixture(validConfig, &mockRunner{result: types.SuccessResult("SNS notification sent")})
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})

	result, err := f.handler.Handle(ctx, json.RawMessage(`{"source":"aws.events","detail-type":"Scheduled Event"}`))

	require.NoError(t, err)
	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, 1, f.runner.calls)
	assert.Equal(t, types.ModeText, f.gotCfg.Mode)

	entries := f.logs.FilterField(zap.String("request_id", "req-1")).All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "text", entries[len(entries)-1].ContextMap()["mode"])
}

func TestHandle_EventOverrides(t *testing.T) {
	f := newFixture(validConfig, &mockRunner{result: types.SuccessResult("ok")})

	_, err := f.handler.Handle(context.Background(), json.RawMessage(`{"mode":"chart","chart_days":14}`))

	require.NoError(t, err)
	assert.Equal(t, types.ModeChart, f.gotCfg.Mode)
	assert.Equal(t, 14, f.gotCfg.ChartDays)
	assert.Equal(t, 1, f.gotCfg.PastMonths)
}

func TestHandle_ConfigErrorIsReturned(t *testing.T) {
	load := func() (types.Config, error) { return types.DefaultConfig(), nil }
	f := newFixture(load, &mockRunner{})

	result, err := f.handler.Handle(context.Background(), nil)

	assert.ErrorIs(t, err, types.ErrConfig)
	assert.Equal(t, 500, result.StatusCode)
	assert.Equal(t, "ConfigError", result.ErrorKind)
	assert.Zero(t, f.runner.calls)
}

func TestHandle_InvalidPayload(t *testing.T) {
	f := newFixture(validConfig, &mockRunner{})

	result, err := f.handler.Handle(context.Background(), json.RawMessage(`{"mode":`))

	assert.ErrorIs(t, err, types.ErrConfig)
	assert.Equal(t, types.StatusFailure, result.Status)
}

func TestHandle_PassesRunnerOutcomeThrough(t *testing.T) {
	upstream := errors.Join(types.ErrUpstream, errors.New("throttled"))
	f := newFixture(validConfig, &mockRunner{result: types.FailureResult(upstream), err: upstream})

	result, err := f.handler.Handle(context.Background(), json.RawMessage(`null`))

	assert.ErrorIs(t, err, types.ErrUpstream)
	assert.Equal(t, "UpstreamError", result.ErrorKind)
}

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent(json.RawMessage("  "))
	require.NoError(t, err)
	assert.Equal(t, Event{}, event)

	event, err = ParseEvent(json.RawMessage(`{"past_months":3}`))
	require.NoError(t, err)
	require.NotNil(t, event.PastMonths)
	assert.Equal(t, 3, *event.PastMonths)
}

type sharedCostRepository struct {
	fetches []entity.Granularity
}

func (m *sharedCostRepository) FetchCosts(_ context.Context, _ entity.DateRange, g entity.Granularity) ([]entity.CostRecord, error) {
	m.fetches = append(m.fetches, g)
	return nil, nil
}

func (m *sharedCostRepository) GetAccountID(context.Context) (string, error) { return "", nil }

func (m *sharedCostRepository) GetBudgets(context.Context, string) ([]entity.BudgetInfo, error) {
	return nil, nil
}

type sharedNotifier struct {
	published int
}

func (m *sharedNotifier) Publish(context.Context, entity.NotificationPayload) (entity.DeliveryResult, error) {
	m.published++
	return entity.DeliveryResult{MessageID: "m"}, nil
}

type stubChart struct{}

func (stubChart) RenderChart(entity.DailyCosts, entity.DateRange) ([]byte, error) {
	return []byte("png"), nil
}

func TestUseCaseFactory_ReusesClientsAcrossInvocations(t *testing.T) {
	costs := &sharedCostRepository{}
	notifier := &sharedNotifier{}
	var chartDays []int
	factory := NewUseCaseFactory(costs, notifier, func(days int) repository.ChartRenderer {
		chartDays = append(chartDays, days)
		return stubChart{}
	})
	handler := NewHandler(validConfig, factory, nil)

	first, err := handler.Handle(context.Background(), nil)
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), json.RawMessage(`{"mode":"chart","chart_days":14}`))
	require.NoError(t, err)

	assert.Equal(t, types.StatusSkipped, first.Status)
	assert.Equal(t, types.StatusSuccess, second.Status)
	assert.Equal(t, []entity.Granularity{entity.GranularityMonthly, entity.GranularityDaily}, costs.fetches)
	assert.Equal(t, 1, notifier.published)
	assert.Equal(t, []int{7, 14}, chartDays)
}
