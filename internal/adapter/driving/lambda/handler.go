// Package lambda adapts the report use case to the AWS Lambda runtime. The
// scheduled trigger may pass a small JSON event overriding the configured
// mode and windows; any other event (e.g. an EventBridge envelope) is treated
// as a plain trigger.
package lambda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"github.com/diillson/aws-cost-notifier-go/internal/application/usecase"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/repository"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
	"github.com/diillson/aws-cost-notifier-go/pkg/logging"
)

// Event are the optional overrides accepted in the invocation payload.
type Event struct {
	Mode       string `json:"mode,omitempty"`
	PastMonths *int   `json:"past_months,omitempty"`
	ChartDays  *int   `json:"chart_days,omitempty"`
}

// ParseEvent decodes the invocation payload. Empty and null payloads yield
// no overrides.
func ParseEvent(raw json.RawMessage) (Event, error) {
	var event Event
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return event, nil
	}
	if err := json.Unmarshal(trimmed, &event); err != nil {
		return Event{}, fmt.Errorf("%w: invalid invocation payload: %v", types.ErrConfig, err)
	}
	return event, nil
}

func (e Event) apply(cfg types.Config) types.Config {
	if e.Mode != "" {
		cfg.Mode = e.Mode
	}
	if e.PastMonths != nil {
		cfg.PastMonths = *e.PastMonths
	}
	if e.ChartDays != nil {
		cfg.ChartDays = *e.ChartDays
	}
	return cfg
}

// Runner executes one report pipeline.
type Runner interface {
	Run(ctx context.Context) (types.Result, error)
}

// ConfigLoader returns the configuration of the function (environment based).
type ConfigLoader func() (types.Config, error)

// RunnerFactory wires a runner for a validated configuration.
type RunnerFactory func(ctx context.Context, cfg types.Config, logger types.Logger) (Runner, error)

// NewUseCaseFactory returns a RunnerFactory that reuses the long-lived clients
// built at cold start. Only the per-invocation settings (mode, windows, chart
// title) change between runs.
func NewUseCaseFactory(
	costRepo repository.CostRepository,
	notifier repository.Notifier,
	newChart func(days int) repository.ChartRenderer,
) RunnerFactory {
	return func(_ context.Context, cfg types.Config, logger types.Logger) (Runner, error) {
		return usecase.NewReportUseCase(costRepo, notifier, newChart(cfg.ChartDays), logger, cfg), nil
	}
}

// Handler é o ponto de entrada da função Lambda.
type Handler struct {
	loadConfig ConfigLoader
	newRunner  RunnerFactory
	logger     *logging.ZapLogger
}

// NewHandler creates the handler.
func NewHandler(loadConfig ConfigLoader, newRunner RunnerFactory, logger *logging.ZapLogger) *Handler {
	if logger == nil {
		logger = logging.NewZapLogger(nil)
	}
	return &Handler{loadConfig: loadConfig, newRunner: newRunner, logger: logger}
}

// Handle runs the configured pipeline once and returns the uniform result.
// Configuration and billing API failures are also returned as errors so the
// asynchronous invocation is retried.
func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (types.Result, error) {
	log := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.With(zap.String("request_id", lc.AwsRequestID))
	}

	cfg, err := h.configure(raw)
	if err != nil {
		log.LogError("%s: %s", types.KindOf(err), err)
		return types.FailureResult(err), err
	}
	log = log.With(zap.String("mode", cfg.Mode))

	runner, err := h.newRunner(ctx, cfg, log)
	if err != nil {
		log.LogError("%s: %s", types.KindOf(err), err)
		return types.FailureResult(err), err
	}

	result, err := runner.Run(ctx)
	log.LogInfo("Report finished with status %s (%d)", result.Status, result.StatusCode)
	return result, err
}

func (h *Handler) configure(raw json.RawMessage) (types.Config, error) {
	event, err := ParseEvent(raw)
	if err != nil {
		return types.Config{}, err
	}
	cfg, err := h.loadConfig()
	if err != nil {
		return types.Config{}, err
	}
	cfg = event.apply(cfg)
	if err := cfg.Validate(true); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
