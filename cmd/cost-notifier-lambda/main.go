package main

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/diillson/aws-cost-notifier-go/internal/adapter/driven/aws"
	"github.com/diillson/aws-cost-notifier-go/internal/adapter/driven/chart"
	"github.com/diillson/aws-cost-notifier-go/internal/adapter/driven/config"
	"github.com/diillson/aws-cost-notifier-go/internal/adapter/driving/lambda"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/cost"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/repository"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
	"github.com/diillson/aws-cost-notifier-go/pkg/logging"
	"github.com/diillson/aws-cost-notifier-go/pkg/version"
)

func main() {
	zapLogger := logging.NewZap(false).With(zap.String("version", version.FormatVersion()))
	defer func() { _ = zapLogger.Sync() }()
	logger := logging.NewZapLogger(zapLogger)

	configRepo := config.NewConfigRepository()
	loadConfig := func() (types.Config, error) {
		return configRepo.Load("")
	}

	// Clientes AWS são criados uma vez, no cold start, e reaproveitados por
	// todas as invocações. Erros aqui são reportados em cada invocação.
	newRunner, err := buildRunnerFactory(loadConfig)
	if err != nil {
		logger.LogError("%s: %s", types.KindOf(err), err)
		newRunner = func(context.Context, types.Config, types.Logger) (lambda.Runner, error) {
			return nil, err
		}
	}

	handler := lambda.NewHandler(loadConfig, newRunner, logger)
	awslambda.Start(handler.Handle)
}

func buildRunnerFactory(loadConfig lambda.ConfigLoader) (lambda.RunnerFactory, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	awsCfg, err := aws.LoadAWSConfig(context.Background(), cfg.Profile, cfg.Region)
	if err != nil {
		return nil, err
	}
	timeout := cfg.RequestTimeout.Std()

	return lambda.NewUseCaseFactory(
		aws.NewAWSRepository(awsCfg, timeout),
		aws.NewSNSNotifier(awsCfg, cfg.TopicARN, timeout),
		func(days int) repository.ChartRenderer {
			return chart.NewChartRenderer(cost.ChartTitle(days))
		},
	), nil
}
