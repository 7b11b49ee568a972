package main

import (
	"context"
	"fmt"
	"os"

	"github.com/diillson/aws-cost-notifier-go/internal/adapter/driven/aws"
	"github.com/diillson/aws-cost-notifier-go/internal/adapter/driven/chart"
	"github.com/diillson/aws-cost-notifier-go/internal/adapter/driven/config"
	"github.com/diillson/aws-cost-notifier-go/internal/adapter/driven/export"
	"github.com/diillson/aws-cost-notifier-go/internal/adapter/driving/cli"
	"github.com/diillson/aws-cost-notifier-go/internal/application/usecase"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/cost"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/repository"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
	"github.com/diillson/aws-cost-notifier-go/pkg/console"
)

func main() {
	consoleImpl := console.NewConsole()

	// Os clientes AWS dependem da configuração final (perfil, região), por
	// isso o caso de uso é montado pela CLI depois de ler as flags.
	newUseCase := func(ctx context.Context, cfg types.Config, dryRun bool) (*usecase.ReportUseCase, error) {
		awsCfg, err := aws.LoadAWSConfig(ctx, cfg.Profile, cfg.Region)
		if err != nil {
			return nil, err
		}

		timeout := cfg.RequestTimeout.Std()
		var notifier repository.Notifier
		if !dryRun {
			notifier = aws.NewSNSNotifier(awsCfg, cfg.TopicARN, timeout)
		}

		return usecase.NewReportUseCase(
			aws.NewAWSRepository(awsCfg, timeout),
			notifier,
			chart.NewChartRenderer(cost.ChartTitle(cfg.ChartDays)),
			consoleImpl,
			cfg,
		), nil
	}

	app := cli.NewCLIApp(
		config.NewConfigRepository(),
		export.NewExportRepository(),
		consoleImpl,
		newUseCase,
	)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
