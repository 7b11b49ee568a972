package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diillson/aws-cost-notifier-go/internal/application/usecase"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/repository"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
	"github.com/diillson/aws-cost-notifier-go/pkg/console"
	"github.com/diillson/aws-cost-notifier-go/pkg/version"
)

// UseCaseFactory builds the report use case for a validated configuration.
// With dryRun the use case gets no notifier.
type UseCaseFactory func(ctx context.Context, cfg types.Config, dryRun bool) (*usecase.ReportUseCase, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	exportRepo repository.ExportRepository
	console    types.ConsoleInterface
	newUseCase UseCaseFactory
	banner     bool
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(
	configRepo repository.ConfigRepository,
	exportRepo repository.ExportRepository,
	out types.ConsoleInterface,
	newUseCase UseCaseFactory,
) *CLIApp {
	app := &CLIApp{
		configRepo: configRepo,
		exportRepo: exportRepo,
		console:    out,
		newUseCase: newUseCase,
		banner:     true,
	}

	rootCmd := &cobra.Command{
		Use:           "cost-notifier",
		Short:         "Publish AWS cost reports to an SNS topic",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runReport(cmd, "")
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "AWS Cost Notifier version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.String("env-file", "", "Path to a .env file loaded before reading the environment (default: .env)")
	flags.StringP("topic-arn", "t", "", "SNS topic ARN receiving the report")
	flags.Float64("threshold", 0, "Services whose cost is below this amount are grouped as Other")
	flags.Int("past-months", 0, "Number of previous months shown next to the current month")
	flags.Int("days", 0, "Number of past days drawn in the chart")
	flags.StringP("profile", "p", "", "AWS profile to use")
	flags.StringP("region", "r", "", "AWS region (default: from the profile; SNS always uses the region of the topic ARN)")
	flags.Bool("dry-run", false, "Render the report locally without publishing it")
	flags.StringP("report-name", "n", "aws-cost-report", "Base name for exported files (dry run)")
	flags.StringSliceP("report-type", "y", nil, "Export types for a dry run: csv, json, pdf (text) or png, pdf (chart)")
	flags.StringP("dir", "d", "", "Directory to save the exported files (default: current directory)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "text",
		Short: "Publish the monthly cost digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runReport(cmd, types.ModeText)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "chart",
		Short: "Publish the daily cost-by-service chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runReport(cmd, types.ModeChart)
		},
	})

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetArgs substitui os argumentos da linha de comando (usado em testes).
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// DisableBanner suppresses the welcome banner.
func (app *CLIApp) DisableBanner() {
	app.banner = false
}

// parseArgs parses command-line arguments into a CLIArgs struct. Numeric
// flags are only set when given explicitly.
func parseArgs(cmd *cobra.Command, mode string) (*types.CLIArgs, error) {
	flags := cmd.Flags()

	args := &types.CLIArgs{Mode: mode}
	args.ConfigFile, _ = flags.GetString("config-file")
	args.EnvFile, _ = flags.GetString("env-file")
	args.TopicARN, _ = flags.GetString("topic-arn")
	args.Profile, _ = flags.GetString("profile")
	args.Region, _ = flags.GetString("region")
	args.DryRun, _ = flags.GetBool("dry-run")
	args.ReportName, _ = flags.GetString("report-name")
	args.ReportType, _ = flags.GetStringSlice("report-type")
	args.Dir, _ = flags.GetString("dir")

	if flags.Changed("threshold") {
		v, _ := flags.GetFloat64("threshold")
		args.Threshold = &v
	}
	if flags.Changed("past-months") {
		v, _ := flags.GetInt("past-months")
		args.PastMonths = &v
	}
	if flags.Changed("days") {
		v, _ := flags.GetInt("days")
		args.Days = &v
	}

	if args.Dir != "" {
		absDir, err := filepath.Abs(args.Dir)
		if err != nil {
			return nil, err
		}
		args.Dir = absDir
	}

	for i, t := range args.ReportType {
		args.ReportType[i] = strings.ToLower(strings.TrimSpace(t))
	}

	return args, nil
}

// applyArgs sobrepõe a configuração carregada com as flags informadas.
func applyArgs(cfg types.Config, args *types.CLIArgs) types.Config {
	if args.Mode != "" {
		cfg.Mode = args.Mode
	}
	if args.TopicARN != "" {
		cfg.TopicARN = args.TopicARN
	}
	if args.Threshold != nil {
		cfg.CostThreshold = *args.Threshold
	}
	if args.PastMonths != nil {
		cfg.PastMonths = *args.PastMonths
	}
	if args.Days != nil {
		cfg.ChartDays = *args.Days
	}
	if args.Profile != "" {
		cfg.Profile = args.Profile
	}
	if args.Region != "" {
		cfg.Region = args.Region
	}
	return cfg
}

// runReport é o ponto de entrada de todos os comandos.
func (app *CLIApp) runReport(cmd *cobra.Command, mode string) error {
	if app.banner {
		displayWelcomeBanner()
	}

	args, err := parseArgs(cmd, mode)
	if err != nil {
		return err
	}

	if err := app.configRepo.LoadEnvFile(args.EnvFile); err != nil {
		return err
	}

	cfg, err := app.configRepo.Load(args.ConfigFile)
	if err != nil {
		return err
	}
	cfg = applyArgs(cfg, args)
	if err := cfg.Validate(!args.DryRun); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	uc, err := app.newUseCase(ctx, cfg, args.DryRun)
	if err != nil {
		return err
	}

	if args.DryRun {
		return app.dryRun(ctx, uc, cfg, args)
	}

	result, err := uc.Run(ctx)
	if err != nil {
		return err
	}
	if result.Status == types.StatusFailure {
		return fmt.Errorf("%s: %s", result.ErrorKind, result.Body)
	}
	if result.Status == types.StatusSkipped {
		app.console.LogWarning("No notification sent: %s", result.Body)
	}
	return nil
}

func (app *CLIApp) dryRun(ctx context.Context, uc *usecase.ReportUseCase, cfg types.Config, args *types.CLIArgs) error {
	if cfg.Mode == types.ModeChart {
		payload, _, err := uc.BuildChartReport(ctx)
		if err != nil {
			return err
		}
		kinds := args.ReportType
		if len(kinds) == 0 {
			kinds = []string{"png"}
		}
		for _, t := range kinds {
			path, err := app.exportChart(t, payload, args)
			if err != nil {
				return err
			}
			app.console.LogSuccess("Saved %s chart to %s", strings.ToUpper(t), path)
		}
		return nil
	}

	digest, err := uc.BuildTextReport(ctx)
	if err != nil {
		return err
	}
	app.displayDigest(digest)

	for _, t := range args.ReportType {
		path, err := app.exportDigest(t, digest, args)
		if err != nil {
			return err
		}
		app.console.LogSuccess("Saved %s report to %s", strings.ToUpper(t), path)
	}
	return nil
}

func (app *CLIApp) exportDigest(reportType string, digest entity.Digest, args *types.CLIArgs) (string, error) {
	switch reportType {
	case "csv":
		return app.exportRepo.ExportDigestToCSV(digest, args.ReportName, args.Dir)
	case "json":
		return app.exportRepo.ExportDigestToJSON(digest, args.ReportName, args.Dir)
	case "pdf":
		return app.exportRepo.ExportDigestToPDF(digest, args.ReportName, args.Dir)
	default:
		return "", fmt.Errorf("%w: unsupported report type %q for text reports", types.ErrConfig, reportType)
	}
}

func (app *CLIApp) exportChart(reportType string, payload entity.NotificationPayload, args *types.CLIArgs) (string, error) {
	switch reportType {
	case "png":
		return app.exportRepo.ExportChartToPNG(payload.Image, args.ReportName, args.Dir)
	case "pdf":
		return app.exportRepo.ExportChartToPDF(payload.Image, payload.Title, args.ReportName, args.Dir)
	default:
		return "", fmt.Errorf("%w: unsupported report type %q for charts", types.ErrConfig, reportType)
	}
}

// displayDigest mostra o resumo no terminal: o texto exato que seria
// publicado, a tabela por serviço e a tendência mensal.
func (app *CLIApp) displayDigest(digest entity.Digest) {
	app.console.Printf("\n%s\n%s\n\n", console.BrightCyan(digest.Payload.Title), digest.Payload.Description)

	table := app.console.CreateTable()
	table.AddColumn("Service")
	table.AddColumn("Cost (USD)")
	for _, e := range digest.Breakdown {
		table.AddRow(e.Label, e.Amount.StringFixed(2))
	}
	table.AddRow(console.BrightGreen("Total"), console.BrightGreen(digest.Breakdown.Total().StringFixed(2)))
	app.console.Println(table.Render())

	app.console.DisplayTrendBars(usecase.MonthlyTrend(digest.Periods))
}
