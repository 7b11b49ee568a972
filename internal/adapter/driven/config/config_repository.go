package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

// Variáveis de ambiente reconhecidas.
const (
	EnvConfigFile     = "CONFIG_FILE"
	EnvTopicARN       = "SNS_TOPIC_ARN"
	EnvMode           = "REPORT_MODE"
	EnvCostThreshold  = "COST_THRESHOLD"
	EnvPastMonths     = "PAST_MONTHS"
	EnvChartDays      = "CHART_DAYS"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvRegion         = "AWS_REGION"
	EnvProfile        = "AWS_PROFILE"
	EnvIncludeBudgets = "INCLUDE_BUDGETS"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	getenv func(string) string
}

// NewConfigRepository cria uma nova implementação do ConfigRepository que lê
// o ambiente do processo.
func NewConfigRepository() *ConfigRepositoryImpl {
	return &ConfigRepositoryImpl{getenv: os.Getenv}
}

// NewConfigRepositoryWithEnv creates a repository reading variables through getenv (for testing).
func NewConfigRepositoryWithEnv(getenv func(string) string) *ConfigRepositoryImpl {
	return &ConfigRepositoryImpl{getenv: getenv}
}

// LoadDotEnv exporta as variáveis de um arquivo .env sem sobrescrever as já
// definidas. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: reading %s: %v", types.ErrConfig, path, err)
	}
	return nil
}

// LoadEnvFile carrega o arquivo .env informado para o ambiente do processo.
func (r *ConfigRepositoryImpl) LoadEnvFile(path string) error {
	return LoadDotEnv(path)
}

// Load builds the configuration: defaults, then the optional file (argument
// or CONFIG_FILE), then environment variables.
func (r *ConfigRepositoryImpl) Load(configFile string) (types.Config, error) {
	cfg := types.DefaultConfig()

	if configFile == "" {
		configFile = r.getenv(EnvConfigFile)
	}
	if configFile != "" {
		fileCfg, keys, err := readConfigFile(configFile)
		if err != nil {
			return types.Config{}, fmt.Errorf("%w: %v", types.ErrConfig, err)
		}
		cfg = Merge(cfg, *fileCfg, keys)
	}

	if err := r.applyEnv(&cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	config, _, err := readConfigFile(filePath)
	return config, err
}

// readConfigFile decodes the file and reports which top-level keys it sets,
// so that explicit zero values (cost_threshold = 0, include_budgets = false)
// still override the defaults.
func readConfigFile(filePath string) (*types.Config, map[string]bool, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config
	keys := make(map[string]bool)

	switch fileExtension {
	case ".toml":
		tree, err := toml.LoadBytes(fileData)
		if err != nil {
			return nil, nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
		if err := tree.Unmarshal(&config); err != nil {
			return nil, nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
		for _, k := range tree.Keys() {
			keys[k] = true
		}
	case ".yaml", ".yml":
		var raw map[string]interface{}
		if err := yaml.Unmarshal(fileData, &raw); err != nil {
			return nil, nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
		for k := range raw {
			keys[k] = true
		}
	case ".json":
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(fileData, &raw); err != nil {
			return nil, nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
		for k := range raw {
			keys[k] = true
		}
	default:
		return nil, nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, keys, nil
}

// Merge returns base with every field of override whose key is in keys.
func Merge(base, override types.Config, keys map[string]bool) types.Config {
	if keys["topic_arn"] {
		base.TopicARN = override.TopicARN
	}
	if keys["mode"] {
		base.Mode = override.Mode
	}
	if keys["cost_threshold"] {
		base.CostThreshold = override.CostThreshold
	}
	if keys["past_months"] {
		base.PastMonths = override.PastMonths
	}
	if keys["chart_days"] {
		base.ChartDays = override.ChartDays
	}
	if keys["request_timeout"] {
		base.RequestTimeout = override.RequestTimeout
	}
	if keys["region"] {
		base.Region = override.Region
	}
	if keys["profile"] {
		base.Profile = override.Profile
	}
	if keys["include_budgets"] {
		base.IncludeBudgets = override.IncludeBudgets
	}
	if keys["subject"] {
		base.Subject = override.Subject
	}
	if keys["title"] {
		base.Title = override.Title
	}
	return base
}

func (r *ConfigRepositoryImpl) applyEnv(cfg *types.Config) error {
	if v := r.getenv(EnvTopicARN); v != "" {
		cfg.TopicARN = v
	}
	if v := r.getenv(EnvMode); v != "" {
		cfg.Mode = strings.ToLower(v)
	}
	if v := r.getenv(EnvRegion); v != "" {
		cfg.Region = v
	}
	if v := r.getenv(EnvProfile); v != "" {
		cfg.Profile = v
	}

	if v := r.getenv(EnvCostThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", types.ErrConfig, EnvCostThreshold, v)
		}
		cfg.CostThreshold = f
	}
	if v := r.getenv(EnvPastMonths); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", types.ErrConfig, EnvPastMonths, v)
		}
		cfg.PastMonths = n
	}
	if v := r.getenv(EnvChartDays); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", types.ErrConfig, EnvChartDays, v)
		}
		cfg.ChartDays = n
	}
	if v := r.getenv(EnvRequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a duration", types.ErrConfig, EnvRequestTimeout, v)
		}
		cfg.RequestTimeout = types.Duration(d)
	}
	if v := r.getenv(EnvIncludeBudgets); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", types.ErrConfig, EnvIncludeBudgets, v)
		}
		cfg.IncludeBudgets = b
	}
	return nil
}
