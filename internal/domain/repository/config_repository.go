package repository

import (
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	Load(configFile string) (types.Config, error)
	LoadEnvFile(path string) error
}
