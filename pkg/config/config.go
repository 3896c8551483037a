package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "UW"

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Audit   AuditConfig
	API     APIConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"UW_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"UW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"UW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

// StorageConfig locates the on-disk deal stores.
type StorageConfig struct {
	ProcessedDealsDir string `envconfig:"UW_PROCESSED_DEALS_DIR" default:"processed-deals" validate:"required"`
	PipelineDir       string `envconfig:"UW_PIPELINE_DIR" default:"pipeline" validate:"required"`
	IndexPath         string `envconfig:"UW_INDEX_PATH" default:"processed-deals/index.db" validate:"required"`
}

// AuditConfig bounds the audit log's read-modify-write cycle.
type AuditConfig struct {
	SaveMaxAttempts uint          `envconfig:"UW_AUDIT_SAVE_MAX_ATTEMPTS" default:"3" validate:"gte=1"`
	LockWait        time.Duration `envconfig:"UW_AUDIT_LOCK_WAIT" default:"5s"`
}

type APIConfig struct {
	Port string `envconfig:"UW_API_PORT" default:"8080" validate:"required"`
}
