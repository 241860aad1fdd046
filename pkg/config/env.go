package config

import (
	"github.com/kelseyhightower/envconfig"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
)

// EnvPrefix prefixes every runtime setting except the exchange credentials
const EnvPrefix = "TIMING"

// Env holds the runtime settings read from the environment
type Env struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`
	LogFile     string `envconfig:"LOG_FILE"`
	OutputDir   string `envconfig:"OUTPUT_DIR"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`
	DataRoot    string `envconfig:"DATA_ROOT" default:"data"`
	Workers     int    `envconfig:"WORKERS" default:"0" validate:"gte=0"`

	Bybit BybitEnv `ignored:"true"`
}

// BybitEnv holds the exchange credentials under their conventional names
type BybitEnv struct {
	APIKey    string `envconfig:"BYBIT_API_KEY"`
	APISecret string `envconfig:"BYBIT_API_SECRET"`
	Testnet   bool   `envconfig:"BYBIT_TESTNET" default:"false"`
}

// LoadEnv reads TIMING_* settings and the Bybit credentials
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, errs.WrapError(err, errs.ErrorCategoryConfiguration, "Config", "LoadEnv")
	}
	if err := envconfig.Process("", &env.Bybit); err != nil {
		return nil, errs.WrapError(err, errs.ErrorCategoryConfiguration, "Config", "LoadEnv")
	}
	if err := validate.Struct(&env); err != nil {
		return nil, validationError(err)
	}
	return &env, nil
}
