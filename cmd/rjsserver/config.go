package main

import "github.com/rustyjsonserver/rjs/envloader"

// processConfig is the process configuration surface (spec §10.3), loaded
// once at startup via envloader — distinct from the route configuration
// JSON tree, which is application data read by rjsconfig.
type processConfig struct {
	DBDir       string `env:"RJS_DB_DIR" envDefault:"./data"`
	LogLevel    string `env:"RJSERVER_LOG" envDefault:"info"`
	LogPretty   bool   `env:"RJSERVER_LOG_PRETTY" envDefault:"false"`
	DDEnabled   bool   `env:"RJS_DD_ENABLED" envDefault:"false"`
	DDAddr      string `env:"RJS_DD_ADDR" envDefault:"127.0.0.1:8125"`
	DDNamespace string `env:"RJS_DD_NAMESPACE" envDefault:"rjs."`
}

func loadProcessConfig() (processConfig, error) {
	var cfg processConfig
	if err := envloader.Load(&cfg); err != nil {
		return processConfig{}, err
	}
	return cfg, nil
}
