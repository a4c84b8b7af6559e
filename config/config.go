/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads runtime settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the settings shared by the CLI and the DynamoDB datastore.
type Config struct {
	AWSAccessKey string `env:"AWS_ACCESS_KEY"`
	AWSSecretKey string `env:"AWS_SECRET_KEY"`
	AWSRegion    string `env:"AWS_REGION" envDefault:"us-east-1"`
	// TableName is the single table holding every LoadoutRecord.
	TableName string `env:"AWS_DDB_TABLE"`
	// Endpoint overrides the DynamoDB endpoint, e.g. http://localhost:8000.
	Endpoint string `env:"AWS_DDB_ENDPOINT"`

	// CatalogPath is the variant catalog YAML file.
	CatalogPath string `env:"VARIANT_CATALOG" envDefault:"variants.yaml"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads the given .env files (".env" when none are given) into the
// process environment, then parses the environment. Missing files are ignored;
// variables already set in the environment win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports settings required to reach DynamoDB.
func (c *Config) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("AWS_DDB_TABLE is required")
	}
	if c.AWSRegion == "" {
		return fmt.Errorf("AWS_REGION is required")
	}
	return nil
}

// NewLogger builds a zap logger. LogFormat "json" selects the production
// encoder; anything else uses the development console encoder.
func (c *Config) NewLogger() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}

	var zc zap.Config
	if strings.EqualFold(c.LogFormat, "json") {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
