// Package config loads and validates the application configuration from
// a .env file, environment variables and command-line flags, in that order
// of increasing precedence for the environment over defaults.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	// RunAddr is the address and port the HTTP server listens on.
	RunAddr string `env:"SERVER_ADDRESS" validate:"hostname_port"`

	// DatabaseDSN selects the PostgreSQL backend when non-empty.
	DatabaseDSN string `env:"DATABASE_DSN"`

	// DBFileName selects the file backend when non-empty and no DSN is set.
	DBFileName string `env:"FILE_STORAGE_PATH" validate:"filepath"`

	// LogLevel is the zap log level.
	LogLevel string `env:"LOG_LEVEL" validate:"loglevel"`

	// JWTSecret signs and verifies bearer tokens. Startup fails when it is
	// empty: a missing secret must never silently disable verification.
	JWTSecret string `env:"JWT_SECRET" validate:"required"`

	// DBConnectionTimeout bounds the initial connection and ping to PostgreSQL.
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT"`

	// MigrationsDir is the directory with goose migration files.
	MigrationsDir string `env:"MIGRATIONS_DIR"`
}

// InitOption customizes config loading.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command-line flag registration,
// which is required when loading the config from tests.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New loads the configuration and validates it.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{
		RunAddr:             ":8080",
		LogLevel:            "info",
		DBConnectionTimeout: 10 * time.Second,
		MigrationsDir:       "cmd/brainly/migrations",
	}

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.DBFileName, "f", values.DBFileName, "JSON file name with database")
		flag.StringVar(&values.DatabaseDSN, "d", values.DatabaseDSN, "A string with the database connection details")
		flag.StringVar(&values.MigrationsDir, "m", values.MigrationsDir, "directory with goose migration files")
		flag.Parse()
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	applyEnvOverrides(values, &valuesFromEnv)

	if err := validate(values); err != nil {
		return nil, err
	}

	return values, nil
}

func applyEnvOverrides(values, fromEnv *Config) {
	if fromEnv.RunAddr != "" {
		values.RunAddr = fromEnv.RunAddr
	}

	if fromEnv.DatabaseDSN != "" {
		values.DatabaseDSN = fromEnv.DatabaseDSN
	}

	if fromEnv.DBFileName != "" {
		values.DBFileName = fromEnv.DBFileName
	}

	if fromEnv.LogLevel != "" {
		values.LogLevel = fromEnv.LogLevel
	}

	if fromEnv.JWTSecret != "" {
		values.JWTSecret = fromEnv.JWTSecret
	}

	if fromEnv.DBConnectionTimeout != 0 {
		values.DBConnectionTimeout = fromEnv.DBConnectionTimeout
	}

	if fromEnv.MigrationsDir != "" {
		values.MigrationsDir = fromEnv.MigrationsDir
	}
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func validate(values *Config) error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	if err := validate.RegisterValidation("filepath", validateFilePath); err != nil {
		return err
	}

	return validate.Struct(values)
}
