// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validLogFormats   = []string{"console", "json"}
	validModes        = []string{"api", "worker", "all"}
	validStorageTypes = []string{"s3", "local"}
	validDrivers      = []string{"sqlite", "postgres"}
)

func init() {
	pflag.String("mode", "all", "What to run: api, worker or all")
	pflag.String("config", "", "Path to a config.toml file")
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	if !pflag.Parsed() {
		pflag.Parse()
	}

	v.BindPFlag("app.mode", pflag.Lookup("mode"))

	if path, _ := pflag.CommandLine.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	bindEnvs()
	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		zap.L().Debug("No config.toml found, using environment and defaults")
	}

	if err := Validate(); err != nil {
		return err
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

func bindEnvs() {
	v.BindEnv("app.log_level", "app_log_level")
	v.BindEnv("app.log_format", "app_log_format")

	v.BindEnv("host.port", "host_port", "port")
	v.BindEnv("host.cors_origins", "host_cors")
	v.BindEnv("host.rate_limit", "security_rate_limit")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("redis.addr", "redis_addr")
	v.BindEnv("redis.password", "redis_password")
	v.BindEnv("redis.db", "redis_db")

	v.BindEnv("session.ttl", "session_ttl")

	v.BindEnv("storage.type", "storage_type")
	v.BindEnv("storage.folder_path", "folder_path")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("aws.access_key", "aws_access_key_id")
	v.BindEnv("aws.secret_access_key", "aws_secret_access_key")
	v.BindEnv("aws.region", "aws_region")
	v.BindEnv("aws.bucket", "aws_bucket")
	v.BindEnv("aws.endpoint", "aws_endpoint")

	v.BindEnv("queue.concurrency", "queue_concurrency")
	v.BindEnv("queue.max_retry", "queue_max_retry")

	v.BindEnv("mail.enabled", "mail_enabled")
	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender_address", "mail_sender_address")
	v.BindEnv("mail.password", "mail_password")
}

func setDefaults() {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")
	v.SetDefault("app.mode", "all")

	v.SetDefault("host.port", 5000)
	v.SetDefault("host.cors_origins", []string{"*"})
	v.SetDefault("host.rate_limit", 0)

	v.SetDefault("db.driver", "sqlite")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.ttl", "24h")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.folder_path", "/tmp/files_manager")

	v.SetDefault("upload.max_size", 50)

	v.SetDefault("aws.region", "auto")

	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.max_retry", 5)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)

	v.SetDefault("derivative.widths", []int{500, 250, 100})
}

// Validate checks the loaded values. It is separate from Setup so the rules
// can be exercised without a config file.
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if !slices.Contains(validLogFormats, v.GetString("app.log_format")) {
		return errors.New("invalid log format provided")
	}

	if !slices.Contains(validModes, v.GetString("app.mode")) {
		return fmt.Errorf("invalid mode %q, expected one of %v", v.GetString("app.mode"), validModes)
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetDuration("session.ttl") <= 0 {
		return errors.New("session.ttl must be a positive duration")
	}

	if !slices.Contains(validDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.driver") == "postgres" && v.GetString("db.dsn") == "" {
		return errors.New("db.dsn is required for postgres")
	}

	if v.GetString("redis.addr") == "" {
		return errors.New("redis.addr can't be empty")
	}

	if v.GetInt("queue.concurrency") <= 0 {
		return errors.New("queue.concurrency must be bigger than 0")
	}

	if v.GetInt("queue.max_retry") < 0 {
		return errors.New("queue.max_retry can't be negative")
	}

	for _, w := range v.GetIntSlice("derivative.widths") {
		if w <= 0 {
			return fmt.Errorf("invalid derivative width %d", w)
		}
	}

	if !slices.Contains(validStorageTypes, v.GetString("storage.type")) {
		return errors.New("invalid storage type provided")
	}

	switch v.GetString("storage.type") {
	case "s3":
		if v.GetString("aws.access_key") == "" {
			return errors.New("access key can't be empty")
		}
		if v.GetString("aws.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("aws.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
	case "local":
		if v.GetString("storage.folder_path") == "" {
			return errors.New("storage.folder_path can't be empty")
		}
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("mail.host is required when mail is enabled")
		}
		if v.GetString("mail.sender_address") == "" {
			return errors.New("mail.sender_address is required when mail is enabled")
		}
	} else {
		zap.L().Warn("Mail is disabled, welcome messages will only be logged")
	}

	return nil
}
