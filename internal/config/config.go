package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

// Config is assembled once at startup. Precedence, lowest to highest:
// built-in defaults, the TOML section for the chosen environment, then
// environment variables (secrets such as the DB password and the API key
// come from the environment only).
type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost       string `toml:"postgres_host" env:"COACHBYTE_DB_HOST, overwrite"`
	PostgresPort       string `toml:"postgres_port" env:"COACHBYTE_DB_PORT, overwrite"`
	PostgresDBName     string `toml:"postgres_db_name" env:"COACHBYTE_DB_NAME, overwrite"`
	PostgresUser       string `toml:"postgres_user" env:"COACHBYTE_DB_USER, overwrite"`
	PostgresPassword   string `env:"COACHBYTE_DB_PASSWORD, overwrite"`
	PostgresSearchPath string `toml:"postgres_search_path" env:"COACHBYTE_DB_SCHEMA, overwrite"`

	// day boundary; e.g. day_start_time 04:00 logs late-night activity
	// under the previous day
	DayTimeZone  string `toml:"day_time_zone" env:"DAY_TIME_ZONE, overwrite"`
	DayStartTime string `toml:"day_start_time" env:"DAY_START_TIME, overwrite"`

	// rest timer
	TimerBackend  string `toml:"timer_backend"` // db | file
	TimerFilePath string `toml:"timer_file_path" env:"COACHBYTE_TIMER_FILE, overwrite"`

	// http api
	APIKey string `env:"COACHBYTE_API_KEY, overwrite"`

	// telemetry
	TracingEnabled        bool   `toml:"tracing_enabled"`
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlFile Toml
	if _, err := toml.DecodeFile(path, &tomlFile); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	cfg, err := tomlFile.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = env

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("process env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the required DB connection settings are present.
// Their absence is a startup-time fatal condition.
func (c *Config) Validate() error {
	required := []struct {
		name string
		val  string
	}{
		{"postgres_host", c.PostgresHost},
		{"postgres_port", c.PostgresPort},
		{"postgres_db_name", c.PostgresDBName},
		{"postgres_user", c.PostgresUser},
	}

	var missing []string
	for _, r := range required {
		if r.val == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required connection settings: %s", strings.Join(missing, ", "))
	}

	if c.TimerBackend != "" && c.TimerBackend != "db" && c.TimerBackend != "file" {
		return fmt.Errorf("invalid timer_backend: %s", c.TimerBackend)
	}

	return nil
}
