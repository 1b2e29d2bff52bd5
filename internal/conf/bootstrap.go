// Package conf provides configuration management using Viper.
// It supports loading configuration from YAML files and environment variables.
package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// NewBootstrap creates and initializes a Bootstrap configuration.
// It loads configuration from the specified config file path, applies defaults,
// and allows overrides from environment variables prefixed with HIREALL_.
//
// Configuration priority: Environment variables > Config file > Defaults
//
// Required environment variables:
//   - MYSQL_DSN or HIREALL_DATA_DATABASE_SOURCE: MySQL connection string
//
// Optional environment variables:
//   - GEMINI_API_KEY or HIREALL_GEMINI_API_KEY: enables AI generation endpoints
func NewBootstrap(configPath string) (*Bootstrap, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("HIREALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("data.database.source", "MYSQL_DSN", "HIREALL_DATA_DATABASE_SOURCE")
	_ = v.BindEnv("data.redis.addr", "REDIS_ADDR", "HIREALL_DATA_REDIS_ADDR")
	_ = v.BindEnv("data.redis.password", "REDIS_PASSWORD", "HIREALL_DATA_REDIS_PASSWORD")
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY", "HIREALL_GEMINI_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	bc := &Bootstrap{
		Server: &Server{
			HTTP: &HTTP{
				Network: v.GetString("server.http.network"),
				Addr:    v.GetString("server.http.addr"),
				Timeout: v.GetDuration("server.http.timeout"),
			},
		},
		Data: &Data{
			Database: &Database{
				Driver: v.GetString("data.database.driver"),
				Source: v.GetString("data.database.source"),
			},
			Redis: &Redis{
				Network:      v.GetString("data.redis.network"),
				Addr:         v.GetString("data.redis.addr"),
				Password:     v.GetString("data.redis.password"),
				DB:           v.GetInt("data.redis.db"),
				ReadTimeout:  v.GetDuration("data.redis.read_timeout"),
				WriteTimeout: v.GetDuration("data.redis.write_timeout"),
			},
		},
		Log: &Log{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Env:        v.GetString("log.env"),
			OutputFile: v.GetString("log.output_file"),
		},
		Usage: &Usage{
			RetryAfter:          v.GetDuration("usage.retry_after"),
			AIRequestsPerMinute: v.GetInt32("usage.ai_requests_per_minute"),
		},
		CircuitBreaker: &CircuitBreaker{
			Default: CircuitConfig{
				FailureThreshold: v.GetInt("circuit_breaker.default.failure_threshold"),
				ResetTimeout:     v.GetDuration("circuit_breaker.default.reset_timeout"),
				SuccessThreshold: v.GetInt("circuit_breaker.default.success_threshold"),
			},
		},
		Gemini: &Gemini{
			APIKey: v.GetString("gemini.api_key"),
			Model:  v.GetString("gemini.model"),
		},
	}

	// Nested maps go through mapstructure so durations and slices decode.
	if err := v.UnmarshalKey("usage.plans", &bc.Usage.Plans); err != nil {
		return nil, fmt.Errorf("failed to decode usage.plans: %w", err)
	}
	if err := v.UnmarshalKey("circuit_breaker.services", &bc.CircuitBreaker.Services); err != nil {
		return nil, fmt.Errorf("failed to decode circuit_breaker.services: %w", err)
	}
	// Plan rows and service overrides the file omits fall back to the built-in ones.
	bc.Usage.Plans = mergePlans(bc.Usage.Plans)
	bc.CircuitBreaker.Services = mergeServices(bc.CircuitBreaker.Services)

	if err := Validate(bc); err != nil {
		return nil, err
	}

	return bc, nil
}

// defaultPlans are the built-in plan rows. -1 means unlimited.
func defaultPlans() map[string]PlanLimits {
	return map[string]PlanLimits{
		"free": {
			MonthlyCVAnalyses:    3,
			MonthlyApplications:  50,
			MonthlyAIGenerations: 10,
			ExportFormats:        []string{"csv"},
		},
		"premium": {
			MonthlyCVAnalyses:    -1,
			MonthlyApplications:  -1,
			MonthlyAIGenerations: -1,
			ExportFormats:        []string{"csv", "json", "pdf"},
		},
	}
}

// defaultServices are the built-in per-service breaker overrides.
func defaultServices() map[string]CircuitConfig {
	return map[string]CircuitConfig{
		"gemini":   {FailureThreshold: 3, ResetTimeout: 60 * time.Second},
		"stripe":   {FailureThreshold: 5, ResetTimeout: 30 * time.Second},
		"clerk":    {FailureThreshold: 5, ResetTimeout: 30 * time.Second},
		"unsplash": {FailureThreshold: 3, ResetTimeout: 120 * time.Second, SuccessThreshold: 1},
	}
}

// mergePlans adds every default plan the configured table does not define.
// Plan names are compared case-insensitively.
func mergePlans(plans map[string]PlanLimits) map[string]PlanLimits {
	out := make(map[string]PlanLimits, len(plans)+2)
	for name, p := range plans {
		out[strings.ToLower(name)] = p
	}
	for name, p := range defaultPlans() {
		if _, ok := out[name]; !ok {
			out[name] = p
		}
	}
	return out
}

// mergeServices adds every default service override the file does not
// define, and fills zero fields of a configured service from its default.
func mergeServices(services map[string]CircuitConfig) map[string]CircuitConfig {
	out := make(map[string]CircuitConfig, len(services)+4)
	for name, c := range services {
		out[strings.ToLower(name)] = c
	}
	for name, d := range defaultServices() {
		c, ok := out[name]
		if !ok {
			out[name] = d
			continue
		}
		if c.FailureThreshold == 0 {
			c.FailureThreshold = d.FailureThreshold
		}
		if c.ResetTimeout == 0 {
			c.ResetTimeout = d.ResetTimeout
		}
		if c.SuccessThreshold == 0 {
			c.SuccessThreshold = d.SuccessThreshold
		}
		out[name] = c
	}
	return out
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":8080")
	v.SetDefault("server.http.timeout", 60*time.Second)

	v.SetDefault("data.database.driver", "mysql")
	// data.database.source (MYSQL_DSN) is required from environment

	v.SetDefault("data.redis.network", "tcp")
	v.SetDefault("data.redis.addr", "127.0.0.1:6379")
	v.SetDefault("data.redis.db", 0)
	v.SetDefault("data.redis.read_timeout", 200*time.Millisecond)
	v.SetDefault("data.redis.write_timeout", 200*time.Millisecond)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("usage.retry_after", time.Hour)
	v.SetDefault("usage.ai_requests_per_minute", 20)
	v.SetDefault("circuit_breaker.default.failure_threshold", 5)
	v.SetDefault("circuit_breaker.default.reset_timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.default.success_threshold", 2)
	v.SetDefault("gemini.model", "gemini-2.5-flash")
}

// Validate checks that all required configuration fields are present and valid.
// It returns an error listing all missing or invalid fields.
func Validate(bc *Bootstrap) error {
	var problems []string

	if bc.Data == nil || bc.Data.Database == nil || bc.Data.Database.Source == "" {
		problems = append(problems, "data.database.source (MYSQL_DSN) is required")
	}

	if bc.Usage == nil || len(bc.Usage.Plans) == 0 {
		problems = append(problems, "usage.plans must define at least one plan")
	} else {
		if _, ok := bc.Usage.Plans["free"]; !ok {
			problems = append(problems, "usage.plans.free is required")
		}
		for name, p := range bc.Usage.Plans {
			if p.MonthlyCVAnalyses < -1 || p.MonthlyApplications < -1 || p.MonthlyAIGenerations < -1 {
				problems = append(problems, fmt.Sprintf("usage.plans.%s limits must be -1 (unlimited) or >= 0", name))
			}
		}
	}

	if bc.CircuitBreaker != nil {
		d := bc.CircuitBreaker.Default
		if d.FailureThreshold <= 0 || d.SuccessThreshold <= 0 || d.ResetTimeout <= 0 {
			problems = append(problems, "circuit_breaker.default values must be positive")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}

	return nil
}
