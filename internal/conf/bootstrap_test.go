package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewBootstrap_Defaults(t *testing.T) {
	configPath := writeConfig(t, `server:
  http:
    addr: :8080
data:
  redis:
    addr: 127.0.0.1:6379
`)
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/hireall")

	bc, err := NewBootstrap(configPath)
	require.NoError(t, err)
	require.NotNil(t, bc)

	assert.Equal(t, ":8080", bc.Server.HTTP.Addr)
	assert.Equal(t, "tcp", bc.Server.HTTP.Network)
	assert.Equal(t, 60*time.Second, bc.Server.HTTP.Timeout)

	assert.Equal(t, "mysql", bc.Data.Database.Driver)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/hireall", bc.Data.Database.Source)
	assert.Equal(t, 200*time.Millisecond, bc.Data.Redis.ReadTimeout)

	assert.Equal(t, "info", bc.Log.Level)
	assert.Equal(t, "json", bc.Log.Format)

	assert.Equal(t, time.Hour, bc.Usage.RetryAfter)
	assert.Equal(t, int32(20), bc.Usage.AIRequestsPerMinute)

	require.Contains(t, bc.Usage.Plans, "free")
	require.Contains(t, bc.Usage.Plans, "premium")
	assert.Equal(t, 3, bc.Usage.Plans["free"].MonthlyCVAnalyses)
	assert.Equal(t, 50, bc.Usage.Plans["free"].MonthlyApplications)
	assert.Equal(t, []string{"csv"}, bc.Usage.Plans["free"].ExportFormats)
	assert.Equal(t, -1, bc.Usage.Plans["premium"].MonthlyAIGenerations)

	assert.Equal(t, 5, bc.CircuitBreaker.Default.FailureThreshold)
	assert.Equal(t, 30*time.Second, bc.CircuitBreaker.Default.ResetTimeout)
	assert.Equal(t, 2, bc.CircuitBreaker.Default.SuccessThreshold)

	require.Contains(t, bc.CircuitBreaker.Services, "gemini")
	assert.Equal(t, 3, bc.CircuitBreaker.Services["gemini"].FailureThreshold)
	assert.Equal(t, time.Minute, bc.CircuitBreaker.Services["gemini"].ResetTimeout)

	assert.Equal(t, "gemini-2.5-flash", bc.Gemini.Model)
}

func TestNewBootstrap_EnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, bc *Bootstrap)
	}{
		{
			name: "override_http_addr",
			envVars: map[string]string{
				"HIREALL_SERVER_HTTP_ADDR": ":9999",
			},
			check: func(t *testing.T, bc *Bootstrap) {
				assert.Equal(t, ":9999", bc.Server.HTTP.Addr)
			},
		},
		{
			name: "override_log_level",
			envVars: map[string]string{
				"HIREALL_LOG_LEVEL": "debug",
			},
			check: func(t *testing.T, bc *Bootstrap) {
				assert.Equal(t, "debug", bc.Log.Level)
			},
		},
		{
			name: "gemini_key_short_name",
			envVars: map[string]string{
				"GEMINI_API_KEY": "test-gemini-key",
			},
			check: func(t *testing.T, bc *Bootstrap) {
				assert.Equal(t, "test-gemini-key", bc.Gemini.APIKey)
			},
		},
		{
			name: "redis_addr_short_name",
			envVars: map[string]string{
				"REDIS_ADDR": "redis:6380",
			},
			check: func(t *testing.T, bc *Bootstrap) {
				assert.Equal(t, "redis:6380", bc.Data.Redis.Addr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/hireall")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			bc, err := NewBootstrap("")
			require.NoError(t, err)
			tt.check(t, bc)
		})
	}
}

func TestNewBootstrap_ServiceOverridesFromFile(t *testing.T) {
	configPath := writeConfig(t, `circuit_breaker:
  services:
    demo:
      failure_threshold: 2
      reset_timeout: 1s
      success_threshold: 1
usage:
  plans:
    free:
      monthly_cv_analyses: 1
      monthly_applications: 2
      monthly_ai_generations: 3
      export_formats: [csv, json]
`)
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/hireall")

	bc, err := NewBootstrap(configPath)
	require.NoError(t, err)

	require.Contains(t, bc.CircuitBreaker.Services, "demo")
	assert.Equal(t, CircuitConfig{FailureThreshold: 2, ResetTimeout: time.Second, SuccessThreshold: 1},
		bc.CircuitBreaker.Services["demo"])

	for _, service := range []string{"gemini", "stripe", "clerk", "unsplash"} {
		assert.Contains(t, bc.CircuitBreaker.Services, service)
	}
	assert.Equal(t, CircuitConfig{FailureThreshold: 3, ResetTimeout: 120 * time.Second, SuccessThreshold: 1},
		bc.CircuitBreaker.Services["unsplash"])

	free := bc.Usage.Plans["free"]
	assert.Equal(t, 1, free.MonthlyCVAnalyses)
	assert.Equal(t, 2, free.MonthlyApplications)
	assert.Equal(t, 3, free.MonthlyAIGenerations)
	assert.Equal(t, []string{"csv", "json"}, free.ExportFormats)

	// premium is not in the file and keeps its built-in row
	require.Contains(t, bc.Usage.Plans, "premium")
	premium := bc.Usage.Plans["premium"]
	assert.Equal(t, -1, premium.MonthlyCVAnalyses)
	assert.Equal(t, -1, premium.MonthlyApplications)
	assert.Equal(t, -1, premium.MonthlyAIGenerations)
	assert.Equal(t, []string{"csv", "json", "pdf"}, premium.ExportFormats)
}

func TestNewBootstrap_PartialServiceFillsFromDefault(t *testing.T) {
	configPath := writeConfig(t, `circuit_breaker:
  services:
    Unsplash:
      failure_threshold: 7
`)
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/hireall")

	bc, err := NewBootstrap(configPath)
	require.NoError(t, err)

	assert.Equal(t, CircuitConfig{FailureThreshold: 7, ResetTimeout: 120 * time.Second, SuccessThreshold: 1},
		bc.CircuitBreaker.Services["unsplash"])
}

func TestNewBootstrap_ShippedConfig(t *testing.T) {
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/hireall")

	bc, err := NewBootstrap(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Len(t, bc.CircuitBreaker.Services, 4)
	assert.Equal(t, 3, bc.CircuitBreaker.Services["gemini"].FailureThreshold)
	assert.Equal(t, time.Minute, bc.CircuitBreaker.Services["gemini"].ResetTimeout)
	assert.Contains(t, bc.Usage.Plans, "free")
	assert.Contains(t, bc.Usage.Plans, "premium")
}

func TestMergePlans(t *testing.T) {
	t.Run("nil table gets defaults", func(t *testing.T) {
		plans := mergePlans(nil)
		assert.Equal(t, defaultPlans(), plans)
	})

	t.Run("configured row wins", func(t *testing.T) {
		plans := mergePlans(map[string]PlanLimits{"PREMIUM": {MonthlyCVAnalyses: 100}})
		assert.Equal(t, 100, plans["premium"].MonthlyCVAnalyses)
		assert.Equal(t, 3, plans["free"].MonthlyCVAnalyses)
	})
}

func TestNewBootstrap_RejectsLimitBelowUnlimited(t *testing.T) {
	configPath := writeConfig(t, `usage:
  plans:
    free:
      monthly_cv_analyses: -5
`)
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/hireall")

	_, err := NewBootstrap(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage.plans.free limits")
}

func TestNewBootstrap_MissingFile(t *testing.T) {
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/hireall")

	_, err := NewBootstrap(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Bootstrap {
		return &Bootstrap{
			Data: &Data{Database: &Database{Source: "dsn"}},
			Usage: &Usage{Plans: map[string]PlanLimits{
				"free": {MonthlyApplications: 1},
			}},
			CircuitBreaker: &CircuitBreaker{Default: CircuitConfig{
				FailureThreshold: 5, ResetTimeout: time.Second, SuccessThreshold: 2,
			}},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(valid()))
	})

	t.Run("missing dsn", func(t *testing.T) {
		bc := valid()
		bc.Data.Database.Source = ""
		err := Validate(bc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MYSQL_DSN")
	})

	t.Run("missing free plan", func(t *testing.T) {
		bc := valid()
		bc.Usage.Plans = map[string]PlanLimits{"premium": {}}
		err := Validate(bc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage.plans.free")
	})

	t.Run("limit below unlimited", func(t *testing.T) {
		bc := valid()
		bc.Usage.Plans["free"] = PlanLimits{MonthlyApplications: -2}
		err := Validate(bc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "usage.plans.free limits")
	})

	t.Run("unlimited is accepted", func(t *testing.T) {
		bc := valid()
		bc.Usage.Plans["premium"] = PlanLimits{MonthlyCVAnalyses: -1, MonthlyApplications: -1, MonthlyAIGenerations: -1}
		assert.NoError(t, Validate(bc))
	})

	t.Run("non-positive breaker defaults", func(t *testing.T) {
		bc := valid()
		bc.CircuitBreaker.Default.FailureThreshold = 0
		err := Validate(bc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "circuit_breaker.default")
	})
}
