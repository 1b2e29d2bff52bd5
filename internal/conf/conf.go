package conf

import "time"

// Bootstrap is the root configuration loaded at startup.
type Bootstrap struct {
	Server         *Server
	Data           *Data
	Log            *Log
	Usage          *Usage
	CircuitBreaker *CircuitBreaker
	Gemini         *Gemini
}

// Server holds transport settings.
type Server struct {
	HTTP *HTTP
}

// HTTP configures the Kratos HTTP server.
type HTTP struct {
	Network string
	Addr    string
	Timeout time.Duration
}

// Data holds storage settings.
type Data struct {
	Database *Database
	Redis    *Redis
}

// Database configures the MySQL connection.
type Database struct {
	Driver string
	Source string
}

// Redis configures the Redis connection.
type Redis struct {
	Network      string
	Addr         string
	Password     string
	DB           int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Log configures the zap logger.
type Log struct {
	Level      string
	Format     string
	Env        string
	OutputFile string
}

// Usage configures plan limits and request throttling.
type Usage struct {
	// Plans maps a plan name ("free", "premium") to its limits. -1 means unlimited.
	Plans map[string]PlanLimits `mapstructure:"plans"`
	// RetryAfter is the advisory hint attached to quota errors.
	RetryAfter time.Duration `mapstructure:"retry_after"`
	// AIRequestsPerMinute caps AI calls per user per minute. 0 disables the check.
	AIRequestsPerMinute int32 `mapstructure:"ai_requests_per_minute"`
}

// PlanLimits is one row of the plan table.
type PlanLimits struct {
	MonthlyCVAnalyses    int      `mapstructure:"monthly_cv_analyses"`
	MonthlyApplications  int      `mapstructure:"monthly_applications"`
	MonthlyAIGenerations int      `mapstructure:"monthly_ai_generations"`
	ExportFormats        []string `mapstructure:"export_formats"`
}

// CircuitBreaker configures the circuit breaker registry.
type CircuitBreaker struct {
	Default  CircuitConfig            `mapstructure:"default"`
	Services map[string]CircuitConfig `mapstructure:"services"`
}

// CircuitConfig is a per-service breaker configuration. Zero fields inherit the default.
type CircuitConfig struct {
	FailureThreshold int           `mapstructure:"failure_threshold"`
	ResetTimeout     time.Duration `mapstructure:"reset_timeout"`
	SuccessThreshold int           `mapstructure:"success_threshold"`
}

// Gemini configures the AI provider client.
type Gemini struct {
	APIKey string
	Model  string
}
