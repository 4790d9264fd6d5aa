package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Sheets    SheetsConfig    `yaml:"sheets" envconfig:"SHEETS"`
	Access    AccessConfig    `yaml:"access" envconfig:"ACCESS"`
	Advice    AdviceConfig    `yaml:"advice" envconfig:"ADVICE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// SheetsConfig locates the three published spreadsheets
type SheetsConfig struct {
	GradesURL          string        `yaml:"grades_url" envconfig:"GRADES_URL" validate:"required,url"`
	HomeworkURL        string        `yaml:"homework_url" envconfig:"HOMEWORK_URL" validate:"required,url"`
	LectureAbsencesURL string        `yaml:"lecture_absences_url" envconfig:"LECTURE_ABSENCES_URL" validate:"required,url"`
	HTTPTimeout        time.Duration `yaml:"http_timeout" envconfig:"HTTP_TIMEOUT" validate:"gte=0"`
	CacheBustParam     string        `yaml:"cache_bust_param" envconfig:"CACHE_BUST_PARAM" validate:"required"`
	RefreshInterval    time.Duration `yaml:"refresh_interval" envconfig:"REFRESH_INTERVAL" validate:"gte=0"`
	Layout             LayoutConfig  `yaml:"layout" envconfig:"LAYOUT"`
}

// LayoutConfig describes the block geometry of the pivot sheets
type LayoutConfig struct {
	Offsets            []int `yaml:"offsets" envconfig:"OFFSETS" validate:"required,dive,gte=0"`
	Height             int   `yaml:"height" envconfig:"HEIGHT" validate:"gte=3"`
	FirstGradeColumn   int   `yaml:"first_grade_column" envconfig:"FIRST_GRADE_COLUMN" validate:"gte=0"`
	FirstAbsenceColumn int   `yaml:"first_absence_column" envconfig:"FIRST_ABSENCE_COLUMN" validate:"gte=0"`
}

// AccessConfig gates the API by user ID
type AccessConfig struct {
	AllowedUserIDs []int64 `yaml:"allowed_user_ids" envconfig:"ALLOWED_USER_IDS"`
	AdminID        int64   `yaml:"admin_id" envconfig:"ADMIN_ID" validate:"gte=0"`
}

// AdviceConfig configures the Gemini advisor. An empty APIKey disables it.
type AdviceConfig struct {
	APIKey  string        `yaml:"api_key" envconfig:"API_KEY"`
	Model   string        `yaml:"model" envconfig:"MODEL" validate:"required"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gte=0"`
}

// TelemetryConfig selects tracing and metrics exporters
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
}

// IsAllowed reports whether a user may use the API. The admin always may.
func (a AccessConfig) IsAllowed(id int64) bool {
	if a.IsAdmin(id) {
		return true
	}
	for _, allowed := range a.AllowedUserIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

// IsAdmin reports whether id is the configured admin
func (a AccessConfig) IsAdmin(id int64) bool {
	return a.AdminID != 0 && a.AdminID == id
}

// Load builds the configuration from defaults, an optional YAML file and
// GRADESYNC_* environment variables, in increasing order of precedence.
// An empty path searches the usual locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"gradesync.yaml",
		"configs/gradesync.yaml",
		"../configs/gradesync.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	offsets := make([]int, DefaultBlockCount)
	for i := range offsets {
		offsets[i] = i * DefaultBlockHeight
	}

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/gradesync.log",
		},
		Sheets: SheetsConfig{
			GradesURL:          DefaultGradesURL,
			HomeworkURL:        DefaultHomeworkURL,
			LectureAbsencesURL: DefaultLectureAbsencesURL,
			HTTPTimeout:        0,
			CacheBustParam:     "_",
			Layout: LayoutConfig{
				Offsets:            offsets,
				Height:             DefaultBlockHeight,
				FirstGradeColumn:   3,
				FirstAbsenceColumn: 2,
			},
		},
		Advice: AdviceConfig{
			Model:   DefaultAdviceModel,
			Timeout: DefaultAdviceTimeout,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
	}
}
