package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the dashboard service
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	Server   ServerConfig   `mapstructure:"server"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	View     ViewConfig     `mapstructure:"view"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// Log levels accepted by general.log_level.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

func (g GeneralConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(g.LogLevel)) {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	}
	return fmt.Errorf("general.log_level %q is not one of debug, info, warn, error", g.LogLevel)
}

// LogWriter returns w when component logs should be written and io.Discard when
// log_level is above info. Debug mode always logs.
func (g GeneralConfig) LogWriter(w io.Writer) io.Writer {
	if g.Debug {
		return w
	}
	switch strings.ToLower(strings.TrimSpace(g.LogLevel)) {
	case LogLevelWarn, LogLevelError:
		return io.Discard
	}
	return w
}

// ServerConfig contains HTTP server and auth settings
type ServerConfig struct {
	Address      string   `mapstructure:"address"`
	JWTSecret    string   `mapstructure:"jwt_secret"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RemoteConfig points at the Synthos data service.
type RemoteConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Retries int               `mapstructure:"retries"`
	Backoff time.Duration     `mapstructure:"backoff"`
	Headers map[string]string `mapstructure:"headers"`
}

func (r RemoteConfig) Validate() error {
	if strings.TrimSpace(r.BaseURL) == "" {
		return fmt.Errorf("remote.base_url required")
	}
	if r.Retries < 0 {
		return fmt.Errorf("remote.retries cannot be negative")
	}
	return nil
}

// Storage backends for read/favorite flags.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Backend  string         `mapstructure:"backend"`
	Redis    RedisConfig    `mapstructure:"redis"`
	File     FileConfig     `mapstructure:"file"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

func (s StorageConfig) Validate() error {
	switch s.Backend {
	case BackendMemory:
		return nil
	case BackendFile:
		if strings.TrimSpace(s.File.DataDir) == "" {
			return fmt.Errorf("storage.file.data_dir required for file backend")
		}
		return nil
	case BackendRedis:
		return s.Redis.Validate()
	case BackendPostgres:
		return s.Postgres.Validate()
	default:
		return fmt.Errorf("storage.backend %q is not one of memory, file, redis, postgres", s.Backend)
	}
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a redis endpoint has been configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Host) != "" && strings.TrimSpace(r.Port) != ""
}

// Addr returns host:port.
func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%s", r.Host, r.Port) }

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// FileConfig contains file storage settings
type FileConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (p PostgresConfig) Validate() error {
	if strings.TrimSpace(p.URL) != "" {
		return nil
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("storage.postgres.host required when url is not provided")
	}
	if strings.TrimSpace(p.DBName) == "" {
		return fmt.Errorf("storage.postgres.dbname required when url is not provided")
	}
	return nil
}

// DSN builds a connection string, preferring an explicit url.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl)
}

// PipelineConfig tunes topic aggregation.
type PipelineConfig struct {
	Throttle      time.Duration `mapstructure:"throttle"`
	DefaultWindow time.Duration `mapstructure:"default_window"`
	RefreshCron   string        `mapstructure:"refresh_cron"`
}

// Normalize applies defaults for unset pipeline values.
func (p PipelineConfig) Normalize() PipelineConfig {
	if p.Throttle <= 0 {
		p.Throttle = time.Second
	}
	if p.DefaultWindow <= 0 {
		p.DefaultWindow = 24 * time.Hour
	}
	p.RefreshCron = strings.TrimSpace(p.RefreshCron)
	return p
}

// ViewConfig holds the dashboard's default filter state.
type ViewConfig struct {
	PageSize int     `mapstructure:"page_size"`
	ScoreMin float64 `mapstructure:"score_min"`
	ScoreMax float64 `mapstructure:"score_max"`
}

// Normalize clamps the page size to the slider range the dashboard offers.
func (v ViewConfig) Normalize() ViewConfig {
	switch {
	case v.PageSize <= 0:
		v.PageSize = 6
	case v.PageSize < 3:
		v.PageSize = 3
	case v.PageSize > 12:
		v.PageSize = 12
	}
	if v.ScoreMin > v.ScoreMax {
		v.ScoreMin, v.ScoreMax = v.ScoreMax, v.ScoreMin
	}
	return v
}

// LoadConfig loads config from file. An empty path searches the usual locations;
// a missing file is tolerated so environment variables alone can configure the service.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":10001")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("remote.base_url", "http://localhost:3002")
	v.SetDefault("remote.timeout", 15*time.Second)
	v.SetDefault("remote.retries", 1)
	v.SetDefault("remote.backoff", 300*time.Millisecond)
	v.SetDefault("remote.headers", map[string]string{"ngrok-skip-browser-warning": "69420"})
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.file.data_dir", "./data")
	v.SetDefault("storage.redis.host", "")
	v.SetDefault("storage.redis.port", "")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.timeout", 5*time.Second)
	v.SetDefault("storage.postgres.url", "")
	v.SetDefault("pipeline.throttle", time.Second)
	v.SetDefault("pipeline.default_window", 24*time.Hour)
	v.SetDefault("pipeline.refresh_cron", "")
	v.SetDefault("view.page_size", 6)
	v.SetDefault("view.score_min", -1.0)
	v.SetDefault("view.score_max", 1.0)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		v.AddConfigPath(exeDir)
		v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("DIGESTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Pipeline = cfg.Pipeline.Normalize()
	cfg.View = cfg.View.Normalize()

	if err := cfg.General.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Remote.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
