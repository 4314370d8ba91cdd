package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ZanzyTHEbar/heart-risk-analyzer/internal/assets"
)

// Config is the runtime configuration, read from config.yaml and the environment.
// Environment variables use the upper-cased key, e.g. ASSETS_DIR.
type Config struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`

	AssetsDir   string `mapstructure:"assets_dir"`
	ModelFile   string `mapstructure:"model_file"`
	ScalerFile  string `mapstructure:"scaler_file"`
	ColumnsFile string `mapstructure:"columns_file"`

	AnalysisDelay  time.Duration `mapstructure:"analysis_delay"`
	CacheSize      int           `mapstructure:"cache_size"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`

	RateLimitPerMin int    `mapstructure:"rate_limit_per_min"`
	RedisAddr       string `mapstructure:"redis_addr"`
	RedisPassword   string `mapstructure:"redis_password"`
	RedisDB         int    `mapstructure:"redis_db"`

	AllowedOrigins string `mapstructure:"allowed_origins"`
	EnableHSTS     bool   `mapstructure:"enable_hsts"`
	CSPReportURI   string `mapstructure:"csp_report_uri"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

var defaults = map[string]interface{}{
	"port":               "8080",
	"gin_mode":           "release",
	"assets_dir":         ".",
	"model_file":         assets.DefaultModelFile,
	"scaler_file":        assets.DefaultScalerFile,
	"columns_file":       assets.DefaultColumnsFile,
	"analysis_delay":     "500ms",
	"cache_size":         1024,
	"request_timeout":    "30s",
	"max_body_bytes":     8 << 10,
	"rate_limit_per_min": 30,
	"redis_addr":         "",
	"redis_password":     "",
	"redis_db":           0,
	"allowed_origins":    "http://localhost:3000,http://localhost:5173",
	"enable_hsts":        false,
	"csp_report_uri":     "",
	"log_level":          "info",
	"log_file":           "",
}

// Load reads ./.env, then config.yaml from . or ./configs, then the environment.
func Load() (*Config, error) {
	return LoadFrom(".env", ".", "./configs")
}

// LoadFrom is Load with explicit locations. A missing env file or config
// file is not an error.
func LoadFrom(envFile string, configDirs ...string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			slog.Debug("Loaded environment file", "path", envFile)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range configDirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if len(configDirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("port %q must be a number between 1 and 65535", c.Port))
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("gin_mode %q must be debug, release or test", c.GinMode))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not a known level", c.LogLevel))
	}
	if c.ModelFile == "" || c.ScalerFile == "" || c.ColumnsFile == "" {
		errs = append(errs, errors.New("model_file, scaler_file and columns_file must be set"))
	}
	if c.AnalysisDelay < 0 {
		errs = append(errs, errors.New("analysis_delay must not be negative"))
	}
	if c.CacheSize < 0 {
		errs = append(errs, errors.New("cache_size must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.AnalysisDelay >= c.RequestTimeout && c.RequestTimeout > 0 {
		errs = append(errs, errors.New("analysis_delay must be shorter than request_timeout"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max_body_bytes must be positive"))
	}
	if c.RateLimitPerMin < 0 {
		errs = append(errs, errors.New("rate_limit_per_min must not be negative"))
	}
	if len(c.Origins()) == 0 {
		errs = append(errs, errors.New(`allowed_origins must list at least one origin or "*"`))
	}
	if c.RedisDB < 0 {
		errs = append(errs, errors.New("redis_db must not be negative"))
	}

	return errors.Join(errs...)
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Files resolves the artifact paths. Relative names are taken from AssetsDir.
func (c *Config) Files() assets.Files {
	resolve := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(c.AssetsDir, name)
	}
	return assets.Files{
		Model:   resolve(c.ModelFile),
		Scaler:  resolve(c.ScalerFile),
		Columns: resolve(c.ColumnsFile),
	}
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
