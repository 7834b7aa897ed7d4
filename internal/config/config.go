package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/study-productivity/internal/fuzzy"
	"github.com/danielpatrickdp/study-productivity/internal/productivity"
	"github.com/danielpatrickdp/study-productivity/internal/store"
)

// #region types
// Config holds everything the service reads from the environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Engine   EngineConfig
}

// ServerConfig covers the HTTP and gRPC listeners.
type ServerConfig struct {
	HTTPAddr        string
	GRPCAddr        string
	GinMode         string
	CORSOrigins     []string // empty allows every origin
	ShutdownTimeout time.Duration
	HistoryLimit    int // default page size for history; 0 returns everything
}

// DatabaseConfig selects the store dialect and its connection settings.
type DatabaseConfig struct {
	Driver   string // "sqlite" | "mysql"
	Path     string // sqlite file
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// LogConfig is passed to logging.Setup.
type LogConfig struct {
	Level  string
	Format string
}

// EngineConfig tunes evaluation.
type EngineConfig struct {
	SampleStep   float64
	TraceEnabled bool
}

// #endregion types

// #region load
// DefaultEnvPaths are tried in order; the first existing file wins.
var DefaultEnvPaths = []string{"config/.env", ".env"}

// Load reads an optional .env file and then the environment.
func Load(envPaths ...string) (*Config, error) {
	if len(envPaths) == 0 {
		envPaths = DefaultEnvPaths
	}
	for _, path := range envPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		logrus.WithField("path", path).Debug("loaded env file")
		break
	}

	cfg := &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			GRPCAddr:        getEnv("GRPC_ADDR", ":9090"),
			GinMode:         getEnv("GIN_MODE", "release"),
			CORSOrigins:     getEnvAsList("CORS_ORIGINS"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			HistoryLimit:    getEnvAsInt("HISTORY_LIMIT", 0),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", store.DriverSQLite)),
			Path:     getEnv("DB_PATH", "study_productivity.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			Username: getEnv("DB_USERNAME", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_DATABASE", "study_productivity"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Engine: EngineConfig{
			SampleStep:   getEnvAsFloat("SAMPLE_STEP", productivity.DefaultEngineConfig().SampleStep),
			TraceEnabled: getEnvAsBool("TRACE_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case store.DriverSQLite, store.DriverMySQL:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want sqlite or mysql", c.Database.Driver)
	}
	if !fuzzy.ValidStep(c.Engine.SampleStep) {
		return fmt.Errorf("invalid SAMPLE_STEP %v: want (0,100]", c.Engine.SampleStep)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT %v", c.Server.ShutdownTimeout)
	}
	return nil
}

// #endregion load

// #region helpers
// ProductivityConfig converts the engine settings for productivity.NewEngine.
func (c *Config) ProductivityConfig() productivity.EngineConfig {
	return productivity.EngineConfig{SampleStep: c.Engine.SampleStep}
}

// MySQL returns the connection settings for store.NewMySQLStore.
func (d DatabaseConfig) MySQL() store.MySQLConfig {
	return store.MySQLConfig{
		Host:     d.Host,
		Port:     d.Port,
		Username: d.Username,
		Password: d.Password,
		Database: d.Database,
	}
}

// OpenStore opens the configured store.
func (d DatabaseConfig) OpenStore() (*store.Store, error) {
	if d.Driver == store.DriverMySQL {
		return store.NewMySQLStore(d.MySQL())
	}
	return store.NewSQLiteStore(d.Path)
}

// String summarizes the configuration without secrets.
func (c *Config) String() string {
	db := c.Database.Path
	if c.Database.Driver == store.DriverMySQL {
		db = fmt.Sprintf("%s@%s:%s/%s (password %s)", c.Database.Username, c.Database.Host,
			c.Database.Port, c.Database.Database, maskString(c.Database.Password))
	}
	return fmt.Sprintf("http=%s grpc=%s driver=%s db=%s sample_step=%v trace=%v log=%s/%s",
		c.Server.HTTPAddr, c.Server.GRPCAddr, c.Database.Driver, db,
		c.Engine.SampleStep, c.Engine.TraceEnabled, c.Log.Level, c.Log.Format)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func maskString(input string) string {
	if input == "" {
		return "<empty>"
	}
	return "***"
}

// #endregion helpers
