package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Payroll       PayrollConfig       `mapstructure:"payroll"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
	Tasks         TasksConfig         `mapstructure:"tasks"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	OpenAPIPath       string        `mapstructure:"openapi_path"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// Permission required on every payroll administration route.
	AdminPermission string `mapstructure:"admin_permission"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PayrollConfig holds the salary policy. DaysInPeriod is a flat number of paid
// days per month, not the calendar length of the month.
type PayrollConfig struct {
	DaysInPeriod int    `mapstructure:"days_in_period"`
	Currency     string `mapstructure:"currency"`
	PayslipDir   string `mapstructure:"payslip_dir"`
}

type SchedulerConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	Timezone              string        `mapstructure:"timezone"`
	ContractSweepInterval time.Duration `mapstructure:"contract_sweep_interval"`
}

type TasksConfig struct {
	MaxWorkers int `mapstructure:"max_workers"`
	QueueSize  int `mapstructure:"queue_size"`
}

const (
	DefaultDaysInPeriod    = 26
	DefaultCurrency        = "IDR"
	DefaultAdminPermission = "manage_payroll"
)

// ApplyDefaults fills zero values that have a sensible default.
func (c *Config) ApplyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Payroll.DaysInPeriod == 0 {
		c.Payroll.DaysInPeriod = DefaultDaysInPeriod
	}
	if c.Payroll.Currency == "" {
		c.Payroll.Currency = DefaultCurrency
	}
	if c.Payroll.PayslipDir == "" {
		c.Payroll.PayslipDir = "storage/payslips"
	}
	if c.Security.AdminPermission == "" {
		c.Security.AdminPermission = DefaultAdminPermission
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = "Local"
	}
	if c.Scheduler.ContractSweepInterval == 0 {
		c.Scheduler.ContractSweepInterval = 24 * time.Hour
	}
	if c.Tasks.MaxWorkers == 0 {
		c.Tasks.MaxWorkers = 4
	}
	if c.Tasks.QueueSize == 0 {
		c.Tasks.QueueSize = 100
	}
	if c.Server.OpenAPIPath == "" {
		c.Server.OpenAPIPath = "./api/openapi.yml"
	}
}

// LoadConfigFromEnv builds the config for container deployments where no
// config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			OpenAPIPath:       getEnv("OPENAPI_PATH", "./api/openapi.yml"),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Source:          getEnv("DB_SOURCE", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Security: SecurityConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			AdminPermission: getEnv("ADMIN_PERMISSION", DefaultAdminPermission),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
		Payroll: PayrollConfig{
			DaysInPeriod: getEnvAsInt("PAYROLL_DAYS_IN_PERIOD", DefaultDaysInPeriod),
			Currency:     getEnv("PAYROLL_CURRENCY", DefaultCurrency),
			PayslipDir:   getEnv("PAYROLL_PAYSLIP_DIR", "storage/payslips"),
		},
		Scheduler: SchedulerConfig{
			Enabled:               getEnv("SCHEDULER_ENABLED", "true") == "true",
			Timezone:              getEnv("SCHEDULER_TIMEZONE", "Local"),
			ContractSweepInterval: getEnvAsDuration("SCHEDULER_CONTRACT_SWEEP_INTERVAL", 24*time.Hour),
		},
		Tasks: TasksConfig{
			MaxWorkers: getEnvAsInt("TASKS_MAX_WORKERS", 4),
			QueueSize:  getEnvAsInt("TASKS_QUEUE_SIZE", 100),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Payroll.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("payroll config: %v", err))
	}

	if err := c.Scheduler.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("scheduler config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *PayrollConfig) Validate() error {
	if c.DaysInPeriod < 1 || c.DaysInPeriod > 31 {
		return errors.New("days_in_period must be between 1 and 31")
	}
	if len(c.Currency) != 3 {
		return errors.New("currency must be a 3 letter code")
	}
	return nil
}

func (c *SchedulerConfig) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %s: %w", c.Timezone, err)
	}
	if c.ContractSweepInterval < time.Minute {
		return errors.New("contract_sweep_interval must be at least 1m")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch c.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}
