package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
)

var (
	// ErrReadConfig возвращается, когда файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается, когда значения конфигурации некорректны
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Redis       RedisConfig       `toml:"redis"`
	Reservation ReservationConfig `toml:"reservation"`
	UserService UserServiceConfig `toml:"user_service"`
	Completion  CompletionConfig  `toml:"completion"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки Redis (кэш ключей идемпотентности)
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	PoolSize int    `toml:"pool_size"`
}

// ReservationConfig настройки процесса бронирования
type ReservationConfig struct {
	Timezone            string `toml:"timezone"`
	AutoConfirm         bool   `toml:"auto_confirm"`
	IdempotencyTTLHours int    `toml:"idempotency_ttl_hours"`
}

// Location часовой пояс ресторана
func (c ReservationConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// IdempotencyTTL время жизни ключа идемпотентности в кэше
func (c ReservationConfig) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempotencyTTLHours) * time.Hour
}

// UserServiceConfig настройки клиента UserService (таймаут в секундах)
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// CompletionConfig настройки фонового завершения прошедших бронирований
type CompletionConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "reservations",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "reservation-service",
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			PoolSize: 10,
		},
		Reservation: ReservationConfig{
			Timezone:            "UTC",
			IdempotencyTTLHours: 24,
		},
		UserService: UserServiceConfig{
			Timeout: 5,
		},
		Completion: CompletionConfig{
			Schedule: "*/15 * * * *",
		},
	}
}

// Load читает конфигурацию из TOML файла, применяет переменные окружения и валидирует результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет значения из переменных окружения
func (c *Config) applyEnv() error {
	if v := os.Getenv("RESERVATIONS_DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("RESERVATIONS_DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: RESERVATIONS_DB_PORT: %v", ErrInvalidConfig, err)
		}
		c.Database.Port = port
	}
	if v := os.Getenv("RESERVATIONS_DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("RESERVATIONS_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("RESERVATIONS_DB_NAME"); v != "" {
		c.Database.DBName = v
	}
	if v := os.Getenv("RESERVATIONS_REDIS_ADDRESS"); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv("RESERVATIONS_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("RESERVATIONS_USER_SERVICE_URL"); v != "" {
		c.UserService.URL = v
	}
	if v := os.Getenv("RESERVATIONS_AUTO_CONFIRM"); v != "" {
		autoConfirm, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: RESERVATIONS_AUTO_CONFIRM: %v", ErrInvalidConfig, err)
		}
		c.Reservation.AutoConfirm = autoConfirm
	}
	return nil
}

// Validate проверяет корректность значений конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("%w: database pool sizes must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Reservation.Location(); err != nil {
		return fmt.Errorf("%w: reservation.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Reservation.IdempotencyTTLHours <= 0 {
		return fmt.Errorf("%w: reservation.idempotency_ttl_hours must be positive", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("%w: redis.address is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	if c.Completion.Enabled {
		if _, err := cron.ParseStandard(c.Completion.Schedule); err != nil {
			return fmt.Errorf("%w: completion.schedule: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
