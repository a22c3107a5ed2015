package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Pricing  PricingConfig  `toml:"pricing"`
	Booking  BookingConfig  `toml:"booking"`
	Events   EventsConfig   `toml:"events"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	QueryTimeout    int    `toml:"query_timeout"`     // секунды, таймаут транзакции
	ConnectTimeout  int    `toml:"connect_timeout"`   // секунды
	TxMaxRetries    int    `toml:"tx_max_retries"`
	TxRetryBackoff  int    `toml:"tx_retry_backoff_ms"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	if d.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(d.ConnectTimeout))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки проверки JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// PricingConfig настройки расчета стоимости доставки
type PricingConfig struct {
	DistanceMode          string  `toml:"distance_mode"` // flat | haversine
	FlatDistanceCharge    float64 `toml:"flat_distance_charge"`
	PerKmRate             float64 `toml:"per_km_rate"`
	MinimumDistanceCharge float64 `toml:"minimum_distance_charge"`
}

// BookingConfig настройки жизненного цикла бронирования
type BookingConfig struct {
	TrackingNumberPrefix   string `toml:"tracking_number_prefix"`
	TrackingNumberAttempts int    `toml:"tracking_number_attempts"`
	ListLimit              int    `toml:"list_limit"`
	StrictTransitions      bool   `toml:"strict_transitions"`
}

// EventsConfig настройки публикации событий в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// Default возвращает конфигурацию по умолчанию
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
			DBName:          "logiflow_transport",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			QueryTimeout:    10,
			ConnectTimeout:  5,
			TxMaxRetries:    3,
			TxRetryBackoff:  50,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "logiflow-booking-service",
		},
		Pricing: PricingConfig{
			DistanceMode:          "flat",
			FlatDistanceCharge:    15.50,
			PerKmRate:             0.85,
			MinimumDistanceCharge: 5.00,
		},
		Booking: BookingConfig{
			TrackingNumberPrefix:   "LF",
			TrackingNumberAttempts: 5,
			ListLimit:              100,
		},
		Events: EventsConfig{
			Exchange: "logiflow.bookings",
		},
	}
}

// Load загружает конфигурацию из TOML файла.
// Перед чтением подгружает .env (если есть), после - применяет переменные окружения.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
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
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %v", ErrInvalidConfig, key, err)
		}
		*dst = n
		return nil
	}

	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("JWT_SECRET", &c.Auth.JWTSecret)
	setString("RABBITMQ_URL", &c.Events.URL)
	setString("LOG_LEVEL", &c.Logs.Level)

	if err := setInt("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := setInt("HTTP_PORT", &c.Server.HTTPPort); err != nil {
		return err
	}

	return nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("%w: database.max_open_conns must be positive", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required (or JWT_SECRET)", ErrInvalidConfig)
	}
	switch c.Pricing.DistanceMode {
	case "flat", "haversine":
	default:
		return fmt.Errorf("%w: pricing.distance_mode must be flat or haversine, got %q", ErrInvalidConfig, c.Pricing.DistanceMode)
	}
	if c.Pricing.FlatDistanceCharge < 0 || c.Pricing.PerKmRate < 0 || c.Pricing.MinimumDistanceCharge < 0 {
		return fmt.Errorf("%w: pricing charges must not be negative", ErrInvalidConfig)
	}
	if c.Booking.TrackingNumberAttempts <= 0 {
		return fmt.Errorf("%w: booking.tracking_number_attempts must be positive", ErrInvalidConfig)
	}
	if c.Booking.ListLimit <= 0 {
		return fmt.Errorf("%w: booking.list_limit must be positive", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("%w: events.url is required when events are enabled", ErrInvalidConfig)
	}
	return nil
}
