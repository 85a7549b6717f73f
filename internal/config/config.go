package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Auth         AuthConfig         `toml:"auth"`
	Pagination   PaginationConfig   `toml:"pagination"`
	Reports      ReportsConfig      `toml:"reports"`
	Notification NotificationConfig `toml:"notification"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды

	// TrustProxyHeaders брать схему и хост ссылки на отчёт из X-Forwarded-*
	// Включать только за reverse proxy, который перезаписывает эти заголовки
	TrustProxyHeaders bool `toml:"trust_proxy_headers"`
}

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
	MigrationsDir   string `toml:"migrations_dir"`    // пусто - схема применяется вне сервиса
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type PaginationConfig struct {
	DefaultSize int `toml:"default_size"`
	MaxSize     int `toml:"max_size"`
}

type ReportsConfig struct {
	Dir       string `toml:"dir"`
	BatchSize int    `toml:"batch_size"`
	Delimiter string `toml:"delimiter"`
}

type NotificationConfig struct {
	Channel string     `toml:"channel"` // "smtp" или "amqp"
	SMTP    SMTPConfig `toml:"smtp"`
	AMQP    AMQPConfig `toml:"amqp"`
}

type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	Timeout  int    `toml:"timeout"` // секунды
	TLS      bool   `toml:"tls"`
}

type AMQPConfig struct {
	URL   string `toml:"url"`
	Queue string `toml:"queue"`
}

const (
	ChannelSMTP = "smtp"
	ChannelAMQP = "amqp"
)

// Load читает конфигурацию из TOML-файла, подставляет значения по умолчанию
// и секреты из переменных окружения
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 60)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "room_booking_service"
	}

	setDefault(&c.Pagination.DefaultSize, 10)
	setDefault(&c.Pagination.MaxSize, 100)

	if c.Reports.Dir == "" {
		c.Reports.Dir = "./files/reports"
	}
	setDefault(&c.Reports.BatchSize, 500)
	if c.Reports.Delimiter == "" {
		c.Reports.Delimiter = ","
	}

	if c.Notification.Channel == "" {
		c.Notification.Channel = ChannelSMTP
	}
	setDefault(&c.Notification.SMTP.Port, 587)
	setDefault(&c.Notification.SMTP.Timeout, 10)
	if c.Notification.AMQP.Queue == "" {
		c.Notification.AMQP.Queue = "report.generated"
	}
}

func (c *Config) applyEnv() {
	overrideFromEnv(&c.Database.Password, "DB_PASSWORD")
	overrideFromEnv(&c.Auth.JWTSecret, "JWT_SECRET")
	overrideFromEnv(&c.Notification.SMTP.Password, "SMTP_PASSWORD")
	overrideFromEnv(&c.Notification.AMQP.URL, "AMQP_URL")
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("config: database host, dbname and user are required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret (or JWT_SECRET) is required")
	}
	if len([]rune(c.Reports.Delimiter)) != 1 {
		return fmt.Errorf("config: reports.delimiter must be a single character")
	}

	switch strings.ToLower(c.Notification.Channel) {
	case ChannelSMTP:
		if c.Notification.SMTP.Host == "" || c.Notification.SMTP.From == "" {
			return fmt.Errorf("config: notification.smtp host and from are required")
		}
	case ChannelAMQP:
		if c.Notification.AMQP.URL == "" {
			return fmt.Errorf("config: notification.amqp.url (or AMQP_URL) is required")
		}
	default:
		return fmt.Errorf("config: unknown notification channel %q", c.Notification.Channel)
	}

	return nil
}

// DelimiterRune разделитель CSV
func (r ReportsConfig) DelimiterRune() rune {
	return []rune(r.Delimiter)[0]
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func overrideFromEnv(v *string, key string) {
	if env, ok := os.LookupEnv(key); ok && env != "" {
		*v = env
	}
}
