package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const defaultPprofAddr = ":6060"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"dev"`
	ServiceName     string        `env:"APP_SERVICE_NAME" envDefault:"kickabout-api"`
	ServiceVersion  string        `env:"APP_SERVICE_VERSION" envDefault:"dev"`
	HTTPAddr        string        `env:"APP_HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"APP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"APP_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"20s"`
	RawLogLevel     string        `env:"APP_LOG_LEVEL" envDefault:"info"`
	LogLevel        logging.Level `env:"-"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	StoreDriver             string `env:"STORE_DRIVER" envDefault:"memory"`
	DBURL                   string `env:"DB_URL"`
	DBDisablePreparedBinary bool   `env:"DB_DISABLE_PREPARED_BINARY_RESULT" envDefault:"true"`
	DBMaxOpenConns          int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns          int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTIssuer    string        `env:"JWT_ISSUER"`
	JWTAudience  string        `env:"JWT_AUDIENCE"`
	JWTClockSkew time.Duration `env:"JWT_CLOCK_SKEW" envDefault:"30s"`

	InternalToken string `env:"INTERNAL_TOKEN"`

	BadgeWorkers int `env:"BADGE_WORKERS" envDefault:"4"`

	NotifyWorkers               int           `env:"NOTIFY_WORKERS" envDefault:"8"`
	NotifyQueueSize             int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"1024"`
	NotifySendTimeout           time.Duration `env:"NOTIFY_SEND_TIMEOUT" envDefault:"10s"`
	NotifyWebhookURL            string        `env:"NOTIFY_WEBHOOK_URL"`
	NotifyWebhookToken          string        `env:"NOTIFY_WEBHOOK_TOKEN"`
	NotifyWebhookTimeout        time.Duration `env:"NOTIFY_WEBHOOK_TIMEOUT" envDefault:"5s"`
	NotifyCircuitEnabled        bool          `env:"NOTIFY_CIRCUIT_ENABLED" envDefault:"true"`
	NotifyCircuitFailureCount   int           `env:"NOTIFY_CIRCUIT_FAILURE_COUNT" envDefault:"5"`
	NotifyCircuitOpenTimeout    time.Duration `env:"NOTIFY_CIRCUIT_OPEN_TIMEOUT" envDefault:"15s"`
	NotifyCircuitHalfOpenMaxReq int           `env:"NOTIFY_CIRCUIT_HALF_OPEN_MAX_REQ" envDefault:"2"`

	UptraceEnabled    bool   `env:"UPTRACE_ENABLED" envDefault:"false"`
	UptraceDSN        string `env:"UPTRACE_DSN"`
	OTLPHeaders       string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	PprofEnabled      bool   `env:"PPROF_ENABLED" envDefault:"false"`
	PprofAddr         string `env:"PPROF_ADDR" envDefault:":6060"`
	PyroscopeEnabled  bool   `env:"PYROSCOPE_ENABLED" envDefault:"false"`
	PyroscopeServer   string `env:"PYROSCOPE_SERVER_ADDRESS"`
	PyroscopeAppName  string `env:"PYROSCOPE_APP_NAME"`
	PyroscopeToken    string `env:"PYROSCOPE_AUTH_TOKEN"`
	PyroscopeUser     string `env:"PYROSCOPE_BASIC_AUTH_USER"`
	PyroscopePassword string `env:"PYROSCOPE_BASIC_AUTH_PASSWORD"`

	PyroscopeUploadRate time.Duration `env:"PYROSCOPE_UPLOAD_RATE" envDefault:"15s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	appEnv, err := parseAppEnv(c.AppEnv)
	if err != nil {
		return err
	}
	c.AppEnv = appEnv
	c.LogLevel = parseLogLevel(c.RawLogLevel)
	c.CORSAllowedOrigins = trimAll(c.CORSAllowedOrigins)
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("APP_HTTP_ADDR cannot be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be > 0")
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case StoreMemory:
		if c.AppEnv == EnvProd {
			return fmt.Errorf("STORE_DRIVER=%s is not allowed when APP_ENV=%s", StoreMemory, EnvProd)
		}
	case StorePostgres:
		c.DBURL = strings.TrimSpace(c.DBURL)
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
		if c.DBMaxOpenConns < 1 {
			return fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", c.StoreDriver, StoreMemory, StorePostgres)
	}

	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AppEnv == EnvProd && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes when APP_ENV=%s", EnvProd)
	}
	c.InternalToken = strings.TrimSpace(c.InternalToken)

	if c.BadgeWorkers < 1 {
		return fmt.Errorf("BADGE_WORKERS must be >= 1")
	}
	if c.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be >= 1")
	}
	if c.NotifyQueueSize < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be >= 1")
	}
	if c.NotifySendTimeout <= 0 {
		return fmt.Errorf("NOTIFY_SEND_TIMEOUT must be > 0")
	}
	c.NotifyWebhookURL = strings.TrimSpace(c.NotifyWebhookURL)
	if c.NotifyWebhookURL != "" {
		if c.NotifyWebhookTimeout <= 0 {
			return fmt.Errorf("NOTIFY_WEBHOOK_TIMEOUT must be > 0")
		}
		if c.NotifyCircuitFailureCount < 1 {
			return fmt.Errorf("NOTIFY_CIRCUIT_FAILURE_COUNT must be >= 1")
		}
		if c.NotifyCircuitOpenTimeout <= 0 {
			return fmt.Errorf("NOTIFY_CIRCUIT_OPEN_TIMEOUT must be > 0")
		}
		if c.NotifyCircuitHalfOpenMaxReq < 1 {
			return fmt.Errorf("NOTIFY_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
		}
	}

	c.UptraceDSN = strings.TrimSpace(c.UptraceDSN)
	if c.UptraceDSN == "" {
		c.UptraceDSN = parseUptraceDSNFromOTLPHeaders(c.OTLPHeaders)
	}
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	c.PprofAddr = strings.TrimSpace(c.PprofAddr)
	if c.PprofAddr == "" {
		c.PprofAddr = defaultPprofAddr
	}

	c.PyroscopeServer = strings.TrimSpace(c.PyroscopeServer)
	if c.PyroscopeEnabled && c.PyroscopeServer == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if c.PyroscopeUploadRate <= 0 {
		return fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	c.PyroscopeAppName = strings.TrimSpace(c.PyroscopeAppName)
	if c.PyroscopeAppName == "" {
		c.PyroscopeAppName = c.ServiceName
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if item := strings.TrimSpace(v); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
