package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the marketplace API
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig

	RateLimit RateLimitConfig

	Kafka         KafkaConfig
	Payments      PaymentConfig
	Notifications NotificationConfig
	Email         EmailConfig
	Metrics       MetricsConfig

	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	SeatHoldTTL    time.Duration
	CacheTTL       time.Duration
	SearchCacheTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	JWTExpiresIn     time.Duration
	RefreshExpiresIn time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled                  bool          `json:"enabled"`
	WindowDuration           time.Duration `json:"window_duration"`
	DefaultRequests          int           `json:"default_requests"`
	PublicRequests           int           `json:"public_requests"`
	AuthRequests             int           `json:"auth_requests"`
	CheckoutRequests         int           `json:"checkout_requests"`
	CheckoutCriticalRequests int           `json:"checkout_critical_requests"`
	AdminRequests            int           `json:"admin_requests"`
	HealthRequests           int           `json:"health_requests"`
	WhitelistedIPs           []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds broker and topic configuration
type KafkaConfig struct {
	Enabled             bool
	Brokers             []string
	ClientID            string
	PaymentTopic        string
	PaymentGroupID      string
	NotificationTopic   string
	NotificationGroupID string
	MaxRetries          int
}

// PaymentConfig holds checkout and payment settings
type PaymentConfig struct {
	QRExpiry        time.Duration
	ProcessingDelay time.Duration
	SessionTTL      time.Duration
	StreamInterval  time.Duration
	WebhookSecret   string
	QRPayeeNumber   string
	Currency        string
}

// NotificationConfig holds notification scheduler settings
type NotificationConfig struct {
	SchedulerInterval time.Duration
	BatchSize         int
}

// EmailConfig holds email configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// MetricsConfig holds prometheus exposition settings
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 0), // SSE streams stay open
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20),

		// Backend connection settings have no defaults; Validate rejects them when missing.
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", ""),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			SeatHoldTTL:    getDurationEnv("REDIS_SEAT_HOLD_TTL", 15*time.Minute),
			CacheTTL:       getDurationEnv("REDIS_CACHE_TTL", 1*time.Hour),
			SearchCacheTTL: getDurationEnv("SEARCH_CACHE_TTL", 2*time.Minute),
		},

		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", ""),
			JWTExpiresIn:     getDurationEnvSeconds("JWT_EXPIRES_IN", 15*time.Minute),
			RefreshExpiresIn: getDurationEnvSeconds("JWT_REFRESH_EXPIRES_IN", 24*time.Hour),
		},

		RateLimit: RateLimitConfig{
			Enabled:                  getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:           getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests:          getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:           getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 120),
			AuthRequests:             getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 10),
			CheckoutRequests:         getIntEnv("RATE_LIMIT_CHECKOUT_REQUESTS", 40),
			CheckoutCriticalRequests: getIntEnv("RATE_LIMIT_CHECKOUT_CRITICAL_REQUESTS", 15),
			AdminRequests:            getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 200),
			HealthRequests:           getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 300),
			WhitelistedIPs:           getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Kafka: KafkaConfig{
			Enabled:             getBoolEnv("KAFKA_ENABLED", true),
			Brokers:             getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			ClientID:            getEnv("KAFKA_CLIENT_ID", "ticketera-api"),
			PaymentTopic:        getEnv("KAFKA_PAYMENT_TOPIC", "payment-confirmations"),
			PaymentGroupID:      getEnv("KAFKA_PAYMENT_GROUP_ID", "ticketera-payments"),
			NotificationTopic:   getEnv("KAFKA_NOTIFICATION_TOPIC", "notification-dispatch"),
			NotificationGroupID: getEnv("KAFKA_NOTIFICATION_GROUP_ID", "ticketera-notifications"),
			MaxRetries:          getIntEnv("KAFKA_MAX_RETRIES", 3),
		},

		Payments: PaymentConfig{
			QRExpiry:        getDurationEnv("PAYMENT_QR_EXPIRY", 15*time.Minute),
			ProcessingDelay: getDurationEnv("PAYMENT_PROCESSING_DELAY", 3*time.Second),
			SessionTTL:      getDurationEnv("PAYMENT_SESSION_TTL", 1*time.Hour),
			StreamInterval:  getDurationEnv("PAYMENT_STREAM_INTERVAL", 1*time.Second),
			WebhookSecret:   getEnv("PAYMENT_WEBHOOK_SECRET", ""),
			QRPayeeNumber:   getEnv("PAYMENT_QR_PAYEE_NUMBER", "999999999"),
			Currency:        getEnv("PAYMENT_CURRENCY", "PEN"),
		},

		Notifications: NotificationConfig{
			SchedulerInterval: getDurationEnv("NOTIFICATION_SCHEDULER_INTERVAL", 30*time.Second),
			BatchSize:         getIntEnv("NOTIFICATION_SCHEDULER_BATCH", 50),
		},

		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@ticketera.pe"),
			FromName:     getEnv("FROM_NAME", "Ticketera"),
		},

		Metrics: MetricsConfig{
			Enabled: getBoolEnv("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// Validate reports every missing setting the process cannot start without.
func (c *Config) Validate() error {
	var errs []error
	required := map[string]string{
		"DB_HOST":    c.Database.Host,
		"DB_NAME":    c.Database.Name,
		"DB_USER":    c.Database.User,
		"JWT_SECRET": c.JWT.Secret,
	}
	for _, key := range []string{"DB_HOST", "DB_NAME", "DB_USER", "JWT_SECRET"} {
		if required[key] == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when kafka is enabled"))
	}
	if c.IsProduction() && c.Payments.WebhookSecret == "" {
		errs = append(errs, errors.New("PAYMENT_WEBHOOK_SECRET is required in release mode"))
	}
	return errors.Join(errs...)
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getDurationEnvSeconds reads an integer number of seconds
func getDurationEnvSeconds(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
