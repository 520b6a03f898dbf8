package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Directory    DirectoryConfig
	SLA          SLAConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	BaseURL               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// NotificationConfig holds email notification settings. These are explicit
// startup values; there is no database-backed settings row.
type NotificationConfig struct {
	Enabled                     bool
	EmailFrom                   string
	EmailSignature              string
	StaffEmailDomain            string
	NotifyAllAgentsOnNewTicket  bool
	NotifyCustomerOnCreate      bool
	NotifyCustomerOnStatus      bool
	NotifyCustomerOnComment     bool
	NotifyAgentOnAssignment     bool
	NotifyAgentOnComment        bool
}

// DirectoryConfig holds LDAP connection and role mapping values. Role sync is
// a separate step from authentication.
type DirectoryConfig struct {
	Enabled     bool
	Addr        string
	BindDN      string
	BindPass    string
	UserBaseDN  string
	AdminGroups []string
	AgentGroups []string
}

// SLAConfig controls the breach maintenance worker.
type SLAConfig struct {
	BreachCheckMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			BaseURL:               getEnv("APP_BASE_URL", "http://localhost:8080"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			Enabled:                    getEnvAsBool("NOTIFY_ENABLED", true),
			EmailFrom:                  getEnv("NOTIFY_EMAIL_FROM", "helpdesk@example.com"),
			EmailSignature:             os.Getenv("NOTIFY_EMAIL_SIGNATURE"),
			StaffEmailDomain:           getEnv("NOTIFY_STAFF_EMAIL_DOMAIN", ""),
			NotifyAllAgentsOnNewTicket: getEnvAsBool("NOTIFY_ALL_AGENTS_ON_NEW_TICKET", true),
			NotifyCustomerOnCreate:     getEnvAsBool("NOTIFY_CUSTOMER_ON_CREATE", true),
			NotifyCustomerOnStatus:     getEnvAsBool("NOTIFY_CUSTOMER_ON_STATUS", true),
			NotifyCustomerOnComment:    getEnvAsBool("NOTIFY_CUSTOMER_ON_COMMENT", true),
			NotifyAgentOnAssignment:    getEnvAsBool("NOTIFY_AGENT_ON_ASSIGNMENT", true),
			NotifyAgentOnComment:       getEnvAsBool("NOTIFY_AGENT_ON_COMMENT", true),
		},
		Directory: DirectoryConfig{
			Enabled:     getEnvAsBool("LDAP_ENABLED", false),
			Addr:        getEnv("LDAP_ADDR", "ldap://localhost:389"),
			BindDN:      os.Getenv("LDAP_BIND_DN"),
			BindPass:    os.Getenv("LDAP_BIND_PASSWORD"),
			UserBaseDN:  os.Getenv("LDAP_USER_BASE_DN"),
			AdminGroups: getEnvAsList("LDAP_ADMIN_GROUPS"),
			AgentGroups: getEnvAsList("LDAP_AGENT_GROUPS"),
		},
		SLA: SLAConfig{
			BreachCheckMinutes: getEnvAsInt("SLA_BREACH_CHECK_MINUTES", 15),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// BreachCheckInterval returns the SLA worker tick interval.
func (s SLAConfig) BreachCheckInterval() time.Duration {
	if s.BreachCheckMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(s.BreachCheckMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
