package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-api/errs"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	s := strings.TrimSpace(GetString(config, key, ""))
	if s == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return b
}

// GetStrings splits a comma separated value, dropping empty entries
func GetStrings(config map[string]string, key string, defaultValue []string) []string {
	s := GetString(config, key, "")
	if s == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is the typed view of the environment used at startup
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	AcceptedOrigins []string
	AdminJWTSecret  string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP
	TrustProxy bool

	ContactRateLimit  int
	ContactRateWindow time.Duration

	Database DatabaseConfig
	Email    EmailConfig
	SMS      SMSConfig
	Owner    OwnerConfig

	SSMPrefix string
}

type DatabaseConfig struct {
	Type       string // postgres | sqlite
	DSN        string
	ReplicaDSN string
	SQLitePath string
}

type EmailConfig struct {
	Provider     string // smtp | resend | none
	Host         string
	Port         int
	User         string
	Password     string
	From         string
	ContactEmail string
	ResendAPIKey string
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string
}

// Enabled reports whether every Twilio credential is present
func (s SMSConfig) Enabled() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != "" && s.ToNumber != ""
}

type OwnerConfig struct {
	Name        string
	GithubURL   string
	LinkedInURL string
}

// IsProduction controls error-detail verbosity in responses
func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load builds a Config from an environment map
func Load(env map[string]string) (Config, error) {
	cfg := Config{
		Port:              GetString(env, "PORT", "8080"),
		Environment:       strings.ToLower(GetString(env, "APP_ENV", GetString(env, "NODE_ENV", EnvDevelopment))),
		LogLevel:          GetString(env, "LOG_LEVEL", "info"),
		ReadTimeout:       time.Duration(GetInt(env, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout:      time.Duration(GetInt(env, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:       time.Duration(GetInt(env, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
		AcceptedOrigins:   GetStrings(env, "ACCEPTED_ORIGINS", []string{"http://localhost:3000"}),
		AdminJWTSecret:    GetString(env, "ADMIN_JWT_SECRET", ""),
		TrustProxy:        GetBool(env, "TRUST_PROXY", false),
		ContactRateLimit:  GetInt(env, "CONTACT_RATE_LIMIT", 5),
		ContactRateWindow: time.Duration(GetInt(env, "CONTACT_RATE_WINDOW_MINUTES", 15)) * time.Minute,
		SSMPrefix:         GetString(env, "AWS_SSM_PREFIX", ""),
	}

	cfg.Database = DatabaseConfig{
		Type:       strings.ToLower(GetString(env, "DB_TYPE", "postgres")),
		DSN:        GetString(env, "DATABASE_URL", ""),
		ReplicaDSN: GetString(env, "DATABASE_REPLICA_URL", ""),
		SQLitePath: GetString(env, "SQLITE_PATH", "portfolio.db"),
	}
	if cfg.Database.Type == "postgres" && cfg.Database.DSN == "" {
		cfg.Database.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			GetString(env, "DB_HOST", "localhost"),
			GetString(env, "DB_USER", "postgres"),
			GetString(env, "DB_PASSWORD", ""),
			GetString(env, "DB_NAME", "portfolio"),
			GetString(env, "DB_PORT", "5432"),
			GetString(env, "DB_SSLMODE", "disable"),
		)
	}

	user := GetString(env, "EMAIL_USER", "")
	cfg.Email = EmailConfig{
		Provider:     strings.ToLower(GetString(env, "EMAIL_PROVIDER", "smtp")),
		Host:         GetString(env, "EMAIL_HOST", "smtp.gmail.com"),
		Port:         GetInt(env, "EMAIL_PORT", 587),
		User:         user,
		Password:     GetString(env, "EMAIL_PASS", ""),
		From:         GetString(env, "EMAIL_FROM", user),
		ContactEmail: GetString(env, "CONTACT_EMAIL", user),
		ResendAPIKey: GetString(env, "RESEND_API_KEY", ""),
	}

	cfg.SMS = SMSConfig{
		AccountSID: GetString(env, "TWILIO_ACCOUNT_SID", ""),
		AuthToken:  GetString(env, "TWILIO_AUTH_TOKEN", ""),
		FromNumber: GetString(env, "TWILIO_FROM_NUMBER", ""),
		ToNumber:   GetString(env, "TWILIO_TO_NUMBER", ""),
	}

	cfg.Owner = OwnerConfig{
		Name:        GetString(env, "OWNER_NAME", "Portfolio Owner"),
		GithubURL:   GetString(env, "OWNER_GITHUB_URL", ""),
		LinkedInURL: GetString(env, "OWNER_LINKEDIN_URL", ""),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Database.Type {
	case "postgres", "sqlite":
	default:
		return errs.NewConfigError("DB_TYPE", fmt.Errorf("unsupported value %q", c.Database.Type))
	}
	switch c.Email.Provider {
	case "smtp", "resend", "none":
	default:
		return errs.NewConfigError("EMAIL_PROVIDER", fmt.Errorf("unsupported value %q", c.Email.Provider))
	}
	if c.Email.Provider == "resend" && c.Email.ResendAPIKey == "" {
		return errs.NewEnvironmentVariableError("RESEND_API_KEY")
	}
	if c.IsProduction() && c.AdminJWTSecret == "" {
		return errs.NewEnvironmentVariableError("ADMIN_JWT_SECRET")
	}
	if c.ContactRateLimit < 1 {
		return errs.NewConfigError("CONTACT_RATE_LIMIT", fmt.Errorf("must be positive, got %d", c.ContactRateLimit))
	}
	return nil
}
