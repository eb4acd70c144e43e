package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	OnboardingToken       = "token"
	OnboardingCredentials = "credentials"
)

type Config struct {
	Env                string
	ServerAddr         string
	MongoURI           string
	MongoDB            string
	MongoTransactions  bool
	FrontendOrigins    []string
	FrontendBaseURL    string
	RedisURL           string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	CacheTTLSeconds    int
	JWTSecret          string
	AccessTTLMinutes   int
	SetupTokenTTL      time.Duration
	OnboardingMode     string
	BrevoAPIKey        string
	BrevoSenderEmail   string
	BrevoSenderName    string
	BrevoSandbox       bool
	SMTPHost           string
	SMTPPort           int
	SMTPMail           string
	SMTPPassword       string
	MailQueueSize      int
	MailWorkers        int
	RateLimitAuth      int
	RateLimitWindowSec int
	Timezone           *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TZ", "Asia/Kolkata"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017/eashaop")
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "eashaop"
	}

	mode := strings.ToLower(strings.TrimSpace(getEnv("DOCTOR_ONBOARDING_MODE", OnboardingToken)))
	if mode != OnboardingCredentials {
		mode = OnboardingToken
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		ServerAddr:         getEnv("SERVER_ADDR", ":9000"),
		MongoURI:           mongoURI,
		MongoDB:            mongoDB,
		MongoTransactions:  getEnvBool("MONGO_TRANSACTIONS", false),
		FrontendOrigins:    splitList(getEnv("FRONTEND_ORIGINS", "http://localhost:5173")),
		FrontendBaseURL:    strings.TrimRight(getEnv("FRONTEND_BASE_URL", "http://localhost:5173"), "/"),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:    getEnvInt("CACHE_TTL_SECONDS", 60),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:   getEnvInt("ACCESS_TTL_MINUTES", 1440),
		SetupTokenTTL:      time.Duration(getEnvInt("SETUP_TOKEN_TTL_HOURS", 168)) * time.Hour,
		OnboardingMode:     mode,
		BrevoAPIKey:        getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail:   getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:    getEnv("BREVO_SENDER_NAME", ""),
		BrevoSandbox:       getEnvBool("BREVO_SANDBOX", false),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPMail:           getEnv("SMTP_MAIL", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		MailQueueSize:      getEnvInt("MAIL_QUEUE_SIZE", 100),
		MailWorkers:        getEnvInt("MAIL_WORKERS", 2),
		RateLimitAuth:      getEnvInt("RATE_LIMIT_AUTH", 10),
		RateLimitWindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		Timezone:           loc,
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	// mongodb URIs sometimes include extra path segments; we only support the first one as db name.
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
