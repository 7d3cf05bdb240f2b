package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	// StoreDriver is "postgres" or "memory".
	StoreDriver string

	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	MigrationsDir string

	JWTSecret string
	JWTExpiry time.Duration

	RedisURL        string
	RedisAddr       string
	RedisPassword   string
	ProductCacheTTL time.Duration

	SentimentModelPath string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	OriginURL string

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

var AppConfig *Config

func LoadConfig() *Config {
	envErr := godotenv.Load()

	maxConns, _ := strconv.Atoi(os.Getenv("DB_MAX_CONNS"))
	if maxConns <= 0 {
		maxConns = 25
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	AppConfig = &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("APP_PORT", getEnv("PORT", "8082")),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver: getEnv("STORE_DRIVER", "postgres"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "shop"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(maxConns),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "database/migration"),

		JWTSecret: getEnv("JWT_SECRET", "secret"),
		JWTExpiry: getDuration("JWT_EXPIRY", 24*time.Hour),

		RedisURL:        os.Getenv("REDIS_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		ProductCacheTTL: getDuration("PRODUCT_CACHE_TTL", 5*time.Minute),

		SentimentModelPath: getEnv("SENTIMENT_MODEL_PATH", "ml/sentiment.json"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: smtpPort,
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		OriginURL: os.Getenv("ORIGIN_URL"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	InitLogger(AppConfig.AppEnv, AppConfig.LogLevel)

	if envErr != nil {
		zap.L().Warn(".env file not found, using system environment variables")
	}
	zap.L().Info("configuration loaded",
		zap.String("env", AppConfig.AppEnv),
		zap.String("port", AppConfig.Port),
		zap.String("store", AppConfig.StoreDriver),
	)

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
