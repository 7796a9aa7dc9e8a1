package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Stores    StoreConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Payment   PaymentConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string // mysql | postgres
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool
}

type RedisConfig struct {
	URL string
}

// StoreConfig picks the backend for schedules and waitlist entries: "sql" or "redis".
type StoreConfig struct {
	Schedule string
	Waitlist string
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

// AdminConfig seeds the first staff account on startup when both fields are set.
type AdminConfig struct {
	Email    string
	Password string
}

type PaymentConfig struct {
	DefaultGateway string
	Currency       string
}

type WorkerConfig struct {
	GenerateCron  string
	ReminderCron  string
	LookaheadDays int
	LockTTL       time.Duration
}

type RateLimitConfig struct {
	PerMinute int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env: %v", err)
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "mysql"),
			DSN:             getEnv("DATABASE_DSN", "hostelhub:hostelhub@tcp(localhost:3306)/hostelhub?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
			LogSQL:          getEnv("APP_ENV", "development") == "development",
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Stores: StoreConfig{
			Schedule: getEnv("SCHEDULE_STORE", "sql"),
			Waitlist: getEnv("WAITLIST_STORE", "sql"),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			AccessExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			Issuer:       getEnv("JWT_ISSUER", "hostelhub"),
		},
		Admin: AdminConfig{
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Payment: PaymentConfig{
			DefaultGateway: getEnv("PAYMENT_DEFAULT_GATEWAY", "razorpay"),
			Currency:       getEnv("PAYMENT_CURRENCY", "INR"),
		},
		Worker: WorkerConfig{
			GenerateCron:  getEnv("WORKER_GENERATE_CRON", "0 2 * * *"),
			ReminderCron:  getEnv("WORKER_REMINDER_CRON", "0 9 * * *"),
			LookaheadDays: getEnvInt("WORKER_LOOKAHEAD_DAYS", 7),
			LockTTL:       getEnvDuration("WORKER_LOCK_TTL", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}
