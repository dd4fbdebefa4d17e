package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Name     string
		Env      string
		LogLevel string
	}

	API struct {
		Host string
		Port string
	}

	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// Mollie gateway credentials. An empty Gateway means the per-operation defaults.
	// Location is the zone the gateway reads delivery dates in.
	Mollie struct {
		Username   string
		Password   string
		Originator string
		Gateway    string
		Timeout    time.Duration
		Location   *time.Location
	}

	Scheduler struct {
		Interval     time.Duration
		BatchTimeout time.Duration
		AutoStart    bool
	}

	Worker struct {
		BatchSize         int
		MaxWorkers        int
		PerMessageTimeout time.Duration
	}
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Name = getEnv("APP_NAME", "mollie-sms")
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.LogLevel = getEnv("LOG_LEVEL", "info")

	// API
	cfg.API.Host = getEnv("API_HOST", "0.0.0.0")
	cfg.API.Port = getEnv("API_PORT", "8080")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "db")
	cfg.DB.Port = getInt("DB_PORT", 5432)
	cfg.DB.User = getEnv("DB_USER", "root")
	cfg.DB.Password = getEnv("DB_PASSWORD", "123456")
	cfg.DB.Name = getEnv("DB_NAME", "db_mollie_sms")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "redis:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	// Mollie gateway
	cfg.Mollie.Username = getEnv("MOLLIE_USERNAME", "")
	cfg.Mollie.Password = getEnv("MOLLIE_PASSWORD", "")
	cfg.Mollie.Originator = getEnv("MOLLIE_ORIGINATOR", "")
	cfg.Mollie.Gateway = getEnv("MOLLIE_GATEWAY", "")
	cfg.Mollie.Timeout = getDuration("MOLLIE_TIMEOUT", 10*time.Second)
	cfg.Mollie.Location = getLocation("MOLLIE_TIMEZONE", "Europe/Amsterdam")

	// Scheduler
	cfg.Scheduler.Interval = getDuration("SCHEDULER_INTERVAL", 5*time.Second)
	cfg.Scheduler.BatchTimeout = getDuration("SCHEDULER_BATCH_TIMEOUT", 30*time.Second)
	cfg.Scheduler.AutoStart = getBool("SCHEDULER_AUTOSTART", true)

	// Worker / message processing
	cfg.Worker.BatchSize = getInt("MESSAGE_BATCH_SIZE", 100)
	cfg.Worker.MaxWorkers = getInt("MESSAGE_MAX_WORKERS", 4)
	cfg.Worker.PerMessageTimeout = getDuration("MESSAGE_PER_MESSAGE_TIMEOUT", 5*time.Second)

	return cfg
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return isTruthy(v)
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getLocation(key, def string) *time.Location {
	if loc, err := time.LoadLocation(getEnv(key, def)); err == nil {
		return loc
	}
	loc, err := time.LoadLocation(def)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}
