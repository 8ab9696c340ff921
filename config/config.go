package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. It is built once in main
// and passed down explicitly; there is no package-level instance.
type Config struct {
	Env string

	// DBDriver selects the relational store: "mysql" or "sqlite".
	DBDriver string

	// sqlite
	DBPath string

	// mysql
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	DBMaxOpenConns        int
	DBMaxIdleConns        int
	DBConnMaxLifetimeSecs int
	DBConnMaxIdleTimeSecs int

	LogLevel string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	godotenv.Load()

	cwd, _ := os.Getwd()
	return &Config{
		Env:        stringFromEnv("APP_ENV", "development"),
		DBDriver:   strings.ToLower(stringFromEnv("DB_DRIVER", "sqlite")),
		DBPath:     stringFromEnv("DATABASE_FILE", filepath.Join(cwd, "cashlink.db")),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     stringFromEnv("DB_PORT", "3306"),
		DBName:     os.Getenv("DB_NAME"),

		DBMaxOpenConns:        intFromEnv("DB_MAX_OPEN_CONNS", 50),
		DBMaxIdleConns:        intFromEnv("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeSecs: intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300),
		DBConnMaxIdleTimeSecs: intFromEnv("DB_CONN_MAX_IDLE_TIME_SECONDS", 60),

		LogLevel: stringFromEnv("LOG_LEVEL", "error"),
	}
}

func stringFromEnv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
