package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type GeneralConfig struct {
	Env             string
	LogLevel        string
	Port            int
	ShutdownTimeout time.Duration
	HashBase        string
	HistoryLimit    int
}

// SPAConfig locates the compiled client bundle
type SPAConfig struct {
	StaticPath string
	IndexPath  string
}

// DatabaseConfig configures the optional navigation event store
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	MigrationsPath  string
	EventLogSize    int
}

type appConfig struct {
	GeneralConfig  GeneralConfig
	SPAConfig      SPAConfig
	DatabaseConfig DatabaseConfig
}

// LoadConfigs loads the configurations from the environment variables
func LoadConfigs() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env files: %v", err)
	}

	loadGeneralConfigs()
	loadSPAConfigs()
	loadDatabaseConfigs()
}

var AppConfigInstance appConfig

// loadGeneralConfigs loads the general configurations from the environment variables
func loadGeneralConfigs() {
	AppConfigInstance.GeneralConfig.Env = getEnv("APP_ENV", "dev")
	AppConfigInstance.GeneralConfig.LogLevel = getEnv("LOG_LEVEL", "info")
	AppConfigInstance.GeneralConfig.Port = getEnvInt("PORT", 8888)
	AppConfigInstance.GeneralConfig.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	AppConfigInstance.GeneralConfig.HashBase = getEnv("HASH_BASE", "")
	AppConfigInstance.GeneralConfig.HistoryLimit = getEnvInt("HISTORY_MAX_ENTRIES", 50)
}

func loadSPAConfigs() {
	staticPath := getEnv("SPA_STATIC_PATH", filepath.Join("client", "dist"))
	AppConfigInstance.SPAConfig.StaticPath = staticPath
	AppConfigInstance.SPAConfig.IndexPath = getEnv("SPA_INDEX_PATH", filepath.Join(staticPath, "index.html"))
}

func loadDatabaseConfigs() {
	AppConfigInstance.DatabaseConfig = DatabaseConfig{
		Enabled:         getEnvBool("DB_ENABLED", false),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "hashroute"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 30),
		ConnMaxIdleTime: getEnvInt("DB_CONN_MAX_IDLE_TIME", 5),
		MigrationsPath:  getEnv("DB_MIGRATIONS_PATH", "migrations"),
		EventLogSize:    getEnvInt("EVENT_LOG_SIZE", 1000),
	}
}

// getEnv returns the environment variable value if it exists, otherwise returns the fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns the environment variable value as int if it exists, otherwise returns the fallback value
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
