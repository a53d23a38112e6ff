// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Auth      AuthConfig
	Inventory InventoryConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL           string
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConcurrent int64
}

// DSN returns the connection string, preferring DATABASE_URL when set.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// DashboardTTL is the lifetime of a cached dashboard view.
func (c CacheConfig) DashboardTTL() time.Duration {
	return time.Duration(c.DashboardTTLSeconds) * time.Second
}

type AuthConfig struct {
	JWTSecret string
	Disabled  bool
	// DevUserID is the identity used when auth is disabled.
	DevUserID string
}

type InventoryConfig struct {
	TargetCapacity    float64
	Tolerance         float64
	ActivityLimit     int
	HistoryWindowDays int
}

type LogConfig struct {
	Level string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DATABASE_URL", "")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "foodbank")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("DB_MAX_CONCURRENT_TX", 10)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("AUTH_JWT_SECRET", "")
		viper.SetDefault("AUTH_DISABLED", false)
		viper.SetDefault("AUTH_DEV_USER_ID", "local")
		viper.SetDefault("INVENTORY_TARGET_CAPACITY", 900000)
		viper.SetDefault("INVENTORY_TOLERANCE", 2)
		viper.SetDefault("INVENTORY_ACTIVITY_LIMIT", 50)
		viper.SetDefault("INVENTORY_HISTORY_WINDOW_DAYS", 30)
		viper.SetDefault("LOG_LEVEL", "info")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				URL:           viper.GetString("DATABASE_URL"),
				Host:          viper.GetString("DB_HOST"),
				Port:          viper.GetString("DB_PORT"),
				User:          viper.GetString("DB_USER"),
				Password:      viper.GetString("DB_PASSWORD"),
				DBName:        viper.GetString("DB_NAME"),
				SSLMode:       viper.GetString("DB_SSLMODE"),
				MaxConcurrent: viper.GetInt64("DB_MAX_CONCURRENT_TX"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			Auth: AuthConfig{
				JWTSecret: viper.GetString("AUTH_JWT_SECRET"),
				Disabled:  viper.GetBool("AUTH_DISABLED"),
				DevUserID: viper.GetString("AUTH_DEV_USER_ID"),
			},
			Inventory: InventoryConfig{
				TargetCapacity:    viper.GetFloat64("INVENTORY_TARGET_CAPACITY"),
				Tolerance:         viper.GetFloat64("INVENTORY_TOLERANCE"),
				ActivityLimit:     viper.GetInt("INVENTORY_ACTIVITY_LIMIT"),
				HistoryWindowDays: viper.GetInt("INVENTORY_HISTORY_WINDOW_DAYS"),
			},
			Log: LogConfig{
				Level: viper.GetString("LOG_LEVEL"),
			},
		}
	})

	return instance
}
