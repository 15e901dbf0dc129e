package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	JWTTTL    time.Duration
	SaltRound int
	LogMode   string

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	ContentStoreURL     string
	ContentStoreTimeout time.Duration
	ContentStoreRetries int

	ProgressSweepSpec string // cron spec for the enrollment progress sweep
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromViper(newViper())

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("PORT", "3000")
	v.SetDefault("JWT_SECRET_KEY", "defaultSecret")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("SALT_ROUND", 10)
	v.SetDefault("LOG_MODE", "dev")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "trainr")
	v.SetDefault("DB_PORT", "5432")

	v.SetDefault("CONTENT_STORE_URL", "http://localhost:3000")
	v.SetDefault("CONTENT_STORE_TIMEOUT", 10*time.Second)
	v.SetDefault("CONTENT_STORE_RETRIES", 1)

	v.SetDefault("PROGRESS_SWEEP_SPEC", "@every 15m")

	v.AutomaticEnv()
	return v
}

// FromViper builds a Config out of an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:      v.GetString("PORT"),
		JWTKey:    v.GetString("JWT_SECRET_KEY"),
		JWTTTL:    v.GetDuration("JWT_TTL"),
		SaltRound: v.GetInt("SALT_ROUND"),
		LogMode:   strings.ToLower(v.GetString("LOG_MODE")),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBPort:     v.GetString("DB_PORT"),

		ContentStoreURL:     strings.TrimRight(v.GetString("CONTENT_STORE_URL"), "/"),
		ContentStoreTimeout: v.GetDuration("CONTENT_STORE_TIMEOUT"),
		ContentStoreRetries: v.GetInt("CONTENT_STORE_RETRIES"),

		ProgressSweepSpec: v.GetString("PROGRESS_SWEEP_SPEC"),
	}
}
