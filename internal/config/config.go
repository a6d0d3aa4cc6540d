package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store drivers understood by the server
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Upload   UploadConfig
	Admin    AdminConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// StoreConfig selects the document store backing members and admins
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig holds admin token configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// UploadConfig holds the local file area for member attachments
type UploadConfig struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

// AdminConfig holds the bootstrap admin credentials used by cmd/init-admin
type AdminConfig struct {
	Email    string
	Password string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5000"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
			SQLitePath: getEnv("SQLITE_PATH", "assembly.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "legislative_assembly"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "legislative-assembly"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Upload: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", "uploads"),
			URLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
			MaxBytes:  int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5<<20)),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@example.com"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
	}
}

// ClientConfig holds settings for the cmd/assembly terminal client
type ClientConfig struct {
	APIURL    string
	TokenFile string
	Timeout   time.Duration
}

// LoadClient loads client configuration from environment variables
func LoadClient() *ClientConfig {
	tokenFile := getEnv("ASSEMBLY_TOKEN_FILE", "")
	if tokenFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			tokenFile = filepath.Join(dir, "assembly-directory", "token")
		} else {
			tokenFile = ".assembly-token"
		}
	}
	return &ClientConfig{
		APIURL:    getEnv("ASSEMBLY_API_URL", "http://localhost:5000/api"),
		TokenFile: tokenFile,
		Timeout:   getEnvAsDuration("ASSEMBLY_HTTP_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
