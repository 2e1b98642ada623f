package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string
	CORSOrigins []string

	DatabaseDriver string
	AuthProvider   string

	FirebaseProject        string
	FirebaseCredentialJSON string
	FirebaseCredentialPath string
	StorageBucket          string

	JWTSecret string
	JWTExpiry int64

	MatchTimezone string
}

const (
	DriverFirestore = "firestore"
	DriverMemory    = "memory"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		CORSOrigins:            getEnvAsList("CORS_ORIGINS", []string{"*"}),
		DatabaseDriver:         getEnv("DATABASE_DRIVER", DriverFirestore),
		AuthProvider:           getEnv("AUTH_PROVIDER", AuthJWT),
		FirebaseProject:        getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseCredentialPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:          getEnv("STORAGE_BUCKET", ""),
		JWTSecret:              getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:              getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		MatchTimezone:          getEnv("MATCH_TIMEZONE", "UTC"),
	}

	if _, err := time.LoadLocation(config.MatchTimezone); err != nil {
		return nil, err
	}

	return config, nil
}

// Location is the zone match dates and times are entered in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.MatchTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiry) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
