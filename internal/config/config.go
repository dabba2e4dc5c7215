package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort   string
	JWTSecret string

	// Azure Blob Storage
	BlobAccount   string
	BlobKey       string
	BlobContainer string
}

// Load reads configuration from the environment (.env honored when present).
// JWT_SECRET has no default: the process refuses to start without one.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		JWTSecret:     secret,
		BlobAccount:   os.Getenv("AZURE_BLOB_ACCOUNT"),
		BlobKey:       os.Getenv("AZURE_BLOB_KEY"),
		BlobContainer: os.Getenv("AZURE_BLOB_CONTAINER"),
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}
