package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort           = "8080"
	DefaultTokenExpiryMin = 1440
	DefaultSMTPHost       = "smtp.gmail.com"
	DefaultSMTPPort       = 587
	DefaultStaticDir      = "./static"
)

// DefaultExemptPaths are the endpoints reachable without a bearer token.
var DefaultExemptPaths = []string{
	"/api/auth/login",
	"/api/auth/create",
	"/api/auth/send-otp",
	"/api/auth/verify-otp",
	"/api/auth/forget",
	"/api/auth/reset-password",
	"/docs",
	"/openapi.json",
}

type Config struct {
	Env            string
	Port           string
	DBURL          string
	JWTSecret      string
	TokenExpiryMin int
	SMTPHost       string
	SMTPPort       int
	EmailAddress   string
	EmailPassword  string
	StaticDir      string
	ExemptPaths    []string
}

// Load reads config/.env.dev or config/.env.prod depending on ENV, then lets
// real environment variables take precedence (godotenv never overrides a set
// variable). Missing required keys are fatal.
func Load() *Config {
	env := getEnv("ENV", "development")

	envFile := ".env.dev"
	if env == "production" {
		envFile = ".env.prod"
	}
	if err := godotenv.Load(filepath.Join("config", envFile)); err != nil {
		log.Printf("No %s file found, relying on environment variables", envFile)
	}

	return &Config{
		Env:            env,
		Port:           getEnv("PORT", DefaultPort),
		DBURL:          mustGetEnv("DB_URL"),
		JWTSecret:      mustGetEnv("JWT_SECRET"),
		TokenExpiryMin: getEnvAsInt("TOKEN_EXPIRY", DefaultTokenExpiryMin),
		SMTPHost:       getEnv("EMAIL_HOST", DefaultSMTPHost),
		SMTPPort:       getEnvAsInt("EMAIL_PORT", DefaultSMTPPort),
		EmailAddress:   mustGetEnv("EMAIL_ADDRESS"),
		EmailPassword:  mustGetEnv("EMAIL_PASSWORD"),
		StaticDir:      getEnv("STATIC_DIR", DefaultStaticDir),
		ExemptPaths:    getEnvAsSlice("EXEMPT_PATHS", DefaultExemptPaths),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	parts := strings.Split(valStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
