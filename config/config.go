package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	PortalBaseURL string // Supplier portal base URL, token is appended

	ReminderWindowHours  int    // Reminder is sent when a quotation is this close to its due date
	SweepIntervalMinutes int    // Deadline monitor sweep interval
	CorrectionLookup     string // "nearest_prior" or "interpolate"
	IndexSyncCron        string // Cron spec for the external index sync, empty disables it
}

// Correction lookup modes
const (
	LookupNearestPrior = "nearest_prior"
	LookupInterpolate  = "interpolate"
)

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBName:    getEnv("DB_NAME", "cestas_publicas"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@santateresa.es.gov.br"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Sistema de Cestas de Preços"),

		PortalBaseURL: getEnv("PORTAL_BASE_URL", "http://localhost:5173/quotation"),

		ReminderWindowHours:  getEnvInt("REMINDER_WINDOW_HOURS", 48),
		SweepIntervalMinutes: getEnvInt("SWEEP_INTERVAL_MINUTES", 5),
		CorrectionLookup:     getEnv("CORRECTION_LOOKUP", LookupNearestPrior),
		IndexSyncCron:        getEnv("INDEX_SYNC_CRON", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendGridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Emails will fail to send.")
	}
	if AppConfig.CorrectionLookup != LookupNearestPrior && AppConfig.CorrectionLookup != LookupInterpolate {
		log.Printf("Warning: invalid CORRECTION_LOOKUP %q, falling back to %s", AppConfig.CorrectionLookup, LookupNearestPrior)
		AppConfig.CorrectionLookup = LookupNearestPrior
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
