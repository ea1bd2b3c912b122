package Constants

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Runtime configuration, loaded once at startup from the environment
// (optionally seeded from a .env file).
var (
	ListenAddress string

	RepairsFile string
	UploadsDir  string

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string

	WhatsappGoService string
	WhatsappRecipient string

	SMTPServer    string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	SMTPFromName  string
	SMTPTLS       bool
	AlertEmail    string

	ReminderAfterDays int
)

func Load() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	ListenAddress = getEnv("LISTEN_ADDRESS", ":3001")

	RepairsFile = getEnv("REPAIRS_FILE", "repairs.json")
	UploadsDir = getEnv("UPLOADS_DIR", "uploads")

	AdminUsername = getEnv("ADMIN_USERNAME", "")
	AdminPassword = os.Getenv("ADMIN_PASSWORD")
	AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	JWTSecret = getEnv("JWT_SECRET", "fixit-secret-key")

	WhatsappGoService = os.Getenv("WHATSAPP_GO_SERVICE")
	WhatsappRecipient = os.Getenv("WHATSAPP_RECIPIENT")

	SMTPServer = os.Getenv("SMTP_SERVER")
	SMTPPort = getEnvInt("SMTP_PORT", 587)
	SMTPUsername = os.Getenv("SMTP_USERNAME")
	SMTPPassword = os.Getenv("SMTP_PASSWORD")
	SMTPFromEmail = os.Getenv("SMTP_FROM_EMAIL")
	SMTPFromName = getEnv("SMTP_FROM_NAME", "Fixit Repairs")
	SMTPTLS = getEnvBool("SMTP_TLS", true)
	AlertEmail = os.Getenv("ALERT_EMAIL")

	ReminderAfterDays = getEnvInt("REMINDER_AFTER_DAYS", 3)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using %t", key, value, fallback)
		return fallback
	}
	return parsed
}
