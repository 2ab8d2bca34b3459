package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	ServerPort     string
	JWTSecret      string
	MigrationsPath string
	UploadDir      string
	LogFile        string
	SMTPHost       string
	SMTPPort       string
	SMTPFrom       string
	SMTPPassword   string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "taskmanager_user"),
		DBPassword:     getEnv("DB_PASSWORD", "taskmanager_pass"),
		DBName:         getEnv("DB_NAME", "taskmanager_db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		LogFile:        getEnv("LOG_FILE", "logs/taskmanager.log"),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPFrom:       getEnv("SMTP_FROM", "noreply@taskmanager.local"),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
