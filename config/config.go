package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DefaultComplaintDailyLimit caps how many complaints a resident may submit per day
const DefaultComplaintDailyLimit = 10

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	Env          string
	JWTSecret    string

	RedisAddress        string
	RedisPassword       string
	ComplaintDailyLimit int

	CloudinaryURL   string
	SendgridAPIKey  string
	DigestFromEmail string
	DigestCron      string
}

// New sets up all config related services
func New() *Config {
	// a missing .env file is normal outside local development
	_ = godotenv.Load()

	env := os.Getenv("ENV")
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	limit := DefaultComplaintDailyLimit
	if raw := os.Getenv("COMPLAINT_DAILY_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		} else {
			zap.S().Warnw("ignoring invalid COMPLAINT_DAILY_LIMIT", "value", raw)
		}
	}

	digestCron := os.Getenv("DIGEST_CRON")
	if digestCron == "" {
		digestCron = "0 8 * * *"
	}

	return &Config{
		URL:                 os.Getenv("DB_URI"),
		DatabaseName:        os.Getenv("DB_NAME"),
		BaseURL:             os.Getenv("BASE_URL"),
		Port:                os.Getenv("PORT"),
		Env:                 env,
		JWTSecret:           os.Getenv("JWT_SECRET"),
		RedisAddress:        os.Getenv("REDIS_ADDRESS"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		ComplaintDailyLimit: limit,
		CloudinaryURL:       os.Getenv("CLOUDINARY_URL"),
		SendgridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		DigestFromEmail:     os.Getenv("DIGEST_FROM_EMAIL"),
		DigestCron:          digestCron,
	}
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}
