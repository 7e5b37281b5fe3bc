package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	CORSAllowedOrigins string
	EnableMetrics      bool

	Mpesa MpesaConfig
	SMTP  SMTPConfig
	Store StoreConfig

	// Redis backs the per-phone push throttle; empty URL falls back to memory.
	RedisURL           string
	RedisPassword      string
	RedisDB            int
	PushThrottleWindow time.Duration

	PubNub PubNubConfig

	// Callback behaviour
	RecordCallbackOutcome bool
	ReleaseSeatsOnFailure bool
}

type MpesaConfig struct {
	BaseURL          string
	ConsumerKey      string
	ConsumerSecret   string
	Shortcode        string
	Passkey          string
	CallbackURL      string
	CallbackSecret   string
	AccountReference string
	TransactionDesc  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type StoreConfig struct {
	Driver                string // "postgres" or "mongo"
	PostgresURL           string
	MongoURI              string
	MongoDatabase         string
	TransactionCollection string
	SeatCollection        string
}

type PubNubConfig struct {
	PublishKey   string
	SubscribeKey string
	SecretKey    string
	SeatsChannel string
}

func (p PubNubConfig) Enabled() bool {
	return p.PublishKey != "" && p.SubscribeKey != ""
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}

	emailUser := getEnv("EMAIL_USER", "")

	return &Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		EnableMetrics:      getEnvAsBool("ENABLE_METRICS", true),

		Mpesa: MpesaConfig{
			BaseURL:          getEnv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
			ConsumerKey:      getEnv("CONSUMER_KEY", ""),
			ConsumerSecret:   getEnv("CONSUMER_SECRET", ""),
			Shortcode:        getEnv("MPESA_PAYBILL", ""),
			Passkey:          getEnv("MPESA_PASSKEY", ""),
			CallbackURL:      getEnv("CALLBACK_URL", ""),
			CallbackSecret:   getEnv("CALLBACK_SIGNING_SECRET", ""),
			AccountReference: getEnv("MPESA_ACCOUNT_REFERENCE", "MIRAGE THEATRICS"),
			TransactionDesc:  getEnv("MPESA_TRANSACTION_DESC", "Mirage ticket purchase"),
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("SMTP_PORT", 465),
			Username: emailUser,
			Password: getEnv("EMAIL_PASS", ""),
			From:     getEnv("EMAIL_FROM", emailUser),
		},

		Store: StoreConfig{
			Driver:                getEnv("STORE_DRIVER", "postgres"),
			PostgresURL:           getEnv("POSTGRES_URL", ""),
			MongoURI:              getEnv("MONGODB_URI", ""),
			MongoDatabase:         getEnv("MONGO_DATABASE", "Mirage"),
			TransactionCollection: getEnv("MONGO_TRANSACTIONS_COLLECTION", "MirageCollection"),
			SeatCollection:        getEnv("MONGO_SEATS_COLLECTION", "seats"),
		},

		RedisURL:           getEnv("REDIS_URL", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		PushThrottleWindow: getEnvAsDuration("PUSH_THROTTLE_WINDOW", "30s"),

		PubNub: PubNubConfig{
			PublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
			SubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
			SecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
			SeatsChannel: getEnv("PUBNUB_SEATS_CHANNEL", "seats"),
		},

		RecordCallbackOutcome: getEnvAsBool("RECORD_CALLBACK_OUTCOME", true),
		ReleaseSeatsOnFailure: getEnvAsBool("RELEASE_SEATS_ON_FAILURE", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
