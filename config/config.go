package config

import (
	"os"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Payment    PaymentConfig
	Booking    BookingConfig
	Firebase   FirebaseConfig
	AMQP       AMQPConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type PaymentConfig struct {
	Provider           string // "paystack" or "stub"
	PaystackSecretKey  string
	PaystackBaseURL    string
	CallbackBaseURL    string
	PlatformFeePercent int64 // platform share of a completed booking, in percent
}

type BookingConfig struct {
	// PendingTTL is how long a companion has to accept before the booking
	// expires.
	PendingTTL    time.Duration
	SweepInterval time.Duration
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

type AMQPConfig struct {
	URL      string // empty disables event publishing
	Exchange string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8080"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "velora:velora@tcp(localhost:3306)/velora?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "velora",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Payment: PaymentConfig{
			Provider:           getenv("PAYMENT_PROVIDER", "stub"),
			PaystackSecretKey:  os.Getenv("PAYSTACK_SECRET_KEY"),
			PaystackBaseURL:    os.Getenv("PAYSTACK_BASE_URL"),
			CallbackBaseURL:    os.Getenv("PAYMENT_CALLBACK_BASE_URL"),
			PlatformFeePercent: 20,
		},
		Booking: BookingConfig{
			PendingTTL:    30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		},
		AMQP: AMQPConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Exchange: getenv("RABBITMQ_EXCHANGE", "velora.bookings"),
		},
	}
}
