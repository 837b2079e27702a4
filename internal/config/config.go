package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	SQLitePath string

	MercadoPagoAccessToken string
	MercadoPagoBaseURL     string
	ProcessorTimeout       time.Duration

	JWTSecret     string
	SessionSecret string

	GoogleClientID     string
	GoogleClientSecret string
	OAuthCallbackURL   string

	FrontendOrigin string

	KafkaBroker string
	KafkaTopic  string
}

func Load() *Config {
	// optional; real deployments set the environment directly
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("PORT", "5000"),
		SQLitePath: getEnv("SQLITE_PATH", "payments.db"),

		MercadoPagoAccessToken: os.Getenv("MERCADO_PAGO_ACCESS_TOKEN"),
		MercadoPagoBaseURL:     getEnv("MERCADO_PAGO_BASE_URL", "https://api.mercadopago.com"),
		ProcessorTimeout:       5 * time.Second,

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		OAuthCallbackURL:   getEnv("OAUTH_CALLBACK_URL", "http://localhost:5000/auth/google/callback"),

		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "payment-events"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
