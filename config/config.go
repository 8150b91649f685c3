package config

import (
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting, populated from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"5000"`
	MongoURI string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DBName   string `env:"DB_NAME" envDefault:"weroambags"`

	JWTSecret   string `env:"ACCESS_TOKEN"`
	JWTExpiryHr int    `env:"EXPIRES_IN_HOURS" envDefault:"24"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"public"`

	AssetHostURL    string `env:"ASSET_HOST_URL" envDefault:"https://api.cloudinary.com/v1_1/weroambags"`
	AssetHostKey    string `env:"ASSET_HOST_KEY"`
	AssetHostSecret string `env:"ASSET_HOST_SECRET"`

	GatewayURL    string `env:"PAYMENT_GATEWAY_URL" envDefault:"https://api.razorpay.com/v1"`
	GatewayKeyID  string `env:"PAYMENT_KEY_ID"`
	GatewaySecret string `env:"PAYMENT_KEY_SECRET"`
	CallbackURL   string `env:"PAYMENT_CALLBACK_URL" envDefault:"https://weroambags.vercel.app/success"`

	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	FacebookClientID     string `env:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `env:"FACEBOOK_CLIENT_SECRET"`
	OAuthRedirectBase    string `env:"OAUTH_REDIRECT_BASE" envDefault:"http://localhost:5000"`
	FrontendURL          string `env:"FRONTEND_URL" envDefault:"https://weroambags.vercel.app"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	LogFormat   string   `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadEnv loads environment variables from a .env file
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Error loading .env file")
	}
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetEnv retrieves environment variables with a fallback
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
