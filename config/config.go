// Package config loads process settings and assembles the runtime objects
// every handler factory receives.
package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	auth "github.com/phillip/edubridge-go/auth"
	services "github.com/phillip/edubridge-go/services"
	store "github.com/phillip/edubridge-go/store"
	"github.com/phillip/edubridge-go/store/memstore"
	"github.com/phillip/edubridge-go/store/mongostore"
	utils "github.com/phillip/edubridge-go/utils"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"

	devJWTSecret = "dev-jwt-secret-change-me"
)

// Settings mirrors the environment. A .env file in the working directory is
// read first when present.
type Settings struct {
	Port    string `env:"PORT" envDefault:"5000"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	StoreDriver    string        `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI       string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DBName         string        `env:"MONGODB_DATABASE" envDefault:"edubridge_db"`
	MongoStartWait time.Duration `env:"MONGODB_START_WAIT" envDefault:"30s"`

	JWTSecret       string        `env:"JWT_SECRET_KEY"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRES" envDefault:"24h"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRES" envDefault:"720h"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:1625,http://localhost:5173"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	ZeptoAPIURL string `env:"ZEPTO_API_URL"`
	ZeptoAPIKey string `env:"ZEPTO_API_KEY"`
	EmailFrom   string `env:"EMAIL_FROM"`
}

func (s Settings) Production() bool {
	return s.AppEnv == "production"
}

// LoadSettings reads .env (if any) and parses the environment.
func LoadSettings() (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("load .env: %w", err)
	}
	return ParseSettings()
}

// ParseSettings parses the environment without touching .env.
func ParseSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	switch s.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, s.StoreDriver)
	}
	if s.JWTSecret == "" {
		if s.Production() {
			return errors.New("JWT_SECRET_KEY is required in production")
		}
		log.Println("JWT_SECRET_KEY not set, using development secret")
		s.JWTSecret = devJWTSecret
	}
	if s.AccessTokenTTL <= 0 || s.RefreshTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

// Config is the runtime wiring shared by routes, middleware and handlers.
type Config struct {
	Settings

	Store       store.Store
	Tokens      *auth.TokenIssuer
	Accounts    *services.Accounts
	Donations   *services.DonationLedger
	Mentorships *services.MentorshipFlow
	Mailer      utils.Mailer
	Uploader    utils.Uploader
	Now         func() time.Time
}

// New wires services on top of an opened store.
func New(s Settings, st store.Store) (*Config, error) {
	tokens, err := auth.NewTokenIssuer(s.JWTSecret, s.AccessTokenTTL, s.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	uploader, err := utils.NewUploader(s.CloudinaryCloudName, s.CloudinaryAPIKey, s.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}
	mailer := utils.NewMailer(s.ZeptoAPIURL, s.ZeptoAPIKey, s.EmailFrom)
	now := func() time.Time { return time.Now().UTC() }

	return &Config{
		Settings:    s,
		Store:       st,
		Tokens:      tokens,
		Accounts:    services.NewAccounts(st, tokens, mailer, now),
		Donations:   services.NewDonationLedger(st, mailer, now),
		Mentorships: services.NewMentorshipFlow(st, now),
		Mailer:      mailer,
		Uploader:    uploader,
		Now:         now,
	}, nil
}

// OpenStore connects the configured backend.
func OpenStore(ctx context.Context, s Settings) (store.Store, error) {
	switch s.StoreDriver {
	case DriverMemory:
		log.Println("Using in-memory store; data is lost on exit")
		return memstore.New(), nil
	default:
		return mongostore.Connect(ctx, s.MongoURI, s.DBName, s.MongoStartWait)
	}
}
