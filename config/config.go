package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	DatabaseURL        string
	HTTPAddr           string
	Environment        string
	AppOrigin          string
	AccessTokenSecret  string
	RefreshTokenSecret string
	EmailSender        string
	ResendAPIKey       string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("error load env %s", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPAddr:           os.Getenv("HTTP_ADDR"),
		Environment:        os.Getenv("APP_ENV"),
		AppOrigin:          os.Getenv("APP_ORIGIN"),
		AccessTokenSecret:  os.Getenv("JWT_SECRET"),
		RefreshTokenSecret: os.Getenv("JWT_REFRESH_SECRET"),
		EmailSender:        os.Getenv("EMAIL_SENDER"),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Environment == "" {
		cfg.Environment = EnvDevelopment
	}

	for key, value := range map[string]string{
		"DATABASE_URL":       cfg.DatabaseURL,
		"APP_ORIGIN":         cfg.AppOrigin,
		"JWT_SECRET":         cfg.AccessTokenSecret,
		"JWT_REFRESH_SECRET": cfg.RefreshTokenSecret,
	} {
		if value == "" {
			return nil, fmt.Errorf("missing environment variable %s", key)
		}
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}
