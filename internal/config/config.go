package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	RedisAddr  string
	CORSOrigin string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists

	cfg := Config{
		Port:       getenv("PORT", "5000"),
		MongoURI:   getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getenv("MONGO_DB", "cbcshop"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		CORSOrigin: getenv("CORS_ORIGIN", "http://localhost:5173"),
		SMTPHost:   getenv("SMTP_HOST", "localhost"),
		SMTPPort:   getenv("SMTP_PORT", "587"),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		MailFrom:   getenv("MAIL_FROM", "no-reply@cbcshop.local"),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("[config] JWT_SECRET is not defined")
	}

	log.Printf("[config] PORT=%s", cfg.Port)
	log.Printf("[config] MONGO_DB=%s", cfg.MongoDB)
	if cfg.RedisAddr != "" {
		log.Printf("[config] REDIS_ADDR=%s", cfg.RedisAddr)
	}
	log.Printf("[config] CORS_ORIGIN=%s", cfg.CORSOrigin)
	return cfg
}
