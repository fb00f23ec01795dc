package config

import (
	"log"
	"os"
)

type Config struct {
	Port       string
	DBDSN      string
	LogFile    string
	APIBaseURL string // remote commerce API, e.g. http://localhost:8080/api
	GenAPIURL  string // generative-text endpoint
	GenAPIKey  string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "shopfront.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./shopfront.log"
	}
	apiBase := os.Getenv("API_BASE_URL")
	if apiBase == "" {
		apiBase = "http://localhost:8080/api"
	}
	genURL := os.Getenv("GEN_API_URL")
	if genURL == "" {
		genURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-preview-05-20:generateContent"
	}
	genKey := os.Getenv("GEN_API_KEY")

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, APIBaseURL: apiBase, GenAPIURL: genURL, GenAPIKey: genKey}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s API_BASE_URL=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.APIBaseURL)
	return cfg
}
