package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config concentra toda a configuração do processo.
type Config struct {
	Port string

	DBHost     string
	DBPort     uint
	DBName     string
	DBSecretID string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CSRFSecret string

	ViaCepBaseURL string

	AllowedOrigins []string
}

// Load lê o .env (quando existe) e monta a Config a partir do ambiente.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("arquivo .env não encontrado, usando variáveis de ambiente")
	}

	dbPort, err := strconv.ParseUint(os.Getenv("DB_PORT"), 10, 32)
	if err != nil {
		dbPort = 5432
	}

	redisDB, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		redisDB = 0
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        uint(dbPort),
		DBName:        getEnv("DB_NAME", "painel"),
		DBSecretID:    os.Getenv("DB_SECRET_ID"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		CSRFSecret:    os.Getenv("CSRF_SECRET"),
		ViaCepBaseURL: getEnv("VIACEP_BASE_URL", "https://viacep.com.br"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
