package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database (optional, runtime config overrides)
	DatabaseURL    string
	MigrateOnStart bool

	// Redis (optional, event mirror and ops commands)
	RedisURL             string
	RedisEventsChannel   string
	RedisCommandsChannel string
	RedisStateKey        string

	// Server
	Port        string
	FrontendURL string
	StaticDir   string

	// Room
	AdminName       string
	TickRate        int
	BotRate         int
	WindEnabled     bool
	WindMagnitude   float64
	WindFlipChance  float64
	MaxWindVelocity float64

	// WebSocket
	SendBufferSize int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisEventsChannel:   getEnv("REDIS_EVENTS_CHANNEL", "pong:events"),
		RedisCommandsChannel: getEnv("REDIS_COMMANDS_CHANNEL", "pong:commands"),
		RedisStateKey:        getEnv("REDIS_STATE_KEY", "pong:room:state"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		StaticDir:   getEnv("STATIC_DIR", "web"),

		// Room
		AdminName:       getEnv("ADMIN_NAME", ""),
		TickRate:        getEnvInt("TICK_RATE", 60),
		BotRate:         getEnvInt("BOT_RATE", 30),
		WindEnabled:     getEnvBool("WIND_ENABLED", false),
		WindMagnitude:   getEnvFloat("WIND_MAGNITUDE", 0.05),
		WindFlipChance:  getEnvFloat("WIND_FLIP_CHANCE", 0.2),
		MaxWindVelocity: getEnvFloat("MAX_WIND_VELOCITY", 3.0),

		// WebSocket
		SendBufferSize: getEnvInt("WS_SEND_BUFFER", 256),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
