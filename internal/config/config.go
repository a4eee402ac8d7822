package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Matcher  MatcherConfig
	Identity IdentityConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ActivityLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	BotAPIToken        string
	StoreTimeout       time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type CatalogConfig struct {
	MallsFile   string
	AliasesFile string
}

type MatcherConfig struct {
	AliasThreshold int
	StoreThreshold int
	Candidates     int
}

type IdentityConfig struct {
	MapSecret string
	KeyFile   string
	MapFile   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/technical.log"),
			ActivityLogPath:    getEnv("USER_ACTIVITY_LOG_FILE", "logs/users_activity.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			BotAPIToken:        getEnv("API_TOKEN", ""),
			StoreTimeout:       getEnvAsDuration("STORE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Catalog: CatalogConfig{
			MallsFile:   getEnv("MALLS_FILE", "malls.json"),
			AliasesFile: getEnv("ALIASES_FILE", "aliases.json"),
		},
		Matcher: MatcherConfig{
			AliasThreshold: getEnvAsInt("MATCH_ALIAS_THRESHOLD", 70),
			StoreThreshold: getEnvAsInt("MATCH_STORE_THRESHOLD", 80),
			Candidates:     getEnvAsInt("MATCH_CANDIDATES", 5),
		},
		Identity: IdentityConfig{
			MapSecret: getEnv("USER_MAP_SECRET", ""),
			KeyFile:   getEnv("USER_MAP_KEY_FILE", "user_map.key"),
			MapFile:   getEnv("USER_MAP_FILE", "user_map.enc"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
