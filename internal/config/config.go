package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Env         string
	FrontendURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Asset storage
	StorageDriver      string // "local" | "minio"
	UploadsPath        string
	PublicUploadPrefix string
	MaxImagesPerObject int
	MaxUploadMemory    int64

	// MinIO (only when StorageDriver == "minio")
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSSL       bool

	// Translation proxy
	TranslateEndpoint string
	TranslateTimeout  time.Duration
	TranslateCacheTTL time.Duration

	// Upload limits
	UploadMaxPerDay int

	// CORS
	AllowedOrigins []string
}

func New() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "9977"),
		Env:         getEnv("ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "wisata"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "wisata_db"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Asset storage
		StorageDriver:      getEnv("STORAGE_DRIVER", "local"),
		UploadsPath:        getEnv("UPLOADS_PATH", "public/uploads"),
		PublicUploadPrefix: getEnv("PUBLIC_UPLOAD_PREFIX", "/uploads"),
		MaxImagesPerObject: getEnvAsInt("MAX_IMAGES_PER_OBJECT", 5),
		MaxUploadMemory:    int64(getEnvAsInt("MAX_UPLOAD_MEMORY_MB", 32)) << 20,

		// MinIO
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "wisata-uploads"),
		MinioSSL:       getEnv("MINIO_SSL", "false") == "true",

		// Translation proxy
		TranslateEndpoint: getEnv("TRANSLATE_ENDPOINT", "https://translate.googleapis.com/translate_a/single"),
		TranslateTimeout:  getEnvAsDuration("TRANSLATE_TIMEOUT", "5s"),
		TranslateCacheTTL: getEnvAsDuration("TRANSLATE_CACHE_TTL", "24h"),

		// Upload limits
		UploadMaxPerDay: getEnvAsInt("UPLOAD_MAX_PER_DAY", 200),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Hour
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
