package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RESTconfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type MongoConfig struct {
	URI      string
	Database string
}

type DBconfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Store string // redis or memory
	TTL   time.Duration
}

type CacheConfig struct {
	ListingTTL time.Duration
}

type RabbitMQConfig struct {
	Enabled              bool
	URL                  string
	RecordEventsExchange string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
}

type S3Config struct {
	Bucket string
	Region string
}

type MediaConfig struct {
	Backend           string // cloudinary or s3
	UploadBatchPolicy string
	UploadParallelism int
	Cloudinary        CloudinaryConfig
	S3                S3Config
}

type ApiClientConfig struct {
	PersistenceAPIURL string
	Timeout           time.Duration
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	CookieName     string
	CookieSecure   bool
	AdminEmail     string
	AdminPassword  string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig holds the whole service configuration.
type AppConfig struct {
	AppName      string
	Rest         RESTconfig
	Mongo        MongoConfig
	Database     DBconfig
	Redis        RedisConfig
	Session      SessionConfig
	Cache        CacheConfig
	RabbitMQ     RabbitMQConfig
	Media        MediaConfig
	ApiClient    ApiClientConfig
	Auth         AuthConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig reads the configuration from the environment. A missing .env
// file is not an error; variables may come from the process environment.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "admin-service")

	cfg.Rest.Port = getEnvAsString("PORT", "8080")
	cfg.Rest.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})

	cfg.Mongo.URI = os.Getenv("MONGODB_URI")
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is required")
	}
	cfg.Mongo.Database = getEnvAsString("MONGODB_DATABASE", "nahdat")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.Redis.Addr = getEnvAsString("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvAsString("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	cfg.Session.Store = strings.ToLower(getEnvAsString("SESSION_STORE", "redis"))
	if cfg.Session.Store != "redis" && cfg.Session.Store != "memory" {
		return nil, fmt.Errorf("SESSION_STORE must be redis or memory, got %q", cfg.Session.Store)
	}
	cfg.Session.TTL = getEnvAsDuration("SESSION_TTL", 2*time.Hour)
	cfg.Cache.ListingTTL = getEnvAsDuration("LISTING_CACHE_TTL", 5*time.Minute)

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
		cfg.RabbitMQ.RecordEventsExchange = getEnvAsString("RECORD_EVENTS_EXCHANGE", "record_events")
	}

	cfg.Media.Backend = strings.ToLower(getEnvAsString("MEDIA_BACKEND", "cloudinary"))
	cfg.Media.UploadBatchPolicy = getEnvAsString("UPLOAD_BATCH_POLICY", "all")
	cfg.Media.UploadParallelism = getEnvAsInt("UPLOAD_PARALLELISM", 4)
	switch cfg.Media.Backend {
	case "cloudinary":
		cfg.Media.Cloudinary.CloudName = os.Getenv("CLOUDINARY_CLOUD_NAME")
		cfg.Media.Cloudinary.APIKey = os.Getenv("CLOUDINARY_API_KEY")
		cfg.Media.Cloudinary.APISecret = os.Getenv("CLOUDINARY_API_SECRET")
		cfg.Media.Cloudinary.BaseURL = getEnvAsString("CLOUDINARY_BASE_URL", "")
		if cfg.Media.Cloudinary.CloudName == "" || cfg.Media.Cloudinary.APIKey == "" || cfg.Media.Cloudinary.APISecret == "" {
			return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary backend")
		}
	case "s3":
		cfg.Media.S3.Bucket = os.Getenv("S3_BUCKET")
		if cfg.Media.S3.Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET environment variable is required for the s3 backend")
		}
		cfg.Media.S3.Region = getEnvAsString("AWS_REGION", "me-south-1")
	default:
		return nil, fmt.Errorf("MEDIA_BACKEND must be cloudinary or s3, got %q", cfg.Media.Backend)
	}

	cfg.ApiClient.PersistenceAPIURL = getEnvAsString("PERSISTENCE_API_URL", "http://localhost:"+cfg.Rest.Port)
	cfg.ApiClient.Timeout = getEnvAsDuration("PERSISTENCE_API_TIMEOUT", 15*time.Second)

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.Auth.AccessTokenTTL = getEnvAsDuration("ACCESS_TOKEN_TTL", 24*time.Hour)
	cfg.Auth.CookieName = getEnvAsString("AUTH_COOKIE_NAME", "token")
	cfg.Auth.CookieSecure = getEnvAsBool("AUTH_COOKIE_SECURE", true)
	cfg.Auth.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.Auth.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList splits a comma separated value and drops empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
