package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Env       string `yaml:"env"`
	Port      string `yaml:"port"`
	JWTKey    string `yaml:"jwtKey"`
	SaltRound int    `yaml:"saltRound"`

	Database struct {
		// Driver is "postgres" or "sqlite". SQLitePath is used only by sqlite.
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlitePath"`
		Host       string `yaml:"host"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Name       string `yaml:"name"`
		Port       string `yaml:"port"`
		SSLMode    string `yaml:"sslMode"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`

	// Percentages applied by the pricing package. A value of 10 means 10%.
	Pricing struct {
		MarkupPercent         float64 `yaml:"markupPercent"`
		CourseDiscountPercent float64 `yaml:"courseDiscountPercent"`
	} `yaml:"pricing"`

	// LeaderboardCap bounds each quiz ranking. 0 keeps every entry.
	LeaderboardCap int `yaml:"leaderboardCap"`

	// SalesRollupCron is the cron spec of the sales window recompute job.
	SalesRollupCron string `yaml:"salesRollupCron"`

	EmailSender    string `yaml:"emailSender"`
	Password       string `yaml:"smtpPassword"` // SMTP Password
	SendgridAPIKey string `yaml:"sendgridApiKey"`

	SMSApiKey string `yaml:"smsApiKey"`
	SMSApiURL string `yaml:"smsApiUrl"`

	MidtransServerKey  string `yaml:"midtransServerKey"`
	MidtransProduction bool   `yaml:"midtransProduction"`
	// Reward points granted per unit of currency paid through the gateway.
	PointsPerCurrencyUnit float64 `yaml:"pointsPerCurrencyUnit"`

	UploadDir    string `yaml:"uploadDir"`
	OSSEndpoint  string `yaml:"ossEndpoint"`
	OSSAccessKey string `yaml:"ossAccessKey"`
	OSSSecretKey string `yaml:"ossSecretKey"`
	OSSBucket    string `yaml:"ossBucket"`
	OSSPublicURL string `yaml:"ossPublicUrl"`

	RollbarToken string `yaml:"rollbarToken"`
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from an optional YAML file, then
// environment variables (which win), then defaults.
func LoadConfig(path string) *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			log.Printf("Warning: config file %s not loaded: %v", path, err)
		}
	}

	cfg.Env = getEnv("ENV", orDefault(cfg.Env, "DEV"))
	cfg.Port = getEnv("PORT", orDefault(cfg.Port, "3000"))
	cfg.JWTKey = getEnv("JWT_SECRET_KEY", orDefault(cfg.JWTKey, "defaultSecret"))
	cfg.SaltRound = getEnvInt("SALT_ROUND", orDefaultInt(cfg.SaltRound, 10))

	cfg.Database.Driver = getEnv("DB_DRIVER", orDefault(cfg.Database.Driver, "postgres"))
	cfg.Database.SQLitePath = getEnv("DB_SQLITE_PATH", orDefault(cfg.Database.SQLitePath, "eduverse.db"))
	cfg.Database.Host = getEnv("DB_HOST", orDefault(cfg.Database.Host, "localhost"))
	cfg.Database.User = getEnv("DB_USER", orDefault(cfg.Database.User, "postgres"))
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", orDefault(cfg.Database.Name, "eduverse"))
	cfg.Database.Port = getEnv("DB_PORT", orDefault(cfg.Database.Port, "5432"))
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", orDefault(cfg.Database.SSLMode, "disable"))

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.TTL = getEnv("REDIS_TTL", orDefault(cfg.Redis.TTL, "10m"))

	cfg.Pricing.MarkupPercent = getEnvFloat("MARKUP_PERCENT", cfg.Pricing.MarkupPercent)
	cfg.Pricing.CourseDiscountPercent = getEnvFloat("COURSE_DISCOUNT_PERCENT", cfg.Pricing.CourseDiscountPercent)
	cfg.LeaderboardCap = getEnvInt("LEADERBOARD_CAP", cfg.LeaderboardCap)
	cfg.SalesRollupCron = getEnv("SALES_ROLLUP_CRON", orDefault(cfg.SalesRollupCron, "0 2 * * *"))

	cfg.EmailSender = getEnv("EMAIL_SENDER", cfg.EmailSender)
	cfg.Password = getEnv("PASSWORD", cfg.Password)
	cfg.SendgridAPIKey = getEnv("SENDGRID_API_KEY", cfg.SendgridAPIKey)
	cfg.SMSApiKey = getEnv("SMS_API_KEY", cfg.SMSApiKey)
	cfg.SMSApiURL = getEnv("SMS_API_URL", cfg.SMSApiURL)

	cfg.MidtransServerKey = getEnv("MIDTRANS_SERVER_KEY", cfg.MidtransServerKey)
	cfg.MidtransProduction = getEnvBool("MIDTRANS_PRODUCTION", cfg.MidtransProduction)
	cfg.PointsPerCurrencyUnit = getEnvFloat("POINTS_PER_CURRENCY_UNIT", orDefaultFloat(cfg.PointsPerCurrencyUnit, 1))

	cfg.UploadDir = getEnv("UPLOAD_DIR", orDefault(cfg.UploadDir, "./public/uploads"))
	cfg.OSSEndpoint = getEnv("OSS_ENDPOINT", cfg.OSSEndpoint)
	cfg.OSSAccessKey = getEnv("OSS_ACCESS_KEY", cfg.OSSAccessKey)
	cfg.OSSSecretKey = getEnv("OSS_SECRET_KEY", cfg.OSSSecretKey)
	cfg.OSSBucket = getEnv("OSS_BUCKET", cfg.OSSBucket)
	cfg.OSSPublicURL = getEnv("OSS_PUBLIC_URL", cfg.OSSPublicURL)

	cfg.RollbarToken = getEnv("ROLLBAR_TOKEN", cfg.RollbarToken)

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}

	AppConfig = cfg
	return cfg
}

// RedisTTL parses the redis TTL or returns the fallback if empty or invalid.
func (c *Config) RedisTTL(fallback time.Duration) time.Duration {
	if c.Redis.TTL == "" {
		return fallback
	}
	if d, err := time.ParseDuration(c.Redis.TTL); err == nil {
		return d
	}
	return fallback
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
