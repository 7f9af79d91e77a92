// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	ContactStoreSQL   = "sql"
	ContactStoreMongo = "mongo"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode            string        `mapstructure:"GIN_MODE"`
	ServerHost         string        `mapstructure:"SERVER_HOST"`
	ServerPort         string        `mapstructure:"SERVER_PORT"`
	ServerTimeout      time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS
	CORSAllowedOrigins []string      `mapstructure:"-"` // CORS_ALLOWED_ORIGINS

	// Database Configuration
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"` // DB_CONN_MAX_LIFETIME_MINUTES
	DBSource          string        `mapstructure:"DB_SOURCE"`
	DBAutoMigrate     bool          `mapstructure:"DB_AUTO_MIGRATE"`

	// Contact store
	ContactStore           string `mapstructure:"CONTACT_STORE"`
	MongoURI               string `mapstructure:"MONGO_URI"`
	MongoDatabase          string `mapstructure:"MONGO_DATABASE"`
	MongoContactCollection string `mapstructure:"MONGO_CONTACT_COLLECTION"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Chain
	ChainRPCURL            string        `mapstructure:"CHAIN_RPC_URL"`
	ChainID                int64         `mapstructure:"CHAIN_ID"`
	AuctionContractAddress string        `mapstructure:"AUCTION_CONTRACT_ADDRESS"`
	OperatorPrivateKey     string        `mapstructure:"OPERATOR_PRIVATE_KEY"`
	NativeSymbol           string        `mapstructure:"NATIVE_SYMBOL"`
	TxWaitTimeout          time.Duration `mapstructure:"-"` // TX_WAIT_TIMEOUT_SECONDS
	WithdrawGasLimit       uint64        `mapstructure:"WITHDRAW_GAS_LIMIT"`
	MinBidIncrement        string        `mapstructure:"MIN_BID_INCREMENT"`

	// Auction snapshot
	AuctionSyncSchedule     string        `mapstructure:"AUCTION_SYNC_SCHEDULE"`
	AuctionCacheTTL         time.Duration `mapstructure:"-"` // AUCTION_CACHE_TTL_SECONDS
	AuctionFetchConcurrency int           `mapstructure:"AUCTION_FETCH_CONCURRENCY"`

	// Elasticsearch Configuration
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`

	// Auth
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	JWTAccessTokenExpiry time.Duration `mapstructure:"-"` // JWT_ACCESS_TOKEN_EXPIRY_MINUTES
	JWTIssuer            string        `mapstructure:"JWT_ISSUER"`
	AdminEmail           string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword        string        `mapstructure:"ADMIN_PASSWORD"`
	AdminUsername        string        `mapstructure:"ADMIN_USERNAME"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_DRIVER", DBDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "arta_auction_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("CONTACT_STORE", ContactStoreSQL)
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "contactDB")
	v.SetDefault("MONGO_CONTACT_COLLECTION", "contacts")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("CHAIN_RPC_URL", "https://api.avax-test.network/ext/bc/C/rpc")
	v.SetDefault("CHAIN_ID", 43113) // Fuji
	v.SetDefault("AUCTION_CONTRACT_ADDRESS", "")
	v.SetDefault("OPERATOR_PRIVATE_KEY", "")
	v.SetDefault("NATIVE_SYMBOL", "AVAX")
	v.SetDefault("TX_WAIT_TIMEOUT_SECONDS", 120)
	v.SetDefault("WITHDRAW_GAS_LIMIT", 100000)
	v.SetDefault("MIN_BID_INCREMENT", "0.0001")

	v.SetDefault("AUCTION_SYNC_SCHEDULE", "@every 15s")
	v.SetDefault("AUCTION_CACHE_TTL_SECONDS", 60)
	v.SetDefault("AUCTION_FETCH_CONCURRENCY", 4)

	v.SetDefault("ELASTICSEARCH_URL", "")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 60)
	v.SetDefault("JWT_ISSUER", "arta-auction")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_USERNAME", "admin")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Durations and lists are configured as plain integers/strings and converted here.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.TxWaitTimeout = time.Duration(v.GetInt("TX_WAIT_TIMEOUT_SECONDS")) * time.Second
	cfg.AuctionCacheTTL = time.Duration(v.GetInt("AUCTION_CACHE_TTL_SECONDS")) * time.Second
	cfg.JWTAccessTokenExpiry = time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES")) * time.Minute
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	if strings.TrimSpace(cfg.DBSource) == "" {
		cfg.DBSource = cfg.PostgresDSN()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PostgresDSN builds the GORM DSN from the individual DB_* settings.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}

// Validate checks the settings the application cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("FATAL: JWT_SECRET is not set")
	}
	switch c.DBDriver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("FATAL: unsupported DB_DRIVER %q (expected %q or %q)", c.DBDriver, DBDriverPostgres, DBDriverSQLite)
	}
	switch c.ContactStore {
	case ContactStoreSQL:
	case ContactStoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("FATAL: CONTACT_STORE=mongo requires MONGO_URI")
		}
	default:
		return fmt.Errorf("FATAL: unsupported CONTACT_STORE %q (expected %q or %q)", c.ContactStore, ContactStoreSQL, ContactStoreMongo)
	}
	if c.AuctionContractAddress != "" && !common.IsHexAddress(c.AuctionContractAddress) {
		return fmt.Errorf("FATAL: AUCTION_CONTRACT_ADDRESS %q is not a valid address", c.AuctionContractAddress)
	}
	if c.AuctionFetchConcurrency <= 0 {
		c.AuctionFetchConcurrency = 1
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
