package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ray-indexer/internal/reconciler"
)

const serviceName = "ray-indexer"

// StoreDriver selects the entity store backend
type StoreDriver string

const (
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverMemory   StoreDriver = "memory"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	FilterSubject  string        `mapstructure:"filter_subject"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
}

// EthereumConfig holds Ethereum-specific configuration
type EthereumConfig struct {
	RPCURL string `mapstructure:"rpc_url"`
	// PortfolioManagerAddresses lists the contracts whose logs and calls are decoded
	PortfolioManagerAddresses []string `mapstructure:"portfolio_manager_addresses"`
}

// StoreConfig holds entity store configuration
type StoreConfig struct {
	Driver StoreDriver `mapstructure:"driver"`
}

// IndexerConfig holds the cursor and retry configuration of the indexer loop
type IndexerConfig struct {
	CursorName           string        `mapstructure:"cursor_name"`
	StartBlock           uint64        `mapstructure:"start_block"`
	CursorSaveFreq       uint64        `mapstructure:"cursor_save_freq"`
	CursorSaveDelay      time.Duration `mapstructure:"cursor_save_delay"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval"`
	RetryMaxElapsedTime  time.Duration `mapstructure:"retry_max_elapsed_time"`
}

// RayIndexerConfig holds configuration for ray-indexer
type RayIndexerConfig struct {
	BaseConfig            `mapstructure:",squash"`
	Database              DatabaseConfig    `mapstructure:"database"`
	NATS                  NATSConfig        `mapstructure:"nats"`
	Ethereum              EthereumConfig    `mapstructure:"ethereum"`
	Store                 StoreConfig       `mapstructure:"store"`
	Reconciler            reconciler.Config `mapstructure:"reconciler"`
	Indexer               IndexerConfig     `mapstructure:"indexer"`
	PortfolioRegistryPath string            `mapstructure:"portfolio_registry_path"`
}

// LoadRayIndexerConfig loads configuration for ray-indexer
func LoadRayIndexerConfig(configFile string, envPath string) (*RayIndexerConfig, error) {
	v := configureViper(serviceName, configFile, envPath)

	// Set defaults
	defaults := reconciler.DefaultConfig()
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "BLOCKCHAIN_EVENTS")
	v.SetDefault("nats.consumer_name", serviceName)
	v.SetDefault("nats.connection_name", serviceName)
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", -1)
	v.SetDefault("store.driver", string(StoreDriverPostgres))
	v.SetDefault("reconciler.prior_value_source", string(defaults.PriorValueSource))
	v.SetDefault("reconciler.reject_negative_balance", defaults.RejectNegativeBalance)
	v.SetDefault("reconciler.reject_inactive_token", defaults.RejectInactiveToken)
	v.SetDefault("reconciler.default_decimals", defaults.DefaultDecimals)
	v.SetDefault("reconciler.asset_cache_size", defaults.AssetCacheSize)
	v.SetDefault("indexer.cursor_name", "ray-portfolio-manager")
	v.SetDefault("indexer.cursor_save_freq", 100)
	v.SetDefault("indexer.cursor_save_delay", "30s")
	v.SetDefault("indexer.retry_initial_interval", "500ms")
	v.SetDefault("indexer.retry_max_interval", "30s")
	v.SetDefault("indexer.retry_max_elapsed_time", "5m")

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg RayIndexerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the required fields
func (c *RayIndexerConfig) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Host == "" {
			return errors.New("database.host is required")
		}
		if c.Database.DBName == "" {
			return errors.New("database.dbname is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("invalid store.driver: %q", c.Store.Driver)
	}

	if c.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if c.Ethereum.RPCURL == "" {
		return errors.New("ethereum.rpc_url is required")
	}
	if len(c.Ethereum.PortfolioManagerAddresses) == 0 {
		return errors.New("ethereum.portfolio_manager_addresses is required")
	}
	if c.Indexer.CursorName == "" {
		return errors.New("indexer.cursor_name is required")
	}

	if err := c.Reconciler.Validate(); err != nil {
		return fmt.Errorf("invalid reconciler config: %w", err)
	}

	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/ray-indexer/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("RAY_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.filter_subject",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.portfolio_manager_addresses",
		// Store
		"store.driver",
		// Reconciler
		"reconciler.prior_value_source",
		"reconciler.reject_negative_balance",
		"reconciler.reject_inactive_token",
		"reconciler.default_decimals",
		"reconciler.asset_cache_size",
		// Indexer
		"indexer.cursor_name",
		"indexer.start_block",
		"indexer.cursor_save_freq",
		"indexer.cursor_save_delay",
		"indexer.retry_initial_interval",
		"indexer.retry_max_interval",
		"indexer.retry_max_elapsed_time",
		// Registry
		"portfolio_registry_path",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica database connection string.
// If ReadPort is not configured, it falls back to Port.
func (c *DatabaseConfig) ReadDSN() string {
	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}
