package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/peridotvault/peridot-core/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Path            string        `mapstructure:"path"`   // sqlite file, ":memory:" for an ephemeral store
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
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
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
	PublishRetries uint64        `mapstructure:"publish_retries"`
}

// ChainConfig describes the ledger a node runs
type ChainConfig struct {
	ChainID domain.Chain `mapstructure:"chain_id"`
	// GenesisTime is a unix timestamp; zero uses the boot time
	GenesisTime int64 `mapstructure:"genesis_time"`
	// Salt is mixed into the genesis hash; empty generates a fresh one per boot
	Salt string `mapstructure:"salt"`
	// Prefund lists accounts credited with PrefundAmount wei at genesis
	Prefund       []string `mapstructure:"prefund"`
	PrefundAmount string   `mapstructure:"prefund_amount"`
}

// PaymentTokenConfig describes a fungible payment token deployed at bootstrap
type PaymentTokenConfig struct {
	Name          string `mapstructure:"name"`
	Symbol        string `mapstructure:"symbol"`
	Decimals      uint8  `mapstructure:"decimals"`
	InitialSupply string `mapstructure:"initial_supply"`
}

// DeploymentConfig holds contract bootstrap settings
type DeploymentConfig struct {
	NetworkName      string               `mapstructure:"network_name"`
	Deployer         string               `mapstructure:"deployer"`
	TreasuryRouter   string               `mapstructure:"treasury_router"` // defaults to the deployer
	FeeToken         string               `mapstructure:"fee_token"`       // empty or zero address = native
	PublishFee       string               `mapstructure:"publish_fee"`     // in wei
	PlatformFeeBps   uint16               `mapstructure:"platform_fee_bps"`
	AllowlistEnabled bool                 `mapstructure:"allowlist_enabled"`
	Publishers       []string             `mapstructure:"publishers"`
	PublishersFile   string               `mapstructure:"publishers_file"`
	ArtifactDir      string               `mapstructure:"artifact_dir"`
	SampleGames      int                  `mapstructure:"sample_games"`
	SamplePublisher  string               `mapstructure:"sample_publisher"`
	PaymentTokens    []PaymentTokenConfig `mapstructure:"payment_tokens"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// CORSOrigins lists the allowed browser origins; empty allows all
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"` // RS256 verification key in PEM format
	JWTSecret    string   `mapstructure:"jwt_secret"`     // HS256 shared secret
	APIKeys      []string `mapstructure:"api_keys"`
}

// WebhookConfig holds webhook delivery configuration
type WebhookConfig struct {
	Workers         int           `mapstructure:"workers"`
	QueueSize       int           `mapstructure:"queue_size"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
}

// TemporalConfig holds Temporal configuration. When enabled, webhook
// deliveries run as workflows on TaskQueue instead of the in-process pool
type TemporalConfig struct {
	Enabled                            bool    `mapstructure:"enabled"`
	HostPort                           string  `mapstructure:"host_port"`
	Namespace                          string  `mapstructure:"namespace"`
	TaskQueue                          string  `mapstructure:"task_queue"`
	MaxConcurrentActivityExecutionSize int     `mapstructure:"max_concurrent_activity_execution_size"`
	WorkerActivitiesPerSecond          float64 `mapstructure:"worker_activities_per_second"`
}

// EmitterConfig holds configuration of the ledger event emitter
type EmitterConfig struct {
	StartBlock      uint64        `mapstructure:"start_block"`
	BatchSize       int           `mapstructure:"batch_size"`
	CursorSaveFreq  uint64        `mapstructure:"cursor_save_freq"`
	CursorSaveDelay time.Duration `mapstructure:"cursor_save_delay"`
}

// MetadataConfig holds metadata document settings
type MetadataConfig struct {
	// SchemaPath overrides the built-in game metadata schema
	SchemaPath string `mapstructure:"schema_path"`
}

// NodeConfig holds configuration for peridot-node
type NodeConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Chain      ChainConfig      `mapstructure:"chain"`
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Emitter    EmitterConfig    `mapstructure:"emitter"`
	Metadata   MetadataConfig   `mapstructure:"metadata"`
}

// EventBridgeConfig holds configuration for event-bridge
type EventBridgeConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Webhook    WebhookConfig  `mapstructure:"webhook"`
	Temporal   TemporalConfig `mapstructure:"temporal"`
}

// LoadNodeConfig loads configuration for peridot-node
func LoadNodeConfig(configFile string, envPath string) (*NodeConfig, error) {
	v := configureViper("peridot-node", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setWebhookDefaults(v)
	setTemporalDefaults(v)
	v.SetDefault("debug", false)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.connection_name", "peridot-node")
	v.SetDefault("nats.publish_retries", 3)
	v.SetDefault("chain.chain_id", string(domain.DEFAULT_CHAIN))
	v.SetDefault("chain.prefund_amount", "1000000000000000000000") // 1000 native units
	v.SetDefault("deployment.network_name", "localhost")
	v.SetDefault("deployment.publish_fee", "0")
	v.SetDefault("deployment.platform_fee_bps", 500)
	v.SetDefault("deployment.allowlist_enabled", true)
	v.SetDefault("deployment.artifact_dir", "deployments")
	v.SetDefault("deployment.sample_games", 0)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("emitter.batch_size", 100)
	v.SetDefault("emitter.cursor_save_freq", 10)
	v.SetDefault("emitter.cursor_save_delay", "5s")

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var config NodeConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadEventBridgeConfig loads configuration for event-bridge
func LoadEventBridgeConfig(configFile string, envPath string) (*EventBridgeConfig, error) {
	v := configureViper("event-bridge", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setWebhookDefaults(v)
	setTemporalDefaults(v)
	v.SetDefault("nats.connection_name", "event-bridge")
	v.SetDefault("nats.consumer_name", "event-bridge")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 3)

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var config EventBridgeConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}
	if err := config.Database.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "PERIDOT_EVENTS")
	v.SetDefault("nats.subject_prefix", "peridot")
}

func setWebhookDefaults(v *viper.Viper) {
	v.SetDefault("webhook.workers", 4)
	v.SetDefault("webhook.queue_size", 256)
	v.SetDefault("webhook.initial_interval", "5s")
	v.SetDefault("webhook.max_interval", "80s")
	v.SetDefault("webhook.http_timeout", "10s")
}

func setTemporalDefaults(v *viper.Viper) {
	v.SetDefault("temporal.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "peridot-webhooks")
	v.SetDefault("temporal.max_concurrent_activity_execution_size", 50)
	v.SetDefault("temporal.worker_activities_per_second", 50)
}

// readInConfig reads the config file, falling back to environment variables when none exists
func readInConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Validate checks the fields a node cannot start without
func (c *NodeConfig) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if !domain.IsValidChain(c.Chain.ChainID) {
		return fmt.Errorf("chain.chain_id %q is not an eip155 chain", c.Chain.ChainID)
	}
	if _, err := c.Chain.PrefundWei(); err != nil {
		return err
	}

	d := c.Deployment
	if !common.IsHexAddress(d.Deployer) {
		return errors.New("deployment.deployer must be a hex address")
	}
	for key, value := range map[string]string{
		"deployment.treasury_router":  d.TreasuryRouter,
		"deployment.fee_token":        d.FeeToken,
		"deployment.sample_publisher": d.SamplePublisher,
	} {
		if value != "" && !common.IsHexAddress(value) {
			return fmt.Errorf("%s must be a hex address", key)
		}
	}
	for _, p := range d.Publishers {
		if !common.IsHexAddress(p) {
			return fmt.Errorf("deployment.publishers: %q is not a hex address", p)
		}
	}
	if d.PlatformFeeBps > domain.MAX_BPS {
		return fmt.Errorf("deployment.platform_fee_bps must not exceed %d", domain.MAX_BPS)
	}
	if _, err := d.PublishFeeWei(); err != nil {
		return err
	}
	for _, t := range d.PaymentTokens {
		if t.Symbol == "" {
			return errors.New("deployment.payment_tokens: symbol is required")
		}
		if _, err := domain.ParseAmount(strings.TrimSpace(t.InitialSupply)); err != nil {
			return fmt.Errorf("deployment.payment_tokens %s: %w", t.Symbol, err)
		}
	}
	if d.SampleGames < 0 {
		return errors.New("deployment.sample_games must not be negative")
	}

	if c.Emitter.CursorSaveFreq == 0 {
		return errors.New("emitter.cursor_save_freq must be positive")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return errors.New("nats.url is required when nats is enabled")
	}
	if c.Temporal.Enabled && c.Temporal.TaskQueue == "" {
		return errors.New("temporal.task_queue is required when temporal is enabled")
	}

	return nil
}

// Validate checks that the selected driver has what it needs to connect
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "sqlite":
		if c.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres", "":
		if c.Host == "" {
			return errors.New("database.host is required")
		}
		if c.DBName == "" {
			return errors.New("database.dbname is required")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Driver)
	}
	return nil
}

// PrefundWei returns the genesis allocation of every prefunded account
func (c *ChainConfig) PrefundWei() (map[common.Address]*big.Int, error) {
	amount, err := domain.ParseAmount(strings.TrimSpace(c.PrefundAmount))
	if err != nil {
		return nil, fmt.Errorf("chain.prefund_amount: %w", err)
	}

	alloc := make(map[common.Address]*big.Int, len(c.Prefund))
	for _, account := range c.Prefund {
		if !common.IsHexAddress(account) {
			return nil, fmt.Errorf("chain.prefund: %q is not a hex address", account)
		}
		alloc[common.HexToAddress(account)] = new(big.Int).Set(amount)
	}
	return alloc, nil
}

// PublishFeeWei returns the publish fee as an integer amount
func (c *DeploymentConfig) PublishFeeWei() (*big.Int, error) {
	fee, err := domain.ParseAmount(strings.TrimSpace(c.PublishFee))
	if err != nil {
		return nil, fmt.Errorf("deployment.publish_fee: %w", err)
	}
	return fee, nil
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
		// 2. Service-specific directory (e.g., cmd/peridot-node/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("PERIDOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.driver",
		"database.path",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.enabled",
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		"nats.publish_retries",
		// Chain
		"chain.chain_id",
		"chain.genesis_time",
		"chain.salt",
		"chain.prefund",
		"chain.prefund_amount",
		// Deployment
		"deployment.network_name",
		"deployment.deployer",
		"deployment.treasury_router",
		"deployment.fee_token",
		"deployment.publish_fee",
		"deployment.platform_fee_bps",
		"deployment.allowlist_enabled",
		"deployment.publishers",
		"deployment.publishers_file",
		"deployment.artifact_dir",
		"deployment.sample_games",
		"deployment.sample_publisher",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.jwt_secret",
		"auth.api_keys",
		// Webhook
		"webhook.workers",
		"webhook.queue_size",
		"webhook.initial_interval",
		"webhook.max_interval",
		"webhook.http_timeout",
		// Temporal
		"temporal.enabled",
		"temporal.host_port",
		"temporal.namespace",
		"temporal.task_queue",
		"temporal.max_concurrent_activity_execution_size",
		"temporal.worker_activities_per_second",
		// Emitter
		"emitter.start_block",
		"emitter.batch_size",
		"emitter.cursor_save_freq",
		"emitter.cursor_save_delay",
		// Metadata
		"metadata.schema_path",
	}

	for _, key := range commonKeys {
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

// DSN returns the database connection string for the configured driver
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
