package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application settings
type Config struct {
	ServerAddress         string        `mapstructure:"SERVER_ADDRESS"`
	StoreDriver           string        `mapstructure:"STORE_DRIVER"`
	PostgresConn          string        `mapstructure:"POSTGRES_CONN"`
	SQLitePath            string        `mapstructure:"SQLITE_PATH"`
	SQLitePoolSize        int           `mapstructure:"SQLITE_POOL_SIZE"`
	JWTSecret             string        `mapstructure:"JWT_SECRET"`
	JWTTTL                time.Duration `mapstructure:"JWT_TTL"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
	DispatchWorkers       int           `mapstructure:"DISPATCH_WORKERS"`
	DispatchBuffer        int           `mapstructure:"DISPATCH_BUFFER"`
	WSSendBuffer          int           `mapstructure:"WS_SEND_BUFFER"`
	ClientOrigin          string        `mapstructure:"CLIENT_ORIGIN"`
	NotificationListLimit int           `mapstructure:"NOTIFICATION_LIST_LIMIT"`
	ShutdownTimeout       time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":          ":8080",
	"STORE_DRIVER":            DriverMemory,
	"POSTGRES_CONN":           "",
	"SQLITE_PATH":             "marketplace.db",
	"SQLITE_POOL_SIZE":        4,
	"JWT_SECRET":              "",
	"JWT_TTL":                 24 * time.Hour,
	"LOG_LEVEL":               "info",
	"DISPATCH_WORKERS":        4,
	"DISPATCH_BUFFER":         256,
	"WS_SEND_BUFFER":          16,
	"CLIENT_ORIGIN":           "",
	"NOTIFICATION_LIST_LIMIT": 20,
	"SHUTDOWN_TIMEOUT":        10 * time.Second,
}

// Load reads configuration from, lowest priority first: defaults, an
// optional app.env file, environment variables and command line flags.
func Load(args []string) (Config, error) {
	flagSet := pflag.NewFlagSet("gig-marketplace", pflag.ContinueOnError)
	configDir := flagSet.String("config-dir", ".", "directory containing app.env")
	flagSet.String("addr", "", "HTTP listen address")
	flagSet.String("store", "", "store driver: memory, sqlite or postgres")
	flagSet.String("log-level", "", "log level")
	if err := flagSet.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parse flags: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AddConfigPath(*configDir)
	v.SetConfigName("app")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read app.env: %w", err)
		}
	}

	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"SERVER_ADDRESS": "addr",
		"STORE_DRIVER":   "store",
		"LOG_LEVEL":      "log-level",
	} {
		if err := v.BindPFlag(key, flagSet.Lookup(flag)); err != nil {
			return Config{}, fmt.Errorf("config: bind flag %s: %w", flag, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AllowedOrigins returns the comma separated CLIENT_ORIGIN entries that
// may open a websocket, without blanks
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ClientOrigin, ",") {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Validate checks that the settings are usable together
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("config: SQLITE_PATH is required for the sqlite store")
		}
	case DriverPostgres:
		if c.PostgresConn == "" {
			return errors.New("config: POSTGRES_CONN is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.DispatchWorkers <= 0 {
		return fmt.Errorf("config: DISPATCH_WORKERS must be positive, got %d", c.DispatchWorkers)
	}
	if c.NotificationListLimit <= 0 {
		return fmt.Errorf("config: NOTIFICATION_LIST_LIMIT must be positive, got %d", c.NotificationListLimit)
	}
	return nil
}
