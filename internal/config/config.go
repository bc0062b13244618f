package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/molkiya/shooting-range/internal/engine"
)

// Storage backends accepted in STORAGE_BACKEND.
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendRedis     = "redis"
	BackendCassandra = "cassandra"
)

// Config holds all configuration for the application
type Config struct {
	Host     string `env:"HOST" envDefault:"0.0.0.0"`
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Cross-origin hosts allowed to open the event stream.
	WSOriginPatterns []string `env:"WS_ORIGIN_PATTERNS" envSeparator:"," envDefault:"localhost:*,127.0.0.1:*"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"shooting-range.db"`

	SessionTTLSeconds   int `env:"SESSION_TTL_SECONDS" envDefault:"600"`
	ReapIntervalSeconds int `env:"REAP_INTERVAL_SECONDS" envDefault:"30"`

	// Terminal game only. Its screen owns stdout, so logs go to LogFile.
	PlayerID   string `env:"PLAYER_ID" envDefault:"local"`
	PlayerName string `env:"PLAYER_NAME" envDefault:"player"`
	Mute       bool   `env:"MUTE"`
	LogFile    string `env:"LOG_FILE"`

	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Cassandra CassandraConfig `envPrefix:"CASSANDRA_"`
	Rules     RulesConfig     `envPrefix:"RULES_"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// CassandraConfig holds Cassandra-specific configuration
type CassandraConfig struct {
	Hosts       []string      `env:"HOSTS" envSeparator:"," envDefault:"localhost:9042"`
	Keyspace    string        `env:"KEYSPACE" envDefault:"shooting_range"`
	Username    string        `env:"USERNAME"`
	Password    string        `env:"PASSWORD"`
	Consistency string        `env:"CONSISTENCY" envDefault:"QUORUM"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"5s"`
	MaxRetries  int           `env:"MAX_RETRIES" envDefault:"2"`
}

// RulesConfig overrides the gameplay tuning. Geometry is fixed.
type RulesConfig struct {
	PointsPerHit       int           `env:"POINTS_PER_HIT" envDefault:"10"`
	MissPenaltySeconds int           `env:"MISS_PENALTY_SECONDS" envDefault:"5"`
	TickInterval       time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	SpawnInterval      time.Duration `env:"SPAWN_INTERVAL" envDefault:"3s"`
	CountdownFrom      int           `env:"COUNTDOWN_FROM" envDefault:"3"`
	InitialTargets     int           `env:"INITIAL_TARGETS" envDefault:"3"`
	InitialStagger     time.Duration `env:"INITIAL_STAGGER" envDefault:"500ms"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom loads configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the env parser cannot.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendSQLite, BackendRedis, BackendCassandra:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q", c.StorageBackend)
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid PORT value %q", c.Port)
	}
	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("SESSION_TTL_SECONDS must be positive")
	}
	if c.ReapIntervalSeconds <= 0 {
		return fmt.Errorf("REAP_INTERVAL_SECONDS must be positive")
	}
	if c.StorageBackend == BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
	}
	if c.StorageBackend == BackendCassandra && len(c.Cassandra.Hosts) == 0 {
		return fmt.Errorf("CASSANDRA_HOSTS is required when STORAGE_BACKEND=cassandra")
	}
	if err := c.EngineRules().Validate(); err != nil {
		return fmt.Errorf("invalid RULES_ overrides: %w", err)
	}
	return nil
}

// EngineRules returns the default rules with the configured overrides applied.
func (c *Config) EngineRules() engine.Rules {
	rules := engine.DefaultRules()
	rules.PointsPerHit = c.Rules.PointsPerHit
	rules.MissPenalty = c.Rules.MissPenaltySeconds
	rules.TickInterval = c.Rules.TickInterval
	rules.SpawnInterval = c.Rules.SpawnInterval
	rules.CountdownFrom = c.Rules.CountdownFrom
	rules.InitialTargets = c.Rules.InitialTargets
	rules.InitialStagger = c.Rules.InitialStagger
	return rules
}

// SessionTTL is how long a live session may stay idle before it is reaped.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// ReapInterval is how often idle sessions are looked for.
func (c *Config) ReapInterval() time.Duration {
	return time.Duration(c.ReapIntervalSeconds) * time.Second
}

// Address returns the full address (host:port)
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
