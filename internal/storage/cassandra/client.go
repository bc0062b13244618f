package cassandra

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gocql/gocql"
	"github.com/molkiya/shooting-range/internal/config"
	"github.com/molkiya/shooting-range/pkg/logger"
)

// Client owns the gocql session for the record tables.
type Client struct {
	session *gocql.Session
	config  config.CassandraConfig
	logger  *logger.Logger
}

// NewClient connects to the cluster and makes sure the schema exists.
func NewClient(cfg config.CassandraConfig, log *logger.Logger) (*Client, error) {
	session, err := newCluster(cfg).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create Cassandra session: %w", err)
	}
	log.Info("Connected to Cassandra", logger.F("hosts", strings.Join(cfg.Hosts, ",")), logger.F("keyspace", cfg.Keyspace))

	client := &Client{session: session, config: cfg, logger: log}
	if err := client.initializeSchema(); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return client, nil
}

func newCluster(cfg config.CassandraConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Timeout = cfg.Timeout
	cluster.ConnectTimeout = cfg.Timeout
	cluster.Consistency = parseConsistency(cfg.Consistency)
	// saves are claimed with a lightweight transaction
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.RetryPolicy = RetryPolicy(cfg.MaxRetries)
	cluster.NumConns = 2
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	return cluster
}

// Session returns the underlying gocql.Session
func (c *Client) Session() *gocql.Session {
	return c.session
}

// Keyspace returns the configured keyspace
func (c *Client) Keyspace() string {
	return c.config.Keyspace
}

// Close closes the Cassandra session
func (c *Client) Close() {
	if c.session != nil {
		c.session.Close()
		c.logger.Info("Cassandra session closed")
	}
}

// initializeSchema creates the keyspace and tables if they don't exist
func (c *Client) initializeSchema() error {
	for _, stmt := range schemaStatements(c.config.Keyspace) {
		if err := c.session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("failed to apply %q: %w", firstLine(stmt), err)
		}
	}

	c.logger.Info("Cassandra schema initialized", logger.F("keyspace", c.config.Keyspace))
	return nil
}

// schemaStatements returns the DDL for the record tables.
// Schema design:
//   - completed_sessions: keyed by record id; the unique claim for a save
//   - matches_by_player: one partition per player, newest first
func schemaStatements(keyspace string) []string {
	return []string{
		fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
		WITH replication = {
			'class': 'SimpleStrategy',
			'replication_factor': 1
		}`, keyspace),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.completed_sessions (
			id text PRIMARY KEY,
			session_id text,
			player_id text,
			player_name text,
			score int,
			level text,
			duration_seconds int,
			hits int,
			misses int,
			recorded_at timestamp
		)`, keyspace),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.matches_by_player (
			player_id text,
			recorded_at timestamp,
			id text,
			session_id text,
			player_name text,
			score int,
			level text,
			duration_seconds int,
			hits int,
			misses int,
			PRIMARY KEY ((player_id), recorded_at, id)
		) WITH CLUSTERING ORDER BY (recorded_at DESC, id ASC)`, keyspace),
	}
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(stmt), "\n")
	return line
}

// parseConsistency accepts any gocql consistency name and falls back to QUORUM.
func parseConsistency(name string) gocql.Consistency {
	consistency, err := gocql.ParseConsistencyWrapper(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return gocql.Quorum
	}
	return consistency
}

// RetryPolicy provides simple retry logic for transient errors
func RetryPolicy(maxRetries int) gocql.RetryPolicy {
	return &simpleRetryPolicy{maxRetries: maxRetries}
}

type simpleRetryPolicy struct {
	maxRetries int
}

func (p *simpleRetryPolicy) Attempt(q gocql.RetryableQuery) bool {
	return q.Attempts() <= p.maxRetries
}

func (p *simpleRetryPolicy) GetRetryType(err error) gocql.RetryType {
	if err == nil {
		return gocql.Ignore
	}
	if errors.Is(err, gocql.ErrTimeoutNoResponse) {
		return gocql.Retry
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "connection") || strings.Contains(msg, "unavailable") {
		return gocql.Retry
	}
	return gocql.Rethrow
}
