package config

import "strings"

// StoreDriver selects the document store backing jobs and applications.
type StoreDriver string

const (
	// StoreDriverPostgres stores data in PostgreSQL (production).
	StoreDriverPostgres StoreDriver = "postgres"
	// StoreDriverSQLite stores data in an embedded SQLite file (development).
	StoreDriverSQLite StoreDriver = "sqlite"
)

// StoreConfig selects and configures the store driver.
type StoreConfig struct {
	Driver     StoreDriver `env:"STORE_DRIVER" envDefault:"postgres"`
	SQLitePath string      `env:"SQLITE_PATH"  envDefault:"jobboard.db"`
}

// Sanitize normalizes the driver name, falling back to postgres.
func (s *StoreConfig) Sanitize() {
	s.Driver = StoreDriver(strings.ToLower(strings.TrimSpace(string(s.Driver))))
	if s.Driver != StoreDriverSQLite {
		s.Driver = StoreDriverPostgres
	}
	if strings.TrimSpace(s.SQLitePath) == "" {
		s.SQLitePath = "jobboard.db"
	}
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"jobboard"`
	Password string `env:"PASSWORD"                envDefault:"jobboard"`
	Name     string `env:"NAME"                    envDefault:"jobboard"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for sessions and flash messages.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
