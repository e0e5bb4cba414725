package cmd

import (
	"fmt"
	"strings"
)

// Storage backends accepted in Config.Storage.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds the application settings read from the environment.
// Call Validate before use; it fills the defaults.
type Config struct {
	HTTPPort string

	Storage    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	OrderNumberPrefix string
	DeploymentLabel   string

	AMQPURL      string
	AMQPExchange string

	ActiveOrdersSchedule string
}

// Validate fills defaults and rejects combinations the application cannot start with.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		c.HTTPPort = "8080"
	}
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.Storage == "" {
		c.Storage = StoragePostgres
	}

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DBHost == "" || c.DBName == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for %s storage", StoragePostgres)
		}
		if c.DBSslMode == "" {
			c.DBSslMode = "disable"
		}
	default:
		return fmt.Errorf("unknown storage %q, expected %s or %s", c.Storage, StoragePostgres, StorageMemory)
	}
	return nil
}

// DSN is the postgres connection string in key=value form.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
