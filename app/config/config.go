package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"
)

// Default configuration values.
const (
	DefaultStoreURI      = "neo4j://localhost:7687"
	DefaultStoreUsername = "neo4j"
	DefaultStoreDatabase = "neo4j"
	DefaultMigrationsDir = "migrations"
)

// Config represents the application configuration, backed by a filesystem for
// persistence.
type Config struct {
	Store      Store      `json:"store"`
	Migrations Migrations `json:"migrations"`

	fs   vfs.FileSystem
	path string
}

// Store defines the connection options for the target Neo4j database.
type Store struct {
	// URI is the Bolt/Neo4j connection URI.
	URI      string `json:"uri,omitempty"`
	Username string `json:"username,omitempty"`
	// Password can also be supplied via the CYMIG_STORE_PASSWORD environment
	// variable, which takes precedence over this value.
	Password string `json:"password,omitempty"`
	// Database is the named database all transactions are scoped to.
	Database string `json:"database,omitempty"`
}

// Migrations defines options for migration script discovery.
type Migrations struct {
	// Dir is the directory containing .cyp/.cypher migration scripts.
	Dir string `json:"dir,omitempty"`
}

// NewConfig creates a new Config instance with the specified filesystem
// and configuration file path.
func NewConfig(fs vfs.FileSystem, path string) *Config {
	return &Config{fs: fs, path: path}
}

// Load reads and parses the configuration file from the filesystem.
// If the file doesn't exist, it initializes with the default configuration.
func (c *Config) Load() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}

	configJSON, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading configuration file: %w", err)
	}

	// Ensure that unmarshalling JSON doesn't fail if the file doesn't exist or is empty.
	if len(configJSON) == 0 {
		configJSON = []byte("{}")
	}

	if err = json.Unmarshal(configJSON, c); err != nil {
		return fmt.Errorf("failed parsing configuration file: %w", err)
	}

	c.applyDefaults()

	return nil
}

// Save writes the current configuration to the filesystem as JSON.
func (c *Config) Save() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed serializing configuration data: %w", err)
	}
	if err = vfs.WriteFile(c.fs, c.path, configJSON, 0o644); err != nil {
		return fmt.Errorf("failed writing configuration file: %w", err)
	}

	return nil
}

// Path returns the filesystem path where the configuration is stored.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyDefaults() {
	if c.Store.URI == "" {
		c.Store.URI = DefaultStoreURI
	}
	if c.Store.Username == "" {
		c.Store.Username = DefaultStoreUsername
	}
	if c.Store.Database == "" {
		c.Store.Database = DefaultStoreDatabase
	}
	if c.Migrations.Dir == "" {
		c.Migrations.Dir = DefaultMigrationsDir
	}
}
