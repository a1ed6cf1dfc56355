package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	DBPath       string `envconfig:"DB_PATH" default:"data/inventory.db"` // sqlite file, ":memory:" for tests
	BackupDir    string `envconfig:"BACKUP_DIR" default:"data/backups"`
	LogFile      string `envconfig:"LOG_FILE" default:"./stockledger.log"`
	TemplatesDir string `envconfig:"TEMPLATES_DIR" default:"./web/templates"`
	// bcrypt hash of the API key; empty leaves the mutating API open
	APIKeyHash string `envconfig:"API_KEY_HASH"`

	TxListDefault int `envconfig:"TX_LIST_DEFAULT" default:"50"`
	TxListMax     int `envconfig:"TX_LIST_MAX" default:"1000"`
}

// Load reads the environment and logs the effective values.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	key := "unset"
	if cfg.APIKeyHash != "" {
		key = "set"
	}
	log.Printf("[config] PORT=%s DB_PATH=%s BACKUP_DIR=%s LOG_FILE=%s API_KEY=%s",
		cfg.Port, cfg.DBPath, cfg.BackupDir, cfg.LogFile, key)
	return cfg, nil
}
