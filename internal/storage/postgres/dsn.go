package postgres

import (
	"fmt"

	"github.com/projectvault/vault-backend/config"
)

// DSN returns DB_DSN when configured, otherwise a keyword/value DSN built
// from the discrete settings.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}
