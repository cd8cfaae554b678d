package bootstrap

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/projectvault/vault-backend/config"
	accountsrepo "github.com/projectvault/vault-backend/internal/accounts/repository"
	accountsservice "github.com/projectvault/vault-backend/internal/accounts/service"
	vaultrepo "github.com/projectvault/vault-backend/internal/vault/repository"
	vaultservice "github.com/projectvault/vault-backend/internal/vault/service"
)

type Services struct {
	Vault    *vaultservice.VaultService
	Accounts *accountsservice.AccountService
}

// NewServices wires repositories into services. rdb may be nil, in which case
// summaries are always computed from the database.
func NewServices(cfg *config.Config, sqlDB *sql.DB, pool *pgxpool.Pool, rdb *redis.Client, log *zap.Logger) *Services {
	var cache vaultservice.SummaryStore
	if rdb != nil {
		cache = vaultrepo.NewSummaryCache(rdb, cfg.Redis.SummaryTTL)
	}

	projects := vaultrepo.NewProjectRepository(sqlDB)
	accounts := accountsrepo.NewAccountRepository(pool)

	return &Services{
		Vault:    vaultservice.NewVaultService(projects, cache, cfg.Vault.DemoProjectLimit, log.Named("vault")),
		Accounts: accountsservice.NewAccountService(accounts, log.Named("accounts")),
	}
}
