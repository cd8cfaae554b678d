package routes

import (
	accountshttp "github.com/projectvault/vault-backend/internal/accounts/http"
	accountsservice "github.com/projectvault/vault-backend/internal/accounts/service"
	"github.com/projectvault/vault-backend/internal/api/http/middleware"
	"github.com/projectvault/vault-backend/internal/auth"
	vaulthttp "github.com/projectvault/vault-backend/internal/vault/http"
	vaultservice "github.com/projectvault/vault-backend/internal/vault/service"

	"github.com/gin-gonic/gin"
)

type V1Deps struct {
	Vault    *vaultservice.VaultService
	Accounts *accountsservice.AccountService
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(auth.WithUser())

	api.GET("/csrf", middleware.IssueCSRF)

	protected := api.Group("")
	protected.Use(middleware.CSRF())

	projectsGroup := protected.Group("/projects")
	vaulthttp.New(dep.Vault).Register(projectsGroup)

	accountsGroup := protected.Group("/accounts")
	accountshttp.New(dep.Accounts).Register(accountsGroup)
}
