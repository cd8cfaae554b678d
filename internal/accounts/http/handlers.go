package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/projectvault/vault-backend/internal/accounts/domain"
	"github.com/projectvault/vault-backend/internal/accounts/service"
	"github.com/projectvault/vault-backend/internal/accounts/validation"
	"github.com/projectvault/vault-backend/internal/logging"
)

type Handler struct {
	svc *service.AccountService
}

func New(svc *service.AccountService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/validate", h.validate)
	rg.POST("/register", h.register)
}

// validate returns live feedback for every field. Rule failures are part of
// a successful response; only an unreadable body is a client error.
func (h *Handler) validate(c *gin.Context) {
	var form validation.Registration
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid body"})
		return
	}

	errs := validation.ValidateRegistration(form)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"can_submit": len(errs) == 0,
		"fields":     validation.Check(form),
		"errors":     errs,
	})
}

func (h *Handler) register(c *gin.Context) {
	var form validation.Registration
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid body"})
		return
	}

	acc, err := h.svc.Register(c.Request.Context(), form)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Please fix the highlighted fields before submitting.",
				"errors":  verr.Fields,
			})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already used"})
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Username already used"})
		default:
			logging.FromContext(c.Request.Context(), nil).Error("registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Registration failed. Please try again."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Account created", "account": acc})
}
