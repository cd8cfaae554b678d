package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/projectvault/vault-backend/internal/auth"
	"github.com/projectvault/vault-backend/internal/logging"
	"github.com/projectvault/vault-backend/internal/vault/domain"
	"github.com/projectvault/vault-backend/internal/vault/service"
)

func owner(c *gin.Context) service.Owner {
	return service.Owner{ID: auth.UserID(c), Authenticated: auth.IsAuthenticated(c)}
}

func (h *Handler) list(c *gin.Context) {
	criteria := domain.NewCriteria(
		c.Query("status"),
		c.Query("difficulty"),
		c.Query("tech"),
		c.Query("search"),
	)

	view, err := h.svc.List(c.Request.Context(), owner(c), criteria)
	if err != nil {
		fail(c, "listing projects", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"projects":        view.Projects,
		"visible_ids":     view.VisibleIDs,
		"stats":           view.Stats,
		"tech_vocabulary": view.TechVocabulary,
		"criteria":        view.Criteria,
	})
}

func (h *Handler) summary(c *gin.Context) {
	s, err := h.svc.Summary(c.Request.Context(), owner(c))
	if err != nil {
		fail(c, "loading summary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": s.Stats, "tech_vocabulary": s.TechVocabulary})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		fail(c, "loading project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": p})
}

func (h *Handler) create(c *gin.Context) {
	fields, err := bindProjectFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), owner(c), fields.input())
	if err != nil {
		fail(c, "creating project", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Project created successfully!", "project": p})
}

func (h *Handler) update(c *gin.Context) {
	fields, err := bindProjectFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid body"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), owner(c), c.Param("id"), fields.patch())
	if err != nil {
		fail(c, "updating project", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project updated successfully", "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), owner(c), c.Param("id")); err != nil {
		fail(c, "deleting project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted successfully"})
}

// bindProjectFields reads either a JSON body or a url-encoded/multipart form
// where tech_stack may repeat.
func bindProjectFields(c *gin.Context) (projectFields, error) {
	var f projectFields
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&f); err != nil {
			return f, err
		}
		return f, nil
	}

	if err := c.Request.ParseMultipartForm(8 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return f, err
	}

	formValue := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}
	f.Title = formValue("title")
	f.Description = formValue("description")
	f.Status = formValue("status")
	f.Difficulty = formValue("difficulty")
	f.Priority = formValue("priority")
	f.GithubURL = formValue("github")
	f.DeploymentURL = formValue("deployment")
	if tech, ok := c.GetPostFormArray("tech_stack"); ok {
		f.TechStack = &tech
	}
	return f, nil
}

// fail maps service errors onto the {success, message} envelope.
func fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found"})
	case errors.Is(err, domain.ErrInvalidProject):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, domain.ErrDemoLimitReached):
		c.JSON(http.StatusForbidden, gin.H{
			"success":       false,
			"message":       "Please log in to create more projects.",
			"auth_required": true,
		})
	default:
		logging.FromContext(c.Request.Context(), nil).Error("request failed",
			zap.String("action", action), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": fmt.Sprintf("Error %s. Please try again.", action),
		})
	}
}
