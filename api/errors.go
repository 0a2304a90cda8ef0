package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightclaim/internal/service/claims"
	"github.com/Domenick1991/flightclaim/internal/service/wizard"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, err error) {
	var validationErr *wizard.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "fields": validationErr.Fields})
	case errors.Is(err, wizard.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, wizard.ErrDraftNotFound), errors.Is(err, claims.ErrClaimNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, wizard.ErrTerminal):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, claims.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
	default:
		_ = c.Error(err)
		zap.S().Named("api").Errorw("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
}
