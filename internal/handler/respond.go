package handler

import (
	"github.com/gin-gonic/gin"
	apperrors "social_network/pkg/errors"
	"social_network/pkg/logger"
)

func respondError(c *gin.Context, log logger.Logger, err error) {
	status := apperrors.HTTPStatusFromError(err)
	if status >= 500 {
		log.Error("Request failed", "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}
