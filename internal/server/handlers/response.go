package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/auth"
	"github.com/mamadbah2/campus/internal/repository/mongodb"
	"github.com/mamadbah2/campus/internal/service/batches"
	"github.com/mamadbah2/campus/internal/service/reporting"
)

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func failure(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// fail maps service errors onto HTTP statuses. Unexpected errors are logged
// and hidden behind a generic message.
func fail(c *gin.Context, logger *zap.Logger, err error) {
	var invalid *batches.ValidationError
	switch {
	case errors.As(err, &invalid):
		fields := make([]gin.H, 0, len(invalid.Fields))
		for _, f := range invalid.Fields {
			fields = append(fields, gin.H{"field": f.Field, "reason": f.Reason})
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   batches.ErrInvalidBatch.Error(),
			"fields":  fields,
		})
	case errors.Is(err, batches.ErrInvalidBatch),
		errors.Is(err, academics.ErrUnknownDetailKind),
		errors.Is(err, academics.ErrInvalidRollNumber):
		failure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, mongodb.ErrNotFound):
		failure(c, http.StatusNotFound, "not found")
	case errors.Is(err, batches.ErrDuplicateName):
		failure(c, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		failure(c, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
	case errors.Is(err, reporting.ErrExportDisabled):
		failure(c, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		failure(c, http.StatusInternalServerError, "internal error")
	}
}
