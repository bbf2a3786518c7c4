package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/domain/models"
)

// Authenticator resolves login credentials to an account.
type Authenticator interface {
	Authenticate(ctx context.Context, creds models.Credentials) (models.PersonRecord, error)
}

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(auth Authenticator, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, logger: logger}
}

// Login returns the profile of the account matching the credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		failure(c, http.StatusBadRequest, "identifier and password are required")
		return
	}

	person, err := h.auth.Authenticate(c.Request.Context(), creds)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, person)
}
