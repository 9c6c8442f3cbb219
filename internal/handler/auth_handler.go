package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"auctionhouse/internal/auth"
	"auctionhouse/internal/errors"
)

// AuthHandler handles token endpoints.
type AuthHandler struct {
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(tokenStore auth.TokenStoreInterface) *AuthHandler {
	return &AuthHandler{tokenStore: tokenStore, now: time.Now}
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// Revoke godoc
// @Summary Revoke the current access token
// @Description The presented bearer token is rejected on every later request until it expires.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/revoke [post]
func (h *AuthHandler) Revoke(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return errorResponse(c, errors.ErrUnauthorized)
	}
	if identity.TokenID == "" {
		return invalidInput("token has no id")
	}

	ttl := auth.AccessTokenExpiry
	if !identity.ExpiresAt.IsZero() {
		ttl = identity.ExpiresAt.Sub(h.now())
	}
	if err := h.tokenStore.RevokeAccessToken(c.Request().Context(), identity.TokenID, ttl); err != nil {
		return errorResponse(c, err)
	}

	log.WithField("identity", identity.ID).Info("access token revoked")
	return c.JSON(http.StatusOK, MessageResponse{Message: "token revoked"})
}
