package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type Authenticator interface {
	Login(username, password string) (auth.AccessToken, error)
}

type AuthHandler struct {
	auth   Authenticator
	logger *slog.Logger
}

type tokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewAuthHandler(a Authenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: a, logger: logger}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/token", h.token)
}

func (h *AuthHandler) token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		writeBindError(c, err)
		return
	}

	tok, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			metrics.AuthFailures.WithLabelValues(metrics.ReasonBadCredentials).Inc()
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
			return
		}
		writeError(c, h.logger, err)
		return
	}

	metrics.TokensIssued.Inc()
	c.JSON(http.StatusOK, tokenResponse{AccessToken: tok.Token, TokenType: "bearer"})
}
