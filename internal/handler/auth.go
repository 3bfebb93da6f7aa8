package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"camera-relay/internal/auth"
)

// AuthHandler обрабатывает вход и выход через Azure AD
type AuthHandler struct {
	logger  *zap.Logger
	oauth   *auth.OAuthClient
	baseURI string
}

// NewAuthHandler создает новый хендлер
func NewAuthHandler(logger *zap.Logger, oauthClient *auth.OAuthClient, baseURI string) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		oauth:   oauthClient,
		baseURI: baseURI,
	}
}

// RegisterRoutes регистрирует маршруты входа/выхода
func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", h.Login)
	router.GET("/login/authorized", h.Authorized)
	router.GET("/logout", h.Logout)
}

// Login уводит пользователя на авторизацию провайдера
func (h *AuthHandler) Login(c *gin.Context) {
	state := auth.RandomState()
	if err := auth.SetState(c, state); err != nil {
		h.logger.Error("Failed to save oauth state", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to start login")
		return
	}

	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// Authorized - OAuth-коллбек: меняет код на токен,
// запрашивает principal и устанавливает сессию
func (h *AuthHandler) Authorized(c *gin.Context) {
	code := c.Query("code")
	if c.Query("error") != "" || code == "" {
		// Провайдер не выдал токен - показываем его причину как есть
		c.String(http.StatusOK, "Access denied: reason=%s error=%s",
			c.Query("error_reason"),
			c.Query("error_description"))
		return
	}

	if state := auth.State(c); state == "" || state != c.Query("state") {
		h.logger.Warn("OAuth state mismatch", zap.String("client_ip", c.ClientIP()))
		c.String(http.StatusBadRequest, "State mismatch")
		return
	}

	token, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil || token.AccessToken == "" {
		h.logger.Warn("OAuth exchange failed", zap.Error(err))
		c.String(http.StatusOK, "Access denied: reason=%s error=%s",
			c.Query("error_reason"),
			c.Query("error_description"))
		return
	}

	principal, err := h.oauth.Principal(c.Request.Context(), token)
	if err != nil {
		h.logger.Warn("Failed to resolve principal", zap.Error(err))
		c.String(http.StatusOK, "Access denied: could not resolve user identity")
		return
	}

	if err := auth.Establish(c, principal, token.AccessToken); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to establish session")
		return
	}

	h.logger.Info("User logged in", zap.String("principal", principal))
	c.Redirect(http.StatusFound, "/")
}

// Logout чистит сессию и уводит на выход у провайдера
func (h *AuthHandler) Logout(c *gin.Context) {
	principal := auth.Principal(c)

	if err := auth.Clear(c); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
	}

	if principal != "" {
		h.logger.Info("User logged out", zap.String("principal", principal))
	}

	c.Redirect(http.StatusFound, h.oauth.LogoutURL(h.baseURI))
}
