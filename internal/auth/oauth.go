package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"camera-relay/internal/config"
)

// defaultGraphURL - базовый адрес Microsoft Graph для запроса профиля
const defaultGraphURL = "https://graph.microsoft.com/v1.0"

// OAuthClient оборачивает authorization-code flow против Azure AD.
// Сам протокол обмена отдан библиотеке oauth2.
type OAuthClient struct {
	conf     *oauth2.Config
	tenantID string

	// GraphURL переопределяется в тестах
	GraphURL string
}

// NewOAuthClient создает OAuth-клиента из конфигурации
func NewOAuthClient(cfg *config.Config) *OAuthClient {
	return &OAuthClient{
		conf: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURI,
			Endpoint:     microsoft.AzureADEndpoint(cfg.OAuth.TenantID),
			Scopes:       []string{"openid", "email", "profile", "User.Read"},
		},
		tenantID: cfg.OAuth.TenantID,
		GraphURL: defaultGraphURL,
	}
}

// AuthCodeURL возвращает адрес авторизации провайдера
func (o *OAuthClient) AuthCodeURL(state string) string {
	return o.conf.AuthCodeURL(state)
}

// Exchange меняет код авторизации на токен
func (o *OAuthClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return o.conf.Exchange(ctx, code)
}

// Principal запрашивает идентификатор пользователя у провайдера
func (o *OAuthClient) Principal(ctx context.Context, token *oauth2.Token) (string, error) {
	client := o.conf.Client(ctx, token)

	resp, err := client.Get(o.GraphURL + "/me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch user profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("user profile request returned %d", resp.StatusCode)
	}

	var profile struct {
		UserPrincipalName string `json:"userPrincipalName"`
		Mail              string `json:"mail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", fmt.Errorf("failed to decode user profile: %w", err)
	}

	if profile.UserPrincipalName != "" {
		return profile.UserPrincipalName, nil
	}
	if profile.Mail != "" {
		return profile.Mail, nil
	}
	return "", fmt.Errorf("user profile has no principal identifier")
}

// LogoutURL возвращает адрес выхода у провайдера
// с возвратом на базовый URI приложения
func (o *OAuthClient) LogoutURL(postLogoutRedirect string) string {
	return fmt.Sprintf(
		"https://login.microsoftonline.com/%s/oauth2/v2.0/logout?post_logout_redirect_uri=%s",
		o.tenantID,
		url.QueryEscape(postLogoutRedirect),
	)
}

// RandomState генерирует state для authorization-code flow
func RandomState() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "state"
	}
	return hex.EncodeToString(buf)
}
