package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"camera-relay/internal/auth"
	"camera-relay/internal/config"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{}
	cfg.OAuth.ClientID = "client-123"
	cfg.OAuth.ClientSecret = "secret-456"
	cfg.OAuth.TenantID = "tenant-789"
	cfg.OAuth.RedirectURI = "http://localhost:5000/login/authorized"

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(auth.SessionMiddleware("test-secret"))

	h := NewAuthHandler(zap.NewNop(), auth.NewOAuthClient(cfg), "http://localhost:5000")
	h.RegisterRoutes(router)

	router.GET("/grant", func(c *gin.Context) {
		if err := auth.Establish(c, c.Query("principal"), "test-token"); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, auth.Principal(c))
	})

	return router
}

func TestLoginRedirectsToProvider(t *testing.T) {
	router := newAuthRouter(t)

	w := doRequest(t, router, http.MethodGet, "/login", "", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}

	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "login.microsoftonline.com/tenant-789") {
		t.Errorf("redirect = %q, want provider authorize URL", loc)
	}
	if !strings.Contains(loc, "state=") {
		t.Errorf("redirect is missing state parameter: %q", loc)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("login did not set a session cookie for the state")
	}
}

func TestAuthorizedReportsProviderError(t *testing.T) {
	router := newAuthRouter(t)

	path := "/login/authorized?error=access_denied&error_reason=user_denied&error_description=declined"
	w := doRequest(t, router, http.MethodGet, path, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "Access denied: reason=user_denied error=declined" {
		t.Errorf("body = %q", got)
	}
}

func TestAuthorizedWithoutCodeIsDenied(t *testing.T) {
	router := newAuthRouter(t)

	w := doRequest(t, router, http.MethodGet, "/login/authorized", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "Access denied:") {
		t.Errorf("body = %q, want access denied", w.Body.String())
	}
}

func TestAuthorizedRejectsStateMismatch(t *testing.T) {
	router := newAuthRouter(t)

	// Берем state из реального /login и подменяем его в коллбеке
	w := doRequest(t, router, http.MethodGet, "/login", "", nil)
	cookies := w.Result().Cookies()

	w = doRequest(t, router, http.MethodGet, "/login/authorized?code=abc&state=forged", "", cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAuthorizedRejectsMissingState(t *testing.T) {
	router := newAuthRouter(t)

	w := doRequest(t, router, http.MethodGet, "/login/authorized?code=abc&state=orphan", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLogoutClearsSessionAndRedirects(t *testing.T) {
	router := newAuthRouter(t)

	w := doRequest(t, router, http.MethodGet, "/grant?principal=operator@example.com", "", nil)
	cookies := w.Result().Cookies()

	w = doRequest(t, router, http.MethodGet, "/logout", "", cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "/oauth2/v2.0/logout") {
		t.Errorf("redirect = %q, want provider logout URL", loc)
	}
	cleared := w.Result().Cookies()
	if len(cleared) > 0 {
		cookies = cleared
	}

	w = doRequest(t, router, http.MethodGet, "/whoami", "", cookies)
	if w.Body.String() != "" {
		t.Errorf("principal after logout = %q, want empty", w.Body.String())
	}
}
