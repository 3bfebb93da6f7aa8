package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"camera-relay/internal/camera"
)

// SessionName - имя сессионной куки
const SessionName = "camrelay_session"

// Ключи сессии. Состояние живет в подписанной куке браузера,
// серверной таблицы сессий нет.
const (
	keyPrincipal = "principal"
	keyToken     = "token"
	keyCamera    = "selected_camera_name"
	keyState     = "oauth_state"
)

// SessionMiddleware подключает cookie-сессии с подписью
func SessionMiddleware(secret string) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   12 * 60 * 60,
	})
	return sessions.Sessions(SessionName, store)
}

// Principal возвращает идентификатор пользователя из сессии
func Principal(c *gin.Context) string {
	v, _ := sessions.Default(c).Get(keyPrincipal).(string)
	return v
}

// Token возвращает токен аутентификации из сессии
func Token(c *gin.Context) string {
	v, _ := sessions.Default(c).Get(keyToken).(string)
	return v
}

// Establish сохраняет аутентифицированную сессию после OAuth-коллбека
func Establish(c *gin.Context, principal, token string) error {
	sess := sessions.Default(c)
	sess.Set(keyPrincipal, principal)
	sess.Set(keyToken, token)
	sess.Delete(keyState)
	return sess.Save()
}

// Clear снимает аутентификацию: токен и principal стираются,
// сессия сразу становится анонимной
func Clear(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	return sess.Save()
}

// SetState сохраняет OAuth state до редиректа на провайдера
func SetState(c *gin.Context, state string) error {
	sess := sessions.Default(c)
	sess.Set(keyState, state)
	return sess.Save()
}

// State возвращает сохраненный OAuth state
func State(c *gin.Context) string {
	v, _ := sessions.Default(c).Get(keyState).(string)
	return v
}

// SelectedCamera возвращает выбранную камеру сессии.
// Если выбор еще не сделан, берется первая камера реестра.
func SelectedCamera(c *gin.Context, reg *camera.Registry) camera.Camera {
	name, _ := sessions.Default(c).Get(keyCamera).(string)
	if name != "" {
		if cam, ok := reg.Lookup(name); ok {
			return cam
		}
	}
	return reg.First()
}

// SetSelectedCamera меняет выбор камеры.
// Неизвестные имена молча игнорируются: выбор не меняется.
func SetSelectedCamera(c *gin.Context, reg *camera.Registry, name string) error {
	if _, ok := reg.Lookup(name); !ok {
		return nil
	}
	sess := sessions.Default(c)
	sess.Set(keyCamera, name)
	return sess.Save()
}
