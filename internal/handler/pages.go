package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"camera-relay/internal/auth"
	"camera-relay/internal/camera"
)

// PagesHandler отдает страницу выбора камеры
type PagesHandler struct {
	logger   *zap.Logger
	registry *camera.Registry
	tmpl     *template.Template
}

// NewPagesHandler создает новый хендлер
func NewPagesHandler(logger *zap.Logger, registry *camera.Registry) *PagesHandler {
	return &PagesHandler{
		logger:   logger,
		registry: registry,
		tmpl:     template.Must(template.New("index").Parse(indexHTML)),
	}
}

// RegisterRoutes регистрирует маршруты.
// Смена камеры - защищенная операция, идет через gate.
func (h *PagesHandler) RegisterRoutes(router *gin.Engine, gate gin.HandlerFunc) {
	router.GET("/", h.Home)
	router.POST("/", gate, h.SelectCamera)
}

// Home рендерит страницу выбора камеры с текущим выбором
func (h *PagesHandler) Home(c *gin.Context) {
	selected := auth.SelectedCamera(c, h.registry)

	data := gin.H{
		"Cameras":       h.registry.Names(),
		"Selected":      selected.Name,
		"Authenticated": auth.Token(c) != "",
		"Principal":     auth.Principal(c),
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.tmpl.Execute(c.Writer, data); err != nil {
		h.logger.Error("Failed to render index page", zap.Error(err))
	}
}

// SelectCamera меняет выбор камеры в сессии и перерисовывает страницу.
// Соединение с камерой здесь не открывается.
func (h *PagesHandler) SelectCamera(c *gin.Context) {
	name := c.PostForm("selected_camera_name")

	if err := auth.SetSelectedCamera(c, h.registry, name); err != nil {
		h.logger.Error("Failed to save camera selection",
			zap.String("camera", name),
			zap.Error(err))
	}

	h.Home(c)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Camera Relay</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .card { border: 1px solid #ddd; padding: 20px; margin: 10px 0; border-radius: 5px; }
        button { padding: 10px 20px; background: #007bff; color: white; border: none; border-radius: 5px; cursor: pointer; }
        button:hover { background: #0056b3; }
        img { max-width: 100%; border-radius: 5px; }
    </style>
</head>
<body>
    <h1>Camera Relay</h1>

    <div class="card">
        {{if .Authenticated}}
        <p>Signed in as <strong>{{.Principal}}</strong> | <a href="/logout">Logout</a></p>
        {{else}}
        <p><a href="/login">Login</a> to view the stream</p>
        {{end}}
    </div>

    <div class="card">
        <form method="POST" action="/">
            <label for="selected_camera_name">Camera:</label>
            <select name="selected_camera_name" id="selected_camera_name">
                {{range .Cameras}}
                <option value="{{.}}" {{if eq . $.Selected}}selected{{end}}>{{.}}</option>
                {{end}}
            </select>
            <button type="submit">Switch</button>
        </form>
    </div>

    <div class="card">
        <img src="/video_feed" alt="{{.Selected}}">
    </div>
</body>
</html>`
