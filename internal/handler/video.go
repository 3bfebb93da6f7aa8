package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"camera-relay/internal/auth"
	"camera-relay/internal/camera"
	"camera-relay/internal/relay"
	"camera-relay/internal/stats"
)

// SourceOpener открывает источник кадров для камеры.
// В проде сюда подставляется capture.Open, в тестах - фейковый источник.
type SourceOpener func(cam camera.Camera) (relay.Source, error)

// VideoHandler обрабатывает запросы видеопотока
type VideoHandler struct {
	logger       *zap.Logger
	registry     *camera.Registry
	stats        *stats.Registry
	opener       SourceOpener
	skipInterval int
	wsUpgrader   websocket.Upgrader
}

// NewVideoHandler создает новый хендлер
func NewVideoHandler(
	logger *zap.Logger,
	registry *camera.Registry,
	statsReg *stats.Registry,
	opener SourceOpener,
	skipInterval int,
	enableCORS bool,
	allowedOrigins []string,
) *VideoHandler {
	return &VideoHandler{
		logger:       logger,
		registry:     registry,
		stats:        statsReg,
		opener:       opener,
		skipInterval: skipInterval,
		wsUpgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if !enableCORS {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// RegisterRoutes регистрирует маршруты за auth gate
func (h *VideoHandler) RegisterRoutes(router *gin.Engine, gate gin.HandlerFunc) {
	router.GET("/video_feed", gate, h.Feed)
	router.GET("/ws/video_feed", gate, h.FeedWS)
	router.GET("/api/status", gate, h.Status)
}

// Feed стримит multipart JPEG поток выбранной камеры.
// Одна ретрансляция на одного зрителя, соединение с камерой
// принадлежит этому запросу и закрывается вместе с ним.
func (h *VideoHandler) Feed(c *gin.Context) {
	cam := auth.SelectedCamera(c, h.registry)

	src, err := h.opener(cam)
	if err != nil {
		// Камера недоступна - отдаем пустой поток, без ошибки зрителю
		h.logger.Warn("Camera unreachable",
			zap.String("camera", cam.Name),
			zap.Error(err))
		c.Status(http.StatusOK)
		return
	}
	defer src.Close()

	id := h.stats.Begin(auth.Principal(c), cam.Name)
	defer h.stats.End(id)

	h.logger.Info("Video feed started",
		zap.String("camera", cam.Name),
		zap.String("principal", auth.Principal(c)),
		zap.String("client_ip", c.ClientIP()))

	c.Header("Content-Type", relay.ContentType)
	c.Status(http.StatusOK)

	rel := relay.New(src, h.skipInterval)
	rel.OnFrame = func(size int) {
		h.stats.Update(id, size)
	}

	emitted := rel.Stream(c.Writer)

	h.logger.Info("Video feed finished",
		zap.String("camera", cam.Name),
		zap.Int64("frames_emitted", emitted),
		zap.Int64("frames_consumed", rel.Count()))
}

// FeedWS отдает тот же поток кадров через WebSocket:
// каждый кадр - одно бинарное сообщение с JPEG
func (h *VideoHandler) FeedWS(c *gin.Context) {
	conn, err := h.wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	cam := auth.SelectedCamera(c, h.registry)

	src, err := h.opener(cam)
	if err != nil {
		h.logger.Warn("Camera unreachable",
			zap.String("camera", cam.Name),
			zap.Error(err))
		return
	}
	defer src.Close()

	id := h.stats.Begin(auth.Principal(c), cam.Name)
	defer h.stats.End(id)

	rel := relay.New(src, h.skipInterval)
	for {
		frame, ok := rel.Next()
		if !ok {
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return
		}
		h.stats.Update(id, len(frame))
	}
}

// Status возвращает живые ретрансляции и накопленные счетчики
func (h *VideoHandler) Status(c *gin.Context) {
	viewers, frames, bytes := h.stats.Totals()

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"viewers":      viewers,
		"total_frames": frames,
		"total_bytes":  bytes,
		"active":       h.stats.Active(),
		"timestamp":    time.Now().Unix(),
	})
}
