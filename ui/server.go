package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"levelup/app"
	"levelup/internal/api"
	"levelup/internal/config"
	"levelup/internal/errors"
	"levelup/internal/logx"
)

// Server is the HTTP surface over the application services.
type Server struct {
	router     *gin.Engine
	hub        *api.Hub
	timers     *app.TimerService
	settlement *app.SettlementService
	coach      *app.CoachService
	progress   *app.ProgressService
	insights   *app.InsightService
	backups    *app.BackupService
	settings   *app.SettingsService
	log        *logx.Logger
}

// NewServer wires the services into a router.
func NewServer(cfg *config.Config, hub *api.Hub, timers *app.TimerService, settlement *app.SettlementService, coach *app.CoachService, progress *app.ProgressService, insights *app.InsightService, backups *app.BackupService, settings *app.SettingsService, log *logx.Logger) *Server {
	if log == nil {
		log = logx.Default
	}
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:     gin.New(),
		hub:        hub,
		timers:     timers,
		settlement: settlement,
		coach:      coach,
		progress:   progress,
		insights:   insights,
		backups:    backups,
		settings:   settings,
		log:        log,
	}
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/api/events", s.hub.HandleSSE)

	timer := s.router.Group("/api/timer")
	{
		timer.GET("/state", s.handleTimerState)
		timer.POST("/start", s.handleTimerStart)
		timer.POST("/pause", s.handleTimerPause)
		timer.POST("/resume", s.handleTimerResume)
		timer.POST("/stop", s.handleTimerStop)
		timer.POST("/commit", s.handleCommit)
		timer.POST("/discard", s.handleDiscard)
		timer.POST("/log", s.handleManualLog)
	}

	s.router.GET("/api/today", s.handleToday)
	s.router.GET("/api/history", s.handleHistory)
	s.router.GET("/api/history/:date", s.handleHistoryDay)
	s.router.GET("/api/progression", s.handleProgression)
	s.router.GET("/api/insights", s.handleInsights)
	s.router.POST("/api/settlement/run", s.handleSettlementRun)

	progress := s.router.Group("/api/progress")
	{
		progress.GET("", s.handleProgressBoard)
		progress.PUT("/:subject", s.handleProgressSet)
	}

	chat := s.router.Group("/api/chat")
	{
		chat.GET("/history", s.handleChatHistory)
		chat.POST("/send", s.handleChatSend)
		chat.POST("/read", s.handleChatMarkRead)
		chat.GET("/unread", s.handleChatUnread)
		chat.DELETE("/history", s.handleChatClear)
		chat.GET("/models", s.handleChatModels)
		chat.GET("/quote", s.handleQuote)
	}

	data := s.router.Group("/api/data")
	{
		data.GET("/export", s.handleExport)
		data.GET("/export.xlsx", s.handleExportXLSX)
		data.POST("/import", s.handleImport)
		data.POST("/clear", s.handleClear)
	}

	s.router.GET("/api/settings", s.handleSettingsGet)
	s.router.PUT("/api/settings", s.handleSettingsPut)
}

// Run serves until the context ends, then drains with a short grace
// period.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sse_clients": s.hub.ClientCount()})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("[HTTP] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// respondError maps the error taxonomy onto HTTP statuses. The code
// travels with the body so clients can branch without parsing messages.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput, errors.CodeInvalidDuration:
		status = http.StatusBadRequest
	case errors.CodeInsufficientBalance:
		status = http.StatusConflict
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeExternalService:
		status = http.StatusBadGateway
	case errors.CodePersistenceFailure:
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
