package server

import (
	"log/slog"
	"net/http"

	"github.com/davri/kardo/internal/app"
	"github.com/davri/kardo/internal/model"
	"github.com/gin-gonic/gin"
)

// Server provides the HTTP surface over the task, board, template and
// archive stores. It is a thin collaborator: all invariants live in the
// stores, the server only validates input shape at the boundary.
type Server struct {
	engine *gin.Engine
	app    *app.App
	logger *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(application *app.App, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine: router,
		app:    application,
		logger: logger,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/user", s.handleUser)
		api.GET("/stats", s.handleStats)
		api.GET("/palette", s.handlePalette)

		boards := api.Group("/boards")
		{
			boards.GET("", s.handleListBoards)
			boards.POST("", s.handleCreateBoard)
			boards.GET("/current", s.handleCurrentBoard)
			boards.PUT(":id", s.handleUpdateBoard)
			boards.DELETE(":id", s.handleDeleteBoard)
			boards.POST(":id/select", s.handleSelectBoard)
			boards.POST(":id/favorite", s.handleFavoriteBoard)
			boards.GET(":id/tasks", s.handleListTasks)
			boards.POST(":id/tasks", s.handleCreateTask)
			boards.POST(":id/columns", s.handleAddColumn)
			boards.PUT(":id/columns/:columnID", s.handleRenameColumn)
			boards.DELETE(":id/columns/:columnID", s.handleDeleteColumn)
		}

		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/reorder", s.handleReorderTasks)

		templates := api.Group("/templates")
		{
			templates.GET("", s.handleListTemplates)
			templates.POST("/import", s.handleImportTemplate)
			templates.GET(":id/export", s.handleExportTemplate)
			templates.POST(":id/use", s.handleUseTemplate)
			templates.POST(":id/favorite", s.handleFavoriteTemplate)
			templates.PUT(":id", s.handleUpdateTemplate)
			templates.DELETE(":id", s.handleDeleteTemplate)
		}

		archive := api.Group("/archive")
		{
			archive.GET("", s.handleListArchived)
			archive.POST("", s.handleArchiveTasks)
			archive.POST("/run", s.handleRunAutoArchive)
			archive.POST(":id/restore", s.handleRestoreArchived)
			archive.GET("/settings", s.handleArchiveSettings)
			archive.PUT("/settings", s.handleUpdateArchiveSettings)
		}
	}
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUser returns the identity record attached at startup, if any.
func (s *Server) handleUser(c *gin.Context) {
	if s.app.User == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": s.app.User})
}

// handleStats returns the gamification ledger.
func (s *Server) handleStats(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"stats": s.app.Tasks.Stats()})
}

// handlePalette returns the fixed label color palette.
func (s *Server) handlePalette(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"palette": model.Palette})
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
