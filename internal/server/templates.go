package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/davri/kardo/internal/core"
	"github.com/davri/kardo/internal/model"
	"github.com/gin-gonic/gin"
)

// handleListTemplates returns all templates and the favorites set.
func (s *Server) handleListTemplates(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{
		"templates": s.app.Templates.Templates(),
		"favorites": s.app.Templates.FavoriteTemplates(),
	})
}

type useTemplateRequest struct {
	BoardName string `json:"board_name"`
}

// handleUseTemplate materializes a board from a template.
func (s *Server) handleUseTemplate(c *gin.Context) {
	var req useTemplateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
	}

	board, err := s.app.Templates.CreateBoardFromTemplate(c.Param("id"), req.BoardName)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrTemplateNotFound) {
			status = http.StatusNotFound
		}
		s.respondError(c, status, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"board": board})
}

// handleExportTemplate serializes a template with identity stripped.
func (s *Server) handleExportTemplate(c *gin.Context) {
	payload, err := s.app.Templates.ExportTemplate(c.Param("id"))
	if err != nil {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// handleImportTemplate parses an exported payload into a fresh custom
// template. Malformed payloads leave the store untouched.
func (s *Server) handleImportTemplate(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	tpl, err := s.app.Templates.ImportTemplate(raw)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"template": tpl})
}

// handleUpdateTemplate merges a patch into a custom template.
func (s *Server) handleUpdateTemplate(c *gin.Context) {
	var patch model.TemplatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if patch.Name != nil && *patch.Name == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("name cannot be empty"))
		return
	}

	s.app.Templates.UpdateTemplate(c.Param("id"), patch)

	tpl := s.app.Templates.GetTemplate(c.Param("id"))
	if tpl == nil {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("template not found"))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"template": tpl})
}

// handleDeleteTemplate removes a custom template; defaults survive.
func (s *Server) handleDeleteTemplate(c *gin.Context) {
	s.app.Templates.DeleteTemplate(c.Param("id"))
	respondSuccess(c, http.StatusOK, gin.H{"templates": s.app.Templates.Templates()})
}

// handleFavoriteTemplate toggles favorite membership.
func (s *Server) handleFavoriteTemplate(c *gin.Context) {
	s.app.Templates.ToggleFavoriteTemplate(c.Param("id"))
	respondSuccess(c, http.StatusOK, gin.H{"favorites": s.app.Templates.FavoriteTemplates()})
}
