package server

import (
	"fmt"
	"net/http"

	"github.com/davri/kardo/internal/core"
	"github.com/davri/kardo/internal/model"
	"github.com/gin-gonic/gin"
)

type boardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type columnRequest struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

// handleListBoards returns every board plus the favorites set.
func (s *Server) handleListBoards(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{
		"boards":    s.app.Boards.Boards(),
		"favorites": s.app.Boards.FavoriteBoards(),
	})
}

// handleCurrentBoard returns the currently selected board.
func (s *Server) handleCurrentBoard(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"board": s.app.Boards.CurrentBoard()})
}

// handleCreateBoard rejects empty names at the boundary, then appends the
// board. The new board is not auto-selected.
func (s *Server) handleCreateBoard(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil || *req.Name == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}

	input := core.BoardInput{Name: *req.Name}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Color != nil {
		input.Color = *req.Color
	}

	board := s.app.Boards.AddBoard(input)
	respondSuccess(c, http.StatusCreated, gin.H{"board": board})
}

// handleUpdateBoard merges a patch into a board.
func (s *Server) handleUpdateBoard(c *gin.Context) {
	id := c.Param("id")

	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name != nil && *req.Name == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("name cannot be empty"))
		return
	}

	s.app.Boards.UpdateBoard(id, model.BoardPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})

	board := s.app.Boards.GetBoard(id)
	if board == nil {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("board not found"))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"board": board})
}

// handleDeleteBoard asks the store to delete; the default and last boards
// survive the attempt unchanged.
func (s *Server) handleDeleteBoard(c *gin.Context) {
	s.app.Boards.DeleteBoard(c.Param("id"))
	respondSuccess(c, http.StatusOK, gin.H{"boards": s.app.Boards.Boards()})
}

// handleSelectBoard switches the current-board pointer.
func (s *Server) handleSelectBoard(c *gin.Context) {
	s.app.Boards.SetCurrentBoard(c.Param("id"))
	respondSuccess(c, http.StatusOK, gin.H{"board": s.app.Boards.CurrentBoard()})
}

// handleFavoriteBoard toggles favorite membership.
func (s *Server) handleFavoriteBoard(c *gin.Context) {
	s.app.Boards.ToggleFavoriteBoard(c.Param("id"))
	respondSuccess(c, http.StatusOK, gin.H{"favorites": s.app.Boards.FavoriteBoards()})
}

// handleAddColumn appends a display lane to a board.
func (s *Server) handleAddColumn(c *gin.Context) {
	var req columnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil || *req.Title == "" || req.Status == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title and status are required"))
		return
	}

	s.app.Boards.AddColumn(c.Param("id"), *req.Title, model.Status(*req.Status))
	respondBoard(s, c)
}

// handleRenameColumn updates a column title.
func (s *Server) handleRenameColumn(c *gin.Context) {
	var req columnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	s.app.Boards.RenameColumn(c.Param("id"), c.Param("columnID"), *req.Title)
	respondBoard(s, c)
}

// handleDeleteColumn removes a display lane.
func (s *Server) handleDeleteColumn(c *gin.Context) {
	s.app.Boards.DeleteColumn(c.Param("id"), c.Param("columnID"))
	respondBoard(s, c)
}

func respondBoard(s *Server, c *gin.Context) {
	board := s.app.Boards.GetBoard(c.Param("id"))
	if board == nil {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("board not found"))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"board": board})
}
