package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/davri/kardo/internal/core"
	"github.com/davri/kardo/internal/model"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type taskRequest struct {
	Title       *string                  `json:"title"`
	Description *string                  `json:"description"`
	Status      *string                  `json:"status"`
	Priority    *string                  `json:"priority"`
	Points      *int                     `json:"points"`
	DueDate     *string                  `json:"due_date"` // YYYY-MM-DD
	DueTime     *string                  `json:"due_time"` // HH:MM
	Recurrence  *string                  `json:"recurrence"`
	Pattern     *model.RecurrencePattern `json:"recurrence_pattern"`
	Tags        *[]string                `json:"tags"`
	Labels      *[]string                `json:"labels"`
	BoardID     *string                  `json:"board_id"`
}

// handleListTasks returns a board's tasks filtered and sorted per query
// parameters.
func (s *Server) handleListTasks(c *gin.Context) {
	boardID := c.Param("id")
	if s.app.Boards.GetBoard(boardID) == nil {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("board not found"))
		return
	}

	filter := core.Filter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Tag:      c.Query("tag"),
		Label:    c.Query("label"),
		Due:      c.Query("due"),
	}
	sortSpec := core.Sort{
		Field:      core.SortField(c.Query("sort")),
		Descending: c.Query("order") != "asc",
	}
	if c.Query("sort") == "" {
		sortSpec = core.DefaultSort()
	}

	tasks := core.ApplyView(s.app.Tasks.GetTasksByBoard(boardID), filter, sortSpec, time.Now())
	respondSuccess(c, http.StatusOK, gin.H{"tasks": tasks})
}

// handleCreateTask validates the boundary rules (non-empty title, parseable
// due date) and adds the task; the store itself checks shape only.
func (s *Server) handleCreateTask(c *gin.Context) {
	boardID := c.Param("id")
	if s.app.Boards.GetBoard(boardID) == nil {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("board not found"))
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}
	if req.DueDate == nil || *req.DueDate == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("due_date is required"))
		return
	}
	dueDate, err := time.ParseInLocation(dateLayout, *req.DueDate, time.Local)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid due_date: %w", err))
		return
	}
	if req.Labels != nil {
		for _, label := range *req.Labels {
			if !model.ValidLabel(label) {
				s.respondError(c, http.StatusBadRequest, fmt.Errorf("unknown label color %q", label))
				return
			}
		}
	}

	input := core.TaskInput{
		Title:   *req.Title,
		DueDate: dueDate,
		BoardID: boardID,
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Status != nil {
		input.Status = model.Status(*req.Status)
	}
	if req.Priority != nil {
		input.Priority = model.Priority(*req.Priority)
	}
	if req.DueTime != nil {
		input.DueTime = *req.DueTime
	}
	if req.Recurrence != nil {
		input.Recurrence = model.Recurrence(*req.Recurrence)
	}
	input.Pattern = req.Pattern
	if req.Tags != nil {
		input.Tags = *req.Tags
	}
	if req.Labels != nil {
		input.Labels = *req.Labels
	}

	task := s.app.Tasks.AddTask(input)
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateTask merges a patch into an existing task.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id := c.Param("id")

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title != nil && *req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title cannot be empty"))
		return
	}

	patch := model.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueTime:     req.DueTime,
		Pattern:     req.Pattern,
		Tags:        req.Tags,
		Labels:      req.Labels,
		BoardID:     req.BoardID,
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		patch.Priority = &priority
	}
	if req.Points != nil {
		patch.Points = req.Points
	}
	if req.DueDate != nil {
		dueDate, err := time.ParseInLocation(dateLayout, *req.DueDate, time.Local)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid due_date: %w", err))
			return
		}
		patch.DueDate = &dueDate
	}
	if req.Recurrence != nil {
		recurrence := model.Recurrence(*req.Recurrence)
		patch.Recurrence = &recurrence
	}

	s.app.Tasks.UpdateTask(id, patch)

	task := s.app.Tasks.GetTask(id)
	if task == nil {
		s.respondError(c, http.StatusNotFound, fmt.Errorf("task not found"))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task completely. Points already awarded stay
// on the ledger.
func (s *Server) handleDeleteTask(c *gin.Context) {
	s.app.Tasks.DeleteTask(c.Param("id"))
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

type reorderRequest struct {
	DraggedID string `json:"dragged_id"`
	TargetID  string `json:"target_id"`
	Position  string `json:"position"` // before | after
}

// handleReorderTasks moves a task within its column. Cross-status drags
// are declined by the store with no side effects.
func (s *Server) handleReorderTasks(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.DraggedID == "" || req.TargetID == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("dragged_id and target_id are required"))
		return
	}

	s.app.Tasks.ReorderTasks(req.DraggedID, req.TargetID, core.Position(req.Position))
	respondSuccess(c, http.StatusOK, gin.H{"status": "ok"})
}
