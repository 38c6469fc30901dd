package server

import (
	"fmt"
	"net/http"

	"github.com/davri/kardo/internal/model"
	"github.com/gin-gonic/gin"
)

// handleListArchived returns the archive ledger.
func (s *Server) handleListArchived(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"archived": s.app.Archiver.ArchivedTasks()})
}

type archiveRequest struct {
	IDs []string `json:"ids"`
}

// handleArchiveTasks archives the listed tasks manually.
func (s *Server) handleArchiveTasks(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.IDs) == 0 {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("ids are required"))
		return
	}

	count := s.app.Archiver.ArchiveTasks(req.IDs)
	respondSuccess(c, http.StatusOK, gin.H{"archived": count})
}

// handleRunAutoArchive triggers an immediate auto-archive sweep.
func (s *Server) handleRunAutoArchive(c *gin.Context) {
	count := s.app.Archiver.PerformAutoArchive()
	respondSuccess(c, http.StatusOK, gin.H{"archived": count})
}

// handleRestoreArchived moves an archived task back to done.
func (s *Server) handleRestoreArchived(c *gin.Context) {
	s.app.Archiver.RestoreArchivedTask(c.Param("id"))
	respondSuccess(c, http.StatusOK, gin.H{"archived": s.app.Archiver.ArchivedTasks()})
}

// handleArchiveSettings returns the archive settings.
func (s *Server) handleArchiveSettings(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"settings": s.app.Archiver.Settings()})
}

// handleUpdateArchiveSettings replaces the archive settings.
func (s *Server) handleUpdateArchiveSettings(c *gin.Context) {
	var settings model.ArchiveSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	s.app.Archiver.UpdateSettings(settings)
	respondSuccess(c, http.StatusOK, gin.H{"settings": s.app.Archiver.Settings()})
}
