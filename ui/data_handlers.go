package ui

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"levelup/internal/errors"
	"levelup/models"
)

// maxImportBytes bounds the import payload.
const maxImportBytes = 10 << 20

func (s *Server) handleExport(c *gin.Context) {
	doc, err := s.backups.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="levelup-backup-%s.json"`, time.Now().Format("2006-01-02")))
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	data, err := s.backups.ExportXLSX(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="levelup-history-%s.xlsx"`, time.Now().Format("2006-01-02")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) handleImport(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		respondError(c, errors.InvalidInput("could not read request body"))
		return
	}
	if err := s.backups.Import(c.Request.Context(), raw); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "imported"})
}

type clearRequest struct {
	Confirm string `json:"confirm"`
}

// handleClear wipes all stored data. The confirm token keeps a stray
// POST from destroying months of history.
func (s *Server) handleClear(c *gin.Context) {
	var req clearRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirm != "DELETE" {
		respondError(c, errors.InvalidInput(`clear requires {"confirm":"DELETE"}`))
		return
	}
	if err := s.backups.ClearAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) handleSettingsGet(c *gin.Context) {
	settings, err := s.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleSettingsPut(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		respondError(c, errors.InvalidInput("invalid settings body"))
		return
	}
	updated, err := s.settings.Update(c.Request.Context(), settings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
