package ui

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"levelup/domain/core"
	"levelup/internal/errors"
)

func (s *Server) handleToday(c *gin.Context) {
	record, err := s.timers.Today(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleHistory(c *gin.Context) {
	history, err := s.timers.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) handleHistoryDay(c *gin.Context) {
	date, err := core.ParseDate(c.Param("date"))
	if err != nil {
		respondError(c, errors.InvalidInput("date must be YYYY-MM-DD"))
		return
	}
	history, err := s.timers.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	record := history.Find(date)
	if record == nil {
		respondError(c, errors.NotFound(fmt.Sprintf("no record for %s", date)))
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleProgression(c *gin.Context) {
	view, err := s.progress.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleInsights(c *gin.Context) {
	view, err := s.insights.Insights(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleSettlementRun(c *gin.Context) {
	result, err := s.settlement.RunDaily(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleProgressBoard(c *gin.Context) {
	board, err := s.progress.Board(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

type progressSetRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleProgressSet(c *gin.Context) {
	var req progressSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid request body"))
		return
	}
	if err := s.progress.SetSubject(c.Request.Context(), c.Param("subject"), req.Content); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
