package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"levelup/domain/timer"
	"levelup/internal/errors"
)

type startRequest struct {
	Mode    string `json:"mode" binding:"required"`
	Minutes int    `json:"minutes"`
}

func (s *Server) handleTimerState(c *gin.Context) {
	c.JSON(http.StatusOK, s.timers.State(c.Request.Context()))
}

func (s *Server) handleTimerStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("mode is required"))
		return
	}
	state, err := s.timers.Start(c.Request.Context(), timer.Mode(req.Mode), req.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleTimerPause(c *gin.Context) {
	state, err := s.timers.Pause(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleTimerResume(c *gin.Context) {
	state, err := s.timers.Resume(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleTimerStop(c *gin.Context) {
	state, err := s.timers.Stop(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type commitRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Server) handleCommit(c *gin.Context) {
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("content is required"))
		return
	}
	result, err := s.timers.Commit(c.Request.Context(), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	if subject, err := s.progress.AppendCheckIn(c.Request.Context(), req.Content); err != nil {
		s.log.Warn("[HTTP] progress check-in failed: %v", err)
	} else if subject != "" {
		s.log.Debug("[HTTP] check-in appended to %s", subject)
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDiscard(c *gin.Context) {
	if err := s.timers.DiscardPending(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}

type manualLogRequest struct {
	Content string `json:"content" binding:"required"`
	Minutes int    `json:"minutes" binding:"required"`
}

func (s *Server) handleManualLog(c *gin.Context) {
	var req manualLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("content and minutes are required"))
		return
	}
	result, err := s.timers.ManualLog(c.Request.Context(), req.Content, req.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}
	if subject, err := s.progress.AppendCheckIn(c.Request.Context(), req.Content); err != nil {
		s.log.Warn("[HTTP] progress check-in failed: %v", err)
	} else if subject != "" {
		s.log.Debug("[HTTP] check-in appended to %s", subject)
	}
	c.JSON(http.StatusOK, result)
}
