package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"levelup/internal/errors"
)

type chatSendRequest struct {
	Message string `json:"message" binding:"required"`
}

// handleChatSend relays one message to the coach. Fragments stream over
// the events channel while this request is in flight; the response
// carries the final rendered reply.
func (s *Server) handleChatSend(c *gin.Context) {
	var req chatSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("message is required"))
		return
	}
	entry, err := s.coach.Send(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleChatHistory(c *gin.Context) {
	transcript, err := s.coach.Transcript(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": transcript, "enabled": s.coach.Enabled()})
}

func (s *Server) handleChatUnread(c *gin.Context) {
	n, err := s.coach.UnreadCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (s *Server) handleChatMarkRead(c *gin.Context) {
	if err := s.coach.MarkRead(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": 0})
}

func (s *Server) handleChatClear(c *gin.Context) {
	if err := s.coach.ClearTranscript(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) handleChatModels(c *gin.Context) {
	ids, err := s.coach.Models(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": ids})
}

func (s *Server) handleQuote(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"quote": s.coach.DailyQuote()})
}
