package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"

	"levelup/domain/core"
	"levelup/domain/ledger"
	"levelup/internal/api"
	"levelup/internal/config"
	"levelup/internal/errors"
	"levelup/internal/logx"
	"levelup/models"
	"levelup/ports"
)

// maxChatHistory caps the persisted transcript. The oldest turns fall
// off; the model only ever sees the recent window anyway.
const maxChatHistory = 50

// contextTurns is how many recent transcript turns are replayed to the
// model on each request.
const contextTurns = 10

// CoachService drives the AI study coach: streamed conversations over
// the live event stream, the once-a-day review, and the transcript with
// its unread counter. The coach reads the ledger and progress board to
// ground its replies in what was actually studied.
type CoachService struct {
	repo     *StateRepository
	clock    ports.Clock
	hub      *api.Hub
	chat     ports.ChatClient
	progress *ProgressService
	cfg      config.AIConfig
	log      *logx.Logger
}

// NewCoachService builds the coach. A nil chat client disables the
// coach entirely; every entry point then reports it as unconfigured.
func NewCoachService(repo *StateRepository, clock ports.Clock, hub *api.Hub, chat ports.ChatClient, progress *ProgressService, cfg config.AIConfig, log *logx.Logger) *CoachService {
	if log == nil {
		log = logx.Default
	}
	return &CoachService{
		repo:     repo,
		clock:    clock,
		hub:      hub,
		chat:     chat,
		progress: progress,
		cfg:      cfg,
		log:      log,
	}
}

// Enabled reports whether a chat backend is configured.
func (s *CoachService) Enabled() bool {
	return s.chat != nil
}

// Send streams one user message to the coach. Fragments are broadcast
// as they arrive; the assembled reply is persisted to the transcript
// and returned rendered to HTML.
func (s *CoachService) Send(ctx context.Context, text string) (*models.ChatEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.InvalidInput("message is empty")
	}
	if !s.Enabled() {
		return nil, errors.ExternalServiceError("chat", fmt.Errorf("no API key configured"))
	}

	messages, err := s.buildContext(ctx, text)
	if err != nil {
		return nil, err
	}

	reply, err := s.chat.StreamCompletion(ctx, ports.ChatRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}, func(fragment string) {
		s.hub.Broadcast(api.EventChatFragment, map[string]interface{}{
			"fragment": fragment,
		})
	})
	if err != nil {
		return nil, errors.ExternalServiceError("chat", err)
	}

	entry := s.record(ctx, text, reply, false)
	s.hub.Broadcast(api.EventChatDone, map[string]interface{}{
		"id":   entry.ID.String(),
		"html": entry.HTML,
	})
	return entry, nil
}

// DailyReview generates the coach's unsolicited once-a-day summary of
// yesterday. The persisted marker keeps it to one per calendar day; the
// reply lands in the transcript as unread.
func (s *CoachService) DailyReview(ctx context.Context) (*models.ChatEntry, error) {
	if !s.Enabled() {
		return nil, nil
	}

	today := s.clock.Today()
	last, err := s.repo.LastReviewDate(ctx)
	if err != nil {
		return nil, err
	}
	if last >= today {
		return nil, nil
	}

	prompt := "请根据我的学习数据，对昨天的学习情况做一个简短的总结和点评，并给出今天的建议。"
	messages, err := s.buildContext(ctx, prompt)
	if err != nil {
		return nil, err
	}

	reply, err := s.chat.Completion(ctx, ports.ChatRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return nil, errors.ExternalServiceError("chat", err)
	}

	entry := s.record(ctx, "", reply, true)
	if err := s.repo.SaveLastReviewDate(ctx, today); err != nil {
		s.log.Warn("[COACH] review marker write failed: %v", err)
	}
	return entry, nil
}

// buildContext assembles the system prompt and recent turns. The system
// prompt carries the persona plus a live snapshot of the ledger, the
// progress board and the current study stage.
func (s *CoachService) buildContext(ctx context.Context, userText string) ([]ports.ChatMessage, error) {
	persona := s.cfg.Persona
	if persona == "" {
		persona = config.DefaultPersona
	}

	var sb strings.Builder
	sb.WriteString(persona)
	if s.cfg.Background != "" {
		sb.WriteString("\n\n学生背景：")
		sb.WriteString(s.cfg.Background)
	}

	today := s.clock.Today()
	history, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}

	sb.WriteString("\n\n当前阶段：")
	stage := stageInfo(s.clock.Now().Month())
	sb.WriteString(stage.Name)
	sb.WriteString("。")
	sb.WriteString(stage.Advice)

	sb.WriteString(fmt.Sprintf("\n累计学习 %.1f 小时。", float64(history.TotalStudyMinutes())/60.0))
	sb.WriteString(dayLine("今天", history.Find(today)))
	sb.WriteString(dayLine("昨天", history.Find(today.Prev())))

	if board, err := s.progress.Board(ctx); err == nil {
		var lines []string
		for _, subject := range s.progress.classifier.Subjects() {
			entry := board[subject.Key]
			if entry.Content == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s：%s", subject.Name, tailLines(entry.Content, 3)))
		}
		if len(lines) > 0 {
			sb.WriteString("\n\n各科进度：\n")
			sb.WriteString(strings.Join(lines, "\n"))
		}
	}

	messages := []ports.ChatMessage{{Role: "system", Content: sb.String()}}

	transcript, err := s.repo.ChatHistory(ctx)
	if err != nil {
		return nil, err
	}
	start := len(transcript) - contextTurns
	if start < 0 {
		start = 0
	}
	for _, m := range transcript[start:] {
		messages = append(messages, ports.ChatMessage{Role: m.Role, Content: m.Content})
	}

	if userText != "" {
		messages = append(messages, ports.ChatMessage{Role: "user", Content: userText})
	}
	return messages, nil
}

func dayLine(label string, rec *ledger.DayRecord) string {
	if rec == nil {
		return fmt.Sprintf("\n%s还没有学习记录。", label)
	}
	var logs []string
	for _, l := range rec.Logs {
		logs = append(logs, fmt.Sprintf("%s(%d分钟)", l.Content, l.DurationMinutes))
	}
	line := fmt.Sprintf("\n%s学习 %d 分钟", label, rec.StudyMinutes)
	if len(logs) > 0 {
		line += "：" + strings.Join(logs, "、")
	}
	return line + "。"
}

// tailLines keeps the last n non-empty lines of a progress entry.
func tailLines(content string, n int) string {
	var lines []string
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "；")
}

// record appends a turn pair to the transcript, trims it to the cap and
// bumps the unread counter for unsolicited replies.
func (s *CoachService) record(ctx context.Context, userText, reply string, unread bool) *models.ChatEntry {
	s.repo.Lock()
	defer s.repo.Unlock()

	transcript, err := s.repo.ChatHistory(ctx)
	if err != nil {
		s.log.Warn("[COACH] transcript load failed: %v", err)
	}

	now := s.clock.Now()
	if userText != "" {
		transcript = append(transcript, models.ChatEntry{
			ID:        core.NewID(),
			Role:      "user",
			Content:   userText,
			Timestamp: now,
		})
	}
	entry := models.ChatEntry{
		ID:        core.NewID(),
		Role:      "assistant",
		Content:   reply,
		HTML:      renderMarkdown(reply),
		Timestamp: now,
	}
	transcript = append(transcript, entry)

	if len(transcript) > maxChatHistory {
		transcript = transcript[len(transcript)-maxChatHistory:]
	}
	if err := s.repo.SaveChatHistory(ctx, transcript); err != nil {
		s.log.Warn("[COACH] transcript write failed: %v", err)
	}

	if unread {
		n, _ := s.repo.UnreadCount(ctx)
		if err := s.repo.SaveUnreadCount(ctx, n+1); err != nil {
			s.log.Warn("[COACH] unread counter write failed: %v", err)
		}
	}
	return &entry
}

// Transcript returns the persisted conversation.
func (s *CoachService) Transcript(ctx context.Context) ([]models.ChatEntry, error) {
	return s.repo.ChatHistory(ctx)
}

// UnreadCount returns the pending unsolicited-message counter.
func (s *CoachService) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.UnreadCount(ctx)
}

// MarkRead clears the unread counter.
func (s *CoachService) MarkRead(ctx context.Context) error {
	s.repo.Lock()
	defer s.repo.Unlock()
	return s.repo.SaveUnreadCount(ctx, 0)
}

// ClearTranscript wipes the conversation.
func (s *CoachService) ClearTranscript(ctx context.Context) error {
	s.repo.Lock()
	defer s.repo.Unlock()
	if err := s.repo.SaveChatHistory(ctx, []models.ChatEntry{}); err != nil {
		return err
	}
	return s.repo.SaveUnreadCount(ctx, 0)
}

// Models lists the provider's available model identifiers.
func (s *CoachService) Models(ctx context.Context) ([]string, error) {
	if !s.Enabled() {
		return nil, errors.ExternalServiceError("chat", fmt.Errorf("no API key configured"))
	}
	ids, err := s.chat.ListModels(ctx)
	if err != nil {
		return nil, errors.ExternalServiceError("chat", err)
	}
	return ids, nil
}

// zenQuotes rotates daily on the quote endpoint.
var zenQuotes = []string{
	"不积跬步，无以至千里。",
	"耐心和恒心总会得到报酬的。",
	"今天做的每一道题，都是明天分数的一部分。",
	"慢慢来，比较快。",
	"心无旁骛，日拱一卒。",
	"种一棵树最好的时间是十年前，其次是现在。",
	"坚持到最后一刻，才算真正的坚持。",
}

// DailyQuote picks a quote deterministic per calendar day.
func (s *CoachService) DailyQuote() string {
	day := s.clock.Now().YearDay()
	return zenQuotes[day%len(zenQuotes)]
}

func renderMarkdown(text string) string {
	return string(markdown.ToHTML([]byte(text), nil, nil))
}
