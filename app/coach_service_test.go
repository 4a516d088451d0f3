package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"levelup/adapters/llm"
	"levelup/domain/classify"
	"levelup/domain/ledger"
	"levelup/internal/config"
	"levelup/internal/logx"
)

func newCoach(f *fixture, mock *llm.MockChatClient) *CoachService {
	progress := NewProgressService(f.repo, f.clock, classify.New(nil))
	cfg := config.AIConfig{Model: "test-model", MaxTokens: 500, Temperature: 0.7}
	return NewCoachService(f.repo, f.clock, f.hub, mock, progress, cfg, logx.NewDefaultLogger())
}

func TestCoach_SendRecordsTranscript(t *testing.T) {
	f := newFixture()
	mock := &llm.MockChatClient{Response: "**先别慌**，按计划走。"}
	coach := newCoach(f, mock)
	ctx := context.Background()

	entry, err := coach.Send(ctx, "今天状态很差怎么办")
	require.NoError(t, err)
	assert.Equal(t, "assistant", entry.Role)
	assert.Equal(t, "**先别慌**，按计划走。", entry.Content)
	assert.Contains(t, entry.HTML, "<strong>", "replies are rendered to HTML")

	transcript, err := coach.Transcript(ctx)
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, "user", transcript[0].Role)
	assert.Equal(t, "今天状态很差怎么办", transcript[0].Content)
}

func TestCoach_ContextCarriesLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	history := ledger.History{}
	history = history.Upsert(&ledger.DayRecord{
		Date:         f.clock.Today(),
		StudyMinutes: 180,
		Logs:         []ledger.LogEntry{{Content: "线代", DurationMinutes: 180}},
	})
	require.NoError(t, f.repo.SaveHistory(ctx, history))

	mock := &llm.MockChatClient{}
	coach := newCoach(f, mock)
	_, err := coach.Send(ctx, "点评一下")
	require.NoError(t, err)

	require.Len(t, mock.Requests, 1)
	system := mock.Requests[0].Messages[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "180")
	assert.Contains(t, system.Content, "线代")
}

func TestCoach_TranscriptTrimsToCap(t *testing.T) {
	f := newFixture()
	mock := &llm.MockChatClient{Response: "好的"}
	coach := newCoach(f, mock)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		_, err := coach.Send(ctx, fmt.Sprintf("问题 %d", i))
		require.NoError(t, err)
	}

	transcript, err := coach.Transcript(ctx)
	require.NoError(t, err)
	assert.Len(t, transcript, maxChatHistory)
	// The oldest turns fell off the front.
	assert.NotContains(t, transcript[0].Content, "问题 0")
}

func TestCoach_DailyReviewOncePerDay(t *testing.T) {
	f := newFixture()
	mock := &llm.MockChatClient{Response: "昨天不错"}
	coach := newCoach(f, mock)
	ctx := context.Background()

	entry, err := coach.DailyReview(ctx)
	require.NoError(t, err)
	require.NotNil(t, entry)

	unread, err := coach.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	// Second call the same day is a no-op.
	entry, err = coach.DailyReview(ctx)
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Len(t, mock.Requests, 1)

	require.NoError(t, coach.MarkRead(ctx))
	unread, err = coach.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestCoach_DisabledWithoutClient(t *testing.T) {
	f := newFixture()
	progress := NewProgressService(f.repo, f.clock, classify.New(nil))
	coach := NewCoachService(f.repo, f.clock, f.hub, nil, progress, config.AIConfig{}, logx.NewDefaultLogger())
	ctx := context.Background()

	assert.False(t, coach.Enabled())

	_, err := coach.Send(ctx, "在吗")
	assert.Error(t, err)

	entry, err := coach.DailyReview(ctx)
	assert.NoError(t, err)
	assert.Nil(t, entry, "disabled coach skips the review silently")
}

func TestCoach_StreamsFragments(t *testing.T) {
	f := newFixture()
	mock := &llm.MockChatClient{Response: "one two three"}
	coach := newCoach(f, mock)

	entry, err := coach.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "one two three", entry.Content)
}

func TestCoach_ClearTranscript(t *testing.T) {
	f := newFixture()
	mock := &llm.MockChatClient{Response: "好的"}
	coach := newCoach(f, mock)
	ctx := context.Background()

	_, err := coach.Send(ctx, "第一条")
	require.NoError(t, err)
	require.NoError(t, coach.ClearTranscript(ctx))

	transcript, err := coach.Transcript(ctx)
	require.NoError(t, err)
	assert.Empty(t, transcript)
}

func TestCoach_DailyQuoteIsStablePerDay(t *testing.T) {
	f := newFixture()
	coach := newCoach(f, &llm.MockChatClient{})

	first := coach.DailyQuote()
	assert.Equal(t, first, coach.DailyQuote())
	assert.True(t, strings.TrimSpace(first) != "")
}
