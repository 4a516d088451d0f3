package llm

import (
	"context"
	"strings"

	"levelup/ports"
)

// MockChatClient is a canned chat client for testing
type MockChatClient struct {
	Response string   // Set this for testing
	Models   []string // Returned from ListModels
	Error    error    // Set this to simulate errors

	// Requests records every request seen, for assertions.
	Requests []ports.ChatRequest
}

func (m *MockChatClient) StreamCompletion(_ context.Context, req ports.ChatRequest, onFragment func(string)) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Error != nil {
		return "", m.Error
	}
	reply := m.reply()
	// Stream word-ish fragments so callers exercise reassembly.
	for _, frag := range strings.SplitAfter(reply, " ") {
		if onFragment != nil && frag != "" {
			onFragment(frag)
		}
	}
	return reply, nil
}

func (m *MockChatClient) Completion(_ context.Context, req ports.ChatRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Error != nil {
		return "", m.Error
	}
	return m.reply(), nil
}

func (m *MockChatClient) ListModels(context.Context) ([]string, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	if m.Models != nil {
		return m.Models, nil
	}
	return []string{"mock-model"}, nil
}

func (m *MockChatClient) reply() string {
	if m.Response != "" {
		return m.Response
	}
	return "### 学习评估\n\n**保持节奏**，今天的安排没有问题。\n- 先攻最薄弱的科目\n- 番茄钟之间别刷手机"
}
