package generation

import (
	"context"
	"sync"

	"github.com/jonathan/resume-builder/internal/llm"
)

// MockLLMClient is a test double for llm.Client that records tiers called.
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	StreamChatFunc      func(ctx context.Context, system string, turns []llm.Turn, tier llm.ModelTier, onChunk func(string) error) error

	mu    sync.Mutex
	calls []llm.ModelTier
}

func (m *MockLLMClient) record(tier llm.ModelTier) {
	m.mu.Lock()
	m.calls = append(m.calls, tier)
	m.mu.Unlock()
}

func (m *MockLLMClient) callsFor(tier llm.ModelTier) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == tier {
			n++
		}
	}
	return n
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(tier)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.record(tier)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) StreamChat(ctx context.Context, system string, turns []llm.Turn, tier llm.ModelTier, onChunk func(string) error) error {
	m.record(tier)
	if m.StreamChatFunc != nil {
		return m.StreamChatFunc(ctx, system, turns, tier, onChunk)
	}
	return nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string {
	return "mock-" + string(tier)
}

func (m *MockLLMClient) Close() error {
	return nil
}
