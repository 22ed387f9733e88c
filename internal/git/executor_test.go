package git

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// mockGitExecutor answers git invocations from a fixed table keyed by the
// space-joined arguments
type mockGitExecutor struct {
	mu      sync.Mutex
	outputs map[string]string
	errors  map[string]error
	calls   []string
}

func newMockGitExecutor(outputs map[string]string, errors map[string]error) *mockGitExecutor {
	return &mockGitExecutor{outputs: outputs, errors: errors}
}

func (m *mockGitExecutor) Execute(ctx context.Context, args ...string) ([]byte, error) {
	key := strings.Join(args, " ")
	m.mu.Lock()
	m.calls = append(m.calls, key)
	m.mu.Unlock()
	if err, ok := m.errors[key]; ok {
		return nil, err
	}
	if output, ok := m.outputs[key]; ok {
		return []byte(output), nil
	}
	return nil, fmt.Errorf("unexpected command: git %s", key)
}
