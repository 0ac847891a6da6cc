package store

import (
	"context"
	"strings"
	"sync"
)

type learned struct {
	pattern string
	scope   string
	seq     int
}

// Memory keeps aliases in process.
type Memory struct {
	mu      sync.RWMutex
	aliases map[string]learned
	seq     int
}

func NewMemory() *Memory {
	return &Memory{aliases: make(map[string]learned)}
}

// FindMatch prefers the longest pattern, then the most recently saved one.
func (m *Memory) FindMatch(_ context.Context, raw string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	text := strings.ToLower(raw)

	var best learned

	found := false

	for key, a := range m.aliases {
		if !strings.Contains(text, key) {
			continue
		}

		if !found || len(a.pattern) > len(best.pattern) ||
			(len(a.pattern) == len(best.pattern) && a.seq > best.seq) {
			best = a
			found = true
		}
	}

	return best.scope, nil
}

func (m *Memory) Save(_ context.Context, pattern, scopeName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.aliases[strings.ToLower(pattern)] = learned{pattern: pattern, scope: scopeName, seq: m.seq}

	return nil
}
