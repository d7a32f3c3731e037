package messaging

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// HandlerFunc processes one decoded envelope.
type HandlerFunc func(ctx context.Context, env Envelope) error

// Registry maps topic patterns to handlers. Registration is explicit and
// happens at startup; there is no implicit discovery.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

// Register binds a handler to a topic pattern (AMQP "*"/"#" semantics).
// Registering the same pattern twice is a wiring bug.
func (r *Registry) Register(pattern string, h HandlerFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[pattern]; exists {
		return fmt.Errorf("pattern %q already registered", pattern)
	}
	r.handlers[pattern] = h
	return nil
}

// Resolve finds the handler for a routing key. Exact matches win over
// wildcard patterns.
func (r *Registry) Resolve(routingKey string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.handlers[routingKey]; ok {
		return h, true
	}
	for pattern, h := range r.handlers {
		if topicMatch(pattern, routingKey) {
			return h, true
		}
	}
	return nil, false
}

// Patterns lists the registered patterns, sorted for stable logging.
func (r *Registry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patterns := make([]string, 0, len(r.handlers))
	for p := range r.handlers {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	return patterns
}

// topicMatch implements AMQP topic matching: "*" matches exactly one word,
// "#" matches zero or more words.
func topicMatch(pattern, routingKey string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(routingKey, "."))
}

func matchWords(pattern, key []string) bool {
	if len(pattern) == 0 {
		return len(key) == 0
	}
	switch pattern[0] {
	case "#":
		if matchWords(pattern[1:], key) {
			return true
		}
		if len(key) == 0 {
			return false
		}
		return matchWords(pattern, key[1:])
	case "*":
		if len(key) == 0 {
			return false
		}
		return matchWords(pattern[1:], key[1:])
	default:
		if len(key) == 0 || pattern[0] != key[0] {
			return false
		}
		return matchWords(pattern[1:], key[1:])
	}
}
