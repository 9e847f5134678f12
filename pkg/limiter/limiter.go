package limiter

import (
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// AnonymousKey is used for callers that do not identify an operator.
const AnonymousKey = "anonymous"

// Store hands out one token bucket per operator: operator -> rate limiter
type Store struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewStore(defaultRate rate.Limit, defaultBurst int) *Store {
	return &Store{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func normalizeKey(operator string) string {
	operator = strings.ToLower(strings.TrimSpace(operator))
	if operator == "" {
		return AnonymousKey
	}
	return operator
}

func (s *Store) GetLimiter(operator string) *rate.Limiter {
	key := normalizeKey(operator)

	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[key] = limiter
	}
	return limiter
}

// SetLimiter overrides the bucket of a single operator, e.g. a supervisor
// console that acknowledges in bulk.
func (s *Store) SetLimiter(operator string, operatorRate rate.Limit, operatorBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[normalizeKey(operator)] = rate.NewLimiter(operatorRate, operatorBurst)
}

func (s *Store) Allow(operator string) bool {
	return s.GetLimiter(operator).Allow()
}
