package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// captchaTTL is how long a challenge stays redeemable.
const captchaTTL = 5 * time.Minute

type captcha struct {
	answer  string
	expires time.Time
}

// CaptchaStore tracks issued captcha challenges. A challenge is single-use:
// redeeming it, correctly or not, consumes it.
type CaptchaStore struct {
	mu     sync.Mutex
	issued map[string]captcha
	now    func() time.Time
}

// NewCaptchaStore creates an empty CaptchaStore.
func NewCaptchaStore() *CaptchaStore {
	return &CaptchaStore{
		issued: make(map[string]captcha),
		now:    time.Now,
	}
}

// Issue stores a challenge answer and returns its opaque token.
func (s *CaptchaStore) Issue(_ context.Context, answer string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Prune expired challenges while we hold the lock.
	now := s.now()
	for tok, c := range s.issued {
		if now.After(c.expires) {
			delete(s.issued, tok)
		}
	}

	token := uuid.NewString()
	s.issued[token] = captcha{answer: answer, expires: now.Add(captchaTTL)}
	return token
}

// Redeem consumes a challenge and reports whether the answer matched.
// Unknown tokens, expired challenges, and wrong answers all return false.
func (s *CaptchaStore) Redeem(_ context.Context, token, answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.issued[token]
	if !ok {
		return false
	}
	delete(s.issued, token)
	if s.now().After(c.expires) {
		return false
	}
	return strings.EqualFold(c.answer, answer)
}
