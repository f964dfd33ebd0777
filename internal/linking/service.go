package linking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrTokenNotFound         = errors.New("link token not found or expired")
	ErrTokenAlreadyUsed      = errors.New("link token was already used")
	ErrFailedToGenerateToken = errors.New("failed to generate link token")
)

const (
	linkTokenTTL         = 10 * time.Minute
	linkTokenLengthBytes = 16
)

type LinkTokenInfo struct {
	UserID    string
	ExpiresAt time.Time
	Used      bool
}

// Service hands out one-shot tokens that tie a Telegram chat to a web user.
type Service struct {
	tokens map[string]LinkTokenInfo
	mu     sync.RWMutex
	now    func() time.Time
}

// NewService starts a cleanup loop that runs until ctx is cancelled.
func NewService(ctx context.Context) *Service {
	s := &Service{
		tokens: make(map[string]LinkTokenInfo),
		now:    time.Now,
	}
	go s.cleanupExpiredTokens(ctx)
	return s
}

func (s *Service) GenerateLinkToken(userID string) (string, error) {
	bytes := make([]byte, linkTokenLengthBytes)
	if _, err := rand.Read(bytes); err != nil {
		logrus.Errorf("Failed to read random bytes for link token: %v", err)
		return "", ErrFailedToGenerateToken
	}
	token := hex.EncodeToString(bytes)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = LinkTokenInfo{
		UserID:    userID,
		ExpiresAt: s.now().Add(linkTokenTTL),
	}
	logrus.Debugf("Issued link token for user %s, expires at %v", userID, s.tokens[token].ExpiresAt)
	return token, nil
}

func (s *Service) ValidateAndUseLinkToken(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, exists := s.tokens[token]
	if !exists {
		logrus.Warn("Attempt to use unknown link token")
		return "", ErrTokenNotFound
	}

	if s.now().After(info.ExpiresAt) {
		logrus.Warnf("Attempt to use link token expired at %v", info.ExpiresAt)
		delete(s.tokens, token)
		return "", ErrTokenNotFound
	}

	if info.Used {
		logrus.Warnf("Attempt to reuse link token of user %s", info.UserID)
		return "", ErrTokenAlreadyUsed
	}

	info.Used = true
	s.tokens[token] = info

	logrus.Infof("Link token used for user %s", info.UserID)
	return info.UserID, nil
}

func (s *Service) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for token, info := range s.tokens {
		if now.After(info.ExpiresAt) || info.Used {
			delete(s.tokens, token)
		}
	}
}

func (s *Service) cleanupExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(linkTokenTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purge()
		}
	}
}
