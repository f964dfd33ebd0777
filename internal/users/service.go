package users

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound                       = errors.New("user not found")
	ErrTelegramIDAlreadyLinkedToOtherUser = errors.New("this Telegram account is linked to another user")
	ErrTelegramIDAlreadyLinkedToThisUser  = errors.New("this Telegram account is already linked to your profile")
)

// Store is implemented by Repository and FirestoreRepository. Lookups return
// nil, nil when nothing matches.
type Store interface {
	EnsureProfile(ctx context.Context, userID string, email *string) (*Profile, error)
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
	AddTelegramID(ctx context.Context, userID string, telegramID int64) (pq.Int64Array, error)
	GetProfileByTelegramID(ctx context.Context, telegramID int64) (*Profile, error)
}

type Service struct {
	repo Store
}

func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// EnsureProfile creates the profile on first sight of userID.
func (s *Service) EnsureProfile(ctx context.Context, userID string, email *string) (*Profile, error) {
	p, err := s.repo.EnsureProfile(ctx, userID, email)
	if err != nil {
		logrus.Errorf("Failed to ensure profile for user %s: %v", userID, err)
		return nil, err
	}
	return p, nil
}

func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	ok, err := s.repo.IsAdmin(ctx, userID)
	if err != nil {
		logrus.Errorf("Failed to check admin status for user %s: %v", userID, err)
		return false, err
	}
	return ok, nil
}

func (s *Service) LinkTelegramAccount(ctx context.Context, userID string, telegramID int64) error {
	existing, err := s.repo.GetProfileByTelegramID(ctx, telegramID)
	if err != nil {
		logrus.Errorf("Failed to check existing link for telegram id %d: %v", telegramID, err)
		return err
	}
	if existing != nil && existing.UserID != userID {
		logrus.Warnf("Telegram id %d is already linked to user %s, refusing link to %s", telegramID, existing.UserID, userID)
		return ErrTelegramIDAlreadyLinkedToOtherUser
	}
	if existing != nil {
		return ErrTelegramIDAlreadyLinkedToThisUser
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrUserNotFound
	}

	if _, err := s.repo.AddTelegramID(ctx, userID, telegramID); err != nil {
		logrus.Errorf("Failed to link telegram id %d to user %s: %v", telegramID, userID, err)
		return err
	}

	logrus.Infof("Telegram id %d linked to user %s", telegramID, userID)
	return nil
}

func (s *Service) FindByTelegramID(ctx context.Context, telegramID int64) (*Profile, error) {
	p, err := s.repo.GetProfileByTelegramID(ctx, telegramID)
	if err != nil {
		logrus.Errorf("Failed to find user by telegram id %d: %v", telegramID, err)
		return nil, err
	}
	if p == nil {
		return nil, ErrUserNotFound
	}
	return p, nil
}
