package instructions

import (
	"context"
	"errors"
	"time"

	"genstudio/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRevisionLimit = 10

type Store interface {
	Get(ctx context.Context) (Instructions, error)
	Save(ctx context.Context, ins Instructions, rev Revision) error
	Revisions(ctx context.Context, limit int) ([]Revision, error)
	Revision(ctx context.Context, id string) (Revision, error)
}

type Service struct {
	store   Store
	cache   Cache
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService wires a store with an optional cache; cache may be nil.
func NewService(store Store, cache Cache, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		cache:   cache,
		metrics: m,
		now:     time.Now,
	}
}

// Load returns the current instructions or ErrNotFound. Found documents are
// cached; a missing document is looked up again on the next call.
func (s *Service) Load(ctx context.Context) (Instructions, error) {
	if s.cache != nil {
		ins, err := s.cache.Get(ctx)
		if err == nil {
			s.metrics.InstructionsCache(true)
			return ins, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logrus.Warnf("Instructions cache read failed: %v", err)
		}
		s.metrics.InstructionsCache(false)
	}

	ins, err := s.store.Get(ctx)
	if err != nil {
		return Instructions{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ins); err != nil {
			logrus.Warnf("Instructions cache write failed: %v", err)
		}
	}
	return ins, nil
}

// Save replaces the current instructions and records a revision.
func (s *Service) Save(ctx context.Context, ins Instructions, updatedBy string) (Instructions, error) {
	now := s.now().UTC()
	ins.UpdatedBy = updatedBy
	ins.UpdatedAt = now

	rev := Revision{
		ID:               uuid.New().String(),
		MainInstructions: ins.MainInstructions,
		Personality:      ins.Personality,
		Capabilities:     ins.Capabilities,
		Limitations:      ins.Limitations,
		UpdatedBy:        updatedBy,
		CreatedAt:        now,
	}

	if err := s.store.Save(ctx, ins, rev); err != nil {
		logrus.Errorf("Failed to save system instructions by %s: %v", updatedBy, err)
		return Instructions{}, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logrus.Warnf("Instructions cache invalidation failed: %v", err)
		}
	}

	logrus.Infof("System instructions updated by %s (revision %s)", updatedBy, rev.ID)
	return ins, nil
}

// Revisions returns the newest revisions first; limit <= 0 means the default of 10.
func (s *Service) Revisions(ctx context.Context, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = defaultRevisionLimit
	}
	return s.store.Revisions(ctx, limit)
}

// Restore makes a past revision current again, which itself creates a new revision.
func (s *Service) Restore(ctx context.Context, revisionID, updatedBy string) (Instructions, error) {
	rev, err := s.store.Revision(ctx, revisionID)
	if err != nil {
		return Instructions{}, err
	}
	return s.Save(ctx, rev.Instructions(), updatedBy)
}
