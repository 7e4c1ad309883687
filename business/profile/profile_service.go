package profile

import (
	"context"
	"fmt"
	"time"

	"inkwell/business/scoring"
	"inkwell/domain"
	"inkwell/pkg/logger"
	"inkwell/pkg/metrics"
)

// ActionRepository is the read side of the event store.
type ActionRepository interface {
	QueryRecent(ctx context.Context, userID string, limit int) ([]domain.UserAction, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// ContentRepository resolves the features of action targets in bulk.
type ContentRepository interface {
	GetMany(ctx context.Context, ids []string) (map[string]domain.ContentFeatures, error)
}

// ProfileStore persists built profiles. Put overwrites whole; rebuilds are
// last-writer-wins by design.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Put(ctx context.Context, profile *domain.UserProfile) error
	Delete(ctx context.Context, userID string) error
}

type ProfileService struct {
	actionRepo  ActionRepository
	contentRepo ContentRepository
	store       ProfileStore
	builder     *Builder
	windowSize  int
}

func NewProfileService(
	actionRepo ActionRepository,
	contentRepo ContentRepository,
	store ProfileStore,
	weights scoring.ScoringWeights,
	windowSize int,
) *ProfileService {
	if windowSize <= 0 {
		windowSize = 1000
	}
	return &ProfileService{
		actionRepo:  actionRepo,
		contentRepo: contentRepo,
		store:       store,
		builder:     NewBuilder(weights),
		windowSize:  windowSize,
	}
}

// Refresh rebuilds the profile from the most recent action window and persists
// it. A nil return with nil error means the user has no recorded actions yet;
// any previously stored profile is left untouched in that case.
func (s *ProfileService) Refresh(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}

	actions, err := s.actionRepo.QueryRecent(ctx, userID, s.windowSize)
	if err != nil {
		metrics.ProfileRebuilds.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load action window: %w", err)
	}
	if len(actions) == 0 {
		metrics.ProfileRebuilds.WithLabelValues("insufficient_data").Inc()
		return nil, nil
	}

	targetIDs := make([]string, 0, len(actions))
	seen := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		if _, ok := seen[a.TargetID]; ok {
			continue
		}
		seen[a.TargetID] = struct{}{}
		targetIDs = append(targetIDs, a.TargetID)
	}

	content, err := s.contentRepo.GetMany(ctx, targetIDs)
	if err != nil {
		metrics.ProfileRebuilds.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load target content: %w", err)
	}

	p := s.builder.Build(userID, actions, content, time.Now())
	if p == nil {
		metrics.ProfileRebuilds.WithLabelValues("insufficient_data").Inc()
		return nil, nil
	}

	if err := s.store.Put(ctx, p); err != nil {
		metrics.ProfileRebuilds.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("persist profile: %w", err)
	}

	logger.Debug("profile_rebuilt",
		"user_id", userID,
		"actions", len(actions),
		"interests", len(p.Interests),
		"segments", p.Segments,
	)
	metrics.ProfileRebuilds.WithLabelValues("ok").Inc()

	return p, nil
}

// Get returns the persisted profile or domain.ErrNotFound.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	return s.store.Get(ctx, userID)
}

// Delete removes the persisted profile; with cascade it also deletes the
// user's action history.
func (s *ProfileService) Delete(ctx context.Context, userID string, cascade bool) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if cascade {
		if err := s.actionRepo.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete action history: %w", err)
		}
	}

	return nil
}
