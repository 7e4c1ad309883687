package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"inkwell/business/scoring"
	"inkwell/domain"
	"inkwell/pkg/logger"
	"inkwell/pkg/metrics"
)

// Request bounds. Violations fail with a validation error; nothing is clamped.
const (
	MaxRecommendCount = 50
	MaxSimilarCount   = 20
)

const defaultCandidatePoolSize = 200

// ContentRepository is the candidate source. ListPublished returns published
// items only, newest first, bounded by limit.
type ContentRepository interface {
	Get(ctx context.Context, contentID string) (*domain.ContentFeatures, error)
	ListPublished(ctx context.Context, limit int) ([]domain.ContentFeatures, error)
}

// ProfileStore is the read side of the persisted profiles. Get returns
// domain.ErrNotFound for users without a built profile.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// Options are the orchestrator knobs that are not scoring coefficients.
type Options struct {
	CandidatePoolSize int
	// MaxRunLength enables the consecutive-same-category diversity rerank
	// when positive.
	MaxRunLength int
}

// RecommendService resolves a request through the fixed pipeline: validate
// inputs, load profile or seed, fetch a bounded candidate pool, score, rank,
// paginate. It holds no per-request state and is safe for concurrent use.
type RecommendService struct {
	contentRepo ContentRepository
	profiles    ProfileStore
	scorer      *scoring.Scorer
	opts        Options
}

func NewRecommendService(contentRepo ContentRepository, profiles ProfileStore, scorer *scoring.Scorer, opts Options) *RecommendService {
	if opts.CandidatePoolSize <= 0 {
		opts.CandidatePoolSize = defaultCandidatePoolSize
	}
	return &RecommendService{
		contentRepo: contentRepo,
		profiles:    profiles,
		scorer:      scorer,
		opts:        opts,
	}
}

// Recommend serves a personalized or anonymous feed page.
func (s *RecommendService) Recommend(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if req.Count < 1 || req.Count > MaxRecommendCount {
		return nil, domain.ValidationErrorf("count must be between 1 and %d, got %d", MaxRecommendCount, req.Count)
	}
	if req.Offset < 0 {
		return nil, domain.ValidationErrorf("offset must be non-negative, got %d", req.Offset)
	}

	// load profile, if any; a missing profile is not an error, the request
	// degrades to anonymous scoring
	var profile *domain.UserProfile
	if req.UserID != "" {
		p, err := s.profiles.Get(ctx, req.UserID)
		switch {
		case err == nil:
			profile = p
		case errors.Is(err, domain.ErrNotFound):
			// anonymous degrade
		default:
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}

	// load the seed when the caller is on a post page; a dangling reference
	// is a caller bug and fails loudly
	var seed *domain.ContentFeatures
	if req.Context.CurrentPostID != "" {
		c, err := s.contentRepo.Get(ctx, req.Context.CurrentPostID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("current post %q: %w", req.Context.CurrentPostID, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("load current post: %w", err)
		}
		seed = c
	}

	pool, err := s.fetchPool(ctx, req.Context.CurrentPostID, req.ExcludeIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	var candidates []scoring.Candidate
	mode := "anonymous"
	switch {
	case profile != nil:
		candidates = s.scorer.ScoreAgainstProfile(profile, pool, now)
		mode = "personalized"
	case seed != nil:
		candidates = s.scorer.ScoreAgainstSeed(*seed, pool, false, now)
		mode = "similar"
	default:
		candidates = s.scorer.ScoreAgainstProfile(nil, pool, now)
	}

	rankCandidates(candidates)
	candidates = diversify(candidates, s.opts.MaxRunLength)
	page := paginate(candidates, req.Offset, req.Count)

	sessionID := req.Context.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := &domain.RecommendationResult{
		Items:     toRecommendations(page, req.Offset, req.Debug),
		SessionID: sessionID,
		HasMore:   len(page) == req.Count,
	}

	if req.Debug {
		result.Debug = map[string]any{
			"mode":           mode,
			"pool_size":      len(pool),
			"scored":         len(candidates),
			"profile_loaded": profile != nil,
		}
	}

	logger.Debug("recommend",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", req.UserID,
		"mode", mode,
		"pool", len(pool),
		"returned", len(result.Items),
	)
	metrics.RecommendRequests.WithLabelValues(mode).Inc()

	return result, nil
}

// SimilarResult pairs the ranked neighbors with the seed they relate to.
type SimilarResult struct {
	Seed  domain.ContentFeatures  `json:"seed"`
	Items []domain.Recommendation `json:"similar"`
}

// Similar ranks content related to one seed item. Fails with
// domain.ErrNotFound when the seed does not exist.
func (s *RecommendService) Similar(ctx context.Context, seedID string, count int, excludeSameAuthor bool) (*SimilarResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if count < 1 || count > MaxSimilarCount {
		return nil, domain.ValidationErrorf("count must be between 1 and %d, got %d", MaxSimilarCount, count)
	}
	if seedID == "" {
		return nil, domain.ValidationErrorf("seed content id is required")
	}

	seed, err := s.contentRepo.Get(ctx, seedID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("seed content %q: %w", seedID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load seed content: %w", err)
	}

	pool, err := s.fetchPool(ctx, seedID, nil)
	if err != nil {
		return nil, err
	}

	candidates := s.scorer.ScoreAgainstSeed(*seed, pool, excludeSameAuthor, time.Now())
	rankCandidates(candidates)
	page := paginate(candidates, 0, count)

	return &SimilarResult{
		Seed: *seed,
		// similar results always carry the raw components; callers use them
		// for the "why this" panel
		Items: toRecommendations(page, 0, true),
	}, nil
}

// RecommendBatch evaluates each scenario independently: one failing scenario
// yields an empty list under its key while the rest return real results.
func (s *RecommendService) RecommendBatch(ctx context.Context, userID string, scenarios []domain.Scenario) map[string][]domain.Recommendation {
	results := make(map[string][]domain.Recommendation, len(scenarios))

	for _, sc := range scenarios {
		key := sc.Key
		if key == "" {
			continue
		}

		res, err := s.Recommend(ctx, domain.RecommendationRequest{
			UserID:  userID,
			Count:   sc.Count,
			Offset:  sc.Offset,
			Context: sc.Context,
		})
		if err != nil {
			logger.Warn("batch scenario failed",
				"trace_id", TraceIDFromContext(ctx),
				"key", key,
				"error", err,
			)
			metrics.BatchScenarioFailures.Inc()
			results[key] = []domain.Recommendation{}
			continue
		}

		results[key] = res.Items
	}

	return results
}

// fetchPool loads the bounded candidate pool and drops the seed and anything
// in excludeIDs before scoring. The pool cap bounds scoring cost, not result
// quality: it already arrives newest-first from the repository.
func (s *RecommendService) fetchPool(ctx context.Context, seedID string, excludeIDs []string) ([]domain.ContentFeatures, error) {
	pool, err := s.contentRepo.ListPublished(ctx, s.opts.CandidatePoolSize)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	excluded := make(map[string]struct{}, len(excludeIDs)+1)
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	if seedID != "" {
		excluded[seedID] = struct{}{}
	}

	out := pool[:0]
	for _, c := range pool {
		if _, skip := excluded[c.ContentID]; skip {
			continue
		}
		out = append(out, c)
	}

	return out, nil
}

func toRecommendations(page []scoring.Candidate, offset int, withFeatures bool) []domain.Recommendation {
	items := make([]domain.Recommendation, 0, len(page))
	for i, c := range page {
		rec := domain.Recommendation{
			ContentID: c.Content.ContentID,
			Rank:      offset + i + 1,
			Score:     c.Score,
			Reasons:   c.Reasons,
			Source:    c.Source,
		}
		if withFeatures {
			rec.Features = c.Components
		}
		items = append(items, rec)
	}
	return items
}
