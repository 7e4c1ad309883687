package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"inkwell/business/scoring"
	"inkwell/domain"
)

type fakeContentRepo struct {
	items   []domain.ContentFeatures
	listErr error
}

func (f *fakeContentRepo) Get(_ context.Context, contentID string) (*domain.ContentFeatures, error) {
	for _, c := range f.items {
		if c.ContentID == contentID {
			out := c
			return &out, nil
		}
	}
	return nil, fmt.Errorf("content %q: %w", contentID, domain.ErrNotFound)
}

func (f *fakeContentRepo) ListPublished(_ context.Context, limit int) ([]domain.ContentFeatures, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > len(f.items) {
		limit = len(f.items)
	}
	out := make([]domain.ContentFeatures, limit)
	copy(out, f.items[:limit])
	return out, nil
}

type fakeProfileStore struct {
	profiles map[string]*domain.UserProfile
}

func (f *fakeProfileStore) Get(_ context.Context, userID string) (*domain.UserProfile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("profile for %q: %w", userID, domain.ErrNotFound)
}

func flatWeights() scoring.ScoringWeights {
	w := scoring.DefaultWeights()
	w.ContentHalfLifeDays = 0
	w.QualityCoeff = 0
	w.PopularityCoeff = 0
	w.RecencyCoeff = 0
	return w
}

func post(id, category string, daysOld int) domain.ContentFeatures {
	return domain.ContentFeatures{
		ContentID:   id,
		Published:   true,
		PublishedAt: time.Now().Add(-time.Duration(daysOld) * 24 * time.Hour),
		Categories:  []string{category},
	}
}

func newService(repo *fakeContentRepo, profiles *fakeProfileStore, opts Options) *RecommendService {
	if profiles == nil {
		profiles = &fakeProfileStore{}
	}
	return NewRecommendService(repo, profiles, scoring.NewScorer(flatWeights()), opts)
}

func TestRecommendRejectsOutOfBoundsInputs(t *testing.T) {
	svc := newService(&fakeContentRepo{}, nil, Options{})

	cases := []struct {
		name string
		req  domain.RecommendationRequest
	}{
		{"zero count", domain.RecommendationRequest{Count: 0}},
		{"negative count", domain.RecommendationRequest{Count: -3}},
		{"count above max", domain.RecommendationRequest{Count: MaxRecommendCount + 1}},
		{"negative offset", domain.RecommendationRequest{Count: 10, Offset: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Recommend(context.Background(), tc.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRecommendExcludesRequestedAndSeedIDs(t *testing.T) {
	repo := &fakeContentRepo{items: []domain.ContentFeatures{
		post("p1", "tech", 1),
		post("p2", "tech", 2),
		post("p3", "life", 3),
		post("p4", "life", 4),
	}}
	svc := newService(repo, nil, Options{})

	res, err := svc.Recommend(context.Background(), domain.RecommendationRequest{
		Count:      10,
		ExcludeIDs: []string{"p2"},
		Context:    domain.RequestContext{CurrentPostID: "p1"},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, item := range res.Items {
		if item.ContentID == "p1" || item.ContentID == "p2" {
			t.Errorf("excluded id %s appeared in results", item.ContentID)
		}
	}
	if len(res.Items) != 2 {
		t.Errorf("got %d items, want 2", len(res.Items))
	}
}

func TestRecommendPaginationAndHasMore(t *testing.T) {
	items := make([]domain.ContentFeatures, 10)
	for i := range items {
		items[i] = post(fmt.Sprintf("p%02d", i), "tech", i)
	}
	svc := newService(&fakeContentRepo{items: items}, nil, Options{})

	first, err := svc.Recommend(context.Background(), domain.RecommendationRequest{Count: 4})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Items) != 4 || !first.HasMore {
		t.Fatalf("first page: %d items, has_more=%v", len(first.Items), first.HasMore)
	}
	for i, item := range first.Items {
		if item.Rank != i+1 {
			t.Errorf("rank = %d, want %d", item.Rank, i+1)
		}
	}

	last, err := svc.Recommend(context.Background(), domain.RecommendationRequest{Count: 4, Offset: 8})
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	if len(last.Items) != 2 || last.HasMore {
		t.Fatalf("last page: %d items, has_more=%v", len(last.Items), last.HasMore)
	}
	if last.Items[0].Rank != 9 {
		t.Errorf("offset page rank = %d, want 9", last.Items[0].Rank)
	}

	// pages must not overlap
	seen := map[string]bool{}
	for _, item := range first.Items {
		seen[item.ContentID] = true
	}
	second, _ := svc.Recommend(context.Background(), domain.RecommendationRequest{Count: 4, Offset: 4})
	for _, item := range second.Items {
		if seen[item.ContentID] {
			t.Errorf("id %s appeared on two pages", item.ContentID)
		}
	}
}

func TestRecommendPersonalizedUsesProfile(t *testing.T) {
	repo := &fakeContentRepo{items: []domain.ContentFeatures{
		post("tech-post", "tech", 1),
		post("life-post", "life", 1),
	}}
	profiles := &fakeProfileStore{profiles: map[string]*domain.UserProfile{
		"u1": {UserID: "u1", Interests: map[string]float64{"life": 1.0}},
	}}
	svc := newService(repo, profiles, Options{})

	res, err := svc.Recommend(context.Background(), domain.RecommendationRequest{
		UserID: "u1",
		Count:  2,
		Debug:  true,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if res.Items[0].ContentID != "life-post" {
		t.Errorf("top item = %s, want life-post", res.Items[0].ContentID)
	}
	if res.Items[0].Source != "personalized" {
		t.Errorf("source = %q, want personalized", res.Items[0].Source)
	}
	if res.Debug["mode"] != "personalized" {
		t.Errorf("debug mode = %v, want personalized", res.Debug["mode"])
	}
}

func TestRecommendUnknownUserDegradesToAnonymous(t *testing.T) {
	repo := &fakeContentRepo{items: []domain.ContentFeatures{post("p1", "tech", 1)}}
	svc := newService(repo, &fakeProfileStore{}, Options{})

	res, err := svc.Recommend(context.Background(), domain.RecommendationRequest{
		UserID: "nobody",
		Count:  1,
		Debug:  true,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.Debug["mode"] != "anonymous" {
		t.Errorf("debug mode = %v, want anonymous", res.Debug["mode"])
	}
}

func TestRecommendMintsSessionID(t *testing.T) {
	repo := &fakeContentRepo{items: []domain.ContentFeatures{post("p1", "tech", 1)}}
	svc := newService(repo, nil, Options{})

	res, err := svc.Recommend(context.Background(), domain.RecommendationRequest{Count: 1})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.SessionID == "" {
		t.Error("expected a minted session id")
	}

	res, err = svc.Recommend(context.Background(), domain.RecommendationRequest{
		Count:   1,
		Context: domain.RequestContext{SessionID: "sess-42"},
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.SessionID != "sess-42" {
		t.Errorf("session id = %q, want the caller's", res.SessionID)
	}
}

func TestSimilarSeedNotFound(t *testing.T) {
	svc := newService(&fakeContentRepo{}, nil, Options{})

	_, err := svc.Similar(context.Background(), "missing", 5, false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSimilarBoundsAndFeatures(t *testing.T) {
	repo := &fakeContentRepo{items: []domain.ContentFeatures{
		post("seed", "tech", 1),
		post("p2", "tech", 2),
	}}
	svc := newService(repo, nil, Options{})

	if _, err := svc.Similar(context.Background(), "seed", MaxSimilarCount+1, false); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("oversized count: err = %v, want ErrValidation", err)
	}
	if _, err := svc.Similar(context.Background(), "", 5, false); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty seed id: err = %v, want ErrValidation", err)
	}

	res, err := svc.Similar(context.Background(), "seed", 5, false)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if res.Seed.ContentID != "seed" {
		t.Errorf("seed = %s", res.Seed.ContentID)
	}
	if len(res.Items) != 1 || res.Items[0].ContentID != "p2" {
		t.Fatalf("items = %+v, want only p2", res.Items)
	}
	if res.Items[0].Features == nil {
		t.Error("similar items should carry score components")
	}
}

func TestRecommendBatchIsolatesFailures(t *testing.T) {
	good := &fakeContentRepo{items: []domain.ContentFeatures{
		post("p1", "tech", 1),
		post("p2", "life", 2),
	}}
	svc := newService(good, nil, Options{})

	results := svc.RecommendBatch(context.Background(), "", []domain.Scenario{
		{Key: "home", Count: 2},
		{Key: "broken", Count: -1}, // fails validation inside the scenario
		{Key: "", Count: 2},        // skipped entirely
		{Key: "sidebar", Count: 1},
	})

	if len(results) != 3 {
		t.Fatalf("got %d keys, want 3: %v", len(results), results)
	}
	if len(results["home"]) != 2 {
		t.Errorf("home: %d items, want 2", len(results["home"]))
	}
	if items, ok := results["broken"]; !ok || len(items) != 0 {
		t.Errorf("broken scenario should yield an empty list, got %v", items)
	}
	if len(results["sidebar"]) != 1 {
		t.Errorf("sidebar: %d items, want 1", len(results["sidebar"]))
	}
}

func TestRecommendBatchRepositoryFailure(t *testing.T) {
	svc := newService(&fakeContentRepo{listErr: errors.New("connection refused")}, nil, Options{})

	results := svc.RecommendBatch(context.Background(), "", []domain.Scenario{
		{Key: "home", Count: 5},
	})
	if items := results["home"]; len(items) != 0 {
		t.Errorf("failing repository should yield an empty list, got %v", items)
	}
}

func TestDiversifyBreaksLongRuns(t *testing.T) {
	candidates := []scoring.Candidate{
		{Content: post("t1", "tech", 1), Score: 10},
		{Content: post("t2", "tech", 2), Score: 9},
		{Content: post("t3", "tech", 3), Score: 8},
		{Content: post("l1", "life", 4), Score: 7},
		{Content: post("t4", "tech", 5), Score: 6},
	}

	out := diversify(candidates, 2)

	run := 0
	last := ""
	for _, c := range out {
		cat := c.Content.PrimaryCategory()
		if cat != "" && cat == last {
			run++
		} else {
			last = cat
			run = 1
		}
		if run > 2 {
			ids := make([]string, 0, len(out))
			for _, o := range out {
				ids = append(ids, o.Content.ContentID)
			}
			t.Fatalf("run of %d %s items in %s", run, cat, strings.Join(ids, ","))
		}
	}
	if len(out) != len(candidates) {
		t.Fatalf("diversify dropped items: %d != %d", len(out), len(candidates))
	}
}

func TestRankCandidatesDeterministicTieBreaks(t *testing.T) {
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	newer := domain.ContentFeatures{ContentID: "newer", PublishedAt: at.Add(24 * time.Hour)}
	older := domain.ContentFeatures{ContentID: "older", PublishedAt: at}
	alpha := domain.ContentFeatures{ContentID: "alpha", PublishedAt: at}

	candidates := []scoring.Candidate{
		{Content: older, Score: 1},
		{Content: newer, Score: 1},
		{Content: alpha, Score: 1},
	}
	rankCandidates(candidates)

	got := []string{
		candidates[0].Content.ContentID,
		candidates[1].Content.ContentID,
		candidates[2].Content.ContentID,
	}
	want := []string{"newer", "alpha", "older"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
