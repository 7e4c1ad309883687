package profile

import (
	"reflect"
	"testing"
	"time"

	"inkwell/business/scoring"
	"inkwell/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// weights with decay disabled so fixtures stay hand-checkable
func testWeights() scoring.ScoringWeights {
	w := scoring.DefaultWeights()
	w.ActionHalfLifeDays = 0
	w.ContentHalfLifeDays = 0
	return w
}

func contentFixture() map[string]domain.ContentFeatures {
	return map[string]domain.ContentFeatures{
		"p1": {ContentID: "p1", Author: "alice", WordCount: 1200, Categories: []string{"tech"}},
		"p2": {ContentID: "p2", Author: "bob", WordCount: 400, Categories: []string{"life"}},
		"p3": {ContentID: "p3", Author: "alice", WordCount: 2500, Categories: []string{"tech"}, Tags: []string{"go"}},
	}
}

func action(actionType, target string, age time.Duration) domain.UserAction {
	return domain.UserAction{
		ID:         actionType + ":" + target,
		UserID:     "u1",
		ActionType: actionType,
		TargetID:   target,
		CreatedAt:  testNow.Add(-age),
	}
}

func TestBuildEmptyActionsReturnsNil(t *testing.T) {
	b := NewBuilder(testWeights())

	if p := b.Build("u1", nil, contentFixture(), testNow); p != nil {
		t.Fatalf("expected nil profile for empty actions, got %+v", p)
	}
}

func TestBuildWeightsLikeAboveView(t *testing.T) {
	b := NewBuilder(testWeights())

	actions := []domain.UserAction{
		action(domain.ActionLike, "p1", time.Hour),
		action(domain.ActionView, "p2", time.Hour),
	}

	p := b.Build("u1", actions, contentFixture(), testNow)
	if p == nil {
		t.Fatal("expected a profile")
	}

	// like=5, view=1, normalized to sum 1
	wantTech := 5.0 / 6.0
	wantLife := 1.0 / 6.0

	if got := p.Interests["tech"]; !almostEqual(got, wantTech) {
		t.Errorf("tech weight = %v, want %v", got, wantTech)
	}
	if got := p.Interests["life"]; !almostEqual(got, wantLife) {
		t.Errorf("life weight = %v, want %v", got, wantLife)
	}
}

func TestBuildNormalizationInvariant(t *testing.T) {
	b := NewBuilder(testWeights())

	actions := []domain.UserAction{
		action(domain.ActionLike, "p1", time.Hour),
		action(domain.ActionCollect, "p3", 2*time.Hour),
		action(domain.ActionView, "p2", 3*time.Hour),
		action(domain.ActionComment, "p1", 48*time.Hour),
	}

	p := b.Build("u1", actions, contentFixture(), testNow)
	if p == nil {
		t.Fatal("expected a profile")
	}

	sum := 0.0
	for topic, w := range p.Interests {
		if w < 0 || w > 1 {
			t.Errorf("interest %q = %v outside [0,1]", topic, w)
		}
		sum += w
	}
	if !almostEqual(sum, 1.0) {
		t.Errorf("interest weights sum to %v, want 1.0", sum)
	}
}

func TestBuildUnlikeUndoesLike(t *testing.T) {
	b := NewBuilder(testWeights())

	actions := []domain.UserAction{
		action(domain.ActionLike, "p1", time.Hour),
		action(domain.ActionUnlike, "p1", time.Minute),
		action(domain.ActionView, "p2", time.Hour),
	}

	p := b.Build("u1", actions, contentFixture(), testNow)
	if p == nil {
		t.Fatal("expected a profile")
	}

	if _, ok := p.Interests["tech"]; ok {
		t.Errorf("expected tech interest to cancel out, got %v", p.Interests["tech"])
	}
	if !almostEqual(p.Interests["life"], 1.0) {
		t.Errorf("life weight = %v, want 1.0 after renormalization", p.Interests["life"])
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(testWeights())

	actions := []domain.UserAction{
		action(domain.ActionLike, "p1", time.Hour),
		action(domain.ActionCollect, "p3", 26*time.Hour),
		action(domain.ActionView, "p2", 50*time.Hour),
	}
	content := contentFixture()

	first := b.Build("u1", actions, content, testNow)
	second := b.Build("u1", actions, content, testNow)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("rebuild differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestBuildRecencyDecayFavorsNewer(t *testing.T) {
	w := testWeights()
	w.ActionHalfLifeDays = 7
	b := NewBuilder(w)

	// same action type, one fresh and one a half-life old
	actions := []domain.UserAction{
		action(domain.ActionLike, "p1", 0),              // tech
		action(domain.ActionLike, "p2", 7*24*time.Hour), // life
	}

	p := b.Build("u1", actions, contentFixture(), testNow)
	if p == nil {
		t.Fatal("expected a profile")
	}

	if p.Interests["tech"] <= p.Interests["life"] {
		t.Errorf("fresh like should outweigh decayed like: tech=%v life=%v",
			p.Interests["tech"], p.Interests["life"])
	}
	// after one half-life the older action counts half
	if ratio := p.Interests["tech"] / p.Interests["life"]; !almostEqual(ratio, 2.0) {
		t.Errorf("weight ratio = %v, want 2.0", ratio)
	}
}

func TestBuildPreferencesAndStats(t *testing.T) {
	b := NewBuilder(testWeights())

	actions := []domain.UserAction{
		action(domain.ActionLike, "p1", time.Hour),
		action(domain.ActionCollect, "p3", time.Hour),
		action(domain.ActionView, "p2", time.Hour),
	}

	p := b.Build("u1", actions, contentFixture(), testNow)
	if p == nil {
		t.Fatal("expected a profile")
	}

	// alice wrote both the liked and the collected article
	if p.Preferences.PreferredAuthor != "alice" {
		t.Errorf("preferred author = %q, want alice", p.Preferences.PreferredAuthor)
	}
	// engaged word counts 1200, 2500, 400 -> median 1200 -> medium
	if p.Preferences.LengthBand != "medium" {
		t.Errorf("length band = %q, want medium", p.Preferences.LengthBand)
	}
	if p.Stats[domain.ActionLike] != 1 || p.Stats[domain.ActionView] != 1 || p.Stats[domain.ActionCollect] != 1 {
		t.Errorf("unexpected stats: %+v", p.Stats)
	}
}

func TestBuildSegmentThresholds(t *testing.T) {
	b := NewBuilder(testWeights())

	actions := make([]domain.UserAction, 0, powerReaderMinActions)
	for i := 0; i < powerReaderMinActions; i++ {
		actions = append(actions, action(domain.ActionView, "p1", time.Duration(i)*time.Minute))
	}

	p := b.Build("u1", actions, contentFixture(), testNow)
	if p == nil {
		t.Fatal("expected a profile")
	}

	if len(p.Segments) != 1 || p.Segments[0] != "power-reader" {
		t.Errorf("segments = %v, want [power-reader]", p.Segments)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
