package profile

import (
	"sort"
	"time"

	"inkwell/business/scoring"
	"inkwell/domain"
)

// Segment thresholds over the action window.
const (
	powerReaderMinActions  = 100
	activeReaderMinActions = 25
	explorerMinTopics      = 10
)

// Length bands for the preferred word-count range.
const (
	shortWordLimit  = 600
	mediumWordLimit = 2000
)

// Builder turns a bounded action window plus the features of the referenced
// content into a weighted interest profile. It is a pure function of its
// inputs and the supplied reference time; repeated calls with the same inputs
// produce identical profiles.
type Builder struct {
	weights scoring.ScoringWeights
}

func NewBuilder(weights scoring.ScoringWeights) *Builder {
	return &Builder{weights: weights}
}

// Build returns nil when actions is empty: that is "insufficient data," not an
// error, and callers fall back to anonymous scoring.
func (b *Builder) Build(userID string, actions []domain.UserAction, content map[string]domain.ContentFeatures, now time.Time) *domain.UserProfile {
	if len(actions) == 0 {
		return nil
	}

	interests := make(map[string]float64)
	stats := make(map[string]int)

	// per-author and word-count aggregates for preferences
	authorWeight := make(map[string]float64)
	engagedWordCounts := make([]int, 0, len(actions))

	for _, a := range actions {
		stats[a.ActionType]++

		w := b.weights.ActionWeight(a.ActionType)
		if w == 0 {
			continue
		}
		w *= scoring.DecayFactor(now.Sub(a.CreatedAt), b.weights.ActionHalfLifeDays)

		c, ok := content[a.TargetID]
		if !ok {
			continue
		}

		// every category and tag of the target receives the full per-action
		// weight; multi-membership is intentional
		for _, topic := range c.Topics() {
			interests[topic] += w
		}

		if w > 0 {
			engagedWordCounts = append(engagedWordCounts, c.WordCount)
			if c.Author != "" && a.ActionType != domain.ActionView {
				authorWeight[c.Author] += w
			}
		}
	}

	normalizeInterests(interests)

	p := &domain.UserProfile{
		UserID:    userID,
		Interests: interests,
		Stats:     stats,
		Preferences: domain.Preferences{
			PreferredAuthor: topAuthor(authorWeight),
			LengthBand:      lengthBand(engagedWordCounts),
		},
		UpdatedAt: now,
	}
	p.Segments = segments(p, len(interests))

	return p
}

// normalizeInterests clamps negative accumulations to zero and rescales the
// rest to sum to 1, so profiles are comparable across users and one dominant
// topic cannot saturate every future score.
func normalizeInterests(interests map[string]float64) {
	sum := 0.0
	for topic, w := range interests {
		if w <= 0 {
			delete(interests, topic)
			continue
		}
		sum += w
	}
	if sum == 0 {
		return
	}
	for topic, w := range interests {
		interests[topic] = w / sum
	}
}

// topAuthor picks the highest-weighted author; ties break alphabetically so
// rebuilds stay deterministic.
func topAuthor(authorWeight map[string]float64) string {
	best := ""
	bestWeight := 0.0
	for author, w := range authorWeight {
		if w > bestWeight || (w == bestWeight && best != "" && author < best) {
			best = author
			bestWeight = w
		}
	}
	return best
}

// lengthBand buckets the median word count of positively engaged content.
func lengthBand(wordCounts []int) string {
	if len(wordCounts) == 0 {
		return ""
	}
	sort.Ints(wordCounts)
	median := wordCounts[len(wordCounts)/2]
	switch {
	case median < shortWordLimit:
		return "short"
	case median < mediumWordLimit:
		return "medium"
	default:
		return "long"
	}
}

func segments(p *domain.UserProfile, topicCount int) []string {
	total := p.TotalActions()

	var out []string
	if total >= powerReaderMinActions {
		out = append(out, "power-reader")
	} else if total >= activeReaderMinActions {
		out = append(out, "active-reader")
	}
	if topicCount >= explorerMinTopics {
		out = append(out, "explorer")
	}
	return out
}
