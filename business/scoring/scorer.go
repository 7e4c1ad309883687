package scoring

import (
	"fmt"
	"sort"
	"time"

	"inkwell/domain"
)

// Candidate is one scored item before ranking. Components keeps the raw term
// values so callers can expose them on debug requests.
type Candidate struct {
	Content    domain.ContentFeatures
	Score      float64
	Reasons    []string
	Source     string
	Components map[string]float64
}

// Scorer computes content-based relevance. It holds no mutable state beyond
// its weights, so one instance serves concurrent requests.
type Scorer struct {
	weights ScoringWeights
}

func NewScorer(weights ScoringWeights) *Scorer {
	return &Scorer{weights: weights}
}

func (s *Scorer) Weights() ScoringWeights {
	return s.weights
}

// interestReasonThreshold is the share of the interest term above which the
// matched topic is worth telling the user about.
const interestReasonThreshold = 0.05

// ScoreAgainstProfile scores candidates for a personalized feed. A nil profile
// degrades to anonymous scoring: the interest term is zero and popularity plus
// recency carry the ranking. Candidates never error out; missing fields take
// neutral defaults.
func (s *Scorer) ScoreAgainstProfile(profile *domain.UserProfile, candidates []domain.ContentFeatures, now time.Time) []Candidate {
	out := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		interest := 0.0
		topTopic := ""
		topWeight := 0.0
		for _, topic := range c.Topics() {
			w := profile.InterestWeight(topic)
			interest += w
			if w > topWeight {
				topWeight = w
				topTopic = topic
			}
		}

		cand := s.compose(c, interest, now)
		cand.Source = "personalized"
		if profile == nil {
			cand.Source = "popular"
		}

		if topTopic != "" && topWeight >= interestReasonThreshold {
			cand.Reasons = append([]string{fmt.Sprintf("matches your interest in %s", topTopic)}, cand.Reasons...)
		}
		if profile != nil && profile.Preferences.PreferredAuthor != "" && c.Author == profile.Preferences.PreferredAuthor {
			cand.Reasons = append(cand.Reasons, fmt.Sprintf("by %s, an author you read often", c.Author))
		}
		if len(cand.Reasons) == 0 {
			cand.Reasons = append(cand.Reasons, "recommended for you")
		}

		out = append(out, cand)
	}

	return out
}

// ScoreAgainstSeed scores candidates for "similar content": shared categories
// and tags, an optional same-author bonus, and temporal proximity of
// publication. The seed itself must already be excluded from candidates.
func (s *Scorer) ScoreAgainstSeed(seed domain.ContentFeatures, candidates []domain.ContentFeatures, excludeSameAuthor bool, now time.Time) []Candidate {
	seedCategories := toSet(seed.Categories)
	seedTags := toSet(seed.Tags)

	out := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c.ContentID == seed.ContentID {
			continue
		}
		sameAuthor := c.Author != "" && c.Author == seed.Author
		if excludeSameAuthor && sameAuthor {
			continue
		}

		shared := make([]string, 0, 4)
		overlap := 0.0
		for _, cat := range c.Categories {
			if seedCategories[cat] {
				overlap += s.weights.SeedCategoryWeight
				shared = append(shared, cat)
			}
		}
		for _, tag := range c.Tags {
			if seedTags[tag] {
				overlap += s.weights.SeedTagWeight
				shared = append(shared, tag)
			}
		}

		cand := s.compose(c, overlap, now)
		cand.Source = "similar"

		// temporal proximity to the seed, not to now
		gap := seed.PublishedAt.Sub(c.PublishedAt)
		if gap < 0 {
			gap = -gap
		}
		proximity := DecayFactor(gap, s.weights.ContentHalfLifeDays)
		cand.Score += s.weights.RecencyCoeff * proximity
		cand.Components["proximity"] = proximity

		if sameAuthor {
			cand.Score += s.weights.SameAuthorBonus
			cand.Components["same_author"] = s.weights.SameAuthorBonus
			cand.Reasons = append(cand.Reasons, fmt.Sprintf("also by %s", c.Author))
		}
		if len(shared) > 0 {
			sort.Strings(shared)
			cand.Reasons = append([]string{fmt.Sprintf("covers %s like the article you are reading", joinTopics(shared))}, cand.Reasons...)
		}
		if len(cand.Reasons) == 0 {
			cand.Reasons = append(cand.Reasons, "readers of this article also liked it")
		}

		out = append(out, cand)
	}

	return out
}

// compose applies the terms every mode shares: the interest/overlap term plus
// quality, popularity and recency.
func (s *Scorer) compose(c domain.ContentFeatures, interest float64, now time.Time) Candidate {
	quality := s.weights.DefaultQuality
	if c.QualityScore != nil {
		quality = *c.QualityScore
	}

	popularity := s.weights.popularityBlend(c.Engagement.Views, c.Engagement.Likes, c.Engagement.Collects)
	recency := DecayFactor(now.Sub(c.PublishedAt), s.weights.ContentHalfLifeDays)

	score := s.weights.InterestCoeff*interest +
		s.weights.QualityCoeff*quality +
		s.weights.PopularityCoeff*popularity +
		s.weights.RecencyCoeff*recency
	if score < 0 {
		score = 0
	}

	cand := Candidate{
		Content: c,
		Score:   score,
		Components: map[string]float64{
			"interest":   interest,
			"quality":    quality,
			"popularity": popularity,
			"recency":    recency,
		},
	}

	if popularity >= 0.7 {
		cand.Reasons = append(cand.Reasons, "trending with readers")
	}
	if c.QualityScore != nil && *c.QualityScore >= 0.8 {
		cand.Reasons = append(cand.Reasons, "highly rated")
	}
	if recency >= 0.9 {
		cand.Reasons = append(cand.Reasons, "recently published")
	}

	return cand
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func joinTopics(topics []string) string {
	switch len(topics) {
	case 0:
		return ""
	case 1:
		return topics[0]
	case 2:
		return topics[0] + " and " + topics[1]
	}
	out := ""
	for i, t := range topics[:len(topics)-1] {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out + " and " + topics[len(topics)-1]
}
