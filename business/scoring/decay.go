package scoring

import (
	"math"
	"time"
)

const hoursPerDay = 24.0

// DecayFactor is the exponential half-life curve: 1.0 at age zero, 0.5 after
// one half-life. A non-positive half-life disables decay entirely, which the
// tests rely on for reproducible fixtures.
func DecayFactor(age time.Duration, halfLifeDays float64) float64 {
	if halfLifeDays <= 0 {
		return 1.0
	}
	if age <= 0 {
		return 1.0
	}
	ageDays := age.Hours() / hoursPerDay
	return math.Exp2(-ageDays / halfLifeDays)
}

// popularityBlend folds the engagement counters into one number, weighting
// deliberate signals above views, with log damping so viral posts cannot
// saturate the term.
func (w ScoringWeights) popularityBlend(views, likes, collects int64) float64 {
	blend := float64(views) + 2*float64(likes) + 3*float64(collects)
	if blend <= 0 {
		return 0
	}
	limit := w.PopularityCap
	if limit <= 0 {
		limit = defaultPopularityCap
	}
	v := math.Log1p(blend) / math.Log1p(limit)
	if v > 1 {
		return 1
	}
	return v
}
