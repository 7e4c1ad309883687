package scoring

import "inkwell/domain"

// ScoringWeights names every tunable coefficient of the engine in one place.
// Action weights feed the profile builder, term coefficients feed the scorer,
// half-lives drive both decay curves.
type ScoringWeights struct {
	// Per-action-type contribution to the interest profile. Likes and saves
	// are stronger positive signals than passive views; unlike/uncollect
	// subtract what their counterparts added.
	View    float64
	Like    float64
	Collect float64
	Comment float64
	Share   float64

	// Relative weight of each scoring term.
	InterestCoeff   float64
	QualityCoeff    float64
	PopularityCoeff float64
	RecencyCoeff    float64

	// Seed-mode overlap weights and the same-author bonus.
	SeedCategoryWeight float64
	SeedTagWeight      float64
	SameAuthorBonus    float64

	// DefaultQuality substitutes for an unrated candidate.
	DefaultQuality float64

	// PopularityCap is the engagement blend value that maps to a full
	// popularity term; everything above clamps to 1.
	PopularityCap float64

	// Exponential half-lives, in days. ActionHalfLifeDays ages interaction
	// events during profile builds; ContentHalfLifeDays ages published_at
	// during scoring.
	ActionHalfLifeDays  float64
	ContentHalfLifeDays float64
}

const (
	defaultWeightView    = 1.0
	defaultWeightLike    = 5.0
	defaultWeightCollect = 3.0
	defaultWeightComment = 4.0
	defaultWeightShare   = 4.0

	defaultInterestCoeff   = 1.0
	defaultQualityCoeff    = 0.3
	defaultPopularityCoeff = 0.2
	defaultRecencyCoeff    = 0.2

	defaultSeedCategoryWeight = 1.0
	defaultSeedTagWeight      = 0.5
	defaultSameAuthorBonus    = 0.5

	defaultQuality       = 0.5
	defaultPopularityCap = 10000

	defaultActionHalfLifeDays  = 14.0
	defaultContentHalfLifeDays = 30.0
)

func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		View:    defaultWeightView,
		Like:    defaultWeightLike,
		Collect: defaultWeightCollect,
		Comment: defaultWeightComment,
		Share:   defaultWeightShare,

		InterestCoeff:   defaultInterestCoeff,
		QualityCoeff:    defaultQualityCoeff,
		PopularityCoeff: defaultPopularityCoeff,
		RecencyCoeff:    defaultRecencyCoeff,

		SeedCategoryWeight: defaultSeedCategoryWeight,
		SeedTagWeight:      defaultSeedTagWeight,
		SameAuthorBonus:    defaultSameAuthorBonus,

		DefaultQuality: defaultQuality,
		PopularityCap:  defaultPopularityCap,

		ActionHalfLifeDays:  defaultActionHalfLifeDays,
		ContentHalfLifeDays: defaultContentHalfLifeDays,
	}
}

// ActionWeight maps an action type to its profile contribution. Unknown types
// contribute nothing; negative weights undo a previous like/collect.
func (w ScoringWeights) ActionWeight(actionType string) float64 {
	switch actionType {
	case domain.ActionView:
		return w.View
	case domain.ActionLike:
		return w.Like
	case domain.ActionUnlike:
		return -w.Like
	case domain.ActionCollect:
		return w.Collect
	case domain.ActionUncollect:
		return -w.Collect
	case domain.ActionComment:
		return w.Comment
	case domain.ActionShare:
		return w.Share
	}
	return 0
}
