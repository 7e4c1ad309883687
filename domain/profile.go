package domain

import "time"

// Preferences are derived from aggregate stats over the user's engaged content.
type Preferences struct {
	PreferredAuthor string `json:"preferred_author,omitempty"`
	// LengthBand is "short" (< 600 words), "medium" (< 2000) or "long".
	LengthBand string `json:"length_band,omitempty"`
}

// UserProfile is derived, cached state. It is overwritten whole on every
// rebuild and deleted on explicit user request; there are no merge semantics.
type UserProfile struct {
	UserID string `json:"user_id"`
	// Interests maps a tag or category to a normalized non-negative weight.
	// For any non-empty profile the weights sum to 1.
	Interests   map[string]float64 `json:"interests"`
	Preferences Preferences        `json:"preferences"`
	// Stats counts actions per action type within the build window.
	Stats     map[string]int `json:"stats"`
	Segments  []string       `json:"segments,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TotalActions sums the per-type counters.
func (p *UserProfile) TotalActions() int {
	total := 0
	for _, n := range p.Stats {
		total += n
	}
	return total
}

// InterestWeight returns the normalized weight for a topic, zero when absent.
func (p *UserProfile) InterestWeight(topic string) float64 {
	if p == nil || p.Interests == nil {
		return 0
	}
	return p.Interests[topic]
}
