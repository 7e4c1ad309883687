package domain

// RequestContext carries the optional situational fields of a recommendation
// request. All fields are free-form strings supplied by the caller.
type RequestContext struct {
	CurrentPostID string `json:"current_post_id,omitempty"`
	Source        string `json:"source,omitempty"`
	SessionID     string `json:"session_id,omitempty"`
	DeviceType    string `json:"device_type,omitempty"`
}

// RecommendationRequest describes one feed request. An empty UserID means the
// request is anonymous and scored without a profile.
type RecommendationRequest struct {
	UserID     string         `json:"user_id,omitempty"`
	Count      int            `json:"count"`
	Offset     int            `json:"offset"`
	ExcludeIDs []string       `json:"exclude_ids,omitempty"`
	Context    RequestContext `json:"context"`
	Debug      bool           `json:"debug,omitempty"`
}

// Recommendation is one ranked result item. Score is a non-negative real with
// no upper bound; Rank is the 1-based position after sorting.
type Recommendation struct {
	ContentID string   `json:"content_id"`
	Rank      int      `json:"rank"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
	Source    string   `json:"source"`
	// Features holds raw score components; populated only for debug requests.
	Features map[string]float64 `json:"features,omitempty"`
}

// RecommendationResult is a single page of ranked items. HasMore is an
// approximation: it is true exactly when the page came back full, which may
// overreport by one page when the pool size is a multiple of the page size.
type RecommendationResult struct {
	Items     []Recommendation `json:"recommendations"`
	SessionID string           `json:"session_id"`
	HasMore   bool             `json:"has_more"`
	Debug     map[string]any   `json:"debug,omitempty"`
}

// Scenario is one independently evaluated sub-request in a batch call.
type Scenario struct {
	Key     string         `json:"key"`
	Count   int            `json:"count"`
	Offset  int            `json:"offset"`
	Context RequestContext `json:"context"`
}
