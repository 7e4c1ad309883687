package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Engagement holds the aggregate counters of a content item. Counters are
// non-negative; AvgReadRatio stays within [0,1].
type Engagement struct {
	Views        int64   `gorm:"column:views;default:0" json:"views"`
	Likes        int64   `gorm:"column:likes;default:0" json:"likes"`
	Collects     int64   `gorm:"column:collects;default:0" json:"collects"`
	Comments     int64   `gorm:"column:comments;default:0" json:"comments"`
	Shares       int64   `gorm:"column:shares;default:0" json:"shares"`
	AvgReadRatio float64 `gorm:"column:avg_read_ratio;default:0" json:"avg_read_ratio"`
}

// ContentFeatures is the read-mostly projection of a post used for scoring.
type ContentFeatures struct {
	ContentID   string                      `gorm:"column:content_id;primaryKey" json:"content_id"`
	Title       string                      `gorm:"column:title" json:"title"`
	Author      string                      `gorm:"column:author" json:"author"`
	Published   bool                        `gorm:"column:published;default:false" json:"published"`
	PublishedAt time.Time                   `gorm:"column:published_at" json:"published_at"`
	Categories  datatypes.JSONSlice[string] `gorm:"column:categories;type:jsonb" json:"categories"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags;type:jsonb" json:"tags"`
	Keywords    datatypes.JSONSlice[string] `gorm:"column:keywords;type:jsonb" json:"keywords"`
	Summary     string                      `gorm:"column:summary" json:"summary"`
	WordCount   int                         `gorm:"column:word_count;default:0" json:"word_count"`
	ReadTime    int                         `gorm:"column:read_time;default:0" json:"read_time"`
	// QualityScore is editor-assigned in [0,1]; nil means unrated.
	QualityScore *float64   `gorm:"column:quality_score" json:"quality_score,omitempty"`
	Engagement   Engagement `gorm:"embedded" json:"engagement"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContentFeatures) TableName() string {
	return "contents"
}

// EffectiveReadTime derives the read time from the word count when the stored
// value is missing, and is always at least one minute.
func (c ContentFeatures) EffectiveReadTime() int {
	if c.ReadTime > 0 {
		return c.ReadTime
	}
	rt := (c.WordCount + 199) / 200
	if rt < 1 {
		rt = 1
	}
	return rt
}

// Topics returns categories and tags as one slice; both feed the interest map
// with equal standing.
func (c ContentFeatures) Topics() []string {
	out := make([]string, 0, len(c.Categories)+len(c.Tags))
	out = append(out, c.Categories...)
	out = append(out, c.Tags...)
	return out
}

// PrimaryCategory is the category used by the diversity rerank; empty when the
// item has none.
func (c ContentFeatures) PrimaryCategory() string {
	if len(c.Categories) == 0 {
		return ""
	}
	return c.Categories[0]
}
