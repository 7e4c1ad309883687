package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Action types form a closed enum; anything else is rejected at recording time.
const (
	ActionView      = "view"
	ActionLike      = "like"
	ActionUnlike    = "unlike"
	ActionCollect   = "collect"
	ActionUncollect = "uncollect"
	ActionComment   = "comment"
	ActionShare     = "share"
)

// Context keys recognized inside UserAction.Context.
const (
	ContextSessionID  = "session_id"
	ContextSource     = "source"
	ContextDeviceType = "device_type"
)

func IsValidActionType(t string) bool {
	switch t {
	case ActionView, ActionLike, ActionUnlike, ActionCollect, ActionUncollect, ActionComment, ActionShare:
		return true
	}
	return false
}

// UserAction is an immutable interaction event. It is appended once and only
// ever read back most-recent-first in bounded windows.
type UserAction struct {
	ID         string            `gorm:"column:id;primaryKey" json:"id"`
	UserID     string            `gorm:"column:user_id;not null;index:idx_user_actions_user_created" json:"user_id"`
	ActionType string            `gorm:"column:action_type;not null" json:"action_type"`
	TargetID   string            `gorm:"column:target_id;not null" json:"target_id"`
	TargetType string            `gorm:"column:target_type;not null;default:post" json:"target_type"`
	Value      float64           `gorm:"column:value" json:"value,omitempty"`
	Context    datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime;index:idx_user_actions_user_created" json:"created_at"`
}

func (UserAction) TableName() string {
	return "user_actions"
}
