package action

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"inkwell/domain"
	"inkwell/pkg/logger"
	"inkwell/pkg/metrics"
)

// ActionRepository is the append side of the event store.
type ActionRepository interface {
	Append(ctx context.Context, action domain.UserAction) error
}

// ActionInput is one action as submitted by a caller, before validation.
type ActionInput struct {
	ActionType string
	TargetID   string
	TargetType string
	Value      float64
	Context    map[string]any
}

// BatchResult reports a batch recording: items succeed or fail independently.
type BatchResult struct {
	RecordedCount int      `json:"recorded_count"`
	FailedCount   int      `json:"failed_count"`
	ActionIDs     []string `json:"action_ids"`
	Errors        []string `json:"errors,omitempty"`
}

// ActionService validates and appends user interaction events. Anonymous
// recording is rejected except for the action types explicitly allowed.
type ActionService struct {
	repo           ActionRepository
	allowAnonymous map[string]bool
}

func NewActionService(repo ActionRepository) *ActionService {
	return &ActionService{
		repo: repo,
		// views power anonymous popularity counters; everything else needs
		// an authenticated user
		allowAnonymous: map[string]bool{
			domain.ActionView: true,
		},
	}
}

// Record validates one action and appends it, returning the new action id.
func (s *ActionService) Record(ctx context.Context, userID string, in ActionInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	if err := s.validate(userID, in); err != nil {
		return "", err
	}

	targetType := in.TargetType
	if targetType == "" {
		targetType = "post"
	}

	event := domain.UserAction{
		ID:         uuid.NewString(),
		UserID:     userID,
		ActionType: in.ActionType,
		TargetID:   in.TargetID,
		TargetType: targetType,
		Value:      in.Value,
		Context:    datatypes.JSONMap(in.Context),
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Append(ctx, event); err != nil {
		return "", fmt.Errorf("append action: %w", err)
	}

	logger.Debug("action_recorded",
		"action_id", event.ID,
		"user_id", userID,
		"action_type", event.ActionType,
		"target_id", event.TargetID,
	)
	metrics.ActionsRecordedTotal.WithLabelValues(event.ActionType).Inc()

	return event.ID, nil
}

// RecordBatch records each item independently; one bad entry never aborts the
// rest. Errors are reported positionally.
func (s *ActionService) RecordBatch(ctx context.Context, userID string, inputs []ActionInput) (*BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	result := &BatchResult{
		ActionIDs: make([]string, 0, len(inputs)),
	}

	for i, in := range inputs {
		id, err := s.Record(ctx, userID, in)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		result.RecordedCount++
		result.ActionIDs = append(result.ActionIDs, id)
	}

	return result, nil
}

func (s *ActionService) validate(userID string, in ActionInput) error {
	if !domain.IsValidActionType(in.ActionType) {
		return domain.ValidationErrorf("unknown action type %q", in.ActionType)
	}
	if in.TargetID == "" {
		return domain.ValidationErrorf("target_id is required")
	}
	if userID == "" && !s.allowAnonymous[in.ActionType] {
		return fmt.Errorf("recording %s actions: %w", in.ActionType, domain.ErrAuthRequired)
	}
	return nil
}
