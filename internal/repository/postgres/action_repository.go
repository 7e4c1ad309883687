package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"inkwell/domain"
)

// ActionRepository is the append-only event store. Rows are never updated;
// reads come back most-recent-first in bounded windows.
type ActionRepository struct {
	DB *gorm.DB
}

func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{DB: db}
}

func (r *ActionRepository) Append(ctx context.Context, action domain.UserAction) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&action).Error; err != nil {
		return fmt.Errorf("failed to save user action: %w", err)
	}

	return nil
}

func (r *ActionRepository) QueryRecent(ctx context.Context, userID string, limit int) ([]domain.UserAction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var actions []domain.UserAction
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query user actions: %w", err)
	}

	return actions, nil
}

// DeleteByUser removes a user's whole action history; only the explicit
// delete-profile cascade calls it.
func (r *ActionRepository) DeleteByUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.UserAction{}).Error; err != nil {
		return fmt.Errorf("failed to delete user actions: %w", err)
	}

	return nil
}
