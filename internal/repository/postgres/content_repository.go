package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"inkwell/domain"
)

// ContentRepository reads the content feature projection.
type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Get(ctx context.Context, contentID string) (*domain.ContentFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var content domain.ContentFeatures
	err := r.DB.WithContext(ctx).First(&content, "content_id = ?", contentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("content %q: %w", contentID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}

	return &content, nil
}

// GetMany resolves a set of ids in one query; missing ids are simply absent
// from the returned map.
func (r *ContentRepository) GetMany(ctx context.Context, ids []string) (map[string]domain.ContentFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(ids) == 0 {
		return map[string]domain.ContentFeatures{}, nil
	}

	var rows []domain.ContentFeatures
	if err := r.DB.WithContext(ctx).Where("content_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query contents: %w", err)
	}

	out := make(map[string]domain.ContentFeatures, len(rows))
	for _, row := range rows {
		out[row.ContentID] = row
	}

	return out, nil
}

// ListPublished returns the candidate pool: published items, newest first,
// bounded by limit.
func (r *ContentRepository) ListPublished(ctx context.Context, limit int) ([]domain.ContentFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.ContentFeatures
	err := r.DB.WithContext(ctx).
		Where("published = ?", true).
		Order("published_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list published contents: %w", err)
	}

	return rows, nil
}
