package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/domain"
)

// ProfileStore keeps built profiles as JSON documents. Put always overwrites
// the whole document, so concurrent rebuilds resolve last-writer-wins.
type ProfileStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileStore(client *redis.Client, ttl time.Duration) *ProfileStore {
	return &ProfileStore{
		client: client,
		ttl:    ttl,
	}
}

func profileKey(userID string) string {
	return fmt.Sprintf("profile:user:%s", userID)
}

func (s *ProfileStore) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	val, err := s.client.Get(ctx, profileKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("profile for user %q: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile from redis: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

func (s *ProfileStore) Put(ctx context.Context, profile *domain.UserProfile) error {
	jsonData, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := s.client.Set(ctx, profileKey(profile.UserID), jsonData, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store profile in redis: %w", err)
	}

	return nil
}

func (s *ProfileStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete profile from redis: %w", err)
	}

	return nil
}
