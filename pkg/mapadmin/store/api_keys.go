package store

import (
	"context"
	"time"

	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
)

// APIKeysByUser lists the keys of a user, newest first
func (s *Store) APIKeysByUser(ctx context.Context, userID uint) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := s.with(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error
	return keys, err
}

// APIKeyByHash loads the key with the given hash
func (s *Store) APIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	return FindBy[models.APIKey](ctx, s, "key_hash", hash)
}

// DeleteAPIKey removes a key owned by userID
func (s *Store) DeleteAPIKey(ctx context.Context, userID, id uint) error {
	result := s.with(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.APIKey{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchAPIKey records the use of a key
func (s *Store) TouchAPIKey(ctx context.Context, id uint, at time.Time) error {
	return s.with(ctx).Model(&models.APIKey{}).Where("id = ?", id).Update("last_used_at", at).Error
}
