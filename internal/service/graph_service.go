package service

import (
	"fmt"

	"chirper/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GraphService maintains the directed follow relation between users.
type GraphService struct {
	db *gorm.DB
}

func NewGraphService(db *gorm.DB) *GraphService {
	return &GraphService{db: db}
}

// Follow creates a follow edge from actor to target. Following a user you
// already follow is a no-op, not an error; the insert rides on the edge's
// composite primary key so concurrent calls cannot produce duplicates.
func (s *GraphService) Follow(actorID, targetID uint) error {
	if actorID == targetID {
		return ErrSelfFollow
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", targetID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check target user: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}

	edge := models.Follow{FollowerID: actorID, FollowedID: targetID}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
		return fmt.Errorf("failed to create follow edge: %w", err)
	}

	return nil
}

// Unfollow removes the edge from actor to target if it exists; removing a
// missing edge is a no-op.
func (s *GraphService) Unfollow(actorID, targetID uint) error {
	if actorID == targetID {
		return ErrSelfFollow
	}

	result := s.db.
		Where("follower_id = ? AND followed_id = ?", actorID, targetID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove follow edge: %w", result.Error)
	}

	return nil
}

// IsFollowing reports whether a follow edge from actor to target exists.
func (s *GraphService) IsFollowing(actorID, targetID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", actorID, targetID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return count > 0, nil
}

// FollowerCount returns the number of users following the given user.
func (s *GraphService) FollowerCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

// FollowingCount returns the number of users the given user follows.
func (s *GraphService) FollowingCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return count, nil
}

// Followers returns a page of the users following userID, newest edge first.
func (s *GraphService) Followers(userID uint, page, limit int) ([]models.User, int64, error) {
	return s.edgeUsers("followed_id", "follower_id", userID, page, limit)
}

// Following returns a page of the users userID follows, newest edge first.
func (s *GraphService) Following(userID uint, page, limit int) ([]models.User, int64, error) {
	return s.edgeUsers("follower_id", "followed_id", userID, page, limit)
}

func (s *GraphService) edgeUsers(whereCol, selectCol string, userID uint, page, limit int) ([]models.User, int64, error) {
	base := s.db.Model(&models.Follow{}).Where(whereCol+" = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count follow edges: %w", err)
	}

	var users []models.User
	err := s.db.Model(&models.User{}).
		Joins("JOIN follows f ON f."+selectCol+" = users.id").
		Where("f."+whereCol+" = ?", userID).
		Order("f.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch follow edge users: %w", err)
	}

	return users, total, nil
}

// SuggestedUsers returns up to limit users the viewer does not follow yet,
// excluding the viewer, in primary-key order.
func (s *GraphService) SuggestedUsers(viewerID uint, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 5
	}

	followedSub := s.db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", viewerID)

	var users []models.User
	err := s.db.Model(&models.User{}).
		Where("id <> ?", viewerID).
		Where("id NOT IN (?)", followedSub).
		Order("id").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggested users: %w", err)
	}

	return users, nil
}
