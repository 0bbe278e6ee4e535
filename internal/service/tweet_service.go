package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"chirper/backend/internal/models"
	"chirper/backend/internal/storage"

	"gorm.io/gorm"
)

// MaxTweetLength is the content bound in runes.
const MaxTweetLength = 280

// ImageRemover is the slice of the image store the tweet service needs to
// release a deleted tweet's blob.
type ImageRemover interface {
	Remove(kind, name string) error
}

// TweetService implements the content store and feed composition.
type TweetService struct {
	db     *gorm.DB
	images ImageRemover
}

func NewTweetService(db *gorm.DB, images ImageRemover) *TweetService {
	return &TweetService{db: db, images: images}
}

// ValidateContent enforces the tweet content rules: non-empty after
// trimming, at most MaxTweetLength runes.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxTweetLength {
		return ErrContentTooLong
	}
	return nil
}

// Create persists a new tweet for the author. image is the stored filename
// of an already-saved upload, or empty. The caller is responsible for
// removing the saved image if Create fails, keeping row and blob in step.
func (s *TweetService) Create(authorID uint, content, image string) (*models.Tweet, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	tweet := models.Tweet{
		Content: content,
		Image:   image,
		UserID:  authorID,
	}
	if err := s.db.Create(&tweet).Error; err != nil {
		return nil, fmt.Errorf("failed to create tweet: %w", err)
	}

	if err := s.db.Preload("User").First(&tweet, tweet.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload tweet: %w", err)
	}
	return &tweet, nil
}

// GetByID fetches a tweet with its author preloaded.
func (s *TweetService) GetByID(tweetID uint) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := s.db.Preload("User").First(&tweet, tweetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch tweet: %w", err)
	}
	return &tweet, nil
}

// Delete removes a tweet together with its likes and retweets in one
// transaction. Only the author may delete a tweet. The stored image, if
// any, is released after the transaction commits; the rows never outlive
// a failed file removal, only the other way around.
func (s *TweetService) Delete(actorID, tweetID uint) error {
	tweet, err := s.GetByID(tweetID)
	if err != nil {
		return err
	}
	if tweet.UserID != actorID {
		return ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", tweetID).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}
		if err := tx.Where("tweet_id = ?", tweetID).Delete(&models.Retweet{}).Error; err != nil {
			return fmt.Errorf("failed to delete retweets: %w", err)
		}
		if err := tx.Unscoped().Delete(&models.Tweet{}, tweetID).Error; err != nil {
			return fmt.Errorf("failed to delete tweet: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if tweet.Image != "" {
		if err := s.images.Remove(storage.KindTweets, tweet.Image); err != nil {
			log.Printf("Warning: failed to remove image for deleted tweet %d: %v", tweetID, err)
		}
	}
	return nil
}

// ComposeFeed returns a page of the user's feed: their own tweets plus
// tweets from everyone they follow, newest first. Ties on created_at fall
// back to id order so the result is stable.
func (s *TweetService) ComposeFeed(userID uint, page, limit int) ([]models.Tweet, int64, error) {
	followedSub := s.db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	query := s.db.Model(&models.Tweet{}).
		Where("user_id = ? OR user_id IN (?)", userID, followedSub)

	return s.listTweets(query, page, limit)
}

// ListByAuthor returns a page of one user's tweets, newest first.
func (s *TweetService) ListByAuthor(authorID uint, page, limit int) ([]models.Tweet, int64, error) {
	query := s.db.Model(&models.Tweet{}).Where("user_id = ?", authorID)
	return s.listTweets(query, page, limit)
}

// ListAll returns a page of every tweet in the system, newest first.
func (s *TweetService) ListAll(page, limit int) ([]models.Tweet, int64, error) {
	return s.listTweets(s.db.Model(&models.Tweet{}), page, limit)
}

func (s *TweetService) listTweets(query *gorm.DB, page, limit int) ([]models.Tweet, int64, error) {
	// Separate sessions so the count does not pollute the find statement.
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tweets: %w", err)
	}

	var tweets []models.Tweet
	err := query.Session(&gorm.Session{}).
		Preload("User").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tweets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tweets: %w", err)
	}

	return tweets, total, nil
}
