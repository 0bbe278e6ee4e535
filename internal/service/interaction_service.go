package service

import (
	"errors"
	"fmt"

	"chirper/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Toggle actions reported back to the caller.
const (
	ActionLiked       = "liked"
	ActionUnliked     = "unliked"
	ActionRetweeted   = "retweeted"
	ActionUnretweeted = "unretweeted"
)

// InteractionService implements the like and retweet toggles. Both follow
// the same pattern over a join entity: delete the row if it exists,
// otherwise insert it, then report the fresh count.
type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// ToggleLike likes the tweet if the user has not liked it yet, otherwise
// removes the like. Returns the action taken and the tweet's current like
// count.
func (s *InteractionService) ToggleLike(userID, tweetID uint) (string, int64, error) {
	if _, err := s.tweet(tweetID); err != nil {
		return "", 0, err
	}

	action := ActionUnliked
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND tweet_id = ?", userID, tweetID).Delete(&models.Like{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove like: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}

		like := models.Like{UserID: userID, TweetID: tweetID}
		// OnConflict guards against a concurrent toggle inserting first.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return fmt.Errorf("failed to create like: %w", err)
		}
		action = ActionLiked
		return nil
	})
	if err != nil {
		return "", 0, err
	}

	count, err := s.LikeCount(tweetID)
	if err != nil {
		return "", 0, err
	}
	return action, count, nil
}

// ToggleRetweet retweets the tweet or removes an existing retweet. A user
// may not retweet their own tweet; that is rejected before any write.
func (s *InteractionService) ToggleRetweet(userID, tweetID uint) (string, int64, error) {
	tweet, err := s.tweet(tweetID)
	if err != nil {
		return "", 0, err
	}
	if tweet.UserID == userID {
		return "", 0, ErrSelfRetweet
	}

	action := ActionUnretweeted
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND tweet_id = ?", userID, tweetID).Delete(&models.Retweet{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove retweet: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}

		retweet := models.Retweet{UserID: userID, TweetID: tweetID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&retweet).Error; err != nil {
			return fmt.Errorf("failed to create retweet: %w", err)
		}
		action = ActionRetweeted
		return nil
	})
	if err != nil {
		return "", 0, err
	}

	count, err := s.RetweetCount(tweetID)
	if err != nil {
		return "", 0, err
	}
	return action, count, nil
}

// LikeCount returns the number of likes on a tweet, computed fresh.
func (s *InteractionService) LikeCount(tweetID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Like{}).Where("tweet_id = ?", tweetID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// RetweetCount returns the number of retweets on a tweet, computed fresh.
func (s *InteractionService) RetweetCount(tweetID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Retweet{}).Where("tweet_id = ?", tweetID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count retweets: %w", err)
	}
	return count, nil
}

// LikeCounts returns like counts for a batch of tweets in one query.
// Tweets with no likes are absent from the map.
func (s *InteractionService) LikeCounts(tweetIDs []uint) (map[uint]int64, error) {
	return s.countMap(&models.Like{}, tweetIDs)
}

// RetweetCounts returns retweet counts for a batch of tweets in one query.
func (s *InteractionService) RetweetCounts(tweetIDs []uint) (map[uint]int64, error) {
	return s.countMap(&models.Retweet{}, tweetIDs)
}

func (s *InteractionService) countMap(model interface{}, tweetIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TweetID uint
		Total   int64
	}
	err := s.db.Model(model).
		Select("tweet_id, COUNT(*) AS total").
		Where("tweet_id IN (?)", tweetIDs).
		Group("tweet_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}

	for _, row := range rows {
		counts[row.TweetID] = row.Total
	}
	return counts, nil
}

// LikedSet returns the subset of tweetIDs the user has liked, as a set.
// Used to decorate tweet listings with viewer-relative flags in one query.
func (s *InteractionService) LikedSet(userID uint, tweetIDs []uint) (map[uint]bool, error) {
	return s.joinSet(&models.Like{}, userID, tweetIDs)
}

// RetweetedSet returns the subset of tweetIDs the user has retweeted, as a set.
func (s *InteractionService) RetweetedSet(userID uint, tweetIDs []uint) (map[uint]bool, error) {
	return s.joinSet(&models.Retweet{}, userID, tweetIDs)
}

func (s *InteractionService) joinSet(model interface{}, userID uint, tweetIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return set, nil
	}

	var ids []uint
	err := s.db.Model(model).
		Where("user_id = ? AND tweet_id IN (?)", userID, tweetIDs).
		Pluck("tweet_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interaction set: %w", err)
	}

	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *InteractionService) tweet(tweetID uint) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := s.db.First(&tweet, tweetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch tweet: %w", err)
	}
	return &tweet, nil
}
