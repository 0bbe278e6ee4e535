package models

import "time"

// Retweet is a join record between a User and a Tweet, with the same
// uniqueness and hard-delete semantics as Like. Retweeting your own tweet
// is rejected by the interaction service before this row is ever created.
type Retweet struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_retweets_user_tweet"`
	TweetID   uint `gorm:"not null;uniqueIndex:idx_retweets_user_tweet;index"`
	CreatedAt time.Time
}
