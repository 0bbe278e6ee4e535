package models

import "time"

// Like is a join record between a User and a Tweet. The composite unique
// index makes the like toggle safe under concurrent requests: a duplicate
// insert fails at the storage layer instead of producing a second row.
// No soft delete here; an unliked row is gone, so the unique index never
// blocks a later re-like.
type Like struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_likes_user_tweet"`
	TweetID   uint `gorm:"not null;uniqueIndex:idx_likes_user_tweet;index"`
	CreatedAt time.Time
}
