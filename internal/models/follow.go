package models

import "time"

// Follow represents a directed edge in the social graph: the follower
// subscribes to the followed user's tweets. The composite primary key
// guarantees at most one edge per ordered pair, so concurrent follow
// requests cannot create duplicates.
type Follow struct {
	FollowerID uint `gorm:"primaryKey"`
	FollowedID uint `gorm:"primaryKey"`
	CreatedAt  time.Time

	Follower User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Followed User `gorm:"foreignKey:FollowedID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
