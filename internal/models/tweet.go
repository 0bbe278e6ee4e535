package models

import "gorm.io/gorm"

// Tweet represents a single post. The author never changes after creation;
// the only mutation a tweet ever sees is deletion.
type Tweet struct {
	gorm.Model
	Content string `gorm:"size:280;not null"`
	Image   string `gorm:"size:80"` // stored filename, empty when no image was attached
	UserID  uint   `gorm:"not null;index"`

	User User `gorm:"foreignKey:UserID"`
}
