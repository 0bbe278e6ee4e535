package models

import "gorm.io/gorm"

// User represents a user in the system.
type User struct {
	gorm.Model
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Bio          string `gorm:"size:500"`
	Location     string `gorm:"size:100"`
	Website      string `gorm:"size:100"`
	ProfileImage string `gorm:"size:80;not null;default:'default.jpg'"`
}
