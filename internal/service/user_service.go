package service

import (
	"errors"
	"fmt"
	"strings"

	"chirper/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService implements the identity store: registration, authentication
// and profile maintenance.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// isDuplicateKey reports whether err is a unique-constraint violation. The
// connection is opened with TranslateError, so drivers report
// gorm.ErrDuplicatedKey; the message checks cover drivers that don't
// translate.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// Register creates a new user with a bcrypt-hashed password. Username and
// email must both be unused.
func (s *UserService) Register(username, email, password string) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		ProfileImage: "default.jpg",
	}
	if err := s.db.Create(&user).Error; err != nil {
		// Lost a race with a concurrent registration for the same
		// username or email; the unique indexes have the final say.
		if isDuplicateKey(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Authenticate verifies the email/password pair and returns the matching
// user. Both an unknown email and a wrong password report
// ErrInvalidCredentials so callers cannot probe for registered addresses.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetByID fetches a user by primary key.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// GetByUsername fetches a user by their unique username.
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// ProfileUpdate carries the editable profile fields. Nil pointers leave the
// current value untouched.
type ProfileUpdate struct {
	Username     *string
	Email        *string
	Bio          *string
	Location     *string
	Website      *string
	ProfileImage *string
}

// UpdateProfile applies a profile edit. Username and email changes are
// checked for uniqueness against every other user before anything is written.
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil && *update.Username != user.Username {
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("username = ? AND id <> ?", *update.Username, userID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if count > 0 {
			return nil, ErrDuplicateUser
		}
		user.Username = *update.Username
	}

	if update.Email != nil && *update.Email != user.Email {
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", *update.Email, userID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return nil, ErrDuplicateUser
		}
		user.Email = *update.Email
	}

	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	if update.Website != nil {
		user.Website = *update.Website
	}
	if update.ProfileImage != nil {
		user.ProfileImage = *update.ProfileImage
	}

	if err := s.db.Save(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}
