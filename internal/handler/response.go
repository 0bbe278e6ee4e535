package handler

import (
	"errors"
	"net/http"
	"time"

	"chirper/backend/internal/config"
	"chirper/backend/internal/database"
	"chirper/backend/internal/models"
	"chirper/backend/internal/service"
	"chirper/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// region --- Shared DTOs ---

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"An error message"`
}

// AuthorResponse is the compact author block embedded in tweet responses.
type AuthorResponse struct {
	ID           uint   `json:"id" example:"1"`
	Username     string `json:"username" example:"alice"`
	ProfileImage string `json:"profile_image" example:"default.jpg"`
}

// UserResponse defines the structure for a user's public profile.
type UserResponse struct {
	ID             uint      `json:"id" example:"1"`
	Username       string    `json:"username" example:"alice"`
	Bio            string    `json:"bio,omitempty"`
	Location       string    `json:"location,omitempty"`
	Website        string    `json:"website,omitempty"`
	ProfileImage   string    `json:"profile_image" example:"default.jpg"`
	CreatedAt      time.Time `json:"created_at"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	IsFollowing    *bool     `json:"is_following,omitempty"`
}

// TweetResponse defines the structure for a tweet with its interaction counts
// and, when a viewer is known, their like/retweet state.
type TweetResponse struct {
	ID            uint           `json:"id" example:"1"`
	Content       string         `json:"content" example:"hello world"`
	Image         string         `json:"image,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	Author        AuthorResponse `json:"author"`
	LikesCount    int64          `json:"likes_count"`
	RetweetsCount int64          `json:"retweets_count"`
	Liked         bool           `json:"liked"`
	Retweeted     bool           `json:"retweeted"`
}

// endregion

// region --- Service accessors ---

func userService() *service.UserService {
	return service.NewUserService(database.DB)
}

func graphService() *service.GraphService {
	return service.NewGraphService(database.DB)
}

func interactionService() *service.InteractionService {
	return service.NewInteractionService(database.DB)
}

func tweetService() *service.TweetService {
	return service.NewTweetService(database.DB, imageStore())
}

func imageStore() *storage.ImageStore {
	return storage.NewImageStore(config.AppConfig.UploadDir)
}

// viewerID returns the authenticated user's ID, or ok=false on routes with
// optional auth where no valid token was sent.
func viewerID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// endregion

// region --- Response builders ---

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrDuplicateUser):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrSelfRetweet),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrContentTooLong):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		// Store failures are not leaked to the client.
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func newAuthorResponse(user models.User) AuthorResponse {
	return AuthorResponse{
		ID:           user.ID,
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
	}
}

func newUserResponse(user models.User, viewer uint, hasViewer bool) (UserResponse, error) {
	graph := graphService()
	followers, err := graph.FollowerCount(user.ID)
	if err != nil {
		return UserResponse{}, err
	}
	following, err := graph.FollowingCount(user.ID)
	if err != nil {
		return UserResponse{}, err
	}

	response := UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Bio:            user.Bio,
		Location:       user.Location,
		Website:        user.Website,
		ProfileImage:   user.ProfileImage,
		CreatedAt:      user.CreatedAt,
		FollowersCount: followers,
		FollowingCount: following,
	}

	if hasViewer && viewer != user.ID {
		isFollowing, err := graph.IsFollowing(viewer, user.ID)
		if err != nil {
			return UserResponse{}, err
		}
		response.IsFollowing = &isFollowing
	}

	return response, nil
}

func newUserResponses(users []models.User, viewer uint, hasViewer bool) ([]UserResponse, error) {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		response, err := newUserResponse(user, viewer, hasViewer)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// newTweetResponses decorates a tweet page with counts and viewer flags
// using batched queries.
func newTweetResponses(tweets []models.Tweet, viewer uint, hasViewer bool) ([]TweetResponse, error) {
	interactions := interactionService()

	ids := lo.Map(tweets, func(t models.Tweet, _ int) uint { return t.ID })

	likeCounts, err := interactions.LikeCounts(ids)
	if err != nil {
		return nil, err
	}
	retweetCounts, err := interactions.RetweetCounts(ids)
	if err != nil {
		return nil, err
	}

	likedSet := map[uint]bool{}
	retweetedSet := map[uint]bool{}
	if hasViewer {
		if likedSet, err = interactions.LikedSet(viewer, ids); err != nil {
			return nil, err
		}
		if retweetedSet, err = interactions.RetweetedSet(viewer, ids); err != nil {
			return nil, err
		}
	}

	return lo.Map(tweets, func(t models.Tweet, _ int) TweetResponse {
		return TweetResponse{
			ID:            t.ID,
			Content:       t.Content,
			Image:         t.Image,
			CreatedAt:     t.CreatedAt,
			Author:        newAuthorResponse(t.User),
			LikesCount:    likeCounts[t.ID],
			RetweetsCount: retweetCounts[t.ID],
			Liked:         likedSet[t.ID],
			Retweeted:     retweetedSet[t.ID],
		}
	}), nil
}

func newTweetResponse(tweet models.Tweet, viewer uint, hasViewer bool) (TweetResponse, error) {
	responses, err := newTweetResponses([]models.Tweet{tweet}, viewer, hasViewer)
	if err != nil {
		return TweetResponse{}, err
	}
	return responses[0], nil
}

// endregion
