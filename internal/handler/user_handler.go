package handler

import (
	"net/http"
	"strconv"

	"chirper/backend/internal/service"
	"chirper/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// UpdateProfileInput defines the editable profile fields. Omitted fields are
// left unchanged. The profile image travels separately as a multipart file.
type UpdateProfileInput struct {
	Username *string `form:"username" json:"username" binding:"omitempty,min=3,max=64"`
	Email    *string `form:"email" json:"email" binding:"omitempty,email"`
	Bio      *string `form:"bio" json:"bio" binding:"omitempty,max=500"`
	Location *string `form:"location" json:"location" binding:"omitempty,max=100"`
	Website  *string `form:"website" json:"website" binding:"omitempty,max=100"`
}

// endregion

// GetMe godoc
// @Summary      Get current user's profile
// @Description  Retrieves the profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewer, _ := viewerID(c)

	user, err := userService().GetByID(viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := newUserResponse(*user, viewer, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Description  Updates profile fields and optionally replaces the profile image.
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        username      formData  string  false  "New username"
// @Param        email         formData  string  false  "New email"
// @Param        bio           formData  string  false  "Bio"
// @Param        location      formData  string  false  "Location"
// @Param        website       formData  string  false  "Website"
// @Param        profile_image formData  file    false  "Profile image"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Username or email already taken"
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	viewer, _ := viewerID(c)

	var input UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	update := service.ProfileUpdate{
		Username: input.Username,
		Email:    input.Email,
		Bio:      input.Bio,
		Location: input.Location,
		Website:  input.Website,
	}

	images := imageStore()
	var savedImage string
	if file, err := c.FormFile("profile_image"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read uploaded image"})
			return
		}
		defer src.Close()

		savedImage = images.UniqueName(file.Filename)
		if err := images.Save(storage.KindProfilePics, savedImage, src); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store image"})
			return
		}
		update.ProfileImage = &savedImage
	}

	user, err := userService().UpdateProfile(viewer, update)
	if err != nil {
		// Don't leave an orphaned blob behind when the profile row update failed.
		if savedImage != "" {
			_ = images.Remove(storage.KindProfilePics, savedImage)
		}
		respondError(c, err)
		return
	}

	response, err := newUserResponse(*user, viewer, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user, including follow state relative to the viewer.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	viewer, _ := viewerID(c)

	targetID, err := parseUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}

	user, err := userService().GetByID(targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := newUserResponse(*user, viewer, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetUserTweets godoc
// @Summary      Get a user's tweets
// @Description  Retrieves a paginated list of one user's tweets, newest first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true   "User ID"
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[TweetResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/tweets [get]
func GetUserTweets(c *gin.Context) {
	viewer, hasViewer := viewerID(c)

	targetID, err := parseUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if _, err := userService().GetByID(targetID); err != nil {
		respondError(c, err)
		return
	}

	page, limit := parsePageParams(c)
	tweets, total, err := tweetService().ListByAuthor(targetID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses, err := newTweetResponses(tweets, viewer, hasViewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

// GetSuggestedUsers godoc
// @Summary      Get suggested users
// @Description  Returns users the viewer does not follow yet, excluding themselves.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Maximum number of suggestions" default(5)
// @Success      200  {array}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/suggested [get]
func GetSuggestedUsers(c *gin.Context) {
	viewer, _ := viewerID(c)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	users, err := graphService().SuggestedUsers(viewer, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses, err := newUserResponses(users, viewer, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

func parseUserID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
