package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FollowUser godoc
// @Summary      Follow a user
// @Description  Creates a follow edge from the viewer to the target user. Idempotent.
// @Tags         graph
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]bool "{"success": true, "following": true}"
// @Failure      400  {object}  ErrorResponse "Invalid ID or self-follow"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Router       /users/{id}/follow [post]
func FollowUser(c *gin.Context) {
	viewer, _ := viewerID(c)

	targetID, err := parseUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if err := graphService().Follow(viewer, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "following": true})
}

// UnfollowUser godoc
// @Summary      Unfollow a user
// @Description  Removes the follow edge from the viewer to the target user, if present.
// @Tags         graph
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]bool "{"success": true, "following": false}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/{id}/unfollow [post]
func UnfollowUser(c *gin.Context) {
	viewer, _ := viewerID(c)

	targetID, err := parseUserID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if err := graphService().Unfollow(viewer, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "following": false})
}

// GetFollowers godoc
// @Summary      List a user's followers
// @Description  Retrieves a paginated list of the users following the target user.
// @Tags         graph
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true   "Target User ID"
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[UserResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/followers [get]
func GetFollowers(c *gin.Context) {
	listEdgeUsers(c, true)
}

// GetFollowing godoc
// @Summary      List the users a user follows
// @Description  Retrieves a paginated list of the users the target user follows.
// @Tags         graph
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true   "Target User ID"
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[UserResponse]
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/following [get]
func GetFollowing(c *gin.Context) {
	listEdgeUsers(c, false)
}

func listEdgeUsers(c *gin.Context, followers bool) {
	viewer, _ := viewerID(c)

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

	graph := graphService()
	list := graph.Following
	if followers {
		list = graph.Followers
	}

	users, total, err := list(targetID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses, err := newUserResponses(users, viewer, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}
