package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ToggleLike godoc
// @Summary      Toggle a like
// @Description  Likes the tweet if not yet liked by the viewer, otherwise removes the like. Returns the fresh count.
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tweet ID"
// @Success      200  {object}  map[string]interface{} "{"success": true, "action": "liked", "likes_count": 1}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Tweet not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /tweets/{id}/like [post]
func ToggleLike(c *gin.Context) {
	viewer, _ := viewerID(c)

	tweetID, err := parseTweetID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid tweet ID"})
		return
	}

	action, count, err := interactionService().ToggleLike(viewer, tweetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "action": action, "likes_count": count})
}

// ToggleRetweet godoc
// @Summary      Toggle a retweet
// @Description  Retweets the tweet or removes an existing retweet. Retweeting your own tweet is rejected.
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tweet ID"
// @Success      200  {object}  map[string]interface{} "{"success": true, "action": "retweeted", "retweets_count": 1}"
// @Failure      400  {object}  ErrorResponse "Own tweet"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Tweet not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /tweets/{id}/retweet [post]
func ToggleRetweet(c *gin.Context) {
	viewer, _ := viewerID(c)

	tweetID, err := parseTweetID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid tweet ID"})
		return
	}

	action, count, err := interactionService().ToggleRetweet(viewer, tweetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "action": action, "retweets_count": count})
}
