package handler

import (
	"net/http"
	"strconv"
	"strings"

	"chirper/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// CreateTweetInput defines the structure for tweet creation. JSON requests
// carry content only; multipart requests may attach an image file.
type CreateTweetInput struct {
	Content string `form:"content" json:"content" binding:"required" example:"hello world"`
}

// endregion

// CreateTweet godoc
// @Summary      Create a tweet
// @Description  Posts a new tweet for the authenticated user, optionally with an image.
// @Tags         tweets
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        content  formData  string  true   "Tweet content (1-280 characters)"
// @Param        image    formData  file    false  "Attached image"
// @Success      201  {object}  TweetResponse
// @Failure      400  {object}  ErrorResponse "Empty or oversized content"
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tweets [post]
func CreateTweet(c *gin.Context) {
	viewer, _ := viewerID(c)

	var input CreateTweetInput
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}

	images := imageStore()
	var savedImage string
	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read uploaded image"})
			return
		}
		defer src.Close()

		savedImage = images.UniqueName(file.Filename)
		if err := images.Save(storage.KindTweets, savedImage, src); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store image"})
			return
		}
	}

	tweet, err := tweetService().Create(viewer, input.Content, savedImage)
	if err != nil {
		// Keep row and blob in step: a failed insert must not leave the image behind.
		if savedImage != "" {
			_ = images.Remove(storage.KindTweets, savedImage)
		}
		respondError(c, err)
		return
	}

	response, err := newTweetResponse(*tweet, viewer, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "tweet": response})
}

// GetTweets godoc
// @Summary      List all tweets
// @Description  Retrieves a paginated reverse-chronological list of every tweet. Viewer flags are filled when a token is sent.
// @Tags         tweets
// @Produce      json
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[TweetResponse]
// @Failure      500  {object}  ErrorResponse
// @Router       /tweets [get]
func GetTweets(c *gin.Context) {
	viewer, hasViewer := viewerID(c)
	page, limit := parsePageParams(c)

	tweets, total, err := tweetService().ListAll(page, limit)
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

// GetTweetByID godoc
// @Summary      Get a single tweet
// @Description  Retrieves one tweet with its author and interaction counts.
// @Tags         tweets
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tweet ID"
// @Success      200  {object}  TweetResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tweets/{id} [get]
func GetTweetByID(c *gin.Context) {
	viewer, hasViewer := viewerID(c)

	tweetID, err := parseTweetID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid tweet ID"})
		return
	}

	tweet, err := tweetService().GetByID(tweetID)
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := newTweetResponse(*tweet, viewer, hasViewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetFeed godoc
// @Summary      Get the viewer's feed
// @Description  Retrieves a paginated feed of the viewer's own tweets plus tweets from followed users, newest first.
// @Tags         tweets
// @Produce      json
// @Security     BearerAuth
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(20)
// @Success      200  {object}  PaginatedResponse[TweetResponse]
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /feed [get]
func GetFeed(c *gin.Context) {
	viewer, _ := viewerID(c)
	page, limit := parsePageParams(c)

	tweets, total, err := tweetService().ComposeFeed(viewer, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses, err := newTweetResponses(tweets, viewer, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

// DeleteTweet godoc
// @Summary      Delete a tweet
// @Description  Deletes the viewer's own tweet along with its likes, retweets and stored image.
// @Tags         tweets
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Tweet ID"
// @Success      200  {object}  map[string]string "{"success": true, "message": "Tweet deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not the tweet's author"
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tweets/{id} [delete]
func DeleteTweet(c *gin.Context) {
	viewer, _ := viewerID(c)

	tweetID, err := parseTweetID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid tweet ID"})
		return
	}

	if err := tweetService().Delete(viewer, tweetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tweet deleted"})
}

func parseTweetID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
