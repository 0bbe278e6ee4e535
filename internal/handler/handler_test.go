package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"chirper/backend/internal/auth"
	"chirper/backend/internal/config"
	"chirper/backend/internal/database"
	"chirper/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{
		JWTSecret: "test-secret",
		UploadDir: t.TempDir(),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A second pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Follow{}, &models.Tweet{}, &models.Like{}, &models.Retweet{},
	))
	database.DB = db

	router := gin.New()
	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", RegisterUser)
	authRoutes.POST("/login", LoginUser)

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(auth.AuthMiddleware())
	userRoutes.GET("/me", GetMe)
	userRoutes.PUT("/me", UpdateMe)
	userRoutes.GET("/suggested", GetSuggestedUsers)
	userRoutes.GET("/:id", GetUserByID)
	userRoutes.GET("/:id/tweets", GetUserTweets)
	userRoutes.GET("/:id/followers", GetFollowers)
	userRoutes.GET("/:id/following", GetFollowing)
	userRoutes.POST("/:id/follow", FollowUser)
	userRoutes.POST("/:id/unfollow", UnfollowUser)

	feedRoutes := apiV1.Group("/feed")
	feedRoutes.Use(auth.AuthMiddleware())
	feedRoutes.GET("", GetFeed)

	tweetRoutes := apiV1.Group("/tweets")
	tweetRoutes.GET("", auth.OptionalAuthMiddleware(), GetTweets)
	protected := tweetRoutes.Group("")
	protected.Use(auth.AuthMiddleware())
	protected.POST("", CreateTweet)
	protected.GET("/:id", GetTweetByID)
	protected.DELETE("/:id", DeleteTweet)
	protected.POST("/:id/like", ToggleLike)
	protected.POST("/:id/retweet", ToggleRetweet)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerTestUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	router := setupRouter(t)

	registerTestUser(t, router, "alice")

	// Duplicate username is a conflict.
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/feed", "bad-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The global tweet listing is public.
	w = doJSON(t, router, http.MethodGet, "/api/v1/tweets", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileCountsFailureSurfaces(t *testing.T) {
	router := setupRouter(t)
	token := registerTestUser(t, router, "alice")

	// With the follows table gone the counts cannot be computed; the
	// profile must fail loudly instead of rendering zeros.
	require.NoError(t, database.DB.Migrator().DropTable(&models.Follow{}))

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFollowEndpoints(t *testing.T) {
	router := setupRouter(t)

	aliceToken := registerTestUser(t, router, "alice")
	registerTestUser(t, router, "bob")

	// alice is user 1, bob is user 2.
	w := doJSON(t, router, http.MethodPost, "/api/v1/users/2/follow", aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Idempotent.
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/2/follow", aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Self-follow is rejected.
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/1/follow", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown target.
	w = doJSON(t, router, http.MethodPost, "/api/v1/users/99/follow", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/2/followers", aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	meta := decode(t, w)["meta"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["total_items"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/users/2/unfollow", aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/2/followers", aliceToken, nil)
	meta = decode(t, w)["meta"].(map[string]interface{})
	assert.EqualValues(t, 0, meta["total_items"])
}

func TestTweetLifecycle(t *testing.T) {
	router := setupRouter(t)

	aliceToken := registerTestUser(t, router, "alice")
	bobToken := registerTestUser(t, router, "bob")

	// bob follows alice so her tweet shows up in his feed.
	w := doJSON(t, router, http.MethodPost, "/api/v1/users/1/follow", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/tweets", aliceToken, gin.H{"content": "hello world"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tweet := decode(t, w)["tweet"].(map[string]interface{})
	tweetID := int(tweet["id"].(float64))

	// Oversized content is rejected before persistence.
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	w = doJSON(t, router, http.MethodPost, "/api/v1/tweets", aliceToken, gin.H{"content": string(long)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/feed", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode(t, w)["data"].([]interface{})
	require.Len(t, feed, 1)
	first := feed[0].(map[string]interface{})
	assert.Equal(t, "hello world", first["content"])
	assert.Equal(t, "alice", first["author"].(map[string]interface{})["username"])

	// Only the author may delete.
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/tweets/%d", tweetID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/tweets/%d", tweetID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/tweets/%d", tweetID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleEndpoints(t *testing.T) {
	router := setupRouter(t)

	aliceToken := registerTestUser(t, router, "alice")
	bobToken := registerTestUser(t, router, "bob")

	w := doJSON(t, router, http.MethodPost, "/api/v1/tweets", aliceToken, gin.H{"content": "toggle me"})
	require.Equal(t, http.StatusCreated, w.Code)
	tweet := decode(t, w)["tweet"].(map[string]interface{})
	tweetID := int(tweet["id"].(float64))

	likePath := fmt.Sprintf("/api/v1/tweets/%d/like", tweetID)
	w = doJSON(t, router, http.MethodPost, likePath, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "liked", body["action"])
	assert.EqualValues(t, 1, body["likes_count"])

	w = doJSON(t, router, http.MethodPost, likePath, bobToken, nil)
	body = decode(t, w)
	assert.Equal(t, "unliked", body["action"])
	assert.EqualValues(t, 0, body["likes_count"])

	retweetPath := fmt.Sprintf("/api/v1/tweets/%d/retweet", tweetID)

	// Own tweet cannot be retweeted.
	w = doJSON(t, router, http.MethodPost, retweetPath, aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, retweetPath, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "retweeted", body["action"])
	assert.EqualValues(t, 1, body["retweets_count"])
}

func TestSuggestedUsersEndpoint(t *testing.T) {
	router := setupRouter(t)

	aliceToken := registerTestUser(t, router, "alice")
	registerTestUser(t, router, "bob")
	registerTestUser(t, router, "carol")

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/2/follow", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/suggested", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0]["username"])
}

func TestUpdateProfileEndpoint(t *testing.T) {
	router := setupRouter(t)

	aliceToken := registerTestUser(t, router, "alice")

	w := doJSON(t, router, http.MethodPut, "/api/v1/users/me", aliceToken, gin.H{
		"bio":      "gopher",
		"location": "berlin",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "gopher", body["bio"])
	assert.Equal(t, "berlin", body["location"])
}
