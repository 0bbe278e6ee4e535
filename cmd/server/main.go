package main

import (
	"fmt"
	"log"
	"net/http"

	"chirper/backend/internal/auth"
	"chirper/backend/internal/config"
	"chirper/backend/internal/database"
	"chirper/backend/internal/handler"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "chirper/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Chirper API
// @version         1.0
// @description     This is the API for the Chirper social feed service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Stored images (tweet attachments and profile pictures)
	router.Static("/uploads", config.AppConfig.UploadDir)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
			userRoutes.GET("/suggested", handler.GetSuggestedUsers) // Must be before /:id
			userRoutes.GET("/:id", handler.GetUserByID)
			userRoutes.GET("/:id/tweets", handler.GetUserTweets)
			userRoutes.GET("/:id/followers", handler.GetFollowers)
			userRoutes.GET("/:id/following", handler.GetFollowing)

			// Social graph routes
			userRoutes.POST("/:id/follow", handler.FollowUser)
			userRoutes.POST("/:id/unfollow", handler.UnfollowUser)
		}

		// Feed route (protected)
		feedRoutes := apiV1.Group("/feed")
		feedRoutes.Use(auth.AuthMiddleware())
		{
			feedRoutes.GET("", handler.GetFeed)
		}

		// Tweet routes
		tweetRoutes := apiV1.Group("/tweets")
		{
			// The global listing is public; viewer flags are filled when a token is sent.
			tweetRoutes.GET("", auth.OptionalAuthMiddleware(), handler.GetTweets)

			protected := tweetRoutes.Group("")
			protected.Use(auth.AuthMiddleware())
			{
				protected.POST("", handler.CreateTweet)
				protected.GET("/:id", handler.GetTweetByID)
				protected.DELETE("/:id", handler.DeleteTweet)
				protected.POST("/:id/like", handler.ToggleLike)
				protected.POST("/:id/retweet", handler.ToggleRetweet)
			}
		}
	}

	fmt.Println("Server is running on " + config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
