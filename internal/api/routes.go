package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/core"
	"wanderlist-backend-go/internal/middleware"
)

// Services groups the core services the routes dispatch to.
type Services struct {
	Guard       core.AuthGuard
	Collections core.CollectionService
	BucketList  core.BucketListService
	Visibility  core.VisibilityService
}

// SetupRoutes registers every route under /api/v1 plus /health.
// Global middleware (logging, recovery, CORS) is applied by the caller.
// Read endpoints use optional auth and degrade to empty or public-only results.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, services Services) {
	authMW := middleware.NewAuthMiddleware(services.Guard, logger)
	requireAuth := authMW.RequireAuth()
	optionalAuth := authMW.OptionalAuth()

	userHandler := NewUserHandler()
	bucketHandler := NewBucketListHandler(services.BucketList, services.Collections, logger)
	tripHandler := NewTripHandler(services.Collections, logger)
	itemHandler := NewItemHandler(services.Collections, logger)
	placeHandler := NewPlaceHandler(services.Visibility, logger)
	socialHandler := NewSocialHandler(services.Visibility, logger)

	apiV1 := router.Group("/api/v1")
	{
		users := apiV1.Group("/users")
		{
			users.POST("/initialize", requireAuth, userHandler.InitializeUser)
			users.POST("/:userId/follow", requireAuth, socialHandler.Follow)
			users.DELETE("/:userId/follow", requireAuth, socialHandler.Unfollow)
		}

		bucket := apiV1.Group("/bucket-list")
		{
			bucket.GET("", optionalAuth, bucketHandler.ListBucketList)
			bucket.POST("", requireAuth, bucketHandler.AddToBucketList)
			bucket.PUT("/order", requireAuth, bucketHandler.ReorderBucketList)
			bucket.POST("/:itemId/visit", requireAuth, bucketHandler.MarkVisited)
			bucket.POST("/:itemId/skip", requireAuth, bucketHandler.MarkSkipped)
		}

		trips := apiV1.Group("/trips/:tripId")
		{
			trips.GET("/items", optionalAuth, tripHandler.ListTripItems)
			trips.POST("/items", requireAuth, tripHandler.AddTripItem)
			trips.PUT("/days/:day/order", requireAuth, tripHandler.ReorderDay)
		}

		items := apiV1.Group("/items/:itemId", requireAuth)
		{
			items.PATCH("/rank", itemHandler.SetRank)
			items.DELETE("", itemHandler.RemoveItem)
		}

		places := apiV1.Group("/places/:placeId", optionalAuth)
		{
			places.GET("/photos", placeHandler.ListPhotos)
			places.GET("/contributors", placeHandler.ListContributors)
			places.GET("/stats", placeHandler.GetStats)
		}

		apiV1.PUT("/photos/:photoId/visibility", requireAuth, socialHandler.SetPhotoVisibility)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Wanderlist backend is healthy."})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
