package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prideatlas/prideatlas-backend/config"
	"github.com/prideatlas/prideatlas-backend/internal/app/controller"
	"github.com/prideatlas/prideatlas-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	businessController   *controller.BusinessController
	reviewController     *controller.ReviewController
	savedPlaceController *controller.SavedPlaceController
	uploadController     *controller.UploadController
	realtimeController   *controller.RealtimeController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	businessController *controller.BusinessController,
	reviewController *controller.ReviewController,
	savedPlaceController *controller.SavedPlaceController,
	uploadController *controller.UploadController,
	realtimeController *controller.RealtimeController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		businessController:   businessController,
		reviewController:     reviewController,
		savedPlaceController: savedPlaceController,
		uploadController:     uploadController,
		realtimeController:   realtimeController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "PrideAtlas API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		businesses := v1.Group("/businesses")
		{
			businesses.GET("", r.businessController.ListBusinesses)
			businesses.GET("/mine",
				r.authMiddleware.Authenticate(),
				r.businessController.ListMyBusinesses,
			)
			businesses.GET("/:id",
				r.authMiddleware.OptionalAuthenticate(),
				r.businessController.GetBusiness,
			)
			businesses.POST("",
				r.authMiddleware.Authenticate(),
				r.businessController.SubmitBusiness,
			)
			businesses.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("business_owner", "admin"),
				r.businessController.UpdateBusiness,
			)

			businesses.GET("/:id/reviews", r.reviewController.ListBusinessReviews)
			businesses.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.SubmitReview,
			)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.GET("/mine", r.reviewController.ListMyReviews)
		}

		saved := v1.Group("/saved")
		saved.Use(r.authMiddleware.Authenticate())
		{
			saved.GET("", r.savedPlaceController.ListSaved)
			saved.GET("/:business_id", r.savedPlaceController.CheckSaved)
			saved.PUT("/:business_id", r.savedPlaceController.SavePlace)
			saved.DELETE("/:business_id", r.savedPlaceController.UnsavePlace)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/businesses/pending", r.businessController.ListPendingBusinesses)
			admin.PUT("/businesses/:id/approve", r.businessController.ApproveBusiness)
			admin.PUT("/businesses/:id/reject", r.businessController.RejectBusiness)
			admin.PUT("/businesses/:id/suspend", r.businessController.SuspendBusiness)
			admin.PUT("/businesses/:id/featured", r.businessController.SetFeatured)
			admin.DELETE("/businesses/:id", r.businessController.DeleteBusiness)
			admin.DELETE("/reviews/:id", r.reviewController.DeleteReview)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
			upload.DELETE("", r.uploadController.DeleteFile)
		}

		v1.GET("/ws",
			r.authMiddleware.Authenticate(),
			r.realtimeController.WebSocketHandler,
		)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
