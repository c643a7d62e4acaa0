package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursefolio/internal/app/controllers"
	"coursefolio/internal/middleware"
)

// SetupRouter configures all application routes.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	assignmentController *controllers.AssignmentController,
	courseController *controllers.CourseController,
	uploadController *controllers.UploadController,
	screenshotController *controllers.ScreenshotController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public routes ---
	api.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.POST("/login", authController.Login)
	api.POST("/logout", authController.Logout)

	api.GET("/courses", courseController.List)

	// Listing stays public: the portfolio pages render without a session.
	api.GET("/assignments/:courseCode", assignmentController.List)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	{
		authenticated.GET("/me", authController.Me)

		assignments := authenticated.Group("/assignments/:courseCode")
		{
			assignments.POST("", assignmentController.Create)
			assignments.PUT("", assignmentController.Update)
			assignments.PATCH("", assignmentController.Reorder)
			assignments.DELETE("", assignmentController.Delete)
		}

		authenticated.POST("/upload", uploadController.Upload)
		authenticated.POST("/screenshot", screenshotController.Generate)
	}
}
