package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursefolio/internal/app/services"
	"coursefolio/internal/middleware"
)

// CourseController serves the course catalog.
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController.
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// List returns every course in the catalog, ordered by code.
func (c *CourseController) List(ctx *gin.Context) {
	courses, err := c.courseService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, courses)
}
