package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursefolio/internal/app/models/dto"
	"coursefolio/internal/app/services"
	"coursefolio/internal/middleware"
)

// AssignmentController handles assignment and resource record operations.
type AssignmentController struct {
	assignmentService services.AssignmentService
}

// NewAssignmentController creates a new AssignmentController.
func NewAssignmentController(assignmentService services.AssignmentService) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
	}
}

// List returns every record for a course, ordered for display. Unknown
// course codes return an empty list, not 404.
func (c *AssignmentController) List(ctx *gin.Context) {
	items, err := c.assignmentService.List(ctx.Request.Context(), ctx.Param("courseCode"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// Create stores a new record and returns it with its server-assigned id,
// position and timestamp.
func (c *AssignmentController) Create(ctx *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body").WithDetails(err.Error()))
		return
	}

	created, err := c.assignmentService.Create(ctx.Request.Context(), ctx.Param("courseCode"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// Update overwrites a record's mutable fields and returns the stored result.
func (c *AssignmentController) Update(ctx *gin.Context) {
	var req dto.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body").WithDetails(err.Error()))
		return
	}

	updated, err := c.assignmentService.Update(ctx.Request.Context(), ctx.Param("courseCode"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Reorder persists a full display ordering for the course in one shot.
func (c *AssignmentController) Reorder(ctx *gin.Context) {
	var req dto.ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("orderedIds must be a non-empty array").WithDetails(err.Error()))
		return
	}

	if err := c.assignmentService.Reorder(ctx.Request.Context(), ctx.Param("courseCode"), req.OrderedIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// Delete removes a record. Deleting an already-deleted record succeeds.
func (c *AssignmentController) Delete(ctx *gin.Context) {
	var req dto.DeleteAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body").WithDetails(err.Error()))
		return
	}

	if err := c.assignmentService.Delete(ctx.Request.Context(), ctx.Param("courseCode"), req.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
