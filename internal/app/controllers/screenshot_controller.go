package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursefolio/internal/app/models/dto"
	"coursefolio/internal/app/services"
	"coursefolio/internal/pkg/logger"
)

// ScreenshotController exposes on-demand screenshot generation.
type ScreenshotController struct {
	generator services.ScreenshotGenerator
}

// NewScreenshotController creates a new ScreenshotController.
func NewScreenshotController(generator services.ScreenshotGenerator) *ScreenshotController {
	return &ScreenshotController{generator: generator}
}

// Generate captures a screenshot of the given URL synchronously. Provider
// failure is not an error to the caller: the response is 200 with a null
// screenshotUrl, and the client falls back to the pending placeholder.
func (c *ScreenshotController) Generate(ctx *gin.Context) {
	var req dto.ScreenshotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("url is required").WithDetails(err.Error()))
		return
	}

	if c.generator == nil {
		ctx.JSON(http.StatusOK, dto.ScreenshotResponse{ScreenshotURL: nil})
		return
	}

	url, err := c.generator.Generate(ctx.Request.Context(), req.URL)
	if err != nil {
		logger.Warn().Err(err).Str("url", req.URL).Msg("Screenshot generation failed")
		ctx.JSON(http.StatusOK, dto.ScreenshotResponse{ScreenshotURL: nil})
		return
	}

	ctx.JSON(http.StatusOK, dto.ScreenshotResponse{ScreenshotURL: &url})
}
