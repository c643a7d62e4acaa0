package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursefolio/internal/app/models/dto"
	"coursefolio/internal/pkg/filestorage"
	"coursefolio/internal/pkg/logger"
)

// maxUploadBytes caps a single upload body.
const maxUploadBytes = 50 << 20

// UploadController handles raw file uploads.
type UploadController struct {
	storage filestorage.BlobStorage
}

// NewUploadController creates a new UploadController.
func NewUploadController(storage filestorage.BlobStorage) *UploadController {
	return &UploadController{storage: storage}
}

// Upload reads the raw request body and stores it under a unique name that
// keeps the extension of the filename query parameter. Returns the public
// URL of the stored blob.
func (c *UploadController) Upload(ctx *gin.Context) {
	filename := ctx.Query("filename")
	if filename == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("filename query parameter is required"))
		return
	}

	body := http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadBytes)
	url, err := c.storage.SaveReader(body, filename)
	if err != nil {
		logger.Error().Err(err).Str("filename", filename).Msg("Upload failed")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Failed to store file"))
		return
	}

	ctx.JSON(http.StatusOK, dto.UploadResponse{URL: url})
}
