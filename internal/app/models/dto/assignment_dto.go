package dto

import "coursefolio/internal/app/models"

// CreateAssignmentRequest is the body of POST /api/assignments/:courseCode.
type CreateAssignmentRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	Type          models.ItemType `json:"type" binding:"required"`
	FileURL       *string         `json:"fileUrl"`
	FileType      *string         `json:"fileType"`
	ScreenshotURL *string         `json:"screenshotUrl"`
}

// UpdateAssignmentRequest is the body of PUT /api/assignments/:courseCode.
// Type, course and position are immutable through this operation.
type UpdateAssignmentRequest struct {
	ID            string  `json:"id" binding:"required"`
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	FileURL       *string `json:"fileUrl"`
	FileType      *string `json:"fileType"`
	ScreenshotURL *string `json:"screenshotUrl"`
}

// ReorderRequest is the body of PATCH /api/assignments/:courseCode.
type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds" binding:"required"`
}

// DeleteAssignmentRequest is the body of DELETE /api/assignments/:courseCode.
type DeleteAssignmentRequest struct {
	ID string `json:"id" binding:"required"`
}

// UploadResponse is returned by POST /api/upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// ScreenshotRequest is the body of POST /api/screenshot.
type ScreenshotRequest struct {
	URL string `json:"url" binding:"required"`
}

// ScreenshotResponse is returned by POST /api/screenshot. ScreenshotURL is
// null when generation failed; the request still succeeds.
type ScreenshotResponse struct {
	ScreenshotURL *string `json:"screenshotUrl"`
}
