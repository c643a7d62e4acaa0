package models

import "time"

// ItemType partitions a course's records into two independently ordered lists.
type ItemType string

const (
	TypeAssignment ItemType = "assignment"
	TypeResource   ItemType = "resource"
)

// Valid reports whether the type is one of the known partitions.
func (t ItemType) Valid() bool {
	return t == TypeAssignment || t == TypeResource
}

// FileTypeLink is the sentinel file_type for external-link records. Only
// link records may carry a screenshot URL.
const FileTypeLink = "link"

// Assignment is a single assignment or resource record belonging to a course.
// Position defines manual sort order within the (course_code, type)
// partition; records without a position sort after positioned ones, newest
// first.
type Assignment struct {
	ID            string    `db:"id" json:"id"`
	CourseCode    string    `db:"course_code" json:"courseCode"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Type          ItemType  `db:"type" json:"type"`
	FileURL       *string   `db:"file_url" json:"fileUrl,omitempty"`
	FileType      *string   `db:"file_type" json:"fileType,omitempty"`
	ScreenshotURL *string   `db:"screenshot_url" json:"screenshotUrl,omitempty"`
	Position      *int      `db:"position" json:"position,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// IsLink reports whether the record points at an external URL rather than
// an uploaded file.
func (a *Assignment) IsLink() bool {
	return a.FileType != nil && *a.FileType == FileTypeLink
}
