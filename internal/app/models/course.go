package models

// CourseStatus tracks where a course sits in the program.
type CourseStatus string

const (
	CourseCompleted  CourseStatus = "completed"
	CourseInProgress CourseStatus = "in-progress"
	CourseTBD        CourseStatus = "tbd"
)

// Course is a catalog entry. The code (e.g. "CST 300") scopes all
// assignment and resource records.
type Course struct {
	Code        string       `db:"code" json:"code"`
	Name        string       `db:"name" json:"name"`
	Units       int          `db:"units" json:"units"`
	Status      CourseStatus `db:"status" json:"status"`
	Description string       `db:"description" json:"description"`
}
