package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories is a container for all repository instances
type Repositories struct {
	AssignmentRepository *AssignmentRepository
	UserRepository       *UserRepository
	SessionRepository    *SessionRepository
	CourseRepository     *CourseRepository
}

// NewRepositories creates all repositories with the shared connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AssignmentRepository: NewAssignmentRepository(db),
		UserRepository:       NewUserRepository(db),
		SessionRepository:    NewSessionRepository(db),
		CourseRepository:     NewCourseRepository(db),
	}
}
