// Package seed ensures the database holds the data the application cannot
// run without: the single admin account and the course catalog.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"coursefolio/internal/app/models"
	"coursefolio/internal/app/repositories"
)

// CreateDefaultData upserts the admin user and the course catalog. Safe to
// run on every startup: a changed admin password in config takes effect,
// and existing catalog rows are refreshed in place.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, adminUsername, adminPassword string, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)
	courseRepo := repositories.NewCourseRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (admin user, course catalog)...")
	var finalErr error

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if _, err := userRepo.Upsert(ctx, adminUsername, string(hash)); err != nil {
		lgr.Error().Err(err).Msg("Error seeding admin user")
		finalErr = errors.Join(finalErr, err)
	}

	for _, course := range defaultCourses() {
		if err := courseRepo.Upsert(ctx, course); err != nil {
			lgr.Error().Err(err).Str("code", course.Code).Msg("Error seeding course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func defaultCourses() []*models.Course {
	return []*models.Course{
		{
			Code:        "CST 300",
			Name:        "Major ProSeminar",
			Units:       4,
			Status:      models.CourseCompleted,
			Description: "Students learn professional writing, presentation, research, and critical-thinking skills within the diversified fields of computer science and communication design.",
		},
		{
			Code:        "CST 311",
			Name:        "Introduction to Computer Networks",
			Units:       4,
			Status:      models.CourseTBD,
			Description: "Survey of telecommunication and data communication technology fundamentals, LAN, WAN, Internet and internetworking protocols including TCP/IP, network security and performance.",
		},
		{
			Code:        "CST 334",
			Name:        "Operating Systems",
			Units:       4,
			Status:      models.CourseTBD,
			Description: "Use and design of modern operating systems, focusing on Linux: process management, memory management, file systems, and concurrency.",
		},
		{
			Code:        "CST 336",
			Name:        "Internet Programming",
			Units:       4,
			Status:      models.CourseTBD,
			Description: "Dynamic web application development: server-side programming, database connectivity, client-side scripting, RESTful web services, and Web APIs.",
		},
		{
			Code:        "CST 338",
			Name:        "Software Design",
			Units:       4,
			Status:      models.CourseCompleted,
			Description: "Intermediate-level programming course covering techniques for developing large-scale software systems using object-oriented programming.",
		},
		{
			Code:        "CST 363",
			Name:        "Introduction to Database Systems",
			Units:       4,
			Status:      models.CourseInProgress,
			Description: "Balanced coverage of database use and design, focusing on relational databases: schema design, SQL, programmatic access, and administration.",
		},
		{
			Code:        "CST 370",
			Name:        "Design and Analysis of Algorithms",
			Units:       4,
			Status:      models.CourseTBD,
			Description: "Fundamental algorithm design techniques and analysis of algorithm efficiency: hash, heap, graph, tree, sorting and searching, divide-and-conquer, dynamic programming, and greedy programming.",
		},
		{
			Code:        "CST 438",
			Name:        "Software Engineering",
			Units:       4,
			Status:      models.CourseTBD,
			Description: "Large-scale software development using software engineering principles: software process, requirements, design, implementation, testing, and project management.",
		},
		{
			Code:        "CST 462S",
			Name:        "Race, Gender, Class in the Digital World",
			Units:       3,
			Status:      models.CourseTBD,
			Description: "Key knowledge of race, gender, class and social justice in relation to technology, with a practical service placement in the community.",
		},
		{
			Code:        "CST 489",
			Name:        "Capstone Project Planning",
			Units:       1,
			Status:      models.CourseTBD,
			Description: "Students create a detailed proposal of a substantial, professional level project with the approval of the capstone advisor.",
		},
		{
			Code:        "CST 499",
			Name:        "Computer Science Capstone",
			Units:       4,
			Status:      models.CourseTBD,
			Description: "Group capstone project: requirements specification, solution plan, design and implementation, directed by faculty acting as project managers.",
		},
	}
}
