package repositories

import (
	"github.com/yigit/courseapi/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	CourseRepository  *CourseRepository
	StudentRepository *StudentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.Database) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(database),
		CourseRepository:  NewCourseRepository(database),
		StudentRepository: NewStudentRepository(database),
	}
}
