package dto

import "github.com/yigit/courseapi/internal/app/models"

// CreateCourseRequest represents the data for creating a course
type CreateCourseRequest struct {
	Name       string  `json:"name" binding:"required,max=128" example:"Math"`
	StudentIDs []int64 `json:"student_ids" binding:"omitempty,max=1000" example:"1,2"`
}

// UpdateCourseRequest represents a partial course update. A nil StudentIDs leaves the
// enrolled students untouched; an empty list removes them all.
type UpdateCourseRequest struct {
	Name       *string  `json:"name" binding:"omitempty,max=128" example:"Advanced Math"`
	StudentIDs *[]int64 `json:"student_ids" binding:"omitempty,max=1000" swaggertype:"array,integer" example:"1,2"`
}

// CourseResponse represents a course with its students
type CourseResponse struct {
	ID       int64              `json:"id" example:"1"`
	Name     string             `json:"name" example:"Math"`
	Students []StudentReference `json:"students"`
}

// StudentReference is a student as embedded in a course
type StudentReference struct {
	ID   int64  `json:"id" example:"1"`
	Name string `json:"name" example:"Ada Lovelace"`
}

// NewCourseResponse converts a course model into its response
func NewCourseResponse(course *models.Course) CourseResponse {
	students := make([]StudentReference, 0, len(course.Students))
	for _, s := range course.Students {
		students = append(students, StudentReference{ID: s.ID, Name: s.Name})
	}
	return CourseResponse{
		ID:       course.ID,
		Name:     course.Name,
		Students: students,
	}
}

// NewCourseResponses converts a list of courses, never returning nil
func NewCourseResponses(courses []*models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		responses = append(responses, NewCourseResponse(c))
	}
	return responses
}
