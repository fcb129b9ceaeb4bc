package dto

import "github.com/yigit/courseapi/internal/app/models"

// CreateStudentRequest represents the data for creating a student
type CreateStudentRequest struct {
	Name      string  `json:"name" binding:"required,max=128" example:"Ada Lovelace"`
	CourseIDs []int64 `json:"course_ids" binding:"omitempty,max=1000" example:"1,2"`
}

// UpdateStudentRequest represents a partial student update. A nil CourseIDs leaves the
// enrolments untouched; an empty list removes them all.
type UpdateStudentRequest struct {
	Name      *string  `json:"name" binding:"omitempty,max=128" example:"Ada King"`
	CourseIDs *[]int64 `json:"course_ids" binding:"omitempty,max=1000" swaggertype:"array,integer" example:"1,2"`
}

// StudentResponse represents a student with the courses they attend
type StudentResponse struct {
	ID      int64             `json:"id" example:"1"`
	Name    string            `json:"name" example:"Ada Lovelace"`
	Courses []CourseReference `json:"courses"`
}

// CourseReference is a course as embedded in a student
type CourseReference struct {
	ID   int64  `json:"id" example:"1"`
	Name string `json:"name" example:"Math"`
}

// NewStudentResponse converts a student model into its response
func NewStudentResponse(student *models.Student) StudentResponse {
	courses := make([]CourseReference, 0, len(student.Courses))
	for _, c := range student.Courses {
		courses = append(courses, CourseReference{ID: c.ID, Name: c.Name})
	}
	return StudentResponse{
		ID:      student.ID,
		Name:    student.Name,
		Courses: courses,
	}
}

// NewStudentResponses converts a list of students, never returning nil
func NewStudentResponses(students []*models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		responses = append(responses, NewStudentResponse(s))
	}
	return responses
}
