package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Relations (populated by the repository, ordered by id)
	Courses []CourseRef `json:"courses"`
}

// StudentRef is the short form of a student embedded in a course
type StudentRef struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
