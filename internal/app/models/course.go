package models

// Course defines the course model based on the 'courses' table
type Course struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Relations (populated by the repository, ordered by id)
	Students []StudentRef `json:"students"`
}

// CourseRef is the short form of a course embedded in a student
type CourseRef struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
