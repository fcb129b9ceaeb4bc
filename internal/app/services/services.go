package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/courseapi/internal/app/repositories"
	"github.com/yigit/courseapi/internal/pkg/apperrors"
)

// Services defined in this package:
// - AuthService: registration, login, logout and bearer token authentication
// - CourseService: course CRUD with student enrolment
// - StudentService: student CRUD with course enrolment

// normalizeName trims a course or student name and rejects blank values
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("name cannot be empty")
	}
	return name, nil
}

// translateRepoError maps repository sentinels to the application error taxonomy
func translateRepoError(err error, notFoundMsg, conflictMsg string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewResourceNotFoundError(notFoundMsg)
	case errors.Is(err, repositories.ErrDuplicateEntry):
		return apperrors.NewConflictError(conflictMsg)
	default:
		return fmt.Errorf("repository error: %w", err)
	}
}
