package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/courseapi/internal/app/models"
	"github.com/yigit/courseapi/internal/app/models/dto"
	"github.com/yigit/courseapi/internal/app/repositories"
	"github.com/yigit/courseapi/internal/pkg/apperrors"
)

const msgStudentNameTaken = "Student with this name is already in use by another student"

// StudentService defines the interface for student-related operations
type StudentService interface {
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo repositories.IStudentRepository, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

func studentNotFound(id int64) string {
	return fmt.Sprintf("Student with ID %d not found", id)
}

// GetAllStudents retrieves all students with their courses
func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.studentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, studentNotFound(id), msgStudentNameTaken)
	}
	return student, nil
}

// CreateStudent creates a student enrolled in the existing courses among req.CourseIDs
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	name, err := normalizeName(req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, name, 0); err != nil {
		return nil, err
	}

	id, err := s.studentRepo.Create(ctx, name, req.CourseIDs)
	if err != nil {
		return nil, translateRepoError(err, studentNotFound(0), msgStudentNameTaken)
	}

	s.logger.Info().Int64("studentId", id).Str("name", name).Msg("Student created")
	return s.GetStudentByID(ctx, id)
}

// UpdateStudent renames a student and/or replaces their courses
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	if _, err := s.GetStudentByID(ctx, id); err != nil {
		return nil, err
	}

	var name *string
	if req.Name != nil {
		normalized, err := normalizeName(*req.Name)
		if err != nil {
			return nil, err
		}
		if err := s.ensureNameAvailable(ctx, normalized, id); err != nil {
			return nil, err
		}
		name = &normalized
	}

	if err := s.studentRepo.Update(ctx, id, name, req.CourseIDs); err != nil {
		return nil, translateRepoError(err, studentNotFound(id), msgStudentNameTaken)
	}

	s.logger.Info().Int64("studentId", id).Msg("Student updated")
	return s.GetStudentByID(ctx, id)
}

// DeleteStudent deletes a student; their courses are kept
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return translateRepoError(err, studentNotFound(id), msgStudentNameTaken)
	}

	s.logger.Info().Int64("studentId", id).Msg("Student deleted")
	return nil
}

// ensureNameAvailable fails with a conflict when another student already uses name.
// selfID is the student being updated, 0 on create.
func (s *studentServiceImpl) ensureNameAvailable(ctx context.Context, name string, selfID int64) error {
	existing, err := s.studentRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("error checking student name: %w", err)
	}
	if existing.ID != selfID {
		return apperrors.NewConflictError(msgStudentNameTaken)
	}
	return nil
}
