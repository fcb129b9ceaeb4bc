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

const msgCourseNameTaken = "Course with this name is already in use by another course"

// CourseService defines the interface for course-related operations
type CourseService interface {
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo repositories.ICourseRepository
	logger     zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo repositories.ICourseRepository, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

func courseNotFound(id int64) string {
	return fmt.Sprintf("Course with ID %d not found", id)
}

// GetAllCourses retrieves all courses with their students
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, courseNotFound(id), msgCourseNameTaken)
	}
	return course, nil
}

// CreateCourse creates a course enrolling the existing students among req.StudentIDs
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	name, err := normalizeName(req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, name, 0); err != nil {
		return nil, err
	}

	id, err := s.courseRepo.Create(ctx, name, req.StudentIDs)
	if err != nil {
		return nil, translateRepoError(err, courseNotFound(0), msgCourseNameTaken)
	}

	s.logger.Info().Int64("courseId", id).Str("name", name).Msg("Course created")
	return s.GetCourseByID(ctx, id)
}

// UpdateCourse renames a course and/or replaces its students
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	if _, err := s.GetCourseByID(ctx, id); err != nil {
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

	if err := s.courseRepo.Update(ctx, id, name, req.StudentIDs); err != nil {
		return nil, translateRepoError(err, courseNotFound(id), msgCourseNameTaken)
	}

	s.logger.Info().Int64("courseId", id).Msg("Course updated")
	return s.GetCourseByID(ctx, id)
}

// DeleteCourse deletes a course; its students are kept
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return translateRepoError(err, courseNotFound(id), msgCourseNameTaken)
	}

	s.logger.Info().Int64("courseId", id).Msg("Course deleted")
	return nil
}

// ensureNameAvailable fails with a conflict when another course already uses name.
// selfID is the course being updated, 0 on create.
func (s *courseServiceImpl) ensureNameAvailable(ctx context.Context, name string, selfID int64) error {
	existing, err := s.courseRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("error checking course name: %w", err)
	}
	if existing.ID != selfID {
		return apperrors.NewConflictError(msgCourseNameTaken)
	}
	return nil
}
