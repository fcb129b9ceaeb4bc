package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/courseapi/internal/app/models"
	"github.com/yigit/courseapi/internal/db"
	"github.com/yigit/courseapi/internal/pkg/dberrors"
	"github.com/yigit/courseapi/internal/pkg/logger"
)

// ICourseRepository defines the interface for course-related database operations
type ICourseRepository interface {
	GetAll(ctx context.Context) ([]*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByName(ctx context.Context, name string) (*models.Course, error)

	// Create inserts the course and enrols the existing students among studentIDs.
	Create(ctx context.Context, name string, studentIDs []int64) (int64, error)
	// Update renames the course when name is non-nil and replaces its students when
	// studentIDs is non-nil.
	Update(ctx context.Context, id int64, name *string, studentIDs *[]int64) error
	Delete(ctx context.Context, id int64) error
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.Database) *CourseRepository {
	return &CourseRepository{
		db: database,
		sb: database.StatementBuilder(),
	}
}

// GetAll retrieves all courses ordered by id, each with its students
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query, args, err := r.sb.Select("id", "name").
		From("courses").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all courses SQL")
		return nil, fmt.Errorf("failed to build get all courses query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}

	courses := []*models.Course{}
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(&course.ID, &course.Name); err != nil {
			rows.Close()
			logger.Error().Err(err).Msg("Error scanning course row during get all")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	students, err := courseStudents.load(ctx, r.db.DB, r.sb, nil)
	if err != nil {
		return nil, err
	}
	for _, course := range courses {
		course.Students = toStudentRefs(students[course.ID])
	}

	return courses, nil
}

// GetByID retrieves a course with its students
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a course by its unique name
func (r *CourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

func (r *CourseRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Course, error) {
	query, args, err := r.sb.Select("id", "name").
		From("courses").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course := &models.Course{}
	err = r.db.DB.QueryRowContext(ctx, query, args...).Scan(&course.ID, &course.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course: %w", err)
	}

	students, err := courseStudents.load(ctx, r.db.DB, r.sb, []int64{course.ID})
	if err != nil {
		return nil, err
	}
	course.Students = toStudentRefs(students[course.ID])

	return course, nil
}

// Create inserts a course together with its student associations in one transaction
func (r *CourseRepository) Create(ctx context.Context, name string, studentIDs []int64) (int64, error) {
	var id int64

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := r.sb.Insert("courses").
			Columns("name").
			Values(name).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create course SQL")
			return fmt.Errorf("failed to build create course query: %w", err)
		}

		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			if dberrors.IsUniqueViolation(err) {
				return ErrDuplicateEntry
			}
			logger.Error().Err(err).Str("name", name).Msg("Error executing create course query")
			return fmt.Errorf("error creating course: %w", err)
		}

		existing, err := courseStudents.resolve(ctx, tx, r.sb, studentIDs)
		if err != nil {
			return err
		}
		return courseStudents.replace(ctx, tx, r.sb, id, existing)
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Update applies a partial update to a course in one transaction
func (r *CourseRepository) Update(ctx context.Context, id int64, name *string, studentIDs *[]int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := r.ensureExists(ctx, tx, id); err != nil {
			return err
		}

		if name != nil {
			query, args, err := r.sb.Update("courses").
				Set("name", *name).
				Where(squirrel.Eq{"id": id}).
				ToSql()
			if err != nil {
				logger.Error().Err(err).Msg("Error building update course SQL")
				return fmt.Errorf("failed to build update course query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				if dberrors.IsUniqueViolation(err) {
					return ErrDuplicateEntry
				}
				logger.Error().Err(err).Int64("courseID", id).Msg("Error executing update course query")
				return fmt.Errorf("error updating course: %w", err)
			}
		}

		if studentIDs != nil {
			existing, err := courseStudents.resolve(ctx, tx, r.sb, *studentIDs)
			if err != nil {
				return err
			}
			if err := courseStudents.replace(ctx, tx, r.sb, id, existing); err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes a course and its enrolments; the students themselves are kept
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := courseStudents.clear(ctx, tx, r.sb, id); err != nil {
			return err
		}

		query, args, err := r.sb.Delete("courses").
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building delete course SQL")
			return fmt.Errorf("failed to build delete course query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
			return fmt.Errorf("error deleting course: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("error reading affected rows: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}

		return nil
	})
}

func (r *CourseRepository) ensureExists(ctx context.Context, q querier, id int64) error {
	query, args, err := r.sb.Select("id").
		From("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build course existence query: %w", err)
	}

	var found int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error checking course existence")
		return fmt.Errorf("error checking course existence: %w", err)
	}

	return nil
}

func toStudentRefs(members []member) []models.StudentRef {
	refs := make([]models.StudentRef, 0, len(members))
	for _, m := range members {
		refs = append(refs, models.StudentRef{ID: m.ID, Name: m.Name})
	}
	return refs
}
