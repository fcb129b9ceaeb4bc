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

// IStudentRepository defines the interface for student-related database operations
type IStudentRepository interface {
	GetAll(ctx context.Context) ([]*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByName(ctx context.Context, name string) (*models.Student, error)

	// Create inserts the student and enrols them in the existing courses among courseIDs.
	Create(ctx context.Context, name string, courseIDs []int64) (int64, error)
	// Update renames the student when name is non-nil and replaces their courses when
	// courseIDs is non-nil.
	Update(ctx context.Context, id int64, name *string, courseIDs *[]int64) error
	Delete(ctx context.Context, id int64) error
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.Database) *StudentRepository {
	return &StudentRepository{
		db: database,
		sb: database.StatementBuilder(),
	}
}

// GetAll retrieves all students ordered by id, each with their courses
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	query, args, err := r.sb.Select("id", "name").
		From("students").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all students SQL")
		return nil, fmt.Errorf("failed to build get all students query: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}

	students := []*models.Student{}
	for rows.Next() {
		student := &models.Student{}
		if err := rows.Scan(&student.ID, &student.Name); err != nil {
			rows.Close()
			logger.Error().Err(err).Msg("Error scanning student row during get all")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	courses, err := studentCourses.load(ctx, r.db.DB, r.sb, nil)
	if err != nil {
		return nil, err
	}
	for _, student := range students {
		student.Courses = toCourseRefs(courses[student.ID])
	}

	return students, nil
}

// GetByID retrieves a student with their courses
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a student by their unique name
func (r *StudentRepository) GetByName(ctx context.Context, name string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Student, error) {
	query, args, err := r.sb.Select("id", "name").
		From("students").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student := &models.Student{}
	err = r.db.DB.QueryRowContext(ctx, query, args...).Scan(&student.ID, &student.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	courses, err := studentCourses.load(ctx, r.db.DB, r.sb, []int64{student.ID})
	if err != nil {
		return nil, err
	}
	student.Courses = toCourseRefs(courses[student.ID])

	return student, nil
}

// Create inserts a student together with their course associations in one transaction
func (r *StudentRepository) Create(ctx context.Context, name string, courseIDs []int64) (int64, error) {
	var id int64

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := r.sb.Insert("students").
			Columns("name").
			Values(name).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create student SQL")
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			if dberrors.IsUniqueViolation(err) {
				return ErrDuplicateEntry
			}
			logger.Error().Err(err).Str("name", name).Msg("Error executing create student query")
			return fmt.Errorf("error creating student: %w", err)
		}

		existing, err := studentCourses.resolve(ctx, tx, r.sb, courseIDs)
		if err != nil {
			return err
		}
		return studentCourses.replace(ctx, tx, r.sb, id, existing)
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Update applies a partial update to a student in one transaction
func (r *StudentRepository) Update(ctx context.Context, id int64, name *string, courseIDs *[]int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := r.ensureExists(ctx, tx, id); err != nil {
			return err
		}

		if name != nil {
			query, args, err := r.sb.Update("students").
				Set("name", *name).
				Where(squirrel.Eq{"id": id}).
				ToSql()
			if err != nil {
				logger.Error().Err(err).Msg("Error building update student SQL")
				return fmt.Errorf("failed to build update student query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				if dberrors.IsUniqueViolation(err) {
					return ErrDuplicateEntry
				}
				logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update student query")
				return fmt.Errorf("error updating student: %w", err)
			}
		}

		if courseIDs != nil {
			existing, err := studentCourses.resolve(ctx, tx, r.sb, *courseIDs)
			if err != nil {
				return err
			}
			if err := studentCourses.replace(ctx, tx, r.sb, id, existing); err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes a student and their enrolments; the courses themselves are kept
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := studentCourses.clear(ctx, tx, r.sb, id); err != nil {
			return err
		}

		query, args, err := r.sb.Delete("students").
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building delete student SQL")
			return fmt.Errorf("failed to build delete student query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
			return fmt.Errorf("error deleting student: %w", err)
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

func (r *StudentRepository) ensureExists(ctx context.Context, q querier, id int64) error {
	query, args, err := r.sb.Select("id").
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build student existence query: %w", err)
	}

	var found int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error checking student existence")
		return fmt.Errorf("error checking student existence: %w", err)
	}

	return nil
}

func toCourseRefs(members []member) []models.CourseRef {
	refs := make([]models.CourseRef, 0, len(members))
	for _, m := range members {
		refs = append(refs, models.CourseRef{ID: m.ID, Name: m.Name})
	}
	return refs
}
