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

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// UpdateToken stores the user's current token; nil clears it.
	UpdateToken(ctx context.Context, userID int64, token *string) error
}

// UserRepository handles user database operations
type UserRepository struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.Database) *UserRepository {
	return &UserRepository{
		db: database,
		sb: database.StatementBuilder(),
	}
}

var userColumns = []string{"id", "username", "email", "password", "token"}

// Create inserts a new user and returns its id
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query, args, err := r.sb.Insert("users").
		Columns("username", "email", "password", "token").
		Values(user.Username, user.Email, user.Password, user.Token).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, ErrDuplicateEntry
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user := &models.User{}
	err = r.db.DB.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return user, nil
}

// UsernameExists checks whether a username is taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"username": username})
}

// EmailExists checks whether an email is taken
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) exists(ctx context.Context, where squirrel.Eq) (bool, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building user exists SQL")
		return false, fmt.Errorf("failed to build user existence query: %w", err)
	}

	var count int64
	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error checking user existence")
		return false, fmt.Errorf("error checking user existence: %w", err)
	}

	return count > 0, nil
}

// UpdateToken sets or clears the stored access token of a user
func (r *UserRepository) UpdateToken(ctx context.Context, userID int64, token *string) error {
	query, args, err := r.sb.Update("users").
		Set("token", token).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update token SQL")
		return fmt.Errorf("failed to build update token query: %w", err)
	}

	result, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update token query")
		return fmt.Errorf("error updating user token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
