package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"catalog_api/internal/db"
	"catalog_api/internal/observability"

	"github.com/sirupsen/logrus"
)

type UserRepository struct {
	metrics *observability.Metrics
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, q db.DBTX, user *User) error
	GetByID(ctx context.Context, q db.DBTX, id int64) (*User, error)
	GetByEmail(ctx context.Context, q db.DBTX, email string) (*User, error)
	GetAll(ctx context.Context, q db.DBTX) ([]*User, error)
	EmailTaken(ctx context.Context, q db.DBTX, email string, exceptID int64) (bool, error)
	Update(ctx context.Context, q db.DBTX, user *User) error
	Delete(ctx context.Context, q db.DBTX, id int64) error
}

func NewUserRepository(metrics *observability.Metrics) UserRepositoryInterface {
	return &UserRepository{metrics: metrics}
}

const userColumns = `id, name, email, password, created_at, updated_at`

func scanUser(row db.Scanner) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Password,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts user and fills in the generated id and timestamps.
func (r *UserRepository) Create(ctx context.Context, q db.DBTX, user *User) error {
	query := `
		INSERT INTO users (
			name, email, password, created_at, updated_at
		)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + userColumns

	start := time.Now()
	created, err := scanUser(q.QueryRowContext(ctx, query, user.Name, user.Email, user.Password))
	r.metrics.ObserveQuery("INSERT", start, err)
	if err != nil {
		err = db.MapError(err)
		if !errors.Is(err, db.ErrDuplicateKey) {
			logrus.WithError(err).Error("Failed to create user")
		}
		return err
	}

	*user = *created
	logrus.WithField("user_id", user.ID).Info("User created successfully")
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, q db.DBTX, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	start := time.Now()
	user, err := scanUser(q.QueryRowContext(ctx, query, id))
	r.metrics.ObserveQuery("SELECT", start, db.IgnoreNoRows(err))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		logrus.WithError(err).WithField("user_id", id).Error("Failed to get user by ID")
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, q db.DBTX, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	start := time.Now()
	user, err := scanUser(q.QueryRowContext(ctx, query, email))
	r.metrics.ObserveQuery("SELECT", start, db.IgnoreNoRows(err))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		logrus.WithError(err).Error("Failed to get user by email")
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetAll(ctx context.Context, q db.DBTX) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	start := time.Now()
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		r.metrics.ObserveQuery("SELECT", start, err)
		logrus.WithError(err).Error("Failed to list users")
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			r.metrics.ObserveQuery("SELECT", start, err)
			return nil, err
		}
		users = append(users, u)
	}

	err = rows.Err()
	r.metrics.ObserveQuery("SELECT", start, err)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// EmailTaken reports whether another user than exceptID owns email. Pass 0
// to check against every user.
func (r *UserRepository) EmailTaken(ctx context.Context, q db.DBTX, email string, exceptID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	start := time.Now()
	var taken bool
	err := q.QueryRowContext(ctx, query, email, exceptID).Scan(&taken)
	r.metrics.ObserveQuery("SELECT", start, err)
	if err != nil {
		logrus.WithError(err).Error("Failed to check email uniqueness")
		return false, err
	}
	return taken, nil
}

// Update replaces name, email and password of user.ID in one statement.
func (r *UserRepository) Update(ctx context.Context, q db.DBTX, user *User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns

	start := time.Now()
	updated, err := scanUser(q.QueryRowContext(ctx, query, user.Name, user.Email, user.Password, user.ID))
	r.metrics.ObserveQuery("UPDATE", start, db.IgnoreNoRows(err))
	if err != nil {
		err = db.MapError(err)
		if !errors.Is(err, db.ErrNotFound) && !errors.Is(err, db.ErrDuplicateKey) {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to update user")
		}
		return err
	}

	*user = *updated
	logrus.WithField("user_id", user.ID).Info("User updated successfully")
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, q db.DBTX, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	start := time.Now()
	result, err := q.ExecContext(ctx, query, id)
	r.metrics.ObserveQuery("DELETE", start, err)
	if err != nil {
		logrus.WithError(err).WithField("user_id", id).Error("Failed to delete user")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return db.ErrNotFound
	}

	logrus.WithField("user_id", id).Info("User deleted successfully")
	return nil
}
