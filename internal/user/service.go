package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_api/internal/auth"
	"catalog_api/internal/db"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService struct {
	repo UserRepositoryInterface
	db   *sql.DB
}

type UserServiceInterface interface {
	CreateUser(ctx context.Context, name, email, password string) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, id int64, name, email, password string) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB) UserServiceInterface {
	return &UserService{
		repo: repo,
		db:   db,
	}
}

// CreateUser creates a new user with hashed password
func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (*User, error) {
	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
	}

	if err := s.repo.Create(ctx, s.db, user); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := auth.ComparePasswordHash([]byte(user.Password), password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.repo.GetAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser replaces name, email and password together.
func (s *UserService) UpdateUser(ctx context.Context, id int64, name, email, password string) (*User, error) {
	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:       id,
		Name:     name,
		Email:    email,
		Password: hashedPassword,
	}

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, db.ErrDuplicateKey):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *UserService) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	return s.repo.EmailTaken(ctx, s.db, email, exceptID)
}
