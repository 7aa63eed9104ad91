package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/odsregistry/internal/common"
	"github.com/dmitrijs2005/odsregistry/internal/server/auth"
	"github.com/dmitrijs2005/odsregistry/internal/server/config"
	"github.com/dmitrijs2005/odsregistry/internal/server/models"
	"github.com/dmitrijs2005/odsregistry/internal/server/repositories/repomanager"
)

// UserService handles account registration and credential checks.
type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	queryTimeout time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:           db,
		repomanager:  m,
		queryTimeout: cfg.DBConnectTimeout,
	}
}

// Register creates an account with a bcrypt-hashed password. An email
// that is already taken yields common.ErrAlreadyExists, whether it is
// seen by the lookup or by the unique constraint on insert. A password
// bcrypt refuses to hash yields common.ErrorInternal.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	ctx, cancel := boundedContext(ctx, s.queryTimeout)
	defer cancel()

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the password against the stored hash.
//
// Unknown email gives common.ErrorNotFound and a wrong password
// common.ErrorUnauthorized. A hash that cannot be compared gives
// common.ErrorInternal. Storage failures are returned wrapped.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	ctx, cancel := boundedContext(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: compare password: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}
