package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"book-inventory-backend/internal/domains/user"
	"book-inventory-backend/pkg/jwt"
	"book-inventory-backend/pkg/logger"
)

// bcrypt work factor for stored password hashes
const passwordCost = 12

// userService implements user.Service
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
	cost       int
	now        func() time.Time
}

// NewUserService - constructor with DI
func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return newUserService(repo, jwtManager, passwordCost)
}

func newUserService(repo user.Repository, jwtManager *jwt.Manager, cost int) *userService {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		cost:       cost,
		now:        time.Now,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register creates the account and signs the caller in
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	req.Email = user.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := req.Email
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, user.ErrEmailAlreadyExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("check email exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(passwordHash),
		Name:         req.Name,
		Role:         user.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// the unique index still catches a concurrent registration
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info("User registered", map[string]interface{}{"user_id": newUser.ID.String()})
	return s.issue(newUser)
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	req.Email = user.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	logger.Info("User logged in", map[string]interface{}{"user_id": u.ID.String()})
	return s.issue(u)
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) issue(u *user.User) (*user.AuthResponse, error) {
	token, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &user.AuthResponse{
		AccessToken: token,
		User:        u.ToDTO(),
	}, nil
}
