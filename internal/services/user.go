package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// LoginRateLimiter is what the user service needs from the redis repo.
type LoginRateLimiter interface {
	CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error)
}

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type userService struct {
	repo        repository.UserRepository
	rateLimiter LoginRateLimiter
	jwtKey      []byte
}

func NewUserService(repo repository.UserRepository, rateLimiter LoginRateLimiter, jwtKey []byte) UserService {
	return &userService{repo: repo, rateLimiter: rateLimiter, jwtKey: jwtKey}
}

// Register implements UserService.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {

	_, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, errors.DuplicateEntryError("An account with this email already exists")
	}

	if err != sql.ErrNoRows {
		return nil, errors.DatabaseError("Failed to check existing account").WithError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to hash password").WithError(err)
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, errors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

// Login implements UserService.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	allowed, _, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, req.Email)
	if err == nil && !allowed {
		return nil, errors.TooManyRequestsError("Too many login attempts, try again later").
			WithDetail(fmt.Sprintf("Retry after %d seconds", retryAfter))
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.UnauthorizedError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.UnauthorizedError("Invalid email or password")
	}

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to sign token").WithError(err)
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int(tokenLifetime.Seconds()),
	}, nil
}

// Profile implements UserService.
func (s *userService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("User not found")
		}

		return nil, errors.DatabaseError("Failed to fetch user").WithError(err)
	}

	return user, nil
}
