package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deskhive/support-desk/internal/auth"
	"github.com/deskhive/support-desk/internal/config"
	"github.com/deskhive/support-desk/internal/domain"
	"github.com/deskhive/support-desk/internal/pagination"
	"github.com/deskhive/support-desk/internal/repository"
	apperrors "github.com/deskhive/support-desk/pkg/util/errorutil"
)

// AuthService coordinates registration, login and admin user
// management.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	paginator  *pagination.Paginator[domain.User]
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	UserName string
	Email    string
	Password string
	UserType string
}

// AdminUpdateUserInput carries the only fields an admin update may
// touch.
type AdminUpdateUserInput struct {
	UserName *string
	UserType *string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		paginator:  pagination.New[domain.User](users, cfg.Pagination.MinLimit),
	}
}

// RegisterUser creates a new account. The payload may elevate the role
// to admin or agent; anything else registers a customer.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewValidationError(
			fmt.Sprintf("User with %s already exist!", input.Email), nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		UserName:     input.UserName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	switch input.UserType {
	case "admin":
		user.Role = domain.RoleAdmin
	case "agent":
		user.Role = domain.RoleAgent
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// LoginUser authenticates an account by email and password.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewDomainError(
				"NOT_FOUND", "User with email does not exist", http.StatusNotFound, nil)
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid Email and Password provided")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// AdminUpdateUser patches userName/userType on the target account.
// Any other payload field is ignored.
func (s *AuthService) AdminUpdateUser(ctx context.Context, userID string, input AdminUpdateUserInput) error {
	var role *domain.UserRole
	if input.UserType != nil {
		parsed, err := parseRole(*input.UserType)
		if err != nil {
			return err
		}
		role = &parsed
	}
	if input.UserName == nil && role == nil {
		return nil
	}
	if err := s.users.UpdateProfile(ctx, userID, input.UserName, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("User doesn't exist!")
		}
		return err
	}
	return nil
}

// Users lists accounts for admins, newest first, with the credential
// hash projected out.
func (s *AuthService) Users(ctx context.Context, params map[string]string) pagination.Page[domain.User] {
	opts := pagination.Options{
		Params: params,
		Page:   params["page"],
		Limit:  params["limit"],
		Sort:   []pagination.Sort{{Field: "createdAt", Desc: true}},
	}
	return s.paginator.Paginate(ctx, opts, nil, []string{"password"})
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func parseRole(raw string) (domain.UserRole, error) {
	switch raw {
	case "admin":
		return domain.RoleAdmin, nil
	case "agent":
		return domain.RoleAgent, nil
	case "customer":
		return domain.RoleCustomer, nil
	}
	return "", apperrors.NewValidationError("userType must be one of customer, agent, admin", nil)
}
