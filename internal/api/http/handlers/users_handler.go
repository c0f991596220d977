package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskhive/support-desk/internal/api/dto"
	"github.com/deskhive/support-desk/internal/service"
	apperrors "github.com/deskhive/support-desk/pkg/util/errorutil"
)

// UsersHandler exposes auth and account endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /api/v1/auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.UserName == "" {
		return apperrors.NewValidationError("userName, email, password required", nil)
	}

	user, token, exp, err := h.auth.RegisterUser(c.UserContext(), service.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		UserType: req.UserType,
	})
	if err != nil {
		return err
	}

	return success(c, fiber.Map{
		"user": user,
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}, "User registered successfully")
}

// Login handles POST /api/v1/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return success(c, fiber.Map{
		"user": user,
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}, "User logged in successfully")
}

// AdminUpdateUser handles PUT /api/v1/auth/user/:id.
func (h *UsersHandler) AdminUpdateUser(c *fiber.Ctx) error {
	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	err := h.auth.AdminUpdateUser(c.UserContext(), c.Params("id"), service.AdminUpdateUserInput{
		UserName: req.UserName,
		UserType: req.UserType,
	})
	if err != nil {
		return err
	}
	return success(c, nil, "User updated successfully")
}

// AdminGetUsers handles GET /api/v1/auth/users.
func (h *UsersHandler) AdminGetUsers(c *fiber.Ctx) error {
	page := h.auth.Users(c.UserContext(), c.Queries())
	return success(c, page, "Users fetched successfully")
}
