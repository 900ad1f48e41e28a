package api

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"kiosk-service/internal/auth"
	"kiosk-service/internal/entity"
	"kiosk-service/internal/service"
)

type UserService interface {
	Register(ctx context.Context, reg *entity.Registration) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.LoginResult, error)
	GetUser(ctx context.Context, caller service.Caller, id int64) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	ListRoles(ctx context.Context) ([]entity.UserRole, error)
	UpdateUser(ctx context.Context, caller service.Caller, id int64, reg *entity.Registration) (*entity.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type TokenParser interface {
	Parse(token string) (*auth.JwtCustomClaims, error)
}

type UserHandler struct {
	userService UserService
	tokens      TokenParser
}

func NewUserHandler(userService UserService, tokens TokenParser) *UserHandler {
	return &UserHandler{userService: userService, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type validateRequest struct {
	Token string `json:"token"`
}

// Register --> POST /api/user/register
func (h *UserHandler) Register(c echo.Context) error {
	reg := entity.Registration{}
	if err := c.Bind(&reg); err != nil {
		return invalidPayload(c)
	}
	user, err := h.userService.Register(c.Request().Context(), &reg)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, map[string]interface{}{"message": "User registered successfully.", "user": user})
}

// Login --> POST /api/user/login
func (h *UserHandler) Login(c echo.Context) error {
	req := loginRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	result, err := h.userService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, result)
}

// Validate --> POST /api/user/validate
func (h *UserHandler) Validate(c echo.Context) error {
	req := validateRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	token := req.Token
	if token == "" {
		token = strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	}
	if token == "" {
		return c.JSON(400, map[string]string{"error": "Token is required."})
	}

	claims, err := h.tokens.Parse(token)
	if err != nil {
		return c.JSON(401, map[string]interface{}{"valid": false, "error": "Invalid or expired token."})
	}
	return c.JSON(200, map[string]interface{}{
		"valid":    true,
		"user_id":  claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}

// ListRoles --> GET /api/user/roles
func (h *UserHandler) ListRoles(c echo.Context) error {
	roles, err := h.userService.ListRoles(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, roles)
}

// ListUsers --> GET /api/user
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, users)
}

// GetUser --> GET /api/user/:id
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	user, err := h.userService.GetUser(c.Request().Context(), caller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, user)
}

// UpdateUser --> PUT /api/user/:id
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	reg := entity.Registration{}
	if err := c.Bind(&reg); err != nil {
		return invalidPayload(c)
	}
	user, err := h.userService.UpdateUser(c.Request().Context(), caller(c), id, &reg)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, user)
}

// DeleteUser --> DELETE /api/user/:id
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	if err := h.userService.DeleteUser(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "User deactivated."})
}
