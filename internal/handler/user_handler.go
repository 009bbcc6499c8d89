package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"spendtrack/internal/filter"
	"spendtrack/internal/service"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UserRequest represents a user create/update payload.
type UserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

// Create godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body UserRequest true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ValidationResponse
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return bindValidationError(err)
	}
	if err := c.Validate(&req); err != nil {
		return bindValidationError(err)
	}

	user, err := h.svc.Create(c.Request().Context(), service.UserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param search query string false "Substring match on username or email"
// @Param ordering query string false "username, email or created_at, '-' prefix for descending"
// @Success 200 {array} model.User
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context(), filter.UsersFromQuery(c.QueryParams()))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Update godoc
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body UserRequest true "User payload"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ValidationResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return bindValidationError(err)
	}
	if err := c.Validate(&req); err != nil {
		return bindValidationError(err)
	}

	user, err := h.svc.Update(c.Request().Context(), id, service.UserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete user and all owned expenses
// @Tags users
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Statistics godoc
// @Summary Expense statistics for one user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} service.Statistics
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/statistics [get]
func (h *UserHandler) Statistics(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.Statistics(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
