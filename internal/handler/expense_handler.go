package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"spendtrack/internal/filter"
	"spendtrack/internal/model"
	"spendtrack/internal/service"
)

// ExpenseHandler handles expense endpoints.
type ExpenseHandler struct {
	svc service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(svc service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// ExpenseRequest represents an expense create/update payload. Amount and
// date rules are enforced by the service so all violations come back in
// one aggregated field map.
type ExpenseRequest struct {
	User        string          `json:"user" validate:"required"`
	Title       string          `json:"title" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description"`
}

func (r ExpenseRequest) input() service.ExpenseInput {
	return service.ExpenseInput{
		UserID:      r.User,
		Title:       r.Title,
		Amount:      r.Amount,
		Date:        r.Date,
		Category:    r.Category,
		Description: r.Description,
	}
}

// ExpenseResponse is the wire form of an expense record. The category
// field carries the display label; requests use the category codes.
type ExpenseResponse struct {
	ID           uuid.UUID       `json:"id"`
	User         uuid.UUID       `json:"user"`
	UserUsername string          `json:"user_username"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	Date         model.Date      `json:"date"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func newExpenseResponse(e *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:           e.ID,
		User:         e.UserID,
		UserUsername: e.User.Username,
		Title:        e.Title,
		Amount:       e.Amount,
		Date:         e.Date,
		Category:     e.Category.Label(),
		Description:  e.Description,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func newExpenseResponses(expenses []model.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, newExpenseResponse(&expenses[i]))
	}
	return out
}

// Create godoc
// @Summary Create expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body ExpenseRequest true "Expense payload"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} errors.ValidationResponse
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return bindValidationError(err)
	}
	if err := c.Validate(&req); err != nil {
		return bindValidationError(err)
	}

	expense, err := h.svc.Create(c.Request().Context(), req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, newExpenseResponse(expense))
}

// List godoc
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Param min_amount query string false "amount >= value"
// @Param max_amount query string false "amount <= value"
// @Param start_date query string false "date >= value (YYYY-MM-DD)"
// @Param end_date query string false "date <= value (YYYY-MM-DD)"
// @Param category query string false "Category code"
// @Param user query string false "Owning user ID"
// @Param search query string false "Substring match on title or description"
// @Param ordering query string false "date, amount, category or created_at, '-' prefix for descending"
// @Success 200 {array} ExpenseResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	f, err := filter.ExpensesFromQuery(c.QueryParams())
	if err != nil {
		return paramError(err.Error(), "INVALID_FILTER")
	}
	expenses, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newExpenseResponses(expenses))
}

// Get godoc
// @Summary Get expense by id
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	expense, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newExpenseResponse(expense))
}

// Update godoc
// @Summary Update expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param expense body ExpenseRequest true "Expense payload"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} errors.ValidationResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return bindValidationError(err)
	}
	if err := c.Validate(&req); err != nil {
		return bindValidationError(err)
	}

	expense, err := h.svc.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newExpenseResponse(expense))
}

// Delete godoc
// @Summary Delete expense
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DateRange godoc
// @Summary List a user's expenses within a date window
// @Tags expenses
// @Produce json
// @Param user query string true "Owning user ID"
// @Param start_date query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param end_date query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Success 200 {array} ExpenseResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /expenses/date_range [get]
func (h *ExpenseHandler) DateRange(c echo.Context) error {
	userID, err := requiredUserParam(c)
	if err != nil {
		return err
	}

	var start, end *model.Date
	if raw := c.QueryParam("start_date"); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			return paramError("Invalid start_date format. Use YYYY-MM-DD", "INVALID_DATE")
		}
		start = &d
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			return paramError("Invalid end_date format. Use YYYY-MM-DD", "INVALID_DATE")
		}
		end = &d
	}

	expenses, err := h.svc.DateRange(c.Request().Context(), userID, start, end)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newExpenseResponses(expenses))
}

// CategorySummary godoc
// @Summary Per-category totals for one calendar month
// @Tags expenses
// @Produce json
// @Param user query string true "Owning user ID"
// @Param month query string false "Calendar month (YYYY-MM), defaults to the current month"
// @Success 200 {object} service.CategorySummary
// @Failure 400 {object} errors.ErrorResponse
// @Router /expenses/category_summary [get]
func (h *ExpenseHandler) CategorySummary(c echo.Context) error {
	userID, err := requiredUserParam(c)
	if err != nil {
		return err
	}

	month := time.Now()
	if raw := c.QueryParam("month"); raw != "" {
		month, err = time.Parse("2006-01", raw)
		if err != nil {
			return paramError("Invalid month format. Use YYYY-MM", "INVALID_MONTH")
		}
	}

	summary, err := h.svc.CategorySummary(c.Request().Context(), userID, month)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
