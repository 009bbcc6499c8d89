package router

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"spendtrack/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	userHandler *handler.UserHandler,
	expenseHandler *handler.ExpenseHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Serves the spec generated by `swag init -g cmd/server/main.go`;
	// without that step the UI loads but doc.json is empty.
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// User routes
	api.POST("/users", userHandler.Create)
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.PUT("/users/:id", userHandler.Update)
	api.PATCH("/users/:id", userHandler.Update)
	api.DELETE("/users/:id", userHandler.Delete)
	api.GET("/users/:id/statistics", userHandler.Statistics)

	// Expense routes
	api.POST("/expenses", expenseHandler.Create)
	api.GET("/expenses", expenseHandler.List)
	api.GET("/expenses/date_range", expenseHandler.DateRange)
	api.GET("/expenses/category_summary", expenseHandler.CategorySummary)
	api.GET("/expenses/:id", expenseHandler.Get)
	api.PUT("/expenses/:id", expenseHandler.Update)
	api.PATCH("/expenses/:id", expenseHandler.Update)
	api.DELETE("/expenses/:id", expenseHandler.Delete)
}

// CustomValidator wraps validator for Echo. Field names in validation
// errors follow json tags so they line up with request payloads.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the echo.Validator used by all handlers.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
