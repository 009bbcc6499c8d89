package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"spendtrack/internal/errors"
)

// respondError renders any service error: aggregated field errors as a
// 400 validation body, everything else through the domain-to-HTTP map.
func respondError(err error) error {
	var ferr errors.FieldErrors
	if stderrors.As(err, &ferr) {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ValidationResponse{Errors: ferr})
	}
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bindValidationError renders echo.Validator failures as field errors.
func bindValidationError(err error) error {
	if ferr, ok := errors.FromValidation(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ValidationResponse{Errors: ferr})
	}
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	})
}

// paramError renders a query/path parameter failure, reported distinctly
// from record validation.
func paramError(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, paramError("invalid id", "INVALID_UUID")
	}
	return id, nil
}

// requiredUserParam parses the mandatory user query parameter used by
// the custom read endpoints.
func requiredUserParam(c echo.Context) (uuid.UUID, error) {
	raw := c.QueryParam("user")
	if raw == "" {
		return uuid.Nil, paramError("User ID is required", "MISSING_USER")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, paramError("invalid user", "INVALID_UUID")
	}
	return id, nil
}
