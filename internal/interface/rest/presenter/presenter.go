package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/batimatch/batimatch/internal/domain"
)

// Envelope is the uniform response shape of the API.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    any        `json:"meta,omitempty"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func OKMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

func OKMeta(c echo.Context, data any, meta any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Meta: meta})
}

func BadRequest(c echo.Context, message string) error {
	return fail(c, http.StatusBadRequest, message, domain.CodeBadRequest)
}

func Unauthorized(c echo.Context, message string) error {
	return fail(c, http.StatusUnauthorized, message, domain.CodeUnauthorized)
}

func Forbidden(c echo.Context, message string) error {
	return fail(c, http.StatusForbidden, message, domain.CodeForbidden)
}

func TooManyRequests(c echo.Context, message string) error {
	return fail(c, http.StatusTooManyRequests, message, domain.CodeRateLimited)
}

// Error maps a domain error onto the envelope, picking the HTTP status and
// stable code from the error type. Unknown errors become an opaque 500; the
// internal message never reaches the client.
func Error(c echo.Context, err error) error {
	var conflict domain.ConflictError
	if errors.As(err, &conflict) {
		code := conflict.Code
		if code == "" {
			code = domain.CodeConflict
		}
		return fail(c, http.StatusConflict, conflict.Error(), code)
	}

	var transition domain.InvalidTransitionError
	if errors.As(err, &transition) {
		return fail(c, http.StatusConflict, transition.Error(), domain.CodeInvalidTransition)
	}

	var notFound domain.NotFoundError
	if errors.As(err, &notFound) {
		return fail(c, http.StatusNotFound, notFound.Error(), domain.CodeNotFound)
	}

	var unauthorized domain.UnauthorizedError
	if errors.As(err, &unauthorized) {
		return fail(c, http.StatusUnauthorized, unauthorized.Error(), domain.CodeUnauthorized)
	}

	var validation domain.ValidationError
	if errors.As(err, &validation) {
		return fail(c, http.StatusBadRequest, validation.Error(), domain.CodeValidation)
	}

	return fail(c, http.StatusInternalServerError, "an internal error occurred", domain.CodeInternal)
}

func fail(c echo.Context, status int, message, code string) error {
	return c.JSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Message: message, Code: code},
	})
}
