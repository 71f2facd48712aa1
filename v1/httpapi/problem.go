package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classtrack/classrooms/v1/repository"
)

// Problem is an RFC 7807 problem document. Instance and Timestamp are
// filled in by the error handler from the request.
type Problem struct {
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Status    int      `json:"status"`
	Detail    string   `json:"detail,omitempty"`
	Details   []string `json:"details,omitempty"`
	Instance  string   `json:"instance,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

const (
	problemValidation = "urn:problem-type:validation"
	problemNotFound   = "urn:problem-type:not-found"
	problemConflict   = "urn:problem-type:conflict"
	problemTimeout    = "urn:problem-type:timeout"
	problemDatabase   = "urn:problem-type:database"
	problemHTTP       = "urn:problem-type:http"
)

// problemFromError maps domain and storage errors to problem documents.
// Storage failures deliberately carry no detail so internals never leak to
// clients.
func problemFromError(err error) Problem {
	var (
		validation   *repository.ValidationError
		invalidField *repository.InvalidFieldError
		notFound     *repository.NotFoundError
		conflict     *repository.ConflictError
		timeout      *repository.TimeoutError
		httpErr      *echo.HTTPError
	)

	switch {
	case errors.As(err, &validation):
		return Problem{
			Type:    problemValidation,
			Title:   "Invalid request",
			Status:  http.StatusBadRequest,
			Detail:  validation.Message,
			Details: validation.Details,
		}
	case errors.As(err, &invalidField):
		return Problem{
			Type:   problemValidation,
			Title:  "Invalid request",
			Status: http.StatusBadRequest,
			Detail: invalidField.Error(),
		}
	case errors.As(err, &notFound):
		return Problem{
			Type:   problemNotFound,
			Title:  "Resource not found",
			Status: http.StatusNotFound,
			Detail: notFound.Error(),
		}
	case errors.As(err, &conflict):
		return Problem{
			Type:   problemConflict,
			Title:  "Conflict",
			Status: http.StatusConflict,
			Detail: conflict.Error(),
		}
	case errors.As(err, &timeout):
		return Problem{
			Type:   problemTimeout,
			Title:  "Operation timed out",
			Status: http.StatusGatewayTimeout,
		}
	case errors.As(err, &httpErr):
		detail, _ := httpErr.Message.(string)
		return Problem{
			Type:   httpProblemType(httpErr.Code),
			Title:  http.StatusText(httpErr.Code),
			Status: httpErr.Code,
			Detail: detail,
		}
	default:
		return Problem{
			Type:   problemDatabase,
			Title:  "Internal error",
			Status: http.StatusInternalServerError,
		}
	}
}

// httpProblemType picks the type identifier for errors raised by the HTTP
// layer itself (routing, method matching, body limits). Only statuses that
// genuinely mean what a domain error means reuse a domain type.
func httpProblemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return problemValidation
	case http.StatusNotFound:
		return problemNotFound
	default:
		return problemHTTP
	}
}
