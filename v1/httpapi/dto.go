package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/classtrack/classrooms/v1/classrooms"
	"github.com/classtrack/classrooms/v1/repository"
)

// GradeRequest is the payload for creating or renaming a grade.
type GradeRequest struct {
	GradeName string `json:"grade_name" validate:"required,max=50"`
}

// SectionRequest is the payload for creating or renaming a section.
type SectionRequest struct {
	SectionName string `json:"section_name" validate:"required,max=50"`
}

// requestValidator plugs validator/v10 into echo's Validate hook.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return &repository.ValidationError{
			Message: "request validation failed",
			Details: []string{err.Error()},
		}
	}
	return nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &repository.ValidationError{Message: "id must be a positive integer"}
	}
	return id, nil
}

// searchQuery parses the listing query parameters. Timestamps accept
// RFC 3339 and plain dates.
func searchQuery(c echo.Context) (classrooms.SearchQuery, error) {
	q := classrooms.SearchQuery{
		Name: c.QueryParam("name"),
		Page: 1,
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, &repository.ValidationError{Message: "page must be an integer"}
		}
		q.Page = page
	}
	if raw := c.QueryParam("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return q, &repository.ValidationError{Message: "size must be an integer"}
		}
		q.Size = size
	}

	for param, dst := range map[string]**time.Time{
		"created_from": &q.CreatedFrom,
		"created_to":   &q.CreatedTo,
	} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		ts, err := parseTimestamp(raw)
		if err != nil {
			return q, &repository.ValidationError{
				Message: param + " must be an RFC 3339 timestamp or YYYY-MM-DD date",
			}
		}
		*dst = &ts
	}
	return q, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &repository.ValidationError{Message: "malformed request body"}
	}
	return c.Validate(req)
}

func noContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
