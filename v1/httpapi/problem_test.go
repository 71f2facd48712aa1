package httpapi

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classrooms/v1/repository"
)

func TestProblemFromErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantType string
		wantCode int
	}{
		{
			name:     "validation",
			err:      &repository.ValidationError{Message: "bad input"},
			wantType: "urn:problem-type:validation",
			wantCode: http.StatusBadRequest,
		},
		{
			name: "invalid field",
			err: &repository.InvalidFieldError{
				Field: "nope", Model: "Grade", ValidFields: []string{"id"},
			},
			wantType: "urn:problem-type:validation",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "not found",
			err:      &repository.NotFoundError{Resource: "Grade", Message: "gone"},
			wantType: "urn:problem-type:not-found",
			wantCode: http.StatusNotFound,
		},
		{
			name:     "conflict",
			err:      &repository.ConflictError{Message: "taken"},
			wantType: "urn:problem-type:conflict",
			wantCode: http.StatusConflict,
		},
		{
			name:     "timeout",
			err:      &repository.TimeoutError{Timeout: time.Second, Instance: "op"},
			wantType: "urn:problem-type:timeout",
			wantCode: http.StatusGatewayTimeout,
		},
		{
			name:     "database",
			err:      &repository.DatabaseError{Message: "boom", Instance: "op"},
			wantType: "urn:problem-type:database",
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "unknown",
			err:      errors.New("mystery"),
			wantType: "urn:problem-type:database",
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "echo method not allowed",
			err:      echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"),
			wantType: "urn:problem-type:http",
			wantCode: http.StatusMethodNotAllowed,
		},
		{
			name:     "echo route not found",
			err:      echo.NewHTTPError(http.StatusNotFound, "missing"),
			wantType: "urn:problem-type:not-found",
			wantCode: http.StatusNotFound,
		},
		{
			name:     "echo bad request",
			err:      echo.NewHTTPError(http.StatusBadRequest, "malformed"),
			wantType: "urn:problem-type:validation",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := problemFromError(tc.err)
			require.Equal(t, tc.wantType, p.Type)
			require.Equal(t, tc.wantCode, p.Status)
		})
	}
}

func TestProblemHidesStorageDetails(t *testing.T) {
	p := problemFromError(&repository.DatabaseError{
		Message:  "pq: connection refused on 10.0.0.3",
		Instance: "Grade.Save",
	})
	require.Empty(t, p.Detail)
}
