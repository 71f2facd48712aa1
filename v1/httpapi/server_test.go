package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classtrack/classrooms/v1/classrooms"
	"github.com/classtrack/classrooms/v1/repository"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&classrooms.Grade{}, &classrooms.Section{}))

	log := zap.NewNop()
	gradeRepos := classrooms.GradeRepositoryFactory(func() *repository.Repository[classrooms.Grade] {
		return repository.NewRepository[classrooms.Grade](
			repository.NewGormSession(db), classrooms.GradeFields)
	})
	sectionRepos := classrooms.SectionRepositoryFactory(func() *repository.Repository[classrooms.Section] {
		return repository.NewRepository[classrooms.Section](
			repository.NewGormSession(db), classrooms.SectionFields)
	})

	return NewServer(Config{Address: ":0"}, log, nil,
		NewGradesHandler(classrooms.NewGradeService(gradeRepos, log)),
		NewSectionsHandler(classrooms.NewSectionService(sectionRepos, log)))
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGradeLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/grades", `{"grade_name":"1°"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created classrooms.Grade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	require.Equal(t, "1°", created.GradeName)

	rec = do(t, s, http.MethodGet, fmt.Sprintf("/api/v1/grades/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPut, fmt.Sprintf("/api/v1/grades/%d", created.ID), `{"grade_name":"1° bis"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated classrooms.Grade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "1° bis", updated.GradeName)

	rec = do(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/grades/%d", created.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, fmt.Sprintf("/api/v1/grades/%d", created.ID), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGradeConflictReturnsProblem(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/grades", `{"grade_name":"1°"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/grades", `{"grade_name":"1°"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var p Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "urn:problem-type:conflict", p.Type)
	require.Contains(t, p.Detail, "1°")
}

func TestGradeValidation(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/grades", `{"grade_name":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/grades", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/grades/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/grades/search?page=x", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/grades/search?created_from=yesterday", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGradeListReturnsAllRowsFlat(t *testing.T) {
	s := newTestServer(t)

	// More rows than one default page, so any hidden pagination would be
	// visible as a truncated result.
	for i := 1; i <= 12; i++ {
		rec := do(t, s, http.MethodPost, "/api/v1/grades", fmt.Sprintf(`{"grade_name":"%d°"}`, i))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/api/v1/grades", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var grades []classrooms.Grade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grades))
	require.Len(t, grades, 12)
	for i := 1; i < len(grades); i++ {
		require.Less(t, grades[i-1].ID, grades[i].ID)
	}
}

func TestGradeSearchAndPageable(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"1°", "2°", "10°"} {
		rec := do(t, s, http.MethodPost, "/api/v1/grades", fmt.Sprintf(`{"grade_name":%q}`, name))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var page repository.Page[classrooms.Grade]

	rec := do(t, s, http.MethodGet, "/api/v1/grades/search?name=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, int64(2), page.Meta.Total)

	rec = do(t, s, http.MethodGet, "/api/v1/grades/pageable?page=1&size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 2)
	require.Equal(t, 2, page.Meta.TotalPages)
}

func TestSectionRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/sections", `{"section_name":"A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created classrooms.Section
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "A", created.SectionName)

	rec = do(t, s, http.MethodPost, "/api/v1/sections", `{"section_name":"A"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/sections", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/sections/%d", created.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}
