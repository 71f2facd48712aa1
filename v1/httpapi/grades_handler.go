package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classtrack/classrooms/v1/classrooms"
)

// GradesHandler serves the /api/v1/grades routes.
type GradesHandler struct {
	svc *classrooms.GradeService
}

// NewGradesHandler creates the handler.
func NewGradesHandler(svc *classrooms.GradeService) *GradesHandler {
	return &GradesHandler{svc: svc}
}

func (h *GradesHandler) register(g *echo.Group) {
	g.POST("/grades", h.create)
	g.GET("/grades", h.list)
	g.GET("/grades/pageable", h.page)
	g.GET("/grades/search", h.search)
	g.GET("/grades/:id", h.get)
	g.PUT("/grades/:id", h.update)
	g.DELETE("/grades/:id", h.remove)
}

func (h *GradesHandler) create(c echo.Context) error {
	var req GradeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	grade, err := h.svc.Create(c.Request().Context(), req.GradeName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, grade)
}

// list returns every grade as a flat array; paginated access goes through
// the pageable and search routes.
func (h *GradesHandler) list(c echo.Context) error {
	grades, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, grades)
}

func (h *GradesHandler) search(c echo.Context) error {
	q, err := searchQuery(c)
	if err != nil {
		return err
	}
	page, err := h.svc.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *GradesHandler) page(c echo.Context) error {
	q, err := searchQuery(c)
	if err != nil {
		return err
	}
	page, err := h.svc.Page(c.Request().Context(), q.Page, q.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *GradesHandler) get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	grade, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, grade)
}

func (h *GradesHandler) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req GradeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	grade, err := h.svc.Update(c.Request().Context(), id, req.GradeName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, grade)
}

func (h *GradesHandler) remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return noContent(c)
}
