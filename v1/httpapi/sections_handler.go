package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classtrack/classrooms/v1/classrooms"
)

// SectionsHandler serves the /api/v1/sections routes.
type SectionsHandler struct {
	svc *classrooms.SectionService
}

// NewSectionsHandler creates the handler.
func NewSectionsHandler(svc *classrooms.SectionService) *SectionsHandler {
	return &SectionsHandler{svc: svc}
}

func (h *SectionsHandler) register(g *echo.Group) {
	g.POST("/sections", h.create)
	g.GET("/sections", h.list)
	g.GET("/sections/pageable", h.page)
	g.GET("/sections/search", h.search)
	g.GET("/sections/:id", h.get)
	g.PUT("/sections/:id", h.update)
	g.DELETE("/sections/:id", h.remove)
}

func (h *SectionsHandler) create(c echo.Context) error {
	var req SectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	section, err := h.svc.Create(c.Request().Context(), req.SectionName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, section)
}

// list returns every section as a flat array; paginated access goes through
// the pageable and search routes.
func (h *SectionsHandler) list(c echo.Context) error {
	sections, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sections)
}

func (h *SectionsHandler) search(c echo.Context) error {
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

func (h *SectionsHandler) page(c echo.Context) error {
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

func (h *SectionsHandler) get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	section, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, section)
}

func (h *SectionsHandler) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req SectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	section, err := h.svc.Update(c.Request().Context(), id, req.SectionName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, section)
}

func (h *SectionsHandler) remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return noContent(c)
}
