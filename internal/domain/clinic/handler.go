package clinic

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medcore/eyeclinic-api/internal/platform/auth"
	"github.com/medcore/eyeclinic-api/internal/platform/respond"
	"github.com/medcore/eyeclinic-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := g.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor, auth.RoleReceptionist))
	read.GET("/clinics", h.List)
	read.GET("/clinics/:id", h.Get)

	admin := g.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/clinics", h.Create)
	admin.PATCH("/clinics/:id", h.Update)
	admin.DELETE("/clinics/:id", h.Delete)
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	var cl Clinic
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &cl); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.Created(c, "Clinic created successfully", map[string]interface{}{"clinic": cl})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	cl, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OK(c, map[string]interface{}{"clinic": cl})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("search"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, map[string]interface{}{
		"clinics": pagination.NewPage(items, total, pg.Limit, pg.Offset),
	})
}

func (h *Handler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var p Patch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cl, err := h.svc.Update(c.Request().Context(), id, &p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OKMessage(c, "Clinic updated successfully", map[string]interface{}{"clinic": cl})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OKMessage(c, "Clinic deleted successfully", nil)
}
