package doctor

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
	read.GET("/doctors", h.List)
	read.GET("/doctors/:id", h.Get)
	read.GET("/doctors/:id/schedules", h.Schedules)

	admin := g.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/doctors", h.Create)
	admin.PATCH("/doctors/:id", h.Update)
	admin.DELETE("/doctors/:id", h.Delete)
	admin.PUT("/doctors/:id/schedules", h.SetSchedules)
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.Created(c, "Doctor created successfully", map[string]interface{}{"doctor": d})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OK(c, map[string]interface{}{"doctor": d})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Specialization: c.QueryParam("specialization"),
		Search:         c.QueryParam("search"),
	}
	if claims := auth.ClaimsFromContext(c.Request().Context()); claims != nil && claims.Role != auth.RoleAdmin && claims.ClinicID != nil {
		f.ClinicID = *claims.ClinicID
	} else if v := c.QueryParam("clinicId"); v != "" {
		f.ClinicID, _ = strconv.ParseInt(v, 10, 64)
	}
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, map[string]interface{}{
		"doctors": pagination.NewPage(items, total, pg.Limit, pg.Offset),
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
	d, err := h.svc.Update(c.Request().Context(), id, &p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OKMessage(c, "Doctor updated successfully", map[string]interface{}{"doctor": d})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OKMessage(c, "Doctor deactivated successfully", nil)
}

func (h *Handler) Schedules(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	items, err := h.svc.Schedules(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OK(c, map[string]interface{}{"schedules": items})
}

func (h *Handler) SetSchedules(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var body struct {
		Schedules []*Schedule `json:"schedules"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetSchedules(c.Request().Context(), id, body.Schedules); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidSchedule):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	items, err := h.svc.Schedules(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OKMessage(c, "Schedule updated successfully", map[string]interface{}{"schedules": items})
}
