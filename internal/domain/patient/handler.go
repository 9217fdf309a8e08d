package patient

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
	staff := g.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor, auth.RoleReceptionist))
	staff.GET("/patients", h.List)
	staff.GET("/patients/:id", h.Get)
	staff.POST("/patients", h.Create)
	staff.PATCH("/patients/:id", h.Update)
	staff.DELETE("/patients/:id", h.Delete)
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// clinicScope restricts queries to the caller's clinic unless they are an
// admin asking for another one.
func clinicScope(c echo.Context) int64 {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims != nil && claims.Role != auth.RoleAdmin && claims.ClinicID != nil {
		return *claims.ClinicID
	}
	if cid, err := strconv.ParseInt(c.QueryParam("clinicId"), 10, 64); err == nil {
		return cid
	}
	return 0
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if p.ClinicID == nil {
		if cid := clinicScope(c); cid > 0 {
			p.ClinicID = &cid
		}
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.Created(c, "Patient created successfully", map[string]interface{}{"patient": p})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OK(c, map[string]interface{}{"patient": p})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{ClinicID: clinicScope(c), Search: c.QueryParam("search")}
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, map[string]interface{}{
		"patients": pagination.NewPage(items, total, pg.Limit, pg.Offset),
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
	updated, err := h.svc.Update(c.Request().Context(), id, &p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OKMessage(c, "Patient updated successfully", map[string]interface{}{"patient": updated})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OKMessage(c, "Patient deleted successfully", nil)
}
