package medreport

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
	read.GET("/medical-reports", h.List)
	read.GET("/medical-reports/:id", h.Get)

	write := g.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	write.POST("/medical-reports", h.Create)
	write.PATCH("/medical-reports/:id", h.Update)
	write.DELETE("/medical-reports/:id", h.Delete)

	mobile := g.Group("/mobile", auth.RequireRole(auth.RolePatient))
	mobile.GET("/medical-reports", h.Mine)
}

// Mine lists the calling patient's own reports.
func (h *Handler) Mine(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), Filter{PatientID: claims.UserID}, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, map[string]interface{}{
		"reports": pagination.NewPage(items, total, pg.Limit, pg.Offset),
	})
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	var r Report
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if claims := auth.ClaimsFromContext(c.Request().Context()); claims != nil && r.ClinicID == nil {
		r.ClinicID = claims.ClinicID
	}
	if err := h.svc.Create(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.Created(c, "Medical report created successfully", map[string]interface{}{"report": r})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OK(c, map[string]interface{}{"report": r})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	var f Filter
	f.PatientID, _ = strconv.ParseInt(c.QueryParam("patientId"), 10, 64)
	f.DoctorID, _ = strconv.ParseInt(c.QueryParam("doctorId"), 10, 64)
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
		"reports": pagination.NewPage(items, total, pg.Limit, pg.Offset),
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
	r, err := h.svc.Update(c.Request().Context(), id, &p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OKMessage(c, "Medical report updated successfully", map[string]interface{}{"report": r})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OKMessage(c, "Medical report deleted successfully", nil)
}
