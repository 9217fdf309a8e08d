package analytics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medcore/eyeclinic-api/internal/platform/auth"
	"github.com/medcore/eyeclinic-api/internal/platform/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	staff := g.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor, auth.RoleReceptionist))
	staff.GET("/analytics/dashboard", h.Dashboard)
	staff.GET("/reports/daily", h.DailyReport)
	staff.GET("/reports/monthly", h.MonthlyReport)
}

func clinicScope(c echo.Context) int64 {
	if claims := auth.ClaimsFromContext(c.Request().Context()); claims != nil && claims.Role != auth.RoleAdmin && claims.ClinicID != nil {
		return *claims.ClinicID
	}
	id, _ := strconv.ParseInt(c.QueryParam("clinicId"), 10, 64)
	return id
}

func (h *Handler) Dashboard(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = PeriodMonth
	}
	d, err := h.svc.Dashboard(c.Request().Context(), clinicScope(c), period)
	if err != nil {
		if errors.Is(err, ErrBadPeriod) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, map[string]interface{}{"dashboard": d})
}

func (h *Handler) DailyReport(c echo.Context) error {
	r, err := h.svc.DailyReport(c.Request().Context(), clinicScope(c), c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OK(c, map[string]interface{}{"report": r})
}

func (h *Handler) MonthlyReport(c echo.Context) error {
	year, _ := strconv.Atoi(c.QueryParam("year"))
	month, _ := strconv.Atoi(c.QueryParam("month"))
	r, err := h.svc.MonthlyReport(c.Request().Context(), clinicScope(c), year, month)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OK(c, map[string]interface{}{"report": r})
}
