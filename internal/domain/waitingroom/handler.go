package waitingroom

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
	staff.GET("/waiting-room", h.Queue)
	staff.POST("/waiting-room", h.Add)
	staff.POST("/waiting-room/call-next", h.CallNext)
	staff.PATCH("/waiting-room/:id/status", h.SetStatus)
	staff.DELETE("/waiting-room/:id", h.Remove)
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func clinicScope(c echo.Context) int64 {
	if claims := auth.ClaimsFromContext(c.Request().Context()); claims != nil && claims.Role != auth.RoleAdmin && claims.ClinicID != nil {
		return *claims.ClinicID
	}
	id, _ := strconv.ParseInt(c.QueryParam("clinicId"), 10, 64)
	return id
}

func (h *Handler) Add(c echo.Context) error {
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if claims := auth.ClaimsFromContext(c.Request().Context()); claims != nil && e.ClinicID == nil {
		e.ClinicID = claims.ClinicID
	}
	if err := h.svc.Add(c.Request().Context(), &e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.Created(c, "Patient added to waiting room", map[string]interface{}{"entry": e})
}

func (h *Handler) Queue(c echo.Context) error {
	items, err := h.svc.Queue(c.Request().Context(), clinicScope(c), c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OK(c, map[string]interface{}{"queue": items})
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.SetStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OKMessage(c, "Waiting room status updated", map[string]interface{}{"entry": e})
}

func (h *Handler) Remove(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OKMessage(c, "Patient removed from waiting room", nil)
}

func (h *Handler) CallNext(c echo.Context) error {
	e, err := h.svc.CallNext(c.Request().Context(), clinicScope(c))
	if err != nil {
		if errors.Is(err, ErrNoWaiting) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OKMessage(c, "Patient called", map[string]interface{}{"entry": e})
}
