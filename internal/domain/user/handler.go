package user

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
	admin := g.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/users", h.List)
	admin.GET("/users/:id", h.Get)
	admin.PATCH("/users/:id", h.Update)
	admin.PUT("/users/:id/approve", h.Approve)
	admin.PUT("/users/:id/reject", h.Reject)
	admin.DELETE("/users/:id", h.Deactivate)

	// Any authenticated staff member can change their own password.
	self := g.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor, auth.RoleReceptionist))
	self.PUT("/users/password", h.ChangePassword)
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Status: c.QueryParam("status"),
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
	}
	if cid, err := strconv.ParseInt(c.QueryParam("clinicId"), 10, 64); err == nil {
		f.ClinicID = cid
	}
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, map[string]interface{}{
		"users": pagination.NewPage(items, total, pg.Limit, pg.Offset),
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OK(c, map[string]interface{}{"user": u})
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
	u, err := h.svc.Update(c.Request().Context(), id, &p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OKMessage(c, "User updated successfully", map[string]interface{}{"user": u})
}

func (h *Handler) Approve(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Approve(c.Request().Context(), id)
	if err != nil {
		return resolveError(err)
	}
	return respond.OKMessage(c, "User approved successfully", map[string]interface{}{"user": u})
}

func (h *Handler) Reject(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Reject(c.Request().Context(), id)
	if err != nil {
		return resolveError(err)
	}
	return respond.OKMessage(c, "User rejected", map[string]interface{}{"user": u})
}

func resolveError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OKMessage(c, "User deactivated", nil)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
	}

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.svc.ChangePassword(c.Request().Context(), claims.UserID, body.CurrentPassword, body.NewPassword)
	switch {
	case err == nil:
		return respond.OKMessage(c, "Password changed successfully", nil)
	case errors.Is(err, ErrWrongPassword):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
