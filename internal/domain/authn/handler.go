package authn

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcore/eyeclinic-api/internal/domain/clinic"
	"github.com/medcore/eyeclinic-api/internal/platform/auth"
	"github.com/medcore/eyeclinic-api/internal/platform/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the endpoints that work without a token.
func (h *Handler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/auth/login", h.Login)
	g.POST("/auth/register", h.Register)
	g.POST("/auth/register-clinic", h.RegisterClinic)
	g.POST("/mobile/auth/register", h.MobileRegister)
	g.POST("/mobile/auth/login", h.MobileLogin)
}

// RegisterProtectedRoutes mounts the endpoints that need authentication.
func (h *Handler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/auth/me", h.Me)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var body credentials
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, u, err := h.svc.Login(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		case errors.Is(err, ErrPendingApproval), errors.Is(err, ErrAccountDisabled):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OKMessage(c, "Login successful", map[string]interface{}{"token": token, "user": u})
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	claims := auth.ClaimsFromContext(c.Request().Context())
	byAdmin := claims != nil && claims.Role == auth.RoleAdmin
	u, err := h.svc.Register(c.Request().Context(), &in, byAdmin)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.Created(c, "Account created successfully", map[string]interface{}{"user": u})
}

func (h *Handler) RegisterClinic(c echo.Context) error {
	var in RegisterClinicInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, u, cl, err := h.svc.RegisterClinic(c.Request().Context(), &in)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail), errors.Is(err, clinic.ErrDuplicateName):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.Created(c, "Clinic and owner account created successfully", map[string]interface{}{
		"token":  token,
		"user":   u,
		"clinic": cl,
	})
}

func (h *Handler) Me(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
	}
	u, err := h.svc.Me(c.Request().Context(), claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return respond.OK(c, map[string]interface{}{"user": u})
}

func (h *Handler) MobileRegister(c echo.Context) error {
	var in MobileRegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, p, err := h.svc.MobileRegister(c.Request().Context(), &in)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.Created(c, "Account created successfully", map[string]interface{}{"token": token, "patient": p})
}

func (h *Handler) MobileLogin(c echo.Context) error {
	var body credentials
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	token, p, err := h.svc.MobileLogin(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OKMessage(c, "Login successful", map[string]interface{}{"token": token, "patient": p})
}
