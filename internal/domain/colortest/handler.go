package colortest

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
	read := g.Group("", auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor, auth.RoleReceptionist))
	read.GET("/color-tests", h.ListPlates)
	read.GET("/color-tests/:id", h.GetPlate)
	read.GET("/color-tests/results/:patientId", h.PatientResults)

	admin := g.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/color-tests", h.CreatePlate)
	admin.PATCH("/color-tests/:id", h.UpdatePlate)
	admin.DELETE("/color-tests/:id", h.DeletePlate)

	mobile := g.Group("/mobile", auth.RequireRole(auth.RolePatient))
	mobile.GET("/color-tests", h.MobilePlates)
	mobile.POST("/color-tests/submit", h.Submit)
	mobile.GET("/color-tests/results", h.MyResults)
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) CreatePlate(c echo.Context) error {
	var p Plate
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePlate(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.Created(c, "Color test created successfully", map[string]interface{}{"colorTest": p})
}

func (h *Handler) GetPlate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPlate(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OK(c, map[string]interface{}{"colorTest": p})
}

func (h *Handler) ListPlates(c echo.Context) error {
	items, err := h.svc.ListPlates(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, map[string]interface{}{"colorTests": items})
}

func (h *Handler) UpdatePlate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var p PlatePatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	plate, err := h.svc.UpdatePlate(c.Request().Context(), id, &p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OKMessage(c, "Color test updated successfully", map[string]interface{}{"colorTest": plate})
}

func (h *Handler) DeletePlate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePlate(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OKMessage(c, "Color test deleted successfully", nil)
}

// MobilePlates serves the catalog without the correct answers.
func (h *Handler) MobilePlates(c echo.Context) error {
	items, err := h.svc.ListPlates(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	type publicPlate struct {
		ID         int64  `json:"id"`
		TestNumber int    `json:"testNumber"`
		TestName   string `json:"testName"`
		Image      string `json:"image"`
	}
	out := make([]publicPlate, 0, len(items))
	for _, p := range items {
		out = append(out, publicPlate{ID: p.ID, TestNumber: p.TestNumber, TestName: p.TestName, Image: p.Image})
	}
	return respond.OK(c, map[string]interface{}{"colorTests": out})
}

func (h *Handler) Submit(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
	}
	var body struct {
		Answers []SubmittedAnswer `json:"answers"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	session, err := h.svc.Submit(c.Request().Context(), claims.UserID, body.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptySubmit), errors.Is(err, ErrUnknownPlate):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.Created(c, "Test submitted successfully", map[string]interface{}{"session": session})
}

func (h *Handler) MyResults(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
	}
	return h.results(c, claims.UserID)
}

func (h *Handler) PatientResults(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("patientId"), 10, 64)
	if err != nil || patientID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	return h.results(c, patientID)
}

func (h *Handler) results(c echo.Context, patientID int64) error {
	history, summary, err := h.svc.Results(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, map[string]interface{}{"results": history, "summary": summary})
}
