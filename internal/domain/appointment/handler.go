package appointment

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
	staff.GET("/appointments", h.List)
	staff.GET("/appointments/availability", h.Availability)
	staff.GET("/appointments/next-slot", h.NextSlot)
	staff.GET("/appointments/:id", h.Get)
	staff.POST("/appointments", h.Create)
	staff.PATCH("/appointments/:id", h.Update)
	staff.PATCH("/appointments/:id/status", h.SetStatus)
	staff.DELETE("/appointments/:id", h.Cancel)

	mobile := g.Group("/mobile", auth.RequireRole(auth.RolePatient))
	mobile.POST("/appointments", h.MobileBook)
	mobile.GET("/appointments", h.MyAppointments)
	mobile.GET("/appointments/available-slots", h.Availability)
	mobile.PUT("/appointments/:id/cancel", h.MobileCancel)
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func doctorIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.QueryParam("doctorId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "doctorId is required")
	}
	return id, nil
}

func (h *Handler) Availability(c echo.Context) error {
	doctorID, err := doctorIDParam(c)
	if err != nil {
		return err
	}
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	slots, err := h.svc.Availability(c.Request().Context(), doctorID, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OK(c, map[string]interface{}{"date": date, "slots": slots})
}

func (h *Handler) NextSlot(c echo.Context) error {
	doctorID, err := doctorIDParam(c)
	if err != nil {
		return err
	}
	date, slot, err := h.svc.NextAvailable(c.Request().Context(), doctorID, c.QueryParam("time"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNoSlots):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond.OK(c, map[string]interface{}{"date": date, "time": slot})
}

func (h *Handler) Create(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if claims := auth.ClaimsFromContext(c.Request().Context()); claims != nil && a.ClinicID == nil {
		a.ClinicID = claims.ClinicID
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return bookingError(err)
	}
	return respond.Created(c, "Appointment booked successfully", map[string]interface{}{"appointment": a})
}

func bookingError(err error) error {
	switch {
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrNoSlots), errors.Is(err, ErrDayFull):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrDoctorOffDay), errors.Is(err, ErrOffGrid):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// MobileBook books for the patient behind the token. Preferred date and time
// are hints; when the slot is taken the earliest available one is used.
func (h *Handler) MobileBook(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
	}
	var body struct {
		DoctorID      int64   `json:"doctorId"`
		ClinicID      *int64  `json:"clinicId"`
		Type          *string `json:"type"`
		PreferredDate string  `json:"preferredDate"`
		PreferredTime string  `json:"preferredTime"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a := Appointment{
		PatientID: claims.UserID,
		DoctorID:  body.DoctorID,
		ClinicID:  body.ClinicID,
		Date:      body.PreferredDate,
		Time:      body.PreferredTime,
		Type:      body.Type,
	}
	if err := h.svc.BookAuto(c.Request().Context(), &a); err != nil {
		return bookingError(err)
	}
	return respond.Created(c, "Appointment booked successfully", map[string]interface{}{"appointment": a})
}

// MyAppointments lists the calling patient's appointments.
func (h *Handler) MyAppointments(c echo.Context) error {
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
		"appointments": pagination.NewPage(items, total, pg.Limit, pg.Offset),
	})
}

func (h *Handler) MobileCancel(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.CancelOwned(c.Request().Context(), id, claims.UserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OKMessage(c, "Appointment cancelled successfully", nil)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OK(c, map[string]interface{}{"appointment": a})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Date:   c.QueryParam("date"),
		Status: c.QueryParam("status"),
	}
	f.DoctorID, _ = strconv.ParseInt(c.QueryParam("doctorId"), 10, 64)
	f.PatientID, _ = strconv.ParseInt(c.QueryParam("patientId"), 10, 64)
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
		"appointments": pagination.NewPage(items, total, pg.Limit, pg.Offset),
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
	a, err := h.svc.Update(c.Request().Context(), id, &p)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrSlotTaken):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OKMessage(c, "Appointment updated successfully", map[string]interface{}{"appointment": a})
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
	a, err := h.svc.SetStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrBadTransition):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return respond.OKMessage(c, "Appointment status updated", map[string]interface{}{"appointment": a})
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Cancel(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return respond.OKMessage(c, "Appointment cancelled successfully", nil)
}
