package authn

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestPublicRouteRegisterClinic(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	e := echo.New()
	h.RegisterPublicRoutes(e.Group(""))

	body := `{"clinicName":"Alnoor Eye Center","ownerName":"Huda",
		"ownerEmail":"owner@clinic.sa","ownerPassword":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register-clinic", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token  string `json:"token"`
			Clinic struct {
				Code string `json:"code"`
			} `json:"clinic"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.Data.Token == "" || len(resp.Data.Clinic.Code) != 6 {
		t.Errorf("response = %s", rec.Body.String())
	}
}
