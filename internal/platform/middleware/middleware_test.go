package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	rid, _ := c.Get("request_id").(string)
	if rid == "" {
		t.Error("request_id not set")
	}
	if got := rec.Header().Get("X-Request-ID"); got != rid {
		t.Errorf("response header = %q, want %q", got, rid)
	}
}

func TestRequestIDKeepsClientValue(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rid, _ := c.Get("request_id").(string); rid != "client-id-1" {
		t.Errorf("request_id = %q, want client-id-1", rid)
	}
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := h(c)
		if err != nil {
			statuses = append(statuses, err.(*echo.HTTPError).Code)
			continue
		}
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", statuses[:2])
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", statuses[2])
	}
}

func TestRateLimitKeysByIP(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Errorf("first request from %s rejected: %v", addr, err)
		}
	}
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})
	err := h(c)
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("err = %v, want 500 HTTPError", err)
	}
}
