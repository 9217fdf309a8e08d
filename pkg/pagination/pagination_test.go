package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(target string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		target     string
		limit, off int
	}{
		{"/?limit=10&offset=40", 10, 40},
		{"/", DefaultLimit, 0},
		{"/?limit=9999", MaxLimit, 0},
		{"/?limit=-1&offset=-5", DefaultLimit, 0},
	}
	for _, tc := range cases {
		got := paramsFor(tc.target)
		if got.Limit != tc.limit || got.Offset != tc.off {
			t.Errorf("%s: got %+v, want limit=%d offset=%d", tc.target, got, tc.limit, tc.off)
		}
	}
}

func TestPageHasMore(t *testing.T) {
	if !NewPage(nil, 50, 20, 0).HasMore {
		t.Error("expected HasMore at offset 0 of 50")
	}
	if NewPage(nil, 50, 20, 40).HasMore {
		t.Error("expected no more past the last page")
	}
}
