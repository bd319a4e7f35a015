package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContextWith_Defaults(t *testing.T) {
	p := FromContextWith(newContext("/?q=caries"), 50, 200)

	if p.Limit != 50 {
		t.Errorf("expected default limit 50, got %d", p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestFromContextWith_CustomValues(t *testing.T) {
	p := FromContextWith(newContext("/?limit=20&offset=10"), 50, 200)

	if p.Limit != 20 {
		t.Errorf("expected limit 20, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestFromContextWith_ClampsLimit(t *testing.T) {
	p := FromContextWith(newContext("/?limit=300"), 50, 200)
	if p.Limit != 200 {
		t.Errorf("expected limit clamped to 200, got %d", p.Limit)
	}
}

func TestFromContextWith_InvalidValues(t *testing.T) {
	p := FromContextWith(newContext("/?limit=abc&offset=-5"), 50, 200)
	if p.Limit != 50 {
		t.Errorf("expected default limit, got %d", p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}
