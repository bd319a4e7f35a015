package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHandler_Search(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/?q=amalgama", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var list []map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 || list[0]["codigo"] != "D2140" {
		t.Errorf("unexpected result %s", rec.Body.String())
	}
	if _, ok := list[0]["colorDefault"]; !ok {
		t.Error("expected colorDefault key")
	}
}

func TestHandler_Search_NoMatches(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?q=zzz", nil), rec)
	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestHandler_Upsert(t *testing.T) {
	repo := newMockRepo()
	h := NewHandler(NewService(repo))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"codigo":"SEL","descripcion":"Sellante","categoria":"preventivo"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Upsert(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if repo.local["SEL"] == nil {
		t.Error("expected code to be stored")
	}
}

func TestHandler_Upsert_MissingFields(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"codigo":"SEL"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Upsert(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Search_Paging(t *testing.T) {
	repo := newMockRepo()
	h := NewHandler(NewService(repo))
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=10&offset=20", nil), rec)
	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 10 || repo.lastOffset != 20 {
		t.Errorf("expected limit 10 offset 20, got limit %d offset %d", repo.lastLimit, repo.lastOffset)
	}
}
