package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRoles(e *echo.Echo, roles []string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireRole_Allowed(t *testing.T) {
	e := echo.New()
	c := contextWithRoles(e, []string{RoleAssistant})

	h := RequireRole(WriteRoles...)(okHandler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	e := echo.New()
	c := contextWithRoles(e, []string{RoleViewer})

	err := RequireRole(WriteRoles...)(okHandler)(c)
	if err == nil {
		t.Fatal("expected viewer to be denied write access")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestRequireRole_NoRoles(t *testing.T) {
	e := echo.New()
	c := contextWithRoles(e, nil)

	if err := RequireRole(ReadRoles...)(okHandler)(c); err == nil {
		t.Fatal("expected error without roles")
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	e := echo.New()
	c := contextWithRoles(e, []string{RoleAdmin})

	if err := RequireRole(RoleDentist)(okHandler)(c); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
}

func TestRoleGroups(t *testing.T) {
	tests := []struct {
		role     string
		canRead  bool
		canWrite bool
	}{
		{RoleDentist, true, true},
		{RoleAssistant, true, true},
		{RoleViewer, true, false},
		{"billing", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			e := echo.New()
			readErr := RequireRole(ReadRoles...)(okHandler)(contextWithRoles(e, []string{tt.role}))
			writeErr := RequireRole(WriteRoles...)(okHandler)(contextWithRoles(e, []string{tt.role}))
			if (readErr == nil) != tt.canRead {
				t.Errorf("read: expected allowed=%v, got err=%v", tt.canRead, readErr)
			}
			if (writeErr == nil) != tt.canWrite {
				t.Errorf("write: expected allowed=%v, got err=%v", tt.canWrite, writeErr)
			}
		})
	}
}
