package staff

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/retinascan/retinascan/internal/platform/auth"
)

func doJSON(e *echo.Echo, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestRegisterHandler(t *testing.T) {
	e := echo.New()
	h := NewHandler(newTestService())

	rec, c := doJSON(e, http.MethodPost, "/auth/register",
		`{"username":"dr.smith","password":"correct-horse-battery"}`,
		map[string]string{adminKeyHeader: "clinic-admin-key"})
	if err := h.Register(c); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestRegisterHandler_BadAdminKey(t *testing.T) {
	e := echo.New()
	h := NewHandler(newTestService())

	_, c := doJSON(e, http.MethodPost, "/auth/register",
		`{"username":"dr.smith","password":"correct-horse-battery"}`,
		map[string]string{adminKeyHeader: "wrong"})
	err := h.Register(c)

	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", he.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	e := echo.New()
	svc := newTestService()
	h := NewHandler(svc)

	rec, c := doJSON(e, http.MethodPost, "/auth/register",
		`{"username":"dr.smith","password":"correct-horse-battery","adminKey":"clinic-admin-key"}`, nil)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	rec, c = doJSON(e, http.MethodPost, "/auth/login",
		`{"username":"dr.smith","password":"correct-horse-battery"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["token"] == "" {
		t.Error("expected a token in the login response")
	}
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	e := echo.New()
	h := NewHandler(newTestService())

	_, c := doJSON(e, http.MethodPost, "/auth/login",
		`{"username":"dr.smith","password":"wrong"}`, nil)
	err := h.Login(c)

	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", he.Code)
	}
}

func TestLogoutHandler(t *testing.T) {
	e := echo.New()
	h := NewHandler(newTestService())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{Username: "dr.smith"}))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["message"] == "" {
		t.Error("expected a confirmation message")
	}
}

func TestLogoutHandler_Unauthenticated(t *testing.T) {
	e := echo.New()
	h := NewHandler(newTestService())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Logout(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", he.Code)
	}
}

func TestMeHandler(t *testing.T) {
	e := echo.New()
	h := NewHandler(newTestService())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{Username: "dr.smith"}))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Me(c); err != nil {
		t.Fatalf("Me() error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["username"] != "dr.smith" {
		t.Errorf("expected dr.smith, got %s", resp["username"])
	}
}
