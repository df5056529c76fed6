package staff

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retinascan/retinascan/internal/platform/auth"
)

const adminKeyHeader = "X-Admin-Key"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts login and register on the public group, and
// /auth/me and /auth/logout on the authenticated group.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	api.GET("/auth/me", h.Me)
	api.POST("/auth/logout", h.Logout)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	AdminKey string `json:"adminKey"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	adminKey := c.Request().Header.Get(adminKeyHeader)
	if adminKey == "" {
		adminKey = req.AdminKey
	}

	u, err := h.svc.Register(c.Request().Context(), req.Username, req.Password, adminKey)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadAdminKey):
			return echo.NewHTTPError(http.StatusForbidden, "invalid admin key")
		case errors.Is(err, ErrUserExists):
			return echo.NewHTTPError(http.StatusBadRequest, "username already taken")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "User registered successfully",
		"username": u.Username,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// Logout acknowledges the end of a session. Tokens are stateless, so there
// is nothing to invalidate server-side; the client discards its copy.
func (h *Handler) Logout(c echo.Context) error {
	if _, ok := auth.IdentityFromContext(c.Request().Context()); !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *Handler) Me(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, map[string]string{"username": id.Username})
}
