package diagnostic

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/diagnostics", h.ListDiagnostics)
}

// ListDiagnostics returns every recorded diagnostic, newest first. An
// optional patientID query parameter narrows the history to one patient.
func (h *Handler) ListDiagnostics(c echo.Context) error {
	var (
		items []*Diagnostic
		err   error
	)
	if patientID := c.QueryParam("patientID"); patientID != "" {
		items, err = h.svc.ListByPatient(c.Request().Context(), patientID)
	} else {
		items, err = h.svc.List(c.Request().Context())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list diagnostics")
	}
	if items == nil {
		items = []*Diagnostic{}
	}
	return c.JSON(http.StatusOK, items)
}
