package upload

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retinascan/retinascan/internal/domain/diagnostic"
	"github.com/retinascan/retinascan/internal/domain/patient"
	"github.com/retinascan/retinascan/internal/platform/auth"
	"github.com/retinascan/retinascan/internal/platform/imagestore"
	"github.com/retinascan/retinascan/internal/platform/inference"
)

// FileField is the multipart form field carrying the retinal image.
const FileField = "retinal-image"

type Handler struct {
	svc   *Service
	store *imagestore.DiskStore
}

func NewHandler(svc *Service, store *imagestore.DiskStore) *Handler {
	return &Handler{svc: svc, store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/upload", h.Upload)
}

type diagnoseResponse struct {
	Prediction string          `json:"prediction"`
	Confidence string          `json:"confidence"`
	Heatmap    string          `json:"heatmap"`
	Patient    responsePatient `json:"patient"`
}

type responsePatient struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Upload accepts a multipart retinal image plus a patientID form value,
// runs the diagnose workflow, and returns the classification outcome.
func (h *Handler) Upload(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	patientID := c.FormValue("patientID")
	if patientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patientID is required")
	}

	fileHeader, err := c.FormFile(FileField)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no image file provided")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	defer src.Close()

	img, err := h.store.Save(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src)
	if err != nil {
		switch {
		case errors.Is(err, imagestore.ErrContentType):
			return echo.NewHTTPError(http.StatusBadRequest, "only JPEG and PNG images are accepted")
		case errors.Is(err, imagestore.ErrTooLarge):
			return echo.NewHTTPError(http.StatusBadRequest, "image exceeds the maximum allowed size")
		case errors.Is(err, imagestore.ErrNoFile):
			return echo.NewHTTPError(http.StatusBadRequest, "no image file provided")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to store uploaded image")
		}
	}

	outcome, err := h.svc.Diagnose(c.Request().Context(), patientID, img, id.Username)
	if err != nil {
		switch {
		case errors.Is(err, patient.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
		case errors.Is(err, inference.ErrInference):
			return echo.NewHTTPError(http.StatusBadGateway, "image analysis service is unavailable")
		case errors.Is(err, diagnostic.ErrPersistence):
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to save diagnostic record")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
		}
	}

	d := outcome.Diagnostic
	return c.JSON(http.StatusOK, diagnoseResponse{
		Prediction: d.Result,
		Confidence: fmt.Sprintf("%.2f", d.ConfidenceScore*100),
		Heatmap:    d.HeatmapPath,
		Patient: responsePatient{
			Name: outcome.Patient.Name,
			ID:   outcome.Patient.PatientID,
		},
	})
}
