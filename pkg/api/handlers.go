package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/taskhub-io/taskhub-alerting/pkg/models"
	"github.com/taskhub-io/taskhub-alerting/pkg/services"
)

// APIHandler handles HTTP API requests
type APIHandler struct {
	alertService *services.AlertService
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(alertService *services.AlertService) *APIHandler {
	return &APIHandler{
		alertService: alertService,
	}
}

// SubmitAlert accepts an error event from a business-logic caller and runs
// it through the alerting pipeline. The pipeline is call-and-forget, so
// the response only acknowledges acceptance.
func (h *APIHandler) SubmitAlert(c echo.Context) error {
	var req models.SubmitAlertRequest
	if err := c.Bind(&req); err != nil {
		logrus.Errorf("Error binding submit alert request: %v", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	// Validate request
	if !req.ErrorType.IsValid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Unknown error type %q", req.ErrorType)})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title is required"})
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = c.Request().Header.Get("X-Request-ID")
	}

	h.alertService.Submit(c.Request().Context(), req.ErrorType, req.Title, req.Message, req.Metadata, requestID)

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Alert submission accepted"})
}

// GetAlerts returns active alerts, optionally filtered by severity
func (h *APIHandler) GetAlerts(c echo.Context) error {
	severityParam := c.QueryParam("severity")
	if severityParam == "" {
		return c.JSON(http.StatusOK, h.alertService.GetActiveAlerts())
	}

	severity := models.Severity(severityParam)
	if !severity.IsValid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Unknown severity %q", severityParam)})
	}
	return c.JSON(http.StatusOK, h.alertService.GetAlertsBySeverity(severity))
}

// ResolveAlert marks an alert as resolved. Resolution is advisory
// bookkeeping; resolving an unknown id is not an error.
func (h *APIHandler) ResolveAlert(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Alert id is required"})
	}

	h.alertService.ResolveAlert(id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Alert resolved"})
}

// GetRules returns the active rule catalog (read-only configuration data)
func (h *APIHandler) GetRules(c echo.Context) error {
	return c.JSON(http.StatusOK, h.alertService.Rules())
}

// SetupRoutes sets up the API routes
func (h *APIHandler) SetupRoutes(e *echo.Echo) {
	// Alert endpoints
	e.POST("/api/alerts", h.SubmitAlert)
	e.GET("/api/alerts", h.GetAlerts)
	e.POST("/api/alerts/:id/resolve", h.ResolveAlert)

	// Rule endpoints
	e.GET("/api/rules", h.GetRules)
}
