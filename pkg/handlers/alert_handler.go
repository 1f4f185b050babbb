package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/services"
)

// ImportStatsRequest for POST /api/alertas/estatisticas
type ImportStatsRequest struct {
	Stats []models.ExternalClassStat `json:"estatisticas"`
}

// AlertHandler serves class alert and external statistics requests.
type AlertHandler struct {
	alerts services.AlertService
	logger *zap.Logger
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(alerts services.AlertService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, logger: logger}
}

// RegisterRoutes registers the alert handler's routes on the given mux.
func (h *AlertHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/alertas", h.ClassAlerts)
	mux.HandleFunc("POST /api/alertas/estatisticas", h.ImportStats)
}

// ClassAlerts handles GET /api/alertas
func (h *AlertHandler) ClassAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.ClassAlerts(r.Context())
	if err != nil {
		h.writeError(w, "class_alerts_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: alerts}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ImportStats handles POST /api/alertas/estatisticas
func (h *AlertHandler) ImportStats(w http.ResponseWriter, r *http.Request) {
	var req ImportStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if len(req.Stats) == 0 {
		_ = ErrorResponse(w, http.StatusBadRequest, "validation_error", "estatisticas must not be empty")
		return
	}

	if err := h.alerts.ImportStats(r.Context(), req.Stats); err != nil {
		h.writeError(w, "import_stats_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Estatísticas importadas"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *AlertHandler) writeError(w http.ResponseWriter, fallbackCode string, err error) {
	status, code := statusFor(err)
	if code == "internal_error" {
		code = fallbackCode
		h.logger.Error("Alert request failed", zap.String("code", fallbackCode), zap.Error(err))
	}
	if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}
