package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/repositories"
	"github.com/dansfisica85/dalmaso/pkg/services"
)

// SaveAttendanceRequest for POST /api/frequencia
type SaveAttendanceRequest struct {
	CohortID int64                    `json:"turma_id"`
	Date     string                   `json:"data"`
	Entries  []models.AttendanceEntry `json:"registros"`
}

// AttendanceHandler handles attendance recording and reporting requests.
type AttendanceHandler struct {
	attendance services.AttendanceService
	logger     *zap.Logger
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(attendance services.AttendanceService, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, logger: logger}
}

// RegisterRoutes registers the attendance handler's routes on the given mux.
func (h *AttendanceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/frequencia", h.List)
	mux.HandleFunc("POST /api/frequencia", h.SaveDay)
	mux.HandleFunc("GET /api/relatorios/mensal", h.MonthlyReport)
	mux.HandleFunc("GET /api/dashboard", h.Dashboard)
}

// List handles GET /api/frequencia?turma_id=&aluno_id=&data=&mes=
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, ok := parseAttendanceFilters(w, r)
	if !ok {
		return
	}

	records, err := h.attendance.List(r.Context(), filters)
	if err != nil {
		h.writeError(w, "list_attendance_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: records}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SaveDay handles POST /api/frequencia
// Replaces the whole day for the cohort with the submitted entries.
func (h *AttendanceHandler) SaveDay(w http.ResponseWriter, r *http.Request) {
	var req SaveAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.attendance.SaveDay(r.Context(), req.CohortID, req.Date, req.Entries); err != nil {
		h.writeError(w, "save_attendance_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Frequência registrada"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MonthlyReport handles GET /api/relatorios/mensal?turma_id=&mes=
func (h *AttendanceHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	cohortID, err := strconv.ParseInt(r.URL.Query().Get("turma_id"), 10, 64)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid turma_id query parameter")
		return
	}

	report, err := h.attendance.MonthlyReport(r.Context(), cohortID, r.URL.Query().Get("mes"))
	if err != nil {
		h.writeError(w, "monthly_report_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: report}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Dashboard handles GET /api/dashboard
func (h *AttendanceHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.attendance.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, "dashboard_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: dashboard}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *AttendanceHandler) writeError(w http.ResponseWriter, fallbackCode string, err error) {
	status, code := statusFor(err)
	if code == "internal_error" {
		code = fallbackCode
		h.logger.Error("Attendance request failed", zap.String("code", fallbackCode), zap.Error(err))
	}
	if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}

func parseAttendanceFilters(w http.ResponseWriter, r *http.Request) (repositories.AttendanceFilters, bool) {
	var filters repositories.AttendanceFilters
	query := r.URL.Query()

	for _, spec := range []struct {
		param string
		dest  *int64
	}{
		{"turma_id", &filters.CohortID},
		{"aluno_id", &filters.StudentID},
	} {
		raw := query.Get(spec.param)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid "+spec.param+" query parameter")
			return filters, false
		}
		*spec.dest = id
	}

	filters.Date = query.Get("data")
	filters.Month = query.Get("mes")
	return filters, true
}
