package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/services"
)

// CohortRequest for POST/PUT /api/turmas
type CohortRequest struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
}

// StudentListResponse for GET /api/alunos
type StudentListResponse struct {
	Students []*models.Student `json:"alunos"`
	Total    int               `json:"total"`
}

// RosterHandler handles cohort and student HTTP requests.
type RosterHandler struct {
	roster services.RosterService
	logger *zap.Logger
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(roster services.RosterService, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{roster: roster, logger: logger}
}

// RegisterRoutes registers the roster handler's routes on the given mux.
func (h *RosterHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/turmas", h.ListCohorts)
	mux.HandleFunc("POST /api/turmas", h.CreateCohort)
	mux.HandleFunc("PUT /api/turmas/{id}", h.UpdateCohort)
	mux.HandleFunc("DELETE /api/turmas/{id}", h.DeleteCohort)

	mux.HandleFunc("GET /api/alunos", h.ListStudents)
	mux.HandleFunc("POST /api/alunos", h.CreateStudent)
	mux.HandleFunc("GET /api/alunos/{id}", h.GetStudent)
	mux.HandleFunc("PUT /api/alunos/{id}", h.UpdateStudent)
	mux.HandleFunc("DELETE /api/alunos/{id}", h.DeactivateStudent)
}

// ListCohorts handles GET /api/turmas
func (h *RosterHandler) ListCohorts(w http.ResponseWriter, r *http.Request) {
	cohorts, err := h.roster.ListCohorts(r.Context())
	if err != nil {
		h.writeError(w, "list_cohorts_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: cohorts}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateCohort handles POST /api/turmas
func (h *RosterHandler) CreateCohort(w http.ResponseWriter, r *http.Request) {
	var req CohortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	cohort, err := h.roster.CreateCohort(r.Context(), req.Name, req.Description)
	if err != nil {
		h.writeError(w, "create_cohort_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: cohort}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateCohort handles PUT /api/turmas/{id}
func (h *RosterHandler) UpdateCohort(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req CohortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.roster.UpdateCohort(r.Context(), id, req.Name, req.Description); err != nil {
		h.writeError(w, "update_cohort_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteCohort handles DELETE /api/turmas/{id}
func (h *RosterHandler) DeleteCohort(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.roster.DeleteCohort(r.Context(), id); err != nil {
		h.writeError(w, "delete_cohort_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListStudents handles GET /api/alunos?turma_id=&busca=
func (h *RosterHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	var cohortID *int64
	if raw := r.URL.Query().Get("turma_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid turma_id query parameter")
			return
		}
		cohortID = &id
	}

	students, err := h.roster.ListStudents(r.Context(), cohortID, r.URL.Query().Get("busca"))
	if err != nil {
		h.writeError(w, "list_students_failed", err)
		return
	}

	response := StudentListResponse{Students: students, Total: len(students)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetStudent handles GET /api/alunos/{id}
func (h *RosterHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	student, err := h.roster.GetStudent(r.Context(), id)
	if err != nil {
		h.writeError(w, "get_student_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: student}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateStudent handles POST /api/alunos
// The body is a flat object of column name to value.
func (h *RosterHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeStudentFields(w, r)
	if !ok {
		return
	}

	id, err := h.roster.CreateStudent(r.Context(), fields)
	if err != nil {
		h.writeError(w, "create_student_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: map[string]int64{"id": id}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateStudent handles PUT /api/alunos/{id}
func (h *RosterHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	fields, ok := decodeStudentFields(w, r)
	if !ok {
		return
	}

	if err := h.roster.UpdateStudent(r.Context(), id, fields); err != nil {
		h.writeError(w, "update_student_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeactivateStudent handles DELETE /api/alunos/{id}
func (h *RosterHandler) DeactivateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.roster.DeactivateStudent(r.Context(), id); err != nil {
		h.writeError(w, "deactivate_student_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *RosterHandler) writeError(w http.ResponseWriter, fallbackCode string, err error) {
	status, code := statusFor(err)
	if code == "internal_error" {
		code = fallbackCode
		h.logger.Error("Roster request failed", zap.String("code", fallbackCode), zap.Error(err))
	}
	if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}

// decodeStudentFields reads a flat string-keyed JSON object, stringifying
// scalar values the way spreadsheet cells arrive.
func decodeStudentFields(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return nil, false
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			fields[key] = ""
		case string:
			fields[key] = v
		case float64:
			fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			fields[key] = strconv.FormatBool(v)
		default:
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Field "+key+" must be a scalar value")
			return nil, false
		}
	}
	return fields, true
}
