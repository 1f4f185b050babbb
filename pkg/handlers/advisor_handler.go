package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/services"
)

// AskRequest for POST /api/assistente
type AskRequest struct {
	Question string `json:"pergunta"`
}

// AskResponse for POST /api/assistente
type AskResponse struct {
	Answer string `json:"resposta"`
}

// AdvisorHandler serves the pedagogy assistant endpoint.
type AdvisorHandler struct {
	advisor services.AdvisorService
	logger  *zap.Logger
}

// NewAdvisorHandler creates a new advisor handler.
func NewAdvisorHandler(advisor services.AdvisorService, logger *zap.Logger) *AdvisorHandler {
	return &AdvisorHandler{advisor: advisor, logger: logger}
}

// RegisterRoutes registers the advisor handler's routes on the given mux.
func (h *AdvisorHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/assistente", h.Ask)
}

// Ask handles POST /api/assistente
func (h *AdvisorHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	answer, err := h.advisor.Ask(r.Context(), req.Question)
	if err != nil {
		status, code := statusFor(err)
		if code == "internal_error" {
			code = "advisor_failed"
			h.logger.Error("Advisor request failed", zap.Error(err))
		}
		if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: AskResponse{Answer: answer}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
