package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/models"
	"github.com/dansfisica85/dalmaso/pkg/services"
)

// AggregateHandler serves the period aggregation endpoint.
type AggregateHandler struct {
	aggregation services.AggregationService
	logger      *zap.Logger
	now         func() time.Time
}

// NewAggregateHandler creates a new aggregate handler.
func NewAggregateHandler(aggregation services.AggregationService, logger *zap.Logger) *AggregateHandler {
	return &AggregateHandler{aggregation: aggregation, logger: logger, now: time.Now}
}

// RegisterRoutes registers the aggregate handler's routes on the given mux.
func (h *AggregateHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/agregado", h.Aggregate)
}

// Aggregate handles GET /api/agregado?periodo=&data=&turno=&nivel=
// The reference date defaults to today when absent.
func (h *AggregateHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	period := models.PeriodType(query.Get("periodo"))
	if period == "" {
		period = models.PeriodDay
	}

	ref := h.now()
	if raw := query.Get("data"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_date", "Query parameter 'data' must be YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	result, err := h.aggregation.Aggregate(r.Context(), period, ref, query.Get("turno"), query.Get("nivel"))
	if err != nil {
		status, code := statusFor(err)
		if code == "internal_error" {
			code = "aggregate_failed"
			h.logger.Error("Aggregation failed",
				zap.String("period", string(period)),
				zap.Error(err))
		}
		if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
