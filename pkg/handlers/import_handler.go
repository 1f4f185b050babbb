package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/dansfisica85/dalmaso/pkg/services"
)

// maxUploadBytes caps spreadsheet uploads at 20 MiB.
const maxUploadBytes = 20 << 20

// ImportHandler handles spreadsheet upload and duplicate cleanup requests.
type ImportHandler struct {
	importer services.ImportService
	dedupe   services.DedupeService
	logger   *zap.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importer services.ImportService, dedupe services.DedupeService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importer: importer, dedupe: dedupe, logger: logger}
}

// RegisterRoutes registers the import handler's routes on the given mux.
func (h *ImportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/importar", h.Import)
	mux.HandleFunc("GET /api/duplicatas", h.FindDuplicates)
	mux.HandleFunc("POST /api/duplicatas/mesclar", h.MergeDuplicates)
}

// Import handles POST /api/importar
// Expects a multipart form with the spreadsheet under the "arquivo" field.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_upload", "Could not parse multipart form")
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_file", "Form field 'arquivo' is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_upload", "Could not read uploaded file")
		return
	}

	report, err := h.importer.ImportFile(r.Context(), content, header.Filename)
	if err != nil {
		h.writeError(w, "import_failed", err)
		return
	}

	h.logger.Info("Spreadsheet imported",
		zap.String("filename", header.Filename),
		zap.String("run_id", report.RunID),
		zap.Int("imported", report.Imported))

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: report}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// FindDuplicates handles GET /api/duplicatas
func (h *ImportHandler) FindDuplicates(w http.ResponseWriter, r *http.Request) {
	groups, err := h.dedupe.FindDuplicates(r.Context())
	if err != nil {
		h.writeError(w, "find_duplicates_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: groups}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MergeDuplicates handles POST /api/duplicatas/mesclar
func (h *ImportHandler) MergeDuplicates(w http.ResponseWriter, r *http.Request) {
	report, err := h.dedupe.MergeDuplicates(r.Context())
	if err != nil {
		h.writeError(w, "merge_duplicates_failed", err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: report}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *ImportHandler) writeError(w http.ResponseWriter, fallbackCode string, err error) {
	status, code := statusFor(err)
	if code == "internal_error" {
		code = fallbackCode
		h.logger.Error("Import request failed", zap.String("code", fallbackCode), zap.Error(err))
	}
	if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}
