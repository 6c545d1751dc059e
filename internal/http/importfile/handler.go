package importfile

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	maxBytes  int64
}

// NewHandler creates the upload handler. Uploads above maxBytes are rejected.
func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, maxBytes int64) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
		maxBytes:  maxBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
}

type failureResponse struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Error string `json:"error"`
}

type importResponse struct {
	Format   importer.Format   `json:"format"`
	Charset  string            `json:"charset"`
	Total    int               `json:"total"`
	Accepted int               `json:"accepted"`
	Skipped  int               `json:"skipped"`
	Created  int               `json:"created"`
	Failed   []failureResponse `json:"failed"`
}

// importFile reads a multipart "file" field. The format comes from the
// optional "format" field, falling back to the file extension.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	declared := r.FormValue("format")
	if declared == "" {
		declared = filepath.Ext(header.Filename)
	}

	format, err := importer.ParseFormat(declared)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	result, err := h.importSvc.Import(format, file)
	if err != nil {
		if errors.Is(err, importer.ErrMalformed) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	batch := h.txSvc.CreateBatch(r.Context(), result.Params)

	resp := importResponse{
		Format:   format,
		Charset:  string(result.Charset),
		Total:    result.Total,
		Accepted: result.Accepted(),
		Skipped:  result.Skipped,
		Created:  len(batch.Created),
		Failed:   make([]failureResponse, 0, len(batch.Failed)),
	}

	for _, f := range batch.Failed {
		slog.Warn("failed to store imported transaction", "index", f.Index, "error", f.Err)

		resp.Failed = append(resp.Failed, failureResponse{
			Index: f.Index,
			Title: f.Params.Title,
			Error: f.Err.Error(),
		})
	}

	status := http.StatusCreated
	if resp.Created == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
