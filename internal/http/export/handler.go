package export

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/query"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download streams a report of the current view. It accepts the same
// parameters as the transaction list plus format (csv by default).
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	format := export.FormatCSV
	if s := values.Get("format"); s != "" {
		f, err := export.ParseFormat(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		format = f
	}

	q, err := query.FromValues(values)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.Select(r.Context(), q)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(format)))

	if err := export.Write(w, txs, format); err != nil {
		slog.Error("failed to write export", "format", format, "error", err)
	}
}
