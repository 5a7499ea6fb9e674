package daily

import (
	"log/slog"
	"net/http"

	"github.com/rahle-app/rahle/internal/api"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	content, err := h.svc.Content(r.Context())
	if err != nil {
		slog.Error("building daily content", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, content)
}

func (h *Handler) RandomVerse(w http.ResponseWriter, r *http.Request) {
	verse, err := h.svc.RandomVerse(r.Context())
	if err != nil {
		slog.Error("picking random verse", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, verse)
}

func (h *Handler) RandomPrayer(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, h.svc.RandomPrayer())
}
