package tafsir

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rahle-app/rahle/internal/api"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) GetTafsir(w http.ResponseWriter, r *http.Request) {
	surah, err := strconv.Atoi(chi.URLParam(r, "surah"))
	if err != nil || surah < 1 || surah > 114 {
		api.HandleError(w, api.NewBadRequestError("invalid surah number, must be between 1 and 114"))
		return
	}
	ayah, err := strconv.Atoi(chi.URLParam(r, "ayah"))
	if err != nil || ayah < 1 {
		api.HandleError(w, api.NewBadRequestError("invalid ayah number"))
		return
	}

	commentary, err := h.svc.Commentary(r.Context(), surah, ayah, r.URL.Query().Get("source"))
	if err != nil {
		slog.Error("getting tafsir", "surah", surah, "ayah", ayah, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, commentary)
}

func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.svc.Sources(r.Context())
	if err != nil {
		slog.Error("listing tafsir sources", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, map[string]any{"sources": sources})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		slog.Error("getting tafsir stats", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, stats)
}
