package quran

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rahle-app/rahle/internal/api"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListSurahs(w http.ResponseWriter, r *http.Request) {
	surahs, err := h.svc.ListSurahs(r.Context())
	if err != nil {
		slog.Error("listing surahs", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, surahs)
}

func (h *Handler) GetSurah(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "surah"))
	if err != nil || number < 1 || number > 114 {
		api.HandleError(w, api.NewBadRequestError("invalid surah number, must be between 1 and 114"))
		return
	}

	surah, err := h.svc.GetSurah(r.Context(), number)
	if err != nil {
		slog.Error("getting surah", "surah", number, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, surah)
}

func (h *Handler) GetVerse(w http.ResponseWriter, r *http.Request) {
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

	verse, err := h.svc.GetVerse(r.Context(), surah, ayah)
	if err != nil {
		slog.Error("getting verse", "surah", surah, "ayah", ayah, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if verse == nil {
		api.HandleError(w, api.NewNotFoundError("verse not found"))
		return
	}

	api.JSON(w, http.StatusOK, verse)
}

type searchResponse struct {
	Query   string  `json:"query"`
	Count   int     `json:"count"`
	Results []Verse `json:"results"`
}

func (h *Handler) SearchVerses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if len(query) < 2 {
		api.HandleError(w, api.NewBadRequestError("search query must be at least 2 characters"))
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	verses, err := h.svc.Search(r.Context(), query, limit)
	if err != nil {
		slog.Error("searching verses", "query", query, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, searchResponse{Query: query, Count: len(verses), Results: verses})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		slog.Error("getting quran stats", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, stats)
}

type featuredResponse struct {
	Count  int     `json:"count"`
	Verses []Verse `json:"verses"`
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	verses, err := h.svc.Featured(r.Context())
	if err != nil {
		slog.Error("getting featured verses", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, featuredResponse{Count: len(verses), Verses: verses})
}
