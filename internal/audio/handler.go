package audio

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

// VerseAudio streams the MP3 narration of a verse translation.
func (h *Handler) VerseAudio(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Configured() {
		api.JSONErrorMessage(w, http.StatusServiceUnavailable, "audio service not configured")
		return
	}

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

	audio, found, err := h.svc.VerseAudio(r.Context(), surah, ayah, r.URL.Query().Get("voice"))
	if err != nil {
		slog.Error("generating verse audio", "surah", surah, "ayah", ayah, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if !found {
		api.HandleError(w, api.NewNotFoundError("verse not found"))
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Write(audio)
}

func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Configured() {
		api.JSONErrorMessage(w, http.StatusServiceUnavailable, "audio service not configured")
		return
	}

	voices, err := h.svc.Voices(r.Context())
	if err != nil {
		slog.Error("listing voices", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, map[string]any{"voices": voices})
}

// Status reports whether synthesis is available and how much of the
// upstream character budget remains.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Configured() {
		api.JSON(w, http.StatusOK, map[string]any{
			"status":  "not_configured",
			"message": "ElevenLabs API key not set",
		})
		return
	}

	usage, err := h.svc.Usage(r.Context())
	if err != nil {
		slog.Warn("fetching audio usage", "error", err)
	}
	api.JSON(w, http.StatusOK, map[string]any{"status": "configured", "usage": usage})
}
