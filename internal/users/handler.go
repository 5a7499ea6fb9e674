package users

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rahle-app/rahle/internal/api"
	"github.com/rahle-app/rahle/internal/quota"
)

type Handler struct {
	svc      *Service
	tracker  *quota.Tracker
	validate *validator.Validate
}

func NewHandler(svc *Service, tracker *quota.Tracker) *Handler {
	return &Handler{
		svc:      svc,
		tracker:  tracker,
		validate: validator.New(),
	}
}

type registerResponse struct {
	User     *User     `json:"user"`
	Progress *Progress `json:"progress"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	user, progress, err := h.svc.Register(r.Context(), req.DeviceID, req.Name)
	if err != nil {
		slog.Error("registering user", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, registerResponse{User: user, Progress: progress})
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())

	progress, err := h.svc.Progress(r.Context(), deviceID)
	if err != nil {
		slog.Error("getting progress", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusOK, progress)
}

func (h *Handler) MarkVerseRead(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())

	var req VerseReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	progress, err := h.svc.MarkVerseRead(r.Context(), deviceID, req.Surah, req.Ayah)
	if err != nil {
		slog.Error("marking verse read", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if progress == nil {
		api.HandleError(w, api.NewNotFoundError("user not found"))
		return
	}

	api.JSON(w, http.StatusOK, progress)
}

func (h *Handler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())

	progress, err := h.svc.UpdateStreak(r.Context(), deviceID)
	if err != nil {
		slog.Error("updating streak", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if progress == nil {
		api.HandleError(w, api.NewNotFoundError("user not found"))
		return
	}

	api.JSON(w, http.StatusOK, progress)
}

func (h *Handler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())

	progress, err := h.svc.Progress(r.Context(), deviceID)
	if err != nil {
		slog.Error("getting achievements", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, map[string]any{"achievements": Achievements(progress)})
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())

	var req PreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	user, err := h.svc.UpdatePreferences(r.Context(), deviceID, req)
	if err != nil {
		slog.Error("updating preferences", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if user == nil {
		api.HandleError(w, api.NewNotFoundError("user not found"))
		return
	}

	api.JSON(w, http.StatusOK, user)
}

type quotaStatusResponse struct {
	quota.LimitStatus
	DailyLimit int `json:"daily_limit"`
}

// GetQuota reports the device's current allowance without consuming it.
func (h *Handler) GetQuota(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())

	status, err := h.tracker.CheckLimit(r.Context(), deviceID)
	if err != nil {
		slog.Error("checking quota", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, quotaStatusResponse{LimitStatus: status, DailyLimit: h.tracker.Limit()})
}
