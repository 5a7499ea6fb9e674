package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rahle-app/rahle/internal/api"
	"github.com/rahle-app/rahle/internal/users"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	deviceID := users.GetDeviceID(r.Context())
	if deviceID == "" {
		deviceID = req.DeviceID
	}
	if deviceID == "" {
		api.HandleError(w, api.ErrDeviceRequired)
		return
	}

	resp, err := h.svc.ProcessMessage(r.Context(), deviceID, req)
	if err != nil {
		var quotaErr *api.QuotaExceededError
		if !errors.As(err, &quotaErr) {
			slog.Error("processing chat message", "device_id", deviceID, "error", err)
			err = api.ErrInternalServer
		}
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	deviceID := users.GetDeviceID(r.Context())

	conversations, err := h.svc.Conversations(r.Context(), deviceID)
	if err != nil {
		slog.Error("listing conversations", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, conversations)
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	deviceID := users.GetDeviceID(r.Context())
	id := chi.URLParam(r, "conversationID")

	conversation, err := h.svc.ConversationByID(r.Context(), deviceID, id)
	if err != nil {
		slog.Error("getting conversation", "conversation_id", id, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if conversation == nil {
		api.HandleError(w, api.NewNotFoundError("conversation not found"))
		return
	}

	api.JSON(w, http.StatusOK, conversation)
}
