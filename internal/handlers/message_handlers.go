package handlers

import (
	"net/http"

	"chatspace/internal/models"
	"chatspace/internal/services"

	"github.com/go-chi/chi/v5"
)

type MessageHandlers struct {
	messageService *services.MessageService
}

func NewMessageHandlers(messageService *services.MessageService) *MessageHandlers {
	return &MessageHandlers{messageService: messageService}
}

func (h *MessageHandlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/direct/{id}", h.GetDirectMessages)
	r.Get("/group/{groupId}", h.GetGroupMessages)
	r.Post("/send/direct/{id}", h.SendDirectMessage)
	r.Post("/send/group/{groupId}", h.SendGroupMessage)

	return r
}

func (h *MessageHandlers) GetDirectMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageService.GetDirectMessages(r.Context(), currentUser(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandlers) GetGroupMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageService.GetGroupMessages(r.Context(), currentUser(r).ID, chi.URLParam(r, "groupId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandlers) SendDirectMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.messageService.SendDirect(r.Context(), currentUser(r).ID, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandlers) SendGroupMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.messageService.SendGroup(r.Context(), currentUser(r).ID, chi.URLParam(r, "groupId"), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
