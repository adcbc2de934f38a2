package handlers

import (
	"net/http"

	"chatspace/internal/models"
	"chatspace/internal/services"

	"github.com/go-chi/chi/v5"
)

type EventHandlers struct {
	eventService *services.EventService
}

func NewEventHandlers(eventService *services.EventService) *EventHandlers {
	return &EventHandlers{eventService: eventService}
}

func (h *EventHandlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/create", h.Create)
	r.Get("/group/{groupId}", h.ListGroupEvents)
	r.Delete("/{eventId}", h.Delete)

	return r
}

func (h *EventHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), currentUser(r).ID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandlers) ListGroupEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListGroupEvents(r.Context(), currentUser(r).ID, chi.URLParam(r, "groupId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.DeleteEvent(r.Context(), currentUser(r).ID, chi.URLParam(r, "eventId")); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Event deleted successfully")
}
