package handlers

import (
	"net/http"

	"chatspace/internal/services"

	"github.com/go-chi/chi/v5"
)

type ContactHandlers struct {
	contactService *services.ContactService
}

func NewContactHandlers(contactService *services.ContactService) *ContactHandlers {
	return &ContactHandlers{contactService: contactService}
}

func (h *ContactHandlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/contacts", h.GetContacts)
	r.Post("/contacts/{id}", h.AddContact)
	r.Get("/users", h.SearchUsers)

	return r
}

func (h *ContactHandlers) GetContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.GetContacts(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandlers) AddContact(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.AddContact(r.Context(), currentUser(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// SearchUsers lists everyone not yet in the caller's contacts.
func (h *ContactHandlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.contactService.SearchUsers(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
