package handlers

import (
	"net/http"

	"chatspace/internal/models"
	"chatspace/internal/services"

	"github.com/go-chi/chi/v5"
)

type GroupHandlers struct {
	groupService *services.GroupService
}

func NewGroupHandlers(groupService *services.GroupService) *GroupHandlers {
	return &GroupHandlers{groupService: groupService}
}

func (h *GroupHandlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/create", h.Create)
	r.Get("/", h.List)
	r.Get("/{groupId}", h.Get)
	r.Put("/{groupId}", h.Update)
	r.Put("/{groupId}/add-member", h.AddMembers)
	r.Delete("/{groupId}/remove-member/{memberId}", h.RemoveMember)

	return r
}

func (h *GroupHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.groupService.CreateGroup(r.Context(), currentUser(r).ID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandlers) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.ListUserGroups(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandlers) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupService.GetGroup(r.Context(), currentUser(r).ID, chi.URLParam(r, "groupId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateGroupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.groupService.UpdateGroup(r.Context(), currentUser(r).ID, chi.URLParam(r, "groupId"), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandlers) AddMembers(w http.ResponseWriter, r *http.Request) {
	var req models.AddMembersRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.groupService.AddMembers(r.Context(), currentUser(r).ID, chi.URLParam(r, "groupId"), req.MemberIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupService.RemoveMember(r.Context(), currentUser(r).ID,
		chi.URLParam(r, "groupId"), chi.URLParam(r, "memberId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}
