package models

import "time"

type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AdminID     string    `json:"adminId"`
	Members     []User    `json:"members"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MemberIDs returns the identifiers of all current members.
func (g *Group) MemberIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=80"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"memberIds" validate:"required,min=1,dive,required"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=80"`
	Description *string `json:"description"`
}

type AddMembersRequest struct {
	MemberIDs []string `json:"memberIds" validate:"required,min=1,dive,required"`
}
