package models

import "time"

// Event is a scheduled group reminder. Once the dispatcher has processed
// it, ReminderSent and IsCompleted both flip to true and the event is
// terminal.
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	EventDate    time.Time `json:"eventDate"`
	GroupID      string    `json:"groupId"`
	GroupName    string    `json:"groupName,omitempty"`
	CreatedBy    string    `json:"createdBy"`
	CreatorName  string    `json:"creatorName,omitempty"`
	IsCompleted  bool      `json:"isCompleted"`
	ReminderSent bool      `json:"reminderSent"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=120"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"eventDate" validate:"required"`
	GroupID     string    `json:"groupId" validate:"required"`
}
