package database

import (
	"context"
	"time"

	"chatspace/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsersExcluding(ctx context.Context, excludeIDs []string) ([]*models.User, error)
}

type ContactRepository interface {
	AddMutualContact(ctx context.Context, userID, contactID string) error
	GetContacts(ctx context.Context, userID string) ([]*models.User, error)
	GetContactIDs(ctx context.Context, userID string) ([]string, error)
}

type GroupRepository interface {
	CreateGroup(ctx context.Context, name, description, adminID string, memberIDs []string) (*models.Group, error)
	GetGroupByID(ctx context.Context, id string) (*models.Group, error)
	ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, groupID string, name, description *string) error
	AddGroupMembers(ctx context.Context, groupID string, memberIDs []string) error
	RemoveGroupMember(ctx context.Context, groupID, memberID string) error
	SetGroupActive(ctx context.Context, groupID string, active bool) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetDirectMessages(ctx context.Context, userID, otherID string) ([]*models.Message, error)
	GetGroupMessages(ctx context.Context, groupID string) ([]*models.Message, error)
}

type EventRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error)
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	ListGroupEvents(ctx context.Context, groupID string) ([]*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	FindDueEvents(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	// ClaimEventReminder atomically flips reminder_sent/is_completed and
	// reports whether this caller won the claim. A second concurrent
	// dispatcher run claiming the same event gets false.
	ClaimEventReminder(ctx context.Context, eventID string) (bool, error)
}

type Database interface {
	UserRepository
	ContactRepository
	GroupRepository
	MessageRepository
	EventRepository
	Close() error
}
