package services

import (
	"context"
	"sync"
	"time"

	"chatspace/internal/database"
	"chatspace/internal/models"
	"chatspace/internal/realtime"

	"github.com/google/uuid"
)

// fakeDB backs the service tests with an in-memory model of the slice of
// database.Database the services touch.
type fakeDB struct {
	database.Database

	mu       sync.Mutex
	users    map[string]*models.User
	groups   map[string]*models.Group
	events   map[string]*models.Event
	messages []*models.Message
	contacts map[string][]string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:    make(map[string]*models.User),
		groups:   make(map[string]*models.Group),
		events:   make(map[string]*models.Event),
		contacts: make(map[string][]string),
	}
}

func (f *fakeDB) addUser(id, name string) *models.User {
	user := &models.User{ID: id, Name: name, Email: name + "@example.com"}
	f.users[id] = user
	return user
}

func (f *fakeDB) addGroup(id, name, adminID string, memberIDs ...string) *models.Group {
	members := make([]models.User, 0, len(memberIDs))
	for _, m := range memberIDs {
		members = append(members, models.User{ID: m})
	}
	group := &models.Group{ID: id, Name: name, AdminID: adminID, Members: members, IsActive: true}
	f.groups[id] = group
	return group
}

func (f *fakeDB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return user, nil
}

func (f *fakeDB) GetGroupByID(_ context.Context, id string) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	group, ok := f.groups[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return group, nil
}

func (f *fakeDB) IsMember(_ context.Context, groupID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	group, ok := f.groups[groupID]
	if !ok {
		return false, nil
	}
	for _, m := range group.Members {
		if m.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDB) CreateMessage(_ context.Context, msg *models.Message) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := *msg
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	if sender, ok := f.users[msg.SenderID]; ok {
		created.SenderName = sender.Name
	}
	f.messages = append(f.messages, &created)
	return &created, nil
}

func (f *fakeDB) CreateEvent(_ context.Context, event *models.Event) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := *event
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	f.events[created.ID] = &created
	return &created, nil
}

func (f *fakeDB) GetEventByID(_ context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return event, nil
}

func (f *fakeDB) DeleteEvent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeDB) AddMutualContact(_ context.Context, userID, contactID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.contacts[userID] = append(f.contacts[userID], contactID)
	f.contacts[contactID] = append(f.contacts[contactID], userID)
	return nil
}

func (f *fakeDB) GetContacts(_ context.Context, userID string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.User
	for _, id := range f.contacts[userID] {
		if user, ok := f.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeDB) GetContactIDs(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.contacts[userID], nil
}

func (f *fakeDB) ListUsersExcluding(_ context.Context, excludeIDs []string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var out []*models.User
	for id, user := range f.users {
		if !excluded[id] {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeDB) CreateGroup(_ context.Context, name, description, adminID string, memberIDs []string) (*models.Group, error) {
	f.mu.Lock()

	members := make([]models.User, 0, len(memberIDs))
	for _, m := range memberIDs {
		members = append(members, models.User{ID: m})
	}
	group := &models.Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		AdminID:     adminID,
		Members:     members,
		IsActive:    true,
	}
	f.groups[group.ID] = group
	f.mu.Unlock()

	return f.GetGroupByID(context.Background(), group.ID)
}

func (f *fakeDB) UpdateGroup(_ context.Context, groupID string, name, description *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	group, ok := f.groups[groupID]
	if !ok {
		return database.ErrNotFound
	}
	if name != nil {
		group.Name = *name
	}
	if description != nil {
		group.Description = *description
	}
	return nil
}

func (f *fakeDB) AddGroupMembers(_ context.Context, groupID string, memberIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	group, ok := f.groups[groupID]
	if !ok {
		return database.ErrNotFound
	}
	for _, id := range memberIDs {
		group.Members = append(group.Members, models.User{ID: id})
	}
	return nil
}

func (f *fakeDB) RemoveGroupMember(_ context.Context, groupID, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	group, ok := f.groups[groupID]
	if !ok {
		return database.ErrNotFound
	}
	kept := group.Members[:0]
	for _, m := range group.Members {
		if m.ID != memberID {
			kept = append(kept, m)
		}
	}
	group.Members = kept
	return nil
}

func (f *fakeDB) SetGroupActive(_ context.Context, groupID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	group, ok := f.groups[groupID]
	if !ok {
		return database.ErrNotFound
	}
	group.IsActive = active
	return nil
}

func newTestRouter() *realtime.Router {
	return realtime.NewRouter(realtime.NewRegistry())
}
