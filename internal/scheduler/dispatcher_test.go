package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chatspace/internal/database"
	"chatspace/internal/models"
	"chatspace/internal/realtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB implements the slice of database.Database the dispatcher
// touches, with real reminder-flag state so claim semantics behave like
// the conditional UPDATE.
type fakeDB struct {
	database.Database

	mu         sync.Mutex
	events     map[string]*models.Event
	groups     map[string]*models.Group
	messages   []*models.Message
	failGroups map[string]bool // groups whose reminder message fails to persist
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		events:     make(map[string]*models.Event),
		groups:     make(map[string]*models.Group),
		failGroups: make(map[string]bool),
	}
}

func (f *fakeDB) addGroup(id, name string, memberIDs ...string) {
	members := make([]models.User, 0, len(memberIDs))
	for _, m := range memberIDs {
		members = append(members, models.User{ID: m})
	}
	f.groups[id] = &models.Group{ID: id, Name: name, Members: members, IsActive: true}
}

func (f *fakeDB) addEvent(event *models.Event) *models.Event {
	event.ID = uuid.NewString()
	f.events[event.ID] = event
	return event
}

func (f *fakeDB) FindDueEvents(_ context.Context, from, to time.Time) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var due []*models.Event
	for _, e := range f.events {
		if !e.EventDate.Before(from) && e.EventDate.Before(to) && !e.IsCompleted && !e.ReminderSent {
			copied := *e
			due = append(due, &copied)
		}
	}
	return due, nil
}

func (f *fakeDB) ClaimEventReminder(_ context.Context, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[eventID]
	if !ok || event.ReminderSent {
		return false, nil
	}
	event.ReminderSent = true
	event.IsCompleted = true
	return true, nil
}

func (f *fakeDB) CreateMessage(_ context.Context, msg *models.Message) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failGroups[msg.GroupID] {
		return nil, errors.New("storage unavailable")
	}
	created := *msg
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	f.messages = append(f.messages, &created)
	return &created, nil
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

func newDispatcher(db *fakeDB) *Dispatcher {
	return NewDispatcher(db, realtime.NewRouter(realtime.NewRegistry()))
}

func TestRunSendsReminderForDueEvent(t *testing.T) {
	db := newFakeDB()
	db.addGroup("g1", "team", "admin", "b", "c")
	event := db.addEvent(&models.Event{
		Title:       "standup",
		Description: "daily sync",
		EventDate:   time.Now(),
		GroupID:     "g1",
		CreatedBy:   "admin",
	})

	newDispatcher(db).Run(context.Background())

	require.Len(t, db.messages, 1)
	msg := db.messages[0]
	assert.Equal(t, "admin", msg.SenderID)
	assert.Equal(t, "g1", msg.GroupID)
	assert.Equal(t, models.MessageKindGroup, msg.Kind)
	assert.Equal(t, "🔔 Event Reminder: \"standup\"\n📝 daily sync\n📅 Today", msg.Text)

	assert.True(t, db.events[event.ID].ReminderSent)
	assert.True(t, db.events[event.ID].IsCompleted)
}

func TestReminderBodyOmitsEmptyDescription(t *testing.T) {
	body := reminderBody(&models.Event{Title: "standup"})
	assert.Equal(t, "🔔 Event Reminder: \"standup\"\n📅 Today", body)
}

func TestRunTwiceSendsAtMostOneReminderPerEvent(t *testing.T) {
	db := newFakeDB()
	db.addGroup("g1", "team", "admin")
	db.addEvent(&models.Event{
		Title:     "standup",
		EventDate: time.Now(),
		GroupID:   "g1",
		CreatedBy: "admin",
	})

	dispatcher := newDispatcher(db)
	dispatcher.Run(context.Background())
	dispatcher.Run(context.Background())

	assert.Len(t, db.messages, 1)
}

func TestConcurrentRunsRaceOnTheSameEvent(t *testing.T) {
	db := newFakeDB()
	db.addGroup("g1", "team", "admin")
	event := db.addEvent(&models.Event{
		Title:     "standup",
		EventDate: time.Now(),
		GroupID:   "g1",
		CreatedBy: "admin",
	})

	// Both runs read the event as due before either claims it; the
	// conditional claim lets only one proceed.
	dispatcher := newDispatcher(db)
	snapshot := *event
	require.NoError(t, dispatcher.process(context.Background(), event))
	require.NoError(t, dispatcher.process(context.Background(), &snapshot))

	assert.Len(t, db.messages, 1)
}

func TestOneEventFailureDoesNotAbortTheBatch(t *testing.T) {
	db := newFakeDB()
	db.addGroup("g1", "broken", "admin")
	db.addGroup("g2", "healthy", "admin")
	db.failGroups["g1"] = true
	db.addEvent(&models.Event{Title: "a", EventDate: time.Now(), GroupID: "g1", CreatedBy: "admin"})
	db.addEvent(&models.Event{Title: "b", EventDate: time.Now(), GroupID: "g2", CreatedBy: "admin"})

	newDispatcher(db).Run(context.Background())

	require.Len(t, db.messages, 1)
	assert.Equal(t, "g2", db.messages[0].GroupID)
}

func TestFutureEventsAreNotDueToday(t *testing.T) {
	db := newFakeDB()
	db.addGroup("g1", "team", "admin")
	db.addEvent(&models.Event{
		Title:     "planning",
		EventDate: time.Now().AddDate(0, 0, 2),
		GroupID:   "g1",
		CreatedBy: "admin",
	})

	newDispatcher(db).Run(context.Background())

	assert.Empty(t, db.messages)
}
