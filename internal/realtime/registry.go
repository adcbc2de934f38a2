package realtime

import (
	"encoding/json"
	"sync"

	"chatspace/internal/models"
	"chatspace/pkg/logger"
)

// AnonymousID is what browser clients send at handshake before the auth
// store has hydrated. Connections carrying it stay alive but are never
// tracked as present.
const AnonymousID = "undefined"

// Registry maps authenticated users to their live connection. It is the
// only mutable shared state of the realtime subsystem, scoped to this
// process; a multi-process deployment would need an external pub/sub
// layer to fan out across processes.
//
// At most one connection is tracked per user: the last handshake wins,
// so a second tab silently replaces the first tab's entry.
type Registry struct {
	mu    sync.RWMutex
	conns map[*Client]bool   // every live connection, identified or not
	users map[string]*Client // userID -> current connection
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[*Client]bool),
		users: make(map[string]*Client),
	}
}

// Register tracks a new connection and, when it carries a usable
// identity, makes it the user's current connection. Every register is
// followed by an online-users broadcast to all live connections.
func (r *Registry) Register(client *Client) {
	r.mu.Lock()
	r.conns[client] = true
	if identified(client.UserID()) {
		r.users[client.UserID()] = client
		logger.Info("User %s connected with session %s", client.UserID(), client.SessionID())
	}
	r.mu.Unlock()

	r.broadcastOnlineUsers()
}

// Unregister removes a connection. The presence entry is only evicted
// when it still points at this exact connection, so the late teardown of
// a replaced tab cannot knock a newer connection offline.
func (r *Registry) Unregister(client *Client) {
	r.mu.Lock()
	delete(r.conns, client)
	if identified(client.UserID()) {
		if current, ok := r.users[client.UserID()]; ok && current.SessionID() == client.SessionID() {
			delete(r.users, client.UserID())
			logger.Info("User %s disconnected", client.UserID())
		}
	}
	r.mu.Unlock()

	r.broadcastOnlineUsers()
}

// Lookup returns the user's current connection, if any.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.users[userID]
	return client, ok
}

// ListOnline returns the IDs of every currently-present user.
func (r *Registry) ListOnline() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]string, 0, len(r.users))
	for userID := range r.users {
		online = append(online, userID)
	}
	return online
}

func (r *Registry) broadcastOnlineUsers() {
	payload, err := json.Marshal(models.Envelope{
		Event: models.EventOnlineUsers,
		Data:  r.ListOnline(),
	})
	if err != nil {
		logger.Error("Error marshaling online users broadcast: %v", err)
		return
	}

	r.mu.RLock()
	clients := make([]*Client, 0, len(r.conns))
	for client := range r.conns {
		clients = append(clients, client)
	}
	r.mu.RUnlock()

	for _, client := range clients {
		client.TrySend(payload)
	}
}

func identified(userID string) bool {
	return userID != "" && userID != AnonymousID
}
