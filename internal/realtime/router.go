package realtime

import (
	"encoding/json"

	"chatspace/internal/models"
	"chatspace/pkg/logger"
)

// Router resolves recipients against the registry and pushes composed
// payloads to whoever is live. Callers persist first and route second:
// the push never retries, queues, or reports failure back to the sender,
// because the message is already durable by the time it runs.
type Router struct {
	registry *Registry
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// RouteDirect pushes a directMessage event to the recipient's live
// connection. An offline recipient is a no-op; they will see the stored
// message on their next fetch.
func (r *Router) RouteDirect(msg *models.Message) {
	client, ok := r.registry.Lookup(msg.ReceiverID)
	if !ok {
		return
	}
	client.SendEvent(models.EventDirectMessage, msg)
}

// RouteGroup pushes a groupMessage event to every listed member except
// excludeSenderID. Pass an empty exclusion for system messages that every
// member, author included, should see. Each member's delivery is
// independent: offline members are skipped without affecting the rest.
func (r *Router) RouteGroup(msg *models.Message, memberIDs []string, excludeSenderID string) {
	payload, err := json.Marshal(models.Envelope{Event: models.EventGroupMessage, Data: msg})
	if err != nil {
		logger.Error("Error marshaling group message: %v", err)
		return
	}

	for _, memberID := range memberIDs {
		if memberID == excludeSenderID {
			continue
		}
		if client, ok := r.registry.Lookup(memberID); ok {
			client.TrySend(payload)
		}
	}
}

// RouteGroupLifecycle pushes a newGroup/groupUpdated event to every
// member, the acting user included.
func (r *Router) RouteGroupLifecycle(event string, memberIDs []string, payload interface{}) {
	data, err := json.Marshal(models.Envelope{Event: event, Data: payload})
	if err != nil {
		logger.Error("Error marshaling %s event: %v", event, err)
		return
	}

	for _, memberID := range memberIDs {
		if client, ok := r.registry.Lookup(memberID); ok {
			client.TrySend(data)
		}
	}
}

// NotifyEvent pushes an eventNotification to every member, independent of
// whether the accompanying group message reached them.
func (r *Router) NotifyEvent(memberIDs []string, note models.EventNotification) {
	data, err := json.Marshal(models.Envelope{Event: models.EventEventNotification, Data: note})
	if err != nil {
		logger.Error("Error marshaling event notification: %v", err)
		return
	}

	for _, memberID := range memberIDs {
		if client, ok := r.registry.Lookup(memberID); ok {
			client.TrySend(data)
		}
	}
}
