package models

// Realtime event names pushed over the websocket.
const (
	EventOnlineUsers       = "getOnlineUsers"
	EventDirectMessage     = "directMessage"
	EventGroupMessage      = "groupMessage"
	EventNewGroup          = "newGroup"
	EventGroupUpdated      = "groupUpdated"
	EventEventNotification = "eventNotification"
)

// Envelope is the wire shape of every server→client push.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// EventNotification accompanies a reminder's group message so clients can
// surface a toast independent of the open conversation.
type EventNotification struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	GroupName string `json:"groupName"`
	EventID   string `json:"eventId"`
}
