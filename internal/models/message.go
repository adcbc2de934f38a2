package models

import "time"

type MessageKind string

const (
	MessageKindDirect MessageKind = "direct"
	MessageKindGroup  MessageKind = "group"
)

// Message is immutable once created. Exactly one of ReceiverID/GroupID is
// set, determined by Kind.
type Message struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"senderId"`
	ReceiverID string      `json:"receiverId,omitempty"`
	GroupID    string      `json:"groupId,omitempty"`
	Kind       MessageKind `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Image      string      `json:"image,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`

	// Denormalized sender display fields, populated on reads.
	SenderName    string `json:"senderName,omitempty"`
	SenderPicture string `json:"senderPicture,omitempty"`
}

type SendMessageRequest struct {
	Text  string `json:"text" validate:"required_without=Image"`
	Image string `json:"image" validate:"omitempty,url"`
}
