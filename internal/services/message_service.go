package services

import (
	"context"
	"fmt"

	"chatspace/internal/database"
	"chatspace/internal/models"
	"chatspace/internal/realtime"
)

type MessageService struct {
	db     database.Database
	router *realtime.Router
}

func NewMessageService(db database.Database, router *realtime.Router) *MessageService {
	return &MessageService{db: db, router: router}
}

func (s *MessageService) GetDirectMessages(ctx context.Context, userID, otherID string) ([]*models.Message, error) {
	return s.db.GetDirectMessages(ctx, userID, otherID)
}

func (s *MessageService) GetGroupMessages(ctx context.Context, userID, groupID string) ([]*models.Message, error) {
	isMember, err := s.db.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	return s.db.GetGroupMessages(ctx, groupID)
}

// SendDirect persists the message, then attempts a live push to the
// recipient. The push is best-effort: the caller's success depends only
// on persistence, and an offline recipient sees the message on their
// next fetch.
func (s *MessageService) SendDirect(ctx context.Context, senderID, receiverID string, req *models.SendMessageRequest) (*models.Message, error) {
	if req.Text == "" && req.Image == "" {
		return nil, ErrEmptyMessage
	}

	if _, err := s.db.GetUserByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg, err := s.db.CreateMessage(ctx, &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Kind:       models.MessageKindDirect,
		Text:       req.Text,
		Image:      req.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.router.RouteDirect(msg)
	return msg, nil
}

// SendGroup persists the message, then fans it out to the group's
// current members, sender excluded. Membership is re-resolved on every
// send so edits take effect immediately.
func (s *MessageService) SendGroup(ctx context.Context, senderID, groupID string, req *models.SendMessageRequest) (*models.Message, error) {
	if req.Text == "" && req.Image == "" {
		return nil, ErrEmptyMessage
	}

	group, err := s.db.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsActive {
		return nil, ErrInactiveGroup
	}

	isMember, err := s.db.IsMember(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	msg, err := s.db.CreateMessage(ctx, &models.Message{
		SenderID: senderID,
		GroupID:  groupID,
		Kind:     models.MessageKindGroup,
		Text:     req.Text,
		Image:    req.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.router.RouteGroup(msg, group.MemberIDs(), senderID)
	return msg, nil
}
