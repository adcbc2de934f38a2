package services

import (
	"context"
	"fmt"
	"time"

	"chatspace/internal/database"
	"chatspace/internal/models"
)

type EventService struct {
	db database.Database
}

func NewEventService(db database.Database) *EventService {
	return &EventService{db: db}
}

// CreateEvent schedules a group reminder. Only the group admin may
// create one, and the date must be strictly in the future.
func (s *EventService) CreateEvent(ctx context.Context, userID string, req *models.CreateEventRequest) (*models.Event, error) {
	group, err := s.db.GetGroupByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if group.AdminID != userID {
		return nil, ErrForbidden
	}

	if !req.EventDate.After(time.Now()) {
		return nil, ErrPastEventDate
	}

	event, err := s.db.CreateEvent(ctx, &models.Event{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		GroupID:     req.GroupID,
		CreatedBy:   userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	event.GroupName = group.Name
	return event, nil
}

func (s *EventService) ListGroupEvents(ctx context.Context, userID, groupID string) ([]*models.Event, error) {
	isMember, err := s.db.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	return s.db.ListGroupEvents(ctx, groupID)
}

// DeleteEvent allows the group admin or the event creator to cancel a
// pending reminder.
func (s *EventService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	event, err := s.db.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}

	group, err := s.db.GetGroupByID(ctx, event.GroupID)
	if err != nil {
		return err
	}
	if group.AdminID != userID && event.CreatedBy != userID {
		return ErrForbidden
	}

	return s.db.DeleteEvent(ctx, eventID)
}
