package services

import (
	"context"
	"fmt"

	"chatspace/internal/database"
	"chatspace/internal/models"
)

type ContactService struct {
	db database.Database
}

func NewContactService(db database.Database) *ContactService {
	return &ContactService{db: db}
}

func (s *ContactService) GetContacts(ctx context.Context, userID string) ([]*models.User, error) {
	return s.db.GetContacts(ctx, userID)
}

// AddContact links two users both ways, so each sees the other in their
// sidebar after a single add.
func (s *ContactService) AddContact(ctx context.Context, userID, contactID string) ([]*models.User, error) {
	if userID == contactID {
		return nil, ErrSelfContact
	}

	if _, err := s.db.GetUserByID(ctx, contactID); err != nil {
		return nil, err
	}

	if err := s.db.AddMutualContact(ctx, userID, contactID); err != nil {
		return nil, fmt.Errorf("failed to add contact: %w", err)
	}

	return s.db.GetContacts(ctx, userID)
}

// SearchUsers lists users not yet in the caller's contacts, for the
// add-contact search bar.
func (s *ContactService) SearchUsers(ctx context.Context, userID string) ([]*models.User, error) {
	contactIDs, err := s.db.GetContactIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.db.ListUsersExcluding(ctx, append(contactIDs, userID))
}
