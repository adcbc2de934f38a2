package services

import (
	"context"
	"fmt"

	"chatspace/internal/database"
	"chatspace/internal/models"
	"chatspace/internal/realtime"

	"github.com/samber/lo"
)

type GroupService struct {
	db     database.Database
	router *realtime.Router
}

func NewGroupService(db database.Database, router *realtime.Router) *GroupService {
	return &GroupService{db: db, router: router}
}

// CreateGroup creates a group with the caller as admin, always a member,
// then notifies every member's live connection.
func (s *GroupService) CreateGroup(ctx context.Context, adminID string, req *models.CreateGroupRequest) (*models.Group, error) {
	memberIDs := lo.Uniq(append([]string{adminID}, req.MemberIDs...))

	group, err := s.db.CreateGroup(ctx, req.Name, req.Description, adminID, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.router.RouteGroupLifecycle(models.EventNewGroup, group.MemberIDs(), group)
	return group, nil
}

func (s *GroupService) ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.db.ListUserGroups(ctx, userID)
}

func (s *GroupService) GetGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.db.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !lo.Contains(group.MemberIDs(), userID) {
		return nil, ErrNotMember
	}
	return group, nil
}

func (s *GroupService) UpdateGroup(ctx context.Context, userID, groupID string, req *models.UpdateGroupRequest) (*models.Group, error) {
	group, err := s.db.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.AdminID != userID {
		return nil, ErrForbidden
	}

	if err := s.db.UpdateGroup(ctx, groupID, req.Name, req.Description); err != nil {
		return nil, err
	}

	updated, err := s.db.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	s.router.RouteGroupLifecycle(models.EventGroupUpdated, updated.MemberIDs(), updated)
	return updated, nil
}

func (s *GroupService) AddMembers(ctx context.Context, userID, groupID string, memberIDs []string) (*models.Group, error) {
	group, err := s.db.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.AdminID != userID {
		return nil, ErrForbidden
	}

	newMembers := lo.Without(lo.Uniq(memberIDs), group.MemberIDs()...)
	if len(newMembers) > 0 {
		if err := s.db.AddGroupMembers(ctx, groupID, newMembers); err != nil {
			return nil, fmt.Errorf("failed to add members: %w", err)
		}
	}

	updated, err := s.db.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	s.router.RouteGroupLifecycle(models.EventGroupUpdated, updated.MemberIDs(), updated)
	return updated, nil
}

// RemoveMember handles both admin removals and members leaving. The
// admin cannot abandon a group that still has other members; a group
// left empty is deactivated rather than deleted.
func (s *GroupService) RemoveMember(ctx context.Context, userID, groupID, memberID string) (*models.Group, error) {
	group, err := s.db.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.AdminID != userID && memberID != userID {
		return nil, ErrForbidden
	}
	if memberID == group.AdminID && len(group.Members) > 1 {
		return nil, ErrAdminLocked
	}

	if err := s.db.RemoveGroupMember(ctx, groupID, memberID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	updated, err := s.db.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if len(updated.Members) == 0 {
		if err := s.db.SetGroupActive(ctx, groupID, false); err != nil {
			return nil, err
		}
		updated.IsActive = false
	}

	s.router.RouteGroupLifecycle(models.EventGroupUpdated, updated.MemberIDs(), updated)
	return updated, nil
}
