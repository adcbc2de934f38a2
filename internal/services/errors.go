package services

import "errors"

var (
	ErrForbidden     = errors.New("forbidden")
	ErrNotMember     = errors.New("not a member of this group")
	ErrAdminLocked   = errors.New("admin cannot leave group with other members")
	ErrPastEventDate = errors.New("event date must be in the future")
	ErrEmptyMessage  = errors.New("message needs text or an image")
	ErrInactiveGroup = errors.New("group is no longer active")
	ErrSelfContact   = errors.New("cannot add yourself as a contact")
)
