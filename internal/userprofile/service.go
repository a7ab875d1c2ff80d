package userprofile

import (
	"context"
	"errors"
	"strings"

	"github.com/ihost-app/ihost-backend/internal/event"
)

var (
	ErrInvalidAvatarStyle = errors.New("unknown avatar style")
	ErrInvalidRadius      = errors.New("radius must be one of the picker values")
	ErrEmptyName          = errors.New("name cannot be empty")
)

// EventStats is the slice of the event service the profile screen needs.
type EventStats interface {
	HostedBy(ctx context.Context, email string) (upcoming, past []event.Event, err error)
	AttendedBy(ctx context.Context, email string) ([]event.Event, error)
}

type Service interface {
	GetProfile(ctx context.Context, userID uint) (*Profile, error)
	GetPublicProfile(ctx context.Context, userID uint) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*Profile, error)
}

type service struct {
	repo   Repository
	events EventStats
}

func NewService(repo Repository, events EventStats) Service {
	return &service{repo: repo, events: events}
}

// =============================
// 👤 Get Profile (own)
func (s *service) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	upcoming, past, err := s.events.HostedBy(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	attended, err := s.events.AttendedBy(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		AvatarStyle: user.AvatarStyle,
		AvatarURL:   AvatarURL(user.AvatarStyle, user.ID),
		EventRadius: user.EventRadius,
		Stats: &Stats{
			Hosting:  len(upcoming),
			Past:     len(past),
			Attended: len(attended),
		},
	}, nil
}

// =============================
// 👤 Get Profile (public)
//
// What other attendees see on an event page: no email, no radius
// preference, no attendance history.
func (s *service) GetPublicProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:          user.ID,
		Name:        user.Name,
		AvatarStyle: user.AvatarStyle,
		AvatarURL:   AvatarURL(user.AvatarStyle, user.ID),
	}, nil
}

// =============================
// ✏️ Update Profile
func (s *service) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*Profile, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		user.Name = name
	}

	if req.AvatarStyle != nil {
		if !validAvatarStyle(*req.AvatarStyle) {
			return nil, ErrInvalidAvatarStyle
		}
		user.AvatarStyle = *req.AvatarStyle
	}

	if req.EventRadius != nil {
		if !validRadius(*req.EventRadius) {
			return nil, ErrInvalidRadius
		}
		user.EventRadius = *req.EventRadius
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

func validAvatarStyle(style string) bool {
	for _, s := range AvatarStyles {
		if s == style {
			return true
		}
	}
	return false
}

func validRadius(radius float64) bool {
	for _, r := range AllowedRadii {
		if r == radius {
			return true
		}
	}
	return false
}
