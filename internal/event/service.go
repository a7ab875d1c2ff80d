package event

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/datatypes"

	"github.com/ihost-app/ihost-backend/internal/auth"
	"github.com/ihost-app/ihost-backend/internal/discovery"
	"github.com/ihost-app/ihost-backend/internal/notification"
)

var (
	ErrInvalidCategory  = errors.New("unknown event category")
	ErrPriceMismatch    = errors.New("price does not match category")
	ErrMissingSchedules = errors.New("dated events need at least one schedule entry")
	ErrInvalidSchedule  = errors.New("schedule entry is malformed")
	ErrInvalidDate      = errors.New("date is not on the event schedule")
	ErrHostRegistration = errors.New("hosts cannot register for their own event")
	ErrNotHost          = errors.New("only the host can do this")
)

var validCategories = map[string]bool{
	discovery.CategoryFree:        true,
	discovery.CategoryPaid:        true,
	discovery.CategoryServices:    true,
	discovery.CategoryGigs:        true,
	discovery.CategoryMarketplace: true,
}

// NearbyFeed is the home-screen payload: sectioned events plus the order
// the client renders sections in.
type NearbyFeed struct {
	Sections     map[string][]discovery.AnnotatedEvent `json:"sections"`
	SectionOrder []string                              `json:"section_order"`
	RadiusKm     float64                               `json:"radius_km"`
}

type Service struct {
	Repo      Repository
	Publisher notification.Publisher

	// now is injectable so temporal eligibility is testable.
	now func() time.Time
}

func NewService(repo Repository, publisher notification.Publisher) *Service {
	return &Service{
		Repo:      repo,
		Publisher: publisher,
		now:       time.Now,
	}
}

// ===========================
// 🎯 Create Event
func (s *Service) Create(ctx context.Context, req *CreateEventRequest, host *auth.User) (*Event, error) {
	if !validCategories[req.Category] {
		return nil, ErrInvalidCategory
	}
	if req.Price < 0 {
		return nil, ErrPriceMismatch
	}

	// Free events carry no price and paid events must have one; the
	// services, gigs and marketplace categories take either.
	switch req.Category {
	case discovery.CategoryFree:
		if req.Price != 0 {
			return nil, ErrPriceMismatch
		}
	case discovery.CategoryPaid:
		if req.Price <= 0 {
			return nil, ErrPriceMismatch
		}
	}

	if !req.IsOpenEnded && len(req.Schedules) == 0 {
		return nil, ErrMissingSchedules
	}
	for _, sch := range req.Schedules {
		if _, err := discovery.EndInstant(sch); err != nil {
			return nil, ErrInvalidSchedule
		}
	}

	schedulesJSON, err := json.Marshal(req.Schedules)
	if err != nil {
		return nil, err
	}
	imagesJSON, err := json.Marshal(req.ImageURLs)
	if err != nil {
		return nil, err
	}

	e := &Event{
		Name:        req.Name,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		Schedules:   datatypes.JSON(schedulesJSON),
		IsOpenEnded: req.IsOpenEnded,
		Occupancy:   req.Occupancy,
		Price:       req.Price,
		Category:    req.Category,
		ImageURLs:   datatypes.JSON(imagesJSON),
		CardColor:   req.CardColor,
		HostID:      host.ID,
		HostName:    host.Name,
		HostEmail:   host.Email,
	}
	if e.Occupancy < 0 {
		e.Occupancy = 0
	}

	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}

	log.Printf("✅ Event %d (%s) created by %s\n", e.ID, e.Name, host.Email)
	return e, nil
}

// ===========================
// 📍 Nearby Feed
//
// Snapshots every event, runs geofence + temporal eligibility against the
// viewer's position and radius preference, then buckets into the home
// screen sections.
func (s *Service) Nearby(ctx context.Context, user *auth.User, coord *discovery.Coordinate) (*NearbyFeed, error) {
	events, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]discovery.EventRecord, 0, len(events))
	for i := range events {
		records = append(records, events[i].ToRecord())
	}

	viewer := discovery.ViewerContext{
		Coordinate: coord,
		RadiusKm:   user.EventRadius,
		Now:        s.now(),
	}

	nearby, err := discovery.SelectNearby(records, viewer)
	if err != nil {
		return nil, err
	}

	return &NearbyFeed{
		Sections:     discovery.Sectionize(nearby),
		SectionOrder: discovery.SectionOrder,
		RadiusKm:     user.EventRadius,
	}, nil
}

// ===========================
// 🔍 Event Detail
func (s *Service) Detail(ctx context.Context, id uint, viewer *auth.User, coord *discovery.Coordinate) (*EventDetail, error) {
	e, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &EventDetail{Event: e}

	if coord != nil && e.Latitude != nil && e.Longitude != nil {
		d := discovery.DistanceKm(*coord, discovery.Coordinate{Latitude: *e.Latitude, Longitude: *e.Longitude})
		detail.DistanceKm = &d
	}

	rec := e.ToRecord()
	for _, sch := range e.DecodeSchedules() {
		left, unlimited := discovery.SpotsLeft(rec, sch.Date)
		detail.Availability = append(detail.Availability, ScheduleAvailability{
			Schedule:  sch,
			SpotsLeft: left,
			Unlimited: unlimited,
		})
	}

	if viewer != nil {
		for _, reg := range e.Registrations {
			if reg.Email == viewer.Email {
				detail.IsRegistered = true
				break
			}
		}
		for _, like := range e.Likes {
			if like.UserID == viewer.ID {
				detail.IsLiked = true
				break
			}
		}
	}

	return detail, nil
}

// ===========================
// 🎟️ Register
//
// The advisory capacity check runs on the snapshot first so most rejections
// never open a transaction; the repository repeats both checks under a row
// lock for correctness.
func (s *Service) Register(ctx context.Context, eventID uint, user *auth.User, date string) error {
	e, err := s.Repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if e.HostID == user.ID {
		return ErrHostRegistration
	}

	if e.IsOpenEnded {
		date = ""
	} else {
		found := false
		for _, sch := range e.DecodeSchedules() {
			if sch.Date == date {
				found = true
				break
			}
		}
		if !found {
			return ErrInvalidDate
		}
	}

	if decision := discovery.CanRegister(e.ToRecord(), user.Email, date); !decision.Allowed {
		switch decision.Reason {
		case discovery.ReasonAlreadyRegistered:
			return ErrAlreadyRegistered
		case discovery.ReasonFull:
			return ErrEventFull
		}
	}

	if err := s.Repo.RegisterForDate(ctx, eventID, user.ID, user.Email, date); err != nil {
		return err
	}

	s.publish(ctx, notification.ActivityMessage{
		Type:      notification.ActivityRegistration,
		EventID:   e.ID,
		EventName: e.Name,
		HostID:    e.HostID,
		ActorName: user.Name,
		Date:      date,
	})
	return nil
}

// ===========================
// ❤️ Toggle Like
func (s *Service) ToggleLike(ctx context.Context, eventID uint, user *auth.User) (bool, int, error) {
	liked, count, err := s.Repo.ToggleLike(ctx, eventID, user.ID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		e, getErr := s.Repo.GetByID(ctx, eventID)
		if getErr == nil && e.HostID != user.ID {
			s.publish(ctx, notification.ActivityMessage{
				Type:      notification.ActivityLike,
				EventID:   e.ID,
				EventName: e.Name,
				HostID:    e.HostID,
				ActorName: user.Name,
			})
		}
	}

	return liked, count, nil
}

// ===========================
// 🗑️ Delete
func (s *Service) Delete(ctx context.Context, eventID uint, user *auth.User) error {
	e, err := s.Repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if e.HostID != user.ID {
		return ErrNotHost
	}
	return s.Repo.Delete(ctx, eventID)
}

// ===========================
// 🏠 Hosted Events
//
// Splits the user's events into still-open and finished using the same
// clock rules as the nearby feed.
func (s *Service) HostedBy(ctx context.Context, email string) (upcoming, past []Event, err error) {
	events, err := s.Repo.ListByHostEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	for i := range events {
		if discovery.IsEventOpen(events[i].ToRecord(), now) {
			upcoming = append(upcoming, events[i])
		} else {
			past = append(past, events[i])
		}
	}
	return upcoming, past, nil
}

// ===========================
// 🎟️ Attended Events
func (s *Service) AttendedBy(ctx context.Context, email string) ([]Event, error) {
	return s.Repo.ListRegisteredByEmail(ctx, email)
}

func (s *Service) publish(ctx context.Context, msg notification.ActivityMessage) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishActivity(ctx, msg); err != nil {
		log.Printf("⚠️  Failed to publish %s activity for event %d: %v\n", msg.Type, msg.EventID, err)
	}
}
