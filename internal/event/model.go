package event

import (
	"encoding/json"
	"strconv"
	"time"

	"gorm.io/datatypes"

	"github.com/ihost-app/ihost-backend/internal/discovery"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`

	// Venue. Latitude/Longitude are pointers so an event without a pin is
	// representable; such events never show up in nearby feeds.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `gorm:"type:varchar(255)" json:"address"`

	// Schedules holds the dated sessions as a JSONB array of
	// {date, startTime, endTime} objects, mirroring what clients submit.
	Schedules   datatypes.JSON `gorm:"type:jsonb" json:"schedules"`
	IsOpenEnded bool           `gorm:"default:false" json:"is_open_ended"`

	Occupancy int     `gorm:"default:0" json:"occupancy"` // 0 = unlimited
	Price     float64 `gorm:"default:0" json:"price"`
	Category  string  `gorm:"type:varchar(30);not null;index" json:"category"`

	ImageURLs  datatypes.JSON `gorm:"type:jsonb" json:"image_urls"`
	CardColor  string         `gorm:"type:varchar(20)" json:"card_color"`
	LikesCount int            `gorm:"default:0" json:"likes_count"`

	HostID    uint   `gorm:"not null;index" json:"host_id"`
	HostName  string `gorm:"type:varchar(100)" json:"host_name"`
	HostEmail string `gorm:"type:varchar(255);index" json:"host_email"`

	Registrations []Registration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Likes         []Like         `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ============================
// 🔷 GORM Registration Model
//
// One row per (event, email, date). Open-ended events register under an
// empty date.
type Registration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index:idx_event_email_date,unique" json:"event_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Email     string    `gorm:"type:varchar(255);not null;index:idx_event_email_date,unique" json:"email"`
	Date      string    `gorm:"type:varchar(10);index:idx_event_email_date,unique" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ============================
// 🔷 GORM Like Model
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index:idx_event_user,unique" json:"event_id"`
	UserID    uint      `gorm:"not null;index:idx_event_user,unique" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Latitude    *float64             `json:"latitude" binding:"required"`
	Longitude   *float64             `json:"longitude" binding:"required"`
	Address     string               `json:"address"`
	Schedules   []discovery.Schedule `json:"schedules"`
	IsOpenEnded bool                 `json:"is_open_ended"`
	Occupancy   int                  `json:"occupancy"`
	Price       float64              `json:"price"`
	Category    string               `json:"category" binding:"required"`
	ImageURLs   []string             `json:"image_urls"`
	CardColor   string               `json:"card_color"`
}

// ============================
// 🟡 Register Request
type RegisterRequest struct {
	Date string `json:"date"`
}

// ScheduleAvailability pairs a schedule entry with how many spots remain
// on that date.
type ScheduleAvailability struct {
	discovery.Schedule
	SpotsLeft int  `json:"spots_left"`
	Unlimited bool `json:"unlimited"`
}

// EventDetail is the single-event response, annotated with distance when
// the viewer shared a location.
type EventDetail struct {
	Event        *Event                 `json:"event"`
	DistanceKm   *float64               `json:"distance_km,omitempty"`
	Availability []ScheduleAvailability `json:"availability"`
	IsRegistered bool                   `json:"is_registered"`
	IsLiked      bool                   `json:"is_liked"`
}

// ToRecord converts the stored event into the plain snapshot the
// discovery engine works on.
func (e *Event) ToRecord() discovery.EventRecord {
	rec := discovery.EventRecord{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		IsOpenEnded: e.IsOpenEnded,
		Occupancy:   e.Occupancy,
		Price:       e.Price,
		Category:    e.Category,
		HostID:      e.HostID,
		HostEmail:   e.HostEmail,
	}

	if e.Latitude != nil && e.Longitude != nil {
		rec.Location = &discovery.Place{
			Coordinate: discovery.Coordinate{Latitude: *e.Latitude, Longitude: *e.Longitude},
			Address:    e.Address,
		}
	}

	if len(e.Schedules) > 0 {
		// A corrupt schedules column is treated as no schedules; the
		// engine then reports the event closed unless open-ended.
		_ = json.Unmarshal(e.Schedules, &rec.Schedules)
	}

	for _, reg := range e.Registrations {
		rec.Registered = append(rec.Registered, discovery.Registration{Email: reg.Email, Date: reg.Date})
	}
	for _, like := range e.Likes {
		rec.LikedBy = append(rec.LikedBy, strconv.FormatUint(uint64(like.UserID), 10))
	}

	return rec
}

// DecodeSchedules returns the schedules column as typed entries.
func (e *Event) DecodeSchedules() []discovery.Schedule {
	var schedules []discovery.Schedule
	if len(e.Schedules) > 0 {
		_ = json.Unmarshal(e.Schedules, &schedules)
	}
	return schedules
}
