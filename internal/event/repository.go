package event

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors surfaced by registration and lookups. The capacity pair
// matches what the advisory check in the discovery engine predicts, but the
// repository re-checks under a row lock so concurrent registrations can't
// oversell an event.
var (
	ErrNotFound          = errors.New("event not found")
	ErrEventFull         = errors.New("event is full for this date")
	ErrAlreadyRegistered = errors.New("already registered for this date")
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uint) (*Event, error)
	ListAll(ctx context.Context) ([]Event, error)
	ListByHostEmail(ctx context.Context, email string) ([]Event, error)
	ListRegisteredByEmail(ctx context.Context, email string) ([]Event, error)
	Delete(ctx context.Context, id uint) error

	RegisterForDate(ctx context.Context, eventID, userID uint, email, date string) error
	CountRegistrations(ctx context.Context, eventID uint, date string) (int64, error)
	ToggleLike(ctx context.Context, eventID, userID uint) (liked bool, likesCount int, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ===========================
// 🎯 Create Event
func (r *repository) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ===========================
// 🔍 Get Event By ID
func (r *repository) GetByID(ctx context.Context, id uint) (*Event, error) {
	var e Event
	err := r.db.WithContext(ctx).
		Preload("Registrations").
		Preload("Likes").
		First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ===========================
// 📋 List All Events
//
// The nearby feed filters in memory, so the snapshot carries registrations
// and likes along.
func (r *repository) ListAll(ctx context.Context) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Preload("Registrations").
		Preload("Likes").
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// ===========================
// 🏠 List Events By Host
func (r *repository) ListByHostEmail(ctx context.Context, email string) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Preload("Registrations").
		Preload("Likes").
		Where("host_email = ?", email).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// ===========================
// 🎟️ List Events a User Registered For
func (r *repository) ListRegisteredByEmail(ctx context.Context, email string) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Preload("Registrations").
		Preload("Likes").
		Joins("JOIN registrations ON registrations.event_id = events.id").
		Where("registrations.email = ?", email).
		Distinct("events.*").
		Find(&events).Error
	return events, err
}

// ===========================
// 🗑️ Delete Event
func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ===========================
// 🎟️ Register For Date (atomic)
//
// Locks the event row, re-checks the duplicate and capacity invariants
// inside the transaction, then inserts. Two racing registrations for the
// last spot serialize on the lock and the loser gets ErrEventFull.
func (r *repository) RegisterForDate(ctx context.Context, eventID, userID uint, email, date string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, eventID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var dup int64
		if err := tx.Model(&Registration{}).
			Where("event_id = ? AND email = ? AND date = ?", eventID, email, date).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyRegistered
		}

		if e.Occupancy > 0 {
			var taken int64
			if err := tx.Model(&Registration{}).
				Where("event_id = ? AND date = ?", eventID, date).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken >= int64(e.Occupancy) {
				return ErrEventFull
			}
		}

		return tx.Create(&Registration{
			EventID: eventID,
			UserID:  userID,
			Email:   email,
			Date:    date,
		}).Error
	})
}

func (r *repository) CountRegistrations(ctx context.Context, eventID uint, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Registration{}).
		Where("event_id = ? AND date = ?", eventID, date).
		Count(&count).Error
	return count, err
}

// ===========================
// ❤️ Toggle Like
func (r *repository) ToggleLike(ctx context.Context, eventID, userID uint) (bool, int, error) {
	var liked bool
	var likesCount int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, eventID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var existing Like
		err = tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&Like{EventID: eventID, UserID: userID}).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}

		var count int64
		if err := tx.Model(&Like{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		likesCount = int(count)

		// Denormalized so the feed can read it without joining likes.
		return tx.Model(&Event{}).Where("id = ?", eventID).Update("likes_count", likesCount).Error
	})

	return liked, likesCount, err
}
